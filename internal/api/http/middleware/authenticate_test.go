package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	httpctx "github.com/dtroode/authkeeper/internal/api/http/context"
	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/testutil"
)

type fakeAuthenticator struct {
	token model.Token
	user  model.User
	err   error
}

func (f *fakeAuthenticator) AuthenticateUser(ctx context.Context, bearer string) (model.Token, model.User, error) {
	if f.err != nil {
		return model.Token{}, model.User{}, f.err
	}
	return f.token, f.user, nil
}

func TestAuthenticate_Handle_InjectsIdentity(t *testing.T) {
	user := model.User{ID: uuid.New(), Email: "owner@example.com"}
	auth := &fakeAuthenticator{token: model.Token{AccessToken: "live"}, user: user}
	ctxMgr := httpctx.NewManager()

	m := NewAuthenticate(auth, ctxMgr, testutil.MakeNoopLogger())

	var gotUser model.User
	var gotOK bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUser, gotOK = ctxMgr.GetUserFromContext(r.Context())
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer live")
	rec := httptest.NewRecorder()

	m.Handle(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	require.True(t, gotOK)
	assert.Equal(t, user.ID, gotUser.ID)
}

func TestAuthenticate_Handle_RejectsBadToken(t *testing.T) {
	auth := &fakeAuthenticator{err: apierrors.NewErrInvalidAuthorizationToken()}
	m := NewAuthenticate(auth, httpctx.NewManager(), testutil.MakeNoopLogger())

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Fatal("next handler must not run")
	})

	req := httptest.NewRequest(http.MethodGet, "/api/user", nil)
	req.Header.Set("Authorization", "Bearer stale")
	rec := httptest.NewRecorder()

	m.Handle(next).ServeHTTP(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Contains(t, rec.Body.String(), "unauthenticated")
}

func TestRequireRoles(t *testing.T) {
	ctxMgr := httpctx.NewManager()
	mw := RequireRoles(ctxMgr, model.RoleAdmin, model.RoleManager)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing identity", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("insufficient role", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req = req.WithContext(ctxMgr.SetUserToContext(req.Context(), model.User{ID: uuid.New()}))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusForbidden, rec.Code)
	})

	t.Run("matching role", func(t *testing.T) {
		admin := model.User{ID: uuid.New(), Roles: map[string]bool{model.RoleAdmin: true}}
		req := httptest.NewRequest(http.MethodGet, "/api/users", nil)
		req = req.WithContext(ctxMgr.SetUserToContext(req.Context(), admin))
		rec := httptest.NewRecorder()

		mw(next).ServeHTTP(rec, req)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}
