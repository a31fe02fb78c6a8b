package middleware

import (
	"context"
	"net/http"
	"strings"

	"github.com/dtroode/authkeeper/internal/api/http/handler"
	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// Authenticator resolves a bearer string to the token and its bound user.
type Authenticator interface {
	AuthenticateUser(ctx context.Context, bearer string) (model.Token, model.User, error)
}

// Authenticate validates bearer tokens and injects the identity into the
// request context.
type Authenticate struct {
	auth           Authenticator
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewAuthenticate creates a new Authenticate middleware instance.
func NewAuthenticate(auth Authenticator, contextManager model.ContextManager, logger *logger.Logger) *Authenticate {
	return &Authenticate{auth: auth, contextManager: contextManager, logger: logger}
}

// Handle parses the Authorization header, resolves the token and continues
// with the identity on the context.
func (m *Authenticate) Handle(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		bearer := strings.TrimPrefix(r.Header.Get("Authorization"), "Bearer ")

		token, user, err := m.auth.AuthenticateUser(r.Context(), bearer)
		if err != nil {
			handler.RenderError(w, err)
			return
		}

		ctx := m.contextManager.SetUserToContext(r.Context(), user)
		ctx = m.contextManager.SetTokenToContext(ctx, token)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

// RequireRoles rejects authenticated users that hold none of the given
// roles. It must run after Authenticate.
func RequireRoles(contextManager model.ContextManager, roles ...string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			user, ok := contextManager.GetUserFromContext(r.Context())
			if !ok {
				handler.RenderError(w, apierrors.NewErrMissingAuthorizationToken())
				return
			}
			if !user.HasAnyRole(roles...) {
				handler.RenderError(w, apierrors.NewErrForbidden())
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
