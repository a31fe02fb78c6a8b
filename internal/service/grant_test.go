package service

import (
	"context"
	"net/url"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/mocks"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/testutil"
	"github.com/dtroode/authkeeper/internal/token"
)

type grantFixture struct {
	grant   *Grant
	users   *mocks.UserStore
	clients *mocks.ClientStore
	tokens  *mocks.TokenStore
	codes   *mocks.AuthorizationCodeStore
	signer  *token.StateSigner
}

func newGrantFixture(t *testing.T) *grantFixture {
	t.Helper()

	users := &mocks.UserStore{}
	clients := &mocks.ClientStore{}
	tokens := &mocks.TokenStore{}
	codes := &mocks.AuthorizationCodeStore{}
	log := testutil.MakeNoopLogger()
	signer := token.NewStateSigner("test-secret", time.Minute)

	auth := NewAuth(users, tokens, log)
	grant := NewGrant(clients, tokens, codes, auth, signer, GrantConfig{
		AccessTokenTTL:       2 * time.Hour,
		RefreshTokenTTL:      14 * 24 * time.Hour,
		AuthorizationCodeTTL: 30 * time.Second,
	}, log)

	return &grantFixture{grant: grant, users: users, clients: clients, tokens: tokens, codes: codes, signer: signer}
}

func makeTestUser(t *testing.T, password string) model.User {
	t.Helper()

	salt, err := mint.NewSalt()
	require.NoError(t, err)

	return model.User{
		ID:       uuid.New(),
		Email:    "owner@example.com",
		Password: mint.HashPassword(password, salt),
		Salt:     salt,
	}
}

func assertOAuthError(t *testing.T, err error, code string) {
	t.Helper()

	var oauthErr *apierrors.OAuth2Error
	require.ErrorAs(t, err, &oauthErr)
	assert.Equal(t, code, oauthErr.Code)
}

func TestGrant_Exchange_Password_Success(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	user := makeTestUser(t, "hunter2")
	client := model.Client{
		ID:     "web-app",
		Secret: "s3cret",
		Scopes: []string{"read", "write"},
		Grants: []string{model.GrantPassword},
	}

	f.clients.On("GetByID", mock.Anything, "web-app").Return(client, nil)
	f.users.On("GetByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	var stored model.Token
	f.tokens.On("Create", mock.Anything, mock.AnythingOfType("model.Token")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(model.Token) }).
		Return(nil)

	resp, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "owner@example.com",
		Password:     "hunter2",
		Scope:        "read",
	})
	require.NoError(t, err)

	assert.Len(t, resp.AccessToken, 64)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.NotEqual(t, resp.AccessToken, resp.RefreshToken)
	assert.Equal(t, "Bearer", resp.TokenType)
	assert.Equal(t, "read", resp.Scope)
	assert.InDelta(t, 7200, resp.ExpiresIn, 2)

	assert.Equal(t, user.ID, stored.UserID)
	assert.Equal(t, "web-app", stored.ClientID)
	require.NotNil(t, stored.RefreshTokenExpiresAt)
	assert.True(t, stored.RefreshTokenExpiresAt.After(stored.AccessTokenExpiresAt))
}

func TestGrant_Exchange_Password_WrongPassword(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	user := makeTestUser(t, "hunter2")
	client := model.Client{ID: "web-app", Secret: "s3cret", Grants: []string{model.GrantPassword}}

	f.clients.On("GetByID", mock.Anything, "web-app").Return(client, nil)
	f.users.On("GetByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "owner@example.com",
		Password:     "wrong",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Password_UnknownAndDisabledLookAlike(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	disabled := makeTestUser(t, "hunter2")
	disabled.Disabled = true
	client := model.Client{ID: "web-app", Secret: "s3cret", Grants: []string{model.GrantPassword}}

	f.clients.On("GetByID", mock.Anything, "web-app").Return(client, nil)
	f.users.On("GetByEmail", mock.Anything, "owner@example.com").Return(disabled, nil)
	f.users.On("GetByEmail", mock.Anything, "nobody@example.com").Return(model.User{}, model.ErrNotFound)

	_, errDisabled := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "owner@example.com",
		Password:     "hunter2",
	})
	_, errUnknown := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "nobody@example.com",
		Password:     "hunter2",
	})

	assertOAuthError(t, errDisabled, apierrors.OAuthInvalidGrant)
	assertOAuthError(t, errUnknown, apierrors.OAuthInvalidGrant)
	assert.Equal(t, errDisabled.Error(), errUnknown.Error())
}

func TestGrant_Exchange_Password_InvalidScope(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	user := makeTestUser(t, "hunter2")
	client := model.Client{
		ID:     "web-app",
		Secret: "s3cret",
		Scopes: []string{"read"},
		Grants: []string{model.GrantPassword},
	}

	f.clients.On("GetByID", mock.Anything, "web-app").Return(client, nil)
	f.users.On("GetByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "web-app",
		ClientSecret: "s3cret",
		Username:     "owner@example.com",
		Password:     "hunter2",
		Scope:        "read admin",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidScope)
}

func TestGrant_Exchange_Password_GrantNotRegistered(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "machine", Secret: "s3cret", Grants: []string{model.GrantClientCredentials}}
	f.clients.On("GetByID", mock.Anything, "machine").Return(client, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantPassword,
		ClientID:     "machine",
		ClientSecret: "s3cret",
		Username:     "owner@example.com",
		Password:     "hunter2",
	})
	assertOAuthError(t, err, apierrors.OAuthUnsupportedGrantType)
}

func TestGrant_Exchange_ClientCredentials_NoRefreshNoUser(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{
		ID:     "machine",
		Secret: "s3cret",
		Scopes: []string{"sync"},
		Grants: []string{model.GrantClientCredentials},
	}
	f.clients.On("GetByID", mock.Anything, "machine").Return(client, nil)

	var stored model.Token
	f.tokens.On("Create", mock.Anything, mock.AnythingOfType("model.Token")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(model.Token) }).
		Return(nil)

	resp, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantClientCredentials,
		ClientID:     "machine",
		ClientSecret: "s3cret",
		Scope:        "sync",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.Empty(t, resp.RefreshToken)
	assert.Equal(t, "sync", resp.Scope)

	assert.Equal(t, uuid.Nil, stored.UserID)
	assert.Empty(t, stored.RefreshToken)
	assert.Nil(t, stored.RefreshTokenExpiresAt)
}

func TestGrant_Exchange_WrongClientSecret(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "machine", Secret: "s3cret", Grants: []string{model.GrantClientCredentials}}
	f.clients.On("GetByID", mock.Anything, "machine").Return(client, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantClientCredentials,
		ClientID:     "machine",
		ClientSecret: "wrong",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidClient)
}

func TestGrant_Exchange_UnknownClient(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	f.clients.On("GetByID", mock.Anything, "ghost").Return(model.Client{}, model.ErrNotFound)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantClientCredentials,
		ClientID:     "ghost",
		ClientSecret: "s3cret",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidClient)
}

func TestGrant_Exchange_UnsupportedGrantType(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	_, err := f.grant.Exchange(ctx, TokenRequest{GrantType: "implicit"})
	assertOAuthError(t, err, apierrors.OAuthUnsupportedGrantType)
}

func codeFlowClient() model.Client {
	return model.Client{
		ID:           "web-app",
		Secret:       "s3cret",
		RedirectURIs: []string{"https://app.example/callback"},
		Scopes:       []string{"read", "write"},
		Grants:       []string{model.GrantAuthorizationCode, model.GrantRefreshToken},
	}
}

func TestGrant_Exchange_Code_Success(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	userID := uuid.New()
	code := model.AuthorizationCode{
		Code:        "cafebabe",
		ExpiresAt:   time.Now().Add(30 * time.Second),
		RedirectURI: "https://app.example/callback",
		Scope:       "read",
		ClientID:    client.ID,
		UserID:      userID,
	}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.codes.On("Consume", mock.Anything, "cafebabe").Return(code, nil)

	var stored model.Token
	f.tokens.On("Create", mock.Anything, mock.AnythingOfType("model.Token")).
		Run(func(args mock.Arguments) { stored = args.Get(1).(model.Token) }).
		Return(nil)

	resp, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantAuthorizationCode,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		Code:         "cafebabe",
		RedirectURI:  "https://app.example/callback",
	})
	require.NoError(t, err)

	assert.NotEmpty(t, resp.AccessToken)
	assert.NotEmpty(t, resp.RefreshToken)
	assert.Equal(t, "read", resp.Scope)
	assert.Equal(t, userID, stored.UserID)
}

func TestGrant_Exchange_Code_AlreadyConsumed(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.codes.On("Consume", mock.Anything, "cafebabe").Return(model.AuthorizationCode{}, model.ErrNotFound)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantAuthorizationCode,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		Code:         "cafebabe",
		RedirectURI:  "https://app.example/callback",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Code_Expired(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	code := model.AuthorizationCode{
		Code:        "cafebabe",
		ExpiresAt:   time.Now().Add(-time.Second),
		RedirectURI: "https://app.example/callback",
		ClientID:    client.ID,
		UserID:      uuid.New(),
	}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.codes.On("Consume", mock.Anything, "cafebabe").Return(code, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantAuthorizationCode,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		Code:         "cafebabe",
		RedirectURI:  "https://app.example/callback",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Code_RedirectMismatch(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	code := model.AuthorizationCode{
		Code:        "cafebabe",
		ExpiresAt:   time.Now().Add(30 * time.Second),
		RedirectURI: "https://app.example/callback",
		ClientID:    client.ID,
		UserID:      uuid.New(),
	}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.codes.On("Consume", mock.Anything, "cafebabe").Return(code, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantAuthorizationCode,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		Code:         "cafebabe",
		RedirectURI:  "https://evil.example/callback",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Code_ClientMismatch(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	other := codeFlowClient()
	other.ID = "other-app"
	code := model.AuthorizationCode{
		Code:        "cafebabe",
		ExpiresAt:   time.Now().Add(30 * time.Second),
		RedirectURI: "https://app.example/callback",
		ClientID:    "web-app",
		UserID:      uuid.New(),
	}

	f.clients.On("GetByID", mock.Anything, "other-app").Return(other, nil)
	f.codes.On("Consume", mock.Anything, "cafebabe").Return(code, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantAuthorizationCode,
		ClientID:     "other-app",
		ClientSecret: other.Secret,
		Code:         "cafebabe",
		RedirectURI:  "https://app.example/callback",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Refresh_Rotation(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "web-app", Secret: "s3cret", Grants: []string{model.GrantRefreshToken}}
	refreshExpiry := time.Now().Add(time.Hour)
	old := model.Token{
		AccessToken:           "old-access",
		RefreshToken:          "old-refresh",
		RefreshTokenExpiresAt: &refreshExpiry,
		Scope:                 "read",
		ClientID:              client.ID,
		UserID:                uuid.New(),
	}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.tokens.On("GetByRefreshToken", mock.Anything, "old-refresh").Return(old, nil)
	f.tokens.On("RevokeByRefreshToken", mock.Anything, "old-refresh").Return(nil)
	f.tokens.On("Create", mock.Anything, mock.AnythingOfType("model.Token")).Return(nil)

	resp, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantRefreshToken,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		RefreshToken: "old-refresh",
	})
	require.NoError(t, err)

	assert.NotEqual(t, "old-access", resp.AccessToken)
	assert.NotEqual(t, "old-refresh", resp.RefreshToken)
	assert.Equal(t, "read", resp.Scope)

	f.tokens.AssertCalled(t, "RevokeByRefreshToken", mock.Anything, "old-refresh")
}

func TestGrant_Exchange_Refresh_Reuse(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "web-app", Secret: "s3cret", Grants: []string{model.GrantRefreshToken}}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.tokens.On("GetByRefreshToken", mock.Anything, "rotated-away").Return(model.Token{}, model.ErrNotFound)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantRefreshToken,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		RefreshToken: "rotated-away",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Refresh_Expired(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "web-app", Secret: "s3cret", Grants: []string{model.GrantRefreshToken}}
	refreshExpiry := time.Now().Add(-time.Hour)
	old := model.Token{
		RefreshToken:          "stale-refresh",
		RefreshTokenExpiresAt: &refreshExpiry,
		ClientID:              client.ID,
	}

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.tokens.On("GetByRefreshToken", mock.Anything, "stale-refresh").Return(old, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantRefreshToken,
		ClientID:     client.ID,
		ClientSecret: client.Secret,
		RefreshToken: "stale-refresh",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Exchange_Refresh_ClientMismatch(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := model.Client{ID: "other-app", Secret: "s3cret", Grants: []string{model.GrantRefreshToken}}
	refreshExpiry := time.Now().Add(time.Hour)
	old := model.Token{
		RefreshToken:          "old-refresh",
		RefreshTokenExpiresAt: &refreshExpiry,
		ClientID:              "web-app",
	}

	f.clients.On("GetByID", mock.Anything, "other-app").Return(client, nil)
	f.tokens.On("GetByRefreshToken", mock.Anything, "old-refresh").Return(old, nil)

	_, err := f.grant.Exchange(ctx, TokenRequest{
		GrantType:    model.GrantRefreshToken,
		ClientID:     "other-app",
		ClientSecret: client.Secret,
		RefreshToken: "old-refresh",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidGrant)
}

func TestGrant_Authorize_Validation(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	_, err := f.grant.Authorize(ctx, AuthorizeRequest{ResponseType: "code", RedirectURI: "https://app.example/callback"})
	assertOAuthError(t, err, apierrors.OAuthInvalidRequest)

	_, err = f.grant.Authorize(ctx, AuthorizeRequest{ClientID: client.ID, ResponseType: "token", RedirectURI: "https://app.example/callback"})
	assertOAuthError(t, err, apierrors.OAuthUnsupportedResponseType)

	_, err = f.grant.Authorize(ctx, AuthorizeRequest{ClientID: client.ID, ResponseType: "code", RedirectURI: "https://evil.example/callback"})
	assertOAuthError(t, err, apierrors.OAuthInvalidRequest)
}

func TestGrant_Authorize_ScopeOutsideClientSet(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	// Scope is pinned at the start of the code flow: a request outside the
	// client's allowed set must fail here, before it can ride the flow
	// state into a code and come out of the token endpoint as granted.
	client := codeFlowClient()
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	_, err := f.grant.Authorize(ctx, AuthorizeRequest{
		ClientID:     client.ID,
		ResponseType: "code",
		RedirectURI:  "https://app.example/callback",
		Scope:        "admin",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidScope)

	// A single out-of-set token poisons the whole request.
	_, err = f.grant.Authorize(ctx, AuthorizeRequest{
		ClientID:     client.ID,
		ResponseType: "code",
		RedirectURI:  "https://app.example/callback",
		Scope:        "read admin",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidScope)
}

func TestGrant_Authorize_RedirectStrippedWithoutCodeGrant(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	// The client registered a redirect URI but not the authorization_code
	// grant, so the URI must not be usable.
	client := codeFlowClient()
	client.Grants = []string{model.GrantPassword}
	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)

	_, err := f.grant.Authorize(ctx, AuthorizeRequest{
		ClientID:     client.ID,
		ResponseType: "code",
		RedirectURI:  "https://app.example/callback",
	})
	assertOAuthError(t, err, apierrors.OAuthInvalidRequest)
}

func TestGrant_AuthorizeLoginGrant_Flow(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	client := codeFlowClient()
	user := makeTestUser(t, "hunter2")

	f.clients.On("GetByID", mock.Anything, client.ID).Return(client, nil)
	f.users.On("GetByEmail", mock.Anything, "owner@example.com").Return(user, nil)

	var storedCode model.AuthorizationCode
	f.codes.On("Create", mock.Anything, mock.AnythingOfType("model.AuthorizationCode")).
		Run(func(args mock.Arguments) { storedCode = args.Get(1).(model.AuthorizationCode) }).
		Return(nil)

	state, err := f.grant.Authorize(ctx, AuthorizeRequest{
		ClientID:     client.ID,
		ResponseType: "code",
		RedirectURI:  "https://app.example/callback",
		Scope:        "read",
		State:        "client-state",
	})
	require.NoError(t, err)

	loggedIn, err := f.grant.Login(ctx, state, "owner@example.com", "hunter2")
	require.NoError(t, err)

	redirect, err := f.grant.Grant(ctx, loggedIn, true)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, "app.example", u.Host)
	assert.Equal(t, storedCode.Code, u.Query().Get("code"))
	assert.Equal(t, "client-state", u.Query().Get("state"))

	assert.Equal(t, user.ID, storedCode.UserID)
	assert.Equal(t, "read", storedCode.Scope)
	assert.Equal(t, "https://app.example/callback", storedCode.RedirectURI)
	assert.WithinDuration(t, time.Now().Add(30*time.Second), storedCode.ExpiresAt, 2*time.Second)
}

func TestGrant_Grant_Denied(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	signed, err := f.signer.Sign(token.FlowState{
		ClientID:    "web-app",
		RedirectURI: "https://app.example/callback",
		State:       "client-state",
		UserID:      uuid.New(),
	})
	require.NoError(t, err)

	redirect, err := f.grant.Grant(ctx, signed, false)
	require.NoError(t, err)

	u, err := url.Parse(redirect)
	require.NoError(t, err)
	assert.Equal(t, apierrors.OAuthAccessDenied, u.Query().Get("error"))
	assert.Equal(t, "client-state", u.Query().Get("state"))
	assert.Empty(t, u.Query().Get("code"))

	f.codes.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestGrant_Grant_WithoutLogin(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	signed, err := f.signer.Sign(token.FlowState{
		ClientID:    "web-app",
		RedirectURI: "https://app.example/callback",
	})
	require.NoError(t, err)

	_, err = f.grant.Grant(ctx, signed, true)
	assertOAuthError(t, err, apierrors.OAuthInvalidRequest)
}

func TestGrant_Login_TamperedState(t *testing.T) {
	ctx := context.Background()
	f := newGrantFixture(t)

	_, err := f.grant.Login(ctx, "not-a-signed-state", "owner@example.com", "hunter2")
	assertOAuthError(t, err, apierrors.OAuthInvalidRequest)
}
