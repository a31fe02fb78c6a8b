package service

import (
	"context"
	"crypto/subtle"
	"errors"
	"math"
	"net/url"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/scope"
	"github.com/dtroode/authkeeper/internal/token"
)

// GrantConfig carries grant artifact lifetimes.
type GrantConfig struct {
	AccessTokenTTL       time.Duration
	RefreshTokenTTL      time.Duration
	AuthorizationCodeTTL time.Duration
}

// Grant implements the four OAuth2 grant flows as short-lived pipelines
// over the credential store. It holds no per-request state: every call is a
// function of (request, store contents).
type Grant struct {
	clientStore model.ClientStore
	tokenStore  model.TokenStore
	codeStore   model.AuthorizationCodeStore
	auth        *Auth
	signer      *token.StateSigner
	config      GrantConfig
	logger      *logger.Logger
}

func NewGrant(
	clientStore model.ClientStore,
	tokenStore model.TokenStore,
	codeStore model.AuthorizationCodeStore,
	auth *Auth,
	signer *token.StateSigner,
	config GrantConfig,
	logger *logger.Logger,
) *Grant {
	return &Grant{
		clientStore: clientStore,
		tokenStore:  tokenStore,
		codeStore:   codeStore,
		auth:        auth,
		signer:      signer,
		config:      config,
		logger:      logger,
	}
}

// AuthorizeRequest carries the validated query parameters of an
// authorization request.
type AuthorizeRequest struct {
	ClientID     string
	ResponseType string
	RedirectURI  string
	Scope        string
	State        string
}

// TokenRequest carries the parameters of a token endpoint call. Client
// credentials come from either Basic auth or the form body.
type TokenRequest struct {
	GrantType    string
	ClientID     string
	ClientSecret string
	Code         string
	RedirectURI  string
	Username     string
	Password     string
	Scope        string
	RefreshToken string
}

// TokenResponse is the token endpoint success body. RefreshToken is absent
// for client_credentials grants.
type TokenResponse struct {
	AccessToken  string `json:"access_token"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int    `json:"expires_in"`
	RefreshToken string `json:"refresh_token,omitempty"`
	Scope        string `json:"scope,omitempty"`
}

// clientByID resolves a client, optionally matching its secret. Clients
// whose grants do not include authorization_code come back with their
// redirect URIs stripped, so a code can never be bound for them.
func (g *Grant) clientByID(ctx context.Context, id, secret string, matchSecret bool) (model.Client, error) {
	client, err := g.clientStore.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Client{}, apierrors.NewOAuthInvalidClient()
		}
		g.logger.Error("Grant service: failed to get client", "client_id", id, "error", err.Error())
		return model.Client{}, apierrors.NewOAuthServerError()
	}

	if matchSecret && subtle.ConstantTimeCompare([]byte(client.Secret), []byte(secret)) != 1 {
		return model.Client{}, apierrors.NewOAuthInvalidClient()
	}

	if !client.AllowsGrant(model.GrantAuthorizationCode) {
		client.RedirectURIs = nil
	}

	return client, nil
}

// Authorize begins the authorization code flow: it validates the request
// parameters against the client registration and produces a signed flow
// state that carries them to the login step.
func (g *Grant) Authorize(ctx context.Context, req AuthorizeRequest) (string, error) {
	if req.ClientID == "" || req.RedirectURI == "" {
		return "", apierrors.NewOAuthInvalidRequest("client_id and redirect_uri are required")
	}
	if req.ResponseType != "code" {
		return "", apierrors.NewOAuthUnsupportedResponseType(req.ResponseType)
	}

	client, err := g.clientByID(ctx, req.ClientID, "", false)
	if err != nil {
		return "", err
	}

	if !client.AllowsRedirectURI(req.RedirectURI) {
		return "", apierrors.NewOAuthInvalidRequest("redirect_uri is not registered for the client")
	}

	// The granted scope is pinned here: it rides the signed state into the
	// code and then into the token, so the check must happen before signing.
	granted, ok := scope.Validate(req.Scope, client.Scopes)
	if !ok {
		return "", apierrors.NewOAuthInvalidScope()
	}

	state, err := g.signer.Sign(token.FlowState{
		ClientID:    client.ID,
		RedirectURI: req.RedirectURI,
		Scope:       granted,
		State:       req.State,
	})
	if err != nil {
		g.logger.Error("Grant service: failed to sign flow state", "client_id", client.ID, "error", err.Error())
		return "", apierrors.NewOAuthServerError()
	}

	return state, nil
}

// Login authenticates the resource owner mid-flow and binds them to the
// carried state. Credential failures surface as one generic rejection.
func (g *Grant) Login(ctx context.Context, flowState, email, password string) (string, error) {
	state, err := g.signer.Parse(flowState)
	if err != nil {
		return "", apierrors.NewOAuthInvalidRequest("invalid or expired state")
	}

	if email == "" || password == "" {
		return "", apierrors.NewErrBadParameters("email and password are required")
	}

	user, err := g.auth.UserByCredentials(ctx, email, password)
	if err != nil {
		return "", err
	}

	state.UserID = user.ID
	signed, err := g.signer.Sign(state)
	if err != nil {
		g.logger.Error("Grant service: failed to re-sign flow state", "client_id", state.ClientID, "error", err.Error())
		return "", apierrors.NewOAuthServerError()
	}

	g.logger.Info("Grant service: resource owner authenticated",
		"client_id", state.ClientID,
		"user_id", user.ID)

	return signed, nil
}

// FlowClient resolves the carried state and its client for the consent
// page.
func (g *Grant) FlowClient(ctx context.Context, flowState string) (model.Client, token.FlowState, error) {
	state, err := g.signer.Parse(flowState)
	if err != nil {
		return model.Client{}, token.FlowState{}, apierrors.NewOAuthInvalidRequest("invalid or expired state")
	}

	client, err := g.clientByID(ctx, state.ClientID, "", false)
	if err != nil {
		return model.Client{}, token.FlowState{}, err
	}

	return client, state, nil
}

// Grant finishes the consent step. It returns the redirect URL to send the
// resource owner back to: on approval it carries a fresh single-use code,
// on refusal an access_denied error. The client's state parameter rides
// along when present.
func (g *Grant) Grant(ctx context.Context, flowState string, allow bool) (string, error) {
	state, err := g.signer.Parse(flowState)
	if err != nil {
		return "", apierrors.NewOAuthInvalidRequest("invalid or expired state")
	}
	if state.UserID == uuid.Nil {
		return "", apierrors.NewOAuthInvalidRequest("login is required before consent")
	}

	if !allow {
		return redirectWith(state.RedirectURI, state.State, "error", apierrors.OAuthAccessDenied)
	}

	code, err := mint.NewOpaque()
	if err != nil {
		g.logger.Error("Grant service: failed to mint authorization code", "client_id", state.ClientID, "error", err.Error())
		return "", apierrors.NewOAuthServerError()
	}

	now := time.Now()
	err = g.codeStore.Create(ctx, model.AuthorizationCode{
		Code:        code,
		ExpiresAt:   now.Add(g.config.AuthorizationCodeTTL),
		RedirectURI: state.RedirectURI,
		Scope:       state.Scope,
		ClientID:    state.ClientID,
		UserID:      state.UserID,
		CreatedAt:   now,
	})
	if err != nil {
		g.logger.Error("Grant service: failed to persist authorization code", "client_id", state.ClientID, "error", err.Error())
		return "", apierrors.NewOAuthServerError()
	}

	g.logger.Info("Grant service: authorization code issued",
		"client_id", state.ClientID,
		"user_id", state.UserID)

	return redirectWith(state.RedirectURI, state.State, "code", code)
}

// Exchange implements the token endpoint: it dispatches on grant_type and
// returns the token response or a protocol error. Failures are final per
// request; the caller re-initiates the whole flow.
func (g *Grant) Exchange(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	switch req.GrantType {
	case model.GrantAuthorizationCode:
		return g.exchangeCode(ctx, req)
	case model.GrantPassword:
		return g.exchangePassword(ctx, req)
	case model.GrantClientCredentials:
		return g.exchangeClientCredentials(ctx, req)
	case model.GrantRefreshToken:
		return g.exchangeRefresh(ctx, req)
	default:
		return TokenResponse{}, apierrors.NewOAuthUnsupportedGrantType(req.GrantType)
	}
}

func (g *Grant) exchangeCode(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	client, err := g.clientByID(ctx, req.ClientID, req.ClientSecret, true)
	if err != nil {
		return TokenResponse{}, err
	}
	if !client.AllowsGrant(model.GrantAuthorizationCode) {
		return TokenResponse{}, apierrors.NewOAuthUnsupportedGrantType(req.GrantType)
	}
	if req.Code == "" || req.RedirectURI == "" {
		return TokenResponse{}, apierrors.NewOAuthInvalidRequest("code and redirect_uri are required")
	}

	// Consuming deletes the record: single use is enforced by the store,
	// not by a flag, so concurrent redemptions race on the delete and only
	// one wins.
	code, err := g.codeStore.Consume(ctx, req.Code)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
		}
		g.logger.Error("Grant service: failed to consume authorization code", "client_id", client.ID, "error", err.Error())
		return TokenResponse{}, apierrors.NewOAuthServerError()
	}

	if code.Expired(time.Now()) {
		return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
	}
	if code.ClientID != client.ID {
		return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
	}
	if code.RedirectURI != req.RedirectURI {
		return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
	}

	return g.IssuePair(ctx, client.ID, code.UserID, code.Scope, true)
}

func (g *Grant) exchangePassword(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	client, err := g.clientByID(ctx, req.ClientID, req.ClientSecret, true)
	if err != nil {
		return TokenResponse{}, err
	}
	if !client.AllowsGrant(model.GrantPassword) {
		return TokenResponse{}, apierrors.NewOAuthUnsupportedGrantType(req.GrantType)
	}
	if req.Username == "" || req.Password == "" {
		return TokenResponse{}, apierrors.NewOAuthInvalidRequest("username and password are required")
	}

	user, err := g.auth.UserByCredentials(ctx, req.Username, req.Password)
	if err != nil {
		// Same rejection whether the account is unknown, disabled or the
		// password is wrong.
		return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
	}

	granted, ok := scope.Validate(req.Scope, client.Scopes)
	if !ok {
		return TokenResponse{}, apierrors.NewOAuthInvalidScope()
	}

	return g.IssuePair(ctx, client.ID, user.ID, granted, true)
}

func (g *Grant) exchangeClientCredentials(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	client, err := g.clientByID(ctx, req.ClientID, req.ClientSecret, true)
	if err != nil {
		return TokenResponse{}, err
	}
	if !client.AllowsGrant(model.GrantClientCredentials) {
		return TokenResponse{}, apierrors.NewOAuthUnsupportedGrantType(req.GrantType)
	}

	granted, ok := scope.Validate(req.Scope, client.Scopes)
	if !ok {
		return TokenResponse{}, apierrors.NewOAuthInvalidScope()
	}

	// Machine-to-machine tokens are not a renewable user session: no
	// refresh token, no bound user.
	return g.IssuePair(ctx, client.ID, uuid.Nil, granted, false)
}

func (g *Grant) exchangeRefresh(ctx context.Context, req TokenRequest) (TokenResponse, error) {
	client, err := g.clientByID(ctx, req.ClientID, req.ClientSecret, true)
	if err != nil {
		return TokenResponse{}, err
	}
	if !client.AllowsGrant(model.GrantRefreshToken) {
		return TokenResponse{}, apierrors.NewOAuthUnsupportedGrantType(req.GrantType)
	}
	if req.RefreshToken == "" {
		return TokenResponse{}, apierrors.NewOAuthInvalidRequest("refresh_token is required")
	}

	old, err := g.lookupRefresh(ctx, req.RefreshToken)
	if err != nil {
		return TokenResponse{}, err
	}
	if old.ClientID != client.ID {
		return TokenResponse{}, apierrors.NewOAuthInvalidGrant()
	}

	return g.rotateRefresh(ctx, old)
}

// lookupRefresh resolves a presented refresh token to a live record. An
// absent, revoked or expired token is an invalid grant.
func (g *Grant) lookupRefresh(ctx context.Context, refreshToken string) (model.Token, error) {
	old, err := g.tokenStore.GetByRefreshToken(ctx, refreshToken)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Token{}, apierrors.NewOAuthInvalidGrant()
		}
		g.logger.Error("Grant service: failed to get refresh token", "error", err.Error())
		return model.Token{}, apierrors.NewOAuthServerError()
	}
	if old.RefreshTokenExpired(time.Now()) {
		return model.Token{}, apierrors.NewOAuthInvalidGrant()
	}
	return old, nil
}

// rotateRefresh revokes the old refresh token and issues a new pair for
// the same client, user and scope. The old token is dead before the new
// one exists: a reused refresh token fails hard with no grace window.
func (g *Grant) rotateRefresh(ctx context.Context, old model.Token) (TokenResponse, error) {
	if err := g.tokenStore.RevokeByRefreshToken(ctx, old.RefreshToken); err != nil {
		g.logger.Error("Grant service: failed to revoke refresh token", "client_id", old.ClientID, "error", err.Error())
		return TokenResponse{}, apierrors.NewOAuthServerError()
	}

	return g.IssuePair(ctx, old.ClientID, old.UserID, old.Scope, true)
}

// IssuePair mints and persists an access token, optionally paired with a
// refresh token living strictly longer.
func (g *Grant) IssuePair(ctx context.Context, clientID string, userID uuid.UUID, grantedScope string, withRefresh bool) (TokenResponse, error) {
	access, err := mint.NewOpaque()
	if err != nil {
		g.logger.Error("Grant service: failed to mint access token", "client_id", clientID, "error", err.Error())
		return TokenResponse{}, apierrors.NewOAuthServerError()
	}

	now := time.Now()
	tok := model.Token{
		AccessToken:          access,
		AccessTokenExpiresAt: now.Add(g.config.AccessTokenTTL),
		Scope:                grantedScope,
		ClientID:             clientID,
		UserID:               userID,
		CreatedAt:            now,
	}

	if withRefresh {
		refresh, err := mint.NewOpaque()
		if err != nil {
			g.logger.Error("Grant service: failed to mint refresh token", "client_id", clientID, "error", err.Error())
			return TokenResponse{}, apierrors.NewOAuthServerError()
		}
		refreshExpiresAt := now.Add(g.config.RefreshTokenTTL)
		tok.RefreshToken = refresh
		tok.RefreshTokenExpiresAt = &refreshExpiresAt
	}

	if err := g.tokenStore.Create(ctx, tok); err != nil {
		g.logger.Error("Grant service: failed to persist token", "client_id", clientID, "error", err.Error())
		return TokenResponse{}, apierrors.NewOAuthServerError()
	}

	g.logger.Info("Grant service: token issued",
		"client_id", clientID,
		"user_id", userID,
		"scope", grantedScope)

	return TokenResponse{
		AccessToken:  tok.AccessToken,
		TokenType:    "Bearer",
		ExpiresIn:    int(math.Ceil(time.Until(tok.AccessTokenExpiresAt).Seconds())),
		RefreshToken: tok.RefreshToken,
		Scope:        tok.Scope,
	}, nil
}

func redirectWith(redirectURI, state, key, value string) (string, error) {
	u, err := url.Parse(redirectURI)
	if err != nil {
		return "", apierrors.NewOAuthInvalidRequest("invalid redirect_uri")
	}

	q := u.Query()
	q.Set(key, value)
	if state != "" {
		q.Set("state", state)
	}
	u.RawQuery = q.Encode()

	return u.String(), nil
}
