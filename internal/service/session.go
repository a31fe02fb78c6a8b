package service

import (
	"context"

	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
)

// Session provides first-party login, logout and refresh for the server's
// own UI and API clients. Sessions reuse the same opaque token pairs the
// grant flows issue, bound to the configured session client id.
type Session struct {
	grant      *Grant
	auth       *Auth
	tokenStore model.TokenStore
	clientID   string
	logger     *logger.Logger
}

func NewSession(grant *Grant, auth *Auth, tokenStore model.TokenStore, clientID string, logger *logger.Logger) *Session {
	return &Session{
		grant:      grant,
		auth:       auth,
		tokenStore: tokenStore,
		clientID:   clientID,
		logger:     logger,
	}
}

// Login verifies the credentials and issues a token pair.
func (s *Session) Login(ctx context.Context, email, password string) (TokenResponse, error) {
	user, err := s.auth.UserByCredentials(ctx, email, password)
	if err != nil {
		return TokenResponse{}, err
	}

	s.logger.Info("Session service: user logged in", "user_id", user.ID)

	return s.grant.IssuePair(ctx, s.clientID, user.ID, "", true)
}

// Logout revokes the presented refresh token. Logging out an already
// revoked session is a non-event.
func (s *Session) Logout(ctx context.Context, refreshToken string) error {
	if err := s.tokenStore.RevokeByRefreshToken(ctx, refreshToken); err != nil {
		s.logger.Error("Session service: failed to revoke refresh token", "error", err.Error())
		return err
	}
	return nil
}

// Refresh rotates the session's refresh token and returns a new pair.
func (s *Session) Refresh(ctx context.Context, refreshToken string) (TokenResponse, error) {
	old, err := s.grant.lookupRefresh(ctx, refreshToken)
	if err != nil {
		return TokenResponse{}, err
	}

	return s.grant.rotateRefresh(ctx, old)
}
