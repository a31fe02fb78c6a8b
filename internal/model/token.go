package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// TokenStore defines persistence operations for issued tokens.
// Create must fail on a duplicate opaque string rather than overwrite.
// RevokeByRefreshToken is idempotent: revoking an absent token is a non-event.
type TokenStore interface {
	Create(ctx context.Context, token Token) error
	GetByAccessToken(ctx context.Context, accessToken string) (Token, error)
	GetByRefreshToken(ctx context.Context, refreshToken string) (Token, error)
	RevokeByRefreshToken(ctx context.Context, refreshToken string) error
}

// Token pairs an access token with an optional refresh token, bound to a
// client and, for user-delegated grants, a user. UserID is uuid.Nil for
// client_credentials tokens.
type Token struct {
	AccessToken           string
	AccessTokenExpiresAt  time.Time
	RefreshToken          string
	RefreshTokenExpiresAt *time.Time
	Scope                 string
	ClientID              string
	UserID                uuid.UUID
	CreatedAt             time.Time
}

// AccessTokenExpired reports whether the access token is past its deadline.
func (t Token) AccessTokenExpired(now time.Time) bool {
	return now.After(t.AccessTokenExpiresAt)
}

// RefreshTokenExpired reports whether the refresh token is absent or past
// its deadline.
func (t Token) RefreshTokenExpired(now time.Time) bool {
	if t.RefreshToken == "" || t.RefreshTokenExpiresAt == nil {
		return true
	}
	return now.After(*t.RefreshTokenExpiresAt)
}
