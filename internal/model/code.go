package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// AuthorizationCodeStore defines persistence operations for authorization
// codes. Consume must atomically delete and return the record so that only
// one of N concurrent redemptions can succeed; a consumed or unknown code
// yields ErrNotFound. Revoke is idempotent.
type AuthorizationCodeStore interface {
	Create(ctx context.Context, code AuthorizationCode) error
	Consume(ctx context.Context, code string) (AuthorizationCode, error)
	Revoke(ctx context.Context, code string) error
}

// AuthorizationCode is a single-use, short-lived grant artifact binding a
// client, a user, a scope and the redirect URI it was issued for.
type AuthorizationCode struct {
	Code        string
	ExpiresAt   time.Time
	RedirectURI string
	Scope       string
	ClientID    string
	UserID      uuid.UUID
	CreatedAt   time.Time
}

// Expired reports whether the code is past its deadline.
func (c AuthorizationCode) Expired(now time.Time) bool {
	return now.After(c.ExpiresAt)
}
