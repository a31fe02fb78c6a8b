package model

import (
	"context"
)

// ContextManager carries the authenticated user through request contexts.
type ContextManager interface {
	SetUserToContext(ctx context.Context, user User) context.Context
	GetUserFromContext(ctx context.Context) (User, bool)
	SetTokenToContext(ctx context.Context, token Token) context.Context
	GetTokenFromContext(ctx context.Context) (Token, bool)
}
