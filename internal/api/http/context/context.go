package context

import (
	"context"

	"github.com/dtroode/authkeeper/internal/model"
)

type contextKey string

const (
	userKey  contextKey = "user"
	tokenKey contextKey = "token"
)

// Manager stores and retrieves the authenticated identity on request
// contexts.
type Manager struct{}

// NewManager creates a new context manager instance.
func NewManager() *Manager {
	return &Manager{}
}

var _ model.ContextManager = (*Manager)(nil)

// SetUserToContext returns a context carrying the authenticated user.
func (m *Manager) SetUserToContext(ctx context.Context, user model.User) context.Context {
	return context.WithValue(ctx, userKey, user)
}

// GetUserFromContext extracts the authenticated user, if any.
func (m *Manager) GetUserFromContext(ctx context.Context) (model.User, bool) {
	user, ok := ctx.Value(userKey).(model.User)
	return user, ok
}

// SetTokenToContext returns a context carrying the resolved token record.
func (m *Manager) SetTokenToContext(ctx context.Context, token model.Token) context.Context {
	return context.WithValue(ctx, tokenKey, token)
}

// GetTokenFromContext extracts the resolved token record, if any.
func (m *Manager) GetTokenFromContext(ctx context.Context) (model.Token, bool) {
	token, ok := ctx.Value(tokenKey).(model.Token)
	return token, ok
}
