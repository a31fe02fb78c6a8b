package redis

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/authkeeper/internal/model"
)

func makeToken(withRefresh bool) model.Token {
	now := time.Now()
	token := model.Token{
		AccessToken:          "access-1",
		AccessTokenExpiresAt: now.Add(time.Hour),
		Scope:                "read",
		ClientID:             "web-app",
		UserID:               uuid.New(),
		CreatedAt:            now,
	}
	if withRefresh {
		refreshExpiry := now.Add(24 * time.Hour)
		token.RefreshToken = "refresh-1"
		token.RefreshTokenExpiresAt = &refreshExpiry
	}
	return token
}

func TestTokenRepository_CreateAndGet(t *testing.T) {
	ctx := context.Background()
	conn, _ := newTestConnection(t)
	repo := NewTokenRepository(conn)

	token := makeToken(true)
	require.NoError(t, repo.Create(ctx, token))

	byAccess, err := repo.GetByAccessToken(ctx, "access-1")
	require.NoError(t, err)
	assert.Equal(t, token.UserID, byAccess.UserID)
	assert.Equal(t, "read", byAccess.Scope)

	byRefresh, err := repo.GetByRefreshToken(ctx, "refresh-1")
	require.NoError(t, err)
	assert.Equal(t, token.AccessToken, byRefresh.AccessToken)
}

func TestTokenRepository_CreateWithoutRefresh(t *testing.T) {
	ctx := context.Background()
	conn, mr := newTestConnection(t)
	repo := NewTokenRepository(conn)

	require.NoError(t, repo.Create(ctx, makeToken(false)))

	assert.True(t, mr.Exists(accessTokenKeyPrefix+"access-1"))
	assert.False(t, mr.Exists(refreshTokenKeyPrefix+"refresh-1"))
}

func TestTokenRepository_GetUnknown(t *testing.T) {
	ctx := context.Background()
	conn, _ := newTestConnection(t)
	repo := NewTokenRepository(conn)

	_, err := repo.GetByAccessToken(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)

	_, err = repo.GetByRefreshToken(ctx, "missing")
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestTokenRepository_RevokeByRefreshToken(t *testing.T) {
	ctx := context.Background()
	conn, _ := newTestConnection(t)
	repo := NewTokenRepository(conn)

	require.NoError(t, repo.Create(ctx, makeToken(true)))
	require.NoError(t, repo.RevokeByRefreshToken(ctx, "refresh-1"))

	_, err := repo.GetByRefreshToken(ctx, "refresh-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// The paired access token stays valid until its own expiry.
	_, err = repo.GetByAccessToken(ctx, "access-1")
	assert.NoError(t, err)

	// Revoking again is a non-event.
	assert.NoError(t, repo.RevokeByRefreshToken(ctx, "refresh-1"))
}

func TestTokenRepository_AccessTokenExpires(t *testing.T) {
	ctx := context.Background()
	conn, mr := newTestConnection(t)
	repo := NewTokenRepository(conn)

	token := makeToken(true)
	require.NoError(t, repo.Create(ctx, token))

	mr.FastForward(2 * time.Hour)

	_, err := repo.GetByAccessToken(ctx, "access-1")
	assert.ErrorIs(t, err, model.ErrNotFound)

	// The refresh token has a longer TTL and survives.
	_, err = repo.GetByRefreshToken(ctx, "refresh-1")
	assert.NoError(t, err)
}
