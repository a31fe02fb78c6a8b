package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

type TokenRepository struct {
	db *Connection
}

func NewTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{db: db}
}

// Create stores the access token and, when present, the refresh token as
// two independent records. Each expires with its own TTL, so expired
// artifacts vanish without a cleanup pass.
func (r *TokenRepository) Create(ctx context.Context, token model.Token) error {
	payload, err := json.Marshal(token)
	if err != nil {
		return fmt.Errorf("failed to marshal token: %w", err)
	}

	now := time.Now()
	created, err := r.db.SetNX(ctx, accessTokenKeyPrefix+token.AccessToken, payload, token.AccessTokenExpiresAt.Sub(now)).Result()
	if err != nil {
		return fmt.Errorf("failed to create access token: %w", err)
	}
	if !created {
		return model.ErrDuplicate
	}

	if token.RefreshToken != "" && token.RefreshTokenExpiresAt != nil {
		created, err := r.db.SetNX(ctx, refreshTokenKeyPrefix+token.RefreshToken, payload, token.RefreshTokenExpiresAt.Sub(now)).Result()
		if err != nil {
			return fmt.Errorf("failed to create refresh token: %w", err)
		}
		if !created {
			return model.ErrDuplicate
		}
	}

	return nil
}

func (r *TokenRepository) GetByAccessToken(ctx context.Context, accessToken string) (model.Token, error) {
	return r.getByKey(ctx, accessTokenKeyPrefix+accessToken)
}

func (r *TokenRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (model.Token, error) {
	return r.getByKey(ctx, refreshTokenKeyPrefix+refreshToken)
}

// RevokeByRefreshToken drops only the refresh record; the paired access
// token keeps expiring on its own schedule. Revoking an unknown refresh
// token is a non-event.
func (r *TokenRepository) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	if err := r.db.Del(ctx, refreshTokenKeyPrefix+refreshToken).Err(); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}

func (r *TokenRepository) getByKey(ctx context.Context, key string) (model.Token, error) {
	payload, err := r.db.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token: %w", err)
	}

	var token model.Token
	if err := json.Unmarshal(payload, &token); err != nil {
		return model.Token{}, fmt.Errorf("failed to unmarshal token: %w", err)
	}
	return token, nil
}
