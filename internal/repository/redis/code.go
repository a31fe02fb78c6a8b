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

var _ model.AuthorizationCodeStore = (*AuthorizationCodeRepository)(nil)

type AuthorizationCodeRepository struct {
	db *Connection
}

func NewAuthorizationCodeRepository(db *Connection) *AuthorizationCodeRepository {
	return &AuthorizationCodeRepository{db: db}
}

func (r *AuthorizationCodeRepository) Create(ctx context.Context, code model.AuthorizationCode) error {
	payload, err := json.Marshal(code)
	if err != nil {
		return fmt.Errorf("failed to marshal authorization code: %w", err)
	}

	created, err := r.db.SetNX(ctx, codeKeyPrefix+code.Code, payload, time.Until(code.ExpiresAt)).Result()
	if err != nil {
		return fmt.Errorf("failed to create authorization code: %w", err)
	}
	if !created {
		return model.ErrDuplicate
	}
	return nil
}

// Consume reads and deletes the code in one round trip (GETDEL), so only
// one of N concurrent redemptions can observe it.
func (r *AuthorizationCodeRepository) Consume(ctx context.Context, code string) (model.AuthorizationCode, error) {
	payload, err := r.db.GetDel(ctx, codeKeyPrefix+code).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.AuthorizationCode{}, model.ErrNotFound
		}
		return model.AuthorizationCode{}, fmt.Errorf("failed to consume authorization code: %w", err)
	}

	var consumed model.AuthorizationCode
	if err := json.Unmarshal(payload, &consumed); err != nil {
		return model.AuthorizationCode{}, fmt.Errorf("failed to unmarshal authorization code: %w", err)
	}
	return consumed, nil
}

// Revoke deletes the code. Revoking an unknown code is a non-event.
func (r *AuthorizationCodeRepository) Revoke(ctx context.Context, code string) error {
	if err := r.db.Del(ctx, codeKeyPrefix+code).Err(); err != nil {
		return fmt.Errorf("failed to revoke authorization code: %w", err)
	}
	return nil
}
