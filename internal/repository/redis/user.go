package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db *Connection
}

func NewUserRepository(db *Connection) *UserRepository {
	return &UserRepository{db: db}
}

func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	payload, err := json.Marshal(user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to marshal user: %w", err)
	}

	// The email index is the uniqueness guard: whoever claims it first wins.
	claimed, err := r.db.SetNX(ctx, userEmailKeyPrefix+user.Email, user.ID.String(), 0).Result()
	if err != nil {
		return model.User{}, fmt.Errorf("failed to claim user email: %w", err)
	}
	if !claimed {
		return model.User{}, model.ErrDuplicate
	}

	pipe := r.db.TxPipeline()
	pipe.Set(ctx, userKeyPrefix+user.ID.String(), payload, 0)
	pipe.ZAdd(ctx, userIndexKey, redis.Z{Score: float64(user.CreatedAt.UnixNano()), Member: user.ID.String()})
	if _, err := pipe.Exec(ctx); err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id uuid.UUID) (model.User, error) {
	return r.getByKey(ctx, userKeyPrefix+id.String())
}

func (r *UserRepository) GetByEmail(ctx context.Context, email string) (model.User, error) {
	id, err := r.db.Get(ctx, userEmailKeyPrefix+email).Result()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user email index: %w", err)
	}
	return r.getByKey(ctx, userKeyPrefix+id)
}

func (r *UserRepository) Update(ctx context.Context, user model.User) (model.User, error) {
	existing, err := r.GetByID(ctx, user.ID)
	if err != nil {
		return model.User{}, err
	}

	if existing.Email != user.Email {
		claimed, err := r.db.SetNX(ctx, userEmailKeyPrefix+user.Email, user.ID.String(), 0).Result()
		if err != nil {
			return model.User{}, fmt.Errorf("failed to claim user email: %w", err)
		}
		if !claimed {
			return model.User{}, model.ErrDuplicate
		}
		if err := r.db.Del(ctx, userEmailKeyPrefix+existing.Email).Err(); err != nil {
			return model.User{}, fmt.Errorf("failed to drop old email index: %w", err)
		}
	}

	payload, err := json.Marshal(user)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to marshal user: %w", err)
	}
	if err := r.db.Set(ctx, userKeyPrefix+user.ID.String(), payload, 0).Err(); err != nil {
		return model.User{}, fmt.Errorf("failed to update user: %w", err)
	}

	return user, nil
}

func (r *UserRepository) Delete(ctx context.Context, id uuid.UUID) error {
	user, err := r.GetByID(ctx, id)
	if err != nil {
		return err
	}

	pipe := r.db.TxPipeline()
	pipe.Del(ctx, userKeyPrefix+id.String())
	pipe.Del(ctx, userEmailKeyPrefix+user.Email)
	pipe.ZRem(ctx, userIndexKey, id.String())
	if _, err := pipe.Exec(ctx); err != nil {
		return fmt.Errorf("failed to delete user: %w", err)
	}
	return nil
}

func (r *UserRepository) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	ids, err := r.db.ZRange(ctx, userIndexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list user ids: %w", err)
	}

	users := make([]model.User, 0, len(ids))
	for _, id := range ids {
		user, err := r.getByKey(ctx, userKeyPrefix+id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		users = append(users, user)
	}
	return users, nil
}

func (r *UserRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.ZCard(ctx, userIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count users: %w", err)
	}
	return int(count), nil
}

func (r *UserRepository) getByKey(ctx context.Context, key string) (model.User, error) {
	payload, err := r.db.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.User{}, model.ErrNotFound
		}
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}

	var user model.User
	if err := json.Unmarshal(payload, &user); err != nil {
		return model.User{}, fmt.Errorf("failed to unmarshal user: %w", err)
	}
	return user, nil
}
