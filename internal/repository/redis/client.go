package redis

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.ClientStore = (*ClientRepository)(nil)

type ClientRepository struct {
	db *Connection
}

func NewClientRepository(db *Connection) *ClientRepository {
	return &ClientRepository{db: db}
}

func (r *ClientRepository) Create(ctx context.Context, client model.Client) (model.Client, error) {
	payload, err := json.Marshal(client)
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to marshal client: %w", err)
	}

	created, err := r.db.SetNX(ctx, clientKeyPrefix+client.ID, payload, 0).Result()
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to create client: %w", err)
	}
	if !created {
		return model.Client{}, model.ErrDuplicate
	}

	if err := r.db.ZAdd(ctx, clientIndexKey, redis.Z{Score: float64(client.CreatedAt.UnixNano()), Member: client.ID}).Err(); err != nil {
		return model.Client{}, fmt.Errorf("failed to index client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (model.Client, error) {
	payload, err := r.db.Get(ctx, clientKeyPrefix+id).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return model.Client{}, model.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("failed to get client: %w", err)
	}

	var client model.Client
	if err := json.Unmarshal(payload, &client); err != nil {
		return model.Client{}, fmt.Errorf("failed to unmarshal client: %w", err)
	}
	return client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client model.Client) (model.Client, error) {
	if _, err := r.GetByID(ctx, client.ID); err != nil {
		return model.Client{}, err
	}

	payload, err := json.Marshal(client)
	if err != nil {
		return model.Client{}, fmt.Errorf("failed to marshal client: %w", err)
	}
	if err := r.db.Set(ctx, clientKeyPrefix+client.ID, payload, 0).Err(); err != nil {
		return model.Client{}, fmt.Errorf("failed to update client: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	deleted, err := r.db.Del(ctx, clientKeyPrefix+id).Result()
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if deleted == 0 {
		return model.ErrNotFound
	}
	if err := r.db.ZRem(ctx, clientIndexKey, id).Err(); err != nil {
		return fmt.Errorf("failed to unindex client: %w", err)
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context, offset, limit int) ([]model.Client, error) {
	ids, err := r.db.ZRange(ctx, clientIndexKey, int64(offset), int64(offset+limit-1)).Result()
	if err != nil {
		return nil, fmt.Errorf("failed to list client ids: %w", err)
	}

	clients := make([]model.Client, 0, len(ids))
	for _, id := range ids {
		client, err := r.GetByID(ctx, id)
		if err != nil {
			if errors.Is(err, model.ErrNotFound) {
				continue
			}
			return nil, err
		}
		clients = append(clients, client)
	}
	return clients, nil
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	count, err := r.db.ZCard(ctx, clientIndexKey).Result()
	if err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return int(count), nil
}
