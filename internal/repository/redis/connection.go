// Package redis implements the credential store contract on a key-value
// backend. Unlike the relational backend, access and refresh tokens live as
// two independent records with their own TTLs.
package redis

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
)

type Connection struct {
	*redis.Client
}

func NewConnection(ctx context.Context, addr, password string, db int) (*Connection, error) {
	client := redis.NewClient(&redis.Options{
		Addr:     addr,
		Password: password,
		DB:       db,
	})

	if err := client.Ping(ctx).Err(); err != nil {
		return nil, fmt.Errorf("failed to ping redis: %w", err)
	}

	return &Connection{Client: client}, nil
}

// NewConnectionFromClient wraps an existing client. Used by tests backed by
// miniredis.
func NewConnectionFromClient(client *redis.Client) *Connection {
	return &Connection{Client: client}
}

// Ping reports backend reachability.
func (c *Connection) Ping(ctx context.Context) error {
	return c.Client.Ping(ctx).Err()
}

func (c *Connection) Close() error {
	if c.Client != nil {
		return c.Client.Close()
	}
	return nil
}

const (
	userKeyPrefix      = "user:"
	userEmailKeyPrefix = "user:email:"
	userIndexKey       = "users"

	clientKeyPrefix = "client:"
	clientIndexKey  = "clients"

	accessTokenKeyPrefix  = "token:access:"
	refreshTokenKeyPrefix = "token:refresh:"

	codeKeyPrefix = "code:"
)
