package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.ClientStore = (*ClientRepository)(nil)

type ClientRepository struct {
	db *Connection
}

func NewClientRepository(db *Connection) *ClientRepository {
	return &ClientRepository{db: db}
}

const clientColumns = `id, secret, name, image, redirect_uris, scopes, grants, user_id, created_at, updated_at`

func (r *ClientRepository) scanClient(row pgx.Row) (model.Client, error) {
	var client model.Client
	err := row.Scan(
		&client.ID, &client.Secret, &client.Name, &client.Image, &client.RedirectURIs,
		&client.Scopes, &client.Grants, &client.UserID, &client.CreatedAt, &client.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Client{}, model.ErrNotFound
		}
		return model.Client{}, err
	}
	return client, nil
}

func (r *ClientRepository) Create(ctx context.Context, client model.Client) (model.Client, error) {
	query := `INSERT INTO clients (id, secret, name, image, redirect_uris, scopes, grants, user_id, created_at, updated_at)
			  VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			  RETURNING ` + clientColumns

	savedClient, err := r.scanClient(r.db.QueryRow(ctx, query,
		client.ID, client.Secret, client.Name, client.Image, client.RedirectURIs,
		client.Scopes, client.Grants, client.UserID, client.CreatedAt, client.UpdatedAt,
	))
	if err != nil {
		if isUniqueViolation(err) {
			return model.Client{}, model.ErrDuplicate
		}
		return model.Client{}, fmt.Errorf("failed to create client: %w", err)
	}

	return savedClient, nil
}

func (r *ClientRepository) GetByID(ctx context.Context, id string) (model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients WHERE id = $1`

	client, err := r.scanClient(r.db.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Client{}, model.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("failed to get client by id: %w", err)
	}

	return client, nil
}

func (r *ClientRepository) Update(ctx context.Context, client model.Client) (model.Client, error) {
	query := `UPDATE clients
			  SET secret = $2, name = $3, image = $4, redirect_uris = $5, scopes = $6, grants = $7, updated_at = NOW()
			  WHERE id = $1
			  RETURNING ` + clientColumns

	savedClient, err := r.scanClient(r.db.QueryRow(ctx, query,
		client.ID, client.Secret, client.Name, client.Image, client.RedirectURIs,
		client.Scopes, client.Grants,
	))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Client{}, model.ErrNotFound
		}
		return model.Client{}, fmt.Errorf("failed to update client: %w", err)
	}

	return savedClient, nil
}

func (r *ClientRepository) Delete(ctx context.Context, id string) error {
	tag, err := r.db.Exec(ctx, `DELETE FROM clients WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete client: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrNotFound
	}
	return nil
}

func (r *ClientRepository) List(ctx context.Context, offset, limit int) ([]model.Client, error) {
	query := `SELECT ` + clientColumns + ` FROM clients ORDER BY created_at LIMIT $1 OFFSET $2`

	rows, err := r.db.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	defer rows.Close()

	clients := make([]model.Client, 0)
	for rows.Next() {
		client, err := r.scanClient(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan client: %w", err)
		}
		clients = append(clients, client)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate clients: %w", err)
	}

	return clients, nil
}

func (r *ClientRepository) Count(ctx context.Context) (int, error) {
	var count int
	if err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM clients`).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count clients: %w", err)
	}
	return count, nil
}
