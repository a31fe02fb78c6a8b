package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

	"github.com/dtroode/authkeeper/internal/model"
)

var _ model.TokenStore = (*TokenRepository)(nil)

type TokenRepository struct {
	db *Connection
}

func NewTokenRepository(db *Connection) *TokenRepository {
	return &TokenRepository{db: db}
}

const tokenColumns = `access_token, access_token_expires_at, refresh_token, refresh_token_expires_at, scope, client_id, user_id, created_at`

func (r *TokenRepository) scanToken(row pgx.Row) (model.Token, error) {
	var (
		token   model.Token
		refresh *string
	)
	err := row.Scan(
		&token.AccessToken, &token.AccessTokenExpiresAt, &refresh, &token.RefreshTokenExpiresAt,
		&token.Scope, &token.ClientID, &token.UserID, &token.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, err
	}
	if refresh != nil {
		token.RefreshToken = *refresh
	}
	return token, nil
}

func (r *TokenRepository) Create(ctx context.Context, token model.Token) error {
	const query = `
        INSERT INTO tokens (access_token, access_token_expires_at, refresh_token, refresh_token_expires_at, scope, client_id, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
    `

	var refresh *string
	if token.RefreshToken != "" {
		refresh = &token.RefreshToken
	}

	_, err := r.db.Exec(ctx, query,
		token.AccessToken, token.AccessTokenExpiresAt, refresh, token.RefreshTokenExpiresAt,
		token.Scope, token.ClientID, token.UserID, token.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("failed to create token: %w", err)
	}
	return nil
}

func (r *TokenRepository) GetByAccessToken(ctx context.Context, accessToken string) (model.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE access_token = $1`

	token, err := r.scanToken(r.db.QueryRow(ctx, query, accessToken))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by access token: %w", err)
	}
	return token, nil
}

func (r *TokenRepository) GetByRefreshToken(ctx context.Context, refreshToken string) (model.Token, error) {
	query := `SELECT ` + tokenColumns + ` FROM tokens WHERE refresh_token = $1`

	token, err := r.scanToken(r.db.QueryRow(ctx, query, refreshToken))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Token{}, model.ErrNotFound
		}
		return model.Token{}, fmt.Errorf("failed to get token by refresh token: %w", err)
	}
	return token, nil
}

// RevokeByRefreshToken clears the refresh half of the token record. The
// access token keeps expiring on its own schedule. Revoking an unknown
// refresh token is a non-event.
func (r *TokenRepository) RevokeByRefreshToken(ctx context.Context, refreshToken string) error {
	const query = `
        UPDATE tokens SET refresh_token = NULL, refresh_token_expires_at = NULL
        WHERE refresh_token = $1
    `
	if _, err := r.db.Exec(ctx, query, refreshToken); err != nil {
		return fmt.Errorf("failed to revoke refresh token: %w", err)
	}
	return nil
}
