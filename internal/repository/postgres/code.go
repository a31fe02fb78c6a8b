package postgres

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"

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
	const query = `
        INSERT INTO authorization_codes (code, expires_at, redirect_uri, scope, client_id, user_id, created_at)
        VALUES ($1, $2, $3, $4, $5, $6, $7)
    `

	_, err := r.db.Exec(ctx, query,
		code.Code, code.ExpiresAt, code.RedirectURI, code.Scope, code.ClientID, code.UserID, code.CreatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return model.ErrDuplicate
		}
		return fmt.Errorf("failed to create authorization code: %w", err)
	}
	return nil
}

// Consume deletes the code and returns it in a single statement. Under
// concurrent redemption only one caller observes the row; the rest get
// ErrNotFound.
func (r *AuthorizationCodeRepository) Consume(ctx context.Context, code string) (model.AuthorizationCode, error) {
	const query = `
        DELETE FROM authorization_codes WHERE code = $1
        RETURNING code, expires_at, redirect_uri, scope, client_id, user_id, created_at
    `

	var consumed model.AuthorizationCode
	err := r.db.QueryRow(ctx, query, code).Scan(
		&consumed.Code, &consumed.ExpiresAt, &consumed.RedirectURI, &consumed.Scope,
		&consumed.ClientID, &consumed.UserID, &consumed.CreatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.AuthorizationCode{}, model.ErrNotFound
		}
		return model.AuthorizationCode{}, fmt.Errorf("failed to consume authorization code: %w", err)
	}

	return consumed, nil
}

// Revoke deletes the code. Revoking an unknown code is a non-event.
func (r *AuthorizationCodeRepository) Revoke(ctx context.Context, code string) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM authorization_codes WHERE code = $1`, code); err != nil {
		return fmt.Errorf("failed to revoke authorization code: %w", err)
	}
	return nil
}
