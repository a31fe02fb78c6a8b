package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// OAuth2 grant type names a client may be allowed to use.
const (
	GrantAuthorizationCode = "authorization_code"
	GrantPassword          = "password"
	GrantClientCredentials = "client_credentials"
	GrantRefreshToken      = "refresh_token"
)

// ClientStore defines persistence operations for OAuth2 clients.
type ClientStore interface {
	Create(ctx context.Context, client Client) (Client, error)
	GetByID(ctx context.Context, id string) (Client, error)
	Update(ctx context.Context, client Client) (Client, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]Client, error)
	Count(ctx context.Context) (int, error)
}

// Client represents a registered OAuth2 client application.
// Secret is server-generated and never user-chosen. A nil Scopes slice means
// the client carries no scope restriction (administrative client).
type Client struct {
	ID           string
	Secret       string
	Name         string
	Image        string
	RedirectURIs []string
	Scopes       []string
	Grants       []string
	UserID       uuid.UUID
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// AllowsGrant reports whether the grant type is registered for the client.
func (c Client) AllowsGrant(grant string) bool {
	for _, g := range c.Grants {
		if g == grant {
			return true
		}
	}
	return false
}

// AllowsRedirectURI reports whether the URI exactly matches one of the
// client's registered redirect URIs.
func (c Client) AllowsRedirectURI(uri string) bool {
	for _, u := range c.RedirectURIs {
		if u == uri {
			return true
		}
	}
	return false
}
