package model

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Role names recognized by the authorization gate.
const (
	RoleAdmin   = "admin"
	RoleManager = "manager"
	RoleDev     = "dev"
)

// UserStore defines persistence operations for users.
type UserStore interface {
	Create(ctx context.Context, user User) (User, error)
	GetByID(ctx context.Context, id uuid.UUID) (User, error)
	GetByEmail(ctx context.Context, email string) (User, error)
	Update(ctx context.Context, user User) (User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]User, error)
	Count(ctx context.Context) (int, error)
}

// User represents a resource owner with authentication material.
// Email is stored case-folded and is globally unique.
type User struct {
	ID        uuid.UUID
	Email     string
	Name      string
	Password  []byte
	Salt      []byte
	Roles     map[string]bool
	Info      map[string]any
	Disabled  bool
	Validated *time.Time
	Expired   *time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// HasRole reports whether the role is set for the user.
func (u User) HasRole(role string) bool {
	return u.Roles[role]
}

// HasAnyRole reports whether at least one of the roles is set for the user.
func (u User) HasAnyRole(roles ...string) bool {
	for _, role := range roles {
		if u.Roles[role] {
			return true
		}
	}
	return false
}

// CanAuthenticate reports whether the user may log in or hold valid tokens.
// A disabled user never authenticates. An unvalidated user past its expiry
// deadline is treated the same as disabled.
func (u User) CanAuthenticate(now time.Time) bool {
	if u.Disabled {
		return false
	}
	if u.Validated == nil && u.Expired != nil && now.After(*u.Expired) {
		return false
	}
	return true
}
