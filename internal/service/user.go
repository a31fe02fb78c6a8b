package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/model"
)

// validationWindow is how long a freshly created account may remain
// unvalidated before it stops authenticating.
const validationWindow = 72 * time.Hour

// User provides administrative and self-service account operations.
type User struct {
	store  model.UserStore
	logger *logger.Logger
}

func NewUser(store model.UserStore, logger *logger.Logger) *User {
	return &User{store: store, logger: logger}
}

// CreateUserInput carries the fields accepted at account creation.
type CreateUserInput struct {
	Email    string
	Name     string
	Password string
	Roles    map[string]bool
	Info     map[string]any
}

// UpdateUserInput carries the fields accepted at account update. Nil
// pointers leave the stored value untouched.
type UpdateUserInput struct {
	Name      *string
	Password  *string
	Roles     map[string]bool
	Info      map[string]any
	Disabled  *bool
	Validated *bool
}

func (s *User) Create(ctx context.Context, input CreateUserInput) (model.User, error) {
	if input.Email == "" || input.Password == "" {
		return model.User{}, apierrors.NewErrBadParameters("email and password are required")
	}

	email := FoldEmail(input.Email)

	salt, err := mint.NewSalt()
	if err != nil {
		s.logger.Error("User service: failed to mint salt", "error", err.Error())
		return model.User{}, apierrors.NewErrUnknown()
	}

	now := time.Now()
	expiresAt := now.Add(validationWindow)
	user := model.User{
		ID:        uuid.New(),
		Email:     email,
		Name:      input.Name,
		Password:  mint.HashPassword(input.Password, salt),
		Salt:      salt,
		Roles:     input.Roles,
		Info:      input.Info,
		Expired:   &expiresAt,
		CreatedAt: now,
		UpdatedAt: now,
	}
	if user.Roles == nil {
		user.Roles = map[string]bool{}
	}
	if user.Info == nil {
		user.Info = map[string]any{}
	}

	savedUser, err := s.store.Create(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrDuplicate) {
			return model.User{}, apierrors.NewErrEmailIsTaken(email)
		}
		s.logger.Error("User service: failed to create user", "email", email, "error", err.Error())
		return model.User{}, apierrors.NewErrStoreUnavailable()
	}

	s.logger.Info("User service: user created", "user_id", savedUser.ID)

	return savedUser, nil
}

func (s *User) Get(ctx context.Context, id uuid.UUID) (model.User, error) {
	user, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierrors.NewErrNotFound("user")
		}
		s.logger.Error("User service: failed to get user", "user_id", id, "error", err.Error())
		return model.User{}, apierrors.NewErrStoreUnavailable()
	}
	return user, nil
}

func (s *User) Update(ctx context.Context, id uuid.UUID, input UpdateUserInput) (model.User, error) {
	user, err := s.Get(ctx, id)
	if err != nil {
		return model.User{}, err
	}

	if input.Name != nil {
		user.Name = *input.Name
	}
	if input.Password != nil {
		salt, err := mint.NewSalt()
		if err != nil {
			s.logger.Error("User service: failed to mint salt", "error", err.Error())
			return model.User{}, apierrors.NewErrUnknown()
		}
		user.Salt = salt
		user.Password = mint.HashPassword(*input.Password, salt)
	}
	if input.Roles != nil {
		user.Roles = input.Roles
	}
	if input.Info != nil {
		user.Info = input.Info
	}
	if input.Disabled != nil {
		user.Disabled = *input.Disabled
	}
	if input.Validated != nil && *input.Validated && user.Validated == nil {
		now := time.Now()
		user.Validated = &now
	}

	savedUser, err := s.store.Update(ctx, user)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierrors.NewErrNotFound("user")
		}
		s.logger.Error("User service: failed to update user", "user_id", id, "error", err.Error())
		return model.User{}, apierrors.NewErrStoreUnavailable()
	}

	return savedUser, nil
}

func (s *User) Delete(ctx context.Context, id uuid.UUID) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrNotFound("user")
		}
		s.logger.Error("User service: failed to delete user", "user_id", id, "error", err.Error())
		return apierrors.NewErrStoreUnavailable()
	}

	s.logger.Info("User service: user deleted", "user_id", id)

	return nil
}

func (s *User) List(ctx context.Context, offset, limit int) ([]model.User, error) {
	users, err := s.store.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("User service: failed to list users", "error", err.Error())
		return nil, apierrors.NewErrStoreUnavailable()
	}
	return users, nil
}

func (s *User) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("User service: failed to count users", "error", err.Error())
		return 0, apierrors.NewErrStoreUnavailable()
	}
	return count, nil
}
