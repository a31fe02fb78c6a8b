package service

import (
	"context"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/model"
)

// Auth resolves credentials and bearer tokens to accounts. It is the single
// gate between presented secrets and stored identity.
type Auth struct {
	userStore  model.UserStore
	tokenStore model.TokenStore
	logger     *logger.Logger
}

func NewAuth(userStore model.UserStore, tokenStore model.TokenStore, logger *logger.Logger) *Auth {
	return &Auth{
		userStore:  userStore,
		tokenStore: tokenStore,
		logger:     logger,
	}
}

// FoldEmail normalizes an email for lookup and storage.
func FoldEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// UserByCredentials verifies an email/password pair. An unknown email, a
// wrong password and a disabled account are indistinguishable to the
// caller: all three return the same generic error.
func (a *Auth) UserByCredentials(ctx context.Context, email, password string) (model.User, error) {
	user, err := a.userStore.GetByEmail(ctx, FoldEmail(email))
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.User{}, apierrors.NewErrInvalidCredentials()
		}
		a.logger.Error("Auth service: failed to get user by email", "error", err.Error())
		return model.User{}, apierrors.NewErrStoreUnavailable()
	}

	if !user.CanAuthenticate(time.Now()) {
		return model.User{}, apierrors.NewErrInvalidCredentials()
	}

	if !mint.VerifyPassword(password, user.Salt, user.Password) {
		return model.User{}, apierrors.NewErrInvalidCredentials()
	}

	return user, nil
}

// Authenticate resolves a bearer string to a live token record.
func (a *Auth) Authenticate(ctx context.Context, bearer string) (model.Token, error) {
	if bearer == "" {
		return model.Token{}, apierrors.NewErrMissingAuthorizationToken()
	}

	token, err := a.tokenStore.GetByAccessToken(ctx, bearer)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Token{}, apierrors.NewErrInvalidAuthorizationToken()
		}
		a.logger.Error("Auth service: failed to get token", "error", err.Error())
		return model.Token{}, apierrors.NewErrStoreUnavailable()
	}

	if token.AccessTokenExpired(time.Now()) {
		return model.Token{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	return token, nil
}

// AuthenticateUser resolves a bearer string to the token and its bound
// user. The account state is re-checked at call time: a token that outlives
// its user's disablement must not authorize anything.
func (a *Auth) AuthenticateUser(ctx context.Context, bearer string) (model.Token, model.User, error) {
	token, err := a.Authenticate(ctx, bearer)
	if err != nil {
		return model.Token{}, model.User{}, err
	}

	if token.UserID == uuid.Nil {
		// client_credentials tokens carry no user and can never pass a
		// role check.
		return token, model.User{}, apierrors.NewErrForbidden()
	}

	user, err := a.userStore.GetByID(ctx, token.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Token{}, model.User{}, apierrors.NewErrInvalidAuthorizationToken()
		}
		a.logger.Error("Auth service: failed to get token user", "user_id", token.UserID, "error", err.Error())
		return model.Token{}, model.User{}, apierrors.NewErrStoreUnavailable()
	}

	if !user.CanAuthenticate(time.Now()) {
		return model.Token{}, model.User{}, apierrors.NewErrInvalidAuthorizationToken()
	}

	return token, user, nil
}

// RequireAnyRole rejects users that hold none of the given roles.
func RequireAnyRole(user model.User, roles ...string) error {
	if !user.HasAnyRole(roles...) {
		return apierrors.NewErrForbidden()
	}
	return nil
}
