package handler

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/service"
)

const defaultPageSize = 50

// UserService defines the account operations driven by the user endpoints.
type UserService interface {
	Create(ctx context.Context, input service.CreateUserInput) (model.User, error)
	Get(ctx context.Context, id uuid.UUID) (model.User, error)
	Update(ctx context.Context, id uuid.UUID, input service.UpdateUserInput) (model.User, error)
	Delete(ctx context.Context, id uuid.UUID) error
	List(ctx context.Context, offset, limit int) ([]model.User, error)
	Count(ctx context.Context) (int, error)
}

// User handles the account endpoints.
type User struct {
	service        UserService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewUser creates a new User handler.
func NewUser(service UserService, contextManager model.ContextManager, logger *logger.Logger) *User {
	return &User{service: service, contextManager: contextManager, logger: logger}
}

// UserResponse is the account representation returned to callers. Password
// material never appears here.
type UserResponse struct {
	ID        uuid.UUID       `json:"userId"`
	Email     string          `json:"email"`
	Name      string          `json:"name,omitempty"`
	Roles     map[string]bool `json:"roles,omitempty"`
	Info      map[string]any  `json:"info,omitempty"`
	Disabled  bool            `json:"disabled"`
	Validated *time.Time      `json:"validated,omitempty"`
	Expired   *time.Time      `json:"expired,omitempty"`
	CreatedAt time.Time       `json:"created"`
}

func toUserResponse(user model.User) UserResponse {
	return UserResponse{
		ID:        user.ID,
		Email:     user.Email,
		Name:      user.Name,
		Roles:     user.Roles,
		Info:      user.Info,
		Disabled:  user.Disabled,
		Validated: user.Validated,
		Expired:   user.Expired,
		CreatedAt: user.CreatedAt,
	}
}

type createUserRequest struct {
	Email    string          `json:"email"`
	Password string          `json:"password"`
	Name     string          `json:"name"`
	Roles    map[string]bool `json:"roles"`
	Info     map[string]any  `json:"info"`
}

type updateUserRequest struct {
	Name      *string         `json:"name"`
	Password  *string         `json:"password"`
	Roles     map[string]bool `json:"roles"`
	Info      map[string]any  `json:"info"`
	Disabled  *bool           `json:"disabled"`
	Validated *bool           `json:"validated"`
}

// GetSelf returns the authenticated user's own account.
func (h *User) GetSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		RenderError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// UpdateSelf lets the authenticated user change their own name and
// password. Role, disabled and validation state stay admin-only.
func (h *User) UpdateSelf(w http.ResponseWriter, r *http.Request) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		RenderError(w, apierrors.NewErrMissingAuthorizationToken())
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), user.ID, service.UpdateUserInput{
		Name:     req.Name,
		Password: req.Password,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(updated))
}

// Create registers a new account.
func (h *User) Create(w http.ResponseWriter, r *http.Request) {
	var req createUserRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	user, err := h.service.Create(r.Context(), service.CreateUserInput{
		Email:    req.Email,
		Password: req.Password,
		Name:     req.Name,
		Roles:    req.Roles,
		Info:     req.Info,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toUserResponse(user))
}

// Get returns an account by id.
func (h *User) Get(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, apierrors.NewErrBadParameters("invalid user id"))
		return
	}

	user, err := h.service.Get(r.Context(), id)
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Update modifies an account by id.
func (h *User) Update(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, apierrors.NewErrBadParameters("invalid user id"))
		return
	}

	var req updateUserRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	user, err := h.service.Update(r.Context(), id, service.UpdateUserInput{
		Name:      req.Name,
		Password:  req.Password,
		Roles:     req.Roles,
		Info:      req.Info,
		Disabled:  req.Disabled,
		Validated: req.Validated,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toUserResponse(user))
}

// Delete removes an account by id.
func (h *User) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, apierrors.NewErrBadParameters("invalid user id"))
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		RenderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns a page of accounts with the total count in X-Total-Count.
func (h *User) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pageParams(r)
	if err != nil {
		RenderError(w, err)
		return
	}

	users, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		RenderError(w, err)
		return
	}

	total, err := h.service.Count(r.Context())
	if err != nil {
		RenderError(w, err)
		return
	}

	resp := make([]UserResponse, 0, len(users))
	for _, user := range users {
		resp = append(resp, toUserResponse(user))
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, resp)
}

func pageParams(r *http.Request) (offset, limit int, err error) {
	offset, limit = 0, defaultPageSize

	if raw := r.URL.Query().Get("offset"); raw != "" {
		offset, err = strconv.Atoi(raw)
		if err != nil || offset < 0 {
			return 0, 0, apierrors.NewErrBadParameters("invalid offset")
		}
	}
	if raw := r.URL.Query().Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return 0, 0, apierrors.NewErrBadParameters("invalid limit")
		}
	}

	return offset, limit, nil
}
