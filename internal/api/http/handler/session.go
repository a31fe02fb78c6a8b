package handler

import (
	"context"
	"net/http"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/service"
)

// SessionService defines first-party session operations.
type SessionService interface {
	Login(ctx context.Context, email, password string) (service.TokenResponse, error)
	Logout(ctx context.Context, refreshToken string) error
	Refresh(ctx context.Context, refreshToken string) (service.TokenResponse, error)
}

// Session handles the first-party session endpoints.
type Session struct {
	service SessionService
	logger  *logger.Logger
}

// NewSession creates a new Session handler.
func NewSession(service SessionService, logger *logger.Logger) *Session {
	return &Session{service: service, logger: logger}
}

type sessionLoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type sessionRefreshRequest struct {
	RefreshToken string `json:"refreshToken"`
}

// Login exchanges resource owner credentials for a session token pair.
func (h *Session) Login(w http.ResponseWriter, r *http.Request) {
	var req sessionLoginRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}
	if req.Email == "" || req.Password == "" {
		RenderError(w, apierrors.NewErrBadParameters("email and password are required"))
		return
	}

	resp, err := h.service.Login(r.Context(), req.Email, req.Password)
	if err != nil {
		RenderError(w, asAPIError(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Logout revokes the session's refresh token. Revoking an unknown token
// succeeds.
func (h *Session) Logout(w http.ResponseWriter, r *http.Request) {
	var req sessionRefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	if err := h.service.Logout(r.Context(), req.RefreshToken); err != nil {
		RenderError(w, asAPIError(err))
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// Refresh rotates the session's refresh token and returns a fresh pair.
func (h *Session) Refresh(w http.ResponseWriter, r *http.Request) {
	var req sessionRefreshRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}
	if req.RefreshToken == "" {
		RenderError(w, apierrors.NewErrBadParameters("refreshToken is required"))
		return
	}

	resp, err := h.service.Refresh(r.Context(), req.RefreshToken)
	if err != nil {
		RenderError(w, asAPIError(err))
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
