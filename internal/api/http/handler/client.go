package handler

import (
	"context"
	"io"
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

// ClientService defines the client registry operations driven by the
// client endpoints.
type ClientService interface {
	Create(ctx context.Context, owner model.User, input service.CreateClientInput) (model.Client, error)
	Get(ctx context.Context, id string) (model.Client, error)
	Update(ctx context.Context, id string, input service.UpdateClientInput) (model.Client, error)
	Delete(ctx context.Context, id string) error
	List(ctx context.Context, offset, limit int) ([]model.Client, error)
	Count(ctx context.Context) (int, error)
	UploadImage(ctx context.Context, id string, reader io.Reader) (model.Client, error)
	DownloadImage(ctx context.Context, id string) (io.ReadCloser, error)
}

// Client handles the OAuth2 client registry endpoints.
type Client struct {
	service        ClientService
	contextManager model.ContextManager
	logger         *logger.Logger
}

// NewClient creates a new Client handler.
func NewClient(service ClientService, contextManager model.ContextManager, logger *logger.Logger) *Client {
	return &Client{service: service, contextManager: contextManager, logger: logger}
}

// ClientResponse is the client representation returned to callers. The
// secret only appears for the owner and for administrators.
type ClientResponse struct {
	ID           string    `json:"id"`
	Secret       string    `json:"secret,omitempty"`
	Name         string    `json:"name"`
	Image        string    `json:"image,omitempty"`
	RedirectURIs []string  `json:"redirectUris,omitempty"`
	Scopes       []string  `json:"scopes,omitempty"`
	Grants       []string  `json:"grants,omitempty"`
	UserID       uuid.UUID `json:"userId"`
	CreatedAt    time.Time `json:"created"`
}

func toClientResponse(client model.Client, withSecret bool) ClientResponse {
	resp := ClientResponse{
		ID:           client.ID,
		Name:         client.Name,
		Image:        client.Image,
		RedirectURIs: client.RedirectURIs,
		Scopes:       client.Scopes,
		Grants:       client.Grants,
		UserID:       client.UserID,
		CreatedAt:    client.CreatedAt,
	}
	if withSecret {
		resp.Secret = client.Secret
	}
	return resp
}

type createClientRequest struct {
	Name         string   `json:"name"`
	RedirectURIs []string `json:"redirectUris"`
	Scopes       []string `json:"scopes"`
	Grants       []string `json:"grants"`
	Image        string   `json:"image"`
}

type updateClientRequest struct {
	Name         *string  `json:"name"`
	RedirectURIs []string `json:"redirectUris"`
	Scopes       []string `json:"scopes"`
	Grants       []string `json:"grants"`
	Image        *string  `json:"image"`
}

// canManage reports whether the user may read or modify the client.
func canManage(user model.User, client model.Client) bool {
	return client.UserID == user.ID || user.HasAnyRole(model.RoleAdmin, model.RoleDev)
}

func (h *Client) requireUser(w http.ResponseWriter, r *http.Request) (model.User, bool) {
	user, ok := h.contextManager.GetUserFromContext(r.Context())
	if !ok {
		RenderError(w, apierrors.NewErrMissingAuthorizationToken())
	}
	return user, ok
}

// Create registers a new client owned by the authenticated user. The
// generated secret is returned once, in this response.
func (h *Client) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	var req createClientRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	client, err := h.service.Create(r.Context(), user, service.CreateClientInput{
		Name:         req.Name,
		RedirectURIs: req.RedirectURIs,
		Scopes:       req.Scopes,
		Grants:       req.Grants,
		Image:        req.Image,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toClientResponse(client, true))
}

// Get returns a client by id to its owner or an administrator.
func (h *Client) Get(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	client, err := h.service.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, err)
		return
	}
	if !canManage(user, client) {
		RenderError(w, apierrors.NewErrForbidden())
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(client, true))
}

// Update modifies a client by id.
func (h *Client) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		RenderError(w, err)
		return
	}
	if !canManage(user, client) {
		RenderError(w, apierrors.NewErrForbidden())
		return
	}

	var req updateClientRequest
	if err := decodeJSON(r, &req); err != nil {
		RenderError(w, err)
		return
	}

	updated, err := h.service.Update(r.Context(), id, service.UpdateClientInput{
		Name:         req.Name,
		RedirectURIs: req.RedirectURIs,
		Scopes:       req.Scopes,
		Grants:       req.Grants,
		Image:        req.Image,
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(updated, true))
}

// Delete removes a client by id.
func (h *Client) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		RenderError(w, err)
		return
	}
	if !canManage(user, client) {
		RenderError(w, apierrors.NewErrForbidden())
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		RenderError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// List returns a page of clients with the total count in X-Total-Count.
// Secrets are never included in listings.
func (h *Client) List(w http.ResponseWriter, r *http.Request) {
	offset, limit, err := pageParams(r)
	if err != nil {
		RenderError(w, err)
		return
	}

	clients, err := h.service.List(r.Context(), offset, limit)
	if err != nil {
		RenderError(w, err)
		return
	}

	total, err := h.service.Count(r.Context())
	if err != nil {
		RenderError(w, err)
		return
	}

	resp := make([]ClientResponse, 0, len(clients))
	for _, client := range clients {
		resp = append(resp, toClientResponse(client, false))
	}

	w.Header().Set("X-Total-Count", strconv.Itoa(total))
	writeJSON(w, http.StatusOK, resp)
}

// UploadImage stores the client's logo and points the client's image URL
// at the download endpoint.
func (h *Client) UploadImage(w http.ResponseWriter, r *http.Request) {
	user, ok := h.requireUser(w, r)
	if !ok {
		return
	}

	id := chi.URLParam(r, "id")
	client, err := h.service.Get(r.Context(), id)
	if err != nil {
		RenderError(w, err)
		return
	}
	if !canManage(user, client) {
		RenderError(w, apierrors.NewErrForbidden())
		return
	}

	updated, err := h.service.UploadImage(r.Context(), id, r.Body)
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toClientResponse(updated, false))
}

// DownloadImage streams the client's logo. The endpoint is public so login
// and consent pages can embed it.
func (h *Client) DownloadImage(w http.ResponseWriter, r *http.Request) {
	reader, err := h.service.DownloadImage(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		RenderError(w, err)
		return
	}
	defer reader.Close()

	w.Header().Set("Content-Type", "application/octet-stream")
	if _, err := io.Copy(w, reader); err != nil {
		h.logger.Error("Client handler: failed to stream image", "error", err.Error())
	}
}
