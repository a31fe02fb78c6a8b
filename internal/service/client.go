package service

import (
	"context"
	"errors"
	"io"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/mint"
	"github.com/dtroode/authkeeper/internal/model"
)

// Client provides registration and management of OAuth2 clients. Client
// ids and secrets are always server-generated.
type Client struct {
	store  model.ClientStore
	assets model.Storage
	logger *logger.Logger
}

func NewClient(store model.ClientStore, assets model.Storage, logger *logger.Logger) *Client {
	return &Client{store: store, assets: assets, logger: logger}
}

// CreateClientInput carries the fields accepted at client registration.
type CreateClientInput struct {
	Name         string
	RedirectURIs []string
	Scopes       []string
	Grants       []string
	Image        string
}

// UpdateClientInput carries the fields accepted at client update.
type UpdateClientInput struct {
	Name         *string
	RedirectURIs []string
	Scopes       []string
	Grants       []string
	Image        *string
}

var knownGrants = map[string]bool{
	model.GrantAuthorizationCode: true,
	model.GrantPassword:          true,
	model.GrantClientCredentials: true,
	model.GrantRefreshToken:      true,
}

func validateGrants(grants []string) error {
	for _, grant := range grants {
		if !knownGrants[grant] {
			return apierrors.NewErrBadParameters("unknown grant type: " + grant)
		}
	}
	return nil
}

// Create registers a new client owned by the given user. Clients without a
// scope restriction are administrative and may only be created by admins.
func (s *Client) Create(ctx context.Context, owner model.User, input CreateClientInput) (model.Client, error) {
	if input.Name == "" {
		return model.Client{}, apierrors.NewErrBadParameters("name is required")
	}
	if err := validateGrants(input.Grants); err != nil {
		return model.Client{}, err
	}
	if input.Scopes == nil && !owner.HasRole(model.RoleAdmin) {
		return model.Client{}, apierrors.NewErrBadParameters("a scope restriction is required")
	}

	secret, err := mint.NewClientSecret()
	if err != nil {
		s.logger.Error("Client service: failed to mint client secret", "error", err.Error())
		return model.Client{}, apierrors.NewErrUnknown()
	}

	now := time.Now()
	client := model.Client{
		ID:           uuid.NewString(),
		Secret:       secret,
		Name:         input.Name,
		Image:        input.Image,
		RedirectURIs: input.RedirectURIs,
		Scopes:       input.Scopes,
		Grants:       input.Grants,
		UserID:       owner.ID,
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	savedClient, err := s.store.Create(ctx, client)
	if err != nil {
		s.logger.Error("Client service: failed to create client", "error", err.Error())
		return model.Client{}, apierrors.NewErrStoreUnavailable()
	}

	s.logger.Info("Client service: client created", "client_id", savedClient.ID, "user_id", owner.ID)

	return savedClient, nil
}

func (s *Client) Get(ctx context.Context, id string) (model.Client, error) {
	client, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Client{}, apierrors.NewErrNotFound("client")
		}
		s.logger.Error("Client service: failed to get client", "client_id", id, "error", err.Error())
		return model.Client{}, apierrors.NewErrStoreUnavailable()
	}
	return client, nil
}

func (s *Client) Update(ctx context.Context, id string, input UpdateClientInput) (model.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return model.Client{}, err
	}

	if err := validateGrants(input.Grants); err != nil {
		return model.Client{}, err
	}
	if input.Name != nil {
		client.Name = *input.Name
	}
	if input.RedirectURIs != nil {
		client.RedirectURIs = input.RedirectURIs
	}
	if input.Scopes != nil {
		client.Scopes = input.Scopes
	}
	if input.Grants != nil {
		client.Grants = input.Grants
	}
	if input.Image != nil {
		client.Image = *input.Image
	}

	savedClient, err := s.store.Update(ctx, client)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Client{}, apierrors.NewErrNotFound("client")
		}
		s.logger.Error("Client service: failed to update client", "client_id", id, "error", err.Error())
		return model.Client{}, apierrors.NewErrStoreUnavailable()
	}

	return savedClient, nil
}

func (s *Client) Delete(ctx context.Context, id string) error {
	if err := s.store.Delete(ctx, id); err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return apierrors.NewErrNotFound("client")
		}
		s.logger.Error("Client service: failed to delete client", "client_id", id, "error", err.Error())
		return apierrors.NewErrStoreUnavailable()
	}

	s.logger.Info("Client service: client deleted", "client_id", id)

	return nil
}

func (s *Client) List(ctx context.Context, offset, limit int) ([]model.Client, error) {
	clients, err := s.store.List(ctx, offset, limit)
	if err != nil {
		s.logger.Error("Client service: failed to list clients", "error", err.Error())
		return nil, apierrors.NewErrStoreUnavailable()
	}
	return clients, nil
}

func (s *Client) Count(ctx context.Context) (int, error) {
	count, err := s.store.Count(ctx)
	if err != nil {
		s.logger.Error("Client service: failed to count clients", "error", err.Error())
		return 0, apierrors.NewErrStoreUnavailable()
	}
	return count, nil
}

// UploadImage stores the client's logo and records its serving path on the
// client.
func (s *Client) UploadImage(ctx context.Context, id string, reader io.Reader) (model.Client, error) {
	client, err := s.Get(ctx, id)
	if err != nil {
		return model.Client{}, err
	}

	if err := s.assets.Upload(ctx, imageKey(id), reader); err != nil {
		s.logger.Error("Client service: failed to upload client image", "client_id", id, "error", err.Error())
		return model.Client{}, apierrors.NewErrStoreUnavailable()
	}

	client.Image = "/api/client/" + id + "/image"
	savedClient, err := s.store.Update(ctx, client)
	if err != nil {
		s.logger.Error("Client service: failed to record client image", "client_id", id, "error", err.Error())
		return model.Client{}, apierrors.NewErrStoreUnavailable()
	}

	return savedClient, nil
}

// DownloadImage streams the client's logo.
func (s *Client) DownloadImage(ctx context.Context, id string) (io.ReadCloser, error) {
	exists, err := s.assets.Exists(ctx, imageKey(id))
	if err != nil {
		s.logger.Error("Client service: failed to stat client image", "client_id", id, "error", err.Error())
		return nil, apierrors.NewErrStoreUnavailable()
	}
	if !exists {
		return nil, apierrors.NewErrNotFound("client image")
	}

	reader, err := s.assets.Download(ctx, imageKey(id))
	if err != nil {
		s.logger.Error("Client service: failed to download client image", "client_id", id, "error", err.Error())
		return nil, apierrors.NewErrStoreUnavailable()
	}
	return reader, nil
}

func imageKey(id string) string {
	return "clients/" + id + "/image"
}
