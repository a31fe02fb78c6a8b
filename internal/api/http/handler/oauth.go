package handler

import (
	"context"
	"errors"
	"net/http"
	"net/url"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/logger"
	"github.com/dtroode/authkeeper/internal/model"
	"github.com/dtroode/authkeeper/internal/service"
	"github.com/dtroode/authkeeper/internal/token"
)

// GrantService defines the grant engine operations driven by the OAuth2
// endpoints.
type GrantService interface {
	Authorize(ctx context.Context, req service.AuthorizeRequest) (string, error)
	Login(ctx context.Context, flowState, email, password string) (string, error)
	FlowClient(ctx context.Context, flowState string) (model.Client, token.FlowState, error)
	Grant(ctx context.Context, flowState string, allow bool) (string, error)
	Exchange(ctx context.Context, req service.TokenRequest) (service.TokenResponse, error)
}

// OAuth handles the protocol endpoints of the authorization server.
type OAuth struct {
	grant  GrantService
	logger *logger.Logger
}

// NewOAuth creates a new OAuth handler.
func NewOAuth(grant GrantService, logger *logger.Logger) *OAuth {
	return &OAuth{grant: grant, logger: logger}
}

// Auth begins the authorization code flow and redirects to the login page
// with the signed flow state.
func (h *OAuth) Auth(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	state, err := h.grant.Authorize(r.Context(), service.AuthorizeRequest{
		ClientID:     q.Get("client_id"),
		ResponseType: q.Get("response_type"),
		RedirectURI:  q.Get("redirect_uri"),
		Scope:        q.Get("scope"),
		State:        q.Get("state"),
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	http.Redirect(w, r, "/oauth2/login?state="+url.QueryEscape(state), http.StatusFound)
}

// LoginPage renders the login form carrying the flow state.
func (h *OAuth) LoginPage(w http.ResponseWriter, r *http.Request) {
	renderLogin(w, r.URL.Query().Get("state"), "")
}

// Login verifies the resource owner's credentials. Failures are surfaced
// on the same page without redirecting, with one generic message for
// wrong credentials whatever their cause.
func (h *OAuth) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, apierrors.NewErrBadParameters("invalid form body"))
		return
	}

	flowState := r.PostFormValue("state")
	newState, err := h.grant.Login(r.Context(), flowState, r.PostFormValue("email"), r.PostFormValue("password"))
	if err != nil {
		var oauthErr *apierrors.OAuth2Error
		if errors.As(err, &oauthErr) {
			RenderError(w, err)
			return
		}

		message := "invalid email or password"
		var apiErr *apierrors.APIError
		if errors.As(err, &apiErr) && apiErr.Code == apierrors.CodeBadParameters {
			message = apiErr.Message
		}
		renderLogin(w, flowState, message)
		return
	}

	http.Redirect(w, r, "/oauth2/grant?state="+url.QueryEscape(newState), http.StatusFound)
}

// GrantPage renders the consent form for the flow's client.
func (h *OAuth) GrantPage(w http.ResponseWriter, r *http.Request) {
	flowState := r.URL.Query().Get("state")
	client, state, err := h.grant.FlowClient(r.Context(), flowState)
	if err != nil {
		RenderError(w, err)
		return
	}

	renderGrant(w, flowState, client.Name, state.Scope)
}

// Grant finishes the consent step and redirects back to the client with a
// code or an access_denied error.
func (h *OAuth) Grant(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, apierrors.NewErrBadParameters("invalid form body"))
		return
	}

	redirectURL, err := h.grant.Grant(r.Context(), r.PostFormValue("state"), r.PostFormValue("allow") == "true")
	if err != nil {
		RenderError(w, err)
		return
	}

	http.Redirect(w, r, redirectURL, http.StatusFound)
}

// Token is the token endpoint. Client credentials come from Basic auth or
// the form body.
func (h *OAuth) Token(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		RenderError(w, apierrors.NewOAuthInvalidRequest("invalid form body"))
		return
	}

	clientID, clientSecret, ok := r.BasicAuth()
	if !ok {
		clientID = r.PostFormValue("client_id")
		clientSecret = r.PostFormValue("client_secret")
	}

	resp, err := h.grant.Exchange(r.Context(), service.TokenRequest{
		GrantType:    r.PostFormValue("grant_type"),
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Code:         r.PostFormValue("code"),
		RedirectURI:  r.PostFormValue("redirect_uri"),
		Username:     r.PostFormValue("username"),
		Password:     r.PostFormValue("password"),
		Scope:        r.PostFormValue("scope"),
		RefreshToken: r.PostFormValue("refresh_token"),
	})
	if err != nil {
		RenderError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}
