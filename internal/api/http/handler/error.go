package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/dtroode/authkeeper/internal/apierrors"
	"github.com/dtroode/authkeeper/internal/model"
)

// RenderError writes an error as a JSON body with the status it maps to.
// API errors render as {code, message}; OAuth2 protocol errors render as
// {error, error_description}. Anything else is surfaced as an opaque
// unknown error so internals never cross the boundary.
func RenderError(w http.ResponseWriter, err error) {
	var apiErr *apierrors.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.Status, apiErr)
		return
	}

	var oauthErr *apierrors.OAuth2Error
	if errors.As(err, &oauthErr) {
		writeJSON(w, oauthErr.Status, oauthErr)
		return
	}

	if errors.Is(err, model.ErrNotFound) {
		notFound := apierrors.NewErrNotFound("resource")
		writeJSON(w, notFound.Status, notFound)
		return
	}

	unknown := apierrors.NewErrUnknown()
	writeJSON(w, unknown.Status, unknown)
}

// asAPIError folds OAuth2 protocol errors into the generic API taxonomy
// for the /api endpoints that reuse grant internals.
func asAPIError(err error) error {
	var oauthErr *apierrors.OAuth2Error
	if errors.As(err, &oauthErr) {
		switch oauthErr.Code {
		case apierrors.OAuthInvalidGrant, apierrors.OAuthInvalidClient:
			return apierrors.NewErrInvalidAuthorizationToken()
		case apierrors.OAuthServerError:
			return apierrors.NewErrStoreUnavailable()
		default:
			return apierrors.NewErrBadParameters(oauthErr.Description)
		}
	}
	return err
}

func writeJSON(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}

func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return apierrors.NewErrBadParameters("invalid request body")
	}
	return nil
}
