package apierrors

import "net/http"

// OAuth2 protocol error names used on /oauth2/* endpoints. These follow the
// RFC 6749 vocabulary instead of the generic API taxonomy.
const (
	OAuthInvalidRequest          = "invalid_request"
	OAuthInvalidClient           = "invalid_client"
	OAuthInvalidGrant            = "invalid_grant"
	OAuthInvalidScope            = "invalid_scope"
	OAuthUnsupportedGrantType    = "unsupported_grant_type"
	OAuthUnsupportedResponseType = "unsupported_response_type"
	OAuthAccessDenied            = "access_denied"
	OAuthServerError             = "server_error"
)

// OAuth2Error is rendered as {error, error_description} on protocol
// endpoints, or carried back to the client's redirect URI as query
// parameters during the authorization flow.
type OAuth2Error struct {
	Status      int    `json:"-"`
	Code        string `json:"error"`
	Description string `json:"error_description,omitempty"`
}

func (e *OAuth2Error) Error() string {
	if e.Description == "" {
		return e.Code
	}
	return e.Code + ": " + e.Description
}

// NewOAuthInvalidRequest reports a missing or malformed protocol parameter.
func NewOAuthInvalidRequest(description string) *OAuth2Error {
	return &OAuth2Error{Status: http.StatusBadRequest, Code: OAuthInvalidRequest, Description: description}
}

// NewOAuthInvalidClient reports failed client authentication. The
// description never says whether the id or the secret was wrong.
func NewOAuthInvalidClient() *OAuth2Error {
	return &OAuth2Error{Status: http.StatusUnauthorized, Code: OAuthInvalidClient, Description: "client authentication failed"}
}

// NewOAuthInvalidGrant reports an invalid, expired, revoked or mismatched
// grant artifact. One message covers every cause to avoid oracle attacks.
func NewOAuthInvalidGrant() *OAuth2Error {
	return &OAuth2Error{Status: http.StatusBadRequest, Code: OAuthInvalidGrant, Description: "invalid grant"}
}

// NewOAuthInvalidScope reports a scope outside the client's allowed set.
func NewOAuthInvalidScope() *OAuth2Error {
	return &OAuth2Error{Status: http.StatusBadRequest, Code: OAuthInvalidScope, Description: "requested scope is not allowed"}
}

// NewOAuthUnsupportedGrantType reports a grant type the server or the
// client does not support.
func NewOAuthUnsupportedGrantType(grantType string) *OAuth2Error {
	return &OAuth2Error{Status: http.StatusBadRequest, Code: OAuthUnsupportedGrantType, Description: "unsupported grant type: " + grantType}
}

// NewOAuthUnsupportedResponseType reports a response_type other than code.
func NewOAuthUnsupportedResponseType(responseType string) *OAuth2Error {
	return &OAuth2Error{Status: http.StatusBadRequest, Code: OAuthUnsupportedResponseType, Description: "unsupported response type: " + responseType}
}

// NewOAuthAccessDenied reports that the resource owner refused consent.
func NewOAuthAccessDenied() *OAuth2Error {
	return &OAuth2Error{Status: http.StatusForbidden, Code: OAuthAccessDenied, Description: "access denied"}
}

// NewOAuthServerError reports a backend failure during a protocol flow.
func NewOAuthServerError() *OAuth2Error {
	return &OAuth2Error{Status: http.StatusServiceUnavailable, Code: OAuthServerError, Description: "server error"}
}
