package apierrors

import "net/http"

// Stable error codes returned in API error bodies.
const (
	CodeBadParameters    = "bad_parameters"
	CodeUnauthenticated  = "unauthenticated"
	CodeForbidden        = "forbidden"
	CodeNotFound         = "not_found"
	CodeStoreUnavailable = "store_unavailable"
	CodeUnknown          = "unknown"
)

// APIError is an error surfaced to API callers as {code, message} with an
// HTTP status. Anything that is not an APIError is rendered as CodeUnknown
// so internals never cross the boundary.
type APIError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Message string `json:"message"`
}

func (e *APIError) Error() string {
	return e.Message
}

// NewErrBadParameters reports malformed or missing request input.
func NewErrBadParameters(message string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeBadParameters, Message: message}
}

// NewErrInvalidCredentials reports a failed login. The message is the same
// for a wrong password, an unknown account, and a disabled account.
func NewErrInvalidCredentials() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: CodeUnauthenticated, Message: "invalid credentials"}
}

// NewErrMissingAuthorizationToken reports an absent bearer token.
func NewErrMissingAuthorizationToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: CodeUnauthenticated, Message: "missing authorization token"}
}

// NewErrInvalidAuthorizationToken reports an unknown or expired bearer token.
func NewErrInvalidAuthorizationToken() *APIError {
	return &APIError{Status: http.StatusUnauthorized, Code: CodeUnauthenticated, Message: "invalid authorization token"}
}

// NewErrForbidden reports a valid identity with insufficient role.
func NewErrForbidden() *APIError {
	return &APIError{Status: http.StatusForbidden, Code: CodeForbidden, Message: "insufficient permissions"}
}

// NewErrNotFound reports an absent target resource.
func NewErrNotFound(resource string) *APIError {
	return &APIError{Status: http.StatusNotFound, Code: CodeNotFound, Message: resource + " not found"}
}

// NewErrEmailIsTaken reports a registration conflict.
func NewErrEmailIsTaken(email string) *APIError {
	return &APIError{Status: http.StatusBadRequest, Code: CodeBadParameters, Message: "email " + email + " is already taken"}
}

// NewErrStoreUnavailable reports a failed or unreachable backend store.
func NewErrStoreUnavailable() *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Code: CodeStoreUnavailable, Message: "store unavailable"}
}

// NewErrUnknown reports an uncategorized failure.
func NewErrUnknown() *APIError {
	return &APIError{Status: http.StatusServiceUnavailable, Code: CodeUnknown, Message: "unknown error"}
}
