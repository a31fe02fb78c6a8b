// Package scope validates space-separated OAuth2 scope strings against
// client restrictions and token grants.
package scope

import "strings"

// Validate intersects a requested scope against a client's allowed scope
// set and returns the scope to grant. An absent requested scope always
// grants no scope. A client with no scope restriction (nil allowed set)
// also grants no scope, which is a distinct outcome from rejecting the
// request. The second return is false when the request names a scope token
// outside the allowed set.
func Validate(requested string, allowed []string) (string, bool) {
	if requested == "" {
		return "", true
	}
	if allowed == nil {
		return "", true
	}

	for _, token := range strings.Fields(requested) {
		if !contains(allowed, token) {
			return "", false
		}
	}
	return requested, true
}

// Verify reports whether a token's granted scope covers the required scope.
// A token with no granted scope never verifies against a non-empty
// requirement.
func Verify(granted, required string) bool {
	requiredTokens := strings.Fields(required)
	if len(requiredTokens) == 0 {
		return true
	}
	grantedTokens := strings.Fields(granted)
	if len(grantedTokens) == 0 {
		return false
	}

	for _, token := range requiredTokens {
		if !contains(grantedTokens, token) {
			return false
		}
	}
	return true
}

func contains(set []string, token string) bool {
	for _, s := range set {
		if s == token {
			return true
		}
	}
	return false
}
