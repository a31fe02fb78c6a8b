package token

import (
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
)

// FlowState is the tamper-evident carrier threaded through the
// authorize -> login -> grant hops of the authorization code flow. It binds
// the validated request parameters and, after login, the authenticated
// user, so that none of them can be altered between hops.
type FlowState struct {
	ClientID    string
	RedirectURI string
	Scope       string
	State       string
	UserID      uuid.UUID
}

// Claims represents flow-state JWT claims.
type Claims struct {
	jwt.RegisteredClaims
	ClientID    string `json:"cid"`
	RedirectURI string `json:"uri"`
	Scope       string `json:"scp,omitempty"`
	State       string `json:"st,omitempty"`
	UserID      string `json:"user_id,omitempty"`
	TokenType   string `json:"typ"`
}

const typeFlow = "flow"

// StateSigner signs and verifies flow-state tokens with symmetric HMAC.
type StateSigner struct {
	secretKey string
	ttl       time.Duration
}

// NewStateSigner creates a signer with the provided secret key and state TTL.
func NewStateSigner(secretKey string, ttl time.Duration) *StateSigner {
	return &StateSigner{secretKey: secretKey, ttl: ttl}
}

// Sign serializes the flow state into a signed, short-lived token.
func (s *StateSigner) Sign(state FlowState) (string, error) {
	now := time.Now()
	claims := Claims{
		RegisteredClaims: jwt.RegisteredClaims{
			IssuedAt:  jwt.NewNumericDate(now),
			ExpiresAt: jwt.NewNumericDate(now.Add(s.ttl)),
		},
		ClientID:    state.ClientID,
		RedirectURI: state.RedirectURI,
		Scope:       state.Scope,
		State:       state.State,
		TokenType:   typeFlow,
	}
	if state.UserID != uuid.Nil {
		claims.UserID = state.UserID.String()
	}

	tokenString, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte(s.secretKey))
	if err != nil {
		return "", fmt.Errorf("failed to sign flow state: %w", err)
	}

	return tokenString, nil
}

// Parse validates the signature and expiry and extracts the flow state.
func (s *StateSigner) Parse(tokenString string) (FlowState, error) {
	claims := &Claims{}
	token, err := jwt.ParseWithClaims(tokenString, claims, func(t *jwt.Token) (interface{}, error) {
		if _, ok := t.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, fmt.Errorf("wrong signing method %v", t.Header["alg"])
		}
		return []byte(s.secretKey), nil
	})
	if err != nil {
		return FlowState{}, fmt.Errorf("failed to parse flow state: %w", err)
	}
	if !token.Valid {
		return FlowState{}, fmt.Errorf("flow state is invalid")
	}
	if claims.TokenType != typeFlow {
		return FlowState{}, fmt.Errorf("token type mismatch: %s", claims.TokenType)
	}

	state := FlowState{
		ClientID:    claims.ClientID,
		RedirectURI: claims.RedirectURI,
		Scope:       claims.Scope,
		State:       claims.State,
	}
	if claims.UserID != "" {
		userID, err := uuid.Parse(claims.UserID)
		if err != nil {
			return FlowState{}, fmt.Errorf("failed to parse user id claim: %w", err)
		}
		state.UserID = userID
	}

	return state, nil
}
