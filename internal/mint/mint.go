package mint

import (
	"crypto/rand"
	"crypto/sha256"
	"crypto/subtle"
	"encoding/base64"
	"encoding/hex"
	"fmt"
	"strconv"
	"time"

	"golang.org/x/crypto/pbkdf2"
)

const (
	seedBytes = 32
	saltBytes = 16

	pbkdf2Iterations = 4096
	pbkdf2KeyLen     = 32
)

// NewOpaque mints an opaque identifier for access tokens, refresh tokens
// and authorization codes: a 64-character hex digest of a timestamped
// random seed. Validity of the result is determined solely by store lookup.
func NewOpaque() (string, error) {
	seed := make([]byte, seedBytes)
	if _, err := rand.Read(seed); err != nil {
		return "", fmt.Errorf("failed to read random seed: %w", err)
	}

	input := append([]byte(strconv.FormatInt(time.Now().UnixNano(), 10)), seed...)
	sum := sha256.Sum256(input)
	return hex.EncodeToString(sum[:]), nil
}

// NewClientSecret mints a server-generated client secret.
func NewClientSecret() (string, error) {
	buf := make([]byte, seedBytes)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("failed to read random secret: %w", err)
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// NewSalt mints a per-user password salt.
func NewSalt() ([]byte, error) {
	salt := make([]byte, saltBytes)
	if _, err := rand.Read(salt); err != nil {
		return nil, fmt.Errorf("failed to read random salt: %w", err)
	}
	return salt, nil
}

// HashPassword derives a one-way salted hash of the password.
func HashPassword(password string, salt []byte) []byte {
	return pbkdf2.Key([]byte(password), salt, pbkdf2Iterations, pbkdf2KeyLen, sha256.New)
}

// VerifyPassword checks a password against a stored hash in constant time.
func VerifyPassword(password string, salt, hash []byte) bool {
	derived := HashPassword(password, salt)
	return subtle.ConstantTimeCompare(derived, hash) == 1
}
