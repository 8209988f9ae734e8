package token

import (
	"crypto/subtle"
	"encoding/hex"
	"errors"
	"fmt"

	"github.com/golang-jwt/jwt/v5"
)

// Signer produces and checks HMAC-SHA256 signatures over session identifiers.
type Signer struct {
	secret []byte
}

// NewSigner creates a Signer keyed by secret. An empty secret is rejected.
func NewSigner(secret string) (*Signer, error) {
	if secret == "" {
		return nil, errors.New("signing secret is empty")
	}
	return &Signer{secret: []byte(secret)}, nil
}

// Sign returns the lower-case hex HMAC-SHA256 of id.
func (s *Signer) Sign(id string) (string, error) {
	sig, err := jwt.SigningMethodHS256.Sign(id, s.secret)
	if err != nil {
		return "", fmt.Errorf("failed to sign session id: %w", err)
	}
	return hex.EncodeToString(sig), nil
}

// Verify recomputes the signature of id and compares it to sig in constant time.
// The comparison is made on the hex encoding so that any altered character fails.
func (s *Signer) Verify(id, sig string) bool {
	expected, err := s.Sign(id)
	if err != nil {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(sig), []byte(expected)) == 1
}
