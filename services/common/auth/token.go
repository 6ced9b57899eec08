package auth

import (
	"crypto/subtle"
	"errors"
	"strings"
)

var (
	ErrMissingToken = errors.New("missing bearer token")
	ErrInvalidToken = errors.New("invalid token")
)

// BearerToken extracts the token from an Authorization header value of the
// form "Bearer <token>". The scheme is case-insensitive.
func BearerToken(header string) (string, error) {
	parts := strings.Fields(header)
	if len(parts) != 2 || !strings.EqualFold(parts[0], "bearer") {
		return "", ErrMissingToken
	}
	return parts[1], nil
}

// Verifier checks tokens against a fixed shared secret.
type Verifier struct {
	secret []byte
}

func NewVerifier(secret string) *Verifier {
	return &Verifier{secret: []byte(strings.TrimSpace(secret))}
}

// Enabled reports whether a secret is configured.
func (v *Verifier) Enabled() bool {
	return v != nil && len(v.secret) > 0
}

// Verify compares token with the secret in constant time.
func (v *Verifier) Verify(token string) error {
	if !v.Enabled() {
		return ErrInvalidToken
	}
	if subtle.ConstantTimeCompare([]byte(token), v.secret) != 1 {
		return ErrInvalidToken
	}
	return nil
}

// VerifyHeader is BearerToken followed by Verify.
func (v *Verifier) VerifyHeader(header string) error {
	token, err := BearerToken(header)
	if err != nil {
		return err
	}
	return v.Verify(token)
}
