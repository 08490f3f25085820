// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package auth

import (
	"crypto/hmac"
	"crypto/sha256"
	"errors"
	"net/http"
	"strings"
)

var (
	ErrInvalidToken = errors.New("invalid admin token")
	ErrMissingToken = errors.New("missing bearer token")
)

// Verifier decides whether a presented token grants admin access
type Verifier interface {
	Verify(token string) bool
}

// SharedSecret verifies tokens against one configured admin secret.
// The login token is the secret itself.
type SharedSecret struct {
	digest []byte
}

func NewSharedSecret(secret string) *SharedSecret {
	if secret == "" {
		return &SharedSecret{}
	}
	return &SharedSecret{digest: digest(secret)}
}

// Verify compares digests in constant time. An empty secret never verifies.
func (s *SharedSecret) Verify(token string) bool {
	if len(s.digest) == 0 || token == "" {
		return false
	}
	return hmac.Equal(digest(token), s.digest)
}

// digest hashes so the comparison does not leak the secret length
func digest(v string) []byte {
	sum := sha256.Sum256([]byte(v))
	return sum[:]
}

// BearerToken extracts the token from an Authorization: Bearer header
func BearerToken(r *http.Request) (string, error) {
	h := r.Header.Get("Authorization")
	if h == "" {
		return "", ErrMissingToken
	}
	token, ok := strings.CutPrefix(h, "Bearer ")
	if !ok || token == "" {
		return "", ErrMissingToken
	}
	return strings.TrimSpace(token), nil
}

// ValidateRequest checks the request's bearer token with v
func ValidateRequest(r *http.Request, v Verifier) error {
	token, err := BearerToken(r)
	if err != nil {
		return err
	}
	if !v.Verify(token) {
		return ErrInvalidToken
	}
	return nil
}
