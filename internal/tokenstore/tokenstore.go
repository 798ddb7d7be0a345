// Package tokenstore keeps short-lived single-use tokens (password reset,
// email verification) mapped to a user id.
package tokenstore

import (
	"context"
	"crypto/rand"
	"encoding/base64"
	"errors"
	"time"
)

const (
	PurposePasswordReset     = "password_reset"
	PurposeEmailVerification = "email_verification"
)

var ErrTokenNotFound = errors.New("token not found or expired")

type Store interface {
	Put(ctx context.Context, purpose, token string, userID uint, ttl time.Duration) error
	// Take returns the user id and removes the token in one step.
	Take(ctx context.Context, purpose, token string) (uint, error)
}

// NewToken returns 32 random bytes, URL-safe base64 without padding.
func NewToken() (string, error) {
	b := make([]byte, 32)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

func key(purpose, token string) string {
	return purpose + ":" + token
}
