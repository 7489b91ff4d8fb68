// Package auth validates the bearer tokens that identify chat platform users.
// The bridge that relays user commands signs a token whose subject is the
// platform user id; this service never stores credentials.
package auth

import (
	"context"
	"time"
)

// JWTService defines operations for managing JWT authentication tokens.
type JWTService interface {
	// GenerateToken creates a signed access token for userID.
	// Used by the token command and tests; the bridge signs its own tokens
	// with the shared secret.
	GenerateToken(ctx context.Context, userID string) (string, error)

	// ValidateToken validates the provided token string and extracts the claims.
	// Returns ErrExpiredToken, ErrTokenNotYetValid, ErrMissingSubject or
	// ErrInvalidToken when validation fails.
	ValidateToken(ctx context.Context, tokenString string) (*Claims, error)
}

// Claims is the validated content of a token.
type Claims struct {
	// UserID is the subject of the token.
	UserID    string    `json:"sub"`
	IssuedAt  time.Time `json:"iat,omitempty"`
	ExpiresAt time.Time `json:"exp,omitempty"`
	ID        string    `json:"jti,omitempty"`
}
