package auth

import "errors"

// Token validation failures. The middleware maps ErrExpiredToken to its own
// message and every other one to a generic invalid-token response.
var (
	ErrInvalidToken     = errors.New("invalid token")
	ErrExpiredToken     = errors.New("token expired")
	ErrTokenNotYetValid = errors.New("token not valid yet")
	ErrMissingToken     = errors.New("missing token")

	// ErrMissingSubject means the token verified but carries no chat user id.
	ErrMissingSubject = errors.New("token has no subject")
)
