package auth

import "errors"

var (
	// ErrInvalidToken is returned for tokens that fail parsing, signature or
	// time checks.
	ErrInvalidToken = errors.New("invalid token")
	// ErrMissingClaim is returned when a valid token lacks the API key or the
	// meeting URL.
	ErrMissingClaim = errors.New("missing claim")
)
