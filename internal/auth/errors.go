package auth

import "errors"

var (
	// ErrMissingToken is returned when no bearer token accompanies the request
	ErrMissingToken = errors.New("authorization token required")

	// ErrInvalidToken is returned when the token cannot be resolved to an identity
	ErrInvalidToken = errors.New("invalid authorization token")

	// ErrDevTokenInProduction is returned when dev-mode tokens are used in production
	ErrDevTokenInProduction = errors.New("development tokens not allowed in production")
)
