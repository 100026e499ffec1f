// Package auth resolves bearer tokens to the identity that the external
// provider signed into them. The service trusts the gateway to have
// verified the token signature; here we only resolve and sanity-check it.
package auth

import (
	"context"
)

// Identity contains information about an authenticated caller.
type Identity struct {
	IdentityID string `json:"identity_id"` // Provider subject id, stable per user
	Email      string `json:"email"`      // Email asserted by the provider
	Provider   string `json:"provider"`   // e.g. 'github', 'dev'
}

// Authorizer resolves a bearer token to the caller's identity.
type Authorizer interface {
	// Authorize validates the token and returns the identity it asserts.
	// Returns ErrInvalidToken when the token cannot be resolved.
	Authorize(ctx context.Context, token string) (*Identity, error)
}
