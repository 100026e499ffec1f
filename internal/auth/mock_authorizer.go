package auth

import (
	"context"
	"strings"
)

const (
	// devTokenPrefix marks unsigned local development tokens. The remainder
	// of the token is the identity id, optionally followed by ":<email>".
	devTokenPrefix = "dev:"
)

// MockAuthorizer resolves dev-mode tokens for local development. It only
// accepts tokens of the form "dev:<identityId>[:<email>]".
type MockAuthorizer struct{}

// NewMockAuthorizer creates a MockAuthorizer for local development.
func NewMockAuthorizer() *MockAuthorizer {
	return &MockAuthorizer{}
}

// Authorize resolves a dev token to its embedded identity.
func (m *MockAuthorizer) Authorize(ctx context.Context, token string) (*Identity, error) {
	if !strings.HasPrefix(token, devTokenPrefix) {
		return nil, ErrInvalidToken
	}
	rest := strings.TrimPrefix(token, devTokenPrefix)
	if rest == "" {
		return nil, ErrInvalidToken
	}

	id := &Identity{Provider: "dev"}
	if i := strings.IndexByte(rest, ':'); i >= 0 {
		id.IdentityID = rest[:i]
		id.Email = rest[i+1:]
	} else {
		id.IdentityID = rest
		id.Email = rest + "@dev.local"
	}
	if id.IdentityID == "" {
		return nil, ErrInvalidToken
	}
	return id, nil
}
