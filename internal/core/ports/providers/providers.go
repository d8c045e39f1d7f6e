package providers

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// IdentityProvider is the external authority that issues and verifies sessions.
type IdentityProvider interface {
	// GetUser re-validates the session with the issuer. When the access token had
	// to be refreshed the new session is returned alongside the user; otherwise
	// the returned session is nil.
	GetUser(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error)

	// SignInURL builds the authorize URL for a PKCE sign-in.
	SignInURL(state, verifier string) string

	// ExchangeCode trades an authorization code for a session.
	ExchangeCode(ctx context.Context, code, verifier string) (*domain.Session, error)

	// SignOut revokes the session at the issuer where supported.
	SignOut(ctx context.Context, session *domain.Session) error
}

// SecretVault stores secrets outside the tenant tables and hands back opaque ids.
type SecretVault interface {
	// StoreSecret saves the secret and returns the vault-assigned identifier.
	StoreSecret(ctx context.Context, secret, name, description string) (string, error)

	// GetSecret returns the plaintext. found is false when the id resolves to nothing.
	GetSecret(ctx context.Context, secretID string) (secret string, found bool, err error)
}
