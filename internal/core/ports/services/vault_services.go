package services

import "context"

// VaultSvc stores and retrieves integration credentials. Only service-level
// callers hold one.
type VaultSvc interface {
	// StoreCredential returns the vault identifier or a *apperrors.VaultWriteError.
	StoreCredential(ctx context.Context, secret, name, description string) (string, error)

	// GetCredential returns the plaintext, a *apperrors.VaultReadError or a
	// *apperrors.VaultNotFoundError.
	GetCredential(ctx context.Context, secretID string) (string, error)
}
