package services

import (
	"context"
	"errors"
	"log/slog"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

type vaultService struct {
	BaseService
	vault providers.SecretVault
}

// NewVaultService wraps a secret vault backend. Failures are surfaced as the
// typed vault errors and never retried here.
func NewVaultService(vault providers.SecretVault) portssvc.VaultSvc {
	return &vaultService{vault: vault}
}

var _ portssvc.VaultSvc = (*vaultService)(nil)

func (s *vaultService) StoreCredential(ctx context.Context, secret, name, description string) (string, error) {
	if secret == "" || name == "" {
		return "", &apperrors.VaultWriteError{Name: name, Err: apperrors.NewValidationFailedError("secret and name are required")}
	}

	id, err := s.vault.StoreSecret(ctx, secret, name, description)
	if err != nil {
		var writeErr *apperrors.VaultWriteError
		if errors.As(err, &writeErr) {
			return "", writeErr
		}
		s.LogError(ctx, err, "Vault write failed", slog.String("secret_name", name))
		return "", &apperrors.VaultWriteError{Name: name, Err: err}
	}
	if id == "" {
		return "", &apperrors.VaultWriteError{Name: name, Err: errors.New("vault returned no identifier")}
	}
	return id, nil
}

func (s *vaultService) GetCredential(ctx context.Context, secretID string) (string, error) {
	secret, found, err := s.vault.GetSecret(ctx, secretID)
	if err != nil {
		var readErr *apperrors.VaultReadError
		if errors.As(err, &readErr) {
			return "", readErr
		}
		s.LogError(ctx, err, "Vault read failed", slog.String("secret_id", secretID))
		return "", &apperrors.VaultReadError{SecretID: secretID, Err: err}
	}
	if !found {
		return "", &apperrors.VaultNotFoundError{SecretID: secretID}
	}
	return secret, nil
}
