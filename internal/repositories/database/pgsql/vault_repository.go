package pgsql

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
)

// VaultRepository reaches the credential vault through the private schema
// functions. The pool must connect as a role allowed to execute them.
type VaultRepository struct {
	BaseRepository
}

// NewVaultRepository creates a vault backend over the service-role pool.
func NewVaultRepository(servicePool *pgxpool.Pool) *VaultRepository {
	return &VaultRepository{
		BaseRepository: BaseRepository{Pool: servicePool},
	}
}

var _ providers.SecretVault = (*VaultRepository)(nil)

func (r *VaultRepository) StoreSecret(ctx context.Context, secret, name, description string) (string, error) {
	var id *string
	err := r.Pool.QueryRow(ctx,
		`SELECT private.store_integration_credential($1, $2, $3)::text`,
		secret, name, description,
	).Scan(&id)
	if err != nil {
		return "", &apperrors.VaultWriteError{Name: name, Err: err}
	}
	if id == nil {
		return "", nil
	}
	return *id, nil
}

func (r *VaultRepository) GetSecret(ctx context.Context, secretID string) (string, bool, error) {
	var secret *string
	err := r.Pool.QueryRow(ctx,
		`SELECT private.get_integration_credential($1::uuid)`, secretID,
	).Scan(&secret)
	if err != nil {
		if isMalformedID(err) {
			return "", false, nil
		}
		return "", false, &apperrors.VaultReadError{SecretID: secretID, Err: err}
	}
	if secret == nil {
		return "", false, nil
	}
	return *secret, true, nil
}
