package pgsql

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxIntegrationRepository struct {
	BaseRepository
}

// newPgxIntegrationRepository creates a new repository for integration connections.
func newPgxIntegrationRepository(pool *pgxpool.Pool) portsrepo.IntegrationRepositoryFacade {
	return &PgxIntegrationRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.IntegrationRepositoryFacade = (*PgxIntegrationRepository)(nil)

const connectionColumns = `
	c.id, c.org_id, c.store_id, c.source, c.is_active, c.vault_secret_id, c.last_sync_at,
	c.last_sync_status::text AS last_sync_status, c.error_details, c.settings,
	c.created_at, c.updated_at
`

const connectionSelectQuery = `SELECT ` + connectionColumns + ` FROM integration_connections c `

func (r *PgxIntegrationRepository) getConnections(ctx context.Context, filterQuery string, args ...any) ([]domain.IntegrationConnection, error) {
	rows, err := r.Pool.Query(ctx, connectionSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.IntegrationConnection{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query integration connections", err)
	}
	conns, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.IntegrationConnection])
	if err != nil {
		if isMalformedID(err) {
			return []domain.IntegrationConnection{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect integration connection rows", err)
	}
	return conns, nil
}

func (r *PgxIntegrationRepository) FindConnectionByID(ctx context.Context, orgID, connectionID string) (*domain.IntegrationConnection, error) {
	conns, err := r.getConnections(ctx, `WHERE c.org_id = $1 AND c.id = $2`, orgID, connectionID)
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, apperrors.NewNotFoundError("integration connection not found")
	}
	return &conns[0], nil
}

func (r *PgxIntegrationRepository) FindConnection(ctx context.Context, orgID, storeID string, source domain.Source) (*domain.IntegrationConnection, error) {
	conns, err := r.getConnections(ctx,
		`WHERE c.org_id = $1 AND c.store_id = $2 AND c.source = $3`, orgID, storeID, string(source))
	if err != nil {
		return nil, err
	}
	if len(conns) == 0 {
		return nil, apperrors.NewNotFoundError("integration connection not found")
	}
	return &conns[0], nil
}

func (r *PgxIntegrationRepository) ListConnectionsByStore(ctx context.Context, orgID, storeID string) ([]domain.IntegrationConnection, error) {
	return r.getConnections(ctx, `WHERE c.org_id = $1 AND c.store_id = $2 ORDER BY c.source`, orgID, storeID)
}

// UpsertConnection replaces credential, settings and active flag of an existing
// (store, source) row. Sync bookkeeping columns survive a reconnect.
func (r *PgxIntegrationRepository) UpsertConnection(ctx context.Context, conn domain.IntegrationConnection) (*domain.IntegrationConnection, error) {
	settings, err := conn.Settings.Bytes()
	if err != nil {
		return nil, apperrors.NewValidationFailedError("integration settings are not valid JSON")
	}

	rows, err := r.Pool.Query(ctx, `
		INSERT INTO integration_connections AS c (id, org_id, store_id, source, is_active, vault_secret_id, settings, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $8)
		ON CONFLICT (store_id, source) DO UPDATE SET
			is_active = EXCLUDED.is_active,
			vault_secret_id = EXCLUDED.vault_secret_id,
			settings = EXCLUDED.settings,
			error_details = NULL,
			updated_at = EXCLUDED.updated_at
		WHERE c.org_id = EXCLUDED.org_id
		RETURNING `+connectionColumns,
		conn.ID, conn.OrgID, conn.StoreID, string(conn.Source), conn.IsActive, conn.VaultSecretID, settings, conn.CreatedAt,
	)
	if err != nil {
		return nil, mapWriteError(err, "failed to save integration connection", "integration connection already exists")
	}
	saved, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[domain.IntegrationConnection])
	if err != nil {
		// the conflicting row belongs to another org: the WHERE clause suppressed the update
		return nil, mapReadError(err, "store not found", "failed to save integration connection")
	}
	return &saved, nil
}

func (r *PgxIntegrationRepository) DeactivateConnection(ctx context.Context, orgID, connectionID string) error {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE integration_connections
		SET is_active = FALSE, vault_secret_id = NULL, updated_at = NOW()
		WHERE org_id = $1 AND id = $2`, orgID, connectionID)
	if err != nil {
		if isMalformedID(err) {
			return apperrors.NewNotFoundError("integration connection not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to deactivate integration connection", err)
	}
	return requireOneRow(tag, "integration connection not found")
}

func (r *PgxIntegrationRepository) DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error) {
	tag, err := r.Pool.Exec(ctx, `
		UPDATE integration_connections c
		SET is_active = FALSE, vault_secret_id = NULL, updated_at = NOW()
		FROM stores s
		WHERE s.id = c.store_id AND s.shopify_domain = $1 AND c.source = $2 AND c.is_active`,
		shopDomain, string(domain.SourceShopify))
	if err != nil {
		return 0, apperrors.NewAppError(http.StatusInternalServerError, "failed to deactivate shop connections", err)
	}
	return tag.RowsAffected(), nil
}
