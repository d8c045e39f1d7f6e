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

type PgxStoreRepository struct {
	BaseRepository
}

// newPgxStoreRepository creates a new repository for stores.
func newPgxStoreRepository(pool *pgxpool.Pool) portsrepo.StoreRepositoryFacade {
	return &PgxStoreRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.StoreRepositoryFacade = (*PgxStoreRepository)(nil)

const storeSelectQuery = `
SELECT s.id, s.org_id, s.workspace_id, s.shopify_domain, s.display_name, s.created_at
FROM stores s
`

func (r *PgxStoreRepository) getStores(ctx context.Context, filterQuery string, args ...any) ([]domain.Store, error) {
	rows, err := r.Pool.Query(ctx, storeSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.Store{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query stores", err)
	}
	stores, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Store])
	if err != nil {
		if isMalformedID(err) {
			return []domain.Store{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect store rows", err)
	}
	return stores, nil
}

func (r *PgxStoreRepository) FindStoreByID(ctx context.Context, orgID, storeID string) (*domain.Store, error) {
	stores, err := r.getStores(ctx, `WHERE s.org_id = $1 AND s.id = $2`, orgID, storeID)
	if err != nil {
		return nil, err
	}
	if len(stores) == 0 {
		return nil, apperrors.NewNotFoundError("store not found")
	}
	return &stores[0], nil
}

func (r *PgxStoreRepository) ListStores(ctx context.Context, orgID, workspaceID string) ([]domain.Store, error) {
	if workspaceID == "" {
		return r.getStores(ctx, `WHERE s.org_id = $1 ORDER BY s.display_name, s.id`, orgID)
	}
	return r.getStores(ctx, `WHERE s.org_id = $1 AND s.workspace_id = $2 ORDER BY s.display_name, s.id`, orgID, workspaceID)
}

func (r *PgxStoreRepository) ListStoresForUser(ctx context.Context, orgID, userID string) ([]domain.Store, error) {
	return r.getStores(ctx, `
		JOIN workspace_members wm ON wm.workspace_id = s.workspace_id
		WHERE s.org_id = $1 AND wm.user_id = $2
		ORDER BY s.display_name, s.id`, orgID, userID)
}

func (r *PgxStoreRepository) SaveStore(ctx context.Context, store domain.Store) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO stores (id, org_id, workspace_id, shopify_domain, display_name, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		store.ID, store.OrgID, store.WorkspaceID, store.ShopifyDomain, store.DisplayName, store.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save store", "store "+store.ShopifyDomain+" is already connected to this organization")
	}
	return nil
}

func (r *PgxStoreRepository) DeleteStore(ctx context.Context, orgID, storeID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM stores WHERE org_id = $1 AND id = $2`, orgID, storeID)
	if err != nil {
		if isMalformedID(err) {
			return apperrors.NewNotFoundError("store not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete store", err)
	}
	return requireOneRow(tag, "store not found")
}
