package repositories

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// StoreReader defines read operations for stores.
type StoreReader interface {
	FindStoreByID(ctx context.Context, orgID, storeID string) (*domain.Store, error)

	// ListStores lists the org's stores, narrowed to one workspace when workspaceID is not empty.
	ListStores(ctx context.Context, orgID, workspaceID string) ([]domain.Store, error)

	// ListStoresForUser lists stores in workspaces the user belongs to.
	ListStoresForUser(ctx context.Context, orgID, userID string) ([]domain.Store, error)
}

// StoreWriter defines write operations for stores.
type StoreWriter interface {
	SaveStore(ctx context.Context, store domain.Store) error
	DeleteStore(ctx context.Context, orgID, storeID string) error
}

// StoreRepositoryFacade combines all store repository interfaces.
type StoreRepositoryFacade interface {
	StoreReader
	StoreWriter
}
