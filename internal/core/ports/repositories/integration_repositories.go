package repositories

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// IntegrationReader defines read operations for integration connections.
type IntegrationReader interface {
	FindConnectionByID(ctx context.Context, orgID, connectionID string) (*domain.IntegrationConnection, error)

	// FindConnection looks a connection up by its natural key.
	FindConnection(ctx context.Context, orgID, storeID string, source domain.Source) (*domain.IntegrationConnection, error)

	ListConnectionsByStore(ctx context.Context, orgID, storeID string) ([]domain.IntegrationConnection, error)
}

// IntegrationWriter defines write operations for integration connections.
type IntegrationWriter interface {
	// UpsertConnection inserts or replaces the connection for (store, source) and
	// returns the stored row.
	UpsertConnection(ctx context.Context, conn domain.IntegrationConnection) (*domain.IntegrationConnection, error)

	// DeactivateConnection marks the connection inactive and drops its secret reference.
	DeactivateConnection(ctx context.Context, orgID, connectionID string) error

	// DeactivateByShopDomain deactivates every Shopify connection of stores with the
	// given domain, across organizations. It returns the number of rows changed.
	DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error)
}

// IntegrationRepositoryFacade combines all integration repository interfaces.
type IntegrationRepositoryFacade interface {
	IntegrationReader
	IntegrationWriter
}
