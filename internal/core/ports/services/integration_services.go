package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// ConnectIntegrationInput carries a new or replacement connection. Credential
// goes to the vault and is never persisted on the connection row.
type ConnectIntegrationInput struct {
	StoreID    string
	Source     domain.Source
	Credential string
	Settings   domain.JSONMap
}

// IntegrationReaderSvc defines read operations for integration connections.
type IntegrationReaderSvc interface {
	ListConnections(ctx context.Context, oc domain.OrgContext, storeID string) ([]domain.IntegrationConnection, error)
}

// IntegrationWriterSvc defines write operations for integration connections.
type IntegrationWriterSvc interface {
	Connect(ctx context.Context, oc domain.OrgContext, input ConnectIntegrationInput) (*domain.IntegrationConnection, error)
	Disconnect(ctx context.Context, oc domain.OrgContext, connectionID string) error
}

// IntegrationInternalSvc is reachable from service-level code only.
type IntegrationInternalSvc interface {
	// ResolveCredential reads the connection's secret back from the vault.
	ResolveCredential(ctx context.Context, orgID, connectionID string) (string, error)

	// AuthorizeIntegrationChange returns the store when the caller may change its
	// integrations: admins always, members only inside their own workspaces.
	AuthorizeIntegrationChange(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error)

	// DeactivateByShopDomain turns off every Shopify connection of the shop.
	DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error)
}

// IntegrationSvcFacade combines all integration service interfaces.
type IntegrationSvcFacade interface {
	IntegrationReaderSvc
	IntegrationWriterSvc
	IntegrationInternalSvc
}
