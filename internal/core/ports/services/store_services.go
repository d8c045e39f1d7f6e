package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// StoreReaderSvc defines read operations for stores.
type StoreReaderSvc interface {
	GetStore(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error)
	ListStores(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.Store, error)
}

// StoreWriterSvc defines write operations for stores.
type StoreWriterSvc interface {
	CreateStore(ctx context.Context, oc domain.OrgContext, workspaceID, shopifyDomain, displayName string) (*domain.Store, error)
	DeleteStore(ctx context.Context, oc domain.OrgContext, storeID string) error
}

// StoreSvcFacade combines all store service interfaces.
type StoreSvcFacade interface {
	StoreReaderSvc
	StoreWriterSvc
}
