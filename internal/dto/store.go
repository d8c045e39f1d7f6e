package dto

import (
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// CreateStoreRequest connects a Shopify storefront to a workspace.
type CreateStoreRequest struct {
	WorkspaceID   string `json:"workspaceId" binding:"required,uuid"`
	ShopifyDomain string `json:"shopifyDomain" binding:"required,max=255"`
	DisplayName   string `json:"displayName" binding:"required,min=1,max=200"`
}

// StoreResponse defines data returned for a store.
type StoreResponse struct {
	ID            string    `json:"id"`
	WorkspaceID   string    `json:"workspaceId"`
	ShopifyDomain string    `json:"shopifyDomain"`
	DisplayName   string    `json:"displayName"`
	CreatedAt     time.Time `json:"createdAt"`
}

// ToStoreResponse converts domain.Store to DTO.
func ToStoreResponse(s *domain.Store) StoreResponse {
	return StoreResponse{
		ID:            s.ID,
		WorkspaceID:   s.WorkspaceID,
		ShopifyDomain: s.ShopifyDomain,
		DisplayName:   s.DisplayName,
		CreatedAt:     s.CreatedAt,
	}
}

// ListStoresResponse wraps a list of stores.
type ListStoresResponse struct {
	Stores []StoreResponse `json:"stores"`
}

// ToListStoresResponse converts a slice of domain.Store to DTO.
func ToListStoresResponse(ss []domain.Store) ListStoresResponse {
	list := make([]StoreResponse, len(ss))
	for i := range ss {
		list[i] = ToStoreResponse(&ss[i])
	}
	return ListStoresResponse{Stores: list}
}
