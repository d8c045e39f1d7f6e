package domain

import "time"

// Store is a Shopify storefront. Its workspace must belong to the same org.
type Store struct {
	ID            string    `json:"id" db:"id"`
	OrgID         string    `json:"orgId" db:"org_id"`
	WorkspaceID   string    `json:"workspaceId" db:"workspace_id"`
	ShopifyDomain string    `json:"shopifyDomain" db:"shopify_domain"`
	DisplayName   string    `json:"displayName" db:"display_name"`
	CreatedAt     time.Time `json:"createdAt" db:"created_at"`
}
