package domain

import "time"

// Source identifies an external data provider.
type Source string

const (
	SourceShopify     Source = "shopify"
	SourceClarity     Source = "clarity"
	SourceIntelligems Source = "intelligems"
	SourceGorgias     Source = "gorgias"
	SourceKnoCommerce Source = "knocommerce"
	SourceJudgeMe     Source = "judgeme"
)

// KnownSources lists every integration source the platform can connect.
var KnownSources = []Source{
	SourceShopify, SourceClarity, SourceIntelligems,
	SourceGorgias, SourceKnoCommerce, SourceJudgeMe,
}

// Valid reports whether s is a known integration source.
func (s Source) Valid() bool {
	for _, known := range KnownSources {
		if s == known {
			return true
		}
	}
	return false
}

// IntegrationConnection links a store to an external source. The credential
// lives in the vault; only its identifier is kept here.
type IntegrationConnection struct {
	ID             string      `json:"id" db:"id"`
	OrgID          string      `json:"orgId" db:"org_id"`
	StoreID        string      `json:"storeId" db:"store_id"`
	Source         Source      `json:"source" db:"source"`
	IsActive       bool        `json:"isActive" db:"is_active"`
	VaultSecretID  *string     `json:"-" db:"vault_secret_id"`
	LastSyncAt     *time.Time  `json:"lastSyncAt,omitempty" db:"last_sync_at"`
	LastSyncStatus *SyncStatus `json:"lastSyncStatus,omitempty" db:"last_sync_status"`
	ErrorDetails   JSONMap     `json:"errorDetails,omitempty" db:"error_details"`
	Settings       JSONMap     `json:"settings" db:"settings"`
	CreatedAt      time.Time   `json:"createdAt" db:"created_at"`
	UpdatedAt      time.Time   `json:"updatedAt" db:"updated_at"`
}

// HasCredential reports whether a vault secret is attached.
func (c IntegrationConnection) HasCredential() bool {
	return c.VaultSecretID != nil && *c.VaultSecretID != ""
}
