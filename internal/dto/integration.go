package dto

import (
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

// ConnectIntegrationRequest attaches an external source to a store. The
// credential is written to the vault and never echoed back.
type ConnectIntegrationRequest struct {
	Source     string         `json:"source" binding:"required,integration_source"`
	Credential string         `json:"credential" binding:"required,min=1,max=4096"`
	Settings   domain.JSONMap `json:"settings"`
}

// ToInput converts the request into the service input for storeID.
func (r ConnectIntegrationRequest) ToInput(storeID string) portssvc.ConnectIntegrationInput {
	return portssvc.ConnectIntegrationInput{
		StoreID:    storeID,
		Source:     domain.Source(r.Source),
		Credential: r.Credential,
		Settings:   r.Settings,
	}
}

// IntegrationResponse defines data returned for an integration connection.
type IntegrationResponse struct {
	ID             string         `json:"id"`
	StoreID        string         `json:"storeId"`
	Source         string         `json:"source"`
	IsActive       bool           `json:"isActive"`
	HasCredential  bool           `json:"hasCredential"`
	LastSyncAt     *time.Time     `json:"lastSyncAt,omitempty"`
	LastSyncStatus *string        `json:"lastSyncStatus,omitempty"`
	ErrorDetails   domain.JSONMap `json:"errorDetails,omitempty"`
	Settings       domain.JSONMap `json:"settings"`
	UpdatedAt      time.Time      `json:"updatedAt"`
}

// ToIntegrationResponse converts domain.IntegrationConnection to DTO.
func ToIntegrationResponse(c *domain.IntegrationConnection) IntegrationResponse {
	resp := IntegrationResponse{
		ID:            c.ID,
		StoreID:       c.StoreID,
		Source:        string(c.Source),
		IsActive:      c.IsActive,
		HasCredential: c.HasCredential(),
		LastSyncAt:    c.LastSyncAt,
		ErrorDetails:  c.ErrorDetails,
		Settings:      c.Settings,
		UpdatedAt:     c.UpdatedAt,
	}
	if c.LastSyncStatus != nil {
		status := string(*c.LastSyncStatus)
		resp.LastSyncStatus = &status
	}
	if resp.Settings == nil {
		resp.Settings = domain.JSONMap{}
	}
	return resp
}

// ListIntegrationsResponse wraps a list of connections.
type ListIntegrationsResponse struct {
	Integrations []IntegrationResponse `json:"integrations"`
}

// ToListIntegrationsResponse converts a slice of connections to DTO.
func ToListIntegrationsResponse(cs []domain.IntegrationConnection) ListIntegrationsResponse {
	list := make([]IntegrationResponse, len(cs))
	for i := range cs {
		list[i] = ToIntegrationResponse(&cs[i])
	}
	return ListIntegrationsResponse{Integrations: list}
}
