package repositories

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// OrganizationReader defines read operations for organizations.
type OrganizationReader interface {
	// FindOrganizationByID retrieves an organization by its ID.
	FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error)
}

// OrganizationWriter defines write operations for organizations.
type OrganizationWriter interface {
	// SaveOrganizationWithOwner inserts the organization and its owner membership atomically.
	SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrgMember) error

	// UpdateOrganization persists name, feature flags and white-label config.
	UpdateOrganization(ctx context.Context, org domain.Organization) error

	// UpdatePlanTier changes the billing tier.
	UpdatePlanTier(ctx context.Context, orgID string, tier domain.PlanTier) error

	// DeleteOrganization removes the organization; the schema cascades to everything it owns.
	DeleteOrganization(ctx context.Context, orgID string) error
}

// OrganizationRepositoryFacade combines all organization repository interfaces.
type OrganizationRepositoryFacade interface {
	OrganizationReader
	OrganizationWriter
}
