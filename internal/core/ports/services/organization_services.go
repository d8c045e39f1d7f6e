package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// OrganizationReaderSvc defines read operations for the caller's organization.
type OrganizationReaderSvc interface {
	GetOrganization(ctx context.Context, oc domain.OrgContext) (*domain.Organization, error)
}

// OrganizationWriterSvc defines write operations for organizations.
type OrganizationWriterSvc interface {
	// CreateOrganization creates an org with creatorUserID as its owner.
	CreateOrganization(ctx context.Context, creatorUserID, name, slug string, tier domain.PlanTier) (*domain.Organization, error)
	UpdateOrganization(ctx context.Context, oc domain.OrgContext, update domain.OrganizationUpdate) (*domain.Organization, error)
	ChangePlan(ctx context.Context, oc domain.OrgContext, tier domain.PlanTier) (*domain.Organization, error)
	DeleteOrganization(ctx context.Context, oc domain.OrgContext) error
}

// OrganizationMembershipSvc manages who belongs to the organization.
type OrganizationMembershipSvc interface {
	ListMembers(ctx context.Context, oc domain.OrgContext) ([]domain.OrgMember, error)
	AddMember(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) (*domain.OrgMember, error)
	UpdateMemberRole(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) error
	RemoveMember(ctx context.Context, oc domain.OrgContext, userID string) error
}

// OrganizationSvcFacade combines all organization service interfaces.
type OrganizationSvcFacade interface {
	OrganizationReaderSvc
	OrganizationWriterSvc
	OrganizationMembershipSvc
}
