package dto

import (
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// CreateOrganizationRequest defines data for creating an organization.
type CreateOrganizationRequest struct {
	Name     string `json:"name" binding:"required,min=2,max=200"`
	Slug     string `json:"slug" binding:"required,slug"`
	PlanTier string `json:"planTier" binding:"omitempty,plan_tier"`
}

// UpdateOrganizationRequest carries the mutable organization fields. Omitted fields are kept.
type UpdateOrganizationRequest struct {
	Name             *string        `json:"name" binding:"omitempty,min=2,max=200"`
	FeatureFlags     domain.JSONMap `json:"featureFlags"`
	WhiteLabelConfig domain.JSONMap `json:"whiteLabelConfig"`
}

// ToDomain converts the request into a partial update.
func (r UpdateOrganizationRequest) ToDomain() domain.OrganizationUpdate {
	return domain.OrganizationUpdate{
		Name:             r.Name,
		FeatureFlags:     r.FeatureFlags,
		WhiteLabelConfig: r.WhiteLabelConfig,
	}
}

// ChangePlanRequest moves the organization to another billing tier.
type ChangePlanRequest struct {
	PlanTier string `json:"planTier" binding:"required,plan_tier"`
}

// OrganizationResponse defines data returned for an organization.
type OrganizationResponse struct {
	ID               string         `json:"id"`
	Name             string         `json:"name"`
	Slug             string         `json:"slug"`
	PlanTier         string         `json:"planTier"`
	FeatureFlags     domain.JSONMap `json:"featureFlags"`
	WhiteLabelConfig domain.JSONMap `json:"whiteLabelConfig"`
	CreatedAt        time.Time      `json:"createdAt"`
	UpdatedAt        time.Time      `json:"updatedAt"`
}

// ToOrganizationResponse converts domain.Organization to DTO.
func ToOrganizationResponse(o *domain.Organization) OrganizationResponse {
	flags := o.FeatureFlags
	if flags == nil {
		flags = domain.JSONMap{}
	}
	whiteLabel := o.WhiteLabelConfig
	if whiteLabel == nil {
		whiteLabel = domain.JSONMap{}
	}
	return OrganizationResponse{
		ID:               o.ID,
		Name:             o.Name,
		Slug:             o.Slug,
		PlanTier:         string(o.PlanTier),
		FeatureFlags:     flags,
		WhiteLabelConfig: whiteLabel,
		CreatedAt:        o.CreatedAt,
		UpdatedAt:        o.UpdatedAt,
	}
}

// AddMemberRequest invites an identity-provider user into the organization.
type AddMemberRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
	Role   string `json:"role" binding:"required,org_role"`
}

// UpdateMemberRoleRequest changes a member's role.
type UpdateMemberRoleRequest struct {
	Role string `json:"role" binding:"required,org_role"`
}

// MemberResponse defines data returned for an organization member.
type MemberResponse struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	Role      string     `json:"role"`
	InvitedAt *time.Time `json:"invitedAt,omitempty"`
	JoinedAt  *time.Time `json:"joinedAt,omitempty"`
}

// ToMemberResponse converts domain.OrgMember to DTO.
func ToMemberResponse(m *domain.OrgMember) MemberResponse {
	return MemberResponse{
		ID:        m.ID,
		UserID:    m.UserID,
		Role:      string(m.Role),
		InvitedAt: m.InvitedAt,
		JoinedAt:  m.JoinedAt,
	}
}

// ListMembersResponse wraps a list of members.
type ListMembersResponse struct {
	Members []MemberResponse `json:"members"`
}

// ToListMembersResponse converts a slice of domain.OrgMember to DTO.
func ToListMembersResponse(ms []domain.OrgMember) ListMembersResponse {
	list := make([]MemberResponse, len(ms))
	for i := range ms {
		list[i] = ToMemberResponse(&ms[i])
	}
	return ListMembersResponse{Members: list}
}
