package services

import (
	"context"
	"errors"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
)

type organizationService struct {
	BaseService
	orgRepo    portsrepo.OrganizationRepositoryFacade
	memberRepo portsrepo.MemberRepositoryFacade
	now        func() time.Time
}

// NewOrganizationService creates the organization and membership service.
func NewOrganizationService(
	orgRepo portsrepo.OrganizationRepositoryFacade,
	memberRepo portsrepo.MemberRepositoryFacade,
) portssvc.OrganizationSvcFacade {
	return &organizationService{
		orgRepo:    orgRepo,
		memberRepo: memberRepo,
		now:        time.Now,
	}
}

var _ portssvc.OrganizationSvcFacade = (*organizationService)(nil)

func (s *organizationService) CreateOrganization(ctx context.Context, creatorUserID, name, slug string, tier domain.PlanTier) (*domain.Organization, error) {
	if creatorUserID == "" {
		return nil, apperrors.ErrUnauthenticated
	}
	if strings.TrimSpace(name) == "" {
		return nil, apperrors.NewValidationFailedError("organization name is required")
	}
	if !domain.ValidSlug(slug) {
		return nil, apperrors.NewValidationFailedError("invalid slug " + slug)
	}
	if tier == "" {
		tier = domain.PlanStarter
	}
	if !tier.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown plan tier " + string(tier))
	}

	now := s.now()
	org := domain.Organization{
		ID:               uuid.NewString(),
		Name:             strings.TrimSpace(name),
		Slug:             slug,
		PlanTier:         tier,
		FeatureFlags:     domain.JSONMap{},
		WhiteLabelConfig: domain.JSONMap{},
		CreatedAt:        now,
		UpdatedAt:        now,
	}
	owner := domain.OrgMember{
		ID:       uuid.NewString(),
		OrgID:    org.ID,
		UserID:   creatorUserID,
		Role:     domain.RoleOwner,
		JoinedAt: &now,
	}

	if err := s.orgRepo.SaveOrganizationWithOwner(ctx, org, owner); err != nil {
		s.LogError(ctx, err, "Failed to create organization",
			slog.String("slug", slug),
			slog.String("creator_id", creatorUserID))
		return nil, err
	}

	s.LogInfo(ctx, "Organization created",
		slog.String("org_id", org.ID),
		slog.String("creator_id", creatorUserID))
	return &org, nil
}

func (s *organizationService) GetOrganization(ctx context.Context, oc domain.OrgContext) (*domain.Organization, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, oc.OrgID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load organization", slog.String("org_id", oc.OrgID))
		}
		return nil, err
	}
	return org, nil
}

func (s *organizationService) UpdateOrganization(ctx context.Context, oc domain.OrgContext, update domain.OrganizationUpdate) (*domain.Organization, error) {
	if err := s.RequireRole(oc, domain.RoleAdmin); err != nil {
		return nil, err
	}
	org, err := s.orgRepo.FindOrganizationByID(ctx, oc.OrgID)
	if err != nil {
		return nil, err
	}

	if update.Name != nil {
		name := strings.TrimSpace(*update.Name)
		if name == "" {
			return nil, apperrors.NewValidationFailedError("organization name is required")
		}
		org.Name = name
	}
	if update.FeatureFlags != nil {
		org.FeatureFlags = update.FeatureFlags
	}
	if update.WhiteLabelConfig != nil {
		org.WhiteLabelConfig = update.WhiteLabelConfig
	}
	org.UpdatedAt = s.now()

	if err := s.orgRepo.UpdateOrganization(ctx, *org); err != nil {
		s.LogError(ctx, err, "Failed to update organization", slog.String("org_id", oc.OrgID))
		return nil, err
	}
	return org, nil
}

func (s *organizationService) ChangePlan(ctx context.Context, oc domain.OrgContext, tier domain.PlanTier) (*domain.Organization, error) {
	if err := s.Authorize(ctx, oc, rbac.ManageBilling); err != nil {
		return nil, err
	}
	if !tier.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown plan tier " + string(tier))
	}
	if err := s.orgRepo.UpdatePlanTier(ctx, oc.OrgID, tier); err != nil {
		s.LogError(ctx, err, "Failed to change plan",
			slog.String("org_id", oc.OrgID),
			slog.String("plan_tier", string(tier)))
		return nil, err
	}
	s.LogInfo(ctx, "Plan changed",
		slog.String("org_id", oc.OrgID),
		slog.String("plan_tier", string(tier)))
	return s.orgRepo.FindOrganizationByID(ctx, oc.OrgID)
}

func (s *organizationService) DeleteOrganization(ctx context.Context, oc domain.OrgContext) error {
	if err := s.RequireRole(oc, domain.RoleOwner); err != nil {
		return err
	}
	if err := s.orgRepo.DeleteOrganization(ctx, oc.OrgID); err != nil {
		s.LogError(ctx, err, "Failed to delete organization", slog.String("org_id", oc.OrgID))
		return err
	}
	s.LogInfo(ctx, "Organization deleted",
		slog.String("org_id", oc.OrgID),
		slog.String("user_id", oc.UserID))
	return nil
}

func (s *organizationService) ListMembers(ctx context.Context, oc domain.OrgContext) ([]domain.OrgMember, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}
	members, err := s.memberRepo.ListMembers(ctx, oc.OrgID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list members", slog.String("org_id", oc.OrgID))
		return nil, err
	}
	if members == nil {
		return []domain.OrgMember{}, nil
	}
	return members, nil
}

// checkGrant refuses roles that are unknown or above the caller's own.
func (s *organizationService) checkGrant(oc domain.OrgContext, role domain.OrgRole) error {
	if !role.Valid() {
		return apperrors.NewValidationFailedError("unknown role " + string(role))
	}
	if !rbac.HasRole(string(oc.Role), string(role)) {
		return apperrors.NewForbiddenError("cannot grant a role above your own")
	}
	return nil
}

func (s *organizationService) AddMember(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) (*domain.OrgMember, error) {
	if err := s.Authorize(ctx, oc, rbac.ManageTeam); err != nil {
		return nil, err
	}
	if role == "" {
		role = domain.RoleMember
	}
	if err := s.checkGrant(oc, role); err != nil {
		return nil, err
	}
	if _, err := uuid.Parse(userID); err != nil {
		return nil, apperrors.NewValidationFailedError("user id must be a UUID")
	}

	invitedAt := s.now()
	member := domain.OrgMember{
		ID:        uuid.NewString(),
		OrgID:     oc.OrgID,
		UserID:    userID,
		Role:      role,
		InvitedAt: &invitedAt,
	}
	if err := s.memberRepo.SaveMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add member",
			slog.String("org_id", oc.OrgID),
			slog.String("target_user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Member added",
		slog.String("org_id", oc.OrgID),
		slog.String("target_user_id", userID),
		slog.String("role", string(role)))
	return &member, nil
}

func (s *organizationService) UpdateMemberRole(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) error {
	if err := s.Authorize(ctx, oc, rbac.ManageTeam); err != nil {
		return err
	}
	if err := s.checkGrant(oc, role); err != nil {
		return err
	}

	target, err := s.memberRepo.FindMember(ctx, oc.OrgID, userID)
	if err != nil {
		return err
	}
	// An admin cannot demote someone ranked above them.
	if !rbac.HasRole(string(oc.Role), string(target.Role)) {
		return apperrors.NewForbiddenError("cannot change the role of a higher-ranked member")
	}
	if err := s.memberRepo.UpdateMemberRole(ctx, oc.OrgID, userID, role); err != nil {
		s.LogError(ctx, err, "Failed to update member role",
			slog.String("org_id", oc.OrgID),
			slog.String("target_user_id", userID))
		return err
	}
	s.LogInfo(ctx, "Member role updated",
		slog.String("org_id", oc.OrgID),
		slog.String("target_user_id", userID),
		slog.String("role", string(role)))
	return nil
}

func (s *organizationService) RemoveMember(ctx context.Context, oc domain.OrgContext, userID string) error {
	if err := s.Authorize(ctx, oc, rbac.ManageTeam); err != nil {
		return err
	}
	target, err := s.memberRepo.FindMember(ctx, oc.OrgID, userID)
	if err != nil {
		return err
	}
	if !rbac.HasRole(string(oc.Role), string(target.Role)) {
		return apperrors.NewForbiddenError("cannot remove a higher-ranked member")
	}
	if err := s.memberRepo.DeleteMember(ctx, oc.OrgID, userID); err != nil {
		s.LogError(ctx, err, "Failed to remove member",
			slog.String("org_id", oc.OrgID),
			slog.String("target_user_id", userID))
		return err
	}
	s.LogInfo(ctx, "Member removed",
		slog.String("org_id", oc.OrgID),
		slog.String("target_user_id", userID))
	return nil
}
