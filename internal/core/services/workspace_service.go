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

// workspaceService implements the WorkspaceSvcFacade interface
type workspaceService struct {
	BaseService
	workspaceRepo portsrepo.WorkspaceRepositoryFacade
	memberRepo    portsrepo.MemberReader
	now           func() time.Time
}

// NewWorkspaceService creates a new workspace service with the provided dependencies
func NewWorkspaceService(
	workspaceRepo portsrepo.WorkspaceRepositoryFacade,
	memberRepo portsrepo.MemberReader,
) portssvc.WorkspaceSvcFacade {
	return &workspaceService{
		workspaceRepo: workspaceRepo,
		memberRepo:    memberRepo,
		now:           time.Now,
	}
}

var _ portssvc.WorkspaceSvcFacade = (*workspaceService)(nil)

// seesAllWorkspaces reports whether the caller is exempt from workspace scoping.
func seesAllWorkspaces(oc domain.OrgContext) bool {
	return rbac.Can(oc.Role, rbac.ManageWorkspaces)
}

func (s *workspaceService) CreateWorkspace(ctx context.Context, oc domain.OrgContext, name, slug string) (*domain.Workspace, error) {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, apperrors.NewValidationFailedError("workspace name is required")
	}
	if !domain.ValidSlug(slug) {
		return nil, apperrors.NewValidationFailedError("invalid slug " + slug)
	}

	workspace := domain.Workspace{
		ID:        uuid.NewString(),
		OrgID:     oc.OrgID,
		Name:      name,
		Slug:      slug,
		CreatedAt: s.now(),
	}
	if err := s.workspaceRepo.SaveWorkspace(ctx, workspace); err != nil {
		s.LogError(ctx, err, "Failed to save workspace",
			slog.String("org_id", oc.OrgID),
			slog.String("slug", slug))
		return nil, err
	}

	s.LogInfo(ctx, "Workspace created",
		slog.String("workspace_id", workspace.ID),
		slog.String("org_id", oc.OrgID))
	return &workspace, nil
}

func (s *workspaceService) GetWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) (*domain.Workspace, error) {
	if err := s.AuthorizeWorkspaceAccess(ctx, oc, workspaceID); err != nil {
		return nil, err
	}
	return s.workspaceRepo.FindWorkspaceByID(ctx, oc.OrgID, workspaceID)
}

func (s *workspaceService) ListWorkspaces(ctx context.Context, oc domain.OrgContext) ([]domain.Workspace, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}

	var (
		workspaces []domain.Workspace
		err        error
	)
	if seesAllWorkspaces(oc) {
		workspaces, err = s.workspaceRepo.ListWorkspaces(ctx, oc.OrgID)
	} else {
		workspaces, err = s.workspaceRepo.ListWorkspacesForUser(ctx, oc.OrgID, oc.UserID)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list workspaces",
			slog.String("org_id", oc.OrgID),
			slog.String("user_id", oc.UserID))
		return nil, err
	}
	if workspaces == nil {
		return []domain.Workspace{}, nil
	}
	return workspaces, nil
}

func (s *workspaceService) DeleteWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) error {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return err
	}
	if err := s.workspaceRepo.DeleteWorkspace(ctx, oc.OrgID, workspaceID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete workspace", slog.String("workspace_id", workspaceID))
		}
		return err
	}
	s.LogInfo(ctx, "Workspace deleted",
		slog.String("workspace_id", workspaceID),
		slog.String("org_id", oc.OrgID))
	return nil
}

func (s *workspaceService) ListWorkspaceMembers(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.WorkspaceMember, error) {
	if err := s.AuthorizeWorkspaceAccess(ctx, oc, workspaceID); err != nil {
		return nil, err
	}
	members, err := s.workspaceRepo.ListWorkspaceMembers(ctx, workspaceID)
	if err != nil {
		return nil, err
	}
	if members == nil {
		return []domain.WorkspaceMember{}, nil
	}
	return members, nil
}

func (s *workspaceService) AddWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) (*domain.WorkspaceMember, error) {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return nil, err
	}
	if _, err := s.workspaceRepo.FindWorkspaceByID(ctx, oc.OrgID, workspaceID); err != nil {
		return nil, err
	}
	if _, err := s.memberRepo.FindMember(ctx, oc.OrgID, userID); err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NewValidationFailedError("user is not a member of the organization")
		}
		return nil, err
	}

	member := domain.WorkspaceMember{
		ID:          uuid.NewString(),
		WorkspaceID: workspaceID,
		UserID:      userID,
		CreatedAt:   s.now(),
	}
	if err := s.workspaceRepo.AddWorkspaceMember(ctx, member); err != nil {
		s.LogError(ctx, err, "Failed to add workspace member",
			slog.String("workspace_id", workspaceID),
			slog.String("target_user_id", userID))
		return nil, err
	}

	s.LogInfo(ctx, "Workspace member added",
		slog.String("workspace_id", workspaceID),
		slog.String("target_user_id", userID))
	return &member, nil
}

func (s *workspaceService) RemoveWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) error {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return err
	}
	if _, err := s.workspaceRepo.FindWorkspaceByID(ctx, oc.OrgID, workspaceID); err != nil {
		return err
	}
	if err := s.workspaceRepo.RemoveWorkspaceMember(ctx, workspaceID, userID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to remove workspace member",
				slog.String("workspace_id", workspaceID),
				slog.String("target_user_id", userID))
		}
		return err
	}
	return nil
}

// AuthorizeWorkspaceAccess checks that the workspace exists in the caller's org
// and that the caller may see it.
func (s *workspaceService) AuthorizeWorkspaceAccess(ctx context.Context, oc domain.OrgContext, workspaceID string) error {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return err
	}
	if _, err := s.workspaceRepo.FindWorkspaceByID(ctx, oc.OrgID, workspaceID); err != nil {
		return err
	}
	if seesAllWorkspaces(oc) {
		return nil
	}

	ok, err := s.workspaceRepo.IsWorkspaceMember(ctx, workspaceID, oc.UserID)
	if err != nil {
		s.LogError(ctx, err, "Failed to check workspace membership",
			slog.String("workspace_id", workspaceID),
			slog.String("user_id", oc.UserID))
		return err
	}
	if !ok {
		s.LogDebug(ctx, "User not a member of workspace",
			slog.String("user_id", oc.UserID),
			slog.String("workspace_id", workspaceID))
		return apperrors.NewForbiddenError("no access to workspace")
	}
	return nil
}
