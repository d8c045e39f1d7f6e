package repositories

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// WorkspaceReader defines read operations for workspace data
type WorkspaceReader interface {
	// FindWorkspaceByID retrieves a workspace inside the organization.
	FindWorkspaceByID(ctx context.Context, orgID, workspaceID string) (*domain.Workspace, error)

	// ListWorkspaces lists every workspace of the organization.
	ListWorkspaces(ctx context.Context, orgID string) ([]domain.Workspace, error)

	// ListWorkspacesForUser lists the workspaces of the organization the user was added to.
	ListWorkspacesForUser(ctx context.Context, orgID, userID string) ([]domain.Workspace, error)
}

// WorkspaceWriter defines write operations for workspace data
type WorkspaceWriter interface {
	SaveWorkspace(ctx context.Context, workspace domain.Workspace) error
	DeleteWorkspace(ctx context.Context, orgID, workspaceID string) error
}

// WorkspaceMembershipManager defines operations for managing workspace memberships
type WorkspaceMembershipManager interface {
	AddWorkspaceMember(ctx context.Context, member domain.WorkspaceMember) error
	RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error
	ListWorkspaceMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error)
	IsWorkspaceMember(ctx context.Context, workspaceID, userID string) (bool, error)
}

// WorkspaceRepositoryFacade combines all workspace-related repository interfaces
type WorkspaceRepositoryFacade interface {
	WorkspaceReader
	WorkspaceWriter
	WorkspaceMembershipManager
}
