package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// WorkspaceReaderSvc defines read operations for workspace data
type WorkspaceReaderSvc interface {
	GetWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) (*domain.Workspace, error)

	// ListWorkspaces returns every workspace for admins and the caller's
	// workspaces for everyone else.
	ListWorkspaces(ctx context.Context, oc domain.OrgContext) ([]domain.Workspace, error)
}

// WorkspaceWriterSvc defines write operations for workspace data
type WorkspaceWriterSvc interface {
	CreateWorkspace(ctx context.Context, oc domain.OrgContext, name, slug string) (*domain.Workspace, error)
	DeleteWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) error
}

// WorkspaceMembershipSvc defines operations for managing workspace membership
type WorkspaceMembershipSvc interface {
	ListWorkspaceMembers(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.WorkspaceMember, error)
	AddWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) (*domain.WorkspaceMember, error)
	RemoveWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) error
}

// WorkspaceAuthorizerSvc decides workspace-scoped access.
type WorkspaceAuthorizerSvc interface {
	// AuthorizeWorkspaceAccess returns nil when the caller may see the workspace.
	// Admins see every workspace of their org; others need a workspace membership.
	AuthorizeWorkspaceAccess(ctx context.Context, oc domain.OrgContext, workspaceID string) error
}

// WorkspaceSvcFacade combines all workspace-related service interfaces
type WorkspaceSvcFacade interface {
	WorkspaceReaderSvc
	WorkspaceWriterSvc
	WorkspaceMembershipSvc
	WorkspaceAuthorizerSvc
}
