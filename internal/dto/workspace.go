package dto

import (
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// CreateWorkspaceRequest defines data for creating a client workspace.
type CreateWorkspaceRequest struct {
	Name string `json:"name" binding:"required,min=1,max=200"`
	Slug string `json:"slug" binding:"required,slug"`
}

// WorkspaceResponse defines data returned for a workspace.
type WorkspaceResponse struct {
	ID        string    `json:"id"`
	OrgID     string    `json:"orgId"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	CreatedAt time.Time `json:"createdAt"`
}

// ToWorkspaceResponse converts domain.Workspace to DTO.
func ToWorkspaceResponse(w *domain.Workspace) WorkspaceResponse {
	return WorkspaceResponse{
		ID:        w.ID,
		OrgID:     w.OrgID,
		Name:      w.Name,
		Slug:      w.Slug,
		CreatedAt: w.CreatedAt,
	}
}

// ListWorkspacesResponse wraps a list of workspaces.
type ListWorkspacesResponse struct {
	Workspaces []WorkspaceResponse `json:"workspaces"`
}

// ToListWorkspacesResponse converts a slice of domain.Workspace to DTO.
func ToListWorkspacesResponse(ws []domain.Workspace) ListWorkspacesResponse {
	list := make([]WorkspaceResponse, len(ws))
	for i := range ws {
		list[i] = ToWorkspaceResponse(&ws[i])
	}
	return ListWorkspacesResponse{Workspaces: list}
}

// AddWorkspaceMemberRequest grants a user access to one workspace.
type AddWorkspaceMemberRequest struct {
	UserID string `json:"userId" binding:"required,uuid"`
}

// WorkspaceMemberResponse defines data returned for a workspace member.
type WorkspaceMemberResponse struct {
	ID          string    `json:"id"`
	WorkspaceID string    `json:"workspaceId"`
	UserID      string    `json:"userId"`
	CreatedAt   time.Time `json:"createdAt"`
}

// ToWorkspaceMemberResponse converts domain.WorkspaceMember to DTO.
func ToWorkspaceMemberResponse(m *domain.WorkspaceMember) WorkspaceMemberResponse {
	return WorkspaceMemberResponse{
		ID:          m.ID,
		WorkspaceID: m.WorkspaceID,
		UserID:      m.UserID,
		CreatedAt:   m.CreatedAt,
	}
}

// ListWorkspaceMembersResponse wraps a list of workspace members.
type ListWorkspaceMembersResponse struct {
	Members []WorkspaceMemberResponse `json:"members"`
}

// ToListWorkspaceMembersResponse converts a slice of domain.WorkspaceMember to DTO.
func ToListWorkspaceMembersResponse(ms []domain.WorkspaceMember) ListWorkspaceMembersResponse {
	list := make([]WorkspaceMemberResponse, len(ms))
	for i := range ms {
		list[i] = ToWorkspaceMemberResponse(&ms[i])
	}
	return ListWorkspaceMembersResponse{Members: list}
}
