package domain

import "time"

// Workspace is a client grouping inside an organization (agency = org,
// clients = workspaces). Slugs are unique within the org only.
type Workspace struct {
	ID        string    `json:"id" db:"id"`
	OrgID     string    `json:"orgId" db:"org_id"`
	Name      string    `json:"name" db:"name"`
	Slug      string    `json:"slug" db:"slug"`
	CreatedAt time.Time `json:"createdAt" db:"created_at"`
}

// WorkspaceMember grants a user scoped access to one workspace. Agencies use
// it to restrict freelancers to specific clients.
type WorkspaceMember struct {
	ID          string    `json:"id" db:"id"`
	WorkspaceID string    `json:"workspaceId" db:"workspace_id"`
	UserID      string    `json:"userId" db:"user_id"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
}
