package domain

import "time"

// OrgRole is a member's role inside an organization.
type OrgRole string

const (
	RoleOwner  OrgRole = "owner"
	RoleAdmin  OrgRole = "admin"
	RoleMember OrgRole = "member"
	RoleViewer OrgRole = "viewer"
)

// Valid reports whether r is one of the four known roles.
func (r OrgRole) Valid() bool {
	switch r {
	case RoleOwner, RoleAdmin, RoleMember, RoleViewer:
		return true
	}
	return false
}

// OrgMember binds an external identity to an organization with a role.
// UserID references the identity provider's user table and is not a foreign key.
type OrgMember struct {
	ID        string     `json:"id" db:"id"`
	OrgID     string     `json:"orgId" db:"org_id"`
	UserID    string     `json:"userId" db:"user_id"`
	Role      OrgRole    `json:"role" db:"role"`
	InvitedAt *time.Time `json:"invitedAt,omitempty" db:"invited_at"`
	JoinedAt  *time.Time `json:"joinedAt,omitempty" db:"joined_at"`
}
