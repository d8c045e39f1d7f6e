// Package rbac holds the organization role hierarchy and the permission table.
// Every function is pure and fails closed on unknown input.
package rbac

import "github.com/aloftly/aloftly_app/internal/core/domain"

// Permission names an action gated by a minimum role.
type Permission string

const (
	ManageBilling         Permission = "manage_billing"
	ManageTeam            Permission = "manage_team"
	ManageIntegrations    Permission = "manage_integrations"
	ManageWorkspaces      Permission = "manage_workspaces"
	UseDashboards         Permission = "use_dashboards"
	ManageOwnIntegrations Permission = "manage_own_integrations"
	ViewDashboards        Permission = "view_dashboards"
	ExportData            Permission = "export_data"
)

// Roles is ordered from most to least privileged.
var Roles = []domain.OrgRole{
	domain.RoleOwner,
	domain.RoleAdmin,
	domain.RoleMember,
	domain.RoleViewer,
}

var minimumRole = map[Permission]domain.OrgRole{
	ManageBilling:         domain.RoleOwner,
	ManageTeam:            domain.RoleAdmin,
	ManageIntegrations:    domain.RoleAdmin,
	ManageWorkspaces:      domain.RoleAdmin,
	UseDashboards:         domain.RoleMember,
	ManageOwnIntegrations: domain.RoleMember,
	ViewDashboards:        domain.RoleViewer,
	ExportData:            domain.RoleViewer,
}

// rank returns the role's position in Roles, or -1 when unknown.
func rank(role string) int {
	for i, r := range Roles {
		if string(r) == role {
			return i
		}
	}
	return -1
}

// HasRole reports whether userRole is at least as privileged as requiredRole.
// Unknown role names on either side yield false.
func HasRole(userRole, requiredRole string) bool {
	u, r := rank(userRole), rank(requiredRole)
	if u < 0 || r < 0 {
		return false
	}
	return u <= r
}

// HasPermission reports whether userRole may perform permission.
// Unknown roles and unknown permissions yield false.
func HasPermission(userRole, permission string) bool {
	required, ok := minimumRole[Permission(permission)]
	if !ok {
		return false
	}
	return HasRole(userRole, string(required))
}

// Can is HasPermission for typed callers.
func Can(role domain.OrgRole, permission Permission) bool {
	return HasPermission(string(role), string(permission))
}

// PermissionsFor lists the permissions granted to role in a stable order.
func PermissionsFor(role string) []Permission {
	granted := make([]Permission, 0, len(minimumRole))
	for _, p := range AllPermissions() {
		if HasPermission(role, string(p)) {
			granted = append(granted, p)
		}
	}
	return granted
}

// AllPermissions returns every known permission, most restricted first.
func AllPermissions() []Permission {
	return []Permission{
		ManageBilling,
		ManageTeam,
		ManageIntegrations,
		ManageWorkspaces,
		UseDashboards,
		ManageOwnIntegrations,
		ViewDashboards,
		ExportData,
	}
}
