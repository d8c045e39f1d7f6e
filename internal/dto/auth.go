package dto

import (
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
)

// MeResponse describes the signed-in user and their tenant scope.
type MeResponse struct {
	UserID      string            `json:"userId"`
	Email       string            `json:"email"`
	OrgID       string            `json:"orgId"`
	Role        domain.OrgRole    `json:"role"`
	Permissions []rbac.Permission `json:"permissions"`
}

// ToMeResponse builds the response from a verified org context.
func ToMeResponse(oc *domain.OrgContext) MeResponse {
	resp := MeResponse{
		UserID:      oc.UserID,
		OrgID:       oc.OrgID,
		Role:        oc.Role,
		Permissions: rbac.PermissionsFor(string(oc.Role)),
	}
	if oc.User != nil {
		resp.Email = oc.User.Email
	}
	if resp.Permissions == nil {
		resp.Permissions = []rbac.Permission{}
	}
	return resp
}

// PageResponse is the placeholder body of the browser pages.
type PageResponse struct {
	Page    string `json:"page"`
	Message string `json:"message,omitempty"`
	UserID  string `json:"userId,omitempty"`
	Error   string `json:"error,omitempty"`
}
