package repositories

import (
	"context"
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// MemberReader defines read operations for organization memberships.
type MemberReader interface {
	// FindMember retrieves the membership of userID in orgID.
	FindMember(ctx context.Context, orgID, userID string) (*domain.OrgMember, error)

	// ListMembers lists every member of the organization.
	ListMembers(ctx context.Context, orgID string) ([]domain.OrgMember, error)
}

// MemberWriter defines write operations for organization memberships.
type MemberWriter interface {
	// SaveMember inserts a membership. A duplicate (org, user) pair is a conflict.
	SaveMember(ctx context.Context, member domain.OrgMember) error

	// UpdateMemberRole changes the role of an existing member. Demoting the
	// organization's only owner is a validation error.
	UpdateMemberRole(ctx context.Context, orgID, userID string, role domain.OrgRole) error

	// DeleteMember removes a membership. Removing the organization's only owner
	// is a validation error.
	DeleteMember(ctx context.Context, orgID, userID string) error

	// MarkJoined stamps joined_at when it is still empty.
	MarkJoined(ctx context.Context, orgID, userID string, at time.Time) error
}

// MemberRepositoryFacade combines all membership repository interfaces.
type MemberRepositoryFacade interface {
	MemberReader
	MemberWriter
}
