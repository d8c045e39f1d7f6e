package pgsql

import (
	"context"
	"net/http"
	"slices"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxMemberRepository struct {
	BaseRepository
}

// newPgxMemberRepository creates a new repository for organization memberships.
func newPgxMemberRepository(pool *pgxpool.Pool) portsrepo.MemberRepositoryFacade {
	return &PgxMemberRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.MemberRepositoryFacade = (*PgxMemberRepository)(nil)

const memberSelectQuery = `
SELECT m.id, m.org_id, m.user_id, m.role::text AS role, m.invited_at, m.joined_at
FROM org_members m
`

func (r *PgxMemberRepository) getMembers(ctx context.Context, filterQuery string, args ...any) ([]domain.OrgMember, error) {
	rows, err := r.Pool.Query(ctx, memberSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.OrgMember{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query members", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.OrgMember])
	if err != nil {
		if isMalformedID(err) {
			return []domain.OrgMember{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect member rows", err)
	}
	return members, nil
}

func (r *PgxMemberRepository) FindMember(ctx context.Context, orgID, userID string) (*domain.OrgMember, error) {
	members, err := r.getMembers(ctx, `WHERE m.org_id = $1 AND m.user_id = $2`, orgID, userID)
	if err != nil {
		return nil, err
	}
	if len(members) == 0 {
		return nil, apperrors.NewNotFoundError("member not found")
	}
	return &members[0], nil
}

func (r *PgxMemberRepository) ListMembers(ctx context.Context, orgID string) ([]domain.OrgMember, error) {
	return r.getMembers(ctx, `WHERE m.org_id = $1 ORDER BY m.role, m.joined_at NULLS LAST, m.id`, orgID)
}

func (r *PgxMemberRepository) SaveMember(ctx context.Context, member domain.OrgMember) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO org_members (id, org_id, user_id, role, invited_at, joined_at)
		VALUES ($1, $2, $3, $4::org_role, $5, $6)`,
		member.ID, member.OrgID, member.UserID, string(member.Role), member.InvitedAt, member.JoinedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save member", "user "+member.UserID+" is already a member of this organization")
	}
	return nil
}

const lastOwnerMsg = "an organization must keep at least one owner"

// keepAnOwner locks the organization's owner rows and refuses to let userID stop
// being an owner when it is the only one. Concurrent callers queue on the lock and
// re-read the owners once it is released.
func keepAnOwner(ctx context.Context, tx pgx.Tx, orgID, userID string) error {
	rows, err := tx.Query(ctx,
		`SELECT user_id::text FROM org_members WHERE org_id = $1 AND role = 'owner' ORDER BY user_id FOR UPDATE`, orgID)
	if err != nil {
		return mapReadError(err, "member not found", "failed to lock owners")
	}
	owners, err := pgx.CollectRows(rows, pgx.RowTo[string])
	if err != nil {
		return mapReadError(err, "member not found", "failed to lock owners")
	}
	if len(owners) <= 1 && slices.Contains(owners, userID) {
		return apperrors.NewValidationFailedError(lastOwnerMsg)
	}
	return nil
}

// UpdateMemberRole refuses to demote the last owner.
func (r *PgxMemberRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, role domain.OrgRole) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if role != domain.RoleOwner {
			if err := keepAnOwner(ctx, tx, orgID, userID); err != nil {
				return err
			}
		}
		tag, err := tx.Exec(ctx,
			`UPDATE org_members SET role = $3::org_role WHERE org_id = $1 AND user_id = $2`,
			orgID, userID, string(role),
		)
		if err != nil {
			return mapWriteError(err, "failed to update member role", "member role conflicts with an existing record")
		}
		return requireOneRow(tag, "member not found")
	})
}

// DeleteMember refuses to remove the last owner.
func (r *PgxMemberRepository) DeleteMember(ctx context.Context, orgID, userID string) error {
	return r.WithTx(ctx, func(tx pgx.Tx) error {
		if err := keepAnOwner(ctx, tx, orgID, userID); err != nil {
			return err
		}
		tag, err := tx.Exec(ctx, `DELETE FROM org_members WHERE org_id = $1 AND user_id = $2`, orgID, userID)
		if err != nil {
			if isMalformedID(err) {
				return apperrors.NewNotFoundError("member not found")
			}
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete member", err)
		}
		return requireOneRow(tag, "member not found")
	})
}

// MarkJoined leaves an existing joined_at untouched, so calling it twice is harmless.
func (r *PgxMemberRepository) MarkJoined(ctx context.Context, orgID, userID string, at time.Time) error {
	_, err := r.Pool.Exec(ctx,
		`UPDATE org_members SET joined_at = $3 WHERE org_id = $1 AND user_id = $2 AND joined_at IS NULL`,
		orgID, userID, at,
	)
	if err != nil && !isMalformedID(err) {
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to mark member joined", err)
	}
	return nil
}
