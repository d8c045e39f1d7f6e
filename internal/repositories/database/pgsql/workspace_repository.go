package pgsql

import (
	"context"
	"net/http"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxWorkspaceRepository struct {
	BaseRepository
}

// newPgxWorkspaceRepository creates a new repository for workspace data.
func newPgxWorkspaceRepository(pool *pgxpool.Pool) portsrepo.WorkspaceRepositoryFacade {
	return &PgxWorkspaceRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

// Ensure PgxWorkspaceRepository implements portsrepo.WorkspaceRepositoryFacade
var _ portsrepo.WorkspaceRepositoryFacade = (*PgxWorkspaceRepository)(nil)

const workspaceSelectQuery = `
SELECT w.id, w.org_id, w.name, w.slug, w.created_at
FROM workspaces w
`

// getWorkspaces runs the workspace select with the given filter.
func (r *PgxWorkspaceRepository) getWorkspaces(ctx context.Context, filterQuery string, args ...any) ([]domain.Workspace, error) {
	rows, err := r.Pool.Query(ctx, workspaceSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.Workspace{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query workspaces", err)
	}
	workspaces, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.Workspace])
	if err != nil {
		if isMalformedID(err) {
			return []domain.Workspace{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect workspace rows", err)
	}
	return workspaces, nil
}

func (r *PgxWorkspaceRepository) FindWorkspaceByID(ctx context.Context, orgID, workspaceID string) (*domain.Workspace, error) {
	workspaces, err := r.getWorkspaces(ctx, `WHERE w.org_id = $1 AND w.id = $2`, orgID, workspaceID)
	if err != nil {
		return nil, err
	}
	if len(workspaces) == 0 {
		return nil, apperrors.NewNotFoundError("workspace not found")
	}
	return &workspaces[0], nil
}

func (r *PgxWorkspaceRepository) ListWorkspaces(ctx context.Context, orgID string) ([]domain.Workspace, error) {
	return r.getWorkspaces(ctx, `WHERE w.org_id = $1 ORDER BY w.name, w.id`, orgID)
}

func (r *PgxWorkspaceRepository) ListWorkspacesForUser(ctx context.Context, orgID, userID string) ([]domain.Workspace, error) {
	return r.getWorkspaces(ctx, `
		JOIN workspace_members wm ON wm.workspace_id = w.id
		WHERE w.org_id = $1 AND wm.user_id = $2
		ORDER BY w.name, w.id`, orgID, userID)
}

func (r *PgxWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO workspaces (id, org_id, name, slug, created_at)
		VALUES ($1, $2, $3, $4, $5)`,
		workspace.ID, workspace.OrgID, workspace.Name, workspace.Slug, workspace.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save workspace", "workspace slug "+workspace.Slug+" already exists in this organization")
	}
	return nil
}

func (r *PgxWorkspaceRepository) DeleteWorkspace(ctx context.Context, orgID, workspaceID string) error {
	tag, err := r.Pool.Exec(ctx, `DELETE FROM workspaces WHERE org_id = $1 AND id = $2`, orgID, workspaceID)
	if err != nil {
		if isMalformedID(err) {
			return apperrors.NewNotFoundError("workspace not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to delete workspace", err)
	}
	return requireOneRow(tag, "workspace not found")
}

func (r *PgxWorkspaceRepository) AddWorkspaceMember(ctx context.Context, member domain.WorkspaceMember) error {
	_, err := r.Pool.Exec(ctx, `
		INSERT INTO workspace_members (id, workspace_id, user_id, created_at)
		VALUES ($1, $2, $3, $4)`,
		member.ID, member.WorkspaceID, member.UserID, member.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to add workspace member", "user "+member.UserID+" is already a member of this workspace")
	}
	return nil
}

func (r *PgxWorkspaceRepository) RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error {
	tag, err := r.Pool.Exec(ctx,
		`DELETE FROM workspace_members WHERE workspace_id = $1 AND user_id = $2`, workspaceID, userID)
	if err != nil {
		if isMalformedID(err) {
			return apperrors.NewNotFoundError("workspace member not found")
		}
		return apperrors.NewAppError(http.StatusInternalServerError, "failed to remove workspace member", err)
	}
	return requireOneRow(tag, "workspace member not found")
}

func (r *PgxWorkspaceRepository) ListWorkspaceMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error) {
	rows, err := r.Pool.Query(ctx, `
		SELECT id, workspace_id, user_id, created_at
		FROM workspace_members
		WHERE workspace_id = $1
		ORDER BY created_at, id`, workspaceID)
	if err != nil {
		if isMalformedID(err) {
			return []domain.WorkspaceMember{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query workspace members", err)
	}
	members, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.WorkspaceMember])
	if err != nil {
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect workspace member rows", err)
	}
	return members, nil
}

func (r *PgxWorkspaceRepository) IsWorkspaceMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	var exists bool
	err := r.Pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM workspace_members WHERE workspace_id = $1 AND user_id = $2)`,
		workspaceID, userID,
	).Scan(&exists)
	if err != nil {
		if isMalformedID(err) {
			return false, nil
		}
		return false, apperrors.NewAppError(http.StatusInternalServerError, "failed to check workspace membership", err)
	}
	return exists, nil
}
