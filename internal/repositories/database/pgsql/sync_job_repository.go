package pgsql

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

type PgxSyncJobRepository struct {
	BaseRepository
}

// newPgxSyncJobRepository creates a new repository for sync jobs.
func newPgxSyncJobRepository(pool *pgxpool.Pool) portsrepo.SyncJobRepositoryFacade {
	return &PgxSyncJobRepository{
		BaseRepository: BaseRepository{Pool: pool},
	}
}

var _ portsrepo.SyncJobRepositoryFacade = (*PgxSyncJobRepository)(nil)

const syncJobSelectQuery = `
SELECT
	j.id, j.org_id, j.store_id, j.source, j.status::text AS status, j.cursor,
	j.started_at, j.completed_at, j.duration_ms, j.error_details, j.created_at
FROM sync_jobs j
`

func (r *PgxSyncJobRepository) getSyncJobs(ctx context.Context, filterQuery string, args ...any) ([]domain.SyncJob, error) {
	rows, err := r.Pool.Query(ctx, syncJobSelectQuery+filterQuery, args...)
	if err != nil {
		if isMalformedID(err) {
			return []domain.SyncJob{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to query sync jobs", err)
	}
	jobs, err := pgx.CollectRows(rows, pgx.RowToStructByName[domain.SyncJob])
	if err != nil {
		if isMalformedID(err) {
			return []domain.SyncJob{}, nil
		}
		return nil, apperrors.NewAppError(http.StatusInternalServerError, "failed to collect sync job rows", err)
	}
	return jobs, nil
}

func (r *PgxSyncJobRepository) FindSyncJobByID(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error) {
	jobs, err := r.getSyncJobs(ctx, `WHERE j.org_id = $1 AND j.id = $2`, orgID, jobID)
	if err != nil {
		return nil, err
	}
	if len(jobs) == 0 {
		return nil, apperrors.NewNotFoundError("sync job not found")
	}
	return &jobs[0], nil
}

// ListSyncJobs pages newest first on (created_at, id).
func (r *PgxSyncJobRepository) ListSyncJobs(ctx context.Context, params portsrepo.ListSyncJobsParams) ([]domain.SyncJob, error) {
	var sb strings.Builder
	args := []any{params.OrgID, params.StoreID}
	sb.WriteString(`WHERE j.org_id = $1 AND j.store_id = $2`)
	if params.BeforeCreatedAt != nil && params.BeforeID != nil {
		args = append(args, *params.BeforeCreatedAt, *params.BeforeID)
		sb.WriteString(` AND (j.created_at, j.id) < ($3, $4)`)
	}
	args = append(args, params.Limit)
	fmt.Fprintf(&sb, ` ORDER BY j.created_at DESC, j.id DESC LIMIT $%d`, len(args))
	return r.getSyncJobs(ctx, sb.String(), args...)
}

func (r *PgxSyncJobRepository) SaveSyncJob(ctx context.Context, job domain.SyncJob) error {
	errorDetails, err := nullableJSON(job.ErrorDetails)
	if err != nil {
		return apperrors.NewValidationFailedError("error details are not valid JSON")
	}
	_, err = r.Pool.Exec(ctx, `
		INSERT INTO sync_jobs (id, org_id, store_id, source, status, cursor, started_at, completed_at, duration_ms, error_details, created_at)
		VALUES ($1, $2, $3, $4, $5::sync_status, $6, $7, $8, $9, $10, $11)`,
		job.ID, job.OrgID, job.StoreID, string(job.Source), string(job.Status), job.Cursor,
		job.StartedAt, job.CompletedAt, job.DurationMs, errorDetails, job.CreatedAt,
	)
	if err != nil {
		return mapWriteError(err, "failed to save sync job", "sync job "+job.ID+" already exists")
	}
	return nil
}

func (r *PgxSyncJobRepository) UpdateSyncJob(ctx context.Context, job domain.SyncJob, previous domain.SyncStatus) error {
	errorDetails, err := nullableJSON(job.ErrorDetails)
	if err != nil {
		return apperrors.NewValidationFailedError("error details are not valid JSON")
	}

	return r.WithTx(ctx, func(tx pgx.Tx) error {
		tag, err := tx.Exec(ctx, `
			UPDATE sync_jobs
			SET status = $3::sync_status, cursor = $4, started_at = $5, completed_at = $6,
				duration_ms = $7, error_details = $8
			WHERE org_id = $1 AND id = $2 AND status = $9::sync_status`,
			job.OrgID, job.ID, string(job.Status), job.Cursor, job.StartedAt, job.CompletedAt,
			job.DurationMs, errorDetails, string(previous),
		)
		if err != nil {
			return mapWriteError(err, "failed to update sync job", "sync job update conflicts with an existing record")
		}
		if tag.RowsAffected() == 0 {
			// someone else moved the job since it was read
			return fmt.Errorf("%w: sync job %s is no longer %s", apperrors.ErrInvalidTransition, job.ID, previous)
		}

		if !job.Status.Terminal() {
			return nil
		}
		_, err = tx.Exec(ctx, `
			UPDATE integration_connections
			SET last_sync_at = COALESCE($4, NOW()), last_sync_status = $5::sync_status,
				error_details = $6, updated_at = NOW()
			WHERE org_id = $1 AND store_id = $2 AND source = $3`,
			job.OrgID, job.StoreID, string(job.Source), job.CompletedAt, string(job.Status), errorDetails,
		)
		if err != nil {
			return apperrors.NewAppError(http.StatusInternalServerError, "failed to record sync result on connection", err)
		}
		return nil
	})
}
