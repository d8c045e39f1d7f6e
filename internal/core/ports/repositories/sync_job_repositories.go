package repositories

import (
	"context"
	"time"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// ListSyncJobsParams selects a page of sync jobs, newest first.
type ListSyncJobsParams struct {
	OrgID   string
	StoreID string
	Limit   int
	// Keyset position of the last row already returned, if any.
	BeforeCreatedAt *time.Time
	BeforeID        *string
}

// SyncJobReader defines read operations for sync jobs.
type SyncJobReader interface {
	FindSyncJobByID(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error)
	ListSyncJobs(ctx context.Context, params ListSyncJobsParams) ([]domain.SyncJob, error)
}

// SyncJobWriter defines write operations for sync jobs.
type SyncJobWriter interface {
	SaveSyncJob(ctx context.Context, job domain.SyncJob) error

	// UpdateSyncJob persists a status change guarded by the previous status. When the
	// new status is terminal the result is mirrored onto the matching integration
	// connection in the same transaction.
	UpdateSyncJob(ctx context.Context, job domain.SyncJob, previous domain.SyncStatus) error
}

// SyncJobRepositoryFacade combines all sync job repository interfaces.
type SyncJobRepositoryFacade interface {
	SyncJobReader
	SyncJobWriter
}
