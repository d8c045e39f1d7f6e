package services

import (
	"context"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// SyncJobReaderSvc defines read operations for sync jobs.
type SyncJobReaderSvc interface {
	// ListJobs returns a page of the store's jobs, newest first, and the token of
	// the next page (empty on the last page).
	ListJobs(ctx context.Context, oc domain.OrgContext, storeID string, limit int, pageToken string) ([]domain.SyncJob, string, error)
}

// SyncJobRequesterSvc lets users ask for a sync.
type SyncJobRequesterSvc interface {
	RequestSync(ctx context.Context, oc domain.OrgContext, storeID string, source domain.Source) (*domain.SyncJob, error)
}

// SyncJobRunnerSvc moves jobs through their lifecycle. Service level only.
type SyncJobRunnerSvc interface {
	StartJob(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error)
	CompleteJob(ctx context.Context, orgID, jobID string, cursor *string) (*domain.SyncJob, error)
	FailJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error)
	RetryJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error)
}

// SyncJobSvcFacade combines all sync job service interfaces.
type SyncJobSvcFacade interface {
	SyncJobReaderSvc
	SyncJobRequesterSvc
	SyncJobRunnerSvc
}
