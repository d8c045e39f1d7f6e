package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
	"github.com/aloftly/aloftly_app/internal/utils/pagination"
)

const (
	defaultSyncJobPageSize = 25
	maxSyncJobPageSize     = 100
)

type syncJobService struct {
	BaseService
	jobRepo         portsrepo.SyncJobRepositoryFacade
	integrationRepo portsrepo.IntegrationReader
	integrations    portssvc.IntegrationInternalSvc
	stores          portssvc.StoreReaderSvc
	now             func() time.Time
}

// NewSyncJobService creates the sync job service.
func NewSyncJobService(
	jobRepo portsrepo.SyncJobRepositoryFacade,
	integrationRepo portsrepo.IntegrationReader,
	integrations portssvc.IntegrationInternalSvc,
	stores portssvc.StoreReaderSvc,
) portssvc.SyncJobSvcFacade {
	return &syncJobService{
		jobRepo:         jobRepo,
		integrationRepo: integrationRepo,
		integrations:    integrations,
		stores:          stores,
		now:             time.Now,
	}
}

var _ portssvc.SyncJobSvcFacade = (*syncJobService)(nil)

func (s *syncJobService) RequestSync(ctx context.Context, oc domain.OrgContext, storeID string, source domain.Source) (*domain.SyncJob, error) {
	if !source.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown integration source " + string(source))
	}
	if _, err := s.integrations.AuthorizeIntegrationChange(ctx, oc, storeID); err != nil {
		return nil, err
	}

	conn, err := s.integrationRepo.FindConnection(ctx, oc.OrgID, storeID, source)
	if err != nil {
		if isNotFound(err) {
			return nil, apperrors.NewValidationFailedError(string(source) + " is not connected to this store")
		}
		return nil, err
	}
	if !conn.IsActive {
		return nil, apperrors.NewValidationFailedError(string(source) + " connection is inactive")
	}

	job := domain.SyncJob{
		ID:        uuid.NewString(),
		OrgID:     oc.OrgID,
		StoreID:   storeID,
		Source:    source,
		Status:    domain.SyncPending,
		CreatedAt: s.now(),
	}
	if err := s.jobRepo.SaveSyncJob(ctx, job); err != nil {
		s.LogError(ctx, err, "Failed to save sync job",
			slog.String("store_id", storeID),
			slog.String("source", string(source)))
		return nil, err
	}

	s.LogInfo(ctx, "Sync requested",
		slog.String("job_id", job.ID),
		slog.String("store_id", storeID),
		slog.String("source", string(source)))
	return &job, nil
}

func (s *syncJobService) ListJobs(ctx context.Context, oc domain.OrgContext, storeID string, limit int, pageToken string) ([]domain.SyncJob, string, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, "", err
	}
	if _, err := s.stores.GetStore(ctx, oc, storeID); err != nil {
		return nil, "", err
	}

	limit = pagination.ClampLimit(limit, defaultSyncJobPageSize, maxSyncJobPageSize)
	params := portsrepo.ListSyncJobsParams{
		OrgID:   oc.OrgID,
		StoreID: storeID,
		Limit:   limit + 1,
	}
	if pageToken != "" {
		createdAt, id, err := pagination.DecodeToken(pageToken)
		if err != nil {
			return nil, "", apperrors.NewValidationFailedError(err.Error())
		}
		params.BeforeCreatedAt = &createdAt
		params.BeforeID = &id
	}

	jobs, err := s.jobRepo.ListSyncJobs(ctx, params)
	if err != nil {
		s.LogError(ctx, err, "Failed to list sync jobs", slog.String("store_id", storeID))
		return nil, "", err
	}

	var next string
	if len(jobs) > limit {
		jobs = jobs[:limit]
		last := jobs[limit-1]
		next = pagination.EncodeToken(last.CreatedAt, last.ID)
	}
	if jobs == nil {
		jobs = []domain.SyncJob{}
	}
	return jobs, next, nil
}

// transition loads the job, checks the state machine and persists the change.
func (s *syncJobService) transition(ctx context.Context, orgID, jobID string, next domain.SyncStatus, apply func(job *domain.SyncJob, now time.Time)) (*domain.SyncJob, error) {
	job, err := s.jobRepo.FindSyncJobByID(ctx, orgID, jobID)
	if err != nil {
		return nil, err
	}
	if !job.Status.CanTransitionTo(next) {
		return nil, fmt.Errorf("%w: %s -> %s", apperrors.ErrInvalidTransition, job.Status, next)
	}

	previous := job.Status
	job.Status = next
	apply(job, s.now())

	if err := s.jobRepo.UpdateSyncJob(ctx, *job, previous); err != nil {
		s.LogError(ctx, err, "Failed to update sync job",
			slog.String("job_id", jobID),
			slog.String("from", string(previous)),
			slog.String("to", string(next)))
		return nil, err
	}

	s.LogInfo(ctx, "Sync job transitioned",
		slog.String("job_id", jobID),
		slog.String("from", string(previous)),
		slog.String("to", string(next)))
	return job, nil
}

func finish(job *domain.SyncJob, now time.Time) {
	job.CompletedAt = &now
	if job.StartedAt != nil {
		ms := now.Sub(*job.StartedAt).Milliseconds()
		job.DurationMs = &ms
	}
}

func (s *syncJobService) StartJob(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error) {
	return s.transition(ctx, orgID, jobID, domain.SyncRunning, func(job *domain.SyncJob, now time.Time) {
		job.StartedAt = &now
	})
}

func (s *syncJobService) CompleteJob(ctx context.Context, orgID, jobID string, cursor *string) (*domain.SyncJob, error) {
	return s.transition(ctx, orgID, jobID, domain.SyncSucceeded, func(job *domain.SyncJob, now time.Time) {
		if cursor != nil {
			job.Cursor = cursor
		}
		job.ErrorDetails = nil
		finish(job, now)
	})
}

func (s *syncJobService) FailJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error) {
	return s.transition(ctx, orgID, jobID, domain.SyncFailed, func(job *domain.SyncJob, now time.Time) {
		job.ErrorDetails = details
		finish(job, now)
	})
}

func (s *syncJobService) RetryJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error) {
	return s.transition(ctx, orgID, jobID, domain.SyncRetrying, func(job *domain.SyncJob, _ time.Time) {
		job.ErrorDetails = details
	})
}

func isNotFound(err error) bool {
	return errors.Is(err, apperrors.ErrNotFound)
}
