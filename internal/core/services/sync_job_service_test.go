package services_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/suite"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/services"
	"github.com/aloftly/aloftly_app/internal/utils/pagination"
)

type SyncJobServiceTestSuite struct {
	suite.Suite
	jobRepo         *MockSyncJobRepository
	integrationRepo *MockIntegrationRepository
	storeRepo       *MockStoreRepository
	workspaceRepo   *MockWorkspaceRepository
	service         portssvc.SyncJobSvcFacade
	ctx             context.Context
}

func (suite *SyncJobServiceTestSuite) SetupTest() {
	suite.jobRepo = new(MockSyncJobRepository)
	suite.integrationRepo = new(MockIntegrationRepository)
	suite.storeRepo = new(MockStoreRepository)
	suite.workspaceRepo = new(MockWorkspaceRepository)

	workspaces := services.NewWorkspaceService(suite.workspaceRepo, new(MockMemberRepository))
	stores := services.NewStoreService(suite.storeRepo, workspaces)
	integrations := services.NewIntegrationService(suite.integrationRepo, stores, suite.workspaceRepo, services.NewVaultService(new(MockSecretVault)))
	suite.service = services.NewSyncJobService(suite.jobRepo, suite.integrationRepo, integrations, stores)
	suite.ctx = context.Background()

	suite.storeRepo.On("FindStoreByID", mock.Anything, "org-1", "store-1").
		Return(&domain.Store{ID: "store-1", OrgID: "org-1", WorkspaceID: "ws-1"}, nil).Maybe()
	suite.workspaceRepo.On("FindWorkspaceByID", mock.Anything, "org-1", "ws-1").
		Return(&domain.Workspace{ID: "ws-1", OrgID: "org-1"}, nil).Maybe()
}

func (suite *SyncJobServiceTestSuite) TestRequestSync() {
	suite.integrationRepo.On("FindConnection", suite.ctx, "org-1", "store-1", domain.SourceShopify).
		Return(&domain.IntegrationConnection{ID: "conn-1", IsActive: true}, nil).Once()
	suite.jobRepo.On("SaveSyncJob", suite.ctx, mock.MatchedBy(func(j domain.SyncJob) bool {
		return j.Status == domain.SyncPending && j.StoreID == "store-1" && j.OrgID == "org-1" && j.Source == domain.SourceShopify
	})).Return(nil).Once()

	job, err := suite.service.RequestSync(suite.ctx, orgContext(domain.RoleAdmin), "store-1", domain.SourceShopify)

	suite.Require().NoError(err)
	suite.Equal(domain.SyncPending, job.Status)
	suite.jobRepo.AssertExpectations(suite.T())
}

func (suite *SyncJobServiceTestSuite) TestRequestSync_NotConnected() {
	suite.integrationRepo.On("FindConnection", suite.ctx, "org-1", "store-1", domain.SourceClarity).
		Return(nil, apperrors.NewNotFoundError("connection not found")).Once()
	suite.integrationRepo.On("FindConnection", suite.ctx, "org-1", "store-1", domain.SourceGorgias).
		Return(&domain.IntegrationConnection{ID: "conn-2", IsActive: false}, nil).Once()

	_, err := suite.service.RequestSync(suite.ctx, orgContext(domain.RoleAdmin), "store-1", domain.SourceClarity)
	suite.ErrorIs(err, apperrors.ErrValidation)

	_, err = suite.service.RequestSync(suite.ctx, orgContext(domain.RoleAdmin), "store-1", domain.SourceGorgias)
	suite.ErrorIs(err, apperrors.ErrValidation)

	suite.jobRepo.AssertNotCalled(suite.T(), "SaveSyncJob", mock.Anything, mock.Anything)
}

func (suite *SyncJobServiceTestSuite) expectJob(status domain.SyncStatus, startedAt *time.Time) {
	suite.jobRepo.On("FindSyncJobByID", suite.ctx, "org-1", "job-1").Return(&domain.SyncJob{
		ID: "job-1", OrgID: "org-1", StoreID: "store-1", Source: domain.SourceShopify,
		Status: status, StartedAt: startedAt,
	}, nil).Once()
}

func (suite *SyncJobServiceTestSuite) TestLifecycle_StartThenComplete() {
	suite.expectJob(domain.SyncPending, nil)
	suite.jobRepo.On("UpdateSyncJob", suite.ctx, mock.MatchedBy(func(j domain.SyncJob) bool {
		return j.Status == domain.SyncRunning && j.StartedAt != nil
	}), domain.SyncPending).Return(nil).Once()

	job, err := suite.service.StartJob(suite.ctx, "org-1", "job-1")
	suite.Require().NoError(err)
	suite.Equal(domain.SyncRunning, job.Status)

	started := time.Now().Add(-1500 * time.Millisecond)
	cursor := "page_info=abc"
	suite.expectJob(domain.SyncRunning, &started)
	suite.jobRepo.On("UpdateSyncJob", suite.ctx, mock.MatchedBy(func(j domain.SyncJob) bool {
		return j.Status == domain.SyncSucceeded && j.CompletedAt != nil && j.DurationMs != nil && *j.Cursor == cursor
	}), domain.SyncRunning).Return(nil).Once()

	job, err = suite.service.CompleteJob(suite.ctx, "org-1", "job-1", &cursor)
	suite.Require().NoError(err)
	suite.GreaterOrEqual(*job.DurationMs, int64(1500))
	suite.jobRepo.AssertExpectations(suite.T())
}

func (suite *SyncJobServiceTestSuite) TestLifecycle_RetryThenFail() {
	details := domain.JSONMap{"message": "rate limited"}
	suite.expectJob(domain.SyncRunning, nil)
	suite.jobRepo.On("UpdateSyncJob", suite.ctx, mock.MatchedBy(func(j domain.SyncJob) bool {
		return j.Status == domain.SyncRetrying && j.ErrorDetails["message"] == "rate limited" && j.CompletedAt == nil
	}), domain.SyncRunning).Return(nil).Once()

	_, err := suite.service.RetryJob(suite.ctx, "org-1", "job-1", details)
	suite.Require().NoError(err)

	suite.expectJob(domain.SyncRetrying, nil)
	suite.jobRepo.On("UpdateSyncJob", suite.ctx, mock.MatchedBy(func(j domain.SyncJob) bool {
		return j.Status == domain.SyncFailed && j.CompletedAt != nil
	}), domain.SyncRetrying).Return(nil).Once()

	job, err := suite.service.FailJob(suite.ctx, "org-1", "job-1", details)
	suite.Require().NoError(err)
	suite.Equal(domain.SyncFailed, job.Status)
}

func (suite *SyncJobServiceTestSuite) TestInvalidTransitions() {
	suite.expectJob(domain.SyncSucceeded, nil)
	_, err := suite.service.StartJob(suite.ctx, "org-1", "job-1")
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.expectJob(domain.SyncPending, nil)
	_, err = suite.service.CompleteJob(suite.ctx, "org-1", "job-1", nil)
	suite.ErrorIs(err, apperrors.ErrInvalidTransition)

	suite.jobRepo.AssertNotCalled(suite.T(), "UpdateSyncJob", mock.Anything, mock.Anything, mock.Anything)
}

func (suite *SyncJobServiceTestSuite) TestListJobs_Pagination() {
	base := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	page := []domain.SyncJob{
		{ID: "j3", CreatedAt: base.Add(3 * time.Minute)},
		{ID: "j2", CreatedAt: base.Add(2 * time.Minute)},
		{ID: "j1", CreatedAt: base.Add(time.Minute)},
	}
	suite.jobRepo.On("ListSyncJobs", suite.ctx, mock.MatchedBy(func(p portsrepo.ListSyncJobsParams) bool {
		return p.Limit == 3 && p.BeforeID == nil && p.OrgID == "org-1" && p.StoreID == "store-1"
	})).Return(page, nil).Once()

	jobs, next, err := suite.service.ListJobs(suite.ctx, orgContext(domain.RoleAdmin), "store-1", 2, "")
	suite.Require().NoError(err)
	suite.Len(jobs, 2)
	suite.Equal(pagination.EncodeToken(base.Add(2*time.Minute), "j2"), next)

	suite.jobRepo.On("ListSyncJobs", suite.ctx, mock.MatchedBy(func(p portsrepo.ListSyncJobsParams) bool {
		return p.BeforeID != nil && *p.BeforeID == "j2" && p.BeforeCreatedAt.Equal(base.Add(2*time.Minute))
	})).Return(page[2:], nil).Once()

	jobs, next, err = suite.service.ListJobs(suite.ctx, orgContext(domain.RoleAdmin), "store-1", 2, next)
	suite.Require().NoError(err)
	suite.Len(jobs, 1)
	suite.Empty(next)
}

func (suite *SyncJobServiceTestSuite) TestListJobs_BadToken() {
	_, _, err := suite.service.ListJobs(suite.ctx, orgContext(domain.RoleAdmin), "store-1", 10, "!!!")
	suite.ErrorIs(err, apperrors.ErrValidation)
}

func TestSyncJobServiceTestSuite(t *testing.T) {
	suite.Run(t, new(SyncJobServiceTestSuite))
}
