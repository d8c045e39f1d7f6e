package handlers_test

import (
	"context"
	"net/http"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aloftly/aloftly_app/internal/core/domain"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

// --- Auth ---

type MockAuthService struct {
	mock.Mock
}

func (m *MockAuthService) VerifySession(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error) {
	args := m.Called(ctx, session)
	var user *domain.AuthUser
	if args.Get(0) != nil {
		user = args.Get(0).(*domain.AuthUser)
	}
	var refreshed *domain.Session
	if args.Get(1) != nil {
		refreshed = args.Get(1).(*domain.Session)
	}
	return user, refreshed, args.Error(2)
}

func (m *MockAuthService) GetOrgContext(ctx context.Context, session *domain.Session) (*domain.OrgContext, *domain.Session, error) {
	args := m.Called(ctx, session)
	var oc *domain.OrgContext
	if args.Get(0) != nil {
		oc = args.Get(0).(*domain.OrgContext)
	}
	var refreshed *domain.Session
	if args.Get(1) != nil {
		refreshed = args.Get(1).(*domain.Session)
	}
	return oc, refreshed, args.Error(2)
}

func (m *MockAuthService) BeginSignIn(ctx context.Context, next string) (*domain.SignInAttempt, error) {
	args := m.Called(ctx, next)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SignInAttempt), args.Error(1)
}

func (m *MockAuthService) CompleteSignIn(ctx context.Context, code, verifier string) (*domain.Session, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockAuthService) SignOut(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// --- Organization ---

type MockOrganizationService struct {
	mock.Mock
}

func (m *MockOrganizationService) GetOrganization(ctx context.Context, oc domain.OrgContext) (*domain.Organization, error) {
	args := m.Called(ctx, oc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) CreateOrganization(ctx context.Context, creatorUserID, name, slug string, tier domain.PlanTier) (*domain.Organization, error) {
	args := m.Called(ctx, creatorUserID, name, slug, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) UpdateOrganization(ctx context.Context, oc domain.OrgContext, update domain.OrganizationUpdate) (*domain.Organization, error) {
	args := m.Called(ctx, oc, update)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) ChangePlan(ctx context.Context, oc domain.OrgContext, tier domain.PlanTier) (*domain.Organization, error) {
	args := m.Called(ctx, oc, tier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationService) DeleteOrganization(ctx context.Context, oc domain.OrgContext) error {
	return m.Called(ctx, oc).Error(0)
}

func (m *MockOrganizationService) ListMembers(ctx context.Context, oc domain.OrgContext) ([]domain.OrgMember, error) {
	args := m.Called(ctx, oc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrgMember), args.Error(1)
}

func (m *MockOrganizationService) AddMember(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) (*domain.OrgMember, error) {
	args := m.Called(ctx, oc, userID, role)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgMember), args.Error(1)
}

func (m *MockOrganizationService) UpdateMemberRole(ctx context.Context, oc domain.OrgContext, userID string, role domain.OrgRole) error {
	return m.Called(ctx, oc, userID, role).Error(0)
}

func (m *MockOrganizationService) RemoveMember(ctx context.Context, oc domain.OrgContext, userID string) error {
	return m.Called(ctx, oc, userID).Error(0)
}

// --- Workspace ---

type MockWorkspaceService struct {
	mock.Mock
}

func (m *MockWorkspaceService) GetWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, oc, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) ListWorkspaces(ctx context.Context, oc domain.OrgContext) ([]domain.Workspace, error) {
	args := m.Called(ctx, oc)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) CreateWorkspace(ctx context.Context, oc domain.OrgContext, name, slug string) (*domain.Workspace, error) {
	args := m.Called(ctx, oc, name, slug)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceService) DeleteWorkspace(ctx context.Context, oc domain.OrgContext, workspaceID string) error {
	return m.Called(ctx, oc, workspaceID).Error(0)
}

func (m *MockWorkspaceService) ListWorkspaceMembers(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.WorkspaceMember, error) {
	args := m.Called(ctx, oc, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) AddWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) (*domain.WorkspaceMember, error) {
	args := m.Called(ctx, oc, workspaceID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceService) RemoveWorkspaceMember(ctx context.Context, oc domain.OrgContext, workspaceID, userID string) error {
	return m.Called(ctx, oc, workspaceID, userID).Error(0)
}

func (m *MockWorkspaceService) AuthorizeWorkspaceAccess(ctx context.Context, oc domain.OrgContext, workspaceID string) error {
	return m.Called(ctx, oc, workspaceID).Error(0)
}

// --- Store ---

type MockStoreService struct {
	mock.Mock
}

func (m *MockStoreService) GetStore(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, oc, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreService) ListStores(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.Store, error) {
	args := m.Called(ctx, oc, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockStoreService) CreateStore(ctx context.Context, oc domain.OrgContext, workspaceID, shopifyDomain, displayName string) (*domain.Store, error) {
	args := m.Called(ctx, oc, workspaceID, shopifyDomain, displayName)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreService) DeleteStore(ctx context.Context, oc domain.OrgContext, storeID string) error {
	return m.Called(ctx, oc, storeID).Error(0)
}

// --- Integration ---

type MockIntegrationService struct {
	mock.Mock
}

func (m *MockIntegrationService) ListConnections(ctx context.Context, oc domain.OrgContext, storeID string) ([]domain.IntegrationConnection, error) {
	args := m.Called(ctx, oc, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationService) Connect(ctx context.Context, oc domain.OrgContext, input portssvc.ConnectIntegrationInput) (*domain.IntegrationConnection, error) {
	args := m.Called(ctx, oc, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationService) Disconnect(ctx context.Context, oc domain.OrgContext, connectionID string) error {
	return m.Called(ctx, oc, connectionID).Error(0)
}

func (m *MockIntegrationService) ResolveCredential(ctx context.Context, orgID, connectionID string) (string, error) {
	args := m.Called(ctx, orgID, connectionID)
	return args.String(0), args.Error(1)
}

func (m *MockIntegrationService) AuthorizeIntegrationChange(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, oc, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockIntegrationService) DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error) {
	args := m.Called(ctx, shopDomain)
	return args.Get(0).(int64), args.Error(1)
}

// --- Sync jobs ---

type MockSyncJobService struct {
	mock.Mock
}

func (m *MockSyncJobService) ListJobs(ctx context.Context, oc domain.OrgContext, storeID string, limit int, pageToken string) ([]domain.SyncJob, string, error) {
	args := m.Called(ctx, oc, storeID, limit, pageToken)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.SyncJob), args.String(1), args.Error(2)
}

func (m *MockSyncJobService) RequestSync(ctx context.Context, oc domain.OrgContext, storeID string, source domain.Source) (*domain.SyncJob, error) {
	args := m.Called(ctx, oc, storeID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobService) StartJob(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error) {
	args := m.Called(ctx, orgID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobService) CompleteJob(ctx context.Context, orgID, jobID string, cursor *string) (*domain.SyncJob, error) {
	args := m.Called(ctx, orgID, jobID, cursor)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobService) FailJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error) {
	args := m.Called(ctx, orgID, jobID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobService) RetryJob(ctx context.Context, orgID, jobID string, details domain.JSONMap) (*domain.SyncJob, error) {
	args := m.Called(ctx, orgID, jobID, details)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

// --- Metrics ---

type MockMetricService struct {
	mock.Mock
}

func (m *MockMetricService) ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MetricDefinition), args.Error(1)
}

func (m *MockMetricService) ListEvents(ctx context.Context, oc domain.OrgContext, query portssvc.MetricEventsQuery) ([]domain.MetricEvent, string, error) {
	args := m.Called(ctx, oc, query)
	if args.Get(0) == nil {
		return nil, "", args.Error(2)
	}
	return args.Get(0).([]domain.MetricEvent), args.String(1), args.Error(2)
}

func (m *MockMetricService) Summarize(ctx context.Context, oc domain.OrgContext, storeID, metricKey string, from, to time.Time) (*domain.MetricSummary, error) {
	args := m.Called(ctx, oc, storeID, metricKey, from, to)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricSummary), args.Error(1)
}

func (m *MockMetricService) RecordEvents(ctx context.Context, events []domain.MetricEvent) (int64, error) {
	args := m.Called(ctx, events)
	return args.Get(0).(int64), args.Error(1)
}

// --- Webhooks ---

type MockWebhookService struct {
	mock.Mock
}

func (m *MockWebhookService) VerifyShopifyRequest(r *http.Request) bool {
	return m.Called(r).Bool(0)
}

func (m *MockWebhookService) HandleShopifyEvent(ctx context.Context, topic, shopDomain string, payload []byte) error {
	return m.Called(ctx, topic, shopDomain, payload).Error(0)
}
