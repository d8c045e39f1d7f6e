package services_test

import (
	"context"
	"errors"
	"time"

	"github.com/stretchr/testify/mock"

	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
)

// --- Identity provider ---

type MockIdentityProvider struct {
	mock.Mock
}

func (m *MockIdentityProvider) GetUser(ctx context.Context, session *domain.Session) (*domain.AuthUser, *domain.Session, error) {
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

func (m *MockIdentityProvider) SignInURL(state, verifier string) string {
	args := m.Called(state, verifier)
	return args.String(0)
}

func (m *MockIdentityProvider) ExchangeCode(ctx context.Context, code, verifier string) (*domain.Session, error) {
	args := m.Called(ctx, code, verifier)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Session), args.Error(1)
}

func (m *MockIdentityProvider) SignOut(ctx context.Context, session *domain.Session) error {
	args := m.Called(ctx, session)
	return args.Error(0)
}

// --- Secret vault ---

type MockSecretVault struct {
	mock.Mock
}

func (m *MockSecretVault) StoreSecret(ctx context.Context, secret, name, description string) (string, error) {
	args := m.Called(ctx, secret, name, description)
	return args.String(0), args.Error(1)
}

func (m *MockSecretVault) GetSecret(ctx context.Context, secretID string) (string, bool, error) {
	args := m.Called(ctx, secretID)
	return args.String(0), args.Bool(1), args.Error(2)
}

// --- Organizations ---

type MockOrganizationRepository struct {
	mock.Mock
}

func (m *MockOrganizationRepository) FindOrganizationByID(ctx context.Context, orgID string) (*domain.Organization, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Organization), args.Error(1)
}

func (m *MockOrganizationRepository) SaveOrganizationWithOwner(ctx context.Context, org domain.Organization, owner domain.OrgMember) error {
	args := m.Called(ctx, org, owner)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdateOrganization(ctx context.Context, org domain.Organization) error {
	args := m.Called(ctx, org)
	return args.Error(0)
}

func (m *MockOrganizationRepository) UpdatePlanTier(ctx context.Context, orgID string, tier domain.PlanTier) error {
	args := m.Called(ctx, orgID, tier)
	return args.Error(0)
}

func (m *MockOrganizationRepository) DeleteOrganization(ctx context.Context, orgID string) error {
	args := m.Called(ctx, orgID)
	return args.Error(0)
}

// --- Members ---

type MockMemberRepository struct {
	mock.Mock
}

func (m *MockMemberRepository) FindMember(ctx context.Context, orgID, userID string) (*domain.OrgMember, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.OrgMember), args.Error(1)
}

func (m *MockMemberRepository) ListMembers(ctx context.Context, orgID string) ([]domain.OrgMember, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.OrgMember), args.Error(1)
}

func (m *MockMemberRepository) SaveMember(ctx context.Context, member domain.OrgMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockMemberRepository) UpdateMemberRole(ctx context.Context, orgID, userID string, role domain.OrgRole) error {
	args := m.Called(ctx, orgID, userID, role)
	return args.Error(0)
}

func (m *MockMemberRepository) DeleteMember(ctx context.Context, orgID, userID string) error {
	args := m.Called(ctx, orgID, userID)
	return args.Error(0)
}

func (m *MockMemberRepository) MarkJoined(ctx context.Context, orgID, userID string, at time.Time) error {
	args := m.Called(ctx, orgID, userID, at)
	return args.Error(0)
}

// --- Workspaces ---

type MockWorkspaceRepository struct {
	mock.Mock
}

func (m *MockWorkspaceRepository) FindWorkspaceByID(ctx context.Context, orgID, workspaceID string) (*domain.Workspace, error) {
	args := m.Called(ctx, orgID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListWorkspaces(ctx context.Context, orgID string) ([]domain.Workspace, error) {
	args := m.Called(ctx, orgID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) ListWorkspacesForUser(ctx context.Context, orgID, userID string) ([]domain.Workspace, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Workspace), args.Error(1)
}

func (m *MockWorkspaceRepository) SaveWorkspace(ctx context.Context, workspace domain.Workspace) error {
	args := m.Called(ctx, workspace)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) DeleteWorkspace(ctx context.Context, orgID, workspaceID string) error {
	args := m.Called(ctx, orgID, workspaceID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) AddWorkspaceMember(ctx context.Context, member domain.WorkspaceMember) error {
	args := m.Called(ctx, member)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) RemoveWorkspaceMember(ctx context.Context, workspaceID, userID string) error {
	args := m.Called(ctx, workspaceID, userID)
	return args.Error(0)
}

func (m *MockWorkspaceRepository) ListWorkspaceMembers(ctx context.Context, workspaceID string) ([]domain.WorkspaceMember, error) {
	args := m.Called(ctx, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.WorkspaceMember), args.Error(1)
}

func (m *MockWorkspaceRepository) IsWorkspaceMember(ctx context.Context, workspaceID, userID string) (bool, error) {
	args := m.Called(ctx, workspaceID, userID)
	return args.Bool(0), args.Error(1)
}

// --- Stores ---

type MockStoreRepository struct {
	mock.Mock
}

func (m *MockStoreRepository) FindStoreByID(ctx context.Context, orgID, storeID string) (*domain.Store, error) {
	args := m.Called(ctx, orgID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Store), args.Error(1)
}

func (m *MockStoreRepository) ListStores(ctx context.Context, orgID, workspaceID string) ([]domain.Store, error) {
	args := m.Called(ctx, orgID, workspaceID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockStoreRepository) ListStoresForUser(ctx context.Context, orgID, userID string) ([]domain.Store, error) {
	args := m.Called(ctx, orgID, userID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Store), args.Error(1)
}

func (m *MockStoreRepository) SaveStore(ctx context.Context, store domain.Store) error {
	args := m.Called(ctx, store)
	return args.Error(0)
}

func (m *MockStoreRepository) DeleteStore(ctx context.Context, orgID, storeID string) error {
	args := m.Called(ctx, orgID, storeID)
	return args.Error(0)
}

// --- Integrations ---

type MockIntegrationRepository struct {
	mock.Mock
}

func (m *MockIntegrationRepository) FindConnectionByID(ctx context.Context, orgID, connectionID string) (*domain.IntegrationConnection, error) {
	args := m.Called(ctx, orgID, connectionID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationRepository) FindConnection(ctx context.Context, orgID, storeID string, source domain.Source) (*domain.IntegrationConnection, error) {
	args := m.Called(ctx, orgID, storeID, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationRepository) ListConnectionsByStore(ctx context.Context, orgID, storeID string) ([]domain.IntegrationConnection, error) {
	args := m.Called(ctx, orgID, storeID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationRepository) UpsertConnection(ctx context.Context, conn domain.IntegrationConnection) (*domain.IntegrationConnection, error) {
	args := m.Called(ctx, conn)
	if fn, ok := args.Get(0).(func(domain.IntegrationConnection) *domain.IntegrationConnection); ok {
		return fn(conn), args.Error(1)
	}
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.IntegrationConnection), args.Error(1)
}

func (m *MockIntegrationRepository) DeactivateConnection(ctx context.Context, orgID, connectionID string) error {
	args := m.Called(ctx, orgID, connectionID)
	return args.Error(0)
}

func (m *MockIntegrationRepository) DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error) {
	args := m.Called(ctx, shopDomain)
	return args.Get(0).(int64), args.Error(1)
}

// --- Sync jobs ---

type MockSyncJobRepository struct {
	mock.Mock
}

func (m *MockSyncJobRepository) FindSyncJobByID(ctx context.Context, orgID, jobID string) (*domain.SyncJob, error) {
	args := m.Called(ctx, orgID, jobID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobRepository) ListSyncJobs(ctx context.Context, params portsrepo.ListSyncJobsParams) ([]domain.SyncJob, error) {
	args := m.Called(ctx, params)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.SyncJob), args.Error(1)
}

func (m *MockSyncJobRepository) SaveSyncJob(ctx context.Context, job domain.SyncJob) error {
	args := m.Called(ctx, job)
	return args.Error(0)
}

func (m *MockSyncJobRepository) UpdateSyncJob(ctx context.Context, job domain.SyncJob, previous domain.SyncStatus) error {
	args := m.Called(ctx, job, previous)
	return args.Error(0)
}

// --- Metrics ---

type MockMetricRepository struct {
	mock.Mock
}

func (m *MockMetricRepository) ListDefinitions(ctx context.Context, source domain.Source) ([]domain.MetricDefinition, error) {
	args := m.Called(ctx, source)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MetricDefinition), args.Error(1)
}

func (m *MockMetricRepository) FindDefinitionByKey(ctx context.Context, key string) (*domain.MetricDefinition, error) {
	args := m.Called(ctx, key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricDefinition), args.Error(1)
}

func (m *MockMetricRepository) ListEvents(ctx context.Context, filter domain.MetricEventFilter) ([]domain.MetricEvent, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.MetricEvent), args.Error(1)
}

func (m *MockMetricRepository) Summarize(ctx context.Context, filter domain.MetricEventFilter, method domain.AggregationMethod) (*domain.MetricSummary, error) {
	args := m.Called(ctx, filter, method)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.MetricSummary), args.Error(1)
}

func (m *MockMetricRepository) InsertEvents(ctx context.Context, events []domain.MetricEvent) (int64, error) {
	args := m.Called(ctx, events)
	return args.Get(0).(int64), args.Error(1)
}

// --- Helpers ---

func orgContext(role domain.OrgRole) domain.OrgContext {
	return domain.OrgContext{OrgID: "org-1", UserID: "user-1", Role: role}
}

var errUpstream = errors.New("upstream failure")
