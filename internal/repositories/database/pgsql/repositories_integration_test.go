//go:build integration

package pgsql

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	"github.com/aloftly/aloftly_app/migrations"
	"github.com/aloftly/aloftly_app/pkg/database"
)

type RepositoriesIntegrationSuite struct {
	suite.Suite
	ctx       context.Context
	container *postgres.PostgresContainer
	pool      *pgxpool.Pool
	repos     portsrepo.RepositoryProvider
}

func TestRepositoriesIntegration(t *testing.T) {
	suite.Run(t, new(RepositoriesIntegrationSuite))
}

func (s *RepositoriesIntegrationSuite) SetupSuite() {
	s.ctx = context.Background()

	container, err := postgres.Run(s.ctx, "postgres:16-alpine",
		postgres.WithDatabase("aloftly_test"),
		postgres.WithUsername("aloftly"),
		postgres.WithPassword("aloftly"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(60*time.Second)),
	)
	s.Require().NoError(err)
	s.container = container

	connStr, err := container.ConnectionString(s.ctx, "sslmode=disable")
	s.Require().NoError(err)

	applied, err := database.RunMigrations(connStr, migrations.FS)
	s.Require().NoError(err)
	s.True(applied)

	applied, err = database.RunMigrations(connStr, migrations.FS)
	s.Require().NoError(err)
	s.False(applied, "second run should be a no-op")

	s.pool, err = database.NewPgxPool(s.ctx, connStr, database.PoolOptions{MaxConns: 4})
	s.Require().NoError(err)
	s.repos = NewRepositoryProvider(s.pool)
}

func (s *RepositoriesIntegrationSuite) TearDownSuite() {
	database.ClosePgxPool(s.pool)
	if s.container != nil {
		cleanupCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()
		if err := s.container.Terminate(cleanupCtx); err != nil {
			s.T().Logf("failed to terminate container: %v", err)
		}
	}
}

// seedTenant creates an org owned by ownerID with one workspace and one store.
func (s *RepositoriesIntegrationSuite) seedTenant(ownerID string) (domain.Organization, domain.Workspace, domain.Store) {
	now := time.Now().UTC().Truncate(time.Microsecond)
	org := domain.Organization{
		ID:        uuid.NewString(),
		Name:      "Northwind Agency",
		Slug:      "northwind-" + uuid.NewString()[:8],
		PlanTier:  domain.PlanAgency,
		CreatedAt: now,
		UpdatedAt: now,
	}
	owner := domain.OrgMember{ID: uuid.NewString(), OrgID: org.ID, UserID: ownerID, Role: domain.RoleOwner, JoinedAt: &now}
	s.Require().NoError(s.repos.OrganizationRepo.SaveOrganizationWithOwner(s.ctx, org, owner))

	ws := domain.Workspace{ID: uuid.NewString(), OrgID: org.ID, Name: "Acme", Slug: "acme", CreatedAt: now}
	s.Require().NoError(s.repos.WorkspaceRepo.SaveWorkspace(s.ctx, ws))

	store := domain.Store{
		ID:            uuid.NewString(),
		OrgID:         org.ID,
		WorkspaceID:   ws.ID,
		ShopifyDomain: "acme-" + uuid.NewString()[:8] + ".myshopify.com",
		DisplayName:   "Acme Store",
		CreatedAt:     now,
	}
	s.Require().NoError(s.repos.StoreRepo.SaveStore(s.ctx, store))
	return org, ws, store
}

func (s *RepositoriesIntegrationSuite) TestOrganizationRoundTrip() {
	ownerID := uuid.NewString()
	org, _, _ := s.seedTenant(ownerID)

	got, err := s.repos.OrganizationRepo.FindOrganizationByID(s.ctx, org.ID)
	s.Require().NoError(err)
	s.Equal(org.Slug, got.Slug)
	s.Equal(domain.PlanAgency, got.PlanTier)
	s.NotNil(got.FeatureFlags)

	got.FeatureFlags = domain.JSONMap{"ab_testing": true}
	s.Require().NoError(s.repos.OrganizationRepo.UpdateOrganization(s.ctx, *got))
	s.Require().NoError(s.repos.OrganizationRepo.UpdatePlanTier(s.ctx, org.ID, domain.PlanEnterprise))

	got, err = s.repos.OrganizationRepo.FindOrganizationByID(s.ctx, org.ID)
	s.Require().NoError(err)
	s.True(got.FeatureEnabled("ab_testing"))
	s.Equal(domain.PlanEnterprise, got.PlanTier)

	member, err := s.repos.MemberRepo.FindMember(s.ctx, org.ID, ownerID)
	s.Require().NoError(err)
	s.Equal(domain.RoleOwner, member.Role)

	s.ErrorIs(s.repos.MemberRepo.UpdateMemberRole(s.ctx, org.ID, ownerID, domain.RoleAdmin), apperrors.ErrValidation)
	s.ErrorIs(s.repos.MemberRepo.DeleteMember(s.ctx, org.ID, ownerID), apperrors.ErrValidation)
	s.Equal(1, s.countOwners(org.ID))
}

func (s *RepositoriesIntegrationSuite) countOwners(orgID string) int {
	members, err := s.repos.MemberRepo.ListMembers(s.ctx, orgID)
	s.Require().NoError(err)
	owners := 0
	for _, m := range members {
		if m.Role == domain.RoleOwner {
			owners++
		}
	}
	return owners
}

func (s *RepositoriesIntegrationSuite) TestConcurrentOwnerDemotionsKeepAnOwner() {
	first := uuid.NewString()
	org, _, _ := s.seedTenant(first)
	second := uuid.NewString()
	s.Require().NoError(s.repos.MemberRepo.SaveMember(s.ctx, domain.OrgMember{
		ID: uuid.NewString(), OrgID: org.ID, UserID: second, Role: domain.RoleOwner,
	}))

	// each owner demotes the other at the same time
	var wg sync.WaitGroup
	errs := make([]error, 2)
	for i, target := range []string{first, second} {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs[i] = s.repos.MemberRepo.UpdateMemberRole(s.ctx, org.ID, target, domain.RoleAdmin)
		}()
	}
	wg.Wait()

	failed := 0
	for _, err := range errs {
		if err != nil {
			s.ErrorIs(err, apperrors.ErrValidation)
			failed++
		}
	}
	s.Equal(1, failed, "exactly one demotion must be refused")
	s.Equal(1, s.countOwners(org.ID))
}

func (s *RepositoriesIntegrationSuite) TestDuplicateSlugIsConflict() {
	org, _, _ := s.seedTenant(uuid.NewString())
	clash := domain.Organization{ID: uuid.NewString(), Name: "Copycat", Slug: org.Slug, PlanTier: domain.PlanStarter}
	owner := domain.OrgMember{ID: uuid.NewString(), OrgID: clash.ID, UserID: uuid.NewString(), Role: domain.RoleOwner}

	err := s.repos.OrganizationRepo.SaveOrganizationWithOwner(s.ctx, clash, owner)
	s.ErrorIs(err, apperrors.ErrDuplicate)

	_, err = s.repos.OrganizationRepo.FindOrganizationByID(s.ctx, clash.ID)
	s.ErrorIs(err, apperrors.ErrNotFound, "failed transaction must not leave the organization behind")
}

func (s *RepositoriesIntegrationSuite) TestMembershipUniquePerOrg() {
	org, _, _ := s.seedTenant(uuid.NewString())
	userID := uuid.NewString()
	invited := time.Now().UTC()

	member := domain.OrgMember{ID: uuid.NewString(), OrgID: org.ID, UserID: userID, Role: domain.RoleViewer, InvitedAt: &invited}
	s.Require().NoError(s.repos.MemberRepo.SaveMember(s.ctx, member))

	member.ID = uuid.NewString()
	s.ErrorIs(s.repos.MemberRepo.SaveMember(s.ctx, member), apperrors.ErrDuplicate)

	other, _, _ := s.seedTenant(uuid.NewString())
	member.ID = uuid.NewString()
	member.OrgID = other.ID
	s.NoError(s.repos.MemberRepo.SaveMember(s.ctx, member), "same user may join another org")

	joined := time.Now().UTC().Truncate(time.Microsecond)
	s.Require().NoError(s.repos.MemberRepo.MarkJoined(s.ctx, org.ID, userID, joined))
	s.Require().NoError(s.repos.MemberRepo.MarkJoined(s.ctx, org.ID, userID, joined.Add(time.Hour)))
	got, err := s.repos.MemberRepo.FindMember(s.ctx, org.ID, userID)
	s.Require().NoError(err)
	s.Require().NotNil(got.JoinedAt)
	s.True(joined.Equal(*got.JoinedAt))
}

func (s *RepositoriesIntegrationSuite) TestStoreCannotUseForeignWorkspace() {
	org, _, _ := s.seedTenant(uuid.NewString())
	_, foreignWS, _ := s.seedTenant(uuid.NewString())

	err := s.repos.StoreRepo.SaveStore(s.ctx, domain.Store{
		ID:            uuid.NewString(),
		OrgID:         org.ID,
		WorkspaceID:   foreignWS.ID,
		ShopifyDomain: "sneaky.myshopify.com",
		DisplayName:   "Sneaky",
	})
	s.ErrorIs(err, apperrors.ErrValidation)
}

func (s *RepositoriesIntegrationSuite) TestWorkspaceScoping() {
	org, ws, store := s.seedTenant(uuid.NewString())
	userID := uuid.NewString()

	visible, err := s.repos.WorkspaceRepo.ListWorkspacesForUser(s.ctx, org.ID, userID)
	s.Require().NoError(err)
	s.Empty(visible)

	s.Require().NoError(s.repos.WorkspaceRepo.AddWorkspaceMember(s.ctx, domain.WorkspaceMember{
		ID: uuid.NewString(), WorkspaceID: ws.ID, UserID: userID, CreatedAt: time.Now(),
	}))
	visible, err = s.repos.WorkspaceRepo.ListWorkspacesForUser(s.ctx, org.ID, userID)
	s.Require().NoError(err)
	s.Len(visible, 1)

	stores, err := s.repos.StoreRepo.ListStoresForUser(s.ctx, org.ID, userID)
	s.Require().NoError(err)
	s.Require().Len(stores, 1)
	s.Equal(store.ID, stores[0].ID)

	_, err = s.repos.StoreRepo.FindStoreByID(s.ctx, uuid.NewString(), store.ID)
	s.ErrorIs(err, apperrors.ErrNotFound, "store must not resolve under another org")

	_, err = s.repos.StoreRepo.FindStoreByID(s.ctx, org.ID, "not-a-uuid")
	s.ErrorIs(err, apperrors.ErrNotFound)
}

func (s *RepositoriesIntegrationSuite) TestSyncLifecycleMirrorsOntoConnection() {
	org, _, store := s.seedTenant(uuid.NewString())
	secretID := uuid.NewString()

	conn, err := s.repos.IntegrationRepo.UpsertConnection(s.ctx, domain.IntegrationConnection{
		ID: uuid.NewString(), OrgID: org.ID, StoreID: store.ID, Source: domain.SourceClarity,
		IsActive: true, VaultSecretID: &secretID, CreatedAt: time.Now(),
	})
	s.Require().NoError(err)
	s.True(conn.HasCredential())

	now := time.Now().UTC().Truncate(time.Microsecond)
	job := domain.SyncJob{
		ID: uuid.NewString(), OrgID: org.ID, StoreID: store.ID, Source: domain.SourceClarity,
		Status: domain.SyncPending, CreatedAt: now,
	}
	s.Require().NoError(s.repos.SyncJobRepo.SaveSyncJob(s.ctx, job))

	job.Status = domain.SyncRunning
	job.StartedAt = &now
	s.Require().NoError(s.repos.SyncJobRepo.UpdateSyncJob(s.ctx, job, domain.SyncPending))

	// stale writer still believes the job is pending
	s.ErrorIs(s.repos.SyncJobRepo.UpdateSyncJob(s.ctx, job, domain.SyncPending), apperrors.ErrInvalidTransition)

	done := now.Add(3 * time.Second)
	ms := int64(3000)
	job.Status = domain.SyncFailed
	job.CompletedAt = &done
	job.DurationMs = &ms
	job.ErrorDetails = domain.JSONMap{"message": "rate limited"}
	s.Require().NoError(s.repos.SyncJobRepo.UpdateSyncJob(s.ctx, job, domain.SyncRunning))

	got, err := s.repos.IntegrationRepo.FindConnection(s.ctx, org.ID, store.ID, domain.SourceClarity)
	s.Require().NoError(err)
	s.Require().NotNil(got.LastSyncStatus)
	s.Equal(domain.SyncFailed, *got.LastSyncStatus)
	s.Equal("rate limited", got.ErrorDetails["message"])

	jobs, err := s.repos.SyncJobRepo.ListSyncJobs(s.ctx, portsrepo.ListSyncJobsParams{OrgID: org.ID, StoreID: store.ID, Limit: 10})
	s.Require().NoError(err)
	s.Require().Len(jobs, 1)
	s.Equal(int64(3000), *jobs[0].DurationMs)
}

func (s *RepositoriesIntegrationSuite) TestUninstallDeactivatesShopifyConnections() {
	org, _, store := s.seedTenant(uuid.NewString())
	secretID := uuid.NewString()
	_, err := s.repos.IntegrationRepo.UpsertConnection(s.ctx, domain.IntegrationConnection{
		ID: uuid.NewString(), OrgID: org.ID, StoreID: store.ID, Source: domain.SourceShopify,
		IsActive: true, VaultSecretID: &secretID, CreatedAt: time.Now(),
	})
	s.Require().NoError(err)

	n, err := s.repos.IntegrationRepo.DeactivateByShopDomain(s.ctx, store.ShopifyDomain)
	s.Require().NoError(err)
	s.Equal(int64(1), n)

	got, err := s.repos.IntegrationRepo.FindConnection(s.ctx, org.ID, store.ID, domain.SourceShopify)
	s.Require().NoError(err)
	s.False(got.IsActive)
	s.False(got.HasCredential())
}

func (s *RepositoriesIntegrationSuite) TestMetricEventsCopyAndSummarize() {
	org, _, store := s.seedTenant(uuid.NewString())
	base := time.Now().UTC().Truncate(time.Second).Add(-time.Hour)

	events := make([]domain.MetricEvent, 0, 3)
	for i, v := range []string{"10.50", "20.25", "4.0001"} {
		events = append(events, domain.MetricEvent{
			ID: uuid.NewString(), StoreID: store.ID, OrgID: org.ID, Source: domain.SourceShopify,
			MetricKey: "shopify.revenue", Value: decimal.RequireFromString(v),
			RecordedAt: base.Add(time.Duration(i) * time.Minute), SyncedAt: time.Now(),
			Dimensions: domain.JSONMap{"channel": "online"},
		})
	}
	n, err := s.repos.MetricRepo.InsertEvents(s.ctx, events)
	s.Require().NoError(err)
	s.Equal(int64(3), n)

	filter := domain.MetricEventFilter{
		OrgID: org.ID, StoreID: store.ID, MetricKey: "shopify.revenue",
		From: base.Add(-time.Minute), To: base.Add(time.Hour),
	}
	sum, err := s.repos.MetricRepo.Summarize(s.ctx, filter, domain.AggregateSum)
	s.Require().NoError(err)
	s.Equal("34.7501", sum.Value.String())
	s.Equal(int64(3), sum.Count)

	last, err := s.repos.MetricRepo.Summarize(s.ctx, filter, domain.AggregateLast)
	s.Require().NoError(err)
	s.Equal("4.0001", last.Value.String())

	filter.Limit = 2
	page, err := s.repos.MetricRepo.ListEvents(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(page, 2)
	filter.AfterRecordedAt = &page[1].RecordedAt
	filter.AfterID = &page[1].ID
	rest, err := s.repos.MetricRepo.ListEvents(s.ctx, filter)
	s.Require().NoError(err)
	s.Require().Len(rest, 1)
	s.True(rest[0].Value.Equal(decimal.RequireFromString("4.0001")))
}

func (s *RepositoriesIntegrationSuite) TestDeleteOrganizationCascades() {
	org, ws, store := s.seedTenant(uuid.NewString())
	_, err := s.repos.IntegrationRepo.UpsertConnection(s.ctx, domain.IntegrationConnection{
		ID: uuid.NewString(), OrgID: org.ID, StoreID: store.ID, Source: domain.SourceJudgeMe, IsActive: true, CreatedAt: time.Now(),
	})
	s.Require().NoError(err)

	s.Require().NoError(s.repos.OrganizationRepo.DeleteOrganization(s.ctx, org.ID))

	_, err = s.repos.WorkspaceRepo.FindWorkspaceByID(s.ctx, org.ID, ws.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	_, err = s.repos.StoreRepo.FindStoreByID(s.ctx, org.ID, store.ID)
	s.ErrorIs(err, apperrors.ErrNotFound)
	conns, err := s.repos.IntegrationRepo.ListConnectionsByStore(s.ctx, org.ID, store.ID)
	s.Require().NoError(err)
	s.Empty(conns)
	members, err := s.repos.MemberRepo.ListMembers(s.ctx, org.ID)
	s.Require().NoError(err)
	s.Empty(members)

	s.ErrorIs(s.repos.OrganizationRepo.DeleteOrganization(s.ctx, org.ID), apperrors.ErrNotFound)
}

func (s *RepositoriesIntegrationSuite) TestMetricDefinitionsSeeded() {
	defs, err := s.repos.MetricRepo.ListDefinitions(s.ctx, domain.SourceClarity)
	s.Require().NoError(err)
	s.NotEmpty(defs)

	def, err := s.repos.MetricRepo.FindDefinitionByKey(s.ctx, "judgeme.average_rating")
	s.Require().NoError(err)
	assert.Equal(s.T(), domain.AggregateLast, def.AggregationMethod)

	_, err = s.repos.MetricRepo.FindDefinitionByKey(s.ctx, "shopify.nope")
	require.ErrorIs(s.T(), err, apperrors.ErrNotFound)
}
