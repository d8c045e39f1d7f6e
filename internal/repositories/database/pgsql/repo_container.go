package pgsql

import (
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	"github.com/jackc/pgx/v5/pgxpool"
)

func NewRepositoryProvider(dbPool *pgxpool.Pool) portsrepo.RepositoryProvider {
	return portsrepo.RepositoryProvider{
		OrganizationRepo: newPgxOrganizationRepository(dbPool),
		MemberRepo:       newPgxMemberRepository(dbPool),
		WorkspaceRepo:    newPgxWorkspaceRepository(dbPool),
		StoreRepo:        newPgxStoreRepository(dbPool),
		IntegrationRepo:  newPgxIntegrationRepository(dbPool),
		SyncJobRepo:      newPgxSyncJobRepository(dbPool),
		MetricRepo:       newPgxMetricRepository(dbPool),
	}
}
