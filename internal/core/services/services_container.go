package services

import (
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/platform/config"
)

// NewServiceContainer creates a new service container with properly initialized dependencies
func NewServiceContainer(
	cfg *config.Config,
	repos portsrepo.RepositoryProvider,
	identity providers.IdentityProvider,
	vault providers.SecretVault,
) *portssvc.ServiceContainer {
	container := &portssvc.ServiceContainer{}

	container.Auth = NewAuthService(identity, repos.MemberRepo)
	container.Organization = NewOrganizationService(repos.OrganizationRepo, repos.MemberRepo)

	// Workspace service first: stores, integrations and metrics scope through it.
	container.Workspace = NewWorkspaceService(repos.WorkspaceRepo, repos.MemberRepo)
	container.Store = NewStoreService(repos.StoreRepo, container.Workspace)

	// The vault service is handed to the integration service only.
	container.Integration = NewIntegrationService(
		repos.IntegrationRepo,
		container.Store,
		repos.WorkspaceRepo,
		NewVaultService(vault),
	)
	container.SyncJob = NewSyncJobService(repos.SyncJobRepo, repos.IntegrationRepo, container.Integration, container.Store)
	container.Metric = NewMetricService(repos.MetricRepo, container.Store)
	container.Webhook = NewWebhookService(cfg.ShopifyAPIKey, cfg.ShopifyAPISecret, container.Integration)

	return container
}
