package services

// ServiceContainer holds instances of all the application services.
// Handlers reach services only through this container; the vault is not part
// of it and stays private to the integration service.
type ServiceContainer struct {
	Auth         AuthSvcFacade
	Organization OrganizationSvcFacade
	Workspace    WorkspaceSvcFacade
	Store        StoreSvcFacade
	Integration  IntegrationSvcFacade
	SyncJob      SyncJobSvcFacade
	Metric       MetricSvcFacade
	Webhook      WebhookSvcFacade
}
