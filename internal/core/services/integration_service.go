package services

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
)

type integrationService struct {
	BaseService
	integrationRepo portsrepo.IntegrationRepositoryFacade
	stores          portssvc.StoreReaderSvc
	workspaceRepo   portsrepo.WorkspaceMembershipManager
	vault           portssvc.VaultSvc
	now             func() time.Time
}

// NewIntegrationService creates the integration service. It is the only holder
// of the vault.
func NewIntegrationService(
	integrationRepo portsrepo.IntegrationRepositoryFacade,
	stores portssvc.StoreReaderSvc,
	workspaceRepo portsrepo.WorkspaceMembershipManager,
	vault portssvc.VaultSvc,
) portssvc.IntegrationSvcFacade {
	return &integrationService{
		integrationRepo: integrationRepo,
		stores:          stores,
		workspaceRepo:   workspaceRepo,
		vault:           vault,
		now:             time.Now,
	}
}

var _ portssvc.IntegrationSvcFacade = (*integrationService)(nil)

// AuthorizeIntegrationChange loads the store and allows admins, and members who
// belong to the store's workspace.
func (s *integrationService) AuthorizeIntegrationChange(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error) {
	store, err := s.stores.GetStore(ctx, oc, storeID)
	if err != nil {
		return nil, err
	}
	if rbac.Can(oc.Role, rbac.ManageIntegrations) {
		return store, nil
	}
	if err := s.Authorize(ctx, oc, rbac.ManageOwnIntegrations); err != nil {
		return nil, err
	}
	ok, err := s.workspaceRepo.IsWorkspaceMember(ctx, store.WorkspaceID, oc.UserID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperrors.NewForbiddenError("store is outside your workspaces")
	}
	return store, nil
}

func (s *integrationService) ListConnections(ctx context.Context, oc domain.OrgContext, storeID string) ([]domain.IntegrationConnection, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}
	if _, err := s.stores.GetStore(ctx, oc, storeID); err != nil {
		return nil, err
	}
	conns, err := s.integrationRepo.ListConnectionsByStore(ctx, oc.OrgID, storeID)
	if err != nil {
		s.LogError(ctx, err, "Failed to list connections", slog.String("store_id", storeID))
		return nil, err
	}
	if conns == nil {
		return []domain.IntegrationConnection{}, nil
	}
	return conns, nil
}

func (s *integrationService) Connect(ctx context.Context, oc domain.OrgContext, input portssvc.ConnectIntegrationInput) (*domain.IntegrationConnection, error) {
	if !input.Source.Valid() {
		return nil, apperrors.NewValidationFailedError("unknown integration source " + string(input.Source))
	}
	if input.Credential == "" {
		return nil, apperrors.NewValidationFailedError("credential is required")
	}
	store, err := s.AuthorizeIntegrationChange(ctx, oc, input.StoreID)
	if err != nil {
		return nil, err
	}

	name := string(input.Source) + ":" + oc.OrgID + ":" + store.ID
	secretID, err := s.vault.StoreCredential(ctx, input.Credential, name, "credential for "+store.ShopifyDomain)
	if err != nil {
		s.LogError(ctx, err, "Failed to store integration credential",
			slog.String("store_id", store.ID),
			slog.String("source", string(input.Source)))
		return nil, err
	}

	settings := input.Settings
	if settings == nil {
		settings = domain.JSONMap{}
	}
	now := s.now()
	conn, err := s.integrationRepo.UpsertConnection(ctx, domain.IntegrationConnection{
		ID:            uuid.NewString(),
		OrgID:         oc.OrgID,
		StoreID:       store.ID,
		Source:        input.Source,
		IsActive:      true,
		VaultSecretID: &secretID,
		Settings:      settings,
		CreatedAt:     now,
		UpdatedAt:     now,
	})
	if err != nil {
		// the vault has no delete; the secret stays behind unreferenced
		s.LogError(ctx, err, "Failed to save integration connection",
			slog.String("store_id", store.ID),
			slog.String("source", string(input.Source)),
			slog.String("orphaned_vault_secret_id", secretID))
		return nil, err
	}

	s.LogInfo(ctx, "Integration connected",
		slog.String("connection_id", conn.ID),
		slog.String("store_id", store.ID),
		slog.String("source", string(input.Source)))
	return conn, nil
}

func (s *integrationService) Disconnect(ctx context.Context, oc domain.OrgContext, connectionID string) error {
	conn, err := s.integrationRepo.FindConnectionByID(ctx, oc.OrgID, connectionID)
	if err != nil {
		return err
	}
	if _, err := s.AuthorizeIntegrationChange(ctx, oc, conn.StoreID); err != nil {
		return err
	}
	if err := s.integrationRepo.DeactivateConnection(ctx, oc.OrgID, connectionID); err != nil {
		s.LogError(ctx, err, "Failed to deactivate connection", slog.String("connection_id", connectionID))
		return err
	}
	s.LogInfo(ctx, "Integration disconnected", slog.String("connection_id", connectionID))
	return nil
}

func (s *integrationService) ResolveCredential(ctx context.Context, orgID, connectionID string) (string, error) {
	conn, err := s.integrationRepo.FindConnectionByID(ctx, orgID, connectionID)
	if err != nil {
		return "", err
	}
	if !conn.IsActive || !conn.HasCredential() {
		return "", apperrors.NewValidationFailedError("connection has no active credential")
	}
	return s.vault.GetCredential(ctx, *conn.VaultSecretID)
}

func (s *integrationService) DeactivateByShopDomain(ctx context.Context, shopDomain string) (int64, error) {
	normalized, ok := NormalizeShopDomain(shopDomain)
	if !ok {
		return 0, apperrors.NewValidationFailedError("invalid Shopify domain " + shopDomain)
	}
	n, err := s.integrationRepo.DeactivateByShopDomain(ctx, normalized)
	if err != nil {
		s.LogError(ctx, err, "Failed to deactivate connections for shop", slog.String("shopify_domain", normalized))
		return 0, err
	}
	s.LogInfo(ctx, "Deactivated Shopify connections",
		slog.String("shopify_domain", normalized),
		slog.Int64("count", n))
	return n, nil
}
