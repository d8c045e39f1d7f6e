package services

import (
	"context"
	"errors"
	"log/slog"
	"regexp"
	"strings"
	"time"

	goshopify "github.com/bold-commerce/go-shopify/v4"
	"github.com/google/uuid"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portsrepo "github.com/aloftly/aloftly_app/internal/core/ports/repositories"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
)

var shopDomainPattern = regexp.MustCompile(`^[a-z0-9][a-z0-9-]*\.myshopify\.com$`)

// NormalizeShopDomain turns "My-Shop", "https://my-shop.myshopify.com/" and the
// like into "my-shop.myshopify.com". It returns false when the result is not a
// valid myshopify domain.
func NormalizeShopDomain(raw string) (string, bool) {
	name := strings.ToLower(strings.TrimSpace(raw))
	name = strings.TrimPrefix(name, "https://")
	name = strings.TrimPrefix(name, "http://")
	name = strings.TrimRight(name, "/")
	if name == "" {
		return "", false
	}
	full := goshopify.ShopFullName(name)
	return full, shopDomainPattern.MatchString(full)
}

type storeService struct {
	BaseService
	storeRepo  portsrepo.StoreRepositoryFacade
	workspaces portssvc.WorkspaceAuthorizerSvc
	now        func() time.Time
}

// NewStoreService creates the store service. Workspace scoping is delegated to
// the workspace authorizer.
func NewStoreService(storeRepo portsrepo.StoreRepositoryFacade, workspaces portssvc.WorkspaceAuthorizerSvc) portssvc.StoreSvcFacade {
	return &storeService{
		storeRepo:  storeRepo,
		workspaces: workspaces,
		now:        time.Now,
	}
}

var _ portssvc.StoreSvcFacade = (*storeService)(nil)

func (s *storeService) CreateStore(ctx context.Context, oc domain.OrgContext, workspaceID, shopifyDomain, displayName string) (*domain.Store, error) {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return nil, err
	}
	// Also proves the workspace belongs to the caller's org.
	if err := s.workspaces.AuthorizeWorkspaceAccess(ctx, oc, workspaceID); err != nil {
		return nil, err
	}

	shopDomain, ok := NormalizeShopDomain(shopifyDomain)
	if !ok {
		return nil, apperrors.NewValidationFailedError("invalid Shopify domain " + shopifyDomain)
	}
	displayName = strings.TrimSpace(displayName)
	if displayName == "" {
		displayName = goshopify.ShopShortName(shopDomain)
	}

	store := domain.Store{
		ID:            uuid.NewString(),
		OrgID:         oc.OrgID,
		WorkspaceID:   workspaceID,
		ShopifyDomain: shopDomain,
		DisplayName:   displayName,
		CreatedAt:     s.now(),
	}
	if err := s.storeRepo.SaveStore(ctx, store); err != nil {
		s.LogError(ctx, err, "Failed to save store",
			slog.String("org_id", oc.OrgID),
			slog.String("shopify_domain", shopDomain))
		return nil, err
	}

	s.LogInfo(ctx, "Store created",
		slog.String("store_id", store.ID),
		slog.String("workspace_id", workspaceID),
		slog.String("shopify_domain", shopDomain))
	return &store, nil
}

func (s *storeService) GetStore(ctx context.Context, oc domain.OrgContext, storeID string) (*domain.Store, error) {
	store, err := s.storeRepo.FindStoreByID(ctx, oc.OrgID, storeID)
	if err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to load store", slog.String("store_id", storeID))
		}
		return nil, err
	}
	if err := s.workspaces.AuthorizeWorkspaceAccess(ctx, oc, store.WorkspaceID); err != nil {
		return nil, err
	}
	return store, nil
}

func (s *storeService) ListStores(ctx context.Context, oc domain.OrgContext, workspaceID string) ([]domain.Store, error) {
	if err := s.Authorize(ctx, oc, rbac.ViewDashboards); err != nil {
		return nil, err
	}

	var (
		stores []domain.Store
		err    error
	)
	switch {
	case workspaceID != "":
		if err := s.workspaces.AuthorizeWorkspaceAccess(ctx, oc, workspaceID); err != nil {
			return nil, err
		}
		stores, err = s.storeRepo.ListStores(ctx, oc.OrgID, workspaceID)
	case seesAllWorkspaces(oc):
		stores, err = s.storeRepo.ListStores(ctx, oc.OrgID, "")
	default:
		stores, err = s.storeRepo.ListStoresForUser(ctx, oc.OrgID, oc.UserID)
	}
	if err != nil {
		s.LogError(ctx, err, "Failed to list stores", slog.String("org_id", oc.OrgID))
		return nil, err
	}
	if stores == nil {
		return []domain.Store{}, nil
	}
	return stores, nil
}

func (s *storeService) DeleteStore(ctx context.Context, oc domain.OrgContext, storeID string) error {
	if err := s.Authorize(ctx, oc, rbac.ManageWorkspaces); err != nil {
		return err
	}
	if err := s.storeRepo.DeleteStore(ctx, oc.OrgID, storeID); err != nil {
		if !errors.Is(err, apperrors.ErrNotFound) {
			s.LogError(ctx, err, "Failed to delete store", slog.String("store_id", storeID))
		}
		return err
	}
	s.LogInfo(ctx, "Store deleted", slog.String("store_id", storeID))
	return nil
}
