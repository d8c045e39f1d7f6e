package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

type storeHandler struct {
	storeService portssvc.StoreSvcFacade
}

func newStoreHandler(ss portssvc.StoreSvcFacade) *storeHandler {
	return &storeHandler{storeService: ss}
}

// registerStoreRoutes registers the store routes. Integration, sync and metric
// routes nest under /stores/:store_id and are registered by their own handlers.
func registerStoreRoutes(rg *gin.RouterGroup, h *storeHandler) {
	stores := rg.Group("/stores")
	{
		stores.POST("", h.createStore)
		stores.GET("", h.listStores)
		stores.GET("/:store_id", h.getStore)
		stores.DELETE("/:store_id", h.deleteStore)
	}
}

// createStore godoc
// @Summary Connect a Shopify store
// @Description Adds a storefront to a workspace. The domain is normalized to <shop>.myshopify.com.
// @Tags stores
// @Accept json
// @Produce json
// @Param store body dto.CreateStoreRequest true "Store details"
// @Success 201 {object} dto.StoreResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Store already connected"
// @Security SessionCookie
// @Router /stores [post]
func (h *storeHandler) createStore(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.CreateStoreRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	store, err := h.storeService.CreateStore(c.Request.Context(), oc, req.WorkspaceID, req.ShopifyDomain, req.DisplayName)
	if err != nil {
		respondError(c, err, "Failed to create store")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Store created",
		slog.String("store_id", store.ID), slog.String("shopify_domain", store.ShopifyDomain))
	c.JSON(http.StatusCreated, dto.ToStoreResponse(store))
}

// listStores godoc
// @Summary List stores
// @Tags stores
// @Produce json
// @Param workspaceId query string false "Only stores of this workspace"
// @Success 200 {object} dto.ListStoresResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores [get]
func (h *storeHandler) listStores(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	stores, err := h.storeService.ListStores(c.Request.Context(), oc, c.Query("workspaceId"))
	if err != nil {
		respondError(c, err, "Failed to list stores")
		return
	}
	c.JSON(http.StatusOK, dto.ToListStoresResponse(stores))
}

// getStore godoc
// @Summary Get a store
// @Tags stores
// @Produce json
// @Param store_id path string true "Store ID"
// @Success 200 {object} dto.StoreResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id} [get]
func (h *storeHandler) getStore(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	store, err := h.storeService.GetStore(c.Request.Context(), oc, c.Param("store_id"))
	if err != nil {
		respondError(c, err, "Failed to get store")
		return
	}
	c.JSON(http.StatusOK, dto.ToStoreResponse(store))
}

// deleteStore godoc
// @Summary Delete a store
// @Tags stores
// @Param store_id path string true "Store ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id} [delete]
func (h *storeHandler) deleteStore(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	storeID := c.Param("store_id")
	if err := h.storeService.DeleteStore(c.Request.Context(), oc, storeID); err != nil {
		respondError(c, err, "Failed to delete store")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Store deleted", slog.String("store_id", storeID))
	c.Status(http.StatusNoContent)
}
