package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// integrationHandler manages the external data sources attached to stores.
// The credential vault is never reachable from here.
type integrationHandler struct {
	integrationService portssvc.IntegrationSvcFacade
}

func newIntegrationHandler(is portssvc.IntegrationSvcFacade) *integrationHandler {
	return &integrationHandler{integrationService: is}
}

func registerIntegrationRoutes(rg *gin.RouterGroup, h *integrationHandler) {
	rg.GET("/stores/:store_id/integrations", h.listIntegrations)
	rg.POST("/stores/:store_id/integrations", h.connectIntegration)
	rg.DELETE("/integrations/:connection_id", h.disconnectIntegration)
}

// listIntegrations godoc
// @Summary List a store's integrations
// @Tags integrations
// @Produce json
// @Param store_id path string true "Store ID"
// @Success 200 {object} dto.ListIntegrationsResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id}/integrations [get]
func (h *integrationHandler) listIntegrations(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	conns, err := h.integrationService.ListConnections(c.Request.Context(), oc, c.Param("store_id"))
	if err != nil {
		respondError(c, err, "Failed to list integrations")
		return
	}
	c.JSON(http.StatusOK, dto.ToListIntegrationsResponse(conns))
}

// connectIntegration godoc
// @Summary Connect an integration
// @Description Stores the credential in the vault and creates or replaces the store's connection for the source.
// @Tags integrations
// @Accept json
// @Produce json
// @Param store_id path string true "Store ID"
// @Param integration body dto.ConnectIntegrationRequest true "Source and credential"
// @Success 201 {object} dto.IntegrationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Failure 500 {object} dto.ErrorResponse "Credential could not be stored"
// @Security SessionCookie
// @Router /stores/{store_id}/integrations [post]
func (h *integrationHandler) connectIntegration(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.ConnectIntegrationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	conn, err := h.integrationService.Connect(c.Request.Context(), oc, req.ToInput(c.Param("store_id")))
	if err != nil {
		respondError(c, err, "Failed to connect integration")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Integration connected",
		slog.String("connection_id", conn.ID), slog.String("source", req.Source))
	c.JSON(http.StatusCreated, dto.ToIntegrationResponse(conn))
}

// disconnectIntegration godoc
// @Summary Disconnect an integration
// @Description Deactivates the connection and drops its credential reference. Sync history is kept.
// @Tags integrations
// @Param connection_id path string true "Connection ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /integrations/{connection_id} [delete]
func (h *integrationHandler) disconnectIntegration(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	connectionID := c.Param("connection_id")
	if err := h.integrationService.Disconnect(c.Request.Context(), oc, connectionID); err != nil {
		respondError(c, err, "Failed to disconnect integration")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Integration disconnected", slog.String("connection_id", connectionID))
	c.Status(http.StatusNoContent)
}
