package handlers

import (
	"io"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

const (
	shopifyTopicHeader  = "X-Shopify-Topic"
	shopifyDomainHeader = "X-Shopify-Shop-Domain"

	maxWebhookBody = 1 << 20
)

type webhookHandler struct {
	webhookService portssvc.WebhookSvcFacade
}

func registerWebhookRoutes(r *gin.Engine, ws portssvc.WebhookSvcFacade) {
	h := &webhookHandler{webhookService: ws}
	r.POST("/api/webhooks/shopify", h.shopify)
}

// shopify godoc
// @Summary Shopify webhook receiver
// @Description Verifies the X-Shopify-Hmac-Sha256 signature and applies the event. app/uninstalled deactivates the shop's Shopify connections.
// @Tags webhooks
// @Accept json
// @Produce json
// @Success 200 "Accepted"
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Router /api/webhooks/shopify [post]
func (h *webhookHandler) shopify(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, maxWebhookBody)

	if !h.webhookService.VerifyShopifyRequest(c.Request) {
		logger.Warn("Rejected Shopify webhook with invalid signature")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "invalid webhook signature"})
		return
	}

	payload, err := io.ReadAll(c.Request.Body)
	if err != nil {
		respondBindError(c, err)
		return
	}

	topic := c.GetHeader(shopifyTopicHeader)
	shop := c.GetHeader(shopifyDomainHeader)
	logger = logger.With(slog.String("topic", topic), slog.String("shopify_domain", shop))

	if err := h.webhookService.HandleShopifyEvent(c.Request.Context(), topic, shop, payload); err != nil {
		respondError(c, err, "Failed to process webhook")
		return
	}
	logger.Info("Shopify webhook processed")
	c.Status(http.StatusOK)
}
