package services

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"

	goshopify "github.com/bold-commerce/go-shopify/v4"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

// TopicAppUninstalled is sent when a merchant removes the app from their shop.
const TopicAppUninstalled = "app/uninstalled"

type webhookService struct {
	BaseService
	app          goshopify.App
	integrations portssvc.IntegrationInternalSvc
}

// NewWebhookService creates the webhook service. apiSecret signs Shopify webhooks.
func NewWebhookService(apiKey, apiSecret string, integrations portssvc.IntegrationInternalSvc) portssvc.WebhookSvcFacade {
	return &webhookService{
		app:          goshopify.App{ApiKey: apiKey, ApiSecret: apiSecret},
		integrations: integrations,
	}
}

var _ portssvc.WebhookSvcFacade = (*webhookService)(nil)

func (s *webhookService) VerifyShopifyRequest(r *http.Request) bool {
	if s.app.ApiSecret == "" {
		return false
	}
	return s.app.VerifyWebhookRequest(r)
}

func (s *webhookService) HandleShopifyEvent(ctx context.Context, topic, shopDomain string, payload []byte) error {
	if shopDomain == "" {
		var body struct {
			Domain       string `json:"domain"`
			MyshopifyURL string `json:"myshopify_domain"`
		}
		if err := json.Unmarshal(payload, &body); err == nil {
			shopDomain = body.MyshopifyURL
			if shopDomain == "" {
				shopDomain = body.Domain
			}
		}
	}
	if shopDomain == "" {
		return apperrors.NewValidationFailedError("webhook has no shop domain")
	}

	switch topic {
	case TopicAppUninstalled:
		_, err := s.integrations.DeactivateByShopDomain(ctx, shopDomain)
		return err
	default:
		s.LogDebug(ctx, "Ignoring Shopify webhook",
			slog.String("topic", topic),
			slog.String("shopify_domain", shopDomain))
		return nil
	}
}
