package services

import (
	"context"
	"net/http"
)

// WebhookSvcFacade handles inbound provider webhooks.
type WebhookSvcFacade interface {
	// VerifyShopifyRequest checks the X-Shopify-Hmac-Sha256 signature. The body
	// stays readable afterwards.
	VerifyShopifyRequest(r *http.Request) bool

	// HandleShopifyEvent applies a verified Shopify webhook.
	HandleShopifyEvent(ctx context.Context, topic, shopDomain string, payload []byte) error
}
