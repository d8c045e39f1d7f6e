package middleware

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
)

// SentryRecovery recovers panics, reports them to Sentry when a client is
// configured and answers 500. Without a Sentry client it only logs.
func SentryRecovery() gin.HandlerFunc {
	return func(c *gin.Context) {
		hub := sentry.CurrentHub().Clone()
		hub.Scope().SetRequest(c.Request)
		ctx := sentry.SetHubOnContext(c.Request.Context(), hub)
		c.Request = c.Request.WithContext(ctx)

		defer func() {
			if rec := recover(); rec != nil {
				GetLoggerFromContext(c).Error("Panic recovered",
					slog.String("panic", fmt.Sprint(rec)))
				if hub.Client() != nil {
					hub.RecoverWithContext(ctx, rec)
					hub.Flush(2 * time.Second)
				}
				c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"error": "Internal server error"})
			}
		}()
		c.Next()
	}
}

// CaptureError reports an unexpected handler error to Sentry when configured.
func CaptureError(c *gin.Context, err error) {
	if hub := sentry.GetHubFromContext(c.Request.Context()); hub != nil && hub.Client() != nil {
		hub.CaptureException(err)
	}
}
