package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// EventTracker receives product analytics events. utils.PosthogClientWrapper implements it.
type EventTracker interface {
	IsInitialized() bool
	Enqueue(distinctID string, event string, properties map[string]any)
}

// ProductAnalytics tracks successful state-changing API calls of signed-in users.
// Reads are not tracked.
func ProductAnalytics(tracker EventTracker) gin.HandlerFunc {
	return func(c *gin.Context) {
		if tracker == nil || !tracker.IsInitialized() || c.Request.Method == http.MethodGet {
			c.Next()
			return
		}

		c.Next()

		if len(c.Errors) > 0 || c.Writer.Status() >= http.StatusBadRequest {
			return
		}
		user, ok := GetAuthUserFromContext(c)
		if !ok {
			return
		}
		eventName := AnalyticsEventName(c.Request.Method, c.FullPath())
		if eventName == "" {
			return
		}

		props := map[string]any{
			"method":      c.Request.Method,
			"route":       c.FullPath(),
			"status_code": c.Writer.Status(),
		}
		if oc, ok := GetOrgContextFromContext(c); ok {
			props["org_id"] = oc.OrgID
			props["role"] = string(oc.Role)
			props["$groups"] = map[string]any{"organization": oc.OrgID}
		}
		if len(c.Params) > 0 {
			params := make(map[string]string, len(c.Params))
			for _, param := range c.Params {
				params[param.Key] = param.Value
			}
			props["params"] = params
		}

		tracker.Enqueue(user.ID, eventName, props)
	}
}

// AnalyticsEventName turns "POST /api/v1/stores/:store_id/sync-jobs" into
// "stores_store_id_sync_jobs_post". Unmatched routes give "".
func AnalyticsEventName(method, route string) string {
	route = strings.TrimPrefix(route, "/api/v1")
	route = strings.Trim(route, "/")
	if route == "" {
		return ""
	}
	name := strings.NewReplacer("/", "_", ":", "", "-", "_").Replace(route)
	return name + "_" + strings.ToLower(method)
}
