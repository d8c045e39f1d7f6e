package handlers

import (
	"context"
	"net/http"
	"sort"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/middleware"
)

// ReadinessCheck reports whether one dependency can serve traffic.
type ReadinessCheck func(ctx context.Context) error

const readinessTimeout = 2 * time.Second

// HealthResponse is the body of the health endpoints.
type HealthResponse struct {
	Status string            `json:"status"`
	Checks map[string]string `json:"checks,omitempty"`
}

func registerHealthRoutes(r *gin.Engine, checks map[string]ReadinessCheck) {
	health := r.Group("/api/health")
	health.GET("", liveness)
	health.GET("/ready", readiness(checks))
}

// liveness godoc
// @Summary Liveness probe
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Router /api/health [get]
func liveness(c *gin.Context) {
	c.JSON(http.StatusOK, HealthResponse{Status: "ok"})
}

// readiness godoc
// @Summary Readiness probe
// @Description Pings every backing service. Answers 503 when any of them fails.
// @Tags health
// @Produce json
// @Success 200 {object} HealthResponse
// @Failure 503 {object} HealthResponse
// @Router /api/health/ready [get]
func readiness(checks map[string]ReadinessCheck) gin.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(c *gin.Context) {
		resp := HealthResponse{Status: "ok", Checks: make(map[string]string, len(names))}
		for _, name := range names {
			ctx, cancel := context.WithTimeout(c.Request.Context(), readinessTimeout)
			err := checks[name](ctx)
			cancel()
			if err != nil {
				middleware.GetLoggerFromContext(c).Warn("Readiness check failed",
					"check", name, "error", err.Error())
				resp.Status = "unavailable"
				resp.Checks[name] = "error"
				continue
			}
			resp.Checks[name] = "ok"
		}

		status := http.StatusOK
		if resp.Status != "ok" {
			status = http.StatusServiceUnavailable
		}
		c.JSON(status, resp)
	}
}
