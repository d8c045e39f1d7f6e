package handlers

import (
	"fmt"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/gin-gonic/gin/binding"
	"github.com/go-playground/validator/v10"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"github.com/ulule/limiter/v3"

	"github.com/aloftly/aloftly_app/cmd/docs"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
	"github.com/aloftly/aloftly_app/internal/platform/config"
)

// Infrastructure carries the process-wide pieces the routes need besides services.
type Infrastructure struct {
	Metrics     *middleware.Metrics
	AuthLimiter *limiter.Limiter
	Readiness   map[string]ReadinessCheck
	Analytics   middleware.EventTracker
}

// RegisterRoutes sets up all application routes, injecting dependencies using interfaces
func RegisterRoutes(
	r *gin.Engine,
	cfg *config.Config,
	services *portssvc.ServiceContainer,
	infra Infrastructure,
) error {
	if v, ok := binding.Validator.Engine().(*validator.Validate); ok {
		if err := dto.RegisterValidators(v); err != nil {
			return fmt.Errorf("register validators: %w", err)
		}
	}

	r.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSAllowedOrigins,
		AllowMethods:     []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodPatch, http.MethodDelete},
		AllowHeaders:     []string{"Origin", "Content-Type", middleware.RequestIDHeader},
		ExposeHeaders:    []string{middleware.RequestIDHeader},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	r.Use(infra.Metrics.Middleware())

	cookies := middleware.NewSessionCookies(cfg.SessionCookiePrefix, cfg.SessionCookieSecure, cfg.SessionMaxAge)
	r.Use(middleware.SessionGuard(services.Auth, cookies, infra.Metrics))

	registerHealthRoutes(r, infra.Readiness)
	registerWebhookRoutes(r, services.Webhook)
	registerPageRoutes(r)

	authLimit := func(c *gin.Context) { c.Next() }
	if infra.AuthLimiter != nil {
		authLimit = middleware.RateLimit(infra.AuthLimiter)
	}
	registerAuthRoutes(r, newAuthHandler(services.Auth, cookies, cfg.AppURL), authLimit)

	setupAPIV1Routes(r, services, cookies, infra.Analytics)

	setupSwaggerRoutes(r, cfg)
	return nil
}

// NewOpsHandler serves Prometheus metrics for the internal ops listener. It is
// never mounted on the public router.
func NewOpsHandler(metrics *middleware.Metrics) http.Handler {
	mux := http.NewServeMux()
	mux.Handle("GET /metrics", metrics.Handler())
	return mux
}

// setupAPIV1Routes configures the /api/v1 group and delegates to specific entity route registrations
func setupAPIV1Routes(
	r *gin.Engine,
	services *portssvc.ServiceContainer,
	cookies *middleware.SessionCookies,
	analytics middleware.EventTracker,
) {
	v1 := r.Group("/api/v1", middleware.ProductAnalytics(analytics))
	orgHandler := newOrganizationHandler(services.Organization)

	// Creating an organization is the one call that works before the user has one.
	registerOrganizationCreateRoute(v1.Group("", middleware.RequireUser(services.Auth, cookies)), orgHandler)

	// Finer permissions are checked by the services against the caller's role.
	tenant := v1.Group("",
		middleware.RequireOrgContext(services.Auth, cookies),
		middleware.RequirePermission(rbac.ViewDashboards),
	)
	registerOrganizationRoutes(tenant, orgHandler)
	registerWorkspaceRoutes(tenant, newWorkspaceHandler(services.Workspace))
	registerStoreRoutes(tenant, newStoreHandler(services.Store))
	registerIntegrationRoutes(tenant, newIntegrationHandler(services.Integration))
	registerSyncJobRoutes(tenant, newSyncJobHandler(services.SyncJob))
	registerMetricRoutes(tenant, newMetricHandler(services.Metric))
}

// setupSwaggerRoutes configures the swagger documentation routes
func setupSwaggerRoutes(r *gin.Engine, cfg *config.Config) {
	if cfg.IsProduction {
		//no swagger in prod
		return
	}
	docs.SwaggerInfo.BasePath = "/api/v1"
	swagger := r.Group("/swagger")
	swagger.GET("/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))
}
