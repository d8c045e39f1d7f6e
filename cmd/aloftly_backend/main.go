package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/gin-gonic/gin"
	"github.com/redis/go-redis/v9"

	"github.com/aloftly/aloftly_app/internal/adapters/identity"
	"github.com/aloftly/aloftly_app/internal/adapters/vault"
	"github.com/aloftly/aloftly_app/internal/core/ports/providers"
	"github.com/aloftly/aloftly_app/internal/core/services"
	"github.com/aloftly/aloftly_app/internal/handlers"
	"github.com/aloftly/aloftly_app/internal/middleware"
	"github.com/aloftly/aloftly_app/internal/platform/config"
	"github.com/aloftly/aloftly_app/internal/repositories/database/pgsql"
	"github.com/aloftly/aloftly_app/internal/utils"
	"github.com/aloftly/aloftly_app/migrations"
	"github.com/aloftly/aloftly_app/pkg/database"
)

// @title Aloftly API
// @version 1.0
// @description Multi-tenant CRO analytics backend for Shopify agencies.

// @host localhost:8080
// @BasePath /api/v1

// @securityDefinitions.apikey SessionCookie
// @in header
// @name Cookie
// @description Session cookies set by /auth/callback.
func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		slog.Error("Failed to load config", slog.String("error", err.Error()))
		os.Exit(1)
	}

	// Initialize structured logger
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: parseLevel(cfg.LogLevel)}))
	slog.SetDefault(logger)

	if cfg.SentryDSN != "" {
		environment := "development"
		if cfg.IsProduction {
			environment = "production"
		}
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:              cfg.SentryDSN,
			Environment:      environment,
			EnableTracing:    cfg.SentryTracesSampleRate > 0,
			TracesSampleRate: cfg.SentryTracesSampleRate,
		}); err != nil {
			logger.Error("Failed to initialize Sentry", slog.String("error", err.Error()))
			os.Exit(1)
		}
		defer sentry.Flush(2 * time.Second)
		logger.Info("Sentry error reporting enabled")
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if cfg.RunMigrations {
		logger.Info("Running database migrations...")
		applied, err := database.RunMigrations(cfg.DatabaseURLDirect, migrations.FS)
		if err != nil {
			logger.Error("Failed to apply migrations", slog.String("error", err.Error()))
			os.Exit(1)
		}
		if applied {
			logger.Info("Database migrations applied successfully.")
		} else {
			logger.Info("No new migrations to apply.")
		}
	}

	// Initialize database connection pool (for application use)
	dbPool, err := database.NewPgxPool(ctx, cfg.DatabaseURL, database.PoolOptions{})
	if err != nil {
		logger.Error("Failed to initialize database pool", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer database.ClosePgxPool(dbPool)

	secretVault, closeVault, err := newSecretVault(ctx, cfg)
	if err != nil {
		logger.Error("Failed to initialize credential vault", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer closeVault()

	var redisClient *redis.Client
	if cfg.RedisURL != "" {
		opts, err := redis.ParseURL(cfg.RedisURL)
		if err != nil {
			logger.Error("Invalid REDIS_URL", slog.String("error", err.Error()))
			os.Exit(1)
		}
		redisClient = redis.NewClient(opts)
		defer func() {
			if cerr := redisClient.Close(); cerr != nil {
				logger.Error("Error closing Redis client", slog.String("error", cerr.Error()))
			}
		}()
	}

	authLimiter, err := middleware.NewRateLimiter(cfg.AuthRateLimit, redisClient)
	if err != nil {
		logger.Error("Failed to create auth rate limiter", slog.String("error", err.Error()))
		os.Exit(1)
	}

	idp, err := identity.NewOIDCProvider(ctx, identity.Options{
		IssuerURL:    cfg.AuthIssuerURL,
		ClientID:     cfg.AuthClientID,
		ClientSecret: cfg.AuthClientSecret,
		RedirectURL:  cfg.AuthRedirectURL,
		Scopes:       cfg.AuthScopes,
		OrgClaim:     cfg.AuthOrgClaim,
		RoleClaim:    cfg.AuthRoleClaim,
		HTTPClient:   &http.Client{Timeout: 10 * time.Second},
	})
	if err != nil {
		logger.Error("Failed to discover identity provider", slog.String("error", err.Error()))
		os.Exit(1)
	}

	repos := pgsql.NewRepositoryProvider(dbPool)
	serviceContainer := services.NewServiceContainer(cfg, repos, idp, secretVault)

	readiness := map[string]handlers.ReadinessCheck{
		"database": dbPool.Ping,
	}
	if redisClient != nil {
		readiness["redis"] = func(ctx context.Context) error { return redisClient.Ping(ctx).Err() }
	}

	posthogClient, err := utils.InitializePosthogClient(cfg.PosthogAPIKey, cfg.PosthogEndpoint, logger)
	if err != nil {
		logger.Error("Failed to initialize analytics", slog.String("error", err.Error()))
		os.Exit(1)
	}
	defer posthogClient.Close()

	if cfg.IsProduction {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()

	// Global middleware (recovery, logging)
	r.Use(middleware.SentryRecovery(), middleware.StructuredLoggingMiddleware(logger))

	err = r.SetTrustedProxies(nil)
	if err != nil {
		logger.Error("Failed to set trusted proxies", slog.String("error", err.Error()))
		os.Exit(1)
	}

	metrics := middleware.NewMetrics()
	if err := handlers.RegisterRoutes(r, cfg, serviceContainer, handlers.Infrastructure{
		Metrics:     metrics,
		AuthLimiter: authLimiter,
		Readiness:   readiness,
		Analytics:   posthogClient,
	}); err != nil {
		logger.Error("Failed to register routes", slog.String("error", err.Error()))
		os.Exit(1)
	}

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
	}

	go func() {
		logger.Info("Server starting", slog.String("port", cfg.Port))
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error("Server failed to run", slog.String("error", err.Error()))
			stop()
		}
	}()

	var opsSrv *http.Server
	if cfg.MetricsPort != "" {
		opsSrv = &http.Server{
			Addr:              ":" + cfg.MetricsPort,
			Handler:           handlers.NewOpsHandler(metrics),
			ReadHeaderTimeout: 10 * time.Second,
		}
		go func() {
			logger.Info("Metrics server starting", slog.String("port", cfg.MetricsPort))
			if err := opsSrv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
				logger.Error("Metrics server failed to run", slog.String("error", err.Error()))
			}
		}()
	}

	<-ctx.Done()
	logger.Info("Shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("Server shutdown failed", slog.String("error", err.Error()))
	}
	if opsSrv != nil {
		if err := opsSrv.Shutdown(shutdownCtx); err != nil {
			logger.Error("Metrics server shutdown failed", slog.String("error", err.Error()))
		}
	}
}

// newSecretVault picks the credential backend. The postgres backend uses its
// own service-role pool; the returned func closes it.
func newSecretVault(ctx context.Context, cfg *config.Config) (providers.SecretVault, func(), error) {
	if cfg.VaultBackend == config.VaultBackendLocal {
		sealed, err := vault.NewSealedVault(cfg.VaultLocalKey)
		if err != nil {
			return nil, nil, err
		}
		slog.Warn("Using in-memory sealed vault; credentials are lost on restart")
		return sealed, func() {}, nil
	}

	servicePool, err := database.NewPgxPool(ctx, cfg.ServiceDatabaseURL, database.PoolOptions{MaxConns: 4})
	if err != nil {
		return nil, nil, err
	}
	return pgsql.NewVaultRepository(servicePool), func() { database.ClosePgxPool(servicePool) }, nil
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(level) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
