package config

import (
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Vault backends.
const (
	VaultBackendPostgres = "postgres"
	VaultBackendLocal    = "local"
)

// Config holds application configuration.
type Config struct {
	Port         string
	MetricsPort  string // internal listener for /metrics; empty when disabled
	IsProduction bool
	AppURL       string
	LogLevel     string

	// Database
	DatabaseURL        string
	DatabaseURLDirect  string // used for migrations; falls back to DatabaseURL
	ServiceDatabaseURL string // service-role connection for vault calls
	RunMigrations      bool

	// Identity provider (OIDC)
	AuthIssuerURL    string
	AuthClientID     string
	AuthClientSecret string
	AuthRedirectURL  string
	AuthScopes       []string
	AuthOrgClaim     string
	AuthRoleClaim    string

	// Session cookies
	SessionCookiePrefix string
	SessionCookieSecure bool
	SessionMaxAge       time.Duration

	CORSAllowedOrigins []string

	// Rate limiting on the auth routes, in ulule/limiter format ("20-M").
	RedisURL      string
	AuthRateLimit string

	SentryDSN              string
	SentryTracesSampleRate float64

	VaultBackend  string
	VaultLocalKey string

	ShopifyAPIKey    string
	ShopifyAPISecret string

	// Product analytics; empty key disables it.
	PosthogAPIKey   string
	PosthogEndpoint string
}

// LoadConfig loads configuration from environment variables and .env file if present.
func LoadConfig() (*Config, error) {
	// Attempt to load .env file, ignore error if it doesn't exist
	_ = godotenv.Load()

	viper.SetDefault("PORT", "8080")
	viper.SetDefault("METRICS_PORT", "9090")
	viper.SetDefault("IS_PRODUCTION", false)
	viper.SetDefault("APP_URL", "http://localhost:8080")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("DATABASE_URL", "")
	viper.SetDefault("DATABASE_URL_DIRECT", "")
	viper.SetDefault("SERVICE_DATABASE_URL", "")
	viper.SetDefault("RUN_MIGRATIONS", true)
	viper.SetDefault("AUTH_ISSUER_URL", "")
	viper.SetDefault("AUTH_CLIENT_ID", "")
	viper.SetDefault("AUTH_CLIENT_SECRET", "")
	viper.SetDefault("AUTH_REDIRECT_URL", "")
	viper.SetDefault("AUTH_SCOPES", "openid,email,profile")
	viper.SetDefault("AUTH_ORG_CLAIM", "org_id")
	viper.SetDefault("AUTH_ROLE_CLAIM", "user_role")
	viper.SetDefault("SESSION_COOKIE_PREFIX", "aloftly")
	viper.SetDefault("SESSION_COOKIE_SECURE", true)
	viper.SetDefault("SESSION_MAX_AGE", "168h")
	viper.SetDefault("CORS_ALLOWED_ORIGINS", "")
	viper.SetDefault("REDIS_URL", "")
	viper.SetDefault("AUTH_RATE_LIMIT", "20-M")
	viper.SetDefault("SENTRY_DSN", "")
	viper.SetDefault("SENTRY_TRACES_SAMPLE_RATE", 0.0)
	viper.SetDefault("VAULT_BACKEND", VaultBackendPostgres)
	viper.SetDefault("VAULT_LOCAL_KEY", "")
	viper.SetDefault("SHOPIFY_API_KEY", "")
	viper.SetDefault("SHOPIFY_API_SECRET", "")
	viper.SetDefault("POSTHOG_API_KEY", "")
	viper.SetDefault("POSTHOG_ENDPOINT", "https://eu.i.posthog.com")

	viper.AutomaticEnv()

	cfg := &Config{}

	cfg.Port = viper.GetString("PORT")
	if cfg.Port == "" {
		cfg.Port = "8080"
		log.Printf("Warning: PORT environment variable not set. Defaulting to %s\n", cfg.Port)
	}
	cfg.MetricsPort = viper.GetString("METRICS_PORT")
	if strings.EqualFold(cfg.MetricsPort, "off") {
		cfg.MetricsPort = ""
	}
	if cfg.MetricsPort == cfg.Port {
		return nil, fmt.Errorf("METRICS_PORT must differ from PORT (%s)", cfg.Port)
	}
	cfg.IsProduction = viper.GetBool("IS_PRODUCTION")
	cfg.AppURL = strings.TrimRight(viper.GetString("APP_URL"), "/")
	cfg.LogLevel = viper.GetString("LOG_LEVEL")

	cfg.DatabaseURL = viper.GetString("DATABASE_URL")
	if cfg.DatabaseURL == "" {
		log.Println("Warning: DATABASE_URL environment variable not set.")
	}
	cfg.DatabaseURLDirect = viper.GetString("DATABASE_URL_DIRECT")
	if cfg.DatabaseURLDirect == "" {
		cfg.DatabaseURLDirect = cfg.DatabaseURL
	}
	cfg.ServiceDatabaseURL = viper.GetString("SERVICE_DATABASE_URL")
	cfg.RunMigrations = viper.GetBool("RUN_MIGRATIONS")

	cfg.AuthIssuerURL = viper.GetString("AUTH_ISSUER_URL")
	cfg.AuthClientID = viper.GetString("AUTH_CLIENT_ID")
	cfg.AuthClientSecret = viper.GetString("AUTH_CLIENT_SECRET")
	cfg.AuthRedirectURL = viper.GetString("AUTH_REDIRECT_URL")
	if cfg.AuthRedirectURL == "" {
		cfg.AuthRedirectURL = cfg.AppURL + "/auth/callback"
	}
	cfg.AuthScopes = splitList(viper.GetString("AUTH_SCOPES"))
	cfg.AuthOrgClaim = viper.GetString("AUTH_ORG_CLAIM")
	cfg.AuthRoleClaim = viper.GetString("AUTH_ROLE_CLAIM")
	if cfg.AuthIssuerURL == "" {
		log.Println("Warning: AUTH_ISSUER_URL not set. Sign-in will not function.")
	}
	if cfg.AuthClientID == "" {
		log.Println("Warning: AUTH_CLIENT_ID not set. Sign-in will not function.")
	}

	cfg.SessionCookiePrefix = viper.GetString("SESSION_COOKIE_PREFIX")
	cfg.SessionCookieSecure = viper.GetBool("SESSION_COOKIE_SECURE")
	maxAgeStr := viper.GetString("SESSION_MAX_AGE")
	maxAge, err := time.ParseDuration(maxAgeStr)
	if err != nil || maxAge <= 0 {
		maxAge = 7 * 24 * time.Hour
		log.Printf("Warning: Invalid value for SESSION_MAX_AGE ('%s'). Defaulting to %s.\n", maxAgeStr, maxAge)
	}
	cfg.SessionMaxAge = maxAge

	cfg.CORSAllowedOrigins = splitList(viper.GetString("CORS_ALLOWED_ORIGINS"))
	if len(cfg.CORSAllowedOrigins) == 0 {
		cfg.CORSAllowedOrigins = []string{cfg.AppURL}
	}

	cfg.RedisURL = viper.GetString("REDIS_URL")
	cfg.AuthRateLimit = viper.GetString("AUTH_RATE_LIMIT")

	cfg.SentryDSN = viper.GetString("SENTRY_DSN")
	cfg.SentryTracesSampleRate = viper.GetFloat64("SENTRY_TRACES_SAMPLE_RATE")

	cfg.VaultBackend = strings.ToLower(viper.GetString("VAULT_BACKEND"))
	cfg.VaultLocalKey = viper.GetString("VAULT_LOCAL_KEY")
	switch cfg.VaultBackend {
	case VaultBackendPostgres:
		if cfg.ServiceDatabaseURL == "" {
			log.Println("Warning: SERVICE_DATABASE_URL not set. Vault calls will use DATABASE_URL.")
			cfg.ServiceDatabaseURL = cfg.DatabaseURL
		}
	case VaultBackendLocal:
		if cfg.IsProduction {
			return nil, fmt.Errorf("VAULT_BACKEND=local is not allowed in production")
		}
	default:
		return nil, fmt.Errorf("unknown VAULT_BACKEND %q", cfg.VaultBackend)
	}

	cfg.ShopifyAPIKey = viper.GetString("SHOPIFY_API_KEY")
	cfg.ShopifyAPISecret = viper.GetString("SHOPIFY_API_SECRET")
	if cfg.ShopifyAPISecret == "" {
		log.Println("Warning: SHOPIFY_API_SECRET not set. Shopify webhooks will be rejected.")
	}

	cfg.PosthogAPIKey = viper.GetString("POSTHOG_API_KEY")
	cfg.PosthogEndpoint = viper.GetString("POSTHOG_ENDPOINT")

	return cfg, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
