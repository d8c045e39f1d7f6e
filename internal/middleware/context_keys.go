package middleware

import (
	"context"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/core/domain"
)

// contextKey is used for both gin and request context values.
// Using a custom type prevents collisions.
type contextKey string

const (
	loggerKey     = contextKey("logger")
	sessionKey    = contextKey("session")
	authUserKey   = contextKey("authUser")
	orgContextKey = contextKey("orgContext")
)

// WithLogger returns a copy of ctx carrying logger.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, loggerKey, logger)
}

// GetLoggerFromCtx retrieves the request-scoped logger from a standard context,
// falling back to the default logger.
func GetLoggerFromCtx(ctx context.Context) *slog.Logger {
	if ctx != nil {
		if logger, ok := ctx.Value(loggerKey).(*slog.Logger); ok && logger != nil {
			return logger
		}
	}
	return slog.Default()
}

// GetLoggerFromContext retrieves the request-scoped logger from the Gin context.
func GetLoggerFromContext(c *gin.Context) *slog.Logger {
	if logger, exists := c.Get(string(loggerKey)); exists {
		if slogLogger, ok := logger.(*slog.Logger); ok {
			return slogLogger
		}
	}
	return GetLoggerFromCtx(c.Request.Context())
}

// setLogger replaces the request logger in both contexts.
func setLogger(c *gin.Context, logger *slog.Logger) {
	c.Set(string(loggerKey), logger)
	c.Request = c.Request.WithContext(WithLogger(c.Request.Context(), logger))
}

func setSession(c *gin.Context, session *domain.Session) {
	c.Set(string(sessionKey), session)
}

// GetSessionFromContext returns the session verified (and possibly refreshed)
// earlier in this request.
func GetSessionFromContext(c *gin.Context) (*domain.Session, bool) {
	v, exists := c.Get(string(sessionKey))
	if !exists {
		return nil, false
	}
	session, ok := v.(*domain.Session)
	return session, ok && session != nil
}

func setAuthUser(c *gin.Context, user *domain.AuthUser) {
	c.Set(string(authUserKey), user)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), authUserKey, user))
}

// GetAuthUserFromContext returns the identity verified for this request.
func GetAuthUserFromContext(c *gin.Context) (*domain.AuthUser, bool) {
	v, exists := c.Get(string(authUserKey))
	if !exists {
		return nil, false
	}
	user, ok := v.(*domain.AuthUser)
	return user, ok && user != nil
}

func setOrgContext(c *gin.Context, oc *domain.OrgContext) {
	c.Set(string(orgContextKey), oc)
	c.Request = c.Request.WithContext(context.WithValue(c.Request.Context(), orgContextKey, oc))
}

// GetOrgContextFromContext returns the tenant scope set by RequireOrgContext.
func GetOrgContextFromContext(c *gin.Context) (*domain.OrgContext, bool) {
	v, exists := c.Get(string(orgContextKey))
	if !exists {
		return nil, false
	}
	oc, ok := v.(*domain.OrgContext)
	return oc, ok && oc != nil
}
