package middleware

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
)

// currentSession prefers the session the guard already verified (it may have
// been refreshed) over the raw cookies.
func currentSession(c *gin.Context, cookies *SessionCookies) *domain.Session {
	if session, ok := GetSessionFromContext(c); ok {
		return session
	}
	return cookies.Read(c)
}

// RequireUser answers 401 unless the request carries a session the identity
// provider accepts. No tenant claim is needed.
func RequireUser(verifier portssvc.SessionVerifier, cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		if _, ok := GetAuthUserFromContext(c); ok {
			c.Next()
			return
		}
		session := currentSession(c, cookies)
		user, refreshed, err := verifier.VerifySession(c.Request.Context(), session)
		if refreshed != nil {
			cookies.Write(c, refreshed)
			setSession(c, refreshed)
		}
		if err != nil {
			abortUnverified(c, cookies, err)
			return
		}
		setAuthUser(c, user)
		setLogger(c, GetLoggerFromContext(c).With(slog.String("user_id", user.ID)))
		c.Next()
	}
}

// abortUnverified answers 401 and drops the cookies when the provider rejected the
// session, and 503 with the cookies left alone when it could not be asked.
func abortUnverified(c *gin.Context, cookies *SessionCookies, err error) {
	if errors.Is(err, apperrors.ErrUnauthenticated) {
		cookies.Clear(c)
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
		return
	}
	GetLoggerFromContext(c).Warn("Session verification failed", slog.String("error", err.Error()))
	c.AbortWithStatusJSON(http.StatusServiceUnavailable, gin.H{"error": "Identity provider unavailable"})
}

// RequireOrgContext re-validates the session and extracts {orgId, userId, role}.
// It answers 401 when the provider rejects the session, 503 when the provider
// cannot be reached, and 403 when the identity carries no organization.
func RequireOrgContext(verifier portssvc.SessionVerifier, cookies *SessionCookies) gin.HandlerFunc {
	return func(c *gin.Context) {
		logger := GetLoggerFromContext(c)
		session := currentSession(c, cookies)

		oc, refreshed, err := verifier.GetOrgContext(c.Request.Context(), session)
		if refreshed != nil {
			cookies.Write(c, refreshed)
			setSession(c, refreshed)
		}
		if err != nil {
			if errors.Is(err, apperrors.ErrNoOrgContext) {
				logger.Info("Request without organization context")
				c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "No organization context"})
				return
			}
			abortUnverified(c, cookies, err)
			return
		}

		setOrgContext(c, oc)
		if oc.User != nil {
			setAuthUser(c, oc.User)
		}
		setLogger(c, logger.With(
			slog.String("user_id", oc.UserID),
			slog.String("org_id", oc.OrgID),
		))
		c.Next()
	}
}

// RequirePermission answers 403 unless the caller's role grants permission.
// It must run after RequireOrgContext.
func RequirePermission(permission rbac.Permission) gin.HandlerFunc {
	return func(c *gin.Context) {
		oc, ok := GetOrgContextFromContext(c)
		if !ok {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "Authentication required"})
			return
		}
		if !rbac.Can(oc.Role, permission) {
			GetLoggerFromContext(c).Info("Permission denied",
				slog.String("role", string(oc.Role)),
				slog.String("permission", string(permission)))
			c.AbortWithStatusJSON(http.StatusForbidden, gin.H{"error": "Insufficient permissions"})
			return
		}
		c.Next()
	}
}
