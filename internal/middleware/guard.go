package middleware

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
)

const (
	LoginPath   = "/login"
	LandingPath = "/dashboard"
)

// RouteAction is the outcome of the route guard for one request.
type RouteAction string

const (
	RouteAllow    RouteAction = "allow"
	RouteRedirect RouteAction = "redirect"
)

// RouteDecision tells the guard whether to let the request through or where to send it.
type RouteDecision struct {
	Action   RouteAction
	Location string
}

var (
	// publicPrefixes bypass the guard whatever the session state.
	publicPrefixes = []string{"/auth", "/api/health", "/api/webhooks"}
	// protectedPrefixes need a verified identity. "/" is matched exactly.
	protectedPrefixes = []string{"/dashboard", "/settings", "/stores", "/integrations"}
)

// hasPathPrefix matches prefix on segment boundaries, so "/settings" covers
// "/settings/team" but not "/settingsx". "/api/health" also covers "/api/healthz".
func hasPathPrefix(path, prefix string) bool {
	if !strings.HasPrefix(path, prefix) {
		return false
	}
	rest := path[len(prefix):]
	return rest == "" || rest[0] == '/' || (prefix == "/api/health" && !strings.Contains(rest, "/"))
}

func matchesAny(path string, prefixes []string) bool {
	for _, p := range prefixes {
		if hasPathPrefix(path, p) {
			return true
		}
	}
	return false
}

// IsPublicPath reports whether the guard lets path through unconditionally.
// The login page is public but still bounces signed-in users.
func IsPublicPath(path string) bool {
	return path == LoginPath || matchesAny(path, publicPrefixes)
}

// IsProtectedPath reports whether path requires a signed-in user.
func IsProtectedPath(path string) bool {
	return path == "/" || matchesAny(path, protectedPrefixes)
}

// EvaluateRoute is the pure route guard decision.
func EvaluateRoute(path string, authenticated bool) RouteDecision {
	switch {
	case path == LoginPath && authenticated:
		return RouteDecision{Action: RouteRedirect, Location: LandingPath}
	case IsPublicPath(path):
		return RouteDecision{Action: RouteAllow}
	case IsProtectedPath(path) && !authenticated:
		return RouteDecision{Action: RouteRedirect, Location: LoginPath}
	default:
		return RouteDecision{Action: RouteAllow}
	}
}

// SessionGuard verifies the session cookies with the identity provider, writes
// back refreshed tokens on every response, and applies EvaluateRoute. Cookies are
// cleared only when the provider rejects the session.
func SessionGuard(verifier portssvc.SessionVerifier, cookies *SessionCookies, metrics *Metrics) gin.HandlerFunc {
	return func(c *gin.Context) {
		path := c.Request.URL.Path
		if IsPublicPath(path) && path != LoginPath {
			metrics.ObserveGuard(RouteAllow, false)
			c.Next()
			return
		}

		logger := GetLoggerFromContext(c)
		authenticated := false

		if session := cookies.Read(c); session != nil {
			user, refreshed, err := verifier.VerifySession(c.Request.Context(), session)
			switch {
			case errors.Is(err, apperrors.ErrUnauthenticated):
				cookies.Clear(c)
			case err != nil:
				// the session may still be valid; treat the user as absent for this request only
				logger.Warn("Session verification failed", slog.String("error", err.Error()))
				if refreshed != nil {
					cookies.Write(c, refreshed)
					setSession(c, refreshed)
				}
			default:
				authenticated = true
				if refreshed != nil {
					cookies.Write(c, refreshed)
					session = refreshed
				}
				setSession(c, session)
				setAuthUser(c, user)
				setLogger(c, logger.With(slog.String("user_id", user.ID)))
			}
		}

		decision := EvaluateRoute(path, authenticated)
		metrics.ObserveGuard(decision.Action, authenticated)

		if decision.Action == RouteRedirect {
			target := *c.Request.URL
			target.Path = decision.Location
			GetLoggerFromContext(c).Debug("Route guard redirect", slog.String("location", decision.Location))
			c.Redirect(http.StatusTemporaryRedirect, target.RequestURI())
			c.Abort()
			return
		}
		c.Next()
	}
}
