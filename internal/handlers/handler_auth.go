package handlers

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
	"net/url"

	"github.com/gin-gonic/gin"

	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/core/services"
	"github.com/aloftly/aloftly_app/internal/middleware"
	"github.com/aloftly/aloftly_app/internal/utils"
)

// AuthCodeErrorPath is where a failed sign-in callback lands.
const AuthCodeErrorPath = "/login?error=auth-code-error"

// authHandler drives the browser sign-in flow against the identity provider.
type authHandler struct {
	authService portssvc.AuthSvcFacade
	cookies     *middleware.SessionCookies
	appURL      string
}

func newAuthHandler(as portssvc.AuthSvcFacade, cookies *middleware.SessionCookies, appURL string) *authHandler {
	return &authHandler{authService: as, cookies: cookies, appURL: appURL}
}

// registerAuthRoutes sets up the sign-in, callback and sign-out routes.
// Every route goes through limit.
func registerAuthRoutes(r *gin.Engine, h *authHandler, limit gin.HandlerFunc) {
	auth := r.Group("/auth", limit)
	{
		auth.GET("/signin", h.signIn)
		auth.GET("/callback", h.callback)
	}

	api := r.Group("/api/auth", limit)
	{
		api.POST("/signout", h.signOut)
	}
}

// signIn godoc
// @Summary Start sign-in
// @Description Redirects to the identity provider with a PKCE challenge. The verifier, state and next path are kept in short-lived cookies.
// @Tags auth
// @Param next query string false "Local path to return to after sign-in"
// @Success 302 "Redirect to the identity provider"
// @Failure 500 {object} dto.ErrorResponse
// @Router /auth/signin [get]
func (h *authHandler) signIn(c *gin.Context) {
	attempt, err := h.authService.BeginSignIn(c.Request.Context(), c.Query("next"))
	if err != nil {
		respondError(c, err, "Failed to start sign-in")
		return
	}
	h.cookies.WriteSignIn(c, attempt)
	c.Redirect(http.StatusFound, attempt.URL)
}

// callback godoc
// @Summary Complete sign-in
// @Description Exchanges the authorization code for a session and redirects to the requested local path, or to /login?error=auth-code-error on failure.
// @Tags auth
// @Param code query string true "Authorization code"
// @Param state query string true "State echoed by the provider"
// @Param next query string false "Local path to return to"
// @Success 302 "Redirect to next or to the login error page"
// @Router /auth/callback [get]
func (h *authHandler) callback(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	storedState, verifier, storedNext := h.cookies.ReadSignIn(c)
	h.cookies.ClearSignIn(c)

	fail := func(reason string) {
		logger.Warn("Sign-in callback failed", slog.String("reason", reason))
		c.Redirect(http.StatusFound, AuthCodeErrorPath)
	}

	if providerErr := c.Query("error"); providerErr != "" {
		fail("provider returned " + providerErr)
		return
	}
	code := c.Query("code")
	if code == "" {
		fail("missing code")
		return
	}
	if verifier == "" {
		fail("missing code verifier")
		return
	}
	state := c.Query("state")
	if storedState == "" || subtle.ConstantTimeCompare([]byte(state), []byte(storedState)) != 1 {
		fail("state mismatch")
		return
	}

	session, err := h.authService.CompleteSignIn(c.Request.Context(), code, verifier)
	if err != nil {
		fail(err.Error())
		return
	}
	h.cookies.Write(c, session)

	next := c.Query("next")
	if next == "" {
		next = storedNext
	}
	target := utils.LocalRedirectPath(next, services.DefaultLandingPath)
	logger.Info("Sign-in completed", slog.String("next", target))
	c.Redirect(http.StatusFound, target)
}

// signOut godoc
// @Summary Sign out
// @Description Ends the session at the identity provider (best effort), clears the session cookies and redirects to the login page.
// @Tags auth
// @Success 302 "Redirect to {APP_URL}/login"
// @Router /api/auth/signout [post]
func (h *authHandler) signOut(c *gin.Context) {
	session, ok := middleware.GetSessionFromContext(c)
	if !ok {
		session = h.cookies.Read(c)
	}
	if err := h.authService.SignOut(c.Request.Context(), session); err != nil {
		middleware.GetLoggerFromContext(c).Warn("Provider sign-out failed; clearing local session anyway",
			slog.String("error", err.Error()))
	}
	h.cookies.Clear(c)

	loginURL, err := url.JoinPath(h.appURL, "login")
	if err != nil {
		loginURL = "/login"
	}
	c.Redirect(http.StatusFound, loginURL)
}
