package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// Pages are placeholders: the dashboard UI is rendered elsewhere, these routes
// only exist so the route guard has something to protect.

func registerPageRoutes(r *gin.Engine) {
	r.GET("/", rootPage)
	r.GET("/login", loginPage)
	r.GET("/dashboard", protectedPage("dashboard"))
	r.GET("/settings", protectedPage("settings"))
}

// rootPage is only reached by signed-in users; the guard sends everyone else to /login.
func rootPage(c *gin.Context) {
	c.Redirect(http.StatusFound, middleware.LandingPath)
}

// loginPage godoc
// @Summary Login page
// @Tags pages
// @Produce json
// @Param error query string false "Error flag from a failed sign-in"
// @Success 200 {object} dto.PageResponse
// @Router /login [get]
func loginPage(c *gin.Context) {
	c.JSON(http.StatusOK, dto.PageResponse{
		Page:    "login",
		Message: "Sign in at /auth/signin",
		Error:   c.Query("error"),
	})
}

func protectedPage(name string) gin.HandlerFunc {
	return func(c *gin.Context) {
		resp := dto.PageResponse{Page: name}
		if user, ok := middleware.GetAuthUserFromContext(c); ok {
			resp.UserID = user.ID
		}
		c.JSON(http.StatusOK, resp)
	}
}
