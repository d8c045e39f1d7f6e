package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/core/domain"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// organizationHandler handles the caller's organization and its members.
type organizationHandler struct {
	orgService portssvc.OrganizationSvcFacade
}

func newOrganizationHandler(os portssvc.OrganizationSvcFacade) *organizationHandler {
	return &organizationHandler{orgService: os}
}

// registerOrganizationCreateRoute needs a signed-in user only: the creator has
// no organization yet.
func registerOrganizationCreateRoute(rg *gin.RouterGroup, h *organizationHandler) {
	rg.POST("/organizations", h.createOrganization)
}

func registerOrganizationRoutes(rg *gin.RouterGroup, h *organizationHandler) {
	rg.GET("/me", h.me)

	org := rg.Group("/organization")
	{
		org.GET("", h.getOrganization)
		org.PATCH("", h.updateOrganization)
		org.PUT("/plan", h.changePlan)
		org.DELETE("", h.deleteOrganization)

		members := org.Group("/members")
		{
			members.GET("", h.listMembers)
			members.POST("", h.addMember)
			members.PATCH("/:user_id", h.updateMemberRole)
			members.DELETE("/:user_id", h.removeMember)
		}
	}
}

// me godoc
// @Summary Current user
// @Description Returns the verified user, the tenant scope and the permissions granted by the role.
// @Tags organization
// @Produce json
// @Success 200 {object} dto.MeResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "No organization context"
// @Security SessionCookie
// @Router /me [get]
func (h *organizationHandler) me(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	c.JSON(http.StatusOK, dto.ToMeResponse(&oc))
}

// createOrganization godoc
// @Summary Create an organization
// @Description Creates an organization and makes the caller its owner.
// @Tags organization
// @Accept json
// @Produce json
// @Param organization body dto.CreateOrganizationRequest true "Organization details"
// @Success 201 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Slug already taken"
// @Security SessionCookie
// @Router /organizations [post]
func (h *organizationHandler) createOrganization(c *gin.Context) {
	logger := middleware.GetLoggerFromContext(c)
	var req dto.CreateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}

	user, ok := middleware.GetAuthUserFromContext(c)
	if !ok {
		logger.Error("Authenticated user not found in context")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return
	}

	tier := domain.PlanTier(req.PlanTier)
	if tier == "" {
		tier = domain.PlanStarter
	}

	org, err := h.orgService.CreateOrganization(c.Request.Context(), user.ID, req.Name, req.Slug, tier)
	if err != nil {
		respondError(c, err, "Failed to create organization")
		return
	}
	logger.Info("Organization created", slog.String("org_id", org.ID))
	c.JSON(http.StatusCreated, dto.ToOrganizationResponse(org))
}

// getOrganization godoc
// @Summary Get the current organization
// @Tags organization
// @Produce json
// @Success 200 {object} dto.OrganizationResponse
// @Failure 401 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization [get]
func (h *organizationHandler) getOrganization(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	org, err := h.orgService.GetOrganization(c.Request.Context(), oc)
	if err != nil {
		respondError(c, err, "Failed to get organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// updateOrganization godoc
// @Summary Update the current organization
// @Description Admins can rename the organization and replace its feature flags and white-label settings.
// @Tags organization
// @Accept json
// @Produce json
// @Param organization body dto.UpdateOrganizationRequest true "Fields to change"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization [patch]
func (h *organizationHandler) updateOrganization(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.UpdateOrganizationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	org, err := h.orgService.UpdateOrganization(c.Request.Context(), oc, req.ToDomain())
	if err != nil {
		respondError(c, err, "Failed to update organization")
		return
	}
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// changePlan godoc
// @Summary Change the billing plan
// @Tags organization
// @Accept json
// @Produce json
// @Param plan body dto.ChangePlanRequest true "New plan tier"
// @Success 200 {object} dto.OrganizationResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse "Owner only"
// @Security SessionCookie
// @Router /organization/plan [put]
func (h *organizationHandler) changePlan(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.ChangePlanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	org, err := h.orgService.ChangePlan(c.Request.Context(), oc, domain.PlanTier(req.PlanTier))
	if err != nil {
		respondError(c, err, "Failed to change plan")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Plan changed", slog.String("plan_tier", req.PlanTier))
	c.JSON(http.StatusOK, dto.ToOrganizationResponse(org))
}

// deleteOrganization godoc
// @Summary Delete the current organization
// @Description Owner only. Removes every workspace, store, connection, job and metric of the organization.
// @Tags organization
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization [delete]
func (h *organizationHandler) deleteOrganization(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	if err := h.orgService.DeleteOrganization(c.Request.Context(), oc); err != nil {
		respondError(c, err, "Failed to delete organization")
		return
	}
	middleware.GetLoggerFromContext(c).Warn("Organization deleted")
	c.Status(http.StatusNoContent)
}

// listMembers godoc
// @Summary List organization members
// @Tags organization
// @Produce json
// @Success 200 {object} dto.ListMembersResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization/members [get]
func (h *organizationHandler) listMembers(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	members, err := h.orgService.ListMembers(c.Request.Context(), oc)
	if err != nil {
		respondError(c, err, "Failed to list members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMembersResponse(members))
}

// addMember godoc
// @Summary Add a member
// @Description Nobody can grant a role above their own.
// @Tags organization
// @Accept json
// @Produce json
// @Param member body dto.AddMemberRequest true "Member to add"
// @Success 201 {object} dto.MemberResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Already a member"
// @Security SessionCookie
// @Router /organization/members [post]
func (h *organizationHandler) addMember(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.AddMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := h.orgService.AddMember(c.Request.Context(), oc, req.UserID, domain.OrgRole(req.Role))
	if err != nil {
		respondError(c, err, "Failed to add member")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Member added",
		slog.String("member_user_id", req.UserID), slog.String("role", req.Role))
	c.JSON(http.StatusCreated, dto.ToMemberResponse(member))
}

// updateMemberRole godoc
// @Summary Change a member's role
// @Description The last owner cannot be demoted.
// @Tags organization
// @Accept json
// @Param user_id path string true "Member user ID"
// @Param role body dto.UpdateMemberRoleRequest true "New role"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization/members/{user_id} [patch]
func (h *organizationHandler) updateMemberRole(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.UpdateMemberRoleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	if err := h.orgService.UpdateMemberRole(c.Request.Context(), oc, c.Param("user_id"), domain.OrgRole(req.Role)); err != nil {
		respondError(c, err, "Failed to update member role")
		return
	}
	c.Status(http.StatusNoContent)
}

// removeMember godoc
// @Summary Remove a member
// @Description The last owner cannot be removed.
// @Tags organization
// @Param user_id path string true "Member user ID"
// @Success 204
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /organization/members/{user_id} [delete]
func (h *organizationHandler) removeMember(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	if err := h.orgService.RemoveMember(c.Request.Context(), oc, c.Param("user_id")); err != nil {
		respondError(c, err, "Failed to remove member")
		return
	}
	c.Status(http.StatusNoContent)
}
