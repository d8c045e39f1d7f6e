package handlers

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// workspaceHandler handles HTTP requests related to client workspaces.
type workspaceHandler struct {
	workspaceService portssvc.WorkspaceSvcFacade
}

func newWorkspaceHandler(ws portssvc.WorkspaceSvcFacade) *workspaceHandler {
	return &workspaceHandler{workspaceService: ws}
}

func registerWorkspaceRoutes(rg *gin.RouterGroup, h *workspaceHandler) {
	workspaces := rg.Group("/workspaces")
	{
		workspaces.POST("", h.createWorkspace)
		workspaces.GET("", h.listWorkspaces)
	}

	workspace := rg.Group("/workspaces/:workspace_id")
	{
		workspace.GET("", h.getWorkspace)
		workspace.DELETE("", h.deleteWorkspace)

		members := workspace.Group("/members")
		{
			members.GET("", h.listWorkspaceMembers)
			members.POST("", h.addWorkspaceMember)
			members.DELETE("/:user_id", h.removeWorkspaceMember)
		}
	}
}

// createWorkspace godoc
// @Summary Create a workspace
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace body dto.CreateWorkspaceRequest true "Workspace details"
// @Success 201 {object} dto.WorkspaceResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse "Slug already used in this organization"
// @Security SessionCookie
// @Router /workspaces [post]
func (h *workspaceHandler) createWorkspace(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.CreateWorkspaceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	ws, err := h.workspaceService.CreateWorkspace(c.Request.Context(), oc, req.Name, req.Slug)
	if err != nil {
		respondError(c, err, "Failed to create workspace")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Workspace created", slog.String("workspace_id", ws.ID))
	c.JSON(http.StatusCreated, dto.ToWorkspaceResponse(ws))
}

// listWorkspaces godoc
// @Summary List workspaces
// @Description Admins see every workspace of the organization, other roles only the workspaces they belong to.
// @Tags workspaces
// @Produce json
// @Success 200 {object} dto.ListWorkspacesResponse
// @Failure 401 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces [get]
func (h *workspaceHandler) listWorkspaces(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	workspaces, err := h.workspaceService.ListWorkspaces(c.Request.Context(), oc)
	if err != nil {
		respondError(c, err, "Failed to list workspaces")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWorkspacesResponse(workspaces))
}

// getWorkspace godoc
// @Summary Get a workspace
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.WorkspaceResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces/{workspace_id} [get]
func (h *workspaceHandler) getWorkspace(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	ws, err := h.workspaceService.GetWorkspace(c.Request.Context(), oc, c.Param("workspace_id"))
	if err != nil {
		respondError(c, err, "Failed to get workspace")
		return
	}
	c.JSON(http.StatusOK, dto.ToWorkspaceResponse(ws))
}

// deleteWorkspace godoc
// @Summary Delete a workspace
// @Tags workspaces
// @Param workspace_id path string true "Workspace ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces/{workspace_id} [delete]
func (h *workspaceHandler) deleteWorkspace(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	workspaceID := c.Param("workspace_id")
	if err := h.workspaceService.DeleteWorkspace(c.Request.Context(), oc, workspaceID); err != nil {
		respondError(c, err, "Failed to delete workspace")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Workspace deleted", slog.String("workspace_id", workspaceID))
	c.Status(http.StatusNoContent)
}

// listWorkspaceMembers godoc
// @Summary List workspace members
// @Tags workspaces
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Success 200 {object} dto.ListWorkspaceMembersResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces/{workspace_id}/members [get]
func (h *workspaceHandler) listWorkspaceMembers(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	members, err := h.workspaceService.ListWorkspaceMembers(c.Request.Context(), oc, c.Param("workspace_id"))
	if err != nil {
		respondError(c, err, "Failed to list workspace members")
		return
	}
	c.JSON(http.StatusOK, dto.ToListWorkspaceMembersResponse(members))
}

// addWorkspaceMember godoc
// @Summary Add a workspace member
// @Description The user must already be a member of the organization.
// @Tags workspaces
// @Accept json
// @Produce json
// @Param workspace_id path string true "Workspace ID"
// @Param member body dto.AddWorkspaceMemberRequest true "User to add"
// @Success 201 {object} dto.WorkspaceMemberResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 403 {object} dto.ErrorResponse
// @Failure 409 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces/{workspace_id}/members [post]
func (h *workspaceHandler) addWorkspaceMember(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.AddWorkspaceMemberRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	member, err := h.workspaceService.AddWorkspaceMember(c.Request.Context(), oc, c.Param("workspace_id"), req.UserID)
	if err != nil {
		respondError(c, err, "Failed to add workspace member")
		return
	}
	c.JSON(http.StatusCreated, dto.ToWorkspaceMemberResponse(member))
}

// removeWorkspaceMember godoc
// @Summary Remove a workspace member
// @Tags workspaces
// @Param workspace_id path string true "Workspace ID"
// @Param user_id path string true "User ID"
// @Success 204
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /workspaces/{workspace_id}/members/{user_id} [delete]
func (h *workspaceHandler) removeWorkspaceMember(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	err := h.workspaceService.RemoveWorkspaceMember(c.Request.Context(), oc, c.Param("workspace_id"), c.Param("user_id"))
	if err != nil {
		respondError(c, err, "Failed to remove workspace member")
		return
	}
	c.Status(http.StatusNoContent)
}
