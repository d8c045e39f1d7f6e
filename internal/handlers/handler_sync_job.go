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

type syncJobHandler struct {
	syncJobService portssvc.SyncJobSvcFacade
}

func newSyncJobHandler(ss portssvc.SyncJobSvcFacade) *syncJobHandler {
	return &syncJobHandler{syncJobService: ss}
}

func registerSyncJobRoutes(rg *gin.RouterGroup, h *syncJobHandler) {
	jobs := rg.Group("/stores/:store_id/sync-jobs")
	{
		jobs.GET("", h.listSyncJobs)
		jobs.POST("", h.requestSync)
	}
}

// listSyncJobs godoc
// @Summary List sync jobs
// @Description Newest first. Pass nextPageToken back as pageToken for the following page.
// @Tags sync
// @Produce json
// @Param store_id path string true "Store ID"
// @Param limit query int false "Page size (1-100)"
// @Param pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListSyncJobsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id}/sync-jobs [get]
func (h *syncJobHandler) listSyncJobs(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var query dto.ListSyncJobsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	jobs, next, err := h.syncJobService.ListJobs(c.Request.Context(), oc, c.Param("store_id"), query.Limit, query.PageToken)
	if err != nil {
		respondError(c, err, "Failed to list sync jobs")
		return
	}
	c.JSON(http.StatusOK, dto.ToListSyncJobsResponse(jobs, next))
}

// requestSync godoc
// @Summary Request a sync
// @Description Queues a pending job for an active connection of the store.
// @Tags sync
// @Accept json
// @Produce json
// @Param store_id path string true "Store ID"
// @Param sync body dto.RequestSyncRequest true "Source to sync"
// @Success 202 {object} dto.SyncJobResponse
// @Failure 400 {object} dto.ErrorResponse "No active connection"
// @Failure 403 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id}/sync-jobs [post]
func (h *syncJobHandler) requestSync(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var req dto.RequestSyncRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		respondBindError(c, err)
		return
	}
	job, err := h.syncJobService.RequestSync(c.Request.Context(), oc, c.Param("store_id"), domain.Source(req.Source))
	if err != nil {
		respondError(c, err, "Failed to request sync")
		return
	}
	middleware.GetLoggerFromContext(c).Info("Sync requested",
		slog.String("job_id", job.ID), slog.String("source", req.Source))
	c.JSON(http.StatusAccepted, dto.ToSyncJobResponse(job))
}
