package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	portssvc "github.com/aloftly/aloftly_app/internal/core/ports/services"
	"github.com/aloftly/aloftly_app/internal/dto"
)

type metricHandler struct {
	metricService portssvc.MetricSvcFacade
}

func newMetricHandler(ms portssvc.MetricSvcFacade) *metricHandler {
	return &metricHandler{metricService: ms}
}

func registerMetricRoutes(rg *gin.RouterGroup, h *metricHandler) {
	rg.GET("/metrics/definitions", h.listDefinitions)

	storeMetrics := rg.Group("/stores/:store_id/metrics")
	{
		storeMetrics.GET("/events", h.listEvents)
		storeMetrics.GET("/summary", h.summarize)
	}
}

// listDefinitions godoc
// @Summary List metric definitions
// @Tags metrics
// @Produce json
// @Param source query string false "Only definitions of this source"
// @Success 200 {object} dto.ListMetricDefinitionsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /metrics/definitions [get]
func (h *metricHandler) listDefinitions(c *gin.Context) {
	var query dto.ListMetricDefinitionsQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	defs, err := h.metricService.ListDefinitions(c.Request.Context(), domain.Source(query.Source))
	if err != nil {
		respondError(c, err, "Failed to list metric definitions")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMetricDefinitionsResponse(defs))
}

// listEvents godoc
// @Summary List metric events
// @Description Events of the store recorded in [from, to), oldest first, one page at a time.
// @Tags metrics
// @Produce json
// @Param store_id path string true "Store ID"
// @Param metricKey query string false "Only this metric"
// @Param from query string true "Window start (RFC 3339)"
// @Param to query string true "Window end, exclusive (RFC 3339)"
// @Param limit query int false "Page size (1-1000)"
// @Param pageToken query string false "Token from the previous page"
// @Success 200 {object} dto.ListMetricEventsResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id}/metrics/events [get]
func (h *metricHandler) listEvents(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var query dto.MetricWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	events, next, err := h.metricService.ListEvents(c.Request.Context(), oc, portssvc.MetricEventsQuery{
		StoreID:   c.Param("store_id"),
		MetricKey: query.MetricKey,
		From:      query.From,
		To:        query.To,
		Limit:     query.Limit,
		PageToken: query.PageToken,
	})
	if err != nil {
		respondError(c, err, "Failed to list metric events")
		return
	}
	c.JSON(http.StatusOK, dto.ToListMetricEventsResponse(events, next))
}

// summarize godoc
// @Summary Summarize a metric
// @Description Rolls the metric up over [from, to) with the aggregation method of its definition.
// @Tags metrics
// @Produce json
// @Param store_id path string true "Store ID"
// @Param metricKey query string true "Metric key"
// @Param from query string true "Window start (RFC 3339)"
// @Param to query string true "Window end, exclusive (RFC 3339)"
// @Success 200 {object} dto.MetricSummaryResponse
// @Failure 400 {object} dto.ErrorResponse
// @Failure 404 {object} dto.ErrorResponse
// @Security SessionCookie
// @Router /stores/{store_id}/metrics/summary [get]
func (h *metricHandler) summarize(c *gin.Context) {
	oc, ok := orgContext(c)
	if !ok {
		return
	}
	var query dto.MetricWindowQuery
	if err := c.ShouldBindQuery(&query); err != nil {
		respondBindError(c, err)
		return
	}
	if query.MetricKey == "" {
		respondError(c, apperrors.NewBadRequestError("metricKey is required"), "Failed to summarize metric")
		return
	}
	summary, err := h.metricService.Summarize(c.Request.Context(), oc, c.Param("store_id"), query.MetricKey, query.From, query.To)
	if err != nil {
		respondError(c, err, "Failed to summarize metric")
		return
	}
	c.JSON(http.StatusOK, dto.ToMetricSummaryResponse(summary))
}
