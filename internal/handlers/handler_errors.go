package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/dto"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// respondError maps a service error onto a JSON error response. Client errors
// carry the service message; server errors are logged, reported and hidden
// behind fallback.
func respondError(c *gin.Context, err error, fallback string) {
	logger := middleware.GetLoggerFromContext(c)
	status := apperrors.StatusCode(err)

	if status >= http.StatusInternalServerError {
		logger.Error(fallback, slog.String("error", err.Error()))
		middleware.CaptureError(c, err)
		c.JSON(status, dto.ErrorResponse{Error: fallback})
		return
	}

	message := err.Error()
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) {
		message = appErr.Message
	}
	logger.Warn("Request failed", slog.Int("status", status), slog.String("error", err.Error()))
	c.JSON(status, dto.ErrorResponse{Error: message})
}

// respondBindError answers 400 for a body or query that failed binding.
func respondBindError(c *gin.Context, err error) {
	middleware.GetLoggerFromContext(c).Warn("Failed to bind request", slog.String("error", err.Error()))
	c.JSON(http.StatusBadRequest, dto.ErrorResponse{Error: "Invalid request format: " + err.Error()})
}

// orgContext returns the tenant scope set by RequireOrgContext, answering 401 when absent.
func orgContext(c *gin.Context) (domain.OrgContext, bool) {
	oc, ok := middleware.GetOrgContextFromContext(c)
	if !ok {
		middleware.GetLoggerFromContext(c).Error("Org context not found in request")
		c.JSON(http.StatusUnauthorized, dto.ErrorResponse{Error: "Unauthorized"})
		return domain.OrgContext{}, false
	}
	return *oc, true
}
