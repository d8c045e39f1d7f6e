package services

import (
	"context"
	"log/slog"

	"github.com/aloftly/aloftly_app/internal/apperrors"
	"github.com/aloftly/aloftly_app/internal/core/domain"
	"github.com/aloftly/aloftly_app/internal/core/rbac"
	"github.com/aloftly/aloftly_app/internal/middleware"
)

// BaseService provides common functionality for all services
type BaseService struct{}

// GetLogger gets the logger from context or returns a default one
func (s *BaseService) GetLogger(ctx context.Context) *slog.Logger {
	logger := middleware.GetLoggerFromCtx(ctx)
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// LogError logs an error with consistent formatting
func (s *BaseService) LogError(ctx context.Context, err error, msg string, keyvals ...any) {
	logger := s.GetLogger(ctx)
	args := make([]any, 0, len(keyvals)+1)
	args = append(args, slog.String("error", err.Error()))
	args = append(args, keyvals...)
	logger.Error(msg, args...)
}

// LogInfo logs an info message with consistent formatting
func (s *BaseService) LogInfo(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Info(msg, keyvals...)
}

// LogWarn logs a warning with consistent formatting
func (s *BaseService) LogWarn(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Warn(msg, keyvals...)
}

// LogDebug logs a debug message with consistent formatting
func (s *BaseService) LogDebug(ctx context.Context, msg string, keyvals ...any) {
	s.GetLogger(ctx).Debug(msg, keyvals...)
}

// Authorize returns ErrForbidden unless the caller's role grants permission.
func (s *BaseService) Authorize(ctx context.Context, oc domain.OrgContext, permission rbac.Permission) error {
	if rbac.Can(oc.Role, permission) {
		return nil
	}
	s.LogDebug(ctx, "Permission denied",
		slog.String("user_id", oc.UserID),
		slog.String("org_id", oc.OrgID),
		slog.String("role", string(oc.Role)),
		slog.String("permission", string(permission)))
	return apperrors.NewForbiddenError("role " + string(oc.Role) + " lacks permission " + string(permission))
}

// RequireRole returns ErrForbidden unless the caller ranks at least role.
func (s *BaseService) RequireRole(oc domain.OrgContext, role domain.OrgRole) error {
	if rbac.HasRole(string(oc.Role), string(role)) {
		return nil
	}
	return apperrors.NewForbiddenError("requires role " + string(role))
}
