package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrNotFound indicates that a requested resource could not be found.
var ErrNotFound = errors.New("resource not found")

// ErrValidation indicates that input data failed validation checks.
var ErrValidation = errors.New("validation error")

// ErrDuplicate indicates that an attempt was made to create a resource that already exists.
var ErrDuplicate = errors.New("resource already exists")

// ErrForbidden indicates that the caller's role does not grant the requested action.
var ErrForbidden = errors.New("forbidden")

// ErrUnauthorized indicates that the request carries no usable credentials.
var ErrUnauthorized = errors.New("unauthorized")

// ErrUnauthenticated indicates that the identity provider rejected the session.
var ErrUnauthenticated = errors.New("session is not authenticated")

// ErrIdentityUnavailable indicates the identity provider could not answer, so the
// session is neither confirmed nor rejected.
var ErrIdentityUnavailable = errors.New("identity provider unavailable")

// ErrNoOrgContext indicates a verified identity that carries no tenant claim.
var ErrNoOrgContext = errors.New("identity has no organization context")

// ErrInvalidTransition indicates a sync job status change that the state machine does not allow.
var ErrInvalidTransition = errors.New("invalid status transition")

// ErrInternal is used for failures the caller cannot act on.
var ErrInternal = errors.New("internal error")

// AppError carries an HTTP-ish status code alongside a message and the wrapped cause.
type AppError struct {
	Code    int    `json:"-"`
	Message string `json:"error"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates an AppError with an explicit code.
func NewAppError(code int, message string, err error) *AppError {
	return &AppError{Code: code, Message: message, Err: err}
}

// NewNotFoundError wraps ErrNotFound.
func NewNotFoundError(message string) *AppError {
	return &AppError{Code: http.StatusNotFound, Message: message, Err: ErrNotFound}
}

// NewValidationFailedError wraps ErrValidation.
func NewValidationFailedError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewConflictError wraps ErrDuplicate.
func NewConflictError(message string) *AppError {
	return &AppError{Code: http.StatusConflict, Message: message, Err: ErrDuplicate}
}

// NewForbiddenError wraps ErrForbidden.
func NewForbiddenError(message string) *AppError {
	return &AppError{Code: http.StatusForbidden, Message: message, Err: ErrForbidden}
}

// NewUnauthorizedError wraps ErrUnauthorized.
func NewUnauthorizedError(message string) *AppError {
	return &AppError{Code: http.StatusUnauthorized, Message: message, Err: ErrUnauthorized}
}

// NewBadRequestError is a validation failure raised before any lookup happens.
func NewBadRequestError(message string) *AppError {
	return &AppError{Code: http.StatusBadRequest, Message: message, Err: ErrValidation}
}

// NewInternalServerError wraps ErrInternal.
func NewInternalServerError(message string) *AppError {
	return &AppError{Code: http.StatusInternalServerError, Message: message, Err: ErrInternal}
}

// NewGatewayTimeoutError is used when an upstream collaborator did not answer.
func NewGatewayTimeoutError(message string) *AppError {
	return &AppError{Code: http.StatusGatewayTimeout, Message: message, Err: ErrInternal}
}

// StatusCode maps an error onto the HTTP status a handler should answer with.
func StatusCode(err error) int {
	var appErr *AppError
	switch {
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrValidation), errors.Is(err, ErrInvalidTransition):
		return http.StatusBadRequest
	case errors.Is(err, ErrDuplicate):
		return http.StatusConflict
	case errors.Is(err, ErrForbidden), errors.Is(err, ErrNoOrgContext):
		return http.StatusForbidden
	case errors.Is(err, ErrUnauthorized), errors.Is(err, ErrUnauthenticated):
		return http.StatusUnauthorized
	case errors.Is(err, ErrIdentityUnavailable):
		return http.StatusServiceUnavailable
	case errors.As(err, &appErr) && appErr.Code != 0:
		return appErr.Code
	default:
		return http.StatusInternalServerError
	}
}
