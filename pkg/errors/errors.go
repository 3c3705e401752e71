package errors

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/chemstock/chemstock-backend/pkg/i18n"
)

// Standard error types
var (
	ErrNotFound     = errors.New("resource not found")
	ErrUnauthorized = errors.New("unauthorized")
	ErrBadRequest   = errors.New("bad request")
	ErrConflict     = errors.New("resource conflict")
	ErrInternal     = errors.New("internal server error")
	ErrValidation   = errors.New("validation error")
	ErrTokenExpired = errors.New("token expired")
	ErrTokenInvalid = errors.New("invalid token")

	// Inventory domain errors
	ErrMissingInput       = errors.New("missing production input")
	ErrInvalidOutput      = errors.New("invalid production output")
	ErrMissingDestination = errors.New("missing destination warehouse")
	ErrInsufficientStock  = errors.New("insufficient stock")

	// Employee directory errors
	ErrEmployeeNotFound  = errors.New("employee not found")
	ErrLookupUnavailable = errors.New("employee directory unavailable")
)

// AppError represents an application error with context
type AppError struct {
	Err        error             `json:"-"`
	Message    string            `json:"message"`
	MessageKey string            `json:"-"` // i18n key for localization
	Params     map[string]string `json:"-"` // Parameters for i18n interpolation
	Code       string            `json:"code"`
	StatusCode int               `json:"status_code"`
	Details    map[string]string `json:"details,omitempty"`
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error
func (e *AppError) Unwrap() error {
	return e.Err
}

// Localize returns a localized version of the error message
func (e *AppError) Localize(ctx context.Context) string {
	if e.MessageKey == "" {
		return e.Message
	}
	return i18n.TFromContext(ctx, e.MessageKey, e.Params)
}

// New creates a new AppError
func New(code string, message string, statusCode int) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Wrap wraps an error with additional context
func Wrap(err error, code string, message string, statusCode int) *AppError {
	return &AppError{
		Err:        err,
		Code:       code,
		Message:    message,
		StatusCode: statusCode,
	}
}

// Common error constructors

func NotFound(resource string) *AppError {
	return &AppError{
		Err:        ErrNotFound,
		Code:       "NOT_FOUND",
		Message:    fmt.Sprintf("%s not found", resource),
		MessageKey: "errors.not_found",
		Params:     map[string]string{"resource": resource},
		StatusCode: http.StatusNotFound,
	}
}

func Unauthorized(message string) *AppError {
	return &AppError{
		Err:        ErrUnauthorized,
		Code:       "UNAUTHORIZED",
		Message:    message,
		MessageKey: "errors.unauthorized",
		StatusCode: http.StatusUnauthorized,
	}
}

func BadRequest(message string) *AppError {
	return &AppError{
		Err:        ErrBadRequest,
		Code:       "BAD_REQUEST",
		Message:    message,
		MessageKey: "errors.bad_request",
		StatusCode: http.StatusBadRequest,
	}
}

func Conflict(message string) *AppError {
	return &AppError{
		Err:        ErrConflict,
		Code:       "CONFLICT",
		Message:    message,
		MessageKey: "errors.conflict",
		StatusCode: http.StatusConflict,
	}
}

func Internal(message string) *AppError {
	return &AppError{
		Err:        ErrInternal,
		Code:       "INTERNAL_ERROR",
		Message:    message,
		MessageKey: "errors.internal",
		StatusCode: http.StatusInternalServerError,
	}
}

func Validation(details map[string]string) *AppError {
	return &AppError{
		Err:        ErrValidation,
		Code:       "VALIDATION_ERROR",
		Message:    "validation failed",
		MessageKey: "errors.validation_failed",
		StatusCode: http.StatusBadRequest,
		Details:    details,
	}
}

func TokenExpired() *AppError {
	return &AppError{
		Err:        ErrTokenExpired,
		Code:       "TOKEN_EXPIRED",
		Message:    "token has expired",
		MessageKey: "errors.token_expired",
		StatusCode: http.StatusUnauthorized,
	}
}

func TokenInvalid() *AppError {
	return &AppError{
		Err:        ErrTokenInvalid,
		Code:       "TOKEN_INVALID",
		Message:    "invalid token",
		MessageKey: "errors.token_invalid",
		StatusCode: http.StatusUnauthorized,
	}
}

// Inventory domain constructors

// MissingInput is returned when a production has no target formula or no sources.
func MissingInput() *AppError {
	return &AppError{
		Err:        ErrMissingInput,
		Code:       "MISSING_INPUT",
		Message:    "a target formula and at least one source material are required",
		MessageKey: "errors.missing_input",
		StatusCode: http.StatusBadRequest,
	}
}

// InvalidOutput is returned when the computed production output is not positive.
func InvalidOutput(output float64) *AppError {
	return &AppError{
		Err:        ErrInvalidOutput,
		Code:       "INVALID_OUTPUT",
		Message:    "output quantity must be greater than zero",
		MessageKey: "errors.invalid_output",
		Params:     map[string]string{"output": formatQty(output)},
		StatusCode: http.StatusUnprocessableEntity,
	}
}

// MissingDestination is returned when no destination warehouse was chosen.
func MissingDestination() *AppError {
	return &AppError{
		Err:        ErrMissingDestination,
		Code:       "MISSING_DESTINATION",
		Message:    "a destination warehouse must be selected",
		MessageKey: "errors.missing_destination",
		StatusCode: http.StatusBadRequest,
	}
}

// InsufficientStock is returned when an outbound quantity exceeds the available stock.
func InsufficientStock(current, requested float64, unit string) *AppError {
	params := map[string]string{
		"current": formatQty(current),
		"request": formatQty(requested),
		"unit":    unit,
	}
	return &AppError{
		Err:        ErrInsufficientStock,
		Code:       "INSUFFICIENT_STOCK",
		Message:    fmt.Sprintf("insufficient stock: available %s %s, requested %s", params["current"], unit, params["request"]),
		MessageKey: "errors.insufficient_stock",
		Params:     params,
		StatusCode: http.StatusConflict,
		Details:    params,
	}
}

// EmployeeNotFound is returned when the directory has no employee with the given id.
func EmployeeNotFound() *AppError {
	return &AppError{
		Err:        ErrEmployeeNotFound,
		Code:       "EMPLOYEE_NOT_FOUND",
		Message:    "employee id not found",
		MessageKey: "errors.employee_not_found",
		StatusCode: http.StatusUnauthorized,
	}
}

// LookupUnavailable is returned when the employee directory cannot be reached.
func LookupUnavailable(err error) *AppError {
	return &AppError{
		Err:        fmt.Errorf("%w: %v", ErrLookupUnavailable, err),
		Code:       "LOOKUP_UNAVAILABLE",
		Message:    "employee directory unavailable",
		MessageKey: "errors.lookup_unavailable",
		StatusCode: http.StatusServiceUnavailable,
	}
}

func formatQty(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

// Is checks if the error matches a target error
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As attempts to convert an error to a specific type
func As(err error, target any) bool {
	return errors.As(err, target)
}
