package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Domain errors
var (
	ErrValidation        = errors.New("validation error")
	ErrDuplicateEmail    = errors.New("email already registered")
	ErrAccountNotFound   = errors.New("account not found")
	ErrInvalidSecretCode = errors.New("invalid secret code")
	ErrRoleSlotFull      = errors.New("role slot full")
	ErrForbidden         = errors.New("forbidden")
	ErrUnauthorized      = errors.New("unauthorized")
	ErrNotFound          = errors.New("resource not found")
	ErrAlreadyResolved   = errors.New("already resolved")
)

// ErrSlotFull is the role-transition name for a full role slot.
var ErrSlotFull = ErrRoleSlotFull

// Field-level validation errors
var (
	ErrInvalidAmount   = fmt.Errorf("%w: amount must be greater than zero", ErrValidation)
	ErrProjectRequired = fmt.Errorf("%w: project is required", ErrValidation)
	ErrPeriodRequired  = fmt.Errorf("%w: month is required", ErrValidation)
)

// Error codes rendered to clients
const (
	CodeValidation        = "VALIDATION_ERROR"
	CodeBadRequest        = "BAD_REQUEST"
	CodeInvalidAmount     = "INVALID_AMOUNT"
	CodeProjectRequired   = "PROJECT_REQUIRED"
	CodePeriodRequired    = "PERIOD_REQUIRED"
	CodeDuplicateEmail    = "DUPLICATE_EMAIL"
	CodeAccountNotFound   = "ACCOUNT_NOT_FOUND"
	CodeInvalidSecretCode = "INVALID_SECRET_CODE"
	CodeRoleSlotFull      = "ROLE_SLOT_FULL"
	CodeForbidden         = "FORBIDDEN"
	CodeUnauthorized      = "UNAUTHORIZED"
	CodeNotFound          = "NOT_FOUND"
	CodeAlreadyResolved   = "ALREADY_RESOLVED"
	CodeInternal          = "INTERNAL_ERROR"
	CodeIdempotencyBusy   = "IDEMPOTENCY_CONFLICT"
)

// AppError represents application error with HTTP status
type AppError struct {
	Status  int    `json:"-"`
	Code    string `json:"code"`
	Field   string `json:"field,omitempty"`
	Message string `json:"message"`
	Err     error  `json:"-"`
}

func (e *AppError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return e.Code
}

func (e *AppError) Unwrap() error {
	return e.Err
}

// NewAppError creates a new app error
func NewAppError(status int, code, message string, err error) *AppError {
	return &AppError{
		Status:  status,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// WithField attributes the error to an input field.
func (e *AppError) WithField(field string) *AppError {
	e.Field = field
	return e
}

// Common error constructors
func Validation(field, message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeValidation, message, ErrValidation).WithField(field)
}

func BadRequest(message string) *AppError {
	return NewAppError(http.StatusBadRequest, CodeBadRequest, message, ErrValidation)
}

func InvalidAmount() *AppError {
	return NewAppError(http.StatusBadRequest, CodeInvalidAmount, "amount must be greater than zero", ErrInvalidAmount).WithField("amount")
}

func ProjectRequired() *AppError {
	return NewAppError(http.StatusBadRequest, CodeProjectRequired, "please select an existing project", ErrProjectRequired).WithField("projectId")
}

func PeriodRequired() *AppError {
	return NewAppError(http.StatusBadRequest, CodePeriodRequired, "month is required", ErrPeriodRequired).WithField("month")
}

func DuplicateEmail() *AppError {
	return NewAppError(http.StatusConflict, CodeDuplicateEmail, "email already registered", ErrDuplicateEmail).WithField("email")
}

func AccountNotFound() *AppError {
	return NewAppError(http.StatusNotFound, CodeAccountNotFound, "account not found", ErrAccountNotFound).WithField("email")
}

func InvalidSecretCode() *AppError {
	return NewAppError(http.StatusForbidden, CodeInvalidSecretCode, "invalid secret code", ErrInvalidSecretCode).WithField("secretCode")
}

func RoleSlotFull(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeRoleSlotFull, message, ErrRoleSlotFull).WithField("role")
}

func Forbidden(message string) *AppError {
	return NewAppError(http.StatusForbidden, CodeForbidden, message, ErrForbidden)
}

func Unauthorized(message string) *AppError {
	return NewAppError(http.StatusUnauthorized, CodeUnauthorized, message, ErrUnauthorized)
}

func NotFound(message string) *AppError {
	return NewAppError(http.StatusNotFound, CodeNotFound, message, ErrNotFound)
}

func AlreadyResolved(message string) *AppError {
	return NewAppError(http.StatusConflict, CodeAlreadyResolved, message, ErrAlreadyResolved)
}

func InternalError(err error) *AppError {
	return NewAppError(http.StatusInternalServerError, CodeInternal, "internal server error", err)
}
