package apperror

import (
	"errors"
	"fmt"
	"net/http"
)

type ErrorCode string

const (
	ErrCodeNotConfigured     ErrorCode = "NOT_CONFIGURED"
	ErrCodeNotFound          ErrorCode = "NOT_FOUND"
	ErrCodeValidation        ErrorCode = "VALIDATION_ERROR"
	ErrCodeSignatureMismatch ErrorCode = "SIGNATURE_MISMATCH"
	ErrCodeUnauthorized      ErrorCode = "UNAUTHORIZED"
	ErrCodeForbidden         ErrorCode = "FORBIDDEN"
	ErrCodeInternal          ErrorCode = "INTERNAL_ERROR"
)

// AppError carries a stable error code for API clients plus an optional
// wrapped cause that is logged but never exposed to callers.
type AppError struct {
	Code       ErrorCode
	Message    string
	HTTPStatus int
	Cause      error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s (caused by: %v)", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
	}
}

func Wrap(err error, code ErrorCode, message string) *AppError {
	return &AppError{
		Code:       code,
		Message:    message,
		HTTPStatus: codeToHTTPStatus(code),
		Cause:      err,
	}
}

// Internal wraps an unexpected failure as an opaque internal error. The
// cause is kept for logging; the message shown to callers stays generic.
func Internal(err error, message string) *AppError {
	return Wrap(err, ErrCodeInternal, message)
}

func codeToHTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeUnauthorized:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeValidation, ErrCodeSignatureMismatch:
		return http.StatusBadRequest
	case ErrCodeNotConfigured:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func IsNotFound(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotFound
}

func IsNotConfigured(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeNotConfigured
}

func IsSignatureMismatch(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeSignatureMismatch
}

func IsValidation(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr) && appErr.Code == ErrCodeValidation
}

var (
	ErrOrderNotFound     = New(ErrCodeNotFound, "order not found")
	ErrUserNotFound      = New(ErrCodeNotFound, "user not found")
	ErrUnauthorized      = New(ErrCodeUnauthorized, "authentication required")
	ErrAdminOnly         = New(ErrCodeForbidden, "admin access required")
	ErrGatewayNotReady   = New(ErrCodeNotConfigured, "payment gateway not configured")
	ErrSignatureMismatch = New(ErrCodeSignatureMismatch, "payment verification failed")
)
