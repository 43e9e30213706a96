package errors

import (
	"errors"
	"fmt"
)

// ErrorCode is the stable error identifier sent to clients in the "error" field.
// Clients branch on these values, so existing codes must keep their meaning.
type ErrorCode string

const (
	ErrCodeBadRequest      ErrorCode = "bad_request"
	ErrCodeForbidden       ErrorCode = "forbidden"
	ErrCodeNotFound        ErrorCode = "not_found"
	ErrCodeAlreadyRedeemed ErrorCode = "already_redeemed"
	ErrCodeExpired         ErrorCode = "expired"
	ErrCodeCorrupt         ErrorCode = "corrupt"
	ErrCodeServerError     ErrorCode = "server_error"
	ErrCodeRateLimited     ErrorCode = "rate_limited"
)

// AllCodes lists every ErrorCode. Keep in sync with the const block above.
var AllCodes = []ErrorCode{
	ErrCodeBadRequest,
	ErrCodeForbidden,
	ErrCodeNotFound,
	ErrCodeAlreadyRedeemed,
	ErrCodeExpired,
	ErrCodeCorrupt,
	ErrCodeServerError,
	ErrCodeRateLimited,
}

// AppError is a structured error that can be returned to clients
type AppError struct {
	Code    ErrorCode
	Message string
	cause   error
}

// Error implements the error interface
func (e *AppError) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s (cause: %v)", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// Unwrap returns the underlying error
func (e *AppError) Unwrap() error {
	return e.cause
}

// WithCause adds a cause to the error
func (e *AppError) WithCause(err error) *AppError {
	e.cause = err
	return e
}

// New creates a new AppError
func New(code ErrorCode, message string) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
	}
}

// Wrap wraps an existing error with an AppError
func Wrap(code ErrorCode, message string, cause error) *AppError {
	return &AppError{
		Code:    code,
		Message: message,
		cause:   cause,
	}
}

// Common error constructors

func BadRequest(message string) *AppError {
	return New(ErrCodeBadRequest, message)
}

func InvalidField(field string, reason string) *AppError {
	return New(ErrCodeBadRequest, fmt.Sprintf("invalid %s: %s", field, reason))
}

func MissingField(field string) *AppError {
	return New(ErrCodeBadRequest, fmt.Sprintf("%s is required", field))
}

// Forbidden carries no client-visible message; callers must not leak why.
func Forbidden() *AppError {
	return New(ErrCodeForbidden, "")
}

func NotFound() *AppError {
	return New(ErrCodeNotFound, "")
}

func AlreadyRedeemed() *AppError {
	return New(ErrCodeAlreadyRedeemed, "")
}

func Expired() *AppError {
	return New(ErrCodeExpired, "")
}

func Corrupt(cause error) *AppError {
	return Wrap(ErrCodeCorrupt, "stored record is corrupt", cause)
}

func Server(cause error) *AppError {
	return Wrap(ErrCodeServerError, "unexpected error", cause)
}

func RateLimited() *AppError {
	return New(ErrCodeRateLimited, "")
}

// IsAppError checks if an error is an AppError
func IsAppError(err error) bool {
	var appErr *AppError
	return errors.As(err, &appErr)
}

// AsAppError converts an error to an AppError if possible
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

// GetCode returns the error code if the error is an AppError, otherwise returns ErrCodeServerError
func GetCode(err error) ErrorCode {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return ErrCodeServerError
}
