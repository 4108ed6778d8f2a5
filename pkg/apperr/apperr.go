package apperr

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorCode classifies an application error independently of transport.
type ErrorCode string

const (
	// ErrCodeValidation indicates missing or out-of-range input.
	ErrCodeValidation ErrorCode = "VALIDATION"
	// ErrCodeUnauthenticated indicates no credential was presented.
	ErrCodeUnauthenticated ErrorCode = "UNAUTHENTICATED"
	// ErrCodeInvalidToken indicates a bearer token failed verification.
	ErrCodeInvalidToken ErrorCode = "INVALID_TOKEN"
	// ErrCodeInvalidCredentials indicates a password did not match.
	ErrCodeInvalidCredentials ErrorCode = "INVALID_CREDENTIALS"
	// ErrCodeNotFound indicates a requested resource does not exist.
	ErrCodeNotFound ErrorCode = "NOT_FOUND"
	// ErrCodeForbidden indicates the caller does not own the resource.
	ErrCodeForbidden ErrorCode = "FORBIDDEN"
	// ErrCodeConflict indicates a uniqueness constraint was violated.
	ErrCodeConflict ErrorCode = "CONFLICT"
	// ErrCodeInternal indicates an unexpected store or runtime failure.
	ErrCodeInternal ErrorCode = "INTERNAL"
)

// StructuredError carries an ErrorCode, a client-safe message and the
// underlying cause.
type StructuredError struct {
	Code    ErrorCode
	Message string
	Cause   error
}

// Error implements the error interface.
func (e *StructuredError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause for errors.Is and errors.As support.
func (e *StructuredError) Unwrap() error {
	return e.Cause
}

// New creates a StructuredError with the given code and message.
func New(code ErrorCode, message string) *StructuredError {
	return &StructuredError{Code: code, Message: message}
}

// Wrap wraps cause with a code and message.
func Wrap(code ErrorCode, message string, cause error) *StructuredError {
	return &StructuredError{Code: code, Message: message, Cause: cause}
}

func Validation(message string) *StructuredError { return New(ErrCodeValidation, message) }

func NotFound(message string) *StructuredError { return New(ErrCodeNotFound, message) }

func Forbidden(message string) *StructuredError { return New(ErrCodeForbidden, message) }

func Conflict(message string) *StructuredError { return New(ErrCodeConflict, message) }

// Internal wraps an unexpected failure. The cause's text becomes the
// message so callers see the underlying store error.
func Internal(cause error) *StructuredError {
	msg := "internal server error"
	if cause != nil {
		msg = cause.Error()
	}
	return Wrap(ErrCodeInternal, msg, cause)
}

// CodeOf returns the ErrorCode of err, or ErrCodeInternal when err is not
// a StructuredError.
func CodeOf(err error) ErrorCode {
	var se *StructuredError
	if errors.As(err, &se) {
		return se.Code
	}
	return ErrCodeInternal
}

// Is reports whether err carries the given code.
func Is(err error, code ErrorCode) bool {
	return err != nil && CodeOf(err) == code
}

// HTTPStatus maps an ErrorCode to its HTTP status.
func HTTPStatus(code ErrorCode) int {
	switch code {
	case ErrCodeValidation:
		return http.StatusBadRequest
	case ErrCodeUnauthenticated, ErrCodeInvalidToken, ErrCodeInvalidCredentials:
		return http.StatusUnauthorized
	case ErrCodeForbidden:
		return http.StatusForbidden
	case ErrCodeNotFound:
		return http.StatusNotFound
	case ErrCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}
