// Package errors defines the coded errors shared by the document store,
// the file store adapters and the HTTP layer.
//
// Services return coded errors; handlers translate them with HTTPStatus:
//
//	if errors.Is(err, errors.ErrNotFound) {
//	    w.WriteHeader(http.StatusNotFound)
//	    return
//	}
package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// Re-exported so callers only import one errors package.
var (
	Is     = errors.Is
	As     = errors.As
	Unwrap = errors.Unwrap
	New    = errors.New
)

// Code is a machine-readable error category.
type Code string

const (
	CodeNotFound         Code = "NOT_FOUND"
	CodeValidation       Code = "VALIDATION"
	CodeConflict         Code = "CONFLICT"
	CodeForbidden        Code = "FORBIDDEN"
	CodeUnauthorized     Code = "UNAUTHORIZED"
	CodeStoreUnavailable Code = "STORE_UNAVAILABLE"
	CodeStoreCorrupt     Code = "STORE_CORRUPT"
	CodeRemoteCallFailed Code = "REMOTE_CALL_FAILED"
)

// HTTPStatus maps a code to the status returned to API callers.
// Store and remote failures map to 500.
func (c Code) HTTPStatus() int {
	switch c {
	case CodeNotFound:
		return http.StatusNotFound
	case CodeValidation:
		return http.StatusBadRequest
	case CodeConflict:
		return http.StatusConflict
	case CodeForbidden:
		return http.StatusForbidden
	case CodeUnauthorized:
		return http.StatusUnauthorized
	default:
		return http.StatusInternalServerError
	}
}

// Error is a coded error with an optional cause and details payload.
type Error struct {
	Code    Code   `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
	cause   error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.cause)
	}
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.cause
}

// Is matches any *Error carrying the same code, so the Err* sentinels
// below work with errors.Is regardless of message.
func (e *Error) Is(target error) bool {
	var t *Error
	if errors.As(target, &t) {
		return e.Code == t.Code
	}
	return false
}

// HTTPStatus returns the status for this error's code.
func (e *Error) HTTPStatus() int {
	return e.Code.HTTPStatus()
}

// Sentinels for errors.Is checks.
var (
	ErrNotFound         = &Error{Code: CodeNotFound, Message: "not found"}
	ErrValidation       = &Error{Code: CodeValidation, Message: "validation failed"}
	ErrConflict         = &Error{Code: CodeConflict, Message: "conflict"}
	ErrForbidden        = &Error{Code: CodeForbidden, Message: "forbidden"}
	ErrUnauthorized     = &Error{Code: CodeUnauthorized, Message: "unauthorized"}
	ErrStoreUnavailable = &Error{Code: CodeStoreUnavailable, Message: "store unavailable"}
	ErrStoreCorrupt     = &Error{Code: CodeStoreCorrupt, Message: "store corrupt"}
	ErrRemoteCallFailed = &Error{Code: CodeRemoteCallFailed, Message: "remote call failed"}
)

func NotFound(format string, args ...any) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf(format, args...)}
}

func Validation(message string) *Error {
	return &Error{Code: CodeValidation, Message: message}
}

// ValidationWithDetails carries per-field messages (field name -> message).
func ValidationWithDetails(message string, details map[string]string) *Error {
	return &Error{Code: CodeValidation, Message: message, Details: details}
}

func Conflict(message string) *Error {
	return &Error{Code: CodeConflict, Message: message}
}

func Forbidden(message string) *Error {
	return &Error{Code: CodeForbidden, Message: message}
}

func Unauthorized(message string) *Error {
	return &Error{Code: CodeUnauthorized, Message: message}
}

func StoreUnavailable(message string) *Error {
	return &Error{Code: CodeStoreUnavailable, Message: message}
}

func StoreCorrupt(message string, cause error) *Error {
	return &Error{Code: CodeStoreCorrupt, Message: message, cause: cause}
}

func RemoteCallFailed(message string, cause error) *Error {
	return &Error{Code: CodeRemoteCallFailed, Message: message, cause: cause}
}

// HTTPStatus returns the status for any error: coded errors use their
// code, everything else is a 500.
func HTTPStatus(err error) int {
	var e *Error
	if errors.As(err, &e) {
		return e.HTTPStatus()
	}
	return http.StatusInternalServerError
}
