// Package apperrors defines the typed failure taxonomy shared by the
// repository, the credential router and the HTTP layer.
package apperrors

import (
	"errors"
	"fmt"
	"net/http"
)

// Code is a machine-readable failure kind.
type Code string

const (
	// CodeNotFound: the record or issue is absent. Repository read paths
	// return nil instead of this; it surfaces only at the HTTP boundary.
	CodeNotFound Code = "NOT_FOUND"
	// CodeValidation: malformed request shape or date ordering violation,
	// rejected before any tracker call.
	CodeValidation Code = "VALIDATION_FAILED"
	// CodePermissionDenied: the actor may not mutate this record.
	CodePermissionDenied Code = "PERMISSION_DENIED"
	// CodeDecodeFailed: an issue document identified by id did not match the
	// record schema. List paths swallow this per item instead.
	CodeDecodeFailed Code = "DECODE_FAILED"
	// CodeCredentialRequired: no usable client or expired credential. Must
	// propagate distinctly so the caller can trigger re-authentication.
	CodeCredentialRequired Code = "CREDENTIAL_REQUIRED"
	// CodeRateLimited: the tracker's quota is exceeded. Never auto-retried.
	CodeRateLimited Code = "RATE_LIMITED"
	// CodeRemote: any other transport or tracker-side failure.
	CodeRemote Code = "REMOTE_FAILURE"
)

var statusByCode = map[Code]int{
	CodeNotFound:           http.StatusNotFound,
	CodeValidation:         http.StatusBadRequest,
	CodePermissionDenied:   http.StatusForbidden,
	CodeDecodeFailed:       http.StatusBadGateway,
	CodeCredentialRequired: http.StatusUnauthorized,
	CodeRateLimited:        http.StatusTooManyRequests,
	CodeRemote:             http.StatusBadGateway,
}

// Error is a typed failure with an optional wrapped cause.
type Error struct {
	Code    Code
	Message string
	Err     error
}

func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *Error) Unwrap() error { return e.Err }

// HTTPStatus returns the HTTP status for the error's code.
func (e *Error) HTTPStatus() int {
	if s, ok := statusByCode[e.Code]; ok {
		return s
	}
	return http.StatusInternalServerError
}

// New creates a typed failure.
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Newf creates a typed failure with a formatted message.
func Newf(code Code, format string, args ...any) *Error {
	return &Error{Code: code, Message: fmt.Sprintf(format, args...)}
}

// Wrap creates a typed failure around a cause.
func Wrap(code Code, message string, err error) *Error {
	return &Error{Code: code, Message: message, Err: err}
}

// CodeOf extracts the failure code from err, or CodeRemote when err carries
// no typed failure.
func CodeOf(err error) Code {
	var ae *Error
	if errors.As(err, &ae) {
		return ae.Code
	}
	return CodeRemote
}

// Is reports whether err carries the given code.
func Is(err error, code Code) bool {
	var ae *Error
	return errors.As(err, &ae) && ae.Code == code
}
