// Package domain defines the error taxonomy shared across the service.
//
// Estimation itself never produces errors: every upstream failure degrades
// to per-field unavailability. The types here cover the few places where an
// error is the honest answer (bad input, missing resource, a dead-end deep
// link) so handlers can map them to HTTP statuses uniformly.
package domain

import (
	"errors"
	"fmt"
)

// ErrorCode identifies a domain error class for API responses.
type ErrorCode string

const (
	CodeValidation      ErrorCode = "VALIDATION_ERROR"
	CodeNotFound        ErrorCode = "NOT_FOUND"
	CodeUnavailable     ErrorCode = "UNAVAILABLE"
	CodeLinkUnavailable ErrorCode = "LINK_UNAVAILABLE"
)

// Error is a typed domain error carrying a stable code.
type Error struct {
	Code    ErrorCode
	Message string
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

// NewValidationError reports malformed caller input.
func NewValidationError(msg string) *Error {
	return &Error{Code: CodeValidation, Message: msg}
}

// NewNotFoundError reports a missing resource.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: CodeNotFound, Message: fmt.Sprintf("%s %q not found", resource, id)}
}

// NewUnavailableError reports a result that could not be determined.
func NewUnavailableError(msg string) *Error {
	return &Error{Code: CodeUnavailable, Message: msg}
}

// ErrLinkUnavailable signals that deep-link resolution exhausted both the
// native scheme and the web fallback. It is the only estimation-path failure
// meant to reach the user directly.
var ErrLinkUnavailable = &Error{
	Code:    CodeLinkUnavailable,
	Message: "no app or web link available for this provider",
}

// CodeOf extracts the domain error code, or "" for foreign errors.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ""
}
