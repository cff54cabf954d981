package domain

import (
	"errors"
	"fmt"
)

// ErrorCode classifies a domain error for transport mapping.
type ErrorCode string

const (
	ErrCodeValidation   ErrorCode = "VALIDATION_ERROR"
	ErrCodeNotFound     ErrorCode = "NOT_FOUND"
	ErrCodeConflict     ErrorCode = "CONFLICT"
	ErrCodeForbidden    ErrorCode = "FORBIDDEN"
	ErrCodeUnauthorized ErrorCode = "UNAUTHORIZED"
	ErrCodeInvalidState ErrorCode = "INVALID_STATE"

	// ErrCodeResolution marks a failed external resolution (geocoding).
	ErrCodeResolution ErrorCode = "RESOLUTION_ERROR"
	// ErrCodeFormat marks unparseable serialized input.
	ErrCodeFormat ErrorCode = "FORMAT_ERROR"
	// ErrCodeLookup marks an internal registry invariant violation.
	ErrCodeLookup ErrorCode = "LOOKUP_ERROR"

	ErrCodeInternal ErrorCode = "INTERNAL_ERROR"
)

// Error is a typed domain error carrying a classification code.
type Error struct {
	Code    ErrorCode
	Message string
}

// Error implements the error interface.
func (e *Error) Error() string {
	return e.Message
}

// NewValidationError creates a validation error with the given message.
func NewValidationError(message string) *Error {
	return &Error{Code: ErrCodeValidation, Message: message}
}

// NewNotFoundError creates a not-found error for a resource and identifier.
func NewNotFoundError(resource, id string) *Error {
	return &Error{Code: ErrCodeNotFound, Message: fmt.Sprintf("%s %s not found", resource, id)}
}

// NewConflictError creates a conflict error with the given message.
func NewConflictError(message string) *Error {
	return &Error{Code: ErrCodeConflict, Message: message}
}

// NewForbiddenError creates a forbidden error with the given message.
func NewForbiddenError(message string) *Error {
	return &Error{Code: ErrCodeForbidden, Message: message}
}

// NewUnauthorizedError creates an unauthorized error with the given message.
func NewUnauthorizedError(message string) *Error {
	return &Error{Code: ErrCodeUnauthorized, Message: message}
}

// NewInvalidStateError creates an error for a disallowed state transition.
func NewInvalidStateError(from, to string) *Error {
	return &Error{Code: ErrCodeInvalidState, Message: fmt.Sprintf("cannot transition from %s to %s", from, to)}
}

// NewResolutionError creates an error for a failed external resolution.
func NewResolutionError(message string) *Error {
	return &Error{Code: ErrCodeResolution, Message: message}
}

// NewFormatError creates an error for unparseable serialized input.
func NewFormatError(message string) *Error {
	return &Error{Code: ErrCodeFormat, Message: message}
}

// NewLookupError creates an error for an internal registry invariant violation.
func NewLookupError(message string) *Error {
	return &Error{Code: ErrCodeLookup, Message: message}
}

// NewInternalError creates an internal error with the given message.
func NewInternalError(message string) *Error {
	return &Error{Code: ErrCodeInternal, Message: message}
}

// CodeOf extracts the error code from err, or ErrCodeInternal if it is not a domain error.
func CodeOf(err error) ErrorCode {
	var de *Error
	if errors.As(err, &de) {
		return de.Code
	}
	return ErrCodeInternal
}

// IsCode reports whether err is a domain error with the given code.
func IsCode(err error, code ErrorCode) bool {
	return CodeOf(err) == code
}
