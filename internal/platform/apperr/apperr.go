// Copyright (c) 2026 FoDBot. All rights reserved.

/*
Package apperr defines the centralized error handling framework for FoDBot.

It provides a rich error type that bridges low-level storage and Discord
errors with the few user-visible outcomes the bot has.

Architecture:

  - AppError: A struct containing a machine-readable Code and an operator-safe message.
  - Classification: NOT_FOUND errors are resolution failures and are swallowed
    by the reaction path; FORBIDDEN maps to the fixed permission denial reply;
    everything else is reported as a generic failure.

Errors that leave a service boundary should be wrapped as an [AppError] so
callers can classify them with [As] or [IsCode].
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Codes

const (
	CodeNotFound  = "NOT_FOUND"
	CodeForbidden = "FORBIDDEN"
	CodeInvalid   = "VALIDATION_ERROR"
	CodeInternal  = "INTERNAL_ERROR"
)

// AppError is the canonical error type for FoDBot.
//
// # Security
//
// The Cause field is for server-side logging only and is never sent to
// Discord, to avoid leaking SQL or token details into a channel.
type AppError struct {
	// Code is a machine-readable error identifier (e.g. "NOT_FOUND").
	Code string `json:"code"`
	// Message is a human-readable description safe to show an operator.
	Message string `json:"error"`
	// HTTPStatus is used when the error surfaces on the ops HTTP server.
	HTTPStatus int `json:"-"`
	// Cause is the underlying error, used for server-side logging only.
	Cause error `json:"-"`
	// Details holds per-field validation errors for VALIDATION_ERROR.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the document path that failed validation (e.g. "reactions[1].emoji").
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface. It returns the safe message.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Resolution Errors

// NotFound creates a NOT_FOUND [AppError] for a named resource.
//
// Example:
//
//	apperr.NotFound("Role") // Returns "Role not found"
func NotFound(resource string) *AppError {
	return &AppError{
		Code:       CodeNotFound,
		Message:    resource + " not found",
		HTTPStatus: http.StatusNotFound,
	}
}

// NotFoundCause is [NotFound] with the underlying platform error attached.
func NotFoundCause(resource string, cause error) *AppError {
	err := NotFound(resource)
	err.Cause = cause
	return err
}

// Forbidden creates a FORBIDDEN [AppError].
func Forbidden(msg string) *AppError {
	return &AppError{
		Code:       CodeForbidden,
		Message:    msg,
		HTTPStatus: http.StatusForbidden,
	}
}

// ValidationError creates a VALIDATION_ERROR [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{
		Code:       CodeInvalid,
		Message:    msg,
		HTTPStatus: http.StatusBadRequest,
		Details:    details,
	}
}

// # Server Errors

// Internal creates an INTERNAL_ERROR [AppError] wrapping an unexpected error.
// The cause is stored for logging but is never shown to users.
func Internal(cause error) *AppError {
	return &AppError{
		Code:       CodeInternal,
		Message:    "An unexpected error occurred",
		HTTPStatus: http.StatusInternalServerError,
		Cause:      cause,
	}
}

// # Helpers

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// IsCode reports whether err carries an [*AppError] with the given code.
func IsCode(err error, code string) bool {
	ae := As(err)
	return ae != nil && ae.Code == code
}

// IsNotFound is shorthand for IsCode(err, CodeNotFound).
func IsNotFound(err error) bool {
	return IsCode(err, CodeNotFound)
}
