// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package apperr defines the single error type surfaced by the admin client.

Every failure that reaches a caller (network, HTTP status, client-side
validation) is an [*AppError] carrying a closed [Kind] and a human-readable
message. Callers branch on the kind, display the message.

Architecture:

  - Kind: small closed enumeration (transport, unauthorized, not-found,
    validation, server, unknown).
  - Message: the backend's own message when it sent one, otherwise a fixed
    generic fallback.
  - Mapping: [FromStatus] derives the kind from an HTTP status code.
*/
package apperr

import (
	"errors"
	"net/http"
)

// # Error Kinds

// Kind classifies an [AppError] so callers never have to match on message text.
type Kind string

const (
	// KindTransport means the request never produced an HTTP response.
	KindTransport Kind = "TRANSPORT"
	// KindUnauthorized covers 401 and 403 responses and role gating failures.
	KindUnauthorized Kind = "UNAUTHORIZED"
	// KindNotFound covers 404 responses.
	KindNotFound Kind = "NOT_FOUND"
	// KindValidation covers 400/409/422 responses and client-side input checks.
	KindValidation Kind = "VALIDATION_ERROR"
	// KindServer covers 5xx responses.
	KindServer Kind = "SERVER_ERROR"
	// KindUnknown is everything else, including undecodable success bodies.
	KindUnknown Kind = "UNKNOWN"
)

// AppError is the canonical error type of the admin client.
//
// Error returns Message verbatim, so a backend reply of {"message":"not found"}
// surfaces as exactly "not found".
type AppError struct {
	// Kind is the machine-readable classification.
	Kind Kind `json:"kind"`
	// Message is the human-readable description.
	Message string `json:"message"`
	// HTTPStatus is the response status, or 0 when no response was received.
	HTTPStatus int `json:"status,omitempty"`
	// Cause is the underlying error, kept for logging.
	Cause error `json:"-"`
	// Details holds per-field validation errors.
	Details []FieldError `json:"details,omitempty"`
}

// FieldError represents a single field-level validation failure.
type FieldError struct {
	// Field is the input field name that failed validation.
	Field string `json:"field"`
	// Message is the human-readable description of the failure.
	Message string `json:"message"`
}

// Error implements the error interface.
func (e *AppError) Error() string { return e.Message }

// Unwrap allows [errors.Is] and [errors.As] to traverse the cause chain.
func (e *AppError) Unwrap() error { return e.Cause }

// # Constructors

// New creates an [AppError] of the given kind.
func New(kind Kind, message string) *AppError {
	return &AppError{Kind: kind, Message: message}
}

// Transport wraps a network-level failure.
func Transport(message string, cause error) *AppError {
	return &AppError{Kind: KindTransport, Message: message, Cause: cause}
}

// Unauthorized creates an [AppError] of kind [KindUnauthorized].
func Unauthorized(msg string) *AppError {
	return &AppError{Kind: KindUnauthorized, Message: msg}
}

// ValidationError creates an [AppError] with optional per-field details.
func ValidationError(msg string, details ...FieldError) *AppError {
	return &AppError{Kind: KindValidation, Message: msg, Details: details}
}

// Unknown wraps an unexpected failure such as an undecodable response body.
func Unknown(message string, cause error) *AppError {
	return &AppError{Kind: KindUnknown, Message: message, Cause: cause}
}

// FromStatus builds the error for a non-success HTTP response.
func FromStatus(status int, message string) *AppError {
	return &AppError{Kind: KindForStatus(status), Message: message, HTTPStatus: status}
}

// KindForStatus maps an HTTP status code onto the closed [Kind] set.
func KindForStatus(status int) Kind {
	switch {
	case status == http.StatusUnauthorized, status == http.StatusForbidden:
		return KindUnauthorized
	case status == http.StatusNotFound:
		return KindNotFound
	case status == http.StatusBadRequest,
		status == http.StatusConflict,
		status == http.StatusUnprocessableEntity:
		return KindValidation
	case status >= 500 && status <= 599:
		return KindServer
	default:
		return KindUnknown
	}
}

// # Helpers

// IsAppError reports whether err (or any error in its chain) is an [*AppError].
func IsAppError(err error) bool {
	var ae *AppError
	return errors.As(err, &ae)
}

// As extracts the [*AppError] from err's chain. It returns nil if not found.
func As(err error) *AppError {
	var ae *AppError
	if errors.As(err, &ae) {
		return ae
	}
	return nil
}

// KindOf returns the kind of err, or [KindUnknown] when err is not an [*AppError].
func KindOf(err error) Kind {
	if ae := As(err); ae != nil {
		return ae.Kind
	}
	return KindUnknown
}

// Is reports whether err is an [*AppError] of the given kind.
func Is(err error, kind Kind) bool {
	ae := As(err)
	return ae != nil && ae.Kind == kind
}
