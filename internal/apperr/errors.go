// Package apperr defines the error taxonomy shared across services and
// handlers: validation, not-found, uniqueness conflicts, named resource
// resolution failures and retryable transport failures.
package apperr

import (
	"errors"
	"fmt"
)

// Category identifies which generic user-facing message a surfaced error
// maps to. Every error resolves to exactly one category.
type Category string

const (
	CategoryTimeout Category = "timeout"
	CategoryNetwork Category = "network"
	CategoryServer  Category = "server"
	CategoryGeneric Category = "generic"
)

// TransportKind distinguishes the retryable transport failure classes.
type TransportKind string

const (
	TransportTimeout TransportKind = "timeout"
	TransportNetwork TransportKind = "network"
	TransportServer  TransportKind = "server"
)

// ValidationError reports bad input with field-level detail. Never retried.
type ValidationError struct {
	Field  string
	Detail string
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return e.Detail
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Detail)
}

// Validation builds a field-level validation error.
func Validation(field, detail string) *ValidationError {
	return &ValidationError{Field: field, Detail: detail}
}

// NotFoundError marks a unique-key lookup miss.
type NotFoundError struct {
	Entity string
}

func (e *NotFoundError) Error() string {
	return fmt.Sprintf("%s not found", e.Entity)
}

// NotFound builds a not-found error for the named entity.
func NotFound(entity string) *NotFoundError {
	return &NotFoundError{Entity: entity}
}

// ConflictError marks a unique-constraint violation (bill number, roll
// number, email, enrollment pair). Surfaced as a conflict, never retried.
type ConflictError struct {
	Constraint string
}

func (e *ConflictError) Error() string {
	return fmt.Sprintf("%s already exists", e.Constraint)
}

// Conflict builds a conflict error for the named constraint.
func Conflict(constraint string) *ConflictError {
	return &ConflictError{Constraint: constraint}
}

// ResourceError identifies which named external resource (template image,
// photo, QR generation) failed to resolve.
type ResourceError struct {
	Resource string
	Err      error
}

func (e *ResourceError) Error() string {
	return fmt.Sprintf("failed to load %s: %v", e.Resource, e.Err)
}

func (e *ResourceError) Unwrap() error { return e.Err }

// Resource wraps err with the name of the resource that failed.
func Resource(name string, err error) *ResourceError {
	return &ResourceError{Resource: name, Err: err}
}

// TransportError is the only retryable category: timeouts, network failures
// and 5xx server responses.
type TransportError struct {
	Kind       TransportKind
	HTTPStatus int
	Err        error
}

func (e *TransportError) Error() string {
	if e.HTTPStatus > 0 {
		return fmt.Sprintf("%s failure (status %d): %v", e.Kind, e.HTTPStatus, e.Err)
	}
	return fmt.Sprintf("%s failure: %v", e.Kind, e.Err)
}

func (e *TransportError) Unwrap() error { return e.Err }

// Timeout satisfies the timeout interface used by retry classification.
func (e *TransportError) Timeout() bool { return e.Kind == TransportTimeout }

// StatusCode exposes the HTTP status for retry classification.
func (e *TransportError) StatusCode() int { return e.HTTPStatus }

// Transport wraps err as a transport failure of the given kind.
func Transport(kind TransportKind, status int, err error) *TransportError {
	return &TransportError{Kind: kind, HTTPStatus: status, Err: err}
}

// Categorize resolves any error to exactly one user-message category.
func Categorize(err error) Category {
	var transport *TransportError
	if errors.As(err, &transport) {
		switch transport.Kind {
		case TransportTimeout:
			return CategoryTimeout
		case TransportNetwork:
			return CategoryNetwork
		case TransportServer:
			return CategoryServer
		}
	}
	return CategoryGeneric
}

// IsRetryable reports whether err belongs to the retryable transport class.
func IsRetryable(err error) bool {
	var transport *TransportError
	return errors.As(err, &transport)
}
