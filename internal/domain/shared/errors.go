package shared

import (
	"errors"
	"fmt"
	"strings"
)

// DomainError represents a domain-level error
type DomainError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// Error implements the error interface
func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrNotFound            = NewDomainError("NOT_FOUND", "Resource not found")
	ErrAlreadyExists       = NewDomainError("ALREADY_EXISTS", "Resource already exists")
	ErrInvalidInput        = NewDomainError("INVALID_INPUT", "Invalid input provided")
	ErrConcurrencyConflict = NewDomainError("CONCURRENCY_CONFLICT", "Resource was modified by another process")
	ErrUnauthorized        = NewDomainError("UNAUTHORIZED", "Not authorized to perform this action")
	ErrForbidden           = NewDomainError("FORBIDDEN", "Access to this resource is forbidden")
	ErrInvalidState        = NewDomainError("INVALID_STATE", "Operation not allowed in current state")
)

// IsNotFound reports whether err carries the NOT_FOUND error code
func IsNotFound(err error) bool {
	var derr *DomainError
	return errors.As(err, &derr) && derr.Code == ErrNotFound.Code
}

// IsConcurrencyConflict reports whether err carries the CONCURRENCY_CONFLICT code
func IsConcurrencyConflict(err error) bool {
	var derr *DomainError
	return errors.As(err, &derr) && derr.Code == ErrConcurrencyConflict.Code
}

// FieldViolation describes a single out-of-range or malformed input field.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// ValidationError aggregates every violated field of an input set.
// Callers get the complete list in one round trip instead of fixing
// fields one at a time.
type ValidationError struct {
	Violations []FieldViolation `json:"violations"`
}

// Error implements the error interface
func (e *ValidationError) Error() string {
	if len(e.Violations) == 0 {
		return "validation failed"
	}
	parts := make([]string, len(e.Violations))
	for i, v := range e.Violations {
		parts[i] = fmt.Sprintf("%s: %s", v.Field, v.Message)
	}
	return "validation failed: " + strings.Join(parts, "; ")
}

// Code returns the error code shared with the DomainError taxonomy
func (e *ValidationError) Code() string {
	return "VALIDATION_FAILED"
}

// Add appends a field violation and returns the receiver for chaining
func (e *ValidationError) Add(field, message string) *ValidationError {
	e.Violations = append(e.Violations, FieldViolation{Field: field, Message: message})
	return e
}

// HasViolations reports whether any field failed validation
func (e *ValidationError) HasViolations() bool {
	return len(e.Violations) > 0
}

// NewValidationError creates an empty validation error to collect violations into
func NewValidationError() *ValidationError {
	return &ValidationError{Violations: make([]FieldViolation, 0)}
}
