package util

import (
	"context"
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// DomainError standardizes application errors across the service.
type DomainError struct {
	Code       string
	Message    string
	HTTPStatus int
	Details    map[string]any
	Err        error
}

func (e *DomainError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

func (e *DomainError) Unwrap() error {
	return e.Err
}

// Error codes for the helpdesk taxonomy.
const (
	CodeValidation   = "VALIDATION_FAILED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnauthorized = "UNAUTHORIZED"
	CodeForbidden    = "FORBIDDEN"
	CodeNoOp         = "NO_OP"
	CodeLockedOut    = "LOCKED_OUT"
	CodeConflict     = "CONFLICT"
	CodeTransient    = "TRANSIENT"
	CodeInternal     = "INTERNAL_ERROR"
)

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidation, message, http.StatusBadRequest, details)
}

func NewNotFound(resource string, details map[string]any) error {
	if details == nil {
		details = map[string]any{}
	}
	return &DomainError{
		Code:       CodeNotFound,
		Message:    fmt.Sprintf("%s not found", resource),
		HTTPStatus: http.StatusNotFound,
		Details:    details,
	}
}

func NewUnauthorized(message string) error {
	return NewDomainError(CodeUnauthorized, message, http.StatusUnauthorized, nil)
}

// NewForbidden never carries details: a denial must not explain which
// rule tripped beyond "not permitted".
func NewForbidden() error {
	return NewDomainError(CodeForbidden, "not permitted", http.StatusForbidden, nil)
}

// NewNoOp signals the requested state equals the current state. It is
// informational, not a system failure, but is still reported rather
// than silently ignored.
func NewNoOp(message string) error {
	return NewDomainError(CodeNoOp, message, http.StatusConflict, nil)
}

// NewConflict signals a concurrent mutation lost the race. Safe to
// retry once with fresh state.
func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewTransient wraps a storage or network timeout. Retryable with
// backoff.
func NewTransient(err error) error {
	return &DomainError{
		Code:       CodeTransient,
		Message:    "temporarily unavailable",
		HTTPStatus: http.StatusServiceUnavailable,
		Err:        err,
	}
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternal,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// IsCode reports whether err is a DomainError with the given code.
func IsCode(err error, code string) bool {
	var de *DomainError
	return errors.As(err, &de) && de.Code == code
}

func IsNotFound(err error) bool  { return IsCode(err, CodeNotFound) }
func IsForbidden(err error) bool { return IsCode(err, CodeForbidden) }
func IsNoOp(err error) bool      { return IsCode(err, CodeNoOp) }
func IsConflict(err error) bool  { return IsCode(err, CodeConflict) }
func IsTransient(err error) bool { return IsCode(err, CodeTransient) }

// ToDomainError converts generic errors to DomainError. Row absence
// maps to NOT_FOUND; context expiry maps to TRANSIENT per the retry
// contract.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		de, _ := NewNotFound("resource", nil).(*DomainError)
		return de
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		de, _ := NewTransient(err).(*DomainError)
		return de
	}
	de, _ := NewInternalError(err).(*DomainError)
	return de
}

// MapError converts generic errors to the error type handlers render.
func MapError(err error) error {
	if err == nil {
		return nil
	}
	return ToDomainError(err)
}
