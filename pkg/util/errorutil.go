package util

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jackc/pgx/v5"
)

// Error codes surfaced to API clients.
const (
	CodeValidationViolation    = "VALIDATION_VIOLATION"
	CodeIllegalTransition      = "ILLEGAL_TRANSITION"
	CodeNotFound               = "NOT_FOUND"
	CodeConflictRetryExhausted = "CONFLICT_RETRY_EXHAUSTED"
	CodeUnauthorized           = "UNAUTHORIZED"
	CodeForbidden              = "FORBIDDEN"
	CodeValidationFailed       = "VALIDATION_FAILED"
	CodeConflict               = "CONFLICT"
	CodeAlreadyAssigned        = "ALREADY_ASSIGNED"
	CodeInternalError          = "INTERNAL_ERROR"
)

// DomainError standardizes application errors.
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

// NewDomainError constructs a DomainError.
func NewDomainError(code, message string, status int, details map[string]any) *DomainError {
	return &DomainError{Code: code, Message: message, HTTPStatus: status, Details: details}
}

// NewValidationViolation reports a failed transition guard. The missing
// items list is machine-readable so the calling UI can render actionable
// messages.
func NewValidationViolation(message string, missing []string) error {
	return NewDomainError(CodeValidationViolation, message, http.StatusUnprocessableEntity, map[string]any{
		"missing": missing,
	})
}

// NewIllegalTransition reports an operation invalid from the current state.
func NewIllegalTransition(message string) error {
	return NewDomainError(CodeIllegalTransition, message, http.StatusConflict, nil)
}

// NewConflictRetryExhausted reports a concurrent-write conflict that
// persisted after retry. Safe for the caller to retry the whole request.
func NewConflictRetryExhausted(resource string) error {
	return NewDomainError(CodeConflictRetryExhausted,
		fmt.Sprintf("concurrent update on %s, please retry", resource),
		http.StatusConflict, nil)
}

func NewValidationError(message string, details map[string]any) error {
	return NewDomainError(CodeValidationFailed, message, http.StatusBadRequest, details)
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

func NewForbidden(message string) error {
	return NewDomainError(CodeForbidden, message, http.StatusForbidden, nil)
}

func NewConflict(message string, details map[string]any) error {
	return NewDomainError(CodeConflict, message, http.StatusConflict, details)
}

// NewAlreadyAssigned reports an assignment to the current assignee.
func NewAlreadyAssigned(technicianID string) error {
	return NewDomainError(CodeAlreadyAssigned, "technician is already assigned to this work order",
		http.StatusConflict, map[string]any{"technician_id": technicianID})
}

func NewInternalError(err error) error {
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

// ToDomainError converts generic errors to DomainError.
func ToDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	var domainErr *DomainError
	if errors.As(err, &domainErr) {
		return domainErr
	}
	if errors.Is(err, pgx.ErrNoRows) {
		if de, ok := NewNotFound("resource", nil).(*DomainError); ok {
			return de
		}
	}
	return &DomainError{
		Code:       CodeInternalError,
		Message:    "internal server error",
		HTTPStatus: http.StatusInternalServerError,
		Err:        err,
	}
}

func MapError(err error) error {
	return ToDomainError(err)
}

// IsCode reports whether err is a DomainError carrying the given code.
func IsCode(err error, code string) bool {
	var domainErr *DomainError
	return errors.As(err, &domainErr) && domainErr.Code == code
}
