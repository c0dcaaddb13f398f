// Package apperror defines the error kinds shared by the webhook flow.
// Transport status codes are assigned by the HTTP layer, never here.
package apperror

import (
	"errors"
	"fmt"
)

var (
	ErrMissingHeaders    = errors.New("missing headers")
	ErrSignatureInvalid  = errors.New("signature invalid")
	ErrPayloadValidation = errors.New("payload validation")
	ErrPersistence       = errors.New("persistence")
	ErrConfiguration     = errors.New("configuration")

	// storage port outcomes
	ErrNotFound  = errors.New("not found")
	ErrDuplicate = errors.New("duplicate")
)

// MissingHeadersMessage is returned verbatim to webhook callers.
const MissingHeadersMessage = "Missing verification headers for webhook verification"

type AppError struct {
	Err     error  // kind, one of the sentinels above
	Message string // human-readable message
	Field   string // optional: field causing the error
	Cause   error  // optional underlying error
}

func (e *AppError) Error() string {
	if e.Cause != nil {
		return e.Message + ": " + e.Cause.Error()
	}
	return e.Message
}

// Unwrap exposes both the kind and the cause to errors.Is / errors.As.
func (e *AppError) Unwrap() []error {
	if e.Cause != nil {
		return []error{e.Err, e.Cause}
	}
	return []error{e.Err}
}

func MissingHeaders() *AppError {
	return &AppError{Err: ErrMissingHeaders, Message: MissingHeadersMessage}
}

func SignatureInvalid(message string, cause error) *AppError {
	return &AppError{Err: ErrSignatureInvalid, Message: message, Cause: cause}
}

func ValidationFailed(field, message string) *AppError {
	return &AppError{Err: ErrPayloadValidation, Message: message, Field: field}
}

func Persistence(op string, cause error) *AppError {
	return &AppError{Err: ErrPersistence, Message: fmt.Sprintf("persistence: %s failed", op), Cause: cause}
}

func Configuration(message string) *AppError {
	return &AppError{Err: ErrConfiguration, Message: message}
}

// NotFound is returned by storage adapters when a lookup has no row.
func NotFound(resource, key string) *AppError {
	return &AppError{Err: ErrNotFound, Message: fmt.Sprintf("%s not found with key %s", resource, key)}
}

// Duplicate is returned by storage adapters on a uniqueness violation.
func Duplicate(resource, key string, cause error) *AppError {
	return &AppError{Err: ErrDuplicate, Message: fmt.Sprintf("%s already exists with key %s", resource, key), Cause: cause}
}
