// Package apperr holds the error taxonomy shared by services and handlers.
// Services wrap one of the sentinels with fmt.Errorf("...: %w", ...); handlers
// map the sentinel back to an HTTP status with Status.
package apperr

import (
	"errors"
	"net/http"
)

var (
	ErrValidation   = errors.New("validation failed")
	ErrUnauthorized = errors.New("not authorized")
	ErrForbidden    = errors.New("access denied")
	ErrNotFound     = errors.New("not found")
	ErrConflict     = errors.New("conflict")
	ErrUnavailable  = errors.New("service unavailable")
)

// FieldErrors carries per-field validation messages keyed by JSON field name.
type FieldErrors map[string]string

// ValidationError is an ErrValidation with field details.
type ValidationError struct {
	Message string
	Fields  FieldErrors
}

func (e *ValidationError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return ErrValidation.Error()
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

func Invalid(message string, fields FieldErrors) error {
	return &ValidationError{Message: message, Fields: fields}
}

// Status maps an error chain to an HTTP status code.
func Status(err error) int {
	switch {
	case err == nil:
		return http.StatusOK
	case errors.Is(err, ErrValidation):
		return http.StatusBadRequest
	case errors.Is(err, ErrUnauthorized):
		return http.StatusUnauthorized
	case errors.Is(err, ErrForbidden):
		return http.StatusForbidden
	case errors.Is(err, ErrNotFound):
		return http.StatusNotFound
	case errors.Is(err, ErrConflict):
		return http.StatusConflict
	case errors.Is(err, ErrUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

// PublicMessage is the message safe to show a client. Authorization failures
// never reveal which check failed.
func PublicMessage(err error) string {
	var verr *ValidationError
	switch {
	case errors.As(err, &verr):
		return verr.Error()
	case errors.Is(err, ErrUnauthorized):
		return "not authorized"
	case errors.Is(err, ErrForbidden):
		return "access denied"
	case errors.Is(err, ErrNotFound):
		return "not found"
	case errors.Is(err, ErrConflict), errors.Is(err, ErrValidation), errors.Is(err, ErrUnavailable):
		return err.Error()
	default:
		return "internal error"
	}
}

func Fields(err error) FieldErrors {
	var verr *ValidationError
	if errors.As(err, &verr) {
		return verr.Fields
	}
	return nil
}
