package apperr

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Sentinel errors used across all layers.
var (
	ErrNotFound     = errors.New("not found")
	ErrValidation   = errors.New("validation error")
	ErrUnauthorized = errors.New("unauthorized")
	ErrForbidden    = errors.New("forbidden")
	ErrConflict     = errors.New("conflict")
)

// RuleScript marks a field whose text is not in the form's language.
const RuleScript = "script"

// FieldError describes a validation error for a specific field.
type FieldError struct {
	Field   string `json:"field"`
	Rule    string `json:"rule"`
	Message string `json:"message"`
}

// ValidationError contains a list of field-level validation errors.
type ValidationError struct {
	Errors []FieldError `json:"errors"`
}

func (e *ValidationError) Error() string {
	if len(e.Errors) == 1 {
		return fmt.Sprintf("validation: %s: %s", e.Errors[0].Field, e.Errors[0].Message)
	}
	fields := make([]string, 0, len(e.Errors))
	for _, fe := range e.Errors {
		fields = append(fields, fe.Field)
	}
	return fmt.Sprintf("validation: %d errors (%s)", len(e.Errors), strings.Join(fields, ", "))
}

func (e *ValidationError) Unwrap() error { return ErrValidation }

// Field returns the first error reported for field.
func (e *ValidationError) Field(field string) (FieldError, bool) {
	for _, fe := range e.Errors {
		if fe.Field == field {
			return fe, true
		}
	}
	return FieldError{}, false
}

// LanguageMismatch reports whether any field failed the script rule.
func (e *ValidationError) LanguageMismatch() bool {
	for _, fe := range e.Errors {
		if fe.Rule == RuleScript {
			return true
		}
	}
	return false
}

// NewValidationError creates a ValidationError for a single field.
func NewValidationError(field, rule, message string) *ValidationError {
	return &ValidationError{
		Errors: []FieldError{{Field: field, Rule: rule, Message: message}},
	}
}

// ServiceError carries a client-facing message and status alongside the cause.
type ServiceError struct {
	Err        error
	Msg        string
	StatusCode int
}

func New(err error, statusCode int, msg string, args ...any) *ServiceError {
	return &ServiceError{
		Err:        err,
		Msg:        fmt.Sprintf(msg, args...),
		StatusCode: statusCode,
	}
}

func (e *ServiceError) Error() string {
	if e.Err == nil {
		return e.Msg
	}
	return fmt.Sprintf("%s: %v", e.Msg, e.Err)
}

func (e *ServiceError) Unwrap() error { return e.Err }

// Status maps err onto an HTTP status code.
func Status(err error) int {
	var se *ServiceError
	if errors.As(err, &se) && se.StatusCode != 0 {
		return se.StatusCode
	}

	switch {
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
	}
	return http.StatusInternalServerError
}

// Message returns the text safe to show to a client.
func Message(err error) string {
	var se *ServiceError
	if errors.As(err, &se) {
		return se.Msg
	}
	var ve *ValidationError
	if errors.As(err, &ve) {
		return ve.Error()
	}
	if s := Status(err); s != http.StatusInternalServerError {
		return err.Error()
	}
	return "internal server error"
}
