package validation

import (
	"errors"
	"fmt"
	"strings"
)

// ValidationErrorType says what was wrong with a field
type ValidationErrorType string

const (
	ErrorTypeRequired     ValidationErrorType = "required"
	ErrorTypeInvalidValue ValidationErrorType = "invalid_value"
	ErrorTypeInvalidRange ValidationErrorType = "invalid_range"
)

// FieldError is one problem with one field
type FieldError struct {
	Field   string
	Type    ValidationErrorType
	Message string
	Value   interface{}
}

func (fe *FieldError) Error() string {
	return fmt.Sprintf("validation error for field '%s': %s", fe.Field, fe.Message)
}

// ValidationError collects every problem found in one form or request.
type ValidationError struct {
	Errors []FieldError
	// Summary, when set, replaces the per-field listing in user-facing output.
	Summary string
}

func NewValidationError() *ValidationError {
	return &ValidationError{Errors: make([]FieldError, 0)}
}

func (ve *ValidationError) Error() string {
	switch len(ve.Errors) {
	case 0:
		return "validation error"
	case 1:
		return ve.Errors[0].Error()
	}
	parts := make([]string, len(ve.Errors))
	for i := range ve.Errors {
		parts[i] = ve.Errors[i].Error()
	}
	return "multiple validation errors: " + strings.Join(parts, "; ")
}

// IsValidationError checks if an error is, or wraps, a ValidationError
func IsValidationError(err error) bool {
	var ve *ValidationError
	return errors.As(err, &ve)
}

func (ve *ValidationError) HasErrors() bool {
	return len(ve.Errors) > 0
}

func (ve *ValidationError) AddError(field string, errorType ValidationErrorType, message string, value interface{}) {
	ve.Errors = append(ve.Errors, FieldError{Field: field, Type: errorType, Message: message, Value: value})
}

func (ve *ValidationError) AddRequiredError(field string) {
	ve.AddError(field, ErrorTypeRequired, field+" is required", nil)
}

// AddInvalidValueError records a value outside the allowed set
func (ve *ValidationError) AddInvalidValueError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidValue, fmt.Sprintf("%s has invalid value: %s", field, reason), value)
}

// AddInvalidRangeError records a number outside its bounds
func (ve *ValidationError) AddInvalidRangeError(field string, value interface{}, reason string) {
	ve.AddError(field, ErrorTypeInvalidRange, fmt.Sprintf("%s has invalid range: %s", field, reason), value)
}

// Fields returns the names of the offending fields in the order they were reported.
func (ve *ValidationError) Fields() []string {
	seen := make(map[string]bool)
	var fields []string
	for _, fe := range ve.Errors {
		if !seen[fe.Field] {
			seen[fe.Field] = true
			fields = append(fields, fe.Field)
		}
	}
	return fields
}

// GetUserFriendlyMessage is what the terminal shows for the error
func (ve *ValidationError) GetUserFriendlyMessage() string {
	if ve.Summary != "" {
		return ve.Summary
	}
	switch len(ve.Errors) {
	case 0:
		return "Input validation failed"
	case 1:
		return ve.Errors[0].Message
	}

	var b strings.Builder
	b.WriteString("Multiple validation errors occurred:")
	for _, fe := range ve.Errors {
		b.WriteString("\n- ")
		b.WriteString(fe.Message)
	}
	return b.String()
}
