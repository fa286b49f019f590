package errors

import (
	"fmt"
)

// ErrorType is the category of an application error. It decides how the
// error is shown and whether it is logged.
type ErrorType int

const (
	ErrorTypeValidation ErrorType = iota
	ErrorTypeNotFound
	ErrorTypeStorage
	ErrorTypeInvalidInput
	ErrorTypeTimeout
	ErrorTypePermission
	ErrorTypeAuthentication
	ErrorTypeInvalidState
	ErrorTypeNetwork
)

var typeNames = map[ErrorType]string{
	ErrorTypeValidation:     "validation",
	ErrorTypeNotFound:       "not_found",
	ErrorTypeStorage:        "storage",
	ErrorTypeInvalidInput:   "invalid_input",
	ErrorTypeTimeout:        "timeout",
	ErrorTypePermission:     "permission",
	ErrorTypeAuthentication: "authentication",
	ErrorTypeInvalidState:   "invalid_state",
	ErrorTypeNetwork:        "network",
}

func (et ErrorType) String() string {
	if name, ok := typeNames[et]; ok {
		return name
	}
	return "unknown"
}

// userError reports whether errors of this type are caused by what the
// user did, as opposed to the environment.
func (et ErrorType) userError() bool {
	switch et {
	case ErrorTypeValidation, ErrorTypeNotFound, ErrorTypeInvalidInput,
		ErrorTypeAuthentication, ErrorTypeInvalidState:
		return true
	}
	return false
}

// AppError is a categorized error with a stable code and optional context
type AppError struct {
	Type    ErrorType
	Message string
	Code    string
	Cause   error
	Context map[string]interface{}
}

func (e *AppError) Error() string {
	if e.Cause == nil {
		return fmt.Sprintf("%s: %s", e.Type, e.Message)
	}
	return fmt.Sprintf("%s: %s (caused by: %v)", e.Type, e.Message, e.Cause)
}

func (e *AppError) Unwrap() error {
	return e.Cause
}

// Is matches another AppError with the same type and code
func (e *AppError) Is(target error) bool {
	other, ok := target.(*AppError)
	return ok && e.Type == other.Type && e.Code == other.Code
}

func (e *AppError) IsType(errorType ErrorType) bool {
	return e.Type == errorType
}

// WithContext sets key and returns e for chaining
func (e *AppError) WithContext(key string, value interface{}) *AppError {
	if e.Context == nil {
		e.Context = make(map[string]interface{})
	}
	e.Context[key] = value
	return e
}

func (e *AppError) GetContext(key string) (interface{}, bool) {
	value, ok := e.Context[key]
	return value, ok
}
