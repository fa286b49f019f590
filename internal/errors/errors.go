package errors

import (
	"errors"
	"fmt"
)

func newAppError(errorType ErrorType, code, message string, cause error) *AppError {
	return &AppError{
		Type:    errorType,
		Message: message,
		Code:    code,
		Cause:   cause,
		Context: make(map[string]interface{}),
	}
}

// NewValidationError reports a rejected form or value. The message is shown
// to the user as-is.
func NewValidationError(message string, cause error) *AppError {
	return newAppError(ErrorTypeValidation, "VALIDATION_FAILED", message, cause)
}

func NewNotFoundError(resource string, identifier string) *AppError {
	return newAppError(ErrorTypeNotFound, "NOT_FOUND", fmt.Sprintf("%s not found: %s", resource, identifier), nil).
		WithContext("resource", resource).
		WithContext("identifier", identifier)
}

// NewStorageError wraps a failure of the local store
func NewStorageError(operation string, cause error) *AppError {
	return newAppError(ErrorTypeStorage, "STORAGE_ERROR", "storage operation failed: "+operation, cause).
		WithContext("operation", operation)
}

func NewInvalidInputError(field string, value interface{}, reason string) *AppError {
	return newAppError(ErrorTypeInvalidInput, "INVALID_INPUT", fmt.Sprintf("invalid input for %s: %s", field, reason), nil).
		WithContext("field", field).
		WithContext("value", value).
		WithContext("reason", reason)
}

func NewTimeoutError(operation string, timeout interface{}) *AppError {
	return newAppError(ErrorTypeTimeout, "TIMEOUT", "operation timed out: "+operation, nil).
		WithContext("operation", operation).
		WithContext("timeout", timeout)
}

// NewPermissionError reports a session that may not perform operation
func NewPermissionError(operation string, resource string) *AppError {
	return newAppError(ErrorTypePermission, "PERMISSION_DENIED", fmt.Sprintf("permission denied for %s on %s", operation, resource), nil).
		WithContext("operation", operation).
		WithContext("resource", resource)
}

// NewAuthenticationError reports a credential mismatch or a missing session.
// The message is shown to the user as-is.
func NewAuthenticationError(message string) *AppError {
	return newAppError(ErrorTypeAuthentication, "AUTHENTICATION_FAILED", message, nil)
}

// NewInvalidStateError reports an operation the trip lifecycle does not
// allow right now
func NewInvalidStateError(operation string, state string) *AppError {
	return newAppError(ErrorTypeInvalidState, "INVALID_STATE", fmt.Sprintf("cannot %s while %s", operation, state), nil).
		WithContext("operation", operation).
		WithContext("state", state)
}

// NewNetworkError wraps a failed call to a remote service
func NewNetworkError(operation string, cause error) *AppError {
	return newAppError(ErrorTypeNetwork, "NETWORK_ERROR", "network request failed: "+operation, cause).
		WithContext("operation", operation)
}

// WrapError categorizes err. The code is the type name.
func WrapError(err error, errorType ErrorType, message string) *AppError {
	return newAppError(errorType, errorType.String(), message, err)
}

func IsAppError(err error) bool {
	_, ok := AsAppError(err)
	return ok
}

// AsAppError finds the first AppError in err's chain
func AsAppError(err error) (*AppError, bool) {
	var appErr *AppError
	if errors.As(err, &appErr) {
		return appErr, true
	}
	return nil, false
}

func IsErrorType(err error, errorType ErrorType) bool {
	appErr, ok := AsAppError(err)
	return ok && appErr.IsType(errorType)
}

// GetUserMessage returns what the terminal shows for err. User errors carry
// their own wording; environment failures get a fixed hint.
func GetUserMessage(err error) string {
	appErr, ok := AsAppError(err)
	if !ok {
		return err.Error()
	}
	if appErr.Type.userError() || appErr.Type == ErrorTypePermission {
		return appErr.Message
	}

	switch appErr.Type {
	case ErrorTypeStorage:
		return "A storage error occurred. Please try again."
	case ErrorTypeTimeout:
		return "The operation timed out. Please try again."
	case ErrorTypeNetwork:
		return "Search failed. Please check your internet connection and try again."
	}
	return "An unexpected error occurred. Please try again."
}

func GetErrorCode(err error) string {
	if appErr, ok := AsAppError(err); ok {
		return appErr.Code
	}
	return "UNKNOWN_ERROR"
}

// ShouldLogError is false for errors the user caused and can fix
func ShouldLogError(err error) bool {
	if appErr, ok := AsAppError(err); ok {
		return !appErr.Type.userError()
	}
	return true
}
