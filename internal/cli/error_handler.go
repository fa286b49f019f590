package cli

import (
	"fmt"

	"travel-tracker/internal/errors"
	"travel-tracker/internal/logging"
	"travel-tracker/internal/validation"
)

// ErrorHandler provides centralized error handling for command handlers
type ErrorHandler struct{}

// NewErrorHandler creates a new error handler
func NewErrorHandler() *ErrorHandler {
	return &ErrorHandler{}
}

// Handle provides user-friendly error messages for validation and other errors
func (eh *ErrorHandler) Handle(operation string, err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("failed to %s: %s", operation, validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		eh.log(operation, err)
		return fmt.Errorf("failed to %s: %s", operation, errors.GetUserMessage(err))
	}

	return fmt.Errorf("failed to %s: %w", operation, err)
}

// HandleSimple returns the user-facing message without operation context.
// Credential and form errors are shown this way, exactly as worded.
func (eh *ErrorHandler) HandleSimple(err error) error {
	if validationErr, ok := err.(*validation.ValidationError); ok {
		return fmt.Errorf("%s", validationErr.GetUserFriendlyMessage())
	}

	if _, ok := errors.AsAppError(err); ok {
		eh.log("", err)
		return fmt.Errorf("%s", errors.GetUserMessage(err))
	}

	return err
}

// log records the underlying cause of errors whose user message hides it
func (eh *ErrorHandler) log(operation string, err error) {
	if errors.ShouldLogError(err) {
		logging.Debugf("%s [%s]: %v\n", operation, errors.GetErrorCode(err), err)
	}
}

// IsValidationError checks if an error is a validation error
func (eh *ErrorHandler) IsValidationError(err error) bool {
	if validation.IsValidationError(err) {
		return true
	}
	return errors.IsErrorType(err, errors.ErrorTypeValidation)
}

// IsNotFoundError checks if an error is a not found error
func (eh *ErrorHandler) IsNotFoundError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeNotFound)
}

// IsStorageError checks if an error came from local storage
func (eh *ErrorHandler) IsStorageError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeStorage)
}

// IsSessionError reports whether the error means the session may not act
func (eh *ErrorHandler) IsSessionError(err error) bool {
	return errors.IsErrorType(err, errors.ErrorTypeAuthentication) ||
		errors.IsErrorType(err, errors.ErrorTypePermission)
}

// GetErrorCode returns the error code for structured errors
func (eh *ErrorHandler) GetErrorCode(err error) string {
	return errors.GetErrorCode(err)
}
