package domain

import (
	"fmt"
)

// Common error types
type ErrNotFound struct {
	Entity string
	ID     string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("%s not found with ID: %s", e.Entity, e.ID)
}

// ErrOwnership is returned when a caller operates on a webhook it does not own
type ErrOwnership struct {
	WebhookID string
	UserID    string
}

func (e *ErrOwnership) Error() string {
	return fmt.Sprintf("webhook %s does not belong to user %s", e.WebhookID, e.UserID)
}

// ValidationError represents an error that occurs due to invalid input or parameters
type ValidationError struct {
	Field   string
	Message string
}

// Error implements the error interface
func (e ValidationError) Error() string {
	if e.Field != "" {
		return fmt.Sprintf("validation error: %s: %s", e.Field, e.Message)
	}
	return fmt.Sprintf("validation error: %s", e.Message)
}

// NewValidationError creates a new validation error with the given message
func NewValidationError(message string) error {
	return ValidationError{
		Message: message,
	}
}
