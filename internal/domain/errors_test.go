package domain

import (
	"testing"
)

func TestErrNotFound_Error(t *testing.T) {
	err := &ErrNotFound{
		Entity: "webhook",
		ID:     "wh_12345",
	}

	expected := "webhook not found with ID: wh_12345"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestErrOwnership_Error(t *testing.T) {
	err := &ErrOwnership{
		WebhookID: "wh_123",
		UserID:    "user_456",
	}

	expected := "webhook wh_123 does not belong to user user_456"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}
}

func TestValidationError_Error(t *testing.T) {
	// With a field
	err := &ValidationError{
		Field:   "url",
		Message: "url is required",
	}

	expected := "validation error: url: url is required"
	if err.Error() != expected {
		t.Errorf("Expected error message '%s', got '%s'", expected, err.Error())
	}

	// Without a field
	err2 := NewValidationError("payload is not valid JSON")
	expected2 := "validation error: payload is not valid JSON"
	if err2.Error() != expected2 {
		t.Errorf("Expected error message '%s', got '%s'", expected2, err2.Error())
	}
}

func TestErrorTypeAssertion(t *testing.T) {
	var err error

	err = &ErrNotFound{Entity: "delivery log", ID: "log_123"}
	if _, ok := err.(*ErrNotFound); !ok {
		t.Error("Type assertion for ErrNotFound failed")
	}

	err = &ErrOwnership{WebhookID: "wh_1", UserID: "user_1"}
	if _, ok := err.(*ErrOwnership); !ok {
		t.Error("Type assertion for ErrOwnership failed")
	}

	// Negative test - wrong type
	if _, ok := err.(*ErrNotFound); ok {
		t.Error("Type assertion incorrectly succeeded for wrong error type")
	}
}
