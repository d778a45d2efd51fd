package models

import (
	"errors"
	"fmt"
)

// ErrInvalidKind indicates an unknown vehicle kind
var ErrInvalidKind = errors.New("invalid vehicle kind")

// ValidationError represents an invalid or missing field in a destination record
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// NewValidationError creates a new validation error
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Message: message,
	}
}

func ErrMissingField(field string) error {
	return NewValidationError(field, "field is required")
}

func ErrInvalidValue(field string, value interface{}) error {
	return NewValidationError(field, fmt.Sprintf("invalid value: %v", value))
}
