package entity

import (
	"errors"
	"fmt"
)

// Sentinel errors for domain layer operations.
var (
	// ErrNotFound indicates that a requested entity was not found
	ErrNotFound = errors.New("entity not found")

	// ErrValidationFailed matches every *ValidationError via errors.Is
	ErrValidationFailed = errors.New("validation failed")

	// ErrForbidden indicates that the caller does not own the entity it tries to change
	ErrForbidden = errors.New("forbidden")
)

// ValidationError represents a validation error with detailed field information.
// It implements the error interface and provides context about which field failed validation.
type ValidationError struct {
	Field   string
	Message string
}

// Error returns a formatted error message for the validation error.
func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error on field '%s': %s", e.Field, e.Message)
}

// Is lets callers test for validation failures without knowing the field.
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidationFailed
}
