package domain

import (
	"errors"
	"fmt"
)

// ErrInvalidRequest is the kind of every request schema violation.
var ErrInvalidRequest = errors.New("invalid request")

// ValidationError reports which request field failed validation and why.
type ValidationError struct {
	Field   string
	Message string
}

// NewValidationError creates a ValidationError for the given field.
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

func (e *ValidationError) Error() string {
	if e.Field == "" {
		return fmt.Sprintf("%s: %s", ErrInvalidRequest, e.Message)
	}

	return fmt.Sprintf("%s: %s: %s", ErrInvalidRequest, e.Field, e.Message)
}

// Unwrap lets errors.Is match ErrInvalidRequest.
func (e *ValidationError) Unwrap() error {
	return ErrInvalidRequest
}
