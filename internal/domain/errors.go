package domain

import (
	"errors"
	"fmt"
)

// ErrValidation is matched by every ValidationError via errors.Is
var ErrValidation = errors.New("validation failed")

// ValidationError reports the first invalid field of an input.
// Value carries the offending value (or the computed sum for coproperty checks).
type ValidationError struct {
	Field   string `json:"field"`
	Message string `json:"error"`
	Value   string `json:"value,omitempty"`
}

// NewValidationError creates a validation error for the given field
func NewValidationError(field, message string) *ValidationError {
	return &ValidationError{Field: field, Message: message}
}

// WithValue attaches the offending value to the error
func (e *ValidationError) WithValue(value string) *ValidationError {
	e.Value = value
	return e
}

func (e *ValidationError) Error() string {
	if e.Value != "" {
		return fmt.Sprintf("%s: %s (got %s)", e.Field, e.Message, e.Value)
	}
	return fmt.Sprintf("%s: %s", e.Field, e.Message)
}

// Is makes errors.Is(err, ErrValidation) hold for any *ValidationError
func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

// AsValidationError unwraps err into a *ValidationError when possible
func AsValidationError(err error) (*ValidationError, bool) {
	var vErr *ValidationError
	if errors.As(err, &vErr) {
		return vErr, true
	}
	return nil, false
}
