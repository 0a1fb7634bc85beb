package models

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a complaint or profile does not exist
var ErrNotFound = errors.New("not found")

// ValidationError indicates a missing or malformed request field
type ValidationError struct {
	Field  string
	Reason string
}

func (e *ValidationError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("invalid field %s: %s", e.Field, e.Reason)
	}
	return fmt.Sprintf("missing required field: %s", e.Field)
}

// MissingField builds a ValidationError for an absent required field
func MissingField(field string) error {
	return &ValidationError{Field: field}
}

// InvalidTransitionError indicates an illegal status change
type InvalidTransitionError struct {
	From Status
	To   Status
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("invalid status transition from %s to %s", e.From, e.To)
}
