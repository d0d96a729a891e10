package scheduler

import "errors"

// ErrInvalidInput is matched by every ValidationError through errors.Is.
var ErrInvalidInput = errors.New("invalid input")

// ValidationError describes the first violation found by Validate.
type ValidationError struct {
	// EventID is empty for hall-count violations and for events without id.
	EventID string
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

func (e *ValidationError) Unwrap() error { return ErrInvalidInput }
