package compute

import "errors"

var (
	// ErrInvalidOperation is returned when an operation kind has no registered
	// function. Workers store it in the task result rather than a zero value.
	ErrInvalidOperation = errors.New("invalid operation")

	// ErrDuplicateOperation is returned when registering a kind twice.
	ErrDuplicateOperation = errors.New("operation already registered")

	// ErrNilFunction is returned when registering a nil function.
	ErrNilFunction = errors.New("operation function is nil")
)
