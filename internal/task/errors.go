package task

import "errors"

// Common errors returned by the task server and its components
var (
	ErrQueueClosed     = errors.New("task queue is closed")
	ErrStoreClosed     = errors.New("result store is closed")
	ErrDuplicateResult = errors.New("result already stored for task")
	ErrInvalidPosition = errors.New("invalid result position")

	// ErrUnknownID is returned when awaiting an id this server never issued.
	ErrUnknownID = errors.New("unknown task id")

	// ErrTaskAbandoned is returned when awaiting a task that was still
	// queued when the server stopped.
	ErrTaskAbandoned = errors.New("task abandoned at shutdown")

	ErrAlreadyStarted = errors.New("server already started")
	ErrServerStopped  = errors.New("server is stopped")
)
