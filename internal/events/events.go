package events

import (
	"context"
	"log/slog"
	"time"

	"github.com/google/uuid"
)

// TaskCompletedEvent describes one finished computation.
type TaskCompletedEvent struct {
	// ID is a unique identifier for this event
	ID uuid.UUID `json:"id"`

	// ServerID identifies the server instance that processed the task
	ServerID uuid.UUID `json:"server_id"`

	TaskID    uint64  `json:"task_id"`
	Operation string  `json:"operation"`
	Argument  float64 `json:"argument"`
	Value     float64 `json:"value"`

	// Error holds the computation failure message, empty on success
	Error string `json:"error,omitempty"`

	WorkerID    int           `json:"worker_id"`
	Duration    time.Duration `json:"duration"`
	CompletedAt time.Time     `json:"completed_at"`
}

// Failed reports whether the computation produced an error.
func (e *TaskCompletedEvent) Failed() bool {
	return e.Error != ""
}

// NewTaskCompletedEvent creates an event with a fresh ID.
func NewTaskCompletedEvent(serverID uuid.UUID, taskID uint64, operation string, argument, value float64, err error) *TaskCompletedEvent {
	event := &TaskCompletedEvent{
		ID:          uuid.New(),
		ServerID:    serverID,
		TaskID:      taskID,
		Operation:   operation,
		Argument:    argument,
		Value:       value,
		CompletedAt: time.Now(),
	}
	if err != nil {
		event.Error = err.Error()
	}
	return event
}

// EventHandler defines an interface for components that can handle events.
type EventHandler interface {
	// HandleEvent processes the given event within the provided context.
	HandleEvent(ctx context.Context, event *TaskCompletedEvent) error
}

// EventEmitter defines an interface for components that can emit events.
type EventEmitter interface {
	// EmitEvent publishes the given event to all registered handlers.
	EmitEvent(ctx context.Context, event *TaskCompletedEvent) error
}

// HandlerFunc adapts a function to the EventHandler interface.
type HandlerFunc func(ctx context.Context, event *TaskCompletedEvent) error

// HandleEvent calls f.
func (f HandlerFunc) HandleEvent(ctx context.Context, event *TaskCompletedEvent) error {
	return f(ctx, event)
}

// LoggingHandler writes every event to a logger. Failed computations are
// logged at warn level.
type LoggingHandler struct {
	logger *slog.Logger
}

// NewLoggingHandler creates a handler logging through logger.
func NewLoggingHandler(logger *slog.Logger) *LoggingHandler {
	return &LoggingHandler{logger: logger.With("component", "task_event_logger")}
}

// HandleEvent implements EventHandler.
func (h *LoggingHandler) HandleEvent(ctx context.Context, event *TaskCompletedEvent) error {
	attrs := []any{
		"event_id", event.ID,
		"task_id", event.TaskID,
		"operation", event.Operation,
		"argument", event.Argument,
		"worker_id", event.WorkerID,
		"duration", event.Duration,
	}
	if event.Failed() {
		h.logger.WarnContext(ctx, "task failed", append(attrs, "error", event.Error)...)
		return nil
	}
	h.logger.DebugContext(ctx, "task completed", append(attrs, "value", event.Value)...)
	return nil
}
