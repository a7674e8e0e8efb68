package task

import (
	"context"
	"log/slog"
	"sync/atomic"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskserver/internal/events"
	"github.com/phrazzld/taskserver/internal/platform/tracing"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// WorkerState is the lifecycle state of a worker.
type WorkerState int32

const (
	WorkerIdle WorkerState = iota
	WorkerProcessing
	// WorkerShuttingDown is terminal.
	WorkerShuttingDown
)

func (s WorkerState) String() string {
	switch s {
	case WorkerIdle:
		return "idle"
	case WorkerProcessing:
		return "processing"
	case WorkerShuttingDown:
		return "shutting_down"
	default:
		return "unknown"
	}
}

// Worker drains a task queue into a result writer on a single goroutine.
type Worker struct {
	id       int
	serverID uuid.UUID

	queue    TaskQueueReader
	results  ResultWriter
	computer Computer

	// emitter and stats are optional
	emitter events.EventEmitter
	stats   *StatsTracker

	tracer trace.Tracer
	logger *slog.Logger

	state atomic.Int32
}

// WorkerDeps holds the collaborators of a worker.
type WorkerDeps struct {
	ServerID uuid.UUID
	Queue    TaskQueueReader
	Results  ResultWriter
	Computer Computer
	Emitter  events.EventEmitter
	Stats    *StatsTracker
	Tracer   trace.Tracer
	Logger   *slog.Logger
}

// NewWorker creates an idle worker. A nil Tracer is replaced by a no-op one.
func NewWorker(id int, deps WorkerDeps) *Worker {
	tracer := deps.Tracer
	if tracer == nil {
		tracer = tracing.Noop().Tracer()
	}
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Worker{
		id:       id,
		serverID: deps.ServerID,
		queue:    deps.Queue,
		results:  deps.Results,
		computer: deps.Computer,
		emitter:  deps.Emitter,
		stats:    deps.Stats,
		tracer:   tracer,
		logger:   logger.With("component", "task_worker", "worker_id", id),
	}
}

// ID returns the worker's index within its server.
func (w *Worker) ID() int {
	return w.id
}

// State returns the current lifecycle state.
func (w *Worker) State() WorkerState {
	return WorkerState(w.state.Load())
}

func (w *Worker) setState(s WorkerState) {
	w.state.Store(int32(s))
}

// Run processes tasks until the queue reports shutdown or ctx is done. A
// dequeued task is always completed and stored before Run returns.
func (w *Worker) Run(ctx context.Context) {
	w.logger.Debug("starting worker")

	for {
		task, ok := w.queue.Dequeue(ctx)
		if !ok {
			w.setState(WorkerShuttingDown)
			w.logger.Debug("stopping worker")
			return
		}

		w.setState(WorkerProcessing)
		w.process(ctx, task)
		w.setState(WorkerIdle)
	}
}

// process handles execution of a single task
func (w *Worker) process(ctx context.Context, task Task) {
	logger := w.logger.With(
		"task_id", task.ID,
		"operation", task.Operation,
	)

	ctx, span := tracing.StartSpan(ctx, w.tracer, "task.process",
		attribute.Int64("task.id", int64(task.ID)),
		attribute.String("task.operation", task.Operation.String()),
		attribute.Float64("task.argument", task.Argument),
		attribute.Int("worker.id", w.id),
	)

	w.stats.Update(Delta{Pending: -1, Processing: 1})

	started := time.Now()
	value, err := w.computer.Compute(task.Operation, task.Argument)
	completed := time.Now()

	result := Result{
		TaskID:      task.ID,
		Operation:   task.Operation,
		Argument:    task.Argument,
		Value:       value,
		Err:         err,
		WorkerID:    w.id,
		CompletedAt: completed,
		Duration:    completed.Sub(started),
	}

	if err != nil {
		logger.Error("task computation failed", "argument", task.Argument, "error", err)
		w.stats.Update(Delta{Processing: -1, Failed: 1})
	} else {
		span.SetAttributes(attribute.Float64("task.value", value))
		logger.Debug("task computed", "argument", task.Argument, "value", value)
		w.stats.Update(Delta{Processing: -1, Completed: 1})
	}

	if appendErr := w.results.Append(result); appendErr != nil {
		logger.Error("failed to store task result", "error", appendErr)
		tracing.EndSpan(span, appendErr)
		return
	}
	tracing.EndSpan(span, err)

	if w.emitter == nil {
		return
	}
	event := events.NewTaskCompletedEvent(w.serverID, task.ID, task.Operation.String(), task.Argument, value, err)
	event.WorkerID = w.id
	event.Duration = result.Duration
	event.CompletedAt = completed
	if emitErr := w.emitter.EmitEvent(ctx, event); emitErr != nil {
		logger.Warn("task event handlers failed", "error", emitErr)
	}
}
