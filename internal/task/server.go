package task

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/phrazzld/taskserver/internal/events"
	"github.com/phrazzld/taskserver/internal/platform/tracing"
	"go.opentelemetry.io/otel/trace"
)

// State is the lifecycle state of a server.
type State int32

const (
	StateCreated State = iota
	StateRunning
	StateStopped
)

func (s State) String() string {
	switch s {
	case StateCreated:
		return "created"
	case StateRunning:
		return "running"
	case StateStopped:
		return "stopped"
	default:
		return "unknown"
	}
}

// Server owns a task queue, a result store and the workers between them.
// All of its methods are safe for concurrent use.
type Server struct {
	id     uuid.UUID
	config Config

	queue *TaskQueue
	store *ResultStore
	stats *StatsTracker

	computer Computer
	emitter  events.EventEmitter
	tracer   trace.Tracer
	logger   *slog.Logger

	mu        sync.Mutex
	state     State
	workers   []*Worker
	wg        sync.WaitGroup
	stopWatch func() bool
	stopped   chan struct{}
}

// NewServer creates a server in the created state. Without options it runs
// one worker over compute.DefaultRegistry and logs through slog.Default.
func NewServer(opts ...Option) *Server {
	s := &Server{
		id:       uuid.New(),
		config:   DefaultConfig(),
		stats:    NewStatsTracker(),
		computer: compute.DefaultRegistry(),
		tracer:   tracing.Noop().Tracer(),
		logger:   slog.Default(),
		stopped:  make(chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}

	s.logger = s.logger.With("component", "task_server", "server_id", s.id)
	if err := s.config.Validate(); err != nil {
		s.logger.Warn("invalid server configuration, using defaults",
			"error", err,
			"specified_worker_count", s.config.WorkerCount,
			"default_worker_count", 1)
		s.config = DefaultConfig()
	}

	s.queue = NewTaskQueue(s.logger.With("component", "task_queue"))
	s.store = NewResultStore(s.logger.With("component", "result_store"))
	return s
}

// ID returns the server instance id.
func (s *Server) ID() uuid.UUID {
	return s.id
}

// WorkerCount returns the configured number of workers.
func (s *Server) WorkerCount() int {
	return s.config.WorkerCount
}

// State returns the lifecycle state.
func (s *Server) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// WorkerStates returns the state of every started worker.
func (s *Server) WorkerStates() []WorkerState {
	s.mu.Lock()
	defer s.mu.Unlock()
	states := make([]WorkerState, len(s.workers))
	for i, w := range s.workers {
		states[i] = w.State()
	}
	return states
}

// Start launches the workers. Cancelling ctx stops the server as if Stop
// had been called.
func (s *Server) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.state {
	case StateRunning:
		return ErrAlreadyStarted
	case StateStopped:
		return ErrServerStopped
	}

	// workers outlive ctx cancellation until Stop drains them
	workerCtx := context.WithoutCancel(ctx)
	for i := range s.config.WorkerCount {
		w := NewWorker(i, WorkerDeps{
			ServerID: s.id,
			Queue:    s.queue,
			Results:  s.store,
			Computer: s.computer,
			Emitter:  s.emitter,
			Stats:    s.stats,
			Tracer:   s.tracer,
			Logger:   s.logger,
		})
		s.workers = append(s.workers, w)
		s.wg.Add(1)
		go func() {
			defer s.wg.Done()
			w.Run(workerCtx)
		}()
	}

	s.state = StateRunning
	s.stats.MarkStarted(time.Now())
	s.stopWatch = context.AfterFunc(ctx, s.Stop)

	s.logger.Info("task server started",
		"worker_count", s.config.WorkerCount,
		"pending_count", s.queue.Len())
	return nil
}

// Stop closes the queue, waits for each worker to finish the task in hand,
// abandons the tasks still queued and closes the result store. It may be
// called any number of times, before or after Start. Concurrent callers
// return once shutdown has completed.
func (s *Server) Stop() {
	s.mu.Lock()
	if s.state == StateStopped {
		s.mu.Unlock()
		<-s.stopped
		return
	}
	s.state = StateStopped
	stopWatch := s.stopWatch
	s.mu.Unlock()

	if stopWatch != nil {
		stopWatch()
	}

	abandoned := s.queue.Close()
	s.wg.Wait()

	if len(abandoned) > 0 {
		ids := make([]uint64, len(abandoned))
		for i, t := range abandoned {
			ids[i] = t.ID
		}
		s.store.Abandon(ids...)
		s.stats.Update(Delta{Pending: -len(abandoned), Abandoned: len(abandoned)})
	}
	s.store.Close()
	close(s.stopped)

	stats := s.stats.Snapshot()
	s.logger.Info("task server stopped",
		"completed_count", stats.Completed,
		"failed_count", stats.Failed,
		"abandoned_count", stats.Abandoned)
}

// Submit queues a computation and returns its id without blocking. Tasks
// submitted before Start wait for the workers. After Stop it returns
// ErrServerStopped.
func (s *Server) Submit(op compute.Operation, arg float64) (uint64, error) {
	id, err := s.queue.Enqueue(Task{
		Operation:   op,
		Argument:    arg,
		SubmittedAt: time.Now(),
	})
	if err != nil {
		if errors.Is(err, ErrQueueClosed) {
			return 0, fmt.Errorf("submit %s: %w", op, ErrServerStopped)
		}
		return 0, fmt.Errorf("submit %s: %w", op, err)
	}
	s.stats.Update(Delta{Submitted: 1, Pending: 1})
	return id, nil
}

// AwaitResult blocks until task id has been processed and returns its
// Result, including a failed computation's error in Result.Err. An id never
// issued by this server fails immediately with ErrUnknownID.
func (s *Server) AwaitResult(ctx context.Context, id uint64) (Result, error) {
	if !s.queue.Issued(id) {
		return Result{}, fmt.Errorf("await task %d: %w", id, ErrUnknownID)
	}

	if s.config.AwaitTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, s.config.AwaitTimeout)
		defer cancel()
	}

	result, err := s.store.Await(ctx, id)
	if err != nil {
		return Result{}, fmt.Errorf("await task %d: %w", id, err)
	}
	return result, nil
}

// Await blocks until task id has been processed and returns its value. A
// failed computation surfaces as an error wrapping the computation error.
func (s *Server) Await(ctx context.Context, id uint64) (float64, error) {
	result, err := s.AwaitResult(ctx, id)
	if err != nil {
		return 0, err
	}
	if result.Err != nil {
		return 0, fmt.Errorf("task %d: %w", id, result.Err)
	}
	return result.Value, nil
}

// AwaitCompleted blocks until n results have been stored and returns the
// n-th one in completion order, counting from zero.
func (s *Server) AwaitCompleted(ctx context.Context, n int) (Result, error) {
	result, err := s.store.AwaitLength(ctx, n)
	if err != nil {
		return Result{}, fmt.Errorf("await completion %d: %w", n, err)
	}
	return result, nil
}

// Results returns a copy of every stored result in completion order.
func (s *Server) Results() []Result {
	return s.store.Snapshot()
}

// Stats returns a snapshot of the server counters.
func (s *Server) Stats() Stats {
	return s.stats.Snapshot()
}
