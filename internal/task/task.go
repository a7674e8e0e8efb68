package task

import (
	"context"
	"time"

	"github.com/phrazzld/taskserver/internal/compute"
)

// Task is a single compute request. The queue assigns ID on enqueue; the
// value is not modified afterwards.
type Task struct {
	ID          uint64
	Operation   compute.Operation
	Argument    float64
	SubmittedAt time.Time
}

// Result is the outcome of one processed task. Err is non-nil when the
// computation failed, for example with compute.ErrInvalidOperation.
type Result struct {
	TaskID      uint64
	Operation   compute.Operation
	Argument    float64
	Value       float64
	Err         error
	WorkerID    int
	CompletedAt time.Time
	Duration    time.Duration
}

// Failed reports whether the computation produced an error.
func (r Result) Failed() bool {
	return r.Err != nil
}

// TaskQueueReader gives workers blocking access to queued tasks.
type TaskQueueReader interface {
	// Dequeue blocks until a task is available. It returns false once the
	// queue is closed or ctx is done.
	Dequeue(ctx context.Context) (Task, bool)
}

// TaskQueueWriter accepts tasks and assigns their ids.
type TaskQueueWriter interface {
	// Enqueue appends the task and returns its assigned id.
	// Returns ErrQueueClosed once the queue has been closed.
	Enqueue(task Task) (uint64, error)
}

// ResultWriter receives completed results.
type ResultWriter interface {
	Append(result Result) error
}

// Computer evaluates an operation. *compute.Registry implements it.
type Computer interface {
	Compute(op compute.Operation, arg float64) (float64, error)
}
