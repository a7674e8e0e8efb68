package task

import (
	"context"
	"log/slog"
	"sync"
)

// TaskQueue is an unbounded FIFO of pending tasks. It satisfies both
// TaskQueueReader and TaskQueueWriter and is safe for concurrent use.
type TaskQueue struct {
	mu     sync.Mutex
	tasks  []Task
	nextID uint64
	closed bool

	// signal holds at most one wakeup token for a blocked dequeuer
	signal chan struct{}
	// done is closed by Close
	done chan struct{}

	logger *slog.Logger
}

// NewTaskQueue creates an empty, open task queue
func NewTaskQueue(logger *slog.Logger) *TaskQueue {
	return &TaskQueue{
		tasks:  make([]Task, 0),
		signal: make(chan struct{}, 1),
		done:   make(chan struct{}),
		logger: logger,
	}
}

// Enqueue assigns the next id to task and appends it to the queue. The id
// is taken in the same critical section as the append, so dequeue order
// matches id order. It never blocks. A rejected task consumes no id.
func (q *TaskQueue) Enqueue(task Task) (uint64, error) {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return 0, ErrQueueClosed
	}
	task.ID = q.nextID
	q.nextID++
	q.tasks = append(q.tasks, task)
	queueLen := len(q.tasks)
	q.mu.Unlock()

	q.wake()

	q.logger.Debug("task enqueued",
		"task_id", task.ID,
		"operation", task.Operation,
		"queue_len", queueLen)
	return task.ID, nil
}

// Dequeue removes and returns the oldest task, blocking while the queue is
// empty. It returns false when the queue is closed, even if tasks remain,
// or when ctx is done.
func (q *TaskQueue) Dequeue(ctx context.Context) (Task, bool) {
	for {
		q.mu.Lock()
		if q.closed {
			q.mu.Unlock()
			return Task{}, false
		}
		if len(q.tasks) > 0 {
			task := q.tasks[0]
			q.tasks[0] = Task{}
			q.tasks = q.tasks[1:]
			more := len(q.tasks) > 0
			q.mu.Unlock()

			// pass the wakeup on to the next dequeuer
			if more {
				q.wake()
			}
			return task, true
		}
		q.mu.Unlock()

		select {
		case <-q.signal:
		case <-q.done:
		case <-ctx.Done():
			return Task{}, false
		}
	}
}

func (q *TaskQueue) wake() {
	select {
	case q.signal <- struct{}{}:
	default:
	}
}

// Close rejects further tasks, wakes every blocked dequeuer and returns the
// tasks that were still pending, in FIFO order. Only the first call returns
// tasks; later calls return nil.
func (q *TaskQueue) Close() []Task {
	q.mu.Lock()
	if q.closed {
		q.mu.Unlock()
		return nil
	}
	q.closed = true
	abandoned := q.tasks
	q.tasks = nil
	close(q.done)
	q.mu.Unlock()

	q.logger.Info("task queue closed", "abandoned_count", len(abandoned))
	return abandoned
}

// Issued reports whether id has been assigned by this queue.
func (q *TaskQueue) Issued(id uint64) bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return id < q.nextID
}

// NextID returns the id the next accepted task will receive.
func (q *TaskQueue) NextID() uint64 {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.nextID
}

// Len returns the number of pending tasks.
func (q *TaskQueue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return len(q.tasks)
}

// Closed reports whether Close has been called.
func (q *TaskQueue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}
