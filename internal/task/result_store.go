package task

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
)

// ResultStore is an append-only collection of completed results kept in
// completion order and indexed by task id. Readers block until the entry
// they want exists.
type ResultStore struct {
	mu        sync.Mutex
	results   []Result
	index     map[uint64]int
	abandoned map[uint64]struct{}
	closed    bool

	// changed is closed and replaced on every state change
	changed chan struct{}

	logger *slog.Logger
}

// NewResultStore creates an empty result store
func NewResultStore(logger *slog.Logger) *ResultStore {
	return &ResultStore{
		results:   make([]Result, 0),
		index:     make(map[uint64]int),
		abandoned: make(map[uint64]struct{}),
		changed:   make(chan struct{}),
		logger:    logger,
	}
}

// broadcastLocked wakes every waiter. The caller holds s.mu.
func (s *ResultStore) broadcastLocked() {
	close(s.changed)
	s.changed = make(chan struct{})
}

// Append stores result and wakes all waiters.
func (s *ResultStore) Append(result Result) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return ErrStoreClosed
	}
	if _, ok := s.index[result.TaskID]; ok {
		return fmt.Errorf("%w: task %d", ErrDuplicateResult, result.TaskID)
	}

	s.index[result.TaskID] = len(s.results)
	s.results = append(s.results, result)
	s.broadcastLocked()
	return nil
}

// AwaitLength blocks until at least k+1 results exist and returns the one
// at position k. It fails with ErrStoreClosed when the store is closed
// before position k is filled.
func (s *ResultStore) AwaitLength(ctx context.Context, k int) (Result, error) {
	if k < 0 {
		return Result{}, fmt.Errorf("%w: %d", ErrInvalidPosition, k)
	}
	for {
		s.mu.Lock()
		if k < len(s.results) {
			result := s.results[k]
			s.mu.Unlock()
			return result, nil
		}
		if s.closed {
			s.mu.Unlock()
			return Result{}, ErrStoreClosed
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Await blocks until the result for id is stored. It returns
// ErrTaskAbandoned for an abandoned id and ErrStoreClosed when the store is
// closed without ever receiving id.
func (s *ResultStore) Await(ctx context.Context, id uint64) (Result, error) {
	for {
		s.mu.Lock()
		if pos, ok := s.index[id]; ok {
			result := s.results[pos]
			s.mu.Unlock()
			return result, nil
		}
		if _, ok := s.abandoned[id]; ok {
			s.mu.Unlock()
			return Result{}, ErrTaskAbandoned
		}
		if s.closed {
			s.mu.Unlock()
			return Result{}, ErrStoreClosed
		}
		changed := s.changed
		s.mu.Unlock()

		select {
		case <-changed:
		case <-ctx.Done():
			return Result{}, ctx.Err()
		}
	}
}

// Lookup returns the result for id without blocking.
func (s *ResultStore) Lookup(id uint64) (Result, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	pos, ok := s.index[id]
	if !ok {
		return Result{}, false
	}
	return s.results[pos], true
}

// Abandon marks ids as never going to complete and wakes their waiters.
func (s *ResultStore) Abandon(ids ...uint64) {
	if len(ids) == 0 {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range ids {
		s.abandoned[id] = struct{}{}
	}
	s.broadcastLocked()
	s.logger.Debug("tasks abandoned", "count", len(ids))
}

// Close rejects further appends and releases waiters whose entry can no
// longer arrive. Stored results stay readable.
func (s *ResultStore) Close() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}
	s.closed = true
	s.broadcastLocked()
}

// Len returns the number of stored results.
func (s *ResultStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.results)
}

// Snapshot returns a copy of the stored results in completion order.
func (s *ResultStore) Snapshot() []Result {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Result, len(s.results))
	copy(out, s.results)
	return out
}
