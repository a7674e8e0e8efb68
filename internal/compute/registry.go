package compute

import (
	"fmt"
	"sort"
	"sync"
)

// Registry maps operation kinds to their functions. It is safe for
// concurrent use; lookups take a read lock only.
type Registry struct {
	mu    sync.RWMutex
	funcs map[Operation]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[Operation]Func)}
}

// DefaultRegistry returns a new registry holding Sine, SquareRoot and Square.
// Every call returns a fresh instance.
func DefaultRegistry() *Registry {
	return &Registry{funcs: builtins()}
}

// Register adds fn under op.
func (r *Registry) Register(op Operation, fn Func) error {
	if op == "" {
		return fmt.Errorf("%w: empty kind", ErrInvalidOperation)
	}
	if fn == nil {
		return fmt.Errorf("%w: %s", ErrNilFunction, op)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.funcs[op]; ok {
		return fmt.Errorf("%w: %s", ErrDuplicateOperation, op)
	}
	r.funcs[op] = fn
	return nil
}

// Has reports whether op is registered.
func (r *Registry) Has(op Operation) bool {
	r.mu.RLock()
	defer r.mu.RUnlock()
	_, ok := r.funcs[op]
	return ok
}

// Operations returns the registered kinds in lexical order.
func (r *Registry) Operations() []Operation {
	r.mu.RLock()
	defer r.mu.RUnlock()

	ops := make([]Operation, 0, len(r.funcs))
	for op := range r.funcs {
		ops = append(ops, op)
	}
	sort.Slice(ops, func(i, j int) bool { return ops[i] < ops[j] })
	return ops
}

// Compute evaluates op on arg. Unknown kinds return ErrInvalidOperation.
func (r *Registry) Compute(op Operation, arg float64) (float64, error) {
	r.mu.RLock()
	fn, ok := r.funcs[op]
	r.mu.RUnlock()

	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrInvalidOperation, op)
	}
	return fn(arg), nil
}
