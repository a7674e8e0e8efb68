package task

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/events"
	"go.opentelemetry.io/otel/trace"
)

// MaxWorkers bounds the worker count accepted by a server.
const MaxWorkers = 1024

// Config holds the tunables of a server.
type Config struct {
	// WorkerCount is the number of worker goroutines. With more than one
	// worker results may complete out of id order.
	WorkerCount int

	// AwaitTimeout bounds every Await call when positive.
	AwaitTimeout time.Duration
}

// DefaultConfig returns the single-worker configuration without await timeout.
func DefaultConfig() Config {
	return Config{WorkerCount: 1}
}

// Validate checks c for values a server cannot run with.
func (c Config) Validate() error {
	if c.WorkerCount < 1 || c.WorkerCount > MaxWorkers {
		return fmt.Errorf("worker count must be between 1 and %d, got %d", MaxWorkers, c.WorkerCount)
	}
	if c.AwaitTimeout < 0 {
		return fmt.Errorf("await timeout must not be negative, got %s", c.AwaitTimeout)
	}
	return nil
}

// Option customises a Server.
type Option func(*Server)

// WithConfig applies the server section of the application configuration.
func WithConfig(cfg config.ServerConfig) Option {
	return func(s *Server) {
		s.config.WorkerCount = cfg.WorkerCount
		s.config.AwaitTimeout = cfg.AwaitTimeout
	}
}

// WithWorkers sets the number of workers.
func WithWorkers(n int) Option {
	return func(s *Server) {
		s.config.WorkerCount = n
	}
}

// WithAwaitTimeout bounds every Await call. Zero disables the bound.
func WithAwaitTimeout(d time.Duration) Option {
	return func(s *Server) {
		s.config.AwaitTimeout = d
	}
}

// WithRegistry sets the operations the server can compute.
func WithRegistry(r *compute.Registry) Option {
	return func(s *Server) {
		if r != nil {
			s.computer = r
		}
	}
}

// WithEventEmitter sets the emitter receiving a TaskCompletedEvent per result.
func WithEventEmitter(e events.EventEmitter) Option {
	return func(s *Server) {
		s.emitter = e
	}
}

// WithTracer sets the tracer used for task spans.
func WithTracer(t trace.Tracer) Option {
	return func(s *Server) {
		if t != nil {
			s.tracer = t
		}
	}
}

// WithLogger sets the server logger.
func WithLogger(l *slog.Logger) Option {
	return func(s *Server) {
		if l != nil {
			s.logger = l
		}
	}
}

// WithStatsListener registers a callback invoked after every counter change.
func WithStatsListener(fn func(Stats)) Option {
	return func(s *Server) {
		s.stats.OnChange(fn)
	}
}
