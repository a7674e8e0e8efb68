package task

import (
	"context"
	"io"
	"log/slog"
	"math"
	"testing"
	"time"

	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/stretchr/testify/require"
)

const tolerance = 1e-9

func setupTestLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	}))
}

func testContext(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

// newStartedServer returns a running server that is stopped at test cleanup.
func newStartedServer(t *testing.T, opts ...Option) *Server {
	t.Helper()
	opts = append([]Option{WithLogger(setupTestLogger())}, opts...)
	s := NewServer(opts...)
	require.NoError(t, s.Start(context.Background()))
	t.Cleanup(s.Stop)
	return s
}

// blockingRegistry returns the default operations plus "block", which waits
// for release to be closed and then returns its argument.
func blockingRegistry(t *testing.T, release <-chan struct{}) *compute.Registry {
	t.Helper()
	r := compute.DefaultRegistry()
	require.NoError(t, r.Register("block", func(x float64) float64 {
		<-release
		return x
	}))
	return r
}

func expectedValue(op compute.Operation, arg float64) float64 {
	switch op {
	case compute.Sine:
		return math.Sin(arg)
	case compute.SquareRoot:
		return math.Sqrt(arg)
	case compute.Square:
		return arg * arg
	}
	return math.NaN()
}
