package main

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/task"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testConfig() *config.Config {
	return &config.Config{
		Server: config.ServerConfig{WorkerCount: 1, LogLevel: "info"},
		Client: config.ClientConfig{
			TaskCount:  10,
			Operations: []string{"sine", "sqrt", "square"},
			ArgMin:     1,
			ArgMax:     100,
			Seed:       3,
		},
		Tracing: config.TracingConfig{ServiceName: "taskserver"},
	}
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestApplication_Run(t *testing.T) {
	app, err := newApplication(testConfig(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.cleanup(context.Background()) })

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	summaries, err := app.Run(ctx)
	require.NoError(t, err)
	require.Len(t, summaries, 3)

	assert.Equal(t, compute.Sine, summaries[0].Operation)
	assert.Equal(t, compute.SquareRoot, summaries[1].Operation)
	assert.Equal(t, compute.Square, summaries[2].Operation)
	for _, s := range summaries {
		assert.Equal(t, 10, s.Count)
		assert.Equal(t, 0, s.Failed)
	}

	// sqrt of [1, 100) lies in [1, 10)
	assert.GreaterOrEqual(t, summaries[1].Mean(), 1.0)
	assert.Less(t, summaries[1].Mean(), 10.0)

	stats := app.server.Stats()
	assert.Equal(t, 30, stats.Submitted)
	assert.Equal(t, 30, stats.Completed)
	assert.Equal(t, 1, app.emitter.HandlerCount())

	require.NoError(t, app.cleanup(context.Background()))
	assert.Equal(t, task.StateStopped, app.server.State())
}

func TestApplication_RunWithTracing(t *testing.T) {
	cfg := testConfig()
	cfg.Client.TaskCount = 2
	cfg.Tracing = config.TracingConfig{
		Enabled:        true,
		ServiceName:    "taskserver",
		ServiceVersion: "test",
		OutputFile:     filepath.Join(t.TempDir(), "spans.json"),
	}

	app, err := newApplication(cfg, testLogger())
	require.NoError(t, err)

	_, err = app.Run(context.Background())
	require.NoError(t, err)
	require.NoError(t, app.cleanup(context.Background()))

	data, err := os.ReadFile(cfg.Tracing.OutputFile)
	require.NoError(t, err)
	assert.Contains(t, string(data), "task.process")
}

func TestApplication_RunCancelled(t *testing.T) {
	app, err := newApplication(testConfig(), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.cleanup(context.Background()) })

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err = app.Run(ctx)
	assert.Error(t, err)
}

func TestApplication_InvalidOperation(t *testing.T) {
	cfg := testConfig()
	cfg.Client.Operations = []string{"cube"}

	app, err := newApplication(cfg, testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { _ = app.cleanup(context.Background()) })

	_, err = app.Run(context.Background())
	assert.ErrorIs(t, err, compute.ErrInvalidOperation)
}

func TestApplication_CleanupTwice(t *testing.T) {
	app, err := newApplication(testConfig(), testLogger())
	require.NoError(t, err)

	assert.NoError(t, app.cleanup(context.Background()))
	assert.NoError(t, app.cleanup(context.Background()))
}

func TestOperationSummary_Mean(t *testing.T) {
	assert.Equal(t, 0.0, operationSummary{Count: 2, Failed: 2}.Mean())
	assert.Equal(t, 2.5, operationSummary{Count: 3, Failed: 1, Sum: 5}.Mean())
}
