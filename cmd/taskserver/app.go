package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/phrazzld/taskserver/internal/client"
	"github.com/phrazzld/taskserver/internal/compute"
	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/events"
	"github.com/phrazzld/taskserver/internal/platform/tracing"
	"github.com/phrazzld/taskserver/internal/task"
)

// application holds the shared dependencies and ensures they are released
// on shutdown.
type application struct {
	config *config.Config
	logger *slog.Logger

	tracing *tracing.Provider
	emitter *events.InMemoryEventEmitter
	server  *task.Server
}

// operationSummary aggregates the results of one producer.
type operationSummary struct {
	Operation compute.Operation
	Count     int
	Failed    int
	Sum       float64
}

// Mean returns the average value of the successful results.
func (s operationSummary) Mean() float64 {
	ok := s.Count - s.Failed
	if ok == 0 {
		return 0
	}
	return s.Sum / float64(ok)
}

// newApplication creates the tracer, the event emitter and the task server.
func newApplication(cfg *config.Config, logger *slog.Logger) (*application, error) {
	provider, err := tracing.Setup(cfg.Tracing)
	if err != nil {
		return nil, fmt.Errorf("failed to set up tracing: %w", err)
	}

	emitter := events.NewInMemoryEventEmitter(logger)
	emitter.RegisterHandler(events.NewLoggingHandler(logger))

	server := task.NewServer(
		task.WithConfig(cfg.Server),
		task.WithRegistry(compute.DefaultRegistry()),
		task.WithEventEmitter(emitter),
		task.WithTracer(provider.Tracer()),
		task.WithLogger(logger),
	)

	logger.Info("application initialized", "server_id", server.ID())
	return &application{
		config:  cfg,
		logger:  logger,
		tracing: provider,
		emitter: emitter,
		server:  server,
	}, nil
}

// jobs returns one producer job per configured operation.
func (app *application) jobs() ([]client.Job, error) {
	jobs := make([]client.Job, 0, len(app.config.Client.Operations))
	for _, name := range app.config.Client.Operations {
		op, err := compute.ParseOperation(name)
		if err != nil {
			return nil, err
		}
		jobs = append(jobs, client.Job{Operation: op, Count: app.config.Client.TaskCount})
	}
	return jobs, nil
}

// Run starts the server, runs the producers concurrently and awaits every
// submitted task. It returns one summary per producer.
func (app *application) Run(ctx context.Context) ([]operationSummary, error) {
	jobs, err := app.jobs()
	if err != nil {
		return nil, err
	}

	if err := app.server.Start(ctx); err != nil {
		return nil, fmt.Errorf("failed to start task server: %w", err)
	}

	ids, err := client.RunConcurrently(ctx, app.server, client.ConfigFrom(app.config.Client), jobs, app.logger)
	if err != nil {
		return nil, fmt.Errorf("producers failed: %w", err)
	}

	summaries := make([]operationSummary, len(jobs))
	var errs []error
	for i, job := range jobs {
		results, err := client.AwaitAll(ctx, app.server, ids[i])
		if err != nil {
			errs = append(errs, err)
		}

		summary := operationSummary{Operation: job.Operation, Count: len(ids[i])}
		for _, r := range results {
			if r.Failed() {
				summary.Failed++
				continue
			}
			summary.Sum += r.Value
		}
		summaries[i] = summary

		app.logger.Info("operation results collected",
			"operation", summary.Operation,
			"count", summary.Count,
			"failed", summary.Failed,
			"mean", summary.Mean())
	}

	stats := app.server.Stats()
	app.logger.Info("all tasks processed",
		"submitted", stats.Submitted,
		"completed", stats.Completed,
		"failed", stats.Failed)

	return summaries, errors.Join(errs...)
}

// cleanup stops the server and flushes pending spans.
func (app *application) cleanup(ctx context.Context) error {
	if app.server != nil {
		app.server.Stop()
	}
	if app.tracing != nil {
		if err := app.tracing.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down tracing: %w", err)
		}
	}
	return nil
}
