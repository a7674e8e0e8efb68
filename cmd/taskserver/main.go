// Package main runs the task server with one concurrent producer per
// configured operation, awaits every submitted task and logs a summary.
package main

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/phrazzld/taskserver/internal/config"
	"github.com/phrazzld/taskserver/internal/platform/logger"
)

// configFileEnv names the optional YAML configuration file. When unset,
// config.yaml in the working directory is used if present.
const configFileEnv = config.EnvPrefix + "_CONFIG_FILE"

const shutdownTimeout = 5 * time.Second

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, os.Getenv(configFileEnv)); err != nil {
		stop()
		log.Fatalf("taskserver failed: %v", err)
	}
}

// run wires the application and drives one complete producer round.
func run(ctx context.Context, configPath string) error {
	cfg, appLogger, err := initializeApp(configPath)
	if err != nil {
		return err
	}

	app, err := newApplication(cfg, appLogger)
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()
		if err := app.cleanup(shutdownCtx); err != nil {
			appLogger.Error("application cleanup failed", "error", err)
		}
	}()

	if _, err := app.Run(ctx); err != nil {
		return fmt.Errorf("run failed: %w", err)
	}
	return nil
}

// initializeApp loads configuration and sets up logging.
func initializeApp(configPath string) (*config.Config, *slog.Logger, error) {
	var (
		cfg *config.Config
		err error
	)
	if configPath != "" {
		cfg, err = config.LoadFile(configPath)
	} else {
		cfg, err = config.Load()
	}
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load configuration: %w", err)
	}

	appLogger, err := logger.Setup(cfg.Server)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to set up logger: %w", err)
	}

	appLogger.Info("task server configuration loaded",
		"worker_count", cfg.Server.WorkerCount,
		"await_timeout", cfg.Server.AwaitTimeout,
		"log_level", cfg.Server.LogLevel,
		"operations", cfg.Client.Operations,
		"task_count", cfg.Client.TaskCount,
		"tracing_enabled", cfg.Tracing.Enabled)

	return cfg, appLogger, nil
}
