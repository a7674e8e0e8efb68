package config

import "time"

// Config holds all application configuration.
type Config struct {
	Server  ServerConfig  `mapstructure:"server" validate:"required"`
	Client  ClientConfig  `mapstructure:"client" validate:"required"`
	Tracing TracingConfig `mapstructure:"tracing"`
}

// ServerConfig contains the task server settings.
type ServerConfig struct {
	// WorkerCount is the number of goroutines draining the task queue.
	// Completion order equals submission order only when it is 1.
	WorkerCount int `mapstructure:"worker_count" validate:"required,gte=1,lte=1024"`

	// AwaitTimeout bounds every Await call. Zero means wait until the result
	// arrives, the task is abandoned, or the caller's context ends.
	AwaitTimeout time.Duration `mapstructure:"await_timeout" validate:"gte=0"`

	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// ClientConfig drives the producers started by cmd/taskserver.
type ClientConfig struct {
	// TaskCount is the number of tasks each producer submits.
	TaskCount int `mapstructure:"task_count" validate:"gte=0"`

	// Operations lists one producer per entry.
	Operations []string `mapstructure:"operations" validate:"required,min=1,dive,oneof=sine sqrt square"`

	// ArgMin and ArgMax bound the uniformly drawn arguments: [ArgMin, ArgMax).
	ArgMin float64 `mapstructure:"arg_min"`
	ArgMax float64 `mapstructure:"arg_max" validate:"gtfield=ArgMin"`

	// Seed makes argument generation reproducible when non-zero.
	Seed uint64 `mapstructure:"seed"`
}

// TracingConfig configures the OpenTelemetry stdout exporter.
type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name" validate:"required_if=Enabled true"`
	ServiceVersion string `mapstructure:"service_version"`
	// OutputFile receives exported spans; empty means stdout.
	OutputFile string `mapstructure:"output_file"`
}
