package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"
)

// EnvPrefix is prepended to every environment variable, e.g.
// TASKSERVER_SERVER_WORKER_COUNT.
const EnvPrefix = "TASKSERVER"

// Load reads configuration from environment variables and, when present, a
// config.yaml in the working directory. Environment variables take precedence
// over values from the file.
func Load() (*Config, error) {
	return load(func(v *viper.Viper) error {
		v.SetConfigName("config")
		v.SetConfigType("yaml")
		v.AddConfigPath(".")

		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return fmt.Errorf("error reading config file: %w", err)
			}
		}
		return nil
	})
}

// LoadFile is Load with an explicit config file. An empty path reads
// environment variables only.
func LoadFile(path string) (*Config, error) {
	return load(func(v *viper.Viper) error {
		if path == "" {
			return nil
		}
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return fmt.Errorf("error reading config file %s: %w", path, err)
		}
		return nil
	})
}

func load(readFile func(v *viper.Viper) error) (*Config, error) {
	v := viper.New()
	setDefaults(v)

	if err := readFile(v); err != nil {
		return nil, err
	}

	// Every key has a default, so AutomaticEnv sees all of them on Unmarshal.
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := Validate(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.worker_count", 1)
	v.SetDefault("server.await_timeout", "0s")
	v.SetDefault("server.log_level", "info")

	v.SetDefault("client.task_count", 10)
	v.SetDefault("client.operations", []string{"sine", "sqrt", "square"})
	v.SetDefault("client.arg_min", 1.0)
	v.SetDefault("client.arg_max", 100.0)
	v.SetDefault("client.seed", 0)

	v.SetDefault("tracing.enabled", false)
	v.SetDefault("tracing.service_name", "taskserver")
	v.SetDefault("tracing.service_version", "dev")
	v.SetDefault("tracing.output_file", "")
}

// Validate checks cfg against its struct tags.
func Validate(cfg *Config) error {
	if err := validator.New().Struct(cfg); err != nil {
		return fmt.Errorf("configuration validation failed: %w", err)
	}
	return nil
}
