// Package config handles configuration loading, parsing, and validation
// from environment variables and an optional YAML file. It provides type-safe
// access to server, producer and tracing settings while keeping configuration
// details separate from the task server itself.
package config
