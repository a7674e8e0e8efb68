// Package tracing wires OpenTelemetry into the task server. Providers are
// returned to the caller instead of being installed as the global provider.
package tracing
