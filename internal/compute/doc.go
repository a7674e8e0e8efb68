// Package compute defines the operation kinds a task can request and the
// registry of unary numeric functions that evaluates them. Registries are
// plain values owned by their caller, so independent servers can carry
// different operation sets.
package compute
