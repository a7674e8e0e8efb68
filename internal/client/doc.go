// Package client implements the producer side of the task server: it
// submits batches of computations, optionally with random arguments, and
// collects their results.
package client
