// Package task implements the in-process compute task server.
//
// Producers submit (operation, argument) requests through Server.Submit and
// receive a task id. Ids start at 0 and increase by one per accepted
// submission. A worker goroutine drains the TaskQueue in FIFO order,
// evaluates each task through a compute.Registry and appends the Result to
// the ResultStore, waking every goroutine blocked in Server.Await.
//
// With the default single worker the results are stored in id order, so
// position k of the store holds task k. Additional workers may be configured;
// lookups are keyed by id and stay correct, but completion order is no longer
// guaranteed.
//
// Tasks still queued when Stop is called are abandoned. Awaiting an
// abandoned id returns ErrTaskAbandoned.
package task
