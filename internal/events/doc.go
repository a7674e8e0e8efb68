// Package events carries task completion notifications from the worker to
// any interested component.
//
// The worker emits one TaskCompletedEvent after every stored result. Handlers
// registered on an InMemoryEventEmitter receive it synchronously, in
// registration order. A failing handler never affects the stored result.
//
// The package depends on no other internal package so that both the task
// server and its observers can import it.
package events
