// Package asyncwork holds the orchestrator's async database work registry.
// Realm sessions and game workers submit Callables here; the orchestrator
// drains ready ones once per iteration and hands each to a sink so its
// originator can pick up the result.
package asyncwork

import "sync"

// Callable is a unit of asynchronous database work whose result is
// recovered by its originator once IsReady reports true.
type Callable interface {
	IsReady() bool
}

// Sink receives a ready Callable exactly once, in traversal order. Sinks
// must not call back into the Registry they were invoked from — the lock
// scope is exactly the traversal.
type Sink func(Callable)

// Registry is a thread-safe, append-only-until-drained collection of
// in-flight Callables.
type Registry struct {
	mu    sync.Mutex
	items []Callable
}

// New returns an empty Registry.
func New() *Registry {
	return &Registry{}
}

// Submit appends a Callable. Safe to call from any goroutine.
func (r *Registry) Submit(c Callable) {
	r.mu.Lock()
	r.items = append(r.items, c)
	r.mu.Unlock()
}

// Drain walks the registry once, passing every ready item to sink and
// removing it. Not-ready items are kept for the next call.
func (r *Registry) Drain(sink Sink) {
	r.mu.Lock()
	remaining := r.items[:0]
	var ready []Callable
	for _, item := range r.items {
		if item.IsReady() {
			ready = append(ready, item)
		} else {
			remaining = append(remaining, item)
		}
	}
	r.items = remaining
	r.mu.Unlock()

	for _, item := range ready {
		sink(item)
	}
}

// Len reports the number of in-flight items, including ones not yet ready.
// Used by the shutdown state machine to decide whether async work has
// drained.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.items)
}
