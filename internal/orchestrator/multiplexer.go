package orchestrator

import "time"

// Multiplexer is the Go-native stand-in for the original's single blocking
// select() wait across a read fd_set: any socket-owning goroutine calls
// Notify when it has work for the orchestrator to notice, and the
// orchestrator calls Wait once per iteration with a computed budget.
//
// Write readiness has no separate wait set here: net.Conn.Write blocks only
// the calling goroutine, so an explicit non-blocking write-readiness poll
// (present in the original's second select call) is unnecessary in Go.
type Multiplexer struct {
	wake chan struct{}
}

// NewMultiplexer returns a ready-to-use Multiplexer.
func NewMultiplexer() *Multiplexer {
	return &Multiplexer{wake: make(chan struct{}, 1)}
}

// Notify wakes a pending or future Wait call. Non-blocking: a Multiplexer
// coalesces any number of pending notifications into one wakeup, matching
// select()'s level-triggered semantics closely enough for this loop's
// purposes (the orchestrator re-scans all state on every wakeup regardless
// of which source notified it).
func (m *Multiplexer) Notify() {
	select {
	case m.wake <- struct{}{}:
	default:
	}
}

// Wait blocks until Notify is called or budget elapses, whichever comes
// first. A non-positive budget returns immediately.
func (m *Multiplexer) Wait(budget time.Duration) {
	if budget <= 0 {
		return
	}
	select {
	case <-m.wake:
	case <-time.After(budget):
	}
}
