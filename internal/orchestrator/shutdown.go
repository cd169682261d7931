package orchestrator

import "time"

// beginGracefulShutdown destroys every realm session immediately and
// destroys the current lobby via the normal reap path (by marking it
// exiting, same as any other game headed for removal) rather than
// force-closing it out of band.
func (o *Orchestrator) beginGracefulShutdown() {
	o.logger.Info().Msg("graceful shutdown requested, destroying realms")
	for _, realm := range o.bnets {
		realm.Destroy()
	}
	o.bnets = nil

	o.gamesMu.Lock()
	if o.currentLobby != nil {
		o.currentLobby.SetExiting()
	}
	o.gamesMu.Unlock()
}

// gracefulConditionsMet reports whether the second half of graceful
// shutdown has completed: once games is empty, it waits up to
// gracefulAsyncDrainTimeout for async work to drain, and is satisfied by
// either condition.
func (o *Orchestrator) gracefulConditionsMet() bool {
	if o.GameCount() > 0 || o.HasCurrentLobby() {
		return false
	}

	if o.gracefulAsyncDeadline.IsZero() {
		o.gracefulAsyncDeadline = time.Now().Add(gracefulAsyncDrainTimeout)
	}

	if o.callables.Len() == 0 {
		return true
	}
	return time.Now().After(o.gracefulAsyncDeadline)
}
