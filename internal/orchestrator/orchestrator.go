// Package orchestrator implements the central event loop: the single
// goroutine that multiplexes realm and reconnect sockets, owns the unique
// current lobby and the set of running games, classifies reconnect
// handshakes, drives the autohost policy, and coordinates async database
// work. Every other subsystem (game, realm, database worker) is an
// external collaborator accessed only through the narrow interfaces in
// types.go.
package orchestrator

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilippHeuer/ghostpp/internal/asyncwork"
	"github.com/PhilippHeuer/ghostpp/internal/clock"
	"github.com/PhilippHeuer/ghostpp/internal/db"
	"github.com/PhilippHeuer/ghostpp/internal/language"
	"github.com/PhilippHeuer/ghostpp/internal/reconnect"
)

// idleSleep is how long the loop sleeps when it owns zero sockets, to
// avoid a tight spin.
const idleSleep = 50 * time.Millisecond

// minBudget floors the computed per-iteration wait budget so a game
// demanding immediate service can't spin the loop.
const minBudget = time.Millisecond

// defaultBudget is the upper bound on the per-iteration wait when no game
// demands earlier service. Not part of the configuration surface; it is an
// internal tuning constant of the readiness multiplexer, same as the
// original's hard-coded select timeout.
const defaultBudget = 50 * time.Millisecond

// gracefulAsyncDrainTimeout bounds how long graceful shutdown waits for the
// async work registry to drain before giving up and exiting anyway.
const gracefulAsyncDrainTimeout = 60 * time.Second

// Orchestrator is the process-wide event loop: it multiplexes realm and
// reconnect sockets, owns the unique current lobby and the set of running
// games, classifies reconnect handshakes, drives the autohost policy, and
// coordinates async database work.
type Orchestrator struct {
	clock   *clock.Clock
	mux     *Multiplexer
	logger  zerolog.Logger
	catalog language.Catalog
	db      db.Backend

	gameFactory GameFactory

	callables *asyncwork.Registry
	inbox     *reconnect.Inbox
	acceptor  *reconnect.Acceptor

	reconnectEnabled  bool
	reconnectListener net.Listener

	maxGames   int
	hostPort   int
	localAddrs []net.IP

	enabled     atomic.Bool
	exiting     atomic.Bool
	exitingNice atomic.Bool

	gamesMu      sync.Mutex
	currentLobby Game
	games        []Game
	hostCounter  uint32

	bnets []Realm

	autohost *autohostController

	gracefulStarted       bool
	gracefulAsyncDeadline time.Time
}

// Options configures a new Orchestrator.
type Options struct {
	Clock       *clock.Clock
	Logger      zerolog.Logger
	Catalog     language.Catalog
	DB          db.Backend
	GameFactory GameFactory

	MaxGames         int
	HostPort         int
	ReconnectEnabled bool
	Enabled          bool

	Realms []Realm

	Autohost AutohostConfig
}

// New constructs an Orchestrator. The caller starts the reconnect listener
// separately (see AcceptReconnects) and then calls Run.
func New(opts Options) *Orchestrator {
	o := &Orchestrator{
		clock:            opts.Clock,
		mux:              NewMultiplexer(),
		logger:           opts.Logger,
		catalog:          opts.Catalog,
		db:               opts.DB,
		gameFactory:      opts.GameFactory,
		callables:        asyncwork.New(),
		inbox:            reconnect.NewInbox(),
		maxGames:         opts.MaxGames,
		hostPort:         opts.HostPort,
		reconnectEnabled: opts.ReconnectEnabled,
		bnets:            opts.Realms,
		hostCounter:      1,
	}
	o.enabled.Store(opts.Enabled)
	o.acceptor = reconnect.NewAcceptor(o.inbox, o.clock.NowMS)
	o.autohost = newAutohostController(opts.Autohost)
	return o
}

// Multiplexer exposes the internal readiness multiplexer so collaborators
// (realms, the reconnect listener) can Notify it when they have work.
func (o *Orchestrator) Multiplexer() *Multiplexer {
	return o.mux
}

// SetRealms wires the realm sessions to service each iteration. Separate
// from Options because realm sessions are themselves constructed against
// this orchestrator's Multiplexer, after New returns.
func (o *Orchestrator) SetRealms(realms []Realm) {
	o.bnets = realms
}

// Callables exposes the async work registry so realms and game workers can
// submit Callables.
func (o *Orchestrator) Callables() *asyncwork.Registry {
	return o.callables
}

// AcceptReconnects begins accepting connections on ln, feeding them to the
// reconnect acceptor. The caller owns ln's lifetime.
func (o *Orchestrator) AcceptReconnects(ctx context.Context, ln net.Listener) {
	o.reconnectListener = ln
	go func() {
		<-ctx.Done()
		ln.Close()
	}()
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			o.acceptor.Accept(conn)
			o.mux.Notify()
		}
	}()
}

// RequestGracefulShutdown sets exiting_nice, matching the first interrupt
// of a two-stage shutdown escalation.
func (o *Orchestrator) RequestGracefulShutdown() {
	o.exitingNice.Store(true)
	o.mux.Notify()
}

// RequestImmediateShutdown sets exiting directly, matching a second
// interrupt.
func (o *Orchestrator) RequestImmediateShutdown() {
	o.exiting.Store(true)
	o.mux.Notify()
}

// Run drives the event loop until exiting is set or ctx is cancelled.
// Exactly one goroutine may call Run.
func (o *Orchestrator) Run(ctx context.Context) error {
	for {
		if ctx.Err() != nil {
			o.exiting.Store(true)
		}
		if o.exiting.Load() {
			return nil
		}

		if o.exitingNice.Load() && !o.gracefulStarted {
			o.gracefulStarted = true
			o.beginGracefulShutdown()
		}

		budget := o.computeBudget()
		if o.numSockets() == 0 {
			time.Sleep(idleSleep)
		} else {
			o.mux.Wait(budget)
		}

		done, err := o.step()
		if err != nil {
			o.logger.Error().Err(err).Msg("iteration failed")
		}
		if done {
			return nil
		}

		if o.exitingNice.Load() {
			if o.gracefulConditionsMet() {
				o.exiting.Store(true)
			}
		}
	}
}

// step performs one readiness epoch's fixed processing order: async
// reaping, game reaping, realm updates, reconnect I/O, reconnect expiry,
// autohost. Returns done=true when the loop should return after this
// iteration.
func (o *Orchestrator) step() (done bool, err error) {
	o.reapCallables()
	o.reapGames()

	for _, realm := range o.bnets {
		if shouldExit := realm.Update(); shouldExit {
			done = true
		}
	}

	if o.reconnectEnabled {
		o.acceptor.Poll()
	}
	o.expirePendingReconnects()

	o.autohost.tick(o)

	if o.db != nil && o.db.HasError() {
		o.logger.Error().Str("error", o.db.GetError()).Msg("database error, exiting")
		done = true
	}

	return done, nil
}

func (o *Orchestrator) reapCallables() {
	if o.db == nil {
		return
	}
	o.callables.Drain(func(c asyncwork.Callable) {
		o.db.RecoverCallable(c)
	})
}

// computeBudget computes the dynamic per-iteration wait
// floored at minBudget.
func (o *Orchestrator) computeBudget() time.Duration {
	budget := defaultBudget

	o.gamesMu.Lock()
	for _, g := range o.games {
		if ms := g.NextTimedActionTicks(); time.Duration(ms)*time.Millisecond < budget {
			budget = time.Duration(ms) * time.Millisecond
		}
	}
	o.gamesMu.Unlock()

	if budget < minBudget {
		budget = minBudget
	}
	return budget
}

func (o *Orchestrator) numSockets() int {
	n := len(o.bnets)
	if o.reconnectListener != nil {
		n++
	}
	n += o.acceptor.Count()
	return n
}

func (o *Orchestrator) expirePendingReconnects() {
	expired := o.inbox.ExpireOlderThan(o.clock.NowMS())
	for _, p := range expired {
		p.Conn.SetWriteDeadline(time.Now().Add(time.Second))
		p.Conn.Write(reconnect.EncodeReject(reconnect.RejectNotFound))
		p.Conn.Close()
	}
}
