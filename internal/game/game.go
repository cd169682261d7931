// Package game implements a minimal, real game session satisfying the
// orchestrator.Game contract. The in-game tick simulation, the player slot
// model, and the game wire protocol are not implemented; this session owns
// a local listener and a set of connected clients on its own
// worker goroutine, tracking readiness for deletion once every client has
// disconnected and the session has been marked exiting. Grounded on
// udisondev-la2go/internal/gameserver/server.go's accept loop and its
// saveAllPlayers sync.Once idiom, reused here for the single ready-delete
// transition.
package game

import (
	"fmt"
	"net"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/PhilippHeuer/ghostpp/internal/orchestrator"
)

// defaultTickMS is how soon an otherwise-idle game asks to be
// re-serviced, used to compute the readiness multiplexer's budget.
const defaultTickMS = 250

// Session is a concrete orchestrator.Game.
type Session struct {
	hostCounter uint32
	m           orchestrator.Map
	save        orchestrator.SaveGame
	listener    net.Listener
	logger      zerolog.Logger

	mu      sync.Mutex
	clients []client

	exiting     atomic.Bool
	readyDelete atomic.Bool
	closeOnce   sync.Once

	enforcePlayers     []string
	autoStartThreshold int
	matchmakingEnabled bool
	refreshErrors      int
	refreshOKs         int
}

// client pairs a connection with a correlation id for logging, since the
// player slot model itself is out of scope and has no identifier to log
// against otherwise.
type client struct {
	conn net.Conn
	id   uuid.UUID
}

// New binds hostPort and starts the accept-loop worker. Ownership of the
// returned Session belongs to the orchestrator from this call onward,
// matching orchestrator.GameFactory's contract.
func New(hostCounter uint32, m orchestrator.Map, save orchestrator.SaveGame, hostPort int, logger zerolog.Logger) (*Session, error) {
	ln, err := net.Listen("tcp", fmt.Sprintf(":%d", hostPort))
	if err != nil {
		return nil, fmt.Errorf("binding game host port %d: %w", hostPort, err)
	}

	s := &Session{
		hostCounter: hostCounter,
		m:           m,
		save:        save,
		listener:    ln,
		logger:      logger,
	}
	go s.acceptLoop()
	return s, nil
}

func (s *Session) acceptLoop() {
	for {
		conn, err := s.listener.Accept()
		if err != nil {
			return
		}
		c := client{conn: conn, id: uuid.New()}
		s.mu.Lock()
		s.clients = append(s.clients, c)
		s.mu.Unlock()
		s.logger.Debug().Uint32("host_counter", s.hostCounter).Str("client", c.id.String()).Msg("client connected")
		go s.handleConnection(c)
	}
}

func (s *Session) handleConnection(c client) {
	defer s.cleanup(c)
	buf := make([]byte, 4096)
	for {
		if _, err := c.conn.Read(buf); err != nil {
			return
		}
	}
}

func (s *Session) cleanup(c client) {
	c.conn.Close()
	s.mu.Lock()
	for i, existing := range s.clients {
		if existing.id == c.id {
			s.clients = append(s.clients[:i], s.clients[i+1:]...)
			break
		}
	}
	empty := len(s.clients) == 0
	s.mu.Unlock()

	s.logger.Debug().Uint32("host_counter", s.hostCounter).Str("client", c.id.String()).Msg("client disconnected")

	if empty && s.exiting.Load() {
		s.markReadyDelete()
	}
}

func (s *Session) markReadyDelete() {
	s.closeOnce.Do(func() {
		s.listener.Close()
		s.readyDelete.Store(true)
	})
}

// ReadyDelete reports whether this game's worker has finished and the
// orchestrator may drop it. Destruction is gated on this flag.
func (s *Session) ReadyDelete() bool {
	return s.readyDelete.Load()
}

// NextTimedActionTicks is a fixed tick budget, or 0 once the session is
// exiting; the in-game simulation itself is out of scope, so this session
// has no finer-grained timing need.
func (s *Session) NextTimedActionTicks() uint32 {
	if s.exiting.Load() {
		return 0
	}
	return defaultTickMS
}

func (s *Session) HasHumanPlayers() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.clients) > 0
}

// SetExiting marks the game for teardown. If there are no connected
// clients right now, it becomes ready for deletion immediately.
func (s *Session) SetExiting() {
	s.exiting.Store(true)
	s.mu.Lock()
	empty := len(s.clients) == 0
	s.mu.Unlock()
	if empty {
		s.markReadyDelete()
	}
}

func (s *Session) SetEnforcePlayers(players []string) { s.enforcePlayers = players }
func (s *Session) SetAutoStartPlayers(n int)          { s.autoStartThreshold = n }
func (s *Session) EnableMatchmaking()                 { s.matchmakingEnabled = true }
func (s *Session) MarkRefreshOK()                     { s.refreshOKs++ }
func (s *Session) MarkRefreshError()                  { s.refreshErrors++ }

// Factory adapts New to orchestrator.GameFactory.
func Factory(logger zerolog.Logger) orchestrator.GameFactory {
	return func(hostCounter uint32, m orchestrator.Map, save orchestrator.SaveGame, hostPort int) orchestrator.Game {
		s, err := New(hostCounter, m, save, hostPort, logger)
		if err != nil {
			logger.Error().Err(err).Uint32("host_counter", hostCounter).Msg("failed to start game worker")
			fallback := &Session{hostCounter: hostCounter, m: m, save: save, logger: logger}
			fallback.readyDelete.Store(true)
			return fallback
		}
		return s
	}
}
