// Package realm implements a minimal, real realm session: a long-lived,
// reconnecting TCP client satisfying the orchestrator.Realm contract. The
// realm login/auth handshake and the BNCS wire protocol are not
// implemented; this session dials, keeps the connection alive with
// reconnect backoff, and exposes the fire-and-forget enqueue methods as
// buffered channels drained on Update — grounded on
// udisondev-la2go/internal/gslistener/server.go's connection lifecycle,
// adapted from an accept-loop into a dial-loop.
package realm

import (
	"context"
	"net"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog"

	"github.com/PhilippHeuer/ghostpp/internal/orchestrator"
)

const (
	dialTimeout    = 10 * time.Second
	minBackoff     = time.Second
	maxBackoff     = 60 * time.Second
)

// Config is one bnet/bnetN_* block's realm-relevant fields.
type Config struct {
	Server           string
	Alias            string
	PasswordHashType string
	HoldFriends      bool
	HoldClan         bool
	PvPGN            bool
}

type chatMsg struct {
	text    string
	target  string
	whisper bool
}

type gameCreateMsg struct {
	visibility  orchestrator.Visibility
	name        string
	m           orchestrator.Map
	save        orchestrator.SaveGame
	hostCounter uint32
}

// Session is a concrete orchestrator.Realm.
type Session struct {
	cfg    Config
	mux    *orchestrator.Multiplexer
	logger zerolog.Logger

	mu   sync.Mutex
	conn net.Conn

	destroyed atomic.Bool

	chatQueue        chan chatMsg
	gameCreateQueue  chan gameCreateMsg
	enterChatQueue   chan struct{}
	gameUncreateQueue chan struct{}
}

// New returns a Session that is not yet connected; call Run to start the
// dial loop.
func New(cfg Config, mux *orchestrator.Multiplexer, logger zerolog.Logger) *Session {
	return &Session{
		cfg:               cfg,
		mux:               mux,
		logger:            logger,
		chatQueue:         make(chan chatMsg, 64),
		gameCreateQueue:   make(chan gameCreateMsg, 8),
		enterChatQueue:    make(chan struct{}, 8),
		gameUncreateQueue: make(chan struct{}, 8),
	}
}

// Run dials cfg.Server and keeps reconnecting with exponential backoff
// until ctx is cancelled or Destroy is called.
func (s *Session) Run(ctx context.Context) {
	backoff := minBackoff
	for {
		if ctx.Err() != nil || s.destroyed.Load() {
			return
		}

		conn, err := net.DialTimeout("tcp", s.cfg.Server, dialTimeout)
		if err != nil {
			s.logger.Warn().Str("server", s.cfg.Server).Err(err).Msg("realm dial failed, backing off")
			select {
			case <-ctx.Done():
				return
			case <-time.After(backoff):
			}
			backoff *= 2
			if backoff > maxBackoff {
				backoff = maxBackoff
			}
			continue
		}

		backoff = minBackoff
		s.mu.Lock()
		s.conn = conn
		s.mu.Unlock()
		s.mux.Notify()

		s.readUntilClosed(ctx, conn)

		s.mu.Lock()
		s.conn = nil
		s.mu.Unlock()
	}
}

// readUntilClosed blocks reading conn until it errors or ctx is cancelled,
// notifying the multiplexer on every read so the orchestrator's epoch
// picks up realm activity promptly.
func (s *Session) readUntilClosed(ctx context.Context, conn net.Conn) {
	go func() {
		<-ctx.Done()
		conn.Close()
	}()

	buf := make([]byte, 4096)
	for {
		conn.SetReadDeadline(time.Now().Add(time.Second))
		n, err := conn.Read(buf)
		if n > 0 {
			s.mux.Notify()
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				continue
			}
			return
		}
	}
}

func (s *Session) Server() string           { return s.cfg.Server }
func (s *Session) Alias() string            { return s.cfg.Alias }
func (s *Session) GetHoldFriends() bool     { return s.cfg.HoldFriends }
func (s *Session) GetHoldClan() bool        { return s.cfg.HoldClan }
func (s *Session) PasswordHashType() string { return s.cfg.PasswordHashType }
func (s *Session) IsPvPGN() bool            { return s.cfg.PvPGN }

// Update drains every queued enqueue for one readiness epoch, writing a
// minimal framed notice to the live connection when present. Returns
// shouldExit=false always; this session has no condition that asks the
// orchestrator's loop to terminate.
func (s *Session) Update() bool {
	s.mu.Lock()
	conn := s.conn
	s.mu.Unlock()

	for {
		select {
		case msg := <-s.chatQueue:
			s.writeNotice(conn, "chat", msg.text)
			continue
		case msg := <-s.gameCreateQueue:
			s.writeNotice(conn, "game_create", msg.name)
			continue
		case <-s.enterChatQueue:
			s.writeNotice(conn, "enter_chat", "")
			continue
		case <-s.gameUncreateQueue:
			s.writeNotice(conn, "game_uncreate", "")
			continue
		default:
			return false
		}
	}
}

func (s *Session) writeNotice(conn net.Conn, kind, payload string) {
	if conn == nil {
		return
	}
	conn.SetWriteDeadline(time.Now().Add(time.Second))
	conn.Write([]byte(kind + ":" + payload + "\n"))
}

func (s *Session) QueueGameCreate(visibility orchestrator.Visibility, name string, m orchestrator.Map, save orchestrator.SaveGame, hostCounter uint32) {
	select {
	case s.gameCreateQueue <- gameCreateMsg{visibility, name, m, save, hostCounter}:
	default:
		s.logger.Warn().Msg("realm game-create queue full, dropping")
	}
}

func (s *Session) QueueGameUncreate() {
	select {
	case s.gameUncreateQueue <- struct{}{}:
	default:
	}
}

func (s *Session) QueueEnterChat() {
	select {
	case s.enterChatQueue <- struct{}{}:
	default:
	}
}

func (s *Session) QueueChat(text, target string, whisper bool) {
	select {
	case s.chatQueue <- chatMsg{text, target, whisper}:
	default:
		s.logger.Warn().Msg("realm chat queue full, dropping")
	}
}

func (s *Session) HoldFriends(g orchestrator.Game) {}
func (s *Session) HoldClan(g orchestrator.Game)    {}

// Destroy closes the live connection and stops the dial loop from
// reconnecting, used during graceful shutdown Phase A.
func (s *Session) Destroy() {
	s.destroyed.Store(true)
	s.mu.Lock()
	if s.conn != nil {
		s.conn.Close()
	}
	s.mu.Unlock()
}
