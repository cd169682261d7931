package reconnect

import (
	"net"
	"sync"
	"time"
)

// idleTimeout closes a socket that has neither completed nor errored for
// this long since last receive.
const idleTimeout = 10 * time.Second

// socketState tracks one accepted-but-unclassified connection through the
// fresh -> parsed|rejected lifecycle. The acceptor never touches
// game state directly; a successfully parsed socket leaves the acceptor by
// being posted into an Inbox.
type socketState struct {
	conn       net.Conn
	buf        []byte
	lastActive time.Time
}

// Acceptor owns the set of sockets that have been accepted on the reconnect
// listening port but not yet classified as a live reconnect handoff or a
// rejection.
type Acceptor struct {
	mu      sync.Mutex
	sockets []*socketState
	inbox   *Inbox
	nowMS   func() uint32
}

// NewAcceptor returns an Acceptor that posts successfully parsed handshakes
// into inbox, stamping PostedTicks with nowMS().
func NewAcceptor(inbox *Inbox, nowMS func() uint32) *Acceptor {
	return &Acceptor{inbox: inbox, nowMS: nowMS}
}

// Accept registers a freshly accepted connection for classification on the
// next Poll.
func (a *Acceptor) Accept(conn net.Conn) {
	a.mu.Lock()
	a.sockets = append(a.sockets, &socketState{conn: conn, lastActive: time.Now()})
	a.mu.Unlock()
}

// Count reports the number of sockets still awaiting classification.
func (a *Acceptor) Count() int {
	a.mu.Lock()
	defer a.mu.Unlock()
	return len(a.sockets)
}

// Poll performs one readiness epoch's worth of work across every
// unclassified socket: read available bytes non-blocking, attempt to parse,
// reject or post to the inbox, and drop idle/errored sockets. Call once per
// orchestrator iteration.
func (a *Acceptor) Poll() {
	a.mu.Lock()
	sockets := a.sockets
	a.sockets = nil
	a.mu.Unlock()

	var kept []*socketState
	for _, s := range sockets {
		if time.Since(s.lastActive) > idleTimeout {
			s.conn.Close()
			continue
		}

		s.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
		chunk := make([]byte, 4096)
		n, err := s.conn.Read(chunk)
		if n > 0 {
			s.buf = append(s.buf, chunk[:n]...)
			s.lastActive = time.Now()
		}
		if err != nil {
			if ne, ok := err.(net.Error); ok && ne.Timeout() {
				// no bytes this epoch, keep waiting
			} else {
				s.conn.Close()
				continue
			}
		}

		result, h, code := Parse(s.buf)
		switch result {
		case ParseNeedMore:
			kept = append(kept, s)
		case ParseReject:
			a.reject(s, code)
		case ParseOK:
			a.inbox.Post(&PendingReconnect{
				PlayerID:     h.PlayerID,
				ReconnectKey: h.ReconnectKey,
				LastPacket:   h.LastPacket,
				PostedTicks:  a.nowMS(),
				Conn:         s.conn,
			})
		}
	}

	a.mu.Lock()
	a.sockets = append(a.sockets, kept...)
	a.mu.Unlock()
}

// reject flushes a single rejection packet and closes the socket; there is
// no lingering half-close.
func (a *Acceptor) reject(s *socketState, code RejectCode) {
	s.conn.SetWriteDeadline(time.Now().Add(time.Second))
	s.conn.Write(EncodeReject(code))
	s.conn.Close()
}
