package reconnect

import (
	"net"
	"sync"
)

// PendingReconnect is a parsed reconnect handoff record: ownership of the
// socket has moved from the acceptor into this record, and then either to
// the game that claims it or to expiry. PostedTicks is stamped with the
// clock's NowMS at creation and drives the 1500ms liveness window.
type PendingReconnect struct {
	PlayerID     uint8
	ReconnectKey uint32
	LastPacket   uint32
	PostedTicks  uint32
	Conn         net.Conn
}

// Matches reports whether this record belongs to the disconnected player a
// game is trying to resume, per the (player_id, reconnect_key) pair a game
// worker checks when scanning the inbox.
func (p *PendingReconnect) Matches(playerID uint8, reconnectKey uint32) bool {
	return p.PlayerID == playerID && p.ReconnectKey == reconnectKey
}

// Window is the bounded liveness contract: a game has at most this long to
// claim a reconnect before the client must retry.
const Window = 1500 // milliseconds

// Inbox is the thread-safe FIFO queue of PendingReconnect entries posted by
// the acceptor, claimed by games, and expired by the orchestrator.
type Inbox struct {
	mu      sync.Mutex
	entries []*PendingReconnect
}

// NewInbox returns an empty Inbox.
func NewInbox() *Inbox {
	return &Inbox{}
}

// Post appends a new entry. Called by the reconnect acceptor only.
func (b *Inbox) Post(p *PendingReconnect) {
	b.mu.Lock()
	b.entries = append(b.entries, p)
	b.mu.Unlock()
}

// Claim removes and returns the first entry matching (playerID,
// reconnectKey), or nil if none match. Called by a game worker goroutine.
func (b *Inbox) Claim(playerID uint8, reconnectKey uint32) *PendingReconnect {
	b.mu.Lock()
	defer b.mu.Unlock()
	for i, e := range b.entries {
		if e.Matches(playerID, reconnectKey) {
			b.entries = append(b.entries[:i], b.entries[i+1:]...)
			return e
		}
	}
	return nil
}

// ExpireOlderThan removes every entry whose PostedTicks is more than Window
// milliseconds before nowMS, returning them so the caller can reject and
// close each socket. Called by the orchestrator once per iteration.
func (b *Inbox) ExpireOlderThan(nowMS uint32) []*PendingReconnect {
	b.mu.Lock()
	defer b.mu.Unlock()

	var expired []*PendingReconnect
	var kept []*PendingReconnect
	for _, e := range b.entries {
		if nowMS-e.PostedTicks > Window {
			expired = append(expired, e)
		} else {
			kept = append(kept, e)
		}
	}
	b.entries = kept
	return expired
}

// Len reports the number of entries currently awaiting claim or expiry.
func (b *Inbox) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.entries)
}
