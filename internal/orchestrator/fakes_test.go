package orchestrator

import (
	"context"

	"github.com/PhilippHeuer/ghostpp/internal/asyncwork"
	"github.com/PhilippHeuer/ghostpp/internal/db"
)

type fakeGame struct {
	readyDelete        bool
	nextTicks          uint32
	humanPlayers       bool
	exiting            bool
	enforcePlayers     []string
	autoStartPlayers   int
	matchmakingEnabled bool
	refreshOKCount     int
	refreshErrorCount  int
}

func (g *fakeGame) ReadyDelete() bool              { return g.readyDelete }
func (g *fakeGame) NextTimedActionTicks() uint32   { return g.nextTicks }
func (g *fakeGame) HasHumanPlayers() bool          { return g.humanPlayers }
func (g *fakeGame) SetExiting()                    { g.exiting = true }
func (g *fakeGame) SetEnforcePlayers(p []string)   { g.enforcePlayers = p }
func (g *fakeGame) SetAutoStartPlayers(n int)      { g.autoStartPlayers = n }
func (g *fakeGame) EnableMatchmaking()             { g.matchmakingEnabled = true }
func (g *fakeGame) MarkRefreshOK()                 { g.refreshOKCount++ }
func (g *fakeGame) MarkRefreshError()              { g.refreshErrorCount++ }

type chatMessage struct {
	text    string
	target  string
	whisper bool
}

type fakeRealm struct {
	alias          string
	holdFriends    bool
	holdClan       bool
	pvpgn          bool
	shouldExit     bool
	destroyed      bool
	chats          []chatMessage
	gameCreates    int
	gameUncreates  int
	enterChatCalls int
}

func (r *fakeRealm) Server() string            { return "realm.example" }
func (r *fakeRealm) Alias() string             { return r.alias }
func (r *fakeRealm) GetHoldFriends() bool      { return r.holdFriends }
func (r *fakeRealm) GetHoldClan() bool         { return r.holdClan }
func (r *fakeRealm) PasswordHashType() string  { return "nls" }
func (r *fakeRealm) IsPvPGN() bool             { return r.pvpgn }
func (r *fakeRealm) Update() bool              { return r.shouldExit }
func (r *fakeRealm) QueueGameCreate(v Visibility, name string, m Map, s SaveGame, hc uint32) {
	r.gameCreates++
}
func (r *fakeRealm) QueueGameUncreate() { r.gameUncreates++ }
func (r *fakeRealm) QueueEnterChat()    { r.enterChatCalls++ }
func (r *fakeRealm) QueueChat(text, target string, whisper bool) {
	r.chats = append(r.chats, chatMessage{text, target, whisper})
}
func (r *fakeRealm) HoldFriends(g Game) {}
func (r *fakeRealm) HoldClan(g Game)    {}
func (r *fakeRealm) Destroy()           { r.destroyed = true }

type fakeMap struct {
	valid               bool
	path                string
	matchmakingCategory string
	fixedPlayerSettings bool
}

func (m *fakeMap) Valid() bool                  { return m.valid }
func (m *fakeMap) Path() string                 { return m.path }
func (m *fakeMap) MatchmakingCategory() string  { return m.matchmakingCategory }
func (m *fakeMap) HasFixedPlayerSettings() bool { return m.fixedPlayerSettings }

type fakeSaveGame struct {
	mapPath        string
	enforcePlayers []string
}

func (s *fakeSaveGame) MapPath() string          { return s.mapPath }
func (s *fakeSaveGame) EnforcePlayers() []string { return s.enforcePlayers }

type fakeDB struct {
	hasErr  bool
	errText string
}

func (d *fakeDB) HasError() bool                          { return d.hasErr }
func (d *fakeDB) GetError() string                        { return d.errText }
func (d *fakeDB) RecoverCallable(item asyncwork.Callable)  {}
func (d *fakeDB) Begin(ctx context.Context) (db.Tx, error) { return nil, nil }
func (d *fakeDB) Close() error                             { return nil }

type fakeMapLoader struct {
	candidates []string
	maps       map[string]Map
	err        error
}

func (l *fakeMapLoader) ListRandomCandidates() ([]string, error) {
	return l.candidates, l.err
}

func (l *fakeMapLoader) LoadMap(filename string) (Map, error) {
	if l.err != nil {
		return nil, l.err
	}
	return l.maps[filename], nil
}
