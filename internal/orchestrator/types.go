package orchestrator

// Visibility controls how a created lobby is advertised.
type Visibility int

const (
	VisibilityPublic Visibility = iota
	VisibilityPrivate
)

// Map is the narrow view of a loaded map the orchestrator needs. Map
// binary parsing and CRC/MPQ handling are not implemented; this interface
// exists only so the lobby and autohost logic have something to validate
// and pass through to realms.
type Map interface {
	Valid() bool
	Path() string
	MatchmakingCategory() string
	HasFixedPlayerSettings() bool
}

// SaveGame is the narrow view of a loaded save game.
type SaveGame interface {
	MapPath() string
	EnforcePlayers() []string
}

// Game is the contract a running game session must satisfy. Games own
// their sockets on their own worker and are intentionally not part of
// the orchestrator's readiness set.
type Game interface {
	// ReadyDelete reports whether internal workers have finished and the
	// game may be safely dropped. Idempotent.
	ReadyDelete() bool
	// NextTimedActionTicks is milliseconds until this game wishes to be
	// re-serviced; used to compute the readiness multiplexer's budget.
	NextTimedActionTicks() uint32

	HasHumanPlayers() bool
	SetExiting()
	SetEnforcePlayers(players []string)
	SetAutoStartPlayers(n int)
	EnableMatchmaking()

	MarkRefreshOK()
	MarkRefreshError()
}

// Realm is the contract a realm session must satisfy.
type Realm interface {
	Server() string
	Alias() string
	GetHoldFriends() bool
	GetHoldClan() bool
	PasswordHashType() string
	// IsPvPGN reports whether this realm's auth flavor forbids re-entering
	// chat while a game is advertising.
	IsPvPGN() bool

	// Update services this realm's socket(s) for one readiness epoch and
	// reports whether the realm wants the orchestrator loop to exit.
	Update() (shouldExit bool)

	QueueGameCreate(visibility Visibility, name string, m Map, save SaveGame, hostCounter uint32)
	QueueGameUncreate()
	QueueEnterChat()
	QueueChat(text string, target string, whisper bool)

	HoldFriends(g Game)
	HoldClan(g Game)

	// Destroy tears down this realm's connection immediately, used during
	// graceful shutdown Phase A.
	Destroy()
}

// GameFactory constructs and starts a new game's worker, bound to hostPort,
// identified by hostCounter. Ownership of the returned Game belongs to the
// orchestrator from this call onward.
type GameFactory func(hostCounter uint32, m Map, save SaveGame, hostPort int) Game
