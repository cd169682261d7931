package orchestrator

import (
	"fmt"
	"strings"

	"github.com/PhilippHeuer/ghostpp/internal/language"
)

// maxGameNameLen is the 31-byte lobby name limit imposed by the game
// creation protocol's fixed-width name field.
const maxGameNameLen = 31

// CreateGame validates and creates a new game lobby. On any precondition
// failure it sends creator a localized chat message on creatorRealm and
// returns without side effects.
func (o *Orchestrator) CreateGame(m Map, visibility Visibility, isSaveGame bool, save SaveGame, name, owner, creator string, creatorRealm Realm, whisper bool) {
	reject := func(key string) {
		if creatorRealm != nil {
			creatorRealm.QueueChat(o.catalog.Format(key), creator, whisper)
		}
	}

	if !o.enabled.Load() {
		reject(language.KeyUnableToCreateGameDisabled)
		return
	}
	if len(name) > maxGameNameLen {
		reject(language.KeyUnableToCreateGameNameTooLong)
		return
	}
	if m == nil || !m.Valid() {
		reject(language.KeyUnableToCreateGameInvalidMap)
		return
	}
	if isSaveGame {
		if save == nil || !strings.EqualFold(save.MapPath(), m.Path()) {
			reject(language.KeyUnableToCreateGameInvalidMap)
			return
		}
	}

	o.gamesMu.Lock()
	if o.currentLobby != nil {
		o.gamesMu.Unlock()
		reject(language.KeyUnableToCreateGameLobbyExists)
		return
	}
	if len(o.games) >= o.maxGames {
		o.gamesMu.Unlock()
		reject(language.KeyUnableToCreateGameAtCapacity)
		return
	}

	o.hostCounter++
	hostCounter := o.hostCounter
	game := o.gameFactory(hostCounter, m, save, o.hostPort)

	// This reuses save's non-nilness as a truthy flag here, so the
	// enforce-players transfer always runs whenever a save game pointer was
	// passed in at all, regardless of isSaveGame. Preserved intentionally.
	if save != nil {
		game.SetEnforcePlayers(save.EnforcePlayers())
	}

	o.currentLobby = game
	o.gamesMu.Unlock()

	for _, realm := range o.bnets {
		announceText := o.announcementFor(name, visibility)
		realm.QueueChat(announceText, "", false)
		realm.QueueGameCreate(visibility, name, m, save, hostCounter)

		if visibility == VisibilityPrivate && !realm.IsPvPGN() {
			realm.QueueEnterChat()
		}

		if realm.GetHoldFriends() {
			realm.HoldFriends(game)
		}
		if realm.GetHoldClan() {
			realm.HoldClan(game)
		}
	}
}

func (o *Orchestrator) announcementFor(name string, visibility Visibility) string {
	if visibility == VisibilityPrivate {
		return fmt.Sprintf("Created private game %q.", name)
	}
	return fmt.Sprintf("Created public game %q.", name)
}

// reapGames drops finished games, and if the lobby itself is ready to
// delete, announces its departure on every realm before dropping it.
func (o *Orchestrator) reapGames() {
	o.gamesMu.Lock()
	defer o.gamesMu.Unlock()

	if o.currentLobby != nil && o.currentLobby.ReadyDelete() {
		for _, realm := range o.bnets {
			realm.QueueGameUncreate()
			realm.QueueEnterChat()
		}
		o.currentLobby = nil
	}

	kept := o.games[:0]
	for _, g := range o.games {
		if !g.ReadyDelete() {
			kept = append(kept, g)
		}
	}
	o.games = kept
}

// promoteLobbyToGames moves the current lobby out of the advertising slot
// once it has left the pre-start phase.
func (o *Orchestrator) promoteLobbyToGames() {
	o.gamesMu.Lock()
	defer o.gamesMu.Unlock()
	if o.currentLobby == nil {
		return
	}
	o.games = append(o.games, o.currentLobby)
	o.currentLobby = nil
}

// RefreshOK handles a realm reporting that its last game-list refresh
// succeeded.
func (o *Orchestrator) RefreshOK(realm Realm) {
	o.gamesMu.Lock()
	lobby := o.currentLobby
	o.gamesMu.Unlock()
	if lobby != nil {
		lobby.MarkRefreshOK()
	}
}

// RefreshFail handles a realm reporting that its last game-list refresh
// failed: it broadcasts a retry message, and if the lobby has no human
// players marks it exiting.
func (o *Orchestrator) RefreshFail(realm Realm, creatorRealm Realm, creator, name string) {
	o.gamesMu.Lock()
	lobby := o.currentLobby
	o.gamesMu.Unlock()
	if lobby == nil {
		return
	}

	msg := o.catalog.Format(language.KeyTryAnotherGameName, name)
	for _, r := range o.bnets {
		r.QueueChat(msg, "", false)
	}
	if creatorRealm != nil {
		creatorRealm.QueueChat(msg, creator, true)
	}

	if !lobby.HasHumanPlayers() {
		lobby.SetExiting()
	}
	lobby.MarkRefreshError()
}

// GameCount reports the number of non-lobby running games, for capacity
// checks and tests.
func (o *Orchestrator) GameCount() int {
	o.gamesMu.Lock()
	defer o.gamesMu.Unlock()
	return len(o.games)
}

// HasCurrentLobby reports whether a lobby is currently advertising.
func (o *Orchestrator) HasCurrentLobby() bool {
	o.gamesMu.Lock()
	defer o.gamesMu.Unlock()
	return o.currentLobby != nil
}

// HostCounter returns the most recently issued host counter. Monotonically
// increasing across the orchestrator's lifetime.
func (o *Orchestrator) HostCounter() uint32 {
	o.gamesMu.Lock()
	defer o.gamesMu.Unlock()
	return o.hostCounter
}
