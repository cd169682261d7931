package orchestrator

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func autohostConfig() AutohostConfig {
	return AutohostConfig{
		NameTemplate:       "AutoGame",
		MaxGames:           5,
		AutoStartThreshold: 2,
		Owner:              "bot",
		RandomMode:         RandomMapNone,
	}
}

func TestAutohostCreatesLobbyWhenIdle(t *testing.T) {
	cfg := autohostConfig()
	o := newTestOrchestrator(nil, nil, cfg)
	o.autohost.cachedMap = &fakeMap{valid: true, path: "maps/x.w3x"}
	o.autohost.cachedMapSet = true

	o.autohost.tick(o)

	assert.True(t, o.HasCurrentLobby())
}

func TestAutohostThrottledWithinWindow(t *testing.T) {
	cfg := autohostConfig()
	o := newTestOrchestrator(nil, nil, cfg)
	o.autohost.cachedMap = &fakeMap{valid: true, path: "maps/x.w3x"}
	o.autohost.cachedMapSet = true

	o.autohost.tick(o)
	require.True(t, o.HasCurrentLobby())
	o.promoteLobbyToGames()

	o.autohost.tick(o)
	assert.False(t, o.HasCurrentLobby(), "second tick within 30s window must not create another lobby")
}

func TestAutohostDisablesOnNameTooLong(t *testing.T) {
	cfg := autohostConfig()
	cfg.NameTemplate = "very-long-template-occupying-most-space"
	o := newTestOrchestrator(nil, nil, cfg)
	o.hostCounter = 9 // next create would issue host counter 10
	o.autohost.cachedMap = &fakeMap{valid: true, path: "maps/x.w3x"}
	o.autohost.cachedMapSet = true

	name := fmt.Sprintf("%s #%d", cfg.NameTemplate, 10)
	require.Greater(t, len(name), maxGameNameLen)

	o.autohost.tick(o)

	assert.False(t, o.HasCurrentLobby())
	assert.True(t, o.autohost.disabled)
}

func TestAutohostSkipsWhenLobbyExists(t *testing.T) {
	cfg := autohostConfig()
	o := newTestOrchestrator(nil, nil, cfg)
	o.currentLobby = &fakeGame{}

	before := o.autohost.lastAttempt
	o.autohost.tick(o)
	assert.Equal(t, before, o.autohost.lastAttempt)
}

func TestAutohostRandomModePicksFromCandidates(t *testing.T) {
	cfg := autohostConfig()
	cfg.RandomMode = RandomMapRandom
	o := newTestOrchestrator(nil, nil, cfg)
	m := &fakeMap{valid: true, path: "maps/random.w3x"}
	o.autohost.loader = &fakeMapLoader{
		candidates: []string{"random.w3x"},
		maps:       map[string]Map{"random.w3x": m},
	}

	o.autohost.tick(o)
	assert.True(t, o.HasCurrentLobby())
}

func TestAutohostSetsMatchmakingOnlyWithFixedSettings(t *testing.T) {
	cfg := autohostConfig()
	cfg.MatchmakingEnabled = true
	o := newTestOrchestrator(nil, nil, cfg)
	o.autohost.cachedMap = &fakeMap{valid: true, path: "maps/x.w3x", matchmakingCategory: "ffa", fixedPlayerSettings: false}
	o.autohost.cachedMapSet = true

	o.autohost.tick(o)

	lobby := o.currentLobby.(*fakeGame)
	assert.False(t, lobby.matchmakingEnabled)
}

func TestAutohostConfiguredRequiresAllFields(t *testing.T) {
	a := newAutohostController(AutohostConfig{})
	assert.False(t, a.configured())

	a2 := newAutohostController(autohostConfig())
	assert.True(t, a2.configured())
}
