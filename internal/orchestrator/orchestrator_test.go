package orchestrator

import (
	"net"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilippHeuer/ghostpp/internal/reconnect"
)

func TestComputeBudgetFloorsAtMinBudget(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	o.games = []Game{&fakeGame{nextTicks: 0}}

	assert.Equal(t, minBudget, o.computeBudget())
}

func TestComputeBudgetUsesFastestGame(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	o.games = []Game{&fakeGame{nextTicks: 5000}, &fakeGame{nextTicks: 10}}

	assert.Equal(t, 10*time.Millisecond, o.computeBudget())
}

func TestComputeBudgetFallsBackToDefault(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	assert.Equal(t, defaultBudget, o.computeBudget())
}

func TestStepReapsCallablesAndGames(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	o.games = []Game{&fakeGame{readyDelete: true}}

	done, err := o.step()
	require.NoError(t, err)
	assert.False(t, done)
	assert.Empty(t, o.games)
}

func TestStepReturnsDoneWhenRealmRequestsExit(t *testing.T) {
	realm := &fakeRealm{shouldExit: true}
	o := newTestOrchestrator(nil, []Realm{realm}, AutohostConfig{})

	done, err := o.step()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStepReturnsDoneOnDatabaseError(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	o.db = &fakeDB{hasErr: true, errText: "connection lost"}

	done, err := o.step()
	require.NoError(t, err)
	assert.True(t, done)
}

func TestStepKeepsPendingReconnectWithinWindow(t *testing.T) {
	o := newTestOrchestrator(nil, nil, AutohostConfig{})
	client, server := net.Pipe()
	defer client.Close()

	o.inbox.Post(&reconnect.PendingReconnect{PlayerID: 1, ReconnectKey: 1, PostedTicks: o.clock.NowMS(), Conn: server})

	_, err := o.step()
	require.NoError(t, err)
	assert.Equal(t, 1, o.inbox.Len(), "not yet expired immediately")
}
