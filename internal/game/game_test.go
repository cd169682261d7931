package game

import (
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewBindsAndAccepts(t *testing.T) {
	s, err := New(1, nil, nil, 0, zerolog.New(io.Discard))
	require.NoError(t, err)
	defer s.listener.Close()

	addr := s.listener.Addr().String()
	conn, err := net.Dial("tcp", addr)
	require.NoError(t, err)
	defer conn.Close()

	require.Eventually(t, func() bool {
		return s.HasHumanPlayers()
	}, time.Second, 5*time.Millisecond)
}

func TestSetExitingWithNoClientsIsImmediatelyReadyDelete(t *testing.T) {
	s, err := New(1, nil, nil, 0, zerolog.New(io.Discard))
	require.NoError(t, err)

	s.SetExiting()
	assert.True(t, s.ReadyDelete())
}

func TestSetExitingWaitsForClientsToDisconnect(t *testing.T) {
	s, err := New(1, nil, nil, 0, zerolog.New(io.Discard))
	require.NoError(t, err)

	conn, err := net.Dial("tcp", s.listener.Addr().String())
	require.NoError(t, err)

	require.Eventually(t, func() bool { return s.HasHumanPlayers() }, time.Second, 5*time.Millisecond)

	s.SetExiting()
	assert.False(t, s.ReadyDelete(), "still has a connected client")

	conn.Close()
	require.Eventually(t, func() bool { return s.ReadyDelete() }, time.Second, 5*time.Millisecond)
}

func TestNextTimedActionTicksZeroWhenExiting(t *testing.T) {
	s, err := New(1, nil, nil, 0, zerolog.New(io.Discard))
	require.NoError(t, err)
	s.SetExiting()
	assert.Equal(t, uint32(0), s.NextTimedActionTicks())
}
