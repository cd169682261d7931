package realm

import (
	"context"
	"io"
	"net"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/PhilippHeuer/ghostpp/internal/orchestrator"
)

func TestSessionGettersReflectConfig(t *testing.T) {
	s := New(Config{Server: "a.example:6112", Alias: "A", HoldFriends: true, PvPGN: true}, orchestrator.NewMultiplexer(), zerolog.New(io.Discard))

	assert.Equal(t, "a.example:6112", s.Server())
	assert.Equal(t, "A", s.Alias())
	assert.True(t, s.GetHoldFriends())
	assert.False(t, s.GetHoldClan())
	assert.True(t, s.IsPvPGN())
}

func TestQueueChatDrainedOnUpdate(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, _ := ln.Accept()
		accepted <- conn
	}()

	s := New(Config{Server: ln.Addr().String()}, orchestrator.NewMultiplexer(), zerolog.New(io.Discard))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(time.Second):
		t.Fatal("realm never dialed in")
	}
	defer server.Close()

	s.QueueChat("hello", "", false)

	require.Eventually(t, func() bool {
		s.Update()
		return true
	}, time.Second, 10*time.Millisecond)

	server.SetReadDeadline(time.Now().Add(time.Second))
	buf := make([]byte, 64)
	n, err := server.Read(buf)
	require.NoError(t, err)
	assert.Contains(t, string(buf[:n]), "hello")
}

func TestDestroyClosesConnectionAndStopsReconnecting(t *testing.T) {
	ln, err := net.Listen("tcp", ":0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err == nil {
			conn.Close()
		}
	}()

	s := New(Config{Server: ln.Addr().String()}, orchestrator.NewMultiplexer(), zerolog.New(io.Discard))
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go s.Run(ctx)

	time.Sleep(50 * time.Millisecond)
	s.Destroy()

	assert.True(t, s.destroyed.Load())
}
