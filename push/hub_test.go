package push

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestHubBroadcastReachesAllSessions(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch1, _ := hub.AddSession(ctx)
	ch2, _ := hub.AddSession(ctx)
	require.Equal(t, 2, hub.ActiveSessionCount())

	event := Event{Name: "post:new", Payload: json.RawMessage(`{"id":1}`)}
	hub.Broadcast(event)

	for _, ch := range []<-chan Event{ch1, ch2} {
		select {
		case got := <-ch:
			require.Equal(t, event, got)
		case <-time.After(time.Second):
			t.Fatal("session did not receive broadcast")
		}
	}
}

func TestHubSessionCleanup(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())

	ch, _ := hub.AddSession(ctx)
	require.Equal(t, 1, hub.ActiveSessionCount())

	cancel()

	// The background cleaner closes the channel and removes the session.
	select {
	case _, ok := <-ch:
		require.False(t, ok)
	case <-time.After(time.Second):
		t.Fatal("session channel was not closed")
	}
	require.Eventually(t, func() bool {
		return hub.ActiveSessionCount() == 0
	}, time.Second, 10*time.Millisecond)
}

func TestHubBroadcastDropsForSlowSession(t *testing.T) {
	hub := NewHub()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	ch, _ := hub.AddSession(ctx)

	// Nobody drains ch, overflow past the buffer must not block.
	done := make(chan struct{})
	go func() {
		for i := 0; i < sessionBufferSize+5; i++ {
			hub.Broadcast(Event{Name: "post:new"})
		}
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("broadcast blocked on a slow session")
	}
	require.Len(t, ch, sessionBufferSize)
}
