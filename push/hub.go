package push

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/google/uuid"
	Logger "github.com/kabar-app/kabar/utils/log"
)

// Event is a single client-facing push message: a named event plus its raw
// JSON payload, exactly as published on the relay.
type Event struct {
	Name    string          `json:"event"`
	Payload json.RawMessage `json:"payload"`
}

const sessionBufferSize = 16

// Hub tracks all currently connected push sessions. All internal state must
// not be touched directly but managed by its public receivers.
type Hub struct {
	// sessions maps session id (uuid) to the session's outbound channel, so
	// that removal of a session is O(1). A session channel is buffered; a
	// session that cannot drain its buffer has events dropped rather than
	// blocking the broadcast for everyone else.
	sessions map[string]chan Event

	// Adding/Removing a session must grab the write lock, while broadcasting
	// grabs the read lock.
	mu sync.RWMutex
}

func NewHub() *Hub {
	return &Hub{
		sessions: make(map[string]chan Event),
	}
}

// cleanUp a single session when its context terminates.
func (h *Hub) cleanUp(ctx context.Context, sessionID string) {
	<-ctx.Done()

	h.mu.Lock()
	defer h.mu.Unlock()

	if ch, ok := h.sessions[sessionID]; ok {
		close(ch)
		delete(h.sessions, sessionID)
	}
}

// AddSession registers a new connected session and returns its event channel.
// The session is removed automatically once ctx is done. Thread-safe.
func (h *Hub) AddSession(ctx context.Context) (<-chan Event, string) {
	sessionID := "push_session_" + uuid.New().String()
	ch := make(chan Event, sessionBufferSize)

	h.mu.Lock()
	defer h.mu.Unlock()

	h.sessions[sessionID] = ch

	// Spin up a background garbage collector.
	go h.cleanUp(ctx, sessionID)

	return ch, sessionID
}

// ActiveSessionCount returns the number of connected sessions. Thread-safe.
func (h *Hub) ActiveSessionCount() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.sessions)
}

// Broadcast fans the event out to every connected session. Delivery is
// best-effort: a session whose buffer is full simply misses the event, the
// client recovers on its next full fetch. Thread-safe.
func (h *Hub) Broadcast(event Event) {
	h.mu.RLock()
	defer h.mu.RUnlock()

	for id, ch := range h.sessions {
		select {
		case ch <- event:
		default:
			Logger.Log.Warnln("drop push event", event.Name, "for slow session", id)
		}
	}
}
