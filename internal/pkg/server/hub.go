package server

import (
	"sync"

	"github.com/google/uuid"
)

// DefaultQueueSize is the number of frames buffered per session.
const DefaultQueueSize = 64

// Hub fans encoded frames out to the outbound queue of every registered session.
//
// Frames are shared between queues and must not be modified by receivers.
// A session whose queue is full is dropped: its channel is closed, which the
// owning transport observes as the end of the connection. Snapshots are never
// silently skipped for a session that stays registered.
type Hub struct {
	mu     sync.Mutex
	queues map[uuid.UUID]chan []byte
	size   int
	closed bool
}

// NewHub creates a Hub buffering size frames per session.
func NewHub(size int) *Hub {
	if size <= 0 {
		size = DefaultQueueSize
	}
	return &Hub{
		queues: make(map[uuid.UUID]chan []byte),
		size:   size,
	}
}

// Register creates the outbound queue of a session.
func (h *Hub) Register(id uuid.UUID) <-chan []byte {
	h.mu.Lock()
	defer h.mu.Unlock()
	q := make(chan []byte, h.size)
	if h.closed {
		close(q)
		return q
	}
	if old, ok := h.queues[id]; ok {
		close(old)
	}
	h.queues[id] = q
	return q
}

// Unregister closes and removes the queue of a session.
func (h *Hub) Unregister(id uuid.UUID) {
	h.mu.Lock()
	defer h.mu.Unlock()
	if q, ok := h.queues[id]; ok {
		close(q)
		delete(h.queues, id)
	}
}

// Broadcast queues frame for every session and returns the sessions dropped
// because their queue was full.
func (h *Hub) Broadcast(frame []byte) []uuid.UUID {
	h.mu.Lock()
	defer h.mu.Unlock()
	var dropped []uuid.UUID
	for id, q := range h.queues {
		select {
		case q <- frame:
		default:
			close(q)
			delete(h.queues, id)
			dropped = append(dropped, id)
		}
	}
	return dropped
}

// Len returns the number of registered sessions.
func (h *Hub) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.queues)
}

// Close closes every queue. Later registrations receive a closed queue.
func (h *Hub) Close() {
	h.mu.Lock()
	defer h.mu.Unlock()
	for id, q := range h.queues {
		close(q)
		delete(h.queues, id)
	}
	h.closed = true
}
