// Package session tracks the connection state of every client the server
// has seen.
//
// A session moves through Unconnected → Approved → Active → Disconnected.
// Approved means the handshake secret matched; Active means an entity was
// allocated. Disconnected is terminal.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/pkg/errors"
)

// State is the connection state of a session.
type State int

// Session states.
const (
	Unconnected State = iota
	Approved
	Active
	Disconnected
)

func (s State) String() string {
	switch s {
	case Unconnected:
		return "unconnected"
	case Approved:
		return "approved"
	case Active:
		return "active"
	case Disconnected:
		return "disconnected"
	}
	return "unknown"
}

// next lists the states reachable from each state.
var next = map[State][]State{
	Unconnected: {Approved, Disconnected},
	Approved:    {Active, Disconnected},
	Active:      {Disconnected},
}

func canMove(from, to State) bool {
	for _, s := range next[from] {
		if s == to {
			return true
		}
	}
	return false
}

// Store persists sessions.
type Store interface {
	New(id uuid.UUID, remote string) error
	Get(id uuid.UUID) (Session, error)
	Approve(id uuid.UUID) error
	Activate(id uuid.UUID, entityID int) error
	Disconnect(id uuid.UUID) error
	Clear(id uuid.UUID) error
}

// Session is the known state of one connection.
type Session struct {
	ID        uuid.UUID
	Remote    string
	State     State
	EntityID  int
	CreatedAt time.Time
}

// MemoryStore is an in-memory Store safe for concurrent use.
type MemoryStore struct {
	sessions map[uuid.UUID]Session
	mu       sync.RWMutex
}

// NewMemoryStore creates an empty MemoryStore.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[uuid.UUID]Session),
	}
}

func (p *MemoryStore) New(id uuid.UUID, remote string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; ok {
		return ErrSessionAlreadyExists
	}
	p.sessions[id] = Session{
		ID:        id,
		Remote:    remote,
		State:     Unconnected,
		EntityID:  -1,
		CreatedAt: time.Now(),
	}
	return nil
}

func (p *MemoryStore) Get(id uuid.UUID) (Session, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	if sess, ok := p.sessions[id]; ok {
		return sess, nil
	}
	return Session{}, ErrSessionNotFound
}

func (p *MemoryStore) Approve(id uuid.UUID) error {
	return p.move(id, Approved, func(*Session) {})
}

func (p *MemoryStore) Activate(id uuid.UUID, entityID int) error {
	return p.move(id, Active, func(s *Session) {
		s.EntityID = entityID
	})
}

func (p *MemoryStore) Disconnect(id uuid.UUID) error {
	return p.move(id, Disconnected, func(*Session) {})
}

func (p *MemoryStore) Clear(id uuid.UUID) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if _, ok := p.sessions[id]; !ok {
		return ErrSessionNotFound
	}
	delete(p.sessions, id)
	return nil
}

func (p *MemoryStore) move(id uuid.UUID, to State, update func(*Session)) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	cpy, ok := p.sessions[id]
	if !ok {
		return ErrSessionNotFound
	}
	if !canMove(cpy.State, to) {
		return errors.Wrapf(ErrInvalidTransition, "%s to %s", cpy.State, to)
	}
	cpy.State = to
	update(&cpy)
	p.sessions[id] = cpy
	return nil
}
