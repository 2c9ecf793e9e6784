// internal/store/memory.go
//
// In-memory implementation of the session Store interface.
// This is a lightweight persistence layer for live game sessions; a session
// lives exactly as long as the broadcast it drives, so durability is not
// required and state is lost when the process restarts.
//
// Characteristics:
//   - Stores *game.Session objects keyed by ID in a map.
//   - The session state machine itself is not concurrency-safe, so every
//     access goes through WithSession, which serializes callers per entry.
//   - ErrNotFound is returned for missing session IDs.

package store

import (
	"context"
	"errors"
	"sync"

	"github.com/diveno-ludo/diveno-server/internal/game"
)

// ErrNotFound is returned when a session ID is unknown.
var ErrNotFound = errors.New("store: session not found")

// Store defines the persistence interface for game sessions.
// Implementations may be backed by memory (this package), Redis, SQL, etc.
type Store interface {
	// Save registers a new session or replaces an existing one.
	Save(ctx context.Context, s *game.Session) error

	// WithSession runs fn with exclusive access to the session. The
	// session must not escape fn.
	WithSession(ctx context.Context, id string, fn func(*game.Session) error) error
}

// entry pairs a session with the lock that serializes access to it.
type entry struct {
	mu      sync.Mutex
	session *game.Session
}

// memory is an in-memory map-based Store implementation.
type memory struct {
	mu       sync.RWMutex // guards sessions map
	sessions map[string]*entry
}

// NewMemoryStore constructs a new in-memory Store.
func NewMemoryStore() Store {
	return &memory{sessions: make(map[string]*entry)}
}

// Save adds or replaces the session in the map.
func (m *memory) Save(ctx context.Context, s *game.Session) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[s.ID] = &entry{session: s}
	return nil
}

// WithSession locks the entry and runs fn on its session.
func (m *memory) WithSession(ctx context.Context, id string, fn func(*game.Session) error) error {
	m.mu.RLock()
	e, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return ErrNotFound
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	return fn(e.session)
}
