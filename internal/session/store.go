package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/crossfade/internal/shared"
)

// Store persists review sessions between API requests.
type Store interface {
	// Put stores or replaces a session.
	Put(s *ReviewSession) error

	// Get returns the session with the given ID, or ErrSessionNotFound.
	Get(id string) (*ReviewSession, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(id string) error

	// List returns summaries of all live sessions.
	List() []Summary
}

type memoryEntry struct {
	session   *ReviewSession
	expiresAt time.Time
}

// MemoryStore is an in-memory Store with per-session TTL. Expired sessions
// are dropped lazily on access and swept on writes.
type MemoryStore struct {
	mu      sync.RWMutex
	entries map[string]memoryEntry
	ttl     time.Duration
	now     func() time.Time
}

// NewMemoryStore creates a MemoryStore. A non-positive ttl means sessions
// never expire.
func NewMemoryStore(ttl time.Duration) *MemoryStore {
	return &MemoryStore{
		entries: make(map[string]memoryEntry),
		ttl:     ttl,
		now:     time.Now,
	}
}

func (m *MemoryStore) Put(s *ReviewSession) error {
	if s == nil || s.ID == "" {
		return fmt.Errorf("%w: session has no ID", shared.ErrInvalidInput)
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	m.sweepLocked()

	entry := memoryEntry{session: s}
	if m.ttl > 0 {
		entry.expiresAt = m.now().Add(m.ttl)
	}
	m.entries[s.ID] = entry
	return nil
}

func (m *MemoryStore) Get(id string) (*ReviewSession, error) {
	m.mu.RLock()
	entry, ok := m.entries[id]
	m.mu.RUnlock()

	if !ok {
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	if m.expired(entry) {
		m.mu.Lock()
		delete(m.entries, id)
		m.mu.Unlock()
		return nil, fmt.Errorf("%w: %s", shared.ErrSessionNotFound, id)
	}
	return entry.session, nil
}

func (m *MemoryStore) Delete(id string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.entries, id)
	return nil
}

func (m *MemoryStore) List() []Summary {
	m.mu.Lock()
	m.sweepLocked()
	sessions := make([]*ReviewSession, 0, len(m.entries))
	for _, entry := range m.entries {
		sessions = append(sessions, entry.session)
	}
	m.mu.Unlock()

	summaries := make([]Summary, 0, len(sessions))
	for _, s := range sessions {
		summaries = append(summaries, s.Summarize())
	}
	return summaries
}

func (m *MemoryStore) expired(entry memoryEntry) bool {
	return !entry.expiresAt.IsZero() && m.now().After(entry.expiresAt)
}

func (m *MemoryStore) sweepLocked() {
	for id, entry := range m.entries {
		if m.expired(entry) {
			delete(m.entries, id)
		}
	}
}
