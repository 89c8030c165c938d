package session

import (
	"sync"
	"time"

	"sweet-treats/internal/cart"
	"sweet-treats/internal/domain"

	"github.com/google/uuid"
)

// Session is one browser tab's isolated ordering state. Sessions never see
// each other; the only cross-session event is catalog reconciliation.
type Session struct {
	ID       uuid.UUID
	Cart     *cart.Cart
	lastSeen time.Time
}

// Manager owns all live sessions. Carts exist only in memory; an evicted or
// lost session simply starts over, matching the refresh-the-tab model of
// the storefront.
type Manager struct {
	mu       sync.Mutex
	sessions map[uuid.UUID]*Session
	zones    []domain.ShippingZone
	ttl      time.Duration
	now      func() time.Time
}

// NewManager creates a Manager whose sessions expire after ttl without
// activity.
func NewManager(zones []domain.ShippingZone, ttl time.Duration) *Manager {
	return &Manager{
		sessions: make(map[uuid.UUID]*Session),
		zones:    zones,
		ttl:      ttl,
		now:      time.Now,
	}
}

// Create starts a fresh session with an empty cart.
func (m *Manager) Create() *Session {
	m.mu.Lock()
	defer m.mu.Unlock()

	s := &Session{
		ID:       uuid.New(),
		Cart:     cart.New(m.zones),
		lastSeen: m.now(),
	}
	m.sessions[s.ID] = s
	return s
}

// Get returns the session with the given ID and marks it as seen.
func (m *Manager) Get(id uuid.UUID) (*Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	s, ok := m.sessions[id]
	if !ok {
		return nil, false
	}
	s.lastSeen = m.now()
	return s, true
}

// Count returns the number of live sessions.
func (m *Manager) Count() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sessions)
}

// ReconcileAll runs stock reconciliation over every live cart after a
// catalog reload.
func (m *Manager) ReconcileAll(lookup cart.ProductLookup) {
	m.mu.Lock()
	carts := make([]*cart.Cart, 0, len(m.sessions))
	for _, s := range m.sessions {
		carts = append(carts, s.Cart)
	}
	m.mu.Unlock()

	for _, c := range carts {
		c.Reconcile(lookup)
	}
}

// PruneExpired drops sessions idle for longer than the TTL and returns how
// many were removed.
func (m *Manager) PruneExpired() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	cutoff := m.now().Add(-m.ttl)
	removed := 0
	for id, s := range m.sessions {
		if s.lastSeen.Before(cutoff) {
			delete(m.sessions, id)
			removed++
		}
	}
	return removed
}

// PruneLoop prunes on the given cadence until ctx is done. Intended to run
// in its own goroutine.
func (m *Manager) PruneLoop(done <-chan struct{}, every time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			m.PruneExpired()
		}
	}
}
