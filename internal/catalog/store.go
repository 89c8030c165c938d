package catalog

import (
	"sync"
	"time"

	"sweet-treats/internal/domain"
)

// Snapshot is one immutable view of the catalog, derived from a single feed
// fetch. Loads replace the whole snapshot; nothing ever mutates one in
// place, so readers may hold it without locking.
type Snapshot struct {
	Products    []domain.Product
	Fingerprint uint64
	LoadedAt    time.Time

	byID map[string]*domain.Product
}

// NewSnapshot indexes the product list for lookup by ID.
func NewSnapshot(products []domain.Product, fingerprint uint64, loadedAt time.Time) *Snapshot {
	byID := make(map[string]*domain.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}
	return &Snapshot{
		Products:    products,
		Fingerprint: fingerprint,
		LoadedAt:    loadedAt,
		byID:        byID,
	}
}

// Find returns the product with the given ID, if present in this snapshot.
func (s *Snapshot) Find(id string) (*domain.Product, bool) {
	p, ok := s.byID[id]
	return p, ok
}

// Store holds the current catalog snapshot. It starts empty and stays on
// the previous snapshot whenever a load fails, so customers keep seeing the
// last good menu.
type Store struct {
	mu   sync.RWMutex
	snap *Snapshot
}

// NewStore returns an empty Store.
func NewStore() *Store {
	return &Store{}
}

// Current returns the latest snapshot, or nil when no load has succeeded
// yet.
func (s *Store) Current() *Snapshot {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.snap
}

func (s *Store) replace(snap *Snapshot) {
	s.mu.Lock()
	s.snap = snap
	s.mu.Unlock()
}
