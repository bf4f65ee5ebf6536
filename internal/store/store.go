// Package store holds the coordinator's authoritative in-process view of
// every evidence record. The chain remains the source of truth for stake
// and verdicts; this store is the fast-path projection the API reads and
// patches instead of re-querying the ledger per request.
package store

import (
	"sync"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/pkg/models"
)

// Store is a concurrency-safe registry of evidence records keyed by id.
type Store struct {
	mu    sync.RWMutex
	items map[string]*models.Evidence
}

func New() *Store {
	return &Store{items: make(map[string]*models.Evidence)}
}

func (s *Store) Insert(e *models.Evidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.items[e.ID] = e
}

func (s *Store) Get(id string) (*models.Evidence, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("evidence " + id + " not found")
	}
	return e, nil
}

// Patch applies fn to the stored record under the write lock and returns
// the updated value. fn must not retain a reference to e beyond its call.
func (s *Store) Patch(id string, fn func(e *models.Evidence) error) (*models.Evidence, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.items[id]
	if !ok {
		return nil, apperr.NotFound("evidence " + id + " not found")
	}
	if err := fn(e); err != nil {
		return nil, err
	}
	return e, nil
}

func (s *Store) ListAll() []*models.Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Evidence, 0, len(s.items))
	for _, e := range s.items {
		out = append(out, e)
	}
	return out
}

func (s *Store) ListByWallet(address string) []*models.Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Evidence, 0)
	for _, e := range s.items {
		if e.SubmitterAddress == address {
			out = append(out, e)
		}
	}
	return out
}

func (s *Store) ListByStatus(status models.Status) []*models.Evidence {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]*models.Evidence, 0)
	for _, e := range s.items {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}

// Snapshot returns a shallow copy of the full evidence set. The coordinator
// itself does not call it.
func (s *Store) Snapshot() []*models.Evidence {
	return s.ListAll()
}

// Restore bulk-loads records, overwriting any existing entries with the
// same id. The coordinator does not call it at startup; the Postgres mirror
// is written to but never read back.
func (s *Store) Restore(items []*models.Evidence) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, e := range items {
		s.items[e.ID] = e
	}
}
