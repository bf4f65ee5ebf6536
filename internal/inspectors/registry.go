// Package inspectors maintains the panel of registered specialists and
// their reputation, the pool the verification engine samples panels from.
package inspectors

import (
	"sync"

	"github.com/whistlechain/coordinator/internal/apperr"
	"github.com/whistlechain/coordinator/pkg/models"
)

type entry struct {
	inspector  models.Inspector
	reputation models.Reputation
}

// Registry is a concurrency-safe directory of inspectors.
type Registry struct {
	mu      sync.RWMutex
	entries map[string]*entry
}

func New() *Registry {
	return &Registry{entries: make(map[string]*entry)}
}

// Register adds a new inspector. Duplicate addresses are rejected.
func (r *Registry) Register(ins models.Inspector) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.entries[ins.Address]; exists {
		return apperr.Validation("inspector " + ins.Address + " already registered")
	}
	r.entries[ins.Address] = &entry{inspector: ins, reputation: models.NewReputation()}
	return nil
}

// UpdateProfile patches the mutable profile fields of an existing inspector.
func (r *Registry) UpdateProfile(address string, fn func(ins *models.Inspector)) (*models.Inspector, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[address]
	if !ok {
		return nil, apperr.NotFound("inspector " + address + " not found")
	}
	fn(&e.inspector)
	cp := e.inspector
	return &cp, nil
}

// Get returns one inspector's current profile.
func (r *Registry) Get(address string) (*models.Inspector, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[address]
	if !ok {
		return nil, apperr.NotFound("inspector " + address + " not found")
	}
	cp := e.inspector
	return &cp, nil
}

// Pool returns every active inspector specialized in the category, or the
// full active roster when category is empty.
func (r *Registry) Pool(category models.Category) []models.Inspector {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make([]models.Inspector, 0)
	for _, e := range r.entries {
		if !e.inspector.Active {
			continue
		}
		if category != "" && !e.inspector.HasSpecialization(category) {
			continue
		}
		out = append(out, e.inspector)
	}
	return out
}

// CasesOf returns the evidence ids this inspector is currently assigned to.
func (r *Registry) CasesOf(address string) ([]string, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[address]
	if !ok {
		return nil, apperr.NotFound("inspector " + address + " not found")
	}
	out := make([]string, len(e.inspector.CasesAssigned))
	copy(out, e.inspector.CasesAssigned)
	return out, nil
}

// CredibilityOf returns this inspector's current credibility weight.
func (r *Registry) CredibilityOf(address string) (float64, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	e, ok := r.entries[address]
	if !ok {
		return 0, apperr.NotFound("inspector " + address + " not found")
	}
	return e.reputation.CredibilityWeight, nil
}

// AssignCase records that a panel seat for evidenceID was filled by this
// inspector.
func (r *Registry) AssignCase(address, evidenceID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[address]
	if !ok {
		return apperr.NotFound("inspector " + address + " not found")
	}
	e.inspector.CasesAssigned = append(e.inspector.CasesAssigned, evidenceID)
	return nil
}

// RecordVote folds one finalized vote's outcome into the inspector's
// reputation. Called only by the verification engine at finalization.
func (r *Registry) RecordVote(address string, matchedConsensus bool) (models.Reputation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[address]
	if !ok {
		return models.Reputation{}, apperr.NotFound("inspector " + address + " not found")
	}
	e.reputation.RecordVote(matchedConsensus)
	return e.reputation, nil
}
