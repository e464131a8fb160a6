package memory

import (
	"context"
	"sync"

	"github.com/veracite-labs/veracite-cli/internal/core/domain"
	"github.com/veracite-labs/veracite-cli/internal/core/ports/driven"
)

// Ensure ReferenceStore implements the interface.
var _ driven.ReferenceStore = (*ReferenceStore)(nil)

// ReferenceStore is an in-memory implementation of driven.ReferenceStore.
type ReferenceStore struct {
	mu   sync.RWMutex
	refs map[string]domain.Reference
}

// NewReferenceStore creates a new in-memory reference store.
func NewReferenceStore() *ReferenceStore {
	return &ReferenceStore{
		refs: make(map[string]domain.Reference),
	}
}

// SaveReferences stores or updates bibliographic records.
func (s *ReferenceStore) SaveReferences(_ context.Context, refs []domain.Reference) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, ref := range refs {
		s.refs[ref.ID] = ref
	}
	return nil
}

// GetReference retrieves a record by ID.
func (s *ReferenceStore) GetReference(_ context.Context, id string) (*domain.Reference, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ref, ok := s.refs[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return &ref, nil
}

// ReferenceIDs returns the set of all known reference ids.
func (s *ReferenceStore) ReferenceIDs(_ context.Context) (map[string]struct{}, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	ids := make(map[string]struct{}, len(s.refs))
	for id := range s.refs {
		ids[id] = struct{}{}
	}
	return ids, nil
}
