package credential

import (
	"context"
	"sync"
)

// MemoryStore keeps the credential record in process memory. It satisfies
// [Store] for tests and for callers that explicitly opt out of durability.
type MemoryStore struct {
	mu  sync.Mutex
	rec Record
	set bool
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

// Load returns the stored record or [ErrNotFound].
func (s *MemoryStore) Load(ctx context.Context) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.set {
		return Record{}, ErrNotFound
	}
	return s.rec, nil
}

// Save stores the record, replacing any previous one.
func (s *MemoryStore) Save(ctx context.Context, rec Record) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = rec
	s.set = true
	return nil
}

// Delete removes the record. Deleting an absent record is a no-op.
func (s *MemoryStore) Delete(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.rec = Record{}
	s.set = false
	return nil
}
