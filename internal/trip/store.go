package trip

import (
	"context"
	"sync"
)

// Store is the source of truth for trips. Ids start at 1 and are never reused;
// List returns trips in insertion order, each carrying its "id"; deleting an
// unknown id succeeds.
type Store interface {
	Create(ctx context.Context, doc Doc) (int64, error)
	List(ctx context.Context) ([]Doc, error)
	Delete(ctx context.Context, id int64) error
}

type entry struct {
	id  int64
	doc Doc
}

// MemoryStore keeps trips for the lifetime of the process.
type MemoryStore struct {
	mu     sync.RWMutex
	trips  []entry
	nextID int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{nextID: 1}
}

func (s *MemoryStore) Create(_ context.Context, doc Doc) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextID
	s.nextID++
	s.trips = append(s.trips, entry{id: id, doc: doc.WithID(id)})
	return id, nil
}

func (s *MemoryStore) List(_ context.Context) ([]Doc, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]Doc, len(s.trips))
	for i, e := range s.trips {
		out[i] = e.doc.WithID(e.id)
	}
	return out, nil
}

func (s *MemoryStore) Delete(_ context.Context, id int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	kept := s.trips[:0]
	for _, e := range s.trips {
		if e.id != id {
			kept = append(kept, e)
		}
	}
	s.trips = kept
	return nil
}
