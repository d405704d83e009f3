package activity

import (
	"context"
	"sort"
	"sync"
)

// InMemoryStore implements Store with in-memory storage
type InMemoryStore struct {
	mu      sync.RWMutex
	entries []*Entry
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{entries: make([]*Entry, 0)}
}

func (s *InMemoryStore) Create(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := *entry
	s.entries = append(s.entries, &clone)
	return nil
}

func (s *InMemoryStore) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Entry, 0, len(s.entries))
	for _, e := range s.entries {
		clone := *e
		out = append(out, &clone)
	}
	// later inserts first among equal timestamps
	for i, j := 0, len(out)-1; i < j; i, j = i+1, j-1 {
		out[i], out[j] = out[j], out[i]
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Timestamp.After(out[j].Timestamp)
	})

	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out, nil
}

func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}
