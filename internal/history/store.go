package history

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/pairup/pairup/internal/zerrors"
)

// InMemoryStore implements Store with in-memory storage
type InMemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	records map[int64]*Record
	now     func() time.Time
}

// NewInMemoryStore creates a new in-memory store
func NewInMemoryStore() *InMemoryStore {
	return &InMemoryStore{
		nextID:  1,
		records: make(map[int64]*Record),
		now:     time.Now,
	}
}

// WithClock replaces the time source used for CreatedAt
func (s *InMemoryStore) WithClock(now func() time.Time) *InMemoryStore {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.now = now
	return s
}

// Create stores a new pending record
func (s *InMemoryStore) Create(ctx context.Context, p Participants) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record := &Record{
		ID:               s.nextID,
		FirstName:        p.First.Name,
		FirstIdentifier:  p.First.Identifier,
		SecondName:       p.Second.Name,
		SecondIdentifier: p.Second.Identifier,
		CreatedAt:        s.now().UTC(),
	}
	s.records[record.ID] = record
	s.nextID++

	clone := *record
	return &clone, nil
}

// Insert stores a fully formed record as-is, keeping its ID and CreatedAt
func (s *InMemoryStore) Insert(record Record) {
	s.mu.Lock()
	defer s.mu.Unlock()

	clone := record
	s.records[clone.ID] = &clone
	if clone.ID >= s.nextID {
		s.nextID = clone.ID + 1
	}
}

// List returns copies of every record, newest first
func (s *InMemoryStore) List(ctx context.Context) ([]*Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]*Record, 0, len(s.records))
	for _, record := range s.records {
		clone := *record
		out = append(out, &clone)
	}
	sort.Slice(out, func(i, j int) bool { return Newer(out[i], out[j]) })
	return out, nil
}

// Latest returns the newest record or nil when empty
func (s *InMemoryStore) Latest(ctx context.Context) (*Record, error) {
	records, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[0], nil
}

// UpdateParticipants rewrites both sides of an existing record
func (s *InMemoryStore) UpdateParticipants(ctx context.Context, id int64, p Participants) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[id]
	if !exists {
		return nil, zerrors.NewNotFoundError("pairing record", id)
	}

	record.FirstName = p.First.Name
	record.FirstIdentifier = p.First.Identifier
	record.SecondName = p.Second.Name
	record.SecondIdentifier = p.Second.Identifier

	clone := *record
	return &clone, nil
}

// SetCompleted sets the completed flag of an existing record
func (s *InMemoryStore) SetCompleted(ctx context.Context, id int64, completed bool) (*Record, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	record, exists := s.records[id]
	if !exists {
		return nil, zerrors.NewNotFoundError("pairing record", id)
	}
	record.Completed = completed

	clone := *record
	return &clone, nil
}

// Ping always succeeds
func (s *InMemoryStore) Ping(ctx context.Context) error {
	return nil
}
