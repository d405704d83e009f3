package history

import "context"

// Store defines the interface for pairing history persistence
type Store interface {
	// Create persists a new pending record and assigns its ID and CreatedAt
	Create(ctx context.Context, p Participants) (*Record, error)

	// List returns every record, newest first
	List(ctx context.Context) ([]*Record, error)

	// Latest returns the newest record, or nil when history is empty
	Latest(ctx context.Context) (*Record, error)

	// UpdateParticipants overwrites the pair of an existing record in place
	UpdateParticipants(ctx context.Context, id int64, p Participants) (*Record, error)

	// SetCompleted sets the completed flag of an existing record
	SetCompleted(ctx context.Context, id int64, completed bool) (*Record, error)

	// Ping checks that the store is reachable
	Ping(ctx context.Context) error
}
