package activity

import "context"

// Store persists activity entries
type Store interface {
	// Create persists a new entry
	Create(ctx context.Context, entry *Entry) error

	// ListRecent returns up to limit entries, newest first
	ListRecent(ctx context.Context, limit int) ([]*Entry, error)

	Ping(ctx context.Context) error
}
