package activity

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/zerrors"
)

const resourceName = "activity entry"

// PostgresStore implements Store using PostgreSQL
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL activity store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

func (s *PostgresStore) Create(ctx context.Context, entry *Entry) error {
	if _, err := s.db.NewInsert().Model(entry).Exec(ctx); err != nil {
		return zerrors.NewStorageQueryError("create", resourceName, err)
	}
	return nil
}

func (s *PostgresStore) ListRecent(ctx context.Context, limit int) ([]*Entry, error) {
	entries := make([]*Entry, 0)
	err := s.db.NewSelect().
		Model(&entries).
		Order("timestamp DESC").
		Limit(limit).
		Scan(ctx)
	if err != nil {
		return nil, zerrors.NewStorageQueryError("list", resourceName, err)
	}
	return entries, nil
}

func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return zerrors.NewStorageConnectionError("ping", resourceName, err)
	}
	return nil
}
