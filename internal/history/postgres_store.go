package history

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/zerrors"
)

const resourceName = "pairing_history"

// RecordSchema represents the pairing_history table schema
type RecordSchema struct {
	bun.BaseModel `bun:"table:pairing_history,alias:ph"`

	ID               int64     `bun:"id,pk,autoincrement" json:"id"`
	FirstName        string    `bun:"first_name,notnull" json:"first_name"`
	FirstIdentifier  string    `bun:"first_identifier,notnull" json:"first_identifier"`
	SecondName       string    `bun:"second_name,notnull" json:"second_name"`
	SecondIdentifier string    `bun:"second_identifier,notnull" json:"second_identifier"`
	Completed        bool      `bun:"completed,notnull,default:false" json:"completed"`
	CreatedAt        time.Time `bun:"created_at,nullzero,notnull,default:current_timestamp" json:"created_at"`
}

// Indexes backs newest-first ordering
var Indexes = []string{
	`CREATE INDEX IF NOT EXISTS idx_pairing_history_created_at ON pairing_history (created_at DESC, id DESC)`,
}

// PostgresStore implements Store with PostgreSQL storage
type PostgresStore struct {
	db *bun.DB
}

// NewPostgresStore creates a new PostgreSQL store
func NewPostgresStore(db *bun.DB) *PostgresStore {
	return &PostgresStore{
		db: db,
	}
}

// Create inserts a pending record; the database assigns id and created_at
func (s *PostgresStore) Create(ctx context.Context, p Participants) (*Record, error) {
	schema := &RecordSchema{
		FirstName:        p.First.Name,
		FirstIdentifier:  p.First.Identifier,
		SecondName:       p.Second.Name,
		SecondIdentifier: p.Second.Identifier,
	}

	_, err := s.db.NewInsert().
		Model(schema).
		Returning("*").
		Exec(ctx)
	if err != nil {
		return nil, zerrors.NewStorageQueryError("create", resourceName, err)
	}

	return schemaToRecord(schema), nil
}

// List returns every record ordered by created_at then id, newest first
func (s *PostgresStore) List(ctx context.Context) ([]*Record, error) {
	var schemas []RecordSchema
	err := s.db.NewSelect().
		Model(&schemas).
		Order("created_at DESC", "id DESC").
		Scan(ctx)
	if err != nil {
		return nil, zerrors.NewStorageQueryError("list", resourceName, err)
	}

	records := make([]*Record, 0, len(schemas))
	for i := range schemas {
		records = append(records, schemaToRecord(&schemas[i]))
	}
	return records, nil
}

// Latest returns the newest record or nil when the table is empty
func (s *PostgresStore) Latest(ctx context.Context) (*Record, error) {
	var schema RecordSchema
	err := s.db.NewSelect().
		Model(&schema).
		Order("created_at DESC", "id DESC").
		Limit(1).
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, nil
		}
		return nil, zerrors.NewStorageQueryError("latest", resourceName, err)
	}

	return schemaToRecord(&schema), nil
}

// UpdateParticipants rewrites both sides of a record, leaving completed and created_at untouched
func (s *PostgresStore) UpdateParticipants(ctx context.Context, id int64, p Participants) (*Record, error) {
	var schema RecordSchema
	err := s.db.NewUpdate().
		Model(&schema).
		Set("first_name = ?", p.First.Name).
		Set("first_identifier = ?", p.First.Identifier).
		Set("second_name = ?", p.Second.Name).
		Set("second_identifier = ?", p.Second.Identifier).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, zerrors.NewNotFoundError("pairing record", id)
		}
		return nil, zerrors.NewStorageQueryError("update participants", resourceName, err)
	}

	return schemaToRecord(&schema), nil
}

// SetCompleted sets the completed flag; setting it to its current value is a no-op update
func (s *PostgresStore) SetCompleted(ctx context.Context, id int64, completed bool) (*Record, error) {
	var schema RecordSchema
	err := s.db.NewUpdate().
		Model(&schema).
		Set("completed = ?", completed).
		Where("id = ?", id).
		Returning("*").
		Scan(ctx)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, zerrors.NewNotFoundError("pairing record", id)
		}
		return nil, zerrors.NewStorageQueryError("set completed", resourceName, err)
	}

	return schemaToRecord(&schema), nil
}

// Ping checks database connectivity
func (s *PostgresStore) Ping(ctx context.Context) error {
	if err := s.db.PingContext(ctx); err != nil {
		return zerrors.NewStorageConnectionError("ping", resourceName, err)
	}
	return nil
}

// schemaToRecord converts database schema to the record model
func schemaToRecord(schema *RecordSchema) *Record {
	return &Record{
		ID:               schema.ID,
		FirstName:        schema.FirstName,
		FirstIdentifier:  schema.FirstIdentifier,
		SecondName:       schema.SecondName,
		SecondIdentifier: schema.SecondIdentifier,
		Completed:        schema.Completed,
		CreatedAt:        schema.CreatedAt,
	}
}
