package history

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/database"
)

// CreateSchema creates the pairing_history table and its ordering index
func CreateSchema(ctx context.Context, db *bun.DB) error {
	return database.Migrate(ctx, db, []interface{}{(*RecordSchema)(nil)}, Indexes)
}
