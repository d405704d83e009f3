package activity

import (
	"context"

	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/database"
)

// CreateSchema creates the activity table and its indexes
func CreateSchema(ctx context.Context, db *bun.DB) error {
	return database.Migrate(ctx, db, []interface{}{(*Entry)(nil)}, Indexes)
}
