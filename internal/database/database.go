package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/pgdialect"
	"github.com/uptrace/bun/driver/pgdriver"

	"github.com/pairup/pairup/internal/zerrors"
)

// Open connects to PostgreSQL and verifies the connection
func Open(ctx context.Context, databaseURL string, maxConnections int) (*bun.DB, error) {
	if databaseURL == "" {
		return nil, fmt.Errorf("database URL is required")
	}

	if maxConnections <= 0 {
		maxConnections = 10
	}

	sqldb := sql.OpenDB(pgdriver.NewConnector(pgdriver.WithDSN(databaseURL)))
	sqldb.SetMaxOpenConns(maxConnections)
	sqldb.SetMaxIdleConns(maxConnections / 2)
	sqldb.SetConnMaxLifetime(time.Hour)

	db := bun.NewDB(sqldb, pgdialect.New())

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()

	if err := db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, zerrors.NewStorageConnectionError("open", "database", err)
	}

	return db, nil
}

// Migrate creates the tables for models and then runs the index statements
func Migrate(ctx context.Context, db *bun.DB, models []interface{}, indexes []string) error {
	for _, model := range models {
		_, err := db.NewCreateTable().
			Model(model).
			IfNotExists().
			Exec(ctx)
		if err != nil {
			return zerrors.NewStorageMigrationError(fmt.Sprintf("%T", model), err)
		}
	}

	for _, indexSQL := range indexes {
		if _, err := db.ExecContext(ctx, indexSQL); err != nil {
			return zerrors.NewStorageMigrationError("index", fmt.Errorf("%q: %w", indexSQL, err))
		}
	}

	return nil
}
