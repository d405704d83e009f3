package dbtest

import (
	"context"
	"fmt"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
	"github.com/uptrace/bun"

	"github.com/pairup/pairup/internal/database"
)

var (
	once      sync.Once
	shared    testcontainers.Container
	sharedDSN string
	initErr   error
)

// SetupTestDB starts a shared PostgreSQL container (once per test binary), runs
// migrate against it and returns a bun handle closed via t.Cleanup.
// The test is skipped when no container runtime is available.
func SetupTestDB(t *testing.T, migrate func(ctx context.Context, db *bun.DB) error) *bun.DB {
	t.Helper()

	if testing.Short() {
		t.Skip("skipping PostgreSQL integration test in short mode")
	}
	testcontainers.SkipIfProviderIsNotHealthy(t)

	once.Do(func() {
		shared, sharedDSN, initErr = startContainer()
	})
	if initErr != nil {
		t.Skipf("PostgreSQL container not available, skipping integration test: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	db, err := database.Open(ctx, sharedDSN, 4)
	if err != nil {
		t.Fatalf("dbtest: failed to open database: %v", err)
	}
	t.Cleanup(func() {
		db.Close()
	})

	if migrate != nil {
		if err := migrate(ctx, db); err != nil {
			t.Fatalf("dbtest: failed to migrate: %v", err)
		}
	}

	return db
}

// Terminate stops the shared container if one was started. Call it from
// TestMain after m.Run.
func Terminate() {
	if shared == nil {
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := shared.Terminate(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "dbtest: failed to terminate container: %v\n", err)
	}
	shared = nil
}

// Truncate empties tables and resets their identity sequences
func Truncate(t *testing.T, db *bun.DB, tables ...string) {
	t.Helper()
	for _, table := range tables {
		if _, err := db.ExecContext(context.Background(), fmt.Sprintf("TRUNCATE %s RESTART IDENTITY", table)); err != nil {
			t.Fatalf("dbtest: failed to truncate %s: %v", table, err)
		}
	}
}

func startContainer() (testcontainers.Container, string, error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "pairup",
			"POSTGRES_PASSWORD": "pairup",
			"POSTGRES_DB":       "pairup_test",
		},
		WaitingFor: wait.ForLog("database system is ready to accept connections").
			WithOccurrence(2).
			WithStartupTimeout(60 * time.Second),
	}

	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: req,
		Started:          true,
	})
	if err != nil {
		return nil, "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		_ = container.Terminate(ctx)
		return nil, "", fmt.Errorf("get mapped port: %w", err)
	}

	return container, fmt.Sprintf("postgres://pairup:pairup@%s:%s/pairup_test?sslmode=disable", host, port.Port()), nil
}
