// Package dbtest starts a throwaway PostgreSQL container for repository tests.
package dbtest

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"
	"testing"
	"time"

	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/slotwarden/slotbot/internal/gateways/database"
)

// Setup returns a migrated database backed by a fresh container. The test is
// skipped in -short mode or when no container runtime is available.
func Setup(t *testing.T) *database.DB {
	t.Helper()
	if testing.Short() {
		t.Skip("skipping database test in short mode")
	}

	ctx := context.Background()
	db, cleanup, err := start(ctx)
	if err != nil {
		t.Skipf("postgres container unavailable: %v", err)
	}
	t.Cleanup(cleanup)
	return db
}

// Reset truncates every table between subtests.
func Reset(t *testing.T, db *database.DB) {
	t.Helper()
	if err := db.ResetTables(context.Background()); err != nil {
		t.Fatalf("reset tables: %v", err)
	}
}

func start(ctx context.Context) (*database.DB, func(), error) {
	pgContainer, err := postgres.RunContainer(ctx,
		testcontainers.WithImage("postgres:15-alpine"),
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second),
		),
	)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to start postgres container: %w", err)
	}

	terminate := func() {
		if err := pgContainer.Terminate(ctx); err != nil {
			slog.Error("Failed to terminate container", slog.String("type", "db"), slog.Any("error", err))
		}
	}

	host, err := pgContainer.Host(ctx)
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to get container host: %w", err)
	}
	mappedPort, err := pgContainer.MappedPort(ctx, "5432")
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to get mapped port: %w", err)
	}
	port, err := strconv.Atoi(mappedPort.Port())
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("invalid mapped port %q: %w", mappedPort.Port(), err)
	}

	db, err := database.New(ctx, database.DBConfig{
		Host:     host,
		Port:     port,
		User:     "testuser",
		Password: "testpass",
		Database: "testdb",
		SSLMode:  "disable",
		PoolSize: 20,
		Timeout:  "10s",
	})
	if err != nil {
		terminate()
		return nil, nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.InitializeSchema(ctx); err != nil {
		db.Close()
		terminate()
		return nil, nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return db, func() {
		db.Close()
		terminate()
	}, nil
}
