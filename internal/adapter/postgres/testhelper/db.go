// Package testhelper provides PostgreSQL databases for repository
// integration tests. One container is shared by the entire test run; every
// SetupTestDB call gets its own freshly-migrated database on it, so tests
// can assert exact global state (topic counts, history ordering) and still
// run in parallel.
package testhelper

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	_ "github.com/jackc/pgx/v5/stdlib" // pgx driver for database/sql
	"github.com/pressly/goose/v3"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"
)

var (
	once        sync.Once
	adminDSN    string
	hostAndPort string
	initErr     error
)

// SetupTestDB starts the shared PostgreSQL container (once for the entire
// test run), creates a dedicated database for the calling test, applies
// goose migrations to it, and returns a pgxpool.Pool connected to it.
// The pool is closed via t.Cleanup; the container lives until the process exits.
func SetupTestDB(t *testing.T) *pgxpool.Pool {
	t.Helper()

	once.Do(func() {
		adminDSN, hostAndPort, initErr = startContainer()
	})
	if initErr != nil {
		t.Fatalf("testhelper: failed to start test container: %v", initErr)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	dsn, err := createDatabaseAndMigrate(ctx)
	if err != nil {
		t.Fatalf("testhelper: failed to prepare test database: %v", err)
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		t.Fatalf("testhelper: failed to create pgxpool: %v", err)
	}

	t.Cleanup(func() {
		pool.Close()
	})

	return pool
}

func startContainer() (dsn, hostPort string, err error) {
	ctx, cancel := context.WithTimeout(context.Background(), 120*time.Second)
	defer cancel()

	req := testcontainers.ContainerRequest{
		Image:        "postgres:17-alpine",
		ExposedPorts: []string{"5432/tcp"},
		Env: map[string]string{
			"POSTGRES_USER":     "testuser",
			"POSTGRES_PASSWORD": "testpass",
			"POSTGRES_DB":       "testdb",
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
		return "", "", fmt.Errorf("start container: %w", err)
	}

	host, err := container.Host(ctx)
	if err != nil {
		return "", "", fmt.Errorf("get container host: %w", err)
	}

	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		return "", "", fmt.Errorf("get mapped port: %w", err)
	}

	hostPort = fmt.Sprintf("%s:%s", host, port.Port())
	dsn = fmt.Sprintf("postgres://testuser:testpass@%s/testdb?sslmode=disable", hostPort)
	return dsn, hostPort, nil
}

// createDatabaseAndMigrate creates a uniquely-named database on the shared
// container and applies goose migrations to it.
func createDatabaseAndMigrate(ctx context.Context) (string, error) {
	name := "test_" + strings.ReplaceAll(uuid.New().String(), "-", "")

	admin, err := sql.Open("pgx", adminDSN)
	if err != nil {
		return "", fmt.Errorf("sql.Open admin: %w", err)
	}
	defer admin.Close()

	if _, err := admin.ExecContext(ctx, "CREATE DATABASE "+name); err != nil {
		return "", fmt.Errorf("create database %s: %w", name, err)
	}

	dsn := fmt.Sprintf("postgres://testuser:testpass@%s/%s?sslmode=disable", hostAndPort, name)

	// Apply goose migrations using database/sql (goose requires *sql.DB).
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		return "", fmt.Errorf("sql.Open: %w", err)
	}
	defer db.Close()

	if err := db.PingContext(ctx); err != nil {
		return "", fmt.Errorf("db ping: %w", err)
	}

	provider, err := goose.NewProvider(goose.DialectPostgres, db, os.DirFS(migrationsPath()))
	if err != nil {
		return "", fmt.Errorf("goose new provider: %w", err)
	}

	if _, err := provider.Up(ctx); err != nil {
		return "", fmt.Errorf("goose up: %w", err)
	}

	return dsn, nil
}

// migrationsPath resolves the absolute path to the repository's migrations/
// directory relative to the current source file using runtime.Caller.
func migrationsPath() string {
	_, currentFile, _, _ := runtime.Caller(0)
	// currentFile is .../internal/adapter/postgres/testhelper/db.go
	return filepath.Join(filepath.Dir(currentFile), "..", "..", "..", "..", "migrations")
}
