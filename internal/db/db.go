// internal/db/db.go
package db

import (
	"context"
	"database/sql"
	"embed"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
	_ "github.com/mattn/go-sqlite3"

	"github.com/codr1/agentos-lite/internal/config"
)

//go:embed migrations/*.sql
var migrationsFS embed.FS

// Migrations exposes the embedded schema migrations for tooling.
func Migrations() (fs.FS, string) {
	return migrationsFS, "migrations"
}

type DB struct {
	*sql.DB
	Queries *Queries
}

// New opens the SQLite preference database at dataSourceName, creating its
// directory if needed, applies embedded migrations, and binds queries to the
// connection.
func New(dataSourceName string) (*DB, error) {
	if path := filePath(dataSourceName); path != "" {
		if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return nil, fmt.Errorf("error creating database directory: %w", err)
		}
	}

	sqlDB, err := sql.Open("sqlite3", ensureBusyTimeoutDSN(dataSourceName))
	if err != nil {
		return nil, fmt.Errorf("error opening database: %w", err)
	}
	// One writer keeps SQLite from returning SQLITE_BUSY between the prompt loop and reply goroutines.
	sqlDB.SetMaxOpenConns(1)

	if err := runMigrations(sqlDB); err != nil {
		sqlDB.Close()
		return nil, fmt.Errorf("error running migrations: %w", err)
	}

	return &DB{
		DB:      sqlDB,
		Queries: NewQueries(sqlDB),
	}, nil
}

// NewFromConfig opens the preference database described by cfg.
func NewFromConfig(cfg *config.Config) (*DB, error) {
	switch cfg.Storage.Driver {
	case "sqlite":
		return New(cfg.Storage.Filename)
	default:
		return nil, fmt.Errorf("unsupported storage driver: %s", cfg.Storage.Driver)
	}
}

// ensureBusyTimeoutDSN adds a `_busy_timeout` parameter when the DSN has none.
func ensureBusyTimeoutDSN(dataSourceName string) string {
	if strings.Contains(dataSourceName, "_busy_timeout=") {
		return dataSourceName
	}
	if strings.Contains(dataSourceName, "?") {
		return dataSourceName + "&_busy_timeout=5000"
	}
	return dataSourceName + "?_busy_timeout=5000"
}

// filePath returns the on-disk path of a DSN, or "" for in-memory databases.
func filePath(dataSourceName string) string {
	path := strings.TrimPrefix(dataSourceName, "file:")
	if idx := strings.Index(path, "?"); idx != -1 {
		path = path[:idx]
	}
	if path == "" || path == ":memory:" {
		return ""
	}
	return path
}

// runMigrations applies the embedded SQL migrations; "no change" is not an error.
func runMigrations(db *sql.DB) error {
	driver, err := sqlite3.WithInstance(db, &sqlite3.Config{})
	if err != nil {
		return fmt.Errorf("could not create migrate driver: %w", err)
	}

	source, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return fmt.Errorf("could not create source: %w", err)
	}

	m, err := migrate.NewWithInstance(
		"iofs", source,
		"sqlite3", driver,
	)
	if err != nil {
		return fmt.Errorf("could not create migrate instance: %w", err)
	}

	if err := m.Up(); err != nil && err != migrate.ErrNoChange {
		return fmt.Errorf("could not run migrations: %w", err)
	}

	return nil
}

// RunInTx runs fn with queries bound to a transaction, committing on success.
func (db *DB) RunInTx(ctx context.Context, fn func(*Queries) error) error {
	tx, err := db.DB.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("error beginning transaction: %w", err)
	}

	defer func() {
		if p := recover(); p != nil {
			tx.Rollback()
			panic(p)
		}
	}()

	if err := fn(NewQueries(tx)); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("error rolling back: %v (original error: %w)", rbErr, err)
		}
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("error committing: %w", err)
	}

	return nil
}
