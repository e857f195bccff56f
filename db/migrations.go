package db

import (
	"database/sql"
	"embed"
	"errors"
	"fmt"

	"github.com/golang-migrate/migrate/v4"
	"github.com/golang-migrate/migrate/v4/database/sqlite3"
	"github.com/golang-migrate/migrate/v4/source/iofs"
)

// SchemaVersion is the newest migration shipped in migrations/.
const SchemaVersion uint = 1

//go:embed migrations/*.sql
var migrationsFS embed.FS

// NeedsMigration reports whether the history schema in db is missing,
// older than SchemaVersion, or left dirty by an interrupted migration.
func NeedsMigration(db *sql.DB) bool {
	var (
		version uint
		dirty   bool
	)
	err := db.QueryRow(`SELECT version, dirty FROM schema_migrations LIMIT 1`).Scan(&version, &dirty)
	if err != nil {
		return true
	}
	return dirty || version < SchemaVersion
}

// RunMigrations brings the history database at dbPath up to
// SchemaVersion and returns the version it ended at. A database that is
// already current is not an error.
func RunMigrations(dbPath string) (uint, error) {
	conn, err := sql.Open("sqlite3", dbPath)
	if err != nil {
		return 0, fmt.Errorf("failed to open database: %w", err)
	}
	defer conn.Close()

	m, err := newMigrator(conn, dbPath)
	if err != nil {
		return 0, err
	}
	defer m.Close()

	if err := m.Up(); err != nil && !errors.Is(err, migrate.ErrNoChange) {
		return 0, fmt.Errorf("failed to run migrations: %w", err)
	}

	version, dirty, err := m.Version()
	if err != nil {
		return 0, fmt.Errorf("failed to read schema version: %w", err)
	}
	if dirty {
		return version, fmt.Errorf("schema version %d is dirty", version)
	}
	return version, nil
}

// newMigrator pairs the embedded migration files with conn.
func newMigrator(conn *sql.DB, dbPath string) (*migrate.Migrate, error) {
	src, err := iofs.New(migrationsFS, "migrations")
	if err != nil {
		return nil, fmt.Errorf("failed to create migration source: %w", err)
	}

	driver, err := sqlite3.WithInstance(conn, &sqlite3.Config{
		DatabaseName: dbPath,
		NoTxWrap:     true,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create migration driver: %w", err)
	}

	m, err := migrate.NewWithInstance("iofs", src, "sqlite3", driver)
	if err != nil {
		return nil, fmt.Errorf("failed to create migrate instance: %w", err)
	}
	return m, nil
}
