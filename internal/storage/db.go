// ABOUTME: SQLite database connection and lifecycle management.
// ABOUTME: Uses modernc.org/sqlite (pure Go, no CGO required).
package storage

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

// DB wraps the SQLite database connection.
type DB struct {
	db     *sql.DB
	dbPath string
	now    func() time.Time
}

// Compile-time check that DB implements Repository.
var _ Repository = (*DB)(nil)

// Open opens or creates a SQLite database at the given path and brings its
// schema up to the latest version.
func Open(dbPath string) (*DB, error) {
	return openWith(dbPath, Migrations, Requirements)
}

func openWith(dbPath string, versions []SchemaVersion, reqs []Requirement) (*DB, error) {
	// Schema mistakes are configuration errors; catch them before touching disk.
	plan, err := planMigrations(versions, reqs)
	if err != nil {
		return nil, err
	}

	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0750); err != nil {
		return nil, fmt.Errorf("create data directory: %w", err)
	}

	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	if err := os.Chmod(dbPath, 0600); err != nil && !os.IsNotExist(err) {
		_ = db.Close()
		return nil, fmt.Errorf("set database permissions: %w", err)
	}

	d := &DB{db: db, dbPath: dbPath, now: func() time.Time { return time.Now().UTC() }}

	if err := d.configurePragmas(); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("configure pragmas: %w", err)
	}

	if _, err := d.applyMigrations(plan); err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("apply migrations: %w", err)
	}

	return d, nil
}

// DataDir returns the default data directory following the XDG base directory layout.
func DataDir() string {
	dataHome := os.Getenv("XDG_DATA_HOME")
	if dataHome == "" {
		home, _ := os.UserHomeDir()
		dataHome = filepath.Join(home, ".local", "share")
	}
	return filepath.Join(dataHome, "daybook")
}

// Path returns the database file path.
func (d *DB) Path() string {
	return d.dbPath
}

// SetClock replaces the timestamp source used for createdAt/updatedAt.
func (d *DB) SetClock(now func() time.Time) {
	d.now = func() time.Time { return now().UTC() }
}

// Close closes the database connection.
func (d *DB) Close() error {
	if d.db != nil {
		return d.db.Close()
	}
	return nil
}

// configurePragmas sets up SQLite for optimal performance.
func (d *DB) configurePragmas() error {
	pragmas := []string{
		"PRAGMA journal_mode = WAL",
		"PRAGMA foreign_keys = ON",
		"PRAGMA busy_timeout = 5000",
		"PRAGMA synchronous = NORMAL",
	}
	for _, pragma := range pragmas {
		if _, err := d.db.Exec(pragma); err != nil {
			return fmt.Errorf("execute %s: %w", pragma, err)
		}
	}
	return nil
}
