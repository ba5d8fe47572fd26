package db

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"

	"github.com/hpungsan/stash/internal/config"
	"github.com/hpungsan/stash/internal/errors"
	_ "modernc.org/sqlite"
)

// CurrentSchemaVersion is the latest schema version.
// Bump this when adding migrations. Both processes must agree on it.
const CurrentSchemaVersion = 1

// Init initializes the shared SQLite database at sharedDir/stash.db.
// Both the main process and the share process call Init with the same
// resolved directory; WAL plus the busy timeout is the only cross-process
// coordination (row-level last-writer-wins is acceptable).
// The sharedDir parameter allows tests to use t.TempDir().
func Init(sharedDir string) (*sql.DB, error) {
	if err := os.MkdirAll(sharedDir, 0700); err != nil {
		return nil, errors.NewStoreOpen(fmt.Errorf("failed to create shared directory: %w", err))
	}
	_ = os.Chmod(sharedDir, 0700)

	dbPath := filepath.Join(sharedDir, "stash.db")
	dsn := dbPath + "?_pragma=busy_timeout(5000)&_pragma=journal_mode(WAL)"
	db, err := sql.Open("sqlite", dsn)
	if err != nil {
		return nil, errors.NewStoreOpen(fmt.Errorf("failed to open database: %w", err))
	}

	if err := verifyWALMode(db); err != nil {
		db.Close()
		return nil, errors.NewStoreOpen(err)
	}

	if err := migrate(db); err != nil {
		db.Close()
		return nil, errors.NewStoreOpen(err)
	}

	_ = os.Chmod(dbPath, 0600)

	return db, nil
}

// ConfigurePool applies connection pool settings from config.
// Only sets limits if explicitly configured (non-zero values).
func ConfigurePool(db *sql.DB, cfg *config.Config) {
	if cfg == nil {
		return
	}
	if cfg.DBMaxOpenConns > 0 {
		db.SetMaxOpenConns(cfg.DBMaxOpenConns)
	}
	if cfg.DBMaxIdleConns > 0 {
		db.SetMaxIdleConns(cfg.DBMaxIdleConns)
	}
}

// migrate applies schema migrations based on user_version.
func migrate(db *sql.DB) error {
	version, err := GetUserVersion(db)
	if err != nil {
		return err
	}

	// Migration 0 -> 1: Initial schema (v1)
	if version < 1 {
		schema := `
		CREATE TABLE IF NOT EXISTS items (
		  id                    TEXT PRIMARY KEY,
		  type                  TEXT NOT NULL,
		  bucket                TEXT NOT NULL,
		  is_processed          INTEGER NOT NULL,
		  user_corrected_bucket INTEGER NOT NULL DEFAULT 0,
		  confidence            REAL NOT NULL DEFAULT 0,
		  extracted_text        TEXT,
		  note_body             TEXT,
		  duration_caption      TEXT,
		  url                   TEXT,
		  content               BLOB,
		  created_at            INTEGER NOT NULL,
		  updated_at            INTEGER NOT NULL
		);

		CREATE INDEX IF NOT EXISTS idx_items_bucket_created
		ON items(bucket, created_at DESC);

		CREATE INDEX IF NOT EXISTS idx_items_processed_created
		ON items(is_processed, created_at DESC);

		CREATE TABLE IF NOT EXISTS buckets (
		  id          TEXT PRIMARY KEY,
		  system_name TEXT NOT NULL UNIQUE,
		  custom_name TEXT NOT NULL,
		  icon        TEXT NOT NULL DEFAULT '',
		  color_name  TEXT NOT NULL DEFAULT '',
		  created_at  INTEGER NOT NULL
		);
		`
		if _, err := db.Exec(schema); err != nil {
			return fmt.Errorf("migration 1 failed: %w", err)
		}
		if err := SetUserVersion(db, 1); err != nil {
			return err
		}
	}

	// Future migrations go here:
	// if version < 2 { ... }

	return nil
}

// verifyWALMode checks that WAL mode is active (set via connection string).
func verifyWALMode(db *sql.DB) error {
	var journalMode string
	if err := db.QueryRow("PRAGMA journal_mode;").Scan(&journalMode); err != nil {
		return fmt.Errorf("failed to verify journal mode: %w", err)
	}
	if journalMode != "wal" {
		return fmt.Errorf("expected WAL mode, got %s", journalMode)
	}
	return nil
}

// GetUserVersion returns the current schema version (user_version pragma).
func GetUserVersion(db *sql.DB) (int, error) {
	var version int
	if err := db.QueryRow("PRAGMA user_version;").Scan(&version); err != nil {
		return 0, fmt.Errorf("failed to get user_version: %w", err)
	}
	return version, nil
}

// SetUserVersion sets the schema version (user_version pragma).
func SetUserVersion(db *sql.DB, version int) error {
	_, err := db.Exec(fmt.Sprintf("PRAGMA user_version=%d", version))
	if err != nil {
		return fmt.Errorf("failed to set user_version: %w", err)
	}
	return nil
}
