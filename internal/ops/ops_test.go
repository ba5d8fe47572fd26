package ops

import (
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/kv"
)

// seededDB returns a store with the default buckets in place.
func seededDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := EnsureDefaultBuckets(database); err != nil {
		t.Fatalf("EnsureDefaultBuckets failed: %v", err)
	}
	return database
}

func testState(t *testing.T) *kv.Store {
	t.Helper()
	state, err := kv.Open(filepath.Join(t.TempDir(), "state.db"))
	if err != nil {
		t.Fatalf("kv.Open failed: %v", err)
	}
	t.Cleanup(func() { state.Close() })
	return state
}

func stringPtr(s string) *string { return &s }

// backdate rewrites an item's created_at directly; Add always stamps now.
func backdate(t *testing.T, database *sql.DB, id string, at time.Time) {
	t.Helper()
	if _, err := database.Exec("UPDATE items SET created_at = ? WHERE id = ?", at.Unix(), id); err != nil {
		t.Fatalf("backdate failed: %v", err)
	}
}

func mustAdd(t *testing.T, database *sql.DB, input AddInput) *AddOutput {
	t.Helper()
	out, err := Add(database, input)
	if err != nil {
		t.Fatalf("Add failed: %v", err)
	}
	return out
}
