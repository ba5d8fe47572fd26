package ops

import (
	"testing"
)

func TestRepair_FixesDrift(t *testing.T) {
	database := seededDB(t)

	// Simulate drift written by a buggy or older writer: a shopping item
	// left marked unprocessed.
	added := mustAdd(t, database, AddInput{Type: "link", Bucket: "shopping", URL: stringPtr("https://store.example/cart")})
	if _, err := database.Exec("UPDATE items SET is_processed = 0 WHERE id = ?", added.ID); err != nil {
		t.Fatalf("drift setup failed: %v", err)
	}

	out, err := Repair(database)
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if out.Fixed != 1 {
		t.Errorf("Fixed = %d, want 1", out.Fixed)
	}

	fetched, _ := Fetch(database, FetchInput{ID: added.ID})
	if !fetched.Item.IsProcessed {
		t.Error("shopping item still unprocessed after repair")
	}
}

func TestRepair_CleanStoreIsNoOp(t *testing.T) {
	database := seededDB(t)

	mustAdd(t, database, AddInput{Type: "text", NoteBody: stringPtr("fine")})

	out, err := Repair(database)
	if err != nil {
		t.Fatalf("Repair failed: %v", err)
	}
	if out.Fixed != 0 {
		t.Errorf("Fixed = %d, want 0", out.Fixed)
	}
}
