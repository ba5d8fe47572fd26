package share

import (
	"database/sql"
	"testing"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/item"
	"github.com/hpungsan/stash/internal/ops"
)

func sharedDB(t *testing.T) *sql.DB {
	t.Helper()
	database, err := db.Init(t.TempDir())
	if err != nil {
		t.Fatalf("db.Init failed: %v", err)
	}
	t.Cleanup(func() { database.Close() })

	if _, err := ops.EnsureDefaultBuckets(database); err != nil {
		t.Fatalf("EnsureDefaultBuckets failed: %v", err)
	}
	return database
}

func TestClassify(t *testing.T) {
	tests := []struct {
		contentType string
		want        item.Type
		ok          bool
	}{
		{"url", item.TypeLink, true},
		{"text/uri-list", item.TypeLink, true},
		{"text/plain", item.TypeText, true},
		{"text/markdown", item.TypeText, true},
		{"image/png", item.TypeScreenshot, true},
		{"image/jpeg", item.TypeScreenshot, true},
		{"application/pdf", "", false},
		{"", "", false},
	}

	for _, tt := range tests {
		got, ok := Classify(tt.contentType)
		if got != tt.want || ok != tt.ok {
			t.Errorf("Classify(%q) = %q, %v, want %q, %v", tt.contentType, got, ok, tt.want, tt.ok)
		}
	}
}

func TestIngest_SharedURL(t *testing.T) {
	database := sharedDB(t)

	results := Ingest(database, []Attachment{
		{ContentType: "text/uri-list", Data: []byte("https://example.com/article\n")},
	})

	if len(results) != 1 || !results[0].Success {
		t.Fatalf("results = %+v", results)
	}

	fetched, err := ops.Fetch(database, ops.FetchInput{ID: results[0].ItemID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.Type != "link" {
		t.Errorf("Type = %q, want link", fetched.Item.Type)
	}
	if fetched.Item.Bucket != "inbox" || fetched.Item.IsProcessed {
		t.Errorf("shared item should land in inbox unprocessed, got %+v", fetched.Item)
	}
	if fetched.Item.URL == nil || *fetched.Item.URL != "https://example.com/article" {
		t.Errorf("URL = %v", fetched.Item.URL)
	}
}

func TestIngest_SharedText(t *testing.T) {
	database := sharedDB(t)

	results := Ingest(database, []Attachment{
		{ContentType: "text/plain", Data: []byte("call the dentist")},
	})

	if !results[0].Success {
		t.Fatalf("results = %+v", results)
	}
	fetched, _ := ops.Fetch(database, ops.FetchInput{ID: results[0].ItemID})
	if fetched.Item.Type != "text" {
		t.Errorf("Type = %q, want text", fetched.Item.Type)
	}
	if fetched.Item.NoteBody == nil || *fetched.Item.NoteBody != "call the dentist" {
		t.Errorf("NoteBody = %v", fetched.Item.NoteBody)
	}
}

func TestIngest_SharedImage(t *testing.T) {
	database := sharedDB(t)

	payload := []byte{0xFF, 0xD8, 0xFF}
	results := Ingest(database, []Attachment{
		{ContentType: "image/jpeg", Data: payload},
	})

	if !results[0].Success {
		t.Fatalf("results = %+v", results)
	}
	fetched, _ := ops.Fetch(database, ops.FetchInput{ID: results[0].ItemID, IncludeContent: true})
	if fetched.Item.Type != "screenshot" {
		t.Errorf("Type = %q, want screenshot", fetched.Item.Type)
	}
	if string(fetched.Item.Content) != string(payload) {
		t.Errorf("Content = %v", fetched.Item.Content)
	}
}

func TestIngest_MixedBatchKeepsGoing(t *testing.T) {
	database := sharedDB(t)

	results := Ingest(database, []Attachment{
		{ContentType: "application/pdf", Data: []byte("%PDF")},
		{ContentType: "text/plain", Data: []byte("still saved")},
	})

	if len(results) != 2 {
		t.Fatalf("len = %d, want 2", len(results))
	}
	if results[0].Success || results[0].Error == "" {
		t.Errorf("unsupported attachment should fail: %+v", results[0])
	}
	if !results[1].Success {
		t.Errorf("second attachment should succeed: %+v", results[1])
	}

	n, err := ops.ItemCount(database, "")
	if err != nil || n != 1 {
		t.Errorf("ItemCount = %d, %v, want 1", n, err)
	}
}

func TestIngest_EmptyBatch(t *testing.T) {
	database := sharedDB(t)

	results := Ingest(database, nil)
	if len(results) != 0 {
		t.Errorf("results = %+v, want empty", results)
	}
}
