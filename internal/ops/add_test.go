package ops

import (
	"testing"

	"github.com/hpungsan/stash/internal/errors"
)

func TestAdd_DefaultsToInboxUnprocessed(t *testing.T) {
	database := seededDB(t)

	out := mustAdd(t, database, AddInput{
		Type:     "text",
		NoteBody: stringPtr("remember this"),
	})

	if out.Bucket != "inbox" {
		t.Errorf("Bucket = %q, want inbox", out.Bucket)
	}
	if out.IsProcessed {
		t.Error("IsProcessed = true for inbox add")
	}

	fetched, err := Fetch(database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if fetched.Item.UserCorrectedBucket {
		t.Error("UserCorrectedBucket = true for inbox add")
	}
}

func TestAdd_NonInboxBucketIsUserCorrected(t *testing.T) {
	database := seededDB(t)

	out := mustAdd(t, database, AddInput{
		Type:     "text",
		Bucket:   "work",
		NoteBody: stringPtr("meeting notes"),
	})

	if !out.IsProcessed {
		t.Error("IsProcessed = false for non-inbox add")
	}

	fetched, err := Fetch(database, FetchInput{ID: out.ID})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if !fetched.Item.UserCorrectedBucket {
		t.Error("UserCorrectedBucket = false for targeted add")
	}
}

func TestAdd_InvalidType(t *testing.T) {
	database := seededDB(t)

	_, err := Add(database, AddInput{Type: "bookmark"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("Add should reject unknown type, got: %v", err)
	}
}

func TestAdd_UnknownBucket(t *testing.T) {
	database := seededDB(t)

	_, err := Add(database, AddInput{
		Type:     "text",
		Bucket:   "archive",
		NoteBody: stringPtr("x"),
	})
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Add should reject unknown bucket, got: %v", err)
	}
}

func TestAdd_LinkRequiresURLOrText(t *testing.T) {
	database := seededDB(t)

	_, err := Add(database, AddInput{Type: "link"})
	if !errors.Is(err, errors.ErrInvalidRequest) {
		t.Errorf("empty link should be rejected, got: %v", err)
	}

	// A link with only text is permitted.
	if _, err := Add(database, AddInput{
		Type:     "link",
		NoteBody: stringPtr("that article about sourdough"),
	}); err != nil {
		t.Errorf("text-only link rejected: %v", err)
	}

	if _, err := Add(database, AddInput{
		Type: "link",
		URL:  stringPtr("https://example.com"),
	}); err != nil {
		t.Errorf("url-only link rejected: %v", err)
	}
}

func TestAdd_ConfidenceBounds(t *testing.T) {
	database := seededDB(t)

	for _, bad := range []float64{-0.1, 1.5} {
		_, err := Add(database, AddInput{
			Type:       "text",
			NoteBody:   stringPtr("x"),
			Confidence: bad,
		})
		if !errors.Is(err, errors.ErrInvalidRequest) {
			t.Errorf("confidence %v should be rejected, got: %v", bad, err)
		}
	}
}

func TestAdd_StoresContent(t *testing.T) {
	database := seededDB(t)

	payload := []byte{0xFF, 0xD8, 0xFF}
	out := mustAdd(t, database, AddInput{
		Type:    "screenshot",
		Content: payload,
	})

	fetched, err := Fetch(database, FetchInput{ID: out.ID, IncludeContent: true})
	if err != nil {
		t.Fatalf("Fetch failed: %v", err)
	}
	if string(fetched.Item.Content) != string(payload) {
		t.Errorf("Content = %v, want %v", fetched.Item.Content, payload)
	}
	if !fetched.Item.HasContent {
		t.Error("HasContent = false")
	}
}
