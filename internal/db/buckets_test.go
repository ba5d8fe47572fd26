package db

import (
	"testing"
	"time"

	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

func makeTestBucket(id string, key item.BucketKey, name string) *item.Bucket {
	return &item.Bucket{
		ID:         id,
		SystemName: key,
		CustomName: name,
		Icon:       "tray",
		ColorName:  "gray",
		CreatedAt:  time.Now().Unix(),
	}
}

func TestInsertAndGetBucket(t *testing.T) {
	database := testDB(t)

	b := makeTestBucket("b1", item.BucketInbox, "Inbox")
	if err := InsertBucket(database, b); err != nil {
		t.Fatalf("InsertBucket failed: %v", err)
	}

	got, err := GetBucket(database, item.BucketInbox)
	if err != nil {
		t.Fatalf("GetBucket failed: %v", err)
	}
	if got.CustomName != "Inbox" || got.Icon != "tray" {
		t.Errorf("got %+v", got)
	}
}

func TestInsertBucket_DuplicateSystemName(t *testing.T) {
	database := testDB(t)

	if err := InsertBucket(database, makeTestBucket("b1", "work", "Work")); err != nil {
		t.Fatalf("InsertBucket failed: %v", err)
	}
	err := InsertBucket(database, makeTestBucket("b2", "work", "Work Again"))
	if err != ErrUniqueConstraint {
		t.Errorf("duplicate insert error = %v, want ErrUniqueConstraint", err)
	}
}

func TestGetBucket_NotFound(t *testing.T) {
	database := testDB(t)

	_, err := GetBucket(database, "missing")
	if !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("GetBucket should return ErrNotFound, got: %v", err)
	}
}

func TestBucketExists(t *testing.T) {
	database := testDB(t)

	if err := InsertBucket(database, makeTestBucket("b1", "ideas", "Ideas")); err != nil {
		t.Fatalf("InsertBucket failed: %v", err)
	}

	ok, err := BucketExists(database, "ideas")
	if err != nil || !ok {
		t.Errorf("BucketExists(ideas) = %v, %v", ok, err)
	}
	ok, err = BucketExists(database, "nope")
	if err != nil || ok {
		t.Errorf("BucketExists(nope) = %v, %v", ok, err)
	}
}

func TestListBuckets_Order(t *testing.T) {
	database := testDB(t)

	b1 := makeTestBucket("b1", "work", "Work")
	b1.CreatedAt = 200
	b2 := makeTestBucket("b2", "inbox", "Inbox")
	b2.CreatedAt = 100
	for _, b := range []*item.Bucket{b1, b2} {
		if err := InsertBucket(database, b); err != nil {
			t.Fatalf("InsertBucket failed: %v", err)
		}
	}

	buckets, err := ListBuckets(database)
	if err != nil {
		t.Fatalf("ListBuckets failed: %v", err)
	}
	if len(buckets) != 2 {
		t.Fatalf("len = %d, want 2", len(buckets))
	}
	if buckets[0].SystemName != "inbox" {
		t.Errorf("buckets[0] = %q, want inbox (oldest first)", buckets[0].SystemName)
	}
}

func TestRenameBucket(t *testing.T) {
	database := testDB(t)

	if err := InsertBucket(database, makeTestBucket("b1", "shopping", "Shopping")); err != nil {
		t.Fatalf("InsertBucket failed: %v", err)
	}

	if err := RenameBucket(database, "shopping", "Wishlist"); err != nil {
		t.Fatalf("RenameBucket failed: %v", err)
	}
	got, _ := GetBucket(database, "shopping")
	if got.CustomName != "Wishlist" {
		t.Errorf("CustomName = %q, want Wishlist", got.CustomName)
	}

	// Missing bucket is a silent no-op.
	if err := RenameBucket(database, "missing", "X"); err != nil {
		t.Errorf("RenameBucket on missing bucket: %v", err)
	}
}
