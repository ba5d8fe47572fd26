package ops

import (
	"database/sql"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// defaultBuckets is the seed set. Icon and color names are presentation
// hints carried through from the original defaults.
var defaultBuckets = []struct {
	systemName item.BucketKey
	customName string
	icon       string
	colorName  string
}{
	{item.BucketInbox, "Inbox", "tray", "gray"},
	{"work", "Work", "briefcase.fill", "blue"},
	{"shopping", "Shopping", "cart.fill", "green"},
	{"ideas", "Ideas", "lightbulb.fill", "orange"},
	{"personal", "Personal", "person.fill", "purple"},
}

// EnsureDefaultBuckets seeds the default bucket set on an empty registry.
// A store with any bucket at all is left untouched, so renames and
// deletions are never reverted. Returns the number of buckets created.
func EnsureDefaultBuckets(database *sql.DB) (int, error) {
	count, err := db.CountBuckets(database)
	if err != nil {
		return 0, err
	}
	if count > 0 {
		return 0, nil
	}

	now := time.Now().Unix()
	created := 0
	for _, d := range defaultBuckets {
		b := &item.Bucket{
			ID:         uuid.NewString(),
			SystemName: d.systemName,
			CustomName: d.customName,
			Icon:       d.icon,
			ColorName:  d.colorName,
			CreatedAt:  now,
		}
		err := db.InsertBucket(database, b)
		if err == db.ErrUniqueConstraint {
			// Another process seeded concurrently; their row wins.
			continue
		}
		if err != nil {
			return created, err
		}
		created++
	}
	return created, nil
}

// RenameBucketInput contains parameters for the RenameBucket operation.
type RenameBucketInput struct {
	SystemName string
	CustomName string
}

// RenameBucketOutput contains the result of the RenameBucket operation.
type RenameBucketOutput struct {
	SystemName string `json:"system_name"`
	CustomName string `json:"custom_name"`
}

// RenameBucket updates a bucket's display name. The system name is the
// stable join key and never changes. A missing bucket is a silent no-op.
func RenameBucket(database *sql.DB, input RenameBucketInput) (*RenameBucketOutput, error) {
	key, err := item.ParseBucketKey(input.SystemName)
	if err != nil {
		return nil, err
	}
	name := strings.TrimSpace(input.CustomName)
	if name == "" {
		return nil, errors.NewInvalidRequest("custom_name must not be empty")
	}

	if err := db.RenameBucket(database, key, name); err != nil {
		return nil, err
	}

	return &RenameBucketOutput{SystemName: key.String(), CustomName: name}, nil
}

// ListBucketsOutput contains the result of the ListBuckets operation.
type ListBucketsOutput struct {
	Buckets []BucketView `json:"buckets"`
}

// ListBuckets returns the bucket registry with per-bucket item and
// unprocessed counts, seed order first.
func ListBuckets(database *sql.DB) (*ListBucketsOutput, error) {
	buckets, err := db.ListBuckets(database)
	if err != nil {
		return nil, err
	}

	views := make([]BucketView, 0, len(buckets))
	for _, b := range buckets {
		total, err := ItemCount(database, b.SystemName)
		if err != nil {
			return nil, err
		}
		unprocessed, err := UnprocessedCount(database, b.SystemName)
		if err != nil {
			return nil, err
		}
		views = append(views, BucketView{
			ID:               b.ID,
			SystemName:       b.SystemName.String(),
			CustomName:       b.CustomName,
			Icon:             b.Icon,
			ColorName:        b.ColorName,
			ItemCount:        total,
			UnprocessedCount: unprocessed,
		})
	}

	return &ListBucketsOutput{Buckets: views}, nil
}
