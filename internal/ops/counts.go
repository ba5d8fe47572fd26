package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/item"
)

// ItemCount returns the number of items in a bucket, or across all
// buckets when the key is empty.
func ItemCount(database *sql.DB, bucket item.BucketKey) (int, error) {
	filter := db.ItemFilter{}
	if bucket != "" {
		filter.Bucket = &bucket
	}
	return db.CountItems(database, filter)
}

// UnprocessedCount returns the number of unprocessed items in a bucket,
// or across all buckets when the key is empty.
func UnprocessedCount(database *sql.DB, bucket item.BucketKey) (int, error) {
	processed := false
	filter := db.ItemFilter{Processed: &processed}
	if bucket != "" {
		filter.Bucket = &bucket
	}
	return db.CountItems(database, filter)
}

// TodayCount returns the number of items created since local midnight.
func TodayCount(database *sql.DB) (int, error) {
	return todayCountAt(database, time.Now())
}

func todayCountAt(database *sql.DB, now time.Time) (int, error) {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	after := midnight.Unix()
	before := midnight.Add(24 * time.Hour).Unix()
	return db.CountItems(database, db.ItemFilter{
		CreatedAfter:  &after,
		CreatedBefore: &before,
	})
}
