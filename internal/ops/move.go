package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// MoveInput contains parameters for the Move operation.
type MoveInput struct {
	ID     string
	Bucket string // required target bucket system name
}

// MoveOutput contains the result of the Move operation.
type MoveOutput struct {
	ID          string `json:"id"`
	Bucket      string `json:"bucket"`
	IsProcessed bool   `json:"is_processed"`
}

// Move re-buckets an item. The processed flag and user-correction marker
// change together with the bucket in a single statement.
func Move(database *sql.DB, input MoveInput) (*MoveOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	bucket, err := requireBucket(database, input.Bucket)
	if err != nil {
		return nil, err
	}

	if err := db.MoveItem(database, id, bucket); err != nil {
		return nil, err
	}

	return &MoveOutput{
		ID:          id,
		Bucket:      bucket.String(),
		IsProcessed: item.ShouldBeProcessed(bucket),
	}, nil
}
