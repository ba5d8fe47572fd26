package ops

import (
	"database/sql"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/item"
)

// ListInput contains parameters for the List operation.
type ListInput struct {
	Bucket        string // optional; all buckets when empty
	Processed     *bool  // optional
	CreatedAfter  *int64 // optional, inclusive
	CreatedBefore *int64 // optional, exclusive
	Limit         int    // default: 20, max: 100
	Offset        int    // default: 0
}

// ListOutput contains the result of the List operation.
type ListOutput struct {
	Items      []ItemView `json:"items"`
	Pagination Pagination `json:"pagination"`
	Sort       string     `json:"sort"`
}

// List retrieves item views newest-first with pagination. Content
// blobs are never included in list results.
func List(database *sql.DB, input ListInput) (*ListOutput, error) {
	filter := db.ItemFilter{
		Processed:     input.Processed,
		CreatedAfter:  input.CreatedAfter,
		CreatedBefore: input.CreatedBefore,
	}
	if input.Bucket != "" {
		key, err := item.ParseBucketKey(input.Bucket)
		if err != nil {
			return nil, err
		}
		filter.Bucket = &key
	}

	limit := input.Limit
	if limit <= 0 {
		limit = DefaultListLimit
	}
	if limit > MaxListLimit {
		limit = MaxListLimit
	}
	offset := max(input.Offset, 0)

	items, total, err := db.ListItems(database, filter, limit, offset)
	if err != nil {
		return nil, err
	}

	views := make([]ItemView, 0, len(items))
	for i := range items {
		views = append(views, buildItemView(&items[i]))
	}

	return &ListOutput{
		Items: views,
		Pagination: Pagination{
			Limit:   limit,
			Offset:  offset,
			HasMore: offset+len(views) < total,
			Total:   total,
		},
		Sort: "created_at_desc",
	}, nil
}
