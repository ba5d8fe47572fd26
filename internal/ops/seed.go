package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
	"github.com/hpungsan/stash/internal/kv"
)

// SeedDemoOutput contains the result of the SeedDemo operation.
type SeedDemoOutput struct {
	Seeded bool `json:"seeded"`
	Items  int  `json:"items"`
}

// demoItem describes one seeded demo item. Text lands in the role the
// type implies: a note body for text/photo items, a note body alongside
// the URL for links.
type demoItem struct {
	typ     item.Type
	bucket  item.BucketKey
	text    string
	url     string
	ageBack time.Duration
}

var demoItems = []demoItem{
	{item.TypePhoto, item.BucketInbox, "Newest screenshot will land here", "", 1 * time.Minute},
	{item.TypeLink, item.BucketInbox, "Review this later", "https://example.com", 3 * time.Minute},
	{item.TypeText, "work", "Follow up: client feedback", "", 10 * time.Minute},
	{item.TypeLink, "work", "Spec doc", "https://company.example/spec", 15 * time.Minute},
	{item.TypePhoto, "shopping", "Running shoes to compare", "", 20 * time.Minute},
	{item.TypeLink, "shopping", "Cart – monitor price drop", "https://store.example/cart", 25 * time.Minute},
	{item.TypeText, "ideas", "Concept: quick stash keyboard shortcut", "", 30 * time.Minute},
	{item.TypeLink, "ideas", "Inspiration article", "https://example.com/ux-flow", 35 * time.Minute},
	{item.TypePhoto, "personal", "Weekend plan: hiking spot", "", 40 * time.Minute},
	{item.TypeText, "personal", "Gift ideas for Sam", "", 45 * time.Minute},
}

// SeedDemo inserts the demo content once per state store. The gate is a
// kv flag, not the item table, so clearing all items does not re-seed.
func SeedDemo(database *sql.DB, state *kv.Store) (*SeedDemoOutput, error) {
	seeded, err := state.Flag(kv.FlagDemoSeeded)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	if seeded {
		return &SeedDemoOutput{Seeded: false, Items: 0}, nil
	}

	now := time.Now()
	inserted := 0
	for _, d := range demoItems {
		id, err := generateULID()
		if err != nil {
			return nil, errors.NewInternal(err)
		}

		at := now.Add(-d.ageBack).Unix()
		note := d.text
		it := &item.Item{
			ID:                  id,
			Type:                d.typ,
			Bucket:              d.bucket,
			IsProcessed:         item.ShouldBeProcessed(d.bucket),
			UserCorrectedBucket: !d.bucket.IsInbox(),
			NoteBody:            &note,
			CreatedAt:           at,
			UpdatedAt:           at,
		}
		if d.url != "" {
			url := d.url
			it.URL = &url
		}

		if err := db.InsertItem(database, it); err != nil {
			return nil, err
		}
		inserted++
	}

	if err := state.SetFlag(kv.FlagDemoSeeded, true); err != nil {
		return nil, errors.NewInternal(err)
	}

	return &SeedDemoOutput{Seeded: true, Items: inserted}, nil
}
