package ops

import (
	"database/sql"
	"time"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// AddInput contains parameters for the Add operation.
type AddInput struct {
	Type            string // required: link, voice, text, photo, screenshot
	Bucket          string // default: "inbox"
	ExtractedText   *string
	NoteBody        *string
	DurationCaption *string
	URL             *string
	Content         []byte
	Confidence      float64
}

// AddOutput contains the result of the Add operation.
type AddOutput struct {
	ID          string `json:"id"`
	Type        string `json:"type"`
	Bucket      string `json:"bucket"`
	IsProcessed bool   `json:"is_processed"`
}

// Add creates an item. The processed flag is derived from the target
// bucket, never taken from the caller. Targeting a non-inbox bucket
// counts as a user correction.
func Add(database *sql.DB, input AddInput) (*AddOutput, error) {
	typ, err := item.ParseType(input.Type)
	if err != nil {
		return nil, err
	}

	if input.Confidence < 0 || input.Confidence > 1 {
		return nil, errors.NewInvalidRequest("confidence must be in [0,1]")
	}

	bucketRaw := input.Bucket
	if bucketRaw == "" {
		bucketRaw = item.BucketInbox.String()
	}
	bucket, err := requireBucket(database, bucketRaw)
	if err != nil {
		return nil, err
	}

	input.ExtractedText = cleanOptionalString(input.ExtractedText)
	input.NoteBody = cleanOptionalString(input.NoteBody)
	input.DurationCaption = cleanOptionalString(input.DurationCaption)
	input.URL = cleanOptionalString(input.URL)

	// A link with no URL is still storable as long as it carries some
	// text to triage by; a fully empty link is not.
	if typ == item.TypeLink && input.URL == nil &&
		input.ExtractedText == nil && input.NoteBody == nil {
		return nil, errors.NewInvalidRequest("link item requires a url or some text")
	}

	id, err := generateULID()
	if err != nil {
		return nil, errors.NewInternal(err)
	}

	now := time.Now().Unix()
	it := &item.Item{
		ID:                  id,
		Type:                typ,
		Bucket:              bucket,
		IsProcessed:         item.ShouldBeProcessed(bucket),
		UserCorrectedBucket: !bucket.IsInbox(),
		Confidence:          input.Confidence,
		ExtractedText:       input.ExtractedText,
		NoteBody:            input.NoteBody,
		DurationCaption:     input.DurationCaption,
		URL:                 input.URL,
		Content:             input.Content,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := db.InsertItem(database, it); err != nil {
		return nil, err
	}

	return &AddOutput{
		ID:          id,
		Type:        typ.String(),
		Bucket:      bucket.String(),
		IsProcessed: it.IsProcessed,
	}, nil
}
