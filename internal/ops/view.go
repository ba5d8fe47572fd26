package ops

import (
	"github.com/hpungsan/stash/internal/insights"
	"github.com/hpungsan/stash/internal/item"
)

// ItemView is the read-side projection of an item: the stored fields plus
// the derived insight strings. The content blob is only populated by Fetch
// when the caller asks for it.
type ItemView struct {
	ID                  string   `json:"id"`
	Type                string   `json:"type"`
	Bucket              string   `json:"bucket"`
	IsProcessed         bool     `json:"is_processed"`
	UserCorrectedBucket bool     `json:"user_corrected_bucket"`
	Confidence          float64  `json:"confidence"`
	ExtractedText       *string  `json:"extracted_text,omitempty"`
	NoteBody            *string  `json:"note_body,omitempty"`
	DurationCaption     *string  `json:"duration_caption,omitempty"`
	URL                 *string  `json:"url,omitempty"`
	Content             []byte   `json:"content,omitempty"`
	HasContent          bool     `json:"has_content"`
	CreatedAt           int64    `json:"created_at"`
	UpdatedAt           int64    `json:"updated_at"`
	SmartDescription    string   `json:"smart_description"`
	Tags                []string `json:"tags"`
	SourceApp           string   `json:"source_app,omitempty"`
	SoftCaption         string   `json:"soft_caption,omitempty"`
	Hint                string   `json:"hint,omitempty"`
}

// buildItemView projects an item into its view. The blob is dropped here;
// Fetch re-attaches it when requested.
func buildItemView(it *item.Item) ItemView {
	tags := insights.Tags(it)
	if tags == nil {
		tags = []string{}
	}
	return ItemView{
		ID:                  it.ID,
		Type:                it.Type.String(),
		Bucket:              it.Bucket.String(),
		IsProcessed:         it.IsProcessed,
		UserCorrectedBucket: it.UserCorrectedBucket,
		Confidence:          it.Confidence,
		ExtractedText:       it.ExtractedText,
		NoteBody:            it.NoteBody,
		DurationCaption:     it.DurationCaption,
		URL:                 it.URL,
		HasContent:          len(it.Content) > 0,
		CreatedAt:           it.CreatedAt,
		UpdatedAt:           it.UpdatedAt,
		SmartDescription:    insights.SmartDescription(it),
		Tags:                tags,
		SourceApp:           insights.SourceApp(it),
		SoftCaption:         insights.SoftCaption(it),
		Hint:                insights.Hint(it),
	}
}

// BucketView is the read-side projection of a bucket with its item counts.
type BucketView struct {
	ID               string `json:"id"`
	SystemName       string `json:"system_name"`
	CustomName       string `json:"custom_name"`
	Icon             string `json:"icon"`
	ColorName        string `json:"color_name"`
	ItemCount        int    `json:"item_count"`
	UnprocessedCount int    `json:"unprocessed_count"`
}
