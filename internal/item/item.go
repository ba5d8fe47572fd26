package item

import "strings"

// Item represents a captured unit of content: a screenshot, link, text
// note, photo, or voice memo waiting in a bucket.
type Item struct {
	// ID is a ULID that uniquely identifies this item
	ID string

	// Type is the content kind; immutable after creation
	Type Type

	// Bucket is the system name of the bucket holding this item
	Bucket BucketKey

	// IsProcessed must equal Bucket != "inbox" after every completed
	// mutation; the startup repair scan corrects drift
	IsProcessed bool

	// UserCorrectedBucket is true when a user chose the bucket, as
	// opposed to default/seed placement
	UserCorrectedBucket bool

	// Confidence is an importance marker in [0,1]
	Confidence float64

	// ExtractedText holds externally supplied OCR/extracted text (nullable)
	ExtractedText *string

	// NoteBody holds user note text or captions (nullable)
	NoteBody *string

	// DurationCaption holds a voice-memo duration caption (nullable)
	DurationCaption *string

	// URL is the canonical external link for link items (nullable)
	URL *string

	// Content is the binary payload: JPEG bytes for photo/screenshot,
	// audio container bytes for voice; nil until attached
	Content []byte

	// CreatedAt is the Unix timestamp when the item was created
	CreatedAt int64

	// UpdatedAt is the Unix timestamp of the last mutation
	UpdatedAt int64
}

// PrimaryText returns the first non-empty text field in role priority:
// extracted text, note body, duration caption. Empty string when none.
func (it *Item) PrimaryText() string {
	for _, s := range []*string{it.ExtractedText, it.NoteBody, it.DurationCaption} {
		if s == nil {
			continue
		}
		if t := strings.TrimSpace(*s); t != "" {
			return t
		}
	}
	return ""
}

// URLString returns the URL field or empty string when unset.
func (it *Item) URLString() string {
	if it.URL == nil {
		return ""
	}
	return strings.TrimSpace(*it.URL)
}

// Bucket represents a categorization target ("stack").
type Bucket struct {
	// ID is a UUID that uniquely identifies this bucket
	ID string

	// SystemName is the stable key referenced by Item.Bucket; immutable
	SystemName BucketKey

	// CustomName is the user-editable display label
	CustomName string

	// Icon is a presentation hint (stored, not interpreted)
	Icon string

	// ColorName is a presentation hint (stored, not interpreted)
	ColorName string

	// CreatedAt is the Unix timestamp set at seed time
	CreatedAt int64
}
