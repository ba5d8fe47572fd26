package item

import (
	"strings"

	"github.com/hpungsan/stash/internal/errors"
)

// Type identifies what kind of content an item carries.
// The set is closed; free-form type strings are rejected at the boundary.
type Type string

const (
	TypeLink       Type = "link"
	TypeVoice      Type = "voice"
	TypeText       Type = "text"
	TypePhoto      Type = "photo"
	TypeScreenshot Type = "screenshot"
)

// Types returns all valid item types in display order.
func Types() []Type {
	return []Type{TypeLink, TypeVoice, TypeText, TypePhoto, TypeScreenshot}
}

// ParseType validates a type string and returns the corresponding Type.
func ParseType(s string) (Type, error) {
	t := Type(strings.ToLower(strings.TrimSpace(s)))
	switch t {
	case TypeLink, TypeVoice, TypeText, TypePhoto, TypeScreenshot:
		return t, nil
	}
	return "", errors.NewInvalidRequest("type must be one of: link, voice, text, photo, screenshot")
}

// String returns the stable string form stored in the database.
func (t Type) String() string {
	return string(t)
}

// DisplayName returns the human-readable label for the type.
func (t Type) DisplayName() string {
	switch t {
	case TypeLink:
		return "Link"
	case TypeVoice:
		return "Voice"
	case TypeText:
		return "Text"
	case TypePhoto:
		return "Photo"
	case TypeScreenshot:
		return "Screenshot"
	}
	return string(t)
}

// BucketKey is the stable system name of a bucket, used as the join key
// from items. Keys are lowercased; existence against the bucket registry
// is checked by write paths, not here.
type BucketKey string

// BucketInbox is the default landing bucket for all automated capture paths.
const BucketInbox BucketKey = "inbox"

// ParseBucketKey normalizes and validates the shape of a bucket key.
func ParseBucketKey(s string) (BucketKey, error) {
	k := strings.ToLower(strings.TrimSpace(s))
	if k == "" {
		return "", errors.NewInvalidRequest("bucket must not be empty")
	}
	return BucketKey(k), nil
}

// String returns the stable string form stored in the database.
func (k BucketKey) String() string {
	return string(k)
}

// IsInbox reports whether the key refers to the inbox bucket.
func (k BucketKey) IsInbox() bool {
	return k == BucketInbox
}

// ShouldBeProcessed reports the processed state implied by a bucket:
// an item is processed exactly when it has left the inbox.
func ShouldBeProcessed(bucket BucketKey) bool {
	return !bucket.IsInbox()
}
