// Package share ingests payloads handed over by other applications. It
// runs in its own short-lived process (cmd/stash-share) against the same
// shared store as the main app; WAL plus busy_timeout is the only
// coordination between the two.
package share

import (
	"database/sql"
	"log"
	"strings"

	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
	"github.com/hpungsan/stash/internal/ops"
)

func errUnsupportedType(contentType string) error {
	return errors.NewInvalidRequest("unsupported content type: " + contentType)
}

// Attachment is one shared payload with its declared content type.
type Attachment struct {
	// ContentType is the provider's declared type: "text/uri-list" or
	// "url" for links, "text/*" for plain text, "image/*" for images.
	ContentType string

	// Data carries the payload bytes: UTF-8 for links and text, raw
	// image bytes otherwise.
	Data []byte
}

// Result reports the outcome for one attachment, in input order.
type Result struct {
	Index   int    `json:"index"`
	Success bool   `json:"success"`
	ItemID  string `json:"item_id,omitempty"`
	Error   string `json:"error,omitempty"`
}

// Classify maps a declared content type to the item type it produces.
// Priority when a provider declares something hybrid: URL beats text
// beats image. Unknown types are rejected.
func Classify(contentType string) (item.Type, bool) {
	ct := strings.ToLower(strings.TrimSpace(contentType))
	switch {
	case ct == "url" || strings.Contains(ct, "uri"):
		return item.TypeLink, true
	case strings.HasPrefix(ct, "text/"):
		return item.TypeText, true
	case strings.HasPrefix(ct, "image/"):
		return item.TypeScreenshot, true
	}
	return "", false
}

// Ingest saves each attachment as one inbox item. A failed attachment
// never aborts the batch; every result is reported.
func Ingest(database *sql.DB, attachments []Attachment) []Result {
	results := make([]Result, 0, len(attachments))
	for i, a := range attachments {
		res := Result{Index: i}

		added, err := ingestOne(database, a)
		if err != nil {
			log.Printf("share attachment %d (%s): %v", i, a.ContentType, err)
			res.Error = err.Error()
		} else {
			res.Success = true
			res.ItemID = added.ID
		}
		results = append(results, res)
	}
	return results
}

func ingestOne(database *sql.DB, a Attachment) (*ops.AddOutput, error) {
	typ, ok := Classify(a.ContentType)
	if !ok {
		return nil, errUnsupportedType(a.ContentType)
	}

	input := ops.AddInput{Type: typ.String()}
	switch typ {
	case item.TypeLink:
		url := strings.TrimSpace(string(a.Data))
		input.URL = &url
	case item.TypeText:
		text := string(a.Data)
		input.NoteBody = &text
	case item.TypeScreenshot:
		input.Content = a.Data
	}

	return ops.Add(database, input)
}
