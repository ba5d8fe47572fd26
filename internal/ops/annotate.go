package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
)

// AnnotateInput contains parameters for the Annotate operation.
// Nil fields are left untouched; empty strings clear.
type AnnotateInput struct {
	ID            string
	NoteBody      *string
	ExtractedText *string
}

// AnnotateOutput contains the result of the Annotate operation.
type AnnotateOutput struct {
	ID      string `json:"id"`
	Updated bool   `json:"updated"`
}

// Annotate replaces the note body and/or extracted text of an item.
func Annotate(database *sql.DB, input AnnotateInput) (*AnnotateOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if input.NoteBody == nil && input.ExtractedText == nil {
		return nil, errors.NewInvalidRequest("nothing to update")
	}

	if err := db.UpdateItemText(database, id, input.NoteBody, input.ExtractedText); err != nil {
		return nil, err
	}

	return &AnnotateOutput{ID: id, Updated: true}, nil
}
