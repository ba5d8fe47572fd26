package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
)

// AttachInput contains parameters for the Attach operation.
type AttachInput struct {
	ID      string
	Content []byte
}

// AttachOutput contains the result of the Attach operation.
type AttachOutput struct {
	ID    string `json:"id"`
	Bytes int    `json:"bytes"`
}

// Attach sets the content blob of an existing item.
func Attach(database *sql.DB, input AttachInput) (*AttachOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}
	if len(input.Content) == 0 {
		return nil, errors.NewInvalidRequest("content must not be empty")
	}

	if err := db.AttachContent(database, id, input.Content); err != nil {
		return nil, err
	}

	return &AttachOutput{ID: id, Bytes: len(input.Content)}, nil
}
