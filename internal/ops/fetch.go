package ops

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
)

// FetchInput contains parameters for the Fetch operation.
type FetchInput struct {
	ID             string
	IncludeContent bool // opt in to the blob
}

// FetchOutput contains the result of the Fetch operation.
type FetchOutput struct {
	Item ItemView `json:"item"`
}

// Fetch retrieves a single item by id.
func Fetch(database *sql.DB, input FetchInput) (*FetchOutput, error) {
	id := strings.TrimSpace(input.ID)
	if id == "" {
		return nil, errors.NewInvalidRequest("id is required")
	}

	it, err := db.GetItemByID(database, id)
	if err != nil {
		return nil, err
	}

	view := buildItemView(it)
	if input.IncludeContent {
		view.Content = it.Content
	}

	return &FetchOutput{Item: view}, nil
}
