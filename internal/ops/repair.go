package ops

import (
	"database/sql"

	"github.com/hpungsan/stash/internal/db"
)

// RepairOutput contains the result of the Repair operation.
type RepairOutput struct {
	Fixed int `json:"fixed"`
}

// Repair runs the consistency scan over the processed flags. Drifted
// items are corrected and logged. Safe to run on every launch.
func Repair(database *sql.DB) (*RepairOutput, error) {
	fixed, err := db.RepairProcessedFlags(database)
	if err != nil {
		return nil, err
	}
	return &RepairOutput{Fixed: fixed}, nil
}
