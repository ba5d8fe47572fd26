package ops

import (
	"crypto/rand"
	"database/sql"
	"time"

	"github.com/oklog/ulid/v2"

	"github.com/hpungsan/stash/internal/db"
	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// Pagination limits
const (
	DefaultListLimit = 20
	MaxListLimit     = 100
)

// DashboardScanLimit bounds how many recent items feed the dashboard
// summary line.
const DashboardScanLimit = 200

// Pagination contains pagination metadata for list operations.
type Pagination struct {
	Limit   int  `json:"limit"`
	Offset  int  `json:"offset"`
	HasMore bool `json:"has_more"`
	Total   int  `json:"total"`
}

// generateULID generates a new ULID.
func generateULID() (string, error) {
	entropy := ulid.Monotonic(rand.Reader, 0)
	id, err := ulid.New(ulid.Timestamp(time.Now()), entropy)
	if err != nil {
		return "", err
	}
	return id.String(), nil
}

// requireBucket parses a bucket key and verifies it exists in the registry.
// Write paths never accept a bucket that has not been created.
func requireBucket(database *sql.DB, raw string) (item.BucketKey, error) {
	key, err := item.ParseBucketKey(raw)
	if err != nil {
		return "", err
	}
	exists, err := db.BucketExists(database, key)
	if err != nil {
		return "", err
	}
	if !exists {
		return "", errors.NewNotFound("bucket " + key.String())
	}
	return key, nil
}

func cleanOptionalString(s *string) *string {
	if s == nil {
		return nil
	}
	if *s == "" {
		return nil
	}
	return s
}
