package db

import (
	"database/sql"
	"strings"

	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// ErrUniqueConstraint is returned when an insert violates a UNIQUE constraint.
var ErrUniqueConstraint = &errors.StashError{
	Code:    "UNIQUE_CONSTRAINT",
	Status:  409,
	Message: "unique constraint violation",
}

// InsertBucket stores a new bucket.
func InsertBucket(db *sql.DB, b *item.Bucket) error {
	query := `
		INSERT INTO buckets (id, system_name, custom_name, icon, color_name, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		b.ID, b.SystemName.String(), b.CustomName, b.Icon, b.ColorName, b.CreatedAt,
	)
	if err != nil {
		if isUniqueConstraintError(err) {
			return ErrUniqueConstraint
		}
		return errors.NewStoreWrite("insert bucket", err)
	}

	return nil
}

// isUniqueConstraintError checks if the error is a SQLite UNIQUE constraint violation.
func isUniqueConstraintError(err error) bool {
	if err == nil {
		return false
	}
	// SQLite returns "UNIQUE constraint failed: ..." for unique violations
	return strings.Contains(err.Error(), "UNIQUE constraint failed")
}

// GetBucket retrieves a bucket by its system name.
func GetBucket(db *sql.DB, systemName item.BucketKey) (*item.Bucket, error) {
	row := db.QueryRow(`
		SELECT id, system_name, custom_name, icon, color_name, created_at
		FROM buckets WHERE system_name = ?
	`, systemName.String())

	b, err := scanBucket(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(systemName.String())
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return b, nil
}

// BucketExists reports whether a bucket with the given system name exists.
// Write paths use it to enforce referential integrity from Item.Bucket.
func BucketExists(db *sql.DB, systemName item.BucketKey) (bool, error) {
	var exists int
	err := db.QueryRow("SELECT 1 FROM buckets WHERE system_name = ? LIMIT 1", systemName.String()).Scan(&exists)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, errors.NewInternal(err)
	}
	return true, nil
}

// ListBuckets returns all buckets in seed order (created_at, then name).
func ListBuckets(db *sql.DB) ([]item.Bucket, error) {
	rows, err := db.Query(`
		SELECT id, system_name, custom_name, icon, color_name, created_at
		FROM buckets ORDER BY created_at ASC, system_name ASC
	`)
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	defer rows.Close()

	var buckets []item.Bucket
	for rows.Next() {
		b, err := scanBucket(rows)
		if err != nil {
			return nil, errors.NewInternal(err)
		}
		buckets = append(buckets, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewInternal(err)
	}

	return buckets, nil
}

// CountBuckets returns the number of buckets. Used by the idempotent seed.
func CountBuckets(db *sql.DB) (int, error) {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM buckets").Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// RenameBucket updates a bucket's display name only. A missing system name
// is a documented no-op, not an error, to keep retries idempotent.
func RenameBucket(db *sql.DB, systemName item.BucketKey, newName string) error {
	_, err := db.Exec("UPDATE buckets SET custom_name = ? WHERE system_name = ?",
		newName, systemName.String())
	if err != nil {
		return errors.NewStoreWrite("rename bucket", err)
	}
	return nil
}

// scanBucket scans a bucket row.
func scanBucket(row scanner) (*item.Bucket, error) {
	var (
		b          item.Bucket
		systemName string
	)
	if err := row.Scan(&b.ID, &systemName, &b.CustomName, &b.Icon, &b.ColorName, &b.CreatedAt); err != nil {
		return nil, err
	}
	b.SystemName = item.BucketKey(systemName)
	return &b, nil
}
