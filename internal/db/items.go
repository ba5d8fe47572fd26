package db

import (
	"database/sql"
	"fmt"
	"log"
	"strings"
	"time"

	"github.com/hpungsan/stash/internal/errors"
	"github.com/hpungsan/stash/internal/item"
)

// itemColumns is the scan order shared by all item queries.
const itemColumns = `id, type, bucket, is_processed, user_corrected_bucket, confidence,
	extracted_text, note_body, duration_caption, url, content, created_at, updated_at`

// InsertItem stores a new item. The struct is written as given: callers
// are responsible for the processed-flag invariant (ops derives it; the
// startup repair scan corrects any drift).
func InsertItem(db *sql.DB, it *item.Item) error {
	query := `
		INSERT INTO items (
			id, type, bucket, is_processed, user_corrected_bucket, confidence,
			extracted_text, note_body, duration_caption, url, content,
			created_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query,
		it.ID, it.Type.String(), it.Bucket.String(), it.IsProcessed, it.UserCorrectedBucket,
		it.Confidence, toNullString(it.ExtractedText), toNullString(it.NoteBody),
		toNullString(it.DurationCaption), toNullString(it.URL), it.Content,
		it.CreatedAt, it.UpdatedAt,
	)
	if err != nil {
		return errors.NewStoreWrite("insert item", err)
	}

	return nil
}

// GetItemByID retrieves a single item, including its content blob.
func GetItemByID(db *sql.DB, id string) (*item.Item, error) {
	row := db.QueryRow("SELECT "+itemColumns+" FROM items WHERE id = ?", id)
	it, err := scanItem(row)
	if err == sql.ErrNoRows {
		return nil, errors.NewNotFound(id)
	}
	if err != nil {
		return nil, errors.NewInternal(err)
	}
	return it, nil
}

// MoveItem re-buckets an item. Bucket, is_processed, user_corrected_bucket,
// and updated_at change together in one statement so the processed-flag
// invariant holds at every commit point.
func MoveItem(db *sql.DB, id string, bucket item.BucketKey) error {
	now := time.Now().Unix()

	query := `
		UPDATE items
		SET bucket = ?, is_processed = ?, user_corrected_bucket = 1, updated_at = ?
		WHERE id = ?
	`

	result, err := db.Exec(query, bucket.String(), item.ShouldBeProcessed(bucket), now, id)
	if err != nil {
		return errors.NewStoreWrite("move item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// UpdateItemText sets the note body and/or extracted text of an item.
// Nil pointers leave the corresponding column untouched.
func UpdateItemText(db *sql.DB, id string, noteBody, extractedText *string) error {
	sets := make([]string, 0, 3)
	args := make([]any, 0, 4)

	if noteBody != nil {
		sets = append(sets, "note_body = ?")
		args = append(args, *noteBody)
	}
	if extractedText != nil {
		sets = append(sets, "extracted_text = ?")
		args = append(args, *extractedText)
	}
	if len(sets) == 0 {
		return errors.NewInvalidRequest("nothing to update")
	}

	sets = append(sets, "updated_at = ?")
	args = append(args, time.Now().Unix(), id)

	result, err := db.Exec("UPDATE items SET "+strings.Join(sets, ", ")+" WHERE id = ?", args...)
	if err != nil {
		return errors.NewStoreWrite("update item text", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// AttachContent sets the binary payload of an item and bumps updated_at.
// Used by the import pipeline when the async image fetch completes.
func AttachContent(db *sql.DB, id string, content []byte) error {
	now := time.Now().Unix()

	result, err := db.Exec("UPDATE items SET content = ?, updated_at = ? WHERE id = ?", content, now, id)
	if err != nil {
		return errors.NewStoreWrite("attach content", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// DeleteItem hard-deletes an item. There are no tombstones.
func DeleteItem(db *sql.DB, id string) error {
	result, err := db.Exec("DELETE FROM items WHERE id = ?", id)
	if err != nil {
		return errors.NewStoreWrite("delete item", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return errors.NewInternal(err)
	}
	if rowsAffected == 0 {
		return errors.NewNotFound(id)
	}

	return nil
}

// ItemFilter narrows item queries. Nil fields are unconstrained.
type ItemFilter struct {
	Bucket        *item.BucketKey
	Processed     *bool
	CreatedAfter  *int64 // inclusive
	CreatedBefore *int64 // exclusive
}

// where builds the WHERE clause and arguments for the filter.
func (f ItemFilter) where() (string, []any) {
	conds := make([]string, 0, 4)
	args := make([]any, 0, 4)

	if f.Bucket != nil {
		conds = append(conds, "bucket = ?")
		args = append(args, f.Bucket.String())
	}
	if f.Processed != nil {
		conds = append(conds, "is_processed = ?")
		args = append(args, *f.Processed)
	}
	if f.CreatedAfter != nil {
		conds = append(conds, "created_at >= ?")
		args = append(args, *f.CreatedAfter)
	}
	if f.CreatedBefore != nil {
		conds = append(conds, "created_at < ?")
		args = append(args, *f.CreatedBefore)
	}

	if len(conds) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(conds, " AND "), args
}

// ListItems returns matching items newest-first plus the unpaginated total.
// Content blobs are not loaded; a one-byte sentinel stands in for a present
// blob so callers can tell attached from pending. Use GetItemByID for the
// payload itself.
func ListItems(db *sql.DB, filter ItemFilter, limit, offset int) ([]item.Item, int, error) {
	where, args := filter.where()

	total, err := CountItems(db, filter)
	if err != nil {
		return nil, 0, err
	}

	query := `SELECT id, type, bucket, is_processed, user_corrected_bucket, confidence,
		extracted_text, note_body, duration_caption, url,
		CASE WHEN content IS NULL THEN NULL ELSE x'01' END,
		created_at, updated_at
		FROM items` + where + " ORDER BY created_at DESC, id DESC LIMIT ? OFFSET ?"
	args = append(args, limit, offset)

	rows, err := db.Query(query, args...)
	if err != nil {
		return nil, 0, errors.NewInternal(err)
	}
	defer rows.Close()

	var items []item.Item
	for rows.Next() {
		it, err := scanItem(rows)
		if err != nil {
			return nil, 0, errors.NewInternal(err)
		}
		items = append(items, *it)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, errors.NewInternal(err)
	}

	return items, total, nil
}

// CountItems returns the number of items matching the filter.
func CountItems(db *sql.DB, filter ItemFilter) (int, error) {
	where, args := filter.where()

	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM items"+where, args...).Scan(&count); err != nil {
		return 0, errors.NewInternal(err)
	}
	return count, nil
}

// RepairProcessedFlags scans all items and corrects any is_processed that
// disagrees with bucket != "inbox". Each fix is logged; the scan is
// idempotent and safe to run every launch.
func RepairProcessedFlags(db *sql.DB) (int, error) {
	rows, err := db.Query(`
		SELECT id, bucket, is_processed FROM items
		WHERE is_processed != (bucket != ?)
	`, item.BucketInbox.String())
	if err != nil {
		return 0, errors.NewInternal(err)
	}
	defer rows.Close()

	type drift struct {
		id     string
		bucket string
		was    bool
	}
	var drifted []drift
	for rows.Next() {
		var d drift
		if err := rows.Scan(&d.id, &d.bucket, &d.was); err != nil {
			return 0, errors.NewInternal(err)
		}
		drifted = append(drifted, d)
	}
	if err := rows.Err(); err != nil {
		return 0, errors.NewInternal(err)
	}

	if len(drifted) == 0 {
		return 0, nil
	}

	now := time.Now().Unix()
	for _, d := range drifted {
		log.Printf("consistency violation: item %s bucket=%s is_processed=%v, correcting to %v",
			d.id, d.bucket, d.was, !d.was)
	}

	_, err = db.Exec(`
		UPDATE items SET is_processed = (bucket != ?), updated_at = ?
		WHERE is_processed != (bucket != ?)
	`, item.BucketInbox.String(), now, item.BucketInbox.String())
	if err != nil {
		return 0, errors.NewStoreWrite("repair processed flags", err)
	}

	return len(drifted), nil
}

// scanner abstracts *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

// scanItem scans a row in itemColumns order into an Item.
func scanItem(row scanner) (*item.Item, error) {
	var (
		it              item.Item
		typ             string
		bucket          string
		extractedText   sql.NullString
		noteBody        sql.NullString
		durationCaption sql.NullString
		itemURL         sql.NullString
		content         []byte
	)

	err := row.Scan(
		&it.ID, &typ, &bucket, &it.IsProcessed, &it.UserCorrectedBucket, &it.Confidence,
		&extractedText, &noteBody, &durationCaption, &itemURL, &content,
		&it.CreatedAt, &it.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	parsedType, err := item.ParseType(typ)
	if err != nil {
		return nil, fmt.Errorf("stored item %s has invalid type %q", it.ID, typ)
	}
	it.Type = parsedType
	it.Bucket = item.BucketKey(bucket)
	it.ExtractedText = fromNullString(extractedText)
	it.NoteBody = fromNullString(noteBody)
	it.DurationCaption = fromNullString(durationCaption)
	it.URL = fromNullString(itemURL)
	it.Content = content

	return &it, nil
}

// toNullString converts a *string to sql.NullString.
func toNullString(s *string) sql.NullString {
	if s == nil {
		return sql.NullString{}
	}
	return sql.NullString{String: *s, Valid: true}
}

// fromNullString converts a sql.NullString to *string.
func fromNullString(ns sql.NullString) *string {
	if !ns.Valid {
		return nil
	}
	return &ns.String
}
