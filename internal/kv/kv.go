// Package kv is a small bbolt-backed key-value state store for the main
// process: the screenshot dedup ledger, one-shot flags, and the activity
// heartbeat. It replaces the ambient UserDefaults-style globals of the
// original design with an explicit store injected into the components
// that need it.
package kv

import (
	"encoding/binary"
	"fmt"
	"time"

	"go.etcd.io/bbolt"
)

// Documented keys. Everything the store holds lives under one of these.
const (
	// FlagDemoSeeded gates one-time demo content insertion.
	FlagDemoSeeded = "demo_seeded_v1"

	// KeyLastActive is the foreground heartbeat timestamp.
	KeyLastActive = "last_active_at"
)

var (
	bucketFlags = []byte("flags")
	bucketState = []byte("state")

	// bucketLedger holds one key per already-imported screenshot asset id.
	// The set grows without eviction; see DESIGN.md.
	bucketLedger = []byte("imported_screenshot_ids")
)

// Store wraps a bbolt database holding process-local state.
type Store struct {
	db *bbolt.DB
}

// Open opens (creating if needed) the state store at path.
func Open(path string) (*Store, error) {
	db, err := bbolt.Open(path, 0600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("failed to open state store: %w", err)
	}

	s := &Store{db: db}
	if err := s.initBuckets(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the underlying database.
func (s *Store) Close() error {
	if s.db == nil {
		return nil
	}
	return s.db.Close()
}

func (s *Store) initBuckets() error {
	return s.db.Update(func(tx *bbolt.Tx) error {
		for _, name := range [][]byte{bucketFlags, bucketState, bucketLedger} {
			if _, err := tx.CreateBucketIfNotExists(name); err != nil {
				return fmt.Errorf("failed to create %s bucket: %w", name, err)
			}
		}
		return nil
	})
}

// Flag reads a boolean flag. Missing flags read as false.
func (s *Store) Flag(name string) (bool, error) {
	var set bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketFlags).Get([]byte(name))
		set = len(v) == 1 && v[0] == 1
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read flag %s: %w", name, err)
	}
	return set, nil
}

// SetFlag writes a boolean flag.
func (s *Store) SetFlag(name string, v bool) error {
	val := []byte{0}
	if v {
		val = []byte{1}
	}
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketFlags).Put([]byte(name), val)
	})
	if err != nil {
		return fmt.Errorf("failed to set flag %s: %w", name, err)
	}
	return nil
}

// LedgerContains reports whether an asset id has already been imported.
func (s *Store) LedgerContains(assetID string) (bool, error) {
	var found bool
	err := s.db.View(func(tx *bbolt.Tx) error {
		found = tx.Bucket(bucketLedger).Get([]byte(assetID)) != nil
		return nil
	})
	if err != nil {
		return false, fmt.Errorf("failed to read ledger: %w", err)
	}
	return found, nil
}

// LedgerAdd records an asset id as imported.
func (s *Store) LedgerAdd(assetID string) error {
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLedger).Put([]byte(assetID), []byte{1})
	})
	if err != nil {
		return fmt.Errorf("failed to update ledger: %w", err)
	}
	return nil
}

// LedgerIDs returns all imported asset ids in key order.
func (s *Store) LedgerIDs() ([]string, error) {
	var ids []string
	err := s.db.View(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketLedger).ForEach(func(k, _ []byte) error {
			ids = append(ids, string(k))
			return nil
		})
	})
	if err != nil {
		return nil, fmt.Errorf("failed to list ledger: %w", err)
	}
	return ids, nil
}

// Touch records a timestamp under the given state key.
func (s *Store) Touch(name string, t time.Time) error {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, uint64(t.Unix()))
	err := s.db.Update(func(tx *bbolt.Tx) error {
		return tx.Bucket(bucketState).Put([]byte(name), buf)
	})
	if err != nil {
		return fmt.Errorf("failed to touch %s: %w", name, err)
	}
	return nil
}

// LastTouch reads a timestamp written by Touch. Returns the zero time
// when the key has never been written.
func (s *Store) LastTouch(name string) (time.Time, error) {
	var t time.Time
	err := s.db.View(func(tx *bbolt.Tx) error {
		v := tx.Bucket(bucketState).Get([]byte(name))
		if len(v) == 8 {
			t = time.Unix(int64(binary.BigEndian.Uint64(v)), 0)
		}
		return nil
	})
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to read %s: %w", name, err)
	}
	return t, nil
}
