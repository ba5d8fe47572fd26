// Package photolib exposes newly captured screenshots as an event
// stream. The production implementation watches a screenshots directory;
// tests feed events directly.
package photolib

import (
	"context"
	"time"
)

// AssetEvent announces a new asset. The ID is the stable dedup key for
// the import ledger.
type AssetEvent struct {
	// ID identifies the asset across restarts (the file name for the
	// directory-backed library).
	ID string

	// Path locates the asset's bytes on disk.
	Path string

	// CreatedAt is when the asset appeared.
	CreatedAt time.Time
}

// Library is a subscribable source of asset events.
type Library interface {
	// Subscribe returns the event channel, starting the underlying
	// watch if needed. Calling Subscribe again returns the same
	// channel; the subscription survives until Close or ctx ends.
	Subscribe(ctx context.Context) (<-chan AssetEvent, error)

	// Close stops the watch and closes the event channel.
	Close() error
}
