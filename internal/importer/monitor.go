package importer

import (
	"context"
	"database/sql"
	"log"
	"time"

	"github.com/hpungsan/stash/internal/item"
	"github.com/hpungsan/stash/internal/kv"
	"github.com/hpungsan/stash/internal/notify"
	"github.com/hpungsan/stash/internal/ops"
	"github.com/hpungsan/stash/internal/photolib"
)

// attachResult rejoins the run loop after a background image fetch.
type attachResult struct {
	itemID  string
	assetID string
	content []byte
	err     error
}

// Monitor drives screenshot imports. All store writes happen on the Run
// goroutine; only the image fetch runs concurrently.
type Monitor struct {
	db       *sql.DB
	state    *kv.Store
	library  photolib.Library
	fetcher  ImageFetcher
	notifier notify.Notifier

	// foregroundWindow is how recent the activity heartbeat must be
	// for the app to count as foreground.
	foregroundWindow time.Duration

	// now is swapped in tests.
	now func() time.Time

	results chan attachResult
}

// NewMonitor wires the import pipeline.
func NewMonitor(db *sql.DB, state *kv.Store, library photolib.Library, fetcher ImageFetcher, notifier notify.Notifier, foregroundWindow time.Duration) *Monitor {
	return &Monitor{
		db:               db,
		state:            state,
		library:          library,
		fetcher:          fetcher,
		notifier:         notifier,
		foregroundWindow: foregroundWindow,
		now:              time.Now,
		results:          make(chan attachResult, 16),
	}
}

// Run consumes asset events and attach results until ctx ends.
func (m *Monitor) Run(ctx context.Context) error {
	events, err := m.library.Subscribe(ctx)
	if err != nil {
		return err
	}

	log.Printf("screenshot monitor running")
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			m.processEvent(ctx, ev)
		case res := <-m.results:
			m.completeAttach(ctx, res)
		}
	}
}

// processEvent handles one asset event: dedup, foreground gate, pending
// item creation, then the async fetch.
func (m *Monitor) processEvent(ctx context.Context, ev photolib.AssetEvent) {
	imported, err := m.state.LedgerContains(ev.ID)
	if err != nil {
		log.Printf("import %s: ledger check: %v", ev.ID, err)
		return
	}
	if imported {
		log.Printf("import %s: already imported, skipping", ev.ID)
		return
	}

	if m.isForeground() {
		// The in-app capture path owns foreground screenshots.
		log.Printf("import %s: app foreground, skipping", ev.ID)
		return
	}

	placeholder := "Screenshot saved " + ev.CreatedAt.Format("Jan 2, 2006 at 3:04 PM")
	added, err := ops.Add(m.db, ops.AddInput{
		Type:     item.TypeScreenshot.String(),
		NoteBody: &placeholder,
	})
	if err != nil {
		log.Printf("import %s: create pending item: %v", ev.ID, err)
		return
	}

	go m.fetchAndQueue(ctx, added.ID, ev)
}

// fetchAndQueue loads the image bytes off the run loop and posts the
// result back.
func (m *Monitor) fetchAndQueue(ctx context.Context, itemID string, ev photolib.AssetEvent) {
	content, err := m.fetcher.Fetch(ctx, ev)
	res := attachResult{itemID: itemID, assetID: ev.ID, content: content, err: err}
	select {
	case m.results <- res:
	case <-ctx.Done():
	}
}

// completeAttach finishes one import: attach the bytes, record the asset
// in the ledger, and prompt for triage if still backgrounded. A failed
// fetch leaves the item contentless and the ledger untouched; there is
// no retry.
func (m *Monitor) completeAttach(ctx context.Context, res attachResult) {
	if res.err != nil {
		log.Printf("import %s: fetch failed: %v", res.assetID, res.err)
		return
	}

	if _, err := ops.Attach(m.db, ops.AttachInput{ID: res.itemID, Content: res.content}); err != nil {
		log.Printf("import %s: attach: %v", res.assetID, err)
		return
	}

	// Only a fully attached import counts as done for dedup purposes.
	if err := m.state.LedgerAdd(res.assetID); err != nil {
		log.Printf("import %s: ledger add: %v", res.assetID, err)
	}

	if !m.isForeground() {
		if err := m.notifier.ScheduleCategorize(ctx); err != nil {
			log.Printf("import %s: notify: %v", res.assetID, err)
		}
	}
}

// isForeground reports whether the activity heartbeat is fresh enough.
func (m *Monitor) isForeground() bool {
	last, err := m.state.LastTouch(kv.KeyLastActive)
	if err != nil {
		log.Printf("heartbeat read: %v", err)
		return false
	}
	if last.IsZero() {
		return false
	}
	return m.now().Sub(last) < m.foregroundWindow
}
