package photolib

import (
	"context"
	"log"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// imageExtensions are the file types treated as screenshot assets.
var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
}

// DirWatcher is a Library over a watched screenshots directory. Every
// new image file in the directory becomes one asset event; the file
// name is the asset id.
type DirWatcher struct {
	dir string

	mu      sync.Mutex
	watcher *fsnotify.Watcher
	events  chan AssetEvent
}

// NewDirWatcher builds a watcher for dir. The directory is created if
// missing so a fresh install watches an empty directory rather than
// failing.
func NewDirWatcher(dir string) (*DirWatcher, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, err
	}
	return &DirWatcher{dir: dir}, nil
}

// Subscribe starts the fsnotify watch on first call and returns the
// event channel. Subsequent calls return the same channel.
func (w *DirWatcher) Subscribe(ctx context.Context) (<-chan AssetEvent, error) {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.events != nil {
		return w.events, nil
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := watcher.Add(w.dir); err != nil {
		watcher.Close()
		return nil, err
	}

	w.watcher = watcher
	w.events = make(chan AssetEvent, 16)

	go w.run(ctx)

	return w.events, nil
}

func (w *DirWatcher) run(ctx context.Context) {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			// Create covers both direct writes and the rename most
			// screenshot tools use to land the finished file.
			if !ev.Has(fsnotify.Create) && !ev.Has(fsnotify.Rename) {
				continue
			}
			if !imageExtensions[strings.ToLower(filepath.Ext(ev.Name))] {
				continue
			}
			if _, err := os.Stat(ev.Name); err != nil {
				continue
			}

			asset := AssetEvent{
				ID:        filepath.Base(ev.Name),
				Path:      ev.Name,
				CreatedAt: time.Now(),
			}
			select {
			case w.events <- asset:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			log.Printf("screenshot watch: %v", err)
		}
	}
}

// Close stops the watch. The event channel closes once the run loop
// drains.
func (w *DirWatcher) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.watcher == nil {
		return nil
	}
	return w.watcher.Close()
}
