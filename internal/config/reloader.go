package config

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/JohnBasrai/aws-lambda-action-filter/internal/logger"
)

const defaultDebounce = 200 * time.Millisecond

// Reloader watches the config file on disk and reloads the store when it
// changes. It watches the file's directory rather than the file itself,
// because editors and configuration management tools typically replace the
// file by rename, which would silently detach a watch on the old inode.
type Reloader struct {
	store    *Store
	debounce time.Duration
	watcher  *fsnotify.Watcher
	stop     chan struct{}
	done     chan struct{}
}

// NewReloader creates a reloader for the store's config file. A zero
// debounce selects the default; the debounce coalesces the bursts of
// events a single save produces into one reload.
func NewReloader(store *Store, debounce time.Duration) (*Reloader, error) {
	if store.Path() == "" {
		return nil, fmt.Errorf("cannot watch config changes: no config file in use")
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating file watcher: %w", err)
	}

	return &Reloader{
		store:    store,
		debounce: debounce,
		watcher:  watcher,
		stop:     make(chan struct{}),
		done:     make(chan struct{}),
	}, nil
}

// Start begins watching for config file changes and returns immediately.
func (r *Reloader) Start() error {
	dir := filepath.Dir(r.store.Path())
	if err := r.watcher.Add(dir); err != nil {
		return fmt.Errorf("watching config directory '%s': %w", dir, err)
	}

	logger.L().Info("Watching config file for changes", "path", r.store.Path())
	go r.run()
	return nil
}

// Stop halts the watch loop and releases the underlying watcher. It blocks
// until the loop has exited, so no reload fires after Stop returns.
func (r *Reloader) Stop() error {
	close(r.stop)
	<-r.done
	return r.watcher.Close()
}

func (r *Reloader) run() {
	defer close(r.done)

	var timer *time.Timer
	var pending <-chan time.Time

	for {
		select {
		case event, ok := <-r.watcher.Events:
			if !ok {
				return
			}
			if !r.relevant(event) {
				continue
			}
			logger.L().Debug("Config file event", "event", event.String())
			if timer == nil {
				timer = time.NewTimer(r.debounce)
				pending = timer.C
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(r.debounce)
			}

		case <-pending:
			timer = nil
			pending = nil
			if err := r.store.Reload(); err != nil {
				// Keep running with the previous config; the next save
				// gets another chance.
				logger.L().Error("Config reload failed, keeping previous configuration", "error", err)
			}

		case err, ok := <-r.watcher.Errors:
			if !ok {
				return
			}
			logger.L().Error("Config watcher error", "error", err)

		case <-r.stop:
			if timer != nil {
				timer.Stop()
			}
			return
		}
	}
}

// relevant reports whether a filesystem event is a change to the watched
// config file. Chmod-only events are ignored; writes, creates and renames
// all count, covering both in-place edits and atomic replacement.
func (r *Reloader) relevant(event fsnotify.Event) bool {
	if filepath.Base(event.Name) != filepath.Base(r.store.Path()) {
		return false
	}
	return event.Op.Has(fsnotify.Write) || event.Op.Has(fsnotify.Create) || event.Op.Has(fsnotify.Rename)
}
