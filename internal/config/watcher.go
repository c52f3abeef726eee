package config

import (
	"context"
	"path/filepath"
	"sync"
	"time"

	"baristasim/internal/logging"

	"github.com/fsnotify/fsnotify"
)

// Watcher monitors the config file for changes and invokes a reload callback.
// Only the logging section is safe to apply mid-run; the callback receives the
// freshly parsed config and decides what to pick up.
type Watcher struct {
	mu        sync.Mutex
	watcher   *fsnotify.Watcher
	path      string
	onChange  func(*Config)
	lastEvent time.Time
	debounce  time.Duration
	stopCh    chan struct{}
	doneCh    chan struct{}
	running   bool
}

// NewWatcher creates a watcher for the given config file path.
func NewWatcher(path string, onChange func(*Config)) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	return &Watcher{
		watcher:  fsw,
		path:     path,
		onChange: onChange,
		debounce: 500 * time.Millisecond, // Debounce rapid saves
		stopCh:   make(chan struct{}),
		doneCh:   make(chan struct{}),
	}, nil
}

// Start begins watching. Non-blocking; the watch loop runs in a goroutine.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil // Already running
	}
	w.running = true
	w.mu.Unlock()

	// Watch the directory rather than the file: editors replace files on
	// save, which drops a direct file watch.
	dir := filepath.Dir(w.path)
	if err := w.watcher.Add(dir); err != nil {
		logging.Get(logging.CategoryBoot).Warn("config watcher: watch failed for %s: %v", dir, err)
	} else {
		logging.Boot("config watcher: watching %s", dir)
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for cleanup.
func (w *Watcher) Stop() {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return
	}
	w.running = false
	w.mu.Unlock()

	close(w.stopCh)
	<-w.doneCh

	if err := w.watcher.Close(); err != nil {
		logging.Get(logging.CategoryBoot).Error("config watcher: close error: %v", err)
	}
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	for {
		select {
		case <-ctx.Done():
			return
		case <-w.stopCh:
			return
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if filepath.Clean(event.Name) != filepath.Clean(w.path) {
				continue
			}
			if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
				continue
			}
			w.mu.Lock()
			if time.Since(w.lastEvent) < w.debounce {
				w.mu.Unlock()
				continue
			}
			w.lastEvent = time.Now()
			w.mu.Unlock()

			w.reload()
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logging.Get(logging.CategoryBoot).Warn("config watcher: %v", err)
		}
	}
}

func (w *Watcher) reload() {
	cfg, err := Load(w.path)
	if err != nil {
		logging.Get(logging.CategoryBoot).Warn("config watcher: reload failed: %v", err)
		return
	}
	logging.Boot("config watcher: reloaded %s", w.path)
	if w.onChange != nil {
		w.onChange(cfg)
	}
}
