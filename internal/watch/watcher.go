// Package watch re-runs work when rope input files change on disk.
package watch

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"ropewalk/internal/logging"
)

// ChangeFunc is called once per debounced change of a watched file.
type ChangeFunc func(ctx context.Context, path string)

// Watcher watches a fixed set of input files. It watches their parent
// directories so editors that replace files on save are still seen.
type Watcher struct {
	mu          sync.Mutex
	watcher     *fsnotify.Watcher
	files       map[string]struct{} // absolute paths
	onChange    ChangeFunc
	logger      *zap.Logger
	pending     map[string]time.Time
	debounceDur time.Duration
	stopCh      chan struct{}
	doneCh      chan struct{}
	running     bool

	stats Stats
}

// Stats tracks watcher activity.
type Stats struct {
	Events        int
	Triggered     int
	Errors        int
	LastEventPath string
	LastEventTime time.Time
}

// New creates a Watcher for paths. Nothing is watched until Start.
func New(paths []string, debounce time.Duration, onChange ChangeFunc, logger *zap.Logger) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, errors.New("no files to watch")
	}
	if onChange == nil {
		return nil, errors.New("nil change callback")
	}

	files := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			return nil, fmt.Errorf("failed to resolve %s: %w", p, err)
		}
		files[abs] = struct{}{}
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}

	return &Watcher{
		watcher:     fw,
		files:       files,
		onChange:    onChange,
		logger:      logging.For(logger, logging.CategoryWatch),
		pending:     make(map[string]time.Time),
		debounceDur: debounce,
		stopCh:      make(chan struct{}),
		doneCh:      make(chan struct{}),
	}, nil
}

// Start begins watching. It is non-blocking; events are handled on a
// goroutine until Stop is called or ctx is done.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	if w.running {
		w.mu.Unlock()
		return nil
	}
	w.running = true
	w.mu.Unlock()

	dirs := make(map[string]struct{})
	for f := range w.files {
		dirs[filepath.Dir(f)] = struct{}{}
	}
	for dir := range dirs {
		if err := w.watcher.Add(dir); err != nil {
			_ = w.watcher.Close()
			w.mu.Lock()
			w.running = false
			w.mu.Unlock()
			return fmt.Errorf("failed to watch %s: %w", dir, err)
		}
		w.logger.Debug("Watching directory", zap.String("dir", dir))
	}

	go w.run(ctx)
	return nil
}

// Stop stops the watcher and waits for its goroutine to exit.
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
		w.logger.Error("Error closing watcher", zap.Error(err))
	}
	w.logger.Debug("Watcher stopped")
}

// Done is closed once the event loop has exited.
func (w *Watcher) Done() <-chan struct{} {
	return w.doneCh
}

// Stats returns a snapshot of watcher activity.
func (w *Watcher) Stats() Stats {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.stats
}

func (w *Watcher) run(ctx context.Context) {
	defer close(w.doneCh)

	tick := w.debounceDur / 3
	if tick <= 0 {
		tick = 10 * time.Millisecond
	}
	debounceTicker := time.NewTicker(tick)
	defer debounceTicker.Stop()

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
			w.handleEvent(event)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("Watcher error", zap.Error(err))
			w.mu.Lock()
			w.stats.Errors++
			w.mu.Unlock()

		case <-debounceTicker.C:
			w.flush(ctx)
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	// Removal is ignored: there is nothing to simulate until the file returns.
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Rename) {
		return
	}

	path, err := filepath.Abs(event.Name)
	if err != nil {
		return
	}
	if _, ok := w.files[path]; !ok {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	w.stats.Events++
	w.stats.LastEventPath = path
	w.stats.LastEventTime = time.Now()
	w.pending[path] = time.Now()

	w.logger.Debug("File event", zap.String("path", path), zap.Stringer("op", event.Op))
}

// flush fires onChange for every file that has been quiet for the debounce window.
func (w *Watcher) flush(ctx context.Context) {
	now := time.Now()
	var ready []string

	w.mu.Lock()
	for path, last := range w.pending {
		if now.Sub(last) >= w.debounceDur {
			ready = append(ready, path)
			delete(w.pending, path)
		}
	}
	w.stats.Triggered += len(ready)
	w.mu.Unlock()

	for _, path := range ready {
		w.logger.Info("Input changed", zap.String("path", path))
		w.onChange(ctx, path)
	}
}
