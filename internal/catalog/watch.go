package catalog

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultRebuildDelay is how long the asset tree must stay quiet before a
// watched catalog is rebuilt.
const DefaultRebuildDelay = 200 * time.Millisecond

// Watcher serves a cached catalog and rebuilds it when the asset tree
// changes. A failed rebuild keeps the previous catalog.
type Watcher struct {
	builder  *Builder
	logger   *slog.Logger
	delay    time.Duration
	onReload func(*Catalog, error)

	fsw  *fsnotify.Watcher
	mu   sync.RWMutex
	cat  *Catalog
	done chan struct{}
	wg   sync.WaitGroup
}

// WatcherOption customizes a Watcher.
type WatcherOption func(*Watcher)

// WithRebuildDelay overrides DefaultRebuildDelay.
func WithRebuildDelay(d time.Duration) WatcherOption {
	return func(w *Watcher) {
		if d > 0 {
			w.delay = d
		}
	}
}

// WithReloadHook is called after every rebuild attempt.
func WithReloadHook(fn func(*Catalog, error)) WatcherOption {
	return func(w *Watcher) { w.onReload = fn }
}

// NewWatcher performs the initial build and starts watching the asset root.
// An initial build failure is returned to the caller.
func NewWatcher(ctx context.Context, builder *Builder, logger *slog.Logger, opts ...WatcherOption) (*Watcher, error) {
	if logger == nil {
		logger = builder.logger
	}
	w := &Watcher{
		builder: builder,
		logger:  logger,
		delay:   DefaultRebuildDelay,
		done:    make(chan struct{}),
	}
	for _, opt := range opts {
		opt(w)
	}

	cat, err := builder.Build(ctx)
	if err != nil {
		return nil, err
	}
	w.cat = cat

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := addWatchTree(fsw, builder.Root()); err != nil {
		_ = fsw.Close()
		return nil, fmt.Errorf("watch asset root: %w", err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.run()
	return w, nil
}

// Load returns the most recent successfully built catalog.
func (w *Watcher) Load(context.Context) (*Catalog, error) {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.cat, nil
}

// Close stops watching.
func (w *Watcher) Close() error {
	close(w.done)
	err := w.fsw.Close()
	w.wg.Wait()
	return err
}

func (w *Watcher) run() {
	defer w.wg.Done()

	timer := time.NewTimer(w.delay)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-w.done:
			return
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.handleEvent(ev) {
				continue
			}
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.delay)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn("asset watcher error", "error", err)
		case <-timer.C:
			w.rebuild()
		}
	}
}

func (w *Watcher) handleEvent(ev fsnotify.Event) bool {
	if ev.Op&fsnotify.Create != 0 {
		// New directories need their own watches; failures surface on rebuild.
		_ = addWatchTree(w.fsw, ev.Name)
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) != 0
}

func (w *Watcher) rebuild() {
	cat, err := w.builder.Build(context.Background())
	if err != nil {
		w.logger.Error("catalog rebuild failed, keeping previous catalog", "error", err)
	} else {
		w.mu.Lock()
		w.cat = cat
		w.mu.Unlock()
	}
	if w.onReload != nil {
		w.onReload(cat, err)
	}
}

func addWatchTree(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		return fsw.Add(path)
	})
}
