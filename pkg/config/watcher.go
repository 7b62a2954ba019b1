package config

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"sync"
	"sync/atomic"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/kart-io/logger"
)

// ChangeHandler is invoked with every successfully reloaded snapshot. A
// returned error is logged and does not stop other handlers.
type ChangeHandler func(snap *Snapshot) error

// DefaultDebounce is the quiet period after the last file event before a
// reload runs.
const DefaultDebounce = 250 * time.Millisecond

// WatcherOption configures a Watcher.
type WatcherOption func(*Watcher)

// WithDebounce sets the debounce period.
func WithDebounce(d time.Duration) WatcherOption {
	return func(w *Watcher) { w.debounce = d }
}

// WithLoader sets the loader used for reloads.
func WithLoader(l *Loader) WatcherOption {
	return func(w *Watcher) { w.loader = l }
}

// Watcher reloads a layer list when its files change and publishes the new
// snapshot to subscribed handlers.
type Watcher struct {
	loader   *Loader
	layers   []LayerSpec
	debounce time.Duration
	current  atomic.Pointer[Snapshot]

	handlers map[string]ChangeHandler
	mu       sync.RWMutex
	watching bool
	fsw      *fsnotify.Watcher
	cancel   context.CancelFunc
	done     chan struct{}

	reloadMu sync.Mutex
}

// NewWatcher creates a watcher whose current snapshot is initial.
func NewWatcher(initial *Snapshot, layers []LayerSpec, opts ...WatcherOption) *Watcher {
	w := &Watcher{
		loader:   NewLoader(),
		layers:   slices.Clone(layers),
		debounce: DefaultDebounce,
		handlers: make(map[string]ChangeHandler),
	}
	for _, opt := range opts {
		opt(w)
	}
	w.current.Store(initial)
	return w
}

// Current returns the latest successfully loaded snapshot.
func (w *Watcher) Current() *Snapshot {
	return w.current.Load()
}

// Subscribe registers a change handler with the given identifier.
// If a handler with the same ID already exists, it will be replaced.
func (w *Watcher) Subscribe(id string, handler ChangeHandler) {
	w.mu.Lock()
	defer w.mu.Unlock()
	w.handlers[id] = handler
	logger.Debugw("config watcher: subscribed handler", "id", id)
}

// Unsubscribe removes a change handler by its identifier.
func (w *Watcher) Unsubscribe(id string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if _, exists := w.handlers[id]; exists {
		delete(w.handlers, id)
		logger.Debugw("config watcher: unsubscribed handler", "id", id)
	}
}

// HandlerCount returns the number of registered handlers.
func (w *Watcher) HandlerCount() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.handlers)
}

// IsWatching returns whether the watcher is currently active.
func (w *Watcher) IsWatching() bool {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return w.watching
}

// Reload loads the layers again. On success the new snapshot becomes
// current and every handler is notified in id order. On failure the
// previous snapshot stays current.
func (w *Watcher) Reload(ctx context.Context) (*Snapshot, error) {
	w.reloadMu.Lock()
	defer w.reloadMu.Unlock()

	snap, err := w.loader.Load(ctx, w.layers)
	if err != nil {
		logger.Errorw("config watcher: reload failed, keeping previous snapshot", "error", err)
		return nil, err
	}
	w.current.Store(snap)
	logger.Infow("config watcher: configuration reloaded", "revision", snap.Revision())

	w.notify(snap)
	return snap, nil
}

func (w *Watcher) notify(snap *Snapshot) {
	w.mu.RLock()
	ids := make([]string, 0, len(w.handlers))
	handlers := make(map[string]ChangeHandler, len(w.handlers))
	for id, h := range w.handlers {
		ids = append(ids, id)
		handlers[id] = h
	}
	w.mu.RUnlock()
	slices.Sort(ids)

	for _, id := range ids {
		if err := handlers[id](snap); err != nil {
			logger.Errorw("config watcher: handler failed", "id", id, "error", err)
			continue
		}
		logger.Debugw("config watcher: handler processed change", "id", id)
	}
}

// Start begins watching the file layers. It is idempotent.
func (w *Watcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.watching {
		return nil
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("config watcher: %w", err)
	}

	// Directories are watched so that editors replacing files by rename
	// are still seen.
	files := make(map[string]struct{})
	dirs := make(map[string]struct{})
	for _, layer := range w.layers {
		if layer.Backend == BackendEnv || layer.Path == "" {
			continue
		}
		abs, err := filepath.Abs(layer.Path)
		if err != nil {
			continue
		}
		files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			logger.Warnw("config watcher: cannot watch directory", "dir", dir, "error", err)
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.fsw = fsw
	w.cancel = cancel
	w.done = make(chan struct{})
	w.watching = true
	go w.loop(runCtx, fsw, files, w.done)

	logger.Infow("config watcher: started", "files", len(files))
	return nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, files map[string]struct{}, done chan struct{}) {
	defer close(done)

	var (
		timer *time.Timer
		fire  <-chan time.Time
	)
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-fsw.Events:
			if !ok {
				return
			}
			if _, watched := files[filepath.Clean(ev.Name)]; !watched {
				continue
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) &&
				!ev.Has(fsnotify.Rename) && !ev.Has(fsnotify.Remove) {
				continue
			}
			logger.Debugw("config watcher: file event", "file", ev.Name, "op", ev.Op.String())
			if timer == nil {
				timer = time.NewTimer(w.debounce)
			} else {
				timer.Reset(w.debounce)
			}
			fire = timer.C
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			logger.Warnw("config watcher: fsnotify error", "error", err)
		case <-fire:
			fire = nil
			_, _ = w.Reload(ctx)
		}
	}
}

// Stop stops watching and waits for the watch loop to exit.
func (w *Watcher) Stop() error {
	w.mu.Lock()
	if !w.watching {
		w.mu.Unlock()
		return nil
	}
	w.watching = false
	w.cancel()
	err := w.fsw.Close()
	done := w.done
	w.mu.Unlock()

	<-done
	logger.Info("config watcher: stopped")
	return err
}
