// Package watcher reloads the component registry when manifest files change
// on disk.
package watcher

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/tequmsa/ankhaten/internal/ctxlog"
	"github.com/tequmsa/ankhaten/internal/manifest"
	"github.com/tequmsa/ankhaten/internal/registry"
)

// defaultDebounce coalesces rapid file change bursts into one reload.
const defaultDebounce = 500 * time.Millisecond

// Watcher watches a manifest path and swaps the registry's component set on
// change. A manifest that fails to parse keeps the previous set live.
type Watcher struct {
	path     string
	reg      *registry.Registry
	watcher  *fsnotify.Watcher
	debounce time.Duration

	mu            sync.Mutex
	debounceTimer *time.Timer

	// onReload, when set, observes each successful reload. Used by tests.
	onReload func(components int)
}

// Option customizes a Watcher.
type Option func(*Watcher)

// WithDebounce overrides the debounce period.
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithReloadHook registers an observer for successful reloads.
func WithReloadHook(fn func(components int)) Option {
	return func(w *Watcher) { w.onReload = fn }
}

// New creates a watcher over a manifest file or directory tree.
func New(path string, reg *registry.Registry, opts ...Option) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create fsnotify watcher: %w", err)
	}

	w := &Watcher{
		path:     path,
		reg:      reg,
		watcher:  fsw,
		debounce: defaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	if err := w.addTargets(path); err != nil {
		fsw.Close()
		return nil, err
	}
	return w, nil
}

// addTargets registers the manifest path with fsnotify. Directories are
// added recursively so nested manifests trigger reloads too.
func (w *Watcher) addTargets(path string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("failed to stat watch path %s: %w", path, err)
	}
	if !info.IsDir() {
		// Watch the containing directory so edits via rename (the common
		// editor save strategy) are still seen.
		if err := w.watcher.Add(filepath.Dir(path)); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	}
	return filepath.WalkDir(path, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if err := w.watcher.Add(p); err != nil {
				return fmt.Errorf("failed to watch %s: %w", p, err)
			}
		}
		return nil
	})
}

// Start begins watching in a goroutine until the context is cancelled.
func (w *Watcher) Start(ctx context.Context) {
	go w.watchLoop(ctx)
}

func (w *Watcher) watchLoop(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)
	logger.Info("Manifest watcher started.", "path", w.path, "debounce", w.debounce)

	defer func() {
		if err := w.watcher.Close(); err != nil {
			logger.Error("Failed to close fsnotify watcher.", "error", err)
		}
	}()

	for {
		select {
		case <-ctx.Done():
			logger.Debug("Manifest watcher stopping.")
			return

		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			logger.Debug("Manifest change detected.", "file", event.Name, "op", event.Op.String())
			w.scheduleReload(ctx)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Error("Manifest watcher error.", "error", err)
		}
	}
}

// relevant filters events down to manifest file mutations.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) &&
		!event.Has(fsnotify.Remove) && !event.Has(fsnotify.Rename) {
		return false
	}
	ext := filepath.Ext(event.Name)
	for _, known := range manifest.Extensions {
		if ext == known {
			return true
		}
	}
	return false
}

// scheduleReload arms (or re-arms) the debounce timer.
func (w *Watcher) scheduleReload(ctx context.Context) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounceTimer != nil {
		w.debounceTimer.Reset(w.debounce)
		return
	}
	w.debounceTimer = time.AfterFunc(w.debounce, func() {
		w.mu.Lock()
		w.debounceTimer = nil
		w.mu.Unlock()
		w.reload(ctx)
	})
}

// reload re-parses the manifest path and swaps the component set. Parse
// failures leave the registry untouched.
func (w *Watcher) reload(ctx context.Context) {
	logger := ctxlog.FromContext(ctx)

	m, err := manifest.LoadPath(ctx, w.path)
	if err != nil {
		logger.Error("Manifest reload failed, keeping previous component set.", "path", w.path, "error", err)
		return
	}

	w.reg.Replace(m.Components)
	logger.Info("Manifest reloaded.", "path", w.path, "components", len(m.Components))
	if w.onReload != nil {
		w.onReload(len(m.Components))
	}
}
