// Package watcher keeps a fact store synchronized with an N-Quads file on
// disk. File events are debounced, then the file is re-read and diffed
// against the store by derived key, so a sync pass applies only the facts
// that actually changed.
package watcher

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Aman-CERP/quadsync/internal/bus"
	"github.com/Aman-CERP/quadsync/internal/quad"
)

// DefaultDebounce coalesces editor write bursts into one sync pass.
const DefaultDebounce = 250 * time.Millisecond

// Watcher syncs one file into one fact bus.
type Watcher struct {
	path     string
	bus      *bus.FactBus
	debounce time.Duration
	log      *slog.Logger

	mu      sync.Mutex
	stopped bool
	done    chan struct{}
}

// New creates a watcher for the given file. A non-positive debounce falls
// back to DefaultDebounce.
func New(path string, b *bus.FactBus, debounce time.Duration) *Watcher {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	return &Watcher{
		path:     path,
		bus:      b,
		debounce: debounce,
		log:      slog.Default().With(slog.String("component", "watcher")),
		done:     make(chan struct{}),
	}
}

// Sync reads the file once and applies the difference to the store: one
// batch add for new facts and one batch remove for facts no longer present.
func (w *Watcher) Sync(ctx context.Context) error {
	file, err := os.Open(w.path)
	if err != nil {
		return fmt.Errorf("open %s: %w", w.path, err)
	}
	defer file.Close()

	desired, err := quad.ReadAll(file)
	if err != nil {
		return fmt.Errorf("parse %s: %w", w.path, err)
	}

	adds, removes := diff(w.bus.QueryPattern(quad.MatchAll), desired)

	if err := w.bus.RemoveMany(ctx, removes); err != nil {
		return fmt.Errorf("apply removes: %w", err)
	}
	if err := w.bus.AddMany(ctx, adds); err != nil {
		return fmt.Errorf("apply adds: %w", err)
	}

	w.log.Info("synced file",
		slog.String("path", w.path),
		slog.Int("added", len(adds)),
		slog.Int("removed", len(removes)))
	return nil
}

// diff computes the facts to add and remove to move current to desired,
// comparing by derived key.
func diff(current, desired []quad.Fact) (adds, removes []quad.Fact) {
	currentKeys := make(map[string]quad.Fact, len(current))
	for _, f := range current {
		currentKeys[quad.DeriveKey(f)] = f
	}

	desiredKeys := make(map[string]bool, len(desired))
	for _, f := range desired {
		key := quad.DeriveKey(f)
		desiredKeys[key] = true
		if _, ok := currentKeys[key]; !ok {
			adds = append(adds, f)
		}
	}

	for key, f := range currentKeys {
		if !desiredKeys[key] {
			removes = append(removes, f)
		}
	}
	return adds, removes
}

// Run performs an initial sync and then re-syncs on every debounced file
// change until the context is cancelled or Stop is called. The parent
// directory is watched because editors commonly replace files by rename.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Sync(ctx); err != nil {
		return err
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer fw.Close()

	if err := fw.Add(filepath.Dir(w.path)); err != nil {
		return fmt.Errorf("watch %s: %w", w.path, err)
	}

	var timer *time.Timer
	pending := make(chan struct{}, 1)
	schedule := func() {
		if timer != nil {
			timer.Stop()
		}
		timer = time.AfterFunc(w.debounce, func() {
			select {
			case pending <- struct{}{}:
			default:
			}
		})
	}
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-w.done:
			return nil
		case ev, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if filepath.Clean(ev.Name) != filepath.Clean(w.path) {
				continue
			}
			if ev.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename) != 0 {
				schedule()
			}
		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("watch error", slog.String("error", err.Error()))
		case <-pending:
			if err := w.Sync(ctx); err != nil {
				w.log.Error("sync failed",
					slog.String("path", w.path),
					slog.String("error", err.Error()))
			}
		}
	}
}

// Stop terminates a running Run loop.
func (w *Watcher) Stop() {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.stopped {
		w.stopped = true
		close(w.done)
	}
}
