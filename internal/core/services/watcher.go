package services

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/Sanali209/webos-dam/internal/core/domain"
	"github.com/Sanali209/webos-dam/internal/core/ports/driving"
	"github.com/Sanali209/webos-dam/internal/logger"
)

// Ensure FileWatcher implements the interface.
var _ driving.Watcher = (*FileWatcher)(nil)

const (
	// defaultDebounce is how long a path must stay quiet before its
	// coalesced event is dispatched.
	defaultDebounce = 2 * time.Second

	// eventBuffer bounds the handoff channel between the fsnotify
	// reader and the debouncing consumer.
	eventBuffer = 256
)

// FileWatcher tails watch roots with fsnotify and turns raw
// notifications into asset operations. Events for a path are debounced:
// each new event restarts that path's timer, and only the latest event
// survives. Rename pairs within the debounce window collapse into a
// single moved event.
type FileWatcher struct {
	assets   driving.AssetService
	owner    string
	roots    []string
	ignore   []string
	debounce time.Duration

	mu      sync.Mutex
	running bool
	watcher *fsnotify.Watcher
	events  chan domain.FileEvent
	timers  map[string]*time.Timer
	pending map[string]domain.FileEvent
	cancel  context.CancelFunc
	wg      sync.WaitGroup
}

// NewFileWatcher creates a watcher over the given roots. Files it
// discovers are registered under owner. Glob patterns in ignore are
// matched against base names (e.g. "*.tmp", ".DS_Store").
// debounce <= 0 selects the default of 2 seconds.
func NewFileWatcher(assets driving.AssetService, owner string, roots, ignore []string, debounce time.Duration) *FileWatcher {
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	return &FileWatcher{
		assets:   assets,
		owner:    owner,
		roots:    roots,
		ignore:   ignore,
		debounce: debounce,
	}
}

// Start begins watching. It returns ErrWatcherRunning if already
// started.
func (w *FileWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return domain.ErrWatcherRunning
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	for _, root := range w.roots {
		if err := addRecursive(fsw, root); err != nil {
			fsw.Close()
			return err
		}
	}

	runCtx, cancel := context.WithCancel(ctx)
	w.watcher = fsw
	w.events = make(chan domain.FileEvent, eventBuffer)
	w.timers = make(map[string]*time.Timer)
	w.pending = make(map[string]domain.FileEvent)
	w.cancel = cancel
	w.running = true

	w.wg.Add(2)
	go w.readLoop(runCtx)
	go w.consumeLoop(runCtx)

	logger.Info("watcher started over %d root(s)", len(w.roots))
	return nil
}

// Stop cancels the loops, flushes nothing (pending debounce timers are
// dropped) and waits for both goroutines and any dispatch already in
// flight to finish. It returns ErrWatcherStopped if not running.
func (w *FileWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return domain.ErrWatcherStopped
	}
	w.running = false
	w.cancel()
	w.watcher.Close()
	for path, t := range w.timers {
		if t.Stop() {
			w.wg.Done()
		}
		delete(w.timers, path)
		delete(w.pending, path)
	}
	w.mu.Unlock()

	w.wg.Wait()
	logger.Info("watcher stopped")
	return nil
}

// readLoop translates fsnotify events into typed file events. A Rename
// immediately followed by a Create of another path is stitched into a
// moved event by the consumer via the pending map; here Rename maps to
// deleted and Create to created.
func (w *FileWatcher) readLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			fe, relevant := w.translate(ev)
			if !relevant {
				continue
			}
			// A full buffer blocks the fsnotify reader; back-pressure
			// is preferred over dropping events.
			select {
			case w.events <- fe:
			case <-ctx.Done():
				return
			}
		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			logger.Warn("watcher: %v", err)
		}
	}
}

func (w *FileWatcher) translate(ev fsnotify.Event) (domain.FileEvent, bool) {
	if w.ignored(ev.Name) {
		return domain.FileEvent{}, false
	}

	// New directories must themselves be watched; they carry no asset
	// event of their own.
	if ev.Op.Has(fsnotify.Create) {
		if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
			if err := addRecursive(w.watcher, ev.Name); err != nil {
				logger.Warn("watcher: watch new dir %s: %v", ev.Name, err)
			}
			return domain.FileEvent{}, false
		}
	}

	switch {
	case ev.Op.Has(fsnotify.Create):
		return domain.FileEvent{Kind: domain.FileEventCreated, Path: ev.Name}, true
	case ev.Op.Has(fsnotify.Write):
		return domain.FileEvent{Kind: domain.FileEventModified, Path: ev.Name}, true
	case ev.Op.Has(fsnotify.Rename), ev.Op.Has(fsnotify.Remove):
		return domain.FileEvent{Kind: domain.FileEventDeleted, Path: ev.Name}, true
	}
	return domain.FileEvent{}, false
}

// consumeLoop is the single consumer of the handoff channel. It holds
// at most one pending event per path and restarts the path's timer on
// every new arrival, so a burst of events yields one dispatch after the
// quiet period.
func (w *FileWatcher) consumeLoop(ctx context.Context) {
	defer w.wg.Done()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-w.events:
			if !ok {
				return
			}
			w.schedule(ctx, ev)
		}
	}
}

func (w *FileWatcher) schedule(ctx context.Context, ev domain.FileEvent) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}

	key := ev.Key()

	// A created event arriving while a delete of another path is
	// pending is the second half of a rename: collapse the pair into
	// one moved event keyed by the old path.
	if ev.Kind == domain.FileEventCreated {
		for oldKey, pending := range w.pending {
			if pending.Kind != domain.FileEventDeleted {
				continue
			}
			if filepath.Base(pending.Path) != filepath.Base(ev.Path) {
				continue
			}
			if w.timers[oldKey].Stop() {
				w.wg.Done()
			}
			delete(w.timers, oldKey)
			delete(w.pending, oldKey)
			ev = domain.FileEvent{Kind: domain.FileEventMoved, Path: pending.Path, DestPath: ev.Path}
			key = ev.Key()
			break
		}
	}

	w.pending[key] = ev
	if t, ok := w.timers[key]; ok {
		if t.Stop() {
			w.wg.Done()
		}
	}
	// Each armed timer joins the WaitGroup so Stop outlives a dispatch
	// already in flight. A timer cancelled before firing is released by
	// whoever stopped it.
	w.wg.Add(1)
	w.timers[key] = time.AfterFunc(w.debounce, func() {
		defer w.wg.Done()
		w.fire(ctx, key)
	})
}

func (w *FileWatcher) fire(ctx context.Context, key string) {
	w.mu.Lock()
	ev, ok := w.pending[key]
	delete(w.pending, key)
	delete(w.timers, key)
	running := w.running
	w.mu.Unlock()
	if !ok || !running {
		return
	}
	w.dispatch(ctx, ev)
}

func (w *FileWatcher) dispatch(ctx context.Context, ev domain.FileEvent) {
	logger.Debug("watcher dispatch: %s %s", ev.Kind, ev.Path)
	var err error
	switch ev.Kind {
	case domain.FileEventCreated:
		_, err = w.assets.RegisterPath(ctx, ev.Path, w.owner)
	case domain.FileEventModified:
		err = w.assets.RefreshAsset(ctx, ev.Path)
	case domain.FileEventMoved:
		err = w.assets.UpdateStorageURN(ctx, ev.Path, ev.DestPath)
	case domain.FileEventDeleted:
		err = w.assets.MarkMissing(ctx, ev.Path)
	}
	if err != nil {
		logger.Warn("watcher: %s %s: %v", ev.Kind, ev.Path, err)
	}
}

func (w *FileWatcher) ignored(path string) bool {
	base := filepath.Base(path)
	if strings.HasPrefix(base, ".") {
		return true
	}
	for _, pattern := range w.ignore {
		if ok, _ := filepath.Match(pattern, base); ok {
			return true
		}
	}
	return false
}

// addRecursive watches root and every directory below it. Hidden
// directories are skipped.
func addRecursive(fsw *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if name := d.Name(); strings.HasPrefix(name, ".") && path != root {
			return filepath.SkipDir
		}
		return fsw.Add(path)
	})
}
