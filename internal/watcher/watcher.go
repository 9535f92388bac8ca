// Package watcher re-runs an action whenever a review CSV changes on disk.
//
// The parent directory is watched rather than the file itself so that
// editors and exporters that replace the file (write to a temp file, then
// rename) are still picked up. Bursts of events are collapsed with a
// debounce timer so a large export triggers one reload, not hundreds.
package watcher

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"
)

// DefaultDebounce is how long the file must stay quiet before the action
// runs.
const DefaultDebounce = 500 * time.Millisecond

// Action is called after the watched file settles. A returned error is
// logged and watching continues.
type Action func(path string) error

// Watcher watches one file and calls an Action when it changes.
type Watcher struct {
	path     string
	debounce time.Duration
	action   Action
	log      *zap.Logger

	fsw    *fsnotify.Watcher
	stopCh chan struct{}
	wg     sync.WaitGroup

	mu   sync.Mutex
	runs int
}

// New creates a Watcher for path. A zero debounce uses DefaultDebounce.
func New(path string, debounce time.Duration, action Action, log *zap.Logger) (*Watcher, error) {
	if action == nil {
		return nil, errors.New("action cannot be nil")
	}
	abs, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", path, err)
	}
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	if log == nil {
		log = zap.NewNop()
	}
	return &Watcher{
		path:     abs,
		debounce: debounce,
		action:   action,
		log:      log,
		stopCh:   make(chan struct{}),
	}, nil
}

// Path returns the absolute path being watched.
func (w *Watcher) Path() string {
	return w.path
}

// Runs returns how many times the action has been called.
func (w *Watcher) Runs() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.runs
}

// Start begins watching. It returns once the watch is registered.
func (w *Watcher) Start() error {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	if err := fsw.Add(filepath.Dir(w.path)); err != nil {
		fsw.Close()
		return fmt.Errorf("failed to watch %s: %w", filepath.Dir(w.path), err)
	}
	w.fsw = fsw

	w.wg.Add(1)
	go w.loop()

	w.log.Info("watching for changes", zap.String("path", w.path), zap.Duration("debounce", w.debounce))
	return nil
}

// Stop halts the watcher and waits for a running action to finish.
func (w *Watcher) Stop() error {
	close(w.stopCh)
	w.wg.Wait()
	if w.fsw != nil {
		return w.fsw.Close()
	}
	return nil
}

// Run watches until ctx is cancelled.
func (w *Watcher) Run(ctx context.Context) error {
	if err := w.Start(); err != nil {
		return err
	}
	<-ctx.Done()
	return w.Stop()
}

func (w *Watcher) loop() {
	defer w.wg.Done()

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()
	pending := false

	for {
		select {
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return
			}
			if !w.relevant(ev) {
				continue
			}
			w.log.Debug("file event", zap.String("op", ev.Op.String()))
			if pending && !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(w.debounce)
			pending = true

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return
			}
			w.log.Warn("watch error", zap.Error(err))

		case <-timer.C:
			pending = false
			w.fire()

		case <-w.stopCh:
			return
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if filepath.Clean(ev.Name) != w.path {
		return false
	}
	return ev.Op&(fsnotify.Write|fsnotify.Create) != 0
}

func (w *Watcher) fire() {
	w.mu.Lock()
	w.runs++
	w.mu.Unlock()

	start := time.Now()
	if err := w.action(w.path); err != nil {
		w.log.Error("reload failed", zap.String("path", w.path), zap.Error(err))
		return
	}
	w.log.Info("reloaded", zap.String("path", w.path), zap.Duration("took", time.Since(start)))
}
