// Package watch re-runs a callback for markdown files under a directory
// tree when they change on disk.
package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.uber.org/zap"

	"github.com/pfassina/mdtoc/internal/markdown"
)

// DefaultDelay is how long a path must stay quiet before its callback runs.
const DefaultDelay = 200 * time.Millisecond

// Handler receives debounced events. Any field may be nil.
type Handler struct {
	// Change runs after a markdown file was created or written.
	Change func(path string)
	// Remove runs after a markdown file disappeared.
	Remove func(path string)
	// Error runs once when the underlying watcher fails; watching stops.
	Error func(err error)
}

// Watcher monitors a directory tree for markdown changes.
type Watcher struct {
	watcher  *fsnotify.Watcher
	root     string
	delay    time.Duration
	handler  Handler
	log      *zap.Logger
	debounce map[string]*time.Timer
	mu       sync.Mutex
	running  sync.WaitGroup
	closed   bool
}

func New(root string, delay time.Duration, h Handler, log *zap.Logger) (*Watcher, error) {
	if delay <= 0 {
		delay = DefaultDelay
	}
	if log == nil {
		log = zap.NewNop()
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &Watcher{
		watcher:  fw,
		root:     root,
		delay:    delay,
		handler:  h,
		log:      log,
		debounce: make(map[string]*time.Timer),
	}

	// Add root and subdirectories
	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != root {
				return filepath.SkipDir
			}
			return w.add(path)
		}
		return nil
	})
	if err != nil {
		_ = fw.Close()
		return nil, err
	}
	return w, nil
}

func (w *Watcher) add(dir string) error {
	if err := w.watcher.Add(dir); err != nil {
		return err
	}
	w.log.Debug("watching directory", zap.String("dir", dir))
	return nil
}

// Start begins watching for changes. Blocks until Close is called, ctx is
// done, or the watcher fails.
func (w *Watcher) Start(ctx context.Context) {
	for {
		select {
		case <-ctx.Done():
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
			if errors.Is(err, fsnotify.ErrEventOverflow) {
				w.log.Warn("watch events dropped", zap.Error(err))
				continue
			}
			w.fatal(err)
			return
		}
	}
}

func (w *Watcher) handleEvent(event fsnotify.Event) {
	path := event.Name

	// Only care about markdown files
	if !markdown.IsMarkdownFile(path) {
		// But watch new directories
		if event.Has(fsnotify.Create) {
			info, err := os.Stat(path)
			if err == nil && info.IsDir() && !strings.HasPrefix(info.Name(), ".") {
				if err := w.add(path); err != nil {
					w.log.Warn("watch directory", zap.String("dir", path), zap.Error(err))
				}
			}
		}
		return
	}
	if event.Has(fsnotify.Chmod) && !event.Has(fsnotify.Write) && !event.Has(fsnotify.Create) {
		return
	}

	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		return
	}
	if timer, ok := w.debounce[path]; ok && timer.Stop() {
		w.running.Done()
	}
	w.running.Add(1)
	var timer *time.Timer
	timer = time.AfterFunc(w.delay, func() {
		defer w.running.Done()
		if w.settle(path, &timer) {
			w.fire(path)
		}
	})
	w.debounce[path] = timer
}

// settle drops the pending entry for path when it is still *timer, which is
// only read under w.mu. It reports whether the watcher is still open.
func (w *Watcher) settle(path string, timer **time.Timer) bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.debounce[path] == *timer {
		delete(w.debounce, path)
	}
	return !w.closed
}

// fire runs the handler for the final state of path, whatever sequence of
// events led there.
func (w *Watcher) fire(path string) {

	if _, err := os.Stat(path); err != nil {
		w.log.Debug("markdown removed", zap.String("path", path))
		if w.handler.Remove != nil {
			w.handler.Remove(path)
		}
		return
	}
	w.log.Debug("markdown changed", zap.String("path", path))
	if w.handler.Change != nil {
		w.handler.Change(path)
	}
}

func (w *Watcher) fatal(err error) {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return
	}
	w.closed = true
	w.mu.Unlock()

	w.log.Error("watcher failed", zap.Error(err))
	if w.handler.Error != nil {
		w.handler.Error(err)
	}
}

// Close stops the watcher, cancels pending callbacks and waits for running
// ones to return.
func (w *Watcher) Close() error {
	w.mu.Lock()
	w.closed = true
	for path, timer := range w.debounce {
		if timer.Stop() {
			w.running.Done()
		}
		delete(w.debounce, path)
	}
	w.mu.Unlock()

	err := w.watcher.Close()
	w.running.Wait()
	return err
}
