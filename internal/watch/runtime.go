// Package watch reports changes to the active OpenXR runtime and to the
// clients and devices of a running Monado.
package watch

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce coalesces bursts of manifest events, e.g. an installer
// replacing a symlink.
const DefaultDebounce = 500 * time.Millisecond

// ErrNoWatchableDir is returned by Start when none of the candidate
// directories exist.
var ErrNoWatchableDir = errors.New("watch: no runtime manifest directory exists")

// RuntimeWatcher watches active runtime manifest candidates and calls
// onChange with the path that changed.
type RuntimeWatcher struct {
	paths    map[string]struct{}
	dirs     []string
	watcher  *fsnotify.Watcher
	onChange func(path string)
	logger   *slog.Logger
	debounce time.Duration

	mu      sync.Mutex
	running bool
	stopCh  chan struct{}
	done    chan struct{}
	timer   *time.Timer
	last    string
}

// Option configures a RuntimeWatcher.
type Option func(*RuntimeWatcher)

// WithDebounce sets how long the watcher waits for events to settle.
func WithDebounce(d time.Duration) Option {
	return func(w *RuntimeWatcher) {
		if d > 0 {
			w.debounce = d
		}
	}
}

// WithLogger sets the logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(w *RuntimeWatcher) {
		if logger != nil {
			w.logger = logger
		}
	}
}

// NewRuntimeWatcher creates a watcher for the given manifest paths.
func NewRuntimeWatcher(paths []string, onChange func(path string), opts ...Option) (*RuntimeWatcher, error) {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &RuntimeWatcher{
		paths:    make(map[string]struct{}, len(paths)),
		watcher:  fw,
		onChange: onChange,
		logger:   slog.Default(),
		debounce: DefaultDebounce,
	}
	for _, opt := range opts {
		opt(w)
	}

	seen := map[string]bool{}
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			continue
		}
		w.paths[abs] = struct{}{}
		if dir := filepath.Dir(abs); !seen[dir] {
			seen[dir] = true
			w.dirs = append(w.dirs, dir)
		}
	}
	return w, nil
}

// Start watches every existing candidate directory. Directories are watched
// rather than files so that replaced files and symlinks are noticed.
func (w *RuntimeWatcher) Start(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.running {
		return nil
	}

	added := 0
	for _, dir := range w.dirs {
		if info, err := os.Stat(dir); err != nil || !info.IsDir() {
			w.logger.Debug("runtime watcher skipping directory", "dir", dir)
			continue
		}
		if err := w.watcher.Add(dir); err != nil {
			w.logger.Warn("runtime watcher failed to add directory", "dir", dir, "error", err)
			continue
		}
		added++
	}
	if added == 0 {
		return ErrNoWatchableDir
	}

	w.running = true
	w.stopCh = make(chan struct{})
	w.done = make(chan struct{})
	w.logger.Debug("runtime watcher started", "dirs", added)
	go w.loop(ctx)
	return nil
}

// Stop ends the watch and waits for the event loop to exit.
func (w *RuntimeWatcher) Stop() error {
	w.mu.Lock()
	if !w.running {
		w.mu.Unlock()
		return w.watcher.Close()
	}
	w.running = false
	close(w.stopCh)
	done := w.done
	if w.timer != nil {
		w.timer.Stop()
	}
	w.mu.Unlock()

	<-done
	return w.watcher.Close()
}

// IsRunning reports whether the event loop is active.
func (w *RuntimeWatcher) IsRunning() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.running
}

func (w *RuntimeWatcher) loop(ctx context.Context) {
	defer close(w.done)
	for {
		select {
		case event, ok := <-w.watcher.Events:
			if !ok {
				return
			}
			if !w.relevant(event) {
				continue
			}
			w.logger.Debug("runtime manifest event", "op", event.Op.String(), "file", event.Name)
			w.schedule(event.Name)

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return
			}
			w.logger.Error("runtime watcher error", "error", err)

		case <-w.stopCh:
			return

		case <-ctx.Done():
			w.mu.Lock()
			w.running = false
			if w.timer != nil {
				w.timer.Stop()
			}
			w.mu.Unlock()
			return
		}
	}
}

const watchedOps = fsnotify.Write | fsnotify.Create | fsnotify.Rename | fsnotify.Remove

func (w *RuntimeWatcher) relevant(event fsnotify.Event) bool {
	if event.Op&watchedOps == 0 {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.paths[abs]
	return ok
}

func (w *RuntimeWatcher) schedule(path string) {
	w.mu.Lock()
	defer w.mu.Unlock()
	if !w.running {
		return
	}
	w.last = path
	if w.timer != nil {
		w.timer.Stop()
	}
	w.timer = time.AfterFunc(w.debounce, w.fire)
}

func (w *RuntimeWatcher) fire() {
	w.mu.Lock()
	path, running := w.last, w.running
	w.mu.Unlock()
	if !running || w.onChange == nil {
		return
	}
	w.logger.Info("active runtime changed", "path", path)
	w.onChange(path)
}
