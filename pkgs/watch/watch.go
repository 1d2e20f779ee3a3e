// Package watch reruns a callback when watched files change.
package watch

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"

	clherrors "github.com/aledsdavies/clh/pkgs/errors"
)

// DefaultDebounce coalesces editor save bursts into one callback
const DefaultDebounce = 100 * time.Millisecond

// Func receives the set of changed files, sorted
type Func func(changed []string) error

// Watcher watches files and calls a Func after changes settle
type Watcher struct {
	debounce time.Duration
	logger   *slog.Logger
}

// Option configures a Watcher
type Option func(*Watcher)

// WithDebounce sets the quiet period before the callback runs
func WithDebounce(d time.Duration) Option {
	return func(w *Watcher) { w.debounce = d }
}

// WithLogger sets the logger used for watch errors
func WithLogger(logger *slog.Logger) Option {
	return func(w *Watcher) { w.logger = logger }
}

// New creates a Watcher
func New(opts ...Option) *Watcher {
	w := &Watcher{
		debounce: DefaultDebounce,
		logger:   slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(w)
	}
	return w
}

// Run watches the directories holding files and calls fn with the changed files among them.
// Directories are watched instead of files so editors that replace files on save keep working.
// Run returns when ctx is done or fn fails.
func (w *Watcher) Run(ctx context.Context, files []string, fn Func) error {
	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return clherrors.Wrap(clherrors.ErrInputRead, "cannot start watcher", err)
	}
	defer fw.Close()

	watched := make(map[string]bool, len(files))
	dirs := make(map[string]bool)
	for _, file := range files {
		abs, err := filepath.Abs(file)
		if err != nil {
			return clherrors.NewInputError("cannot watch "+file, err)
		}
		watched[abs] = true
		dir := filepath.Dir(abs)
		if dirs[dir] {
			continue
		}
		if err := fw.Add(dir); err != nil {
			return clherrors.NewInputError("cannot watch "+dir, err).WithContext("path", file)
		}
		dirs[dir] = true
	}

	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-fw.Events:
			if !ok {
				return nil
			}
			if !watched[event.Name] || event.Op&(fsnotify.Write|fsnotify.Create) == 0 {
				continue
			}
			pending[event.Name] = true
			timer.Reset(w.debounce)

		case err, ok := <-fw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watch error", "error", err)

		case <-timer.C:
			changed := make([]string, 0, len(pending))
			for name := range pending {
				changed = append(changed, name)
			}
			slices.Sort(changed)
			clear(pending)
			if err := fn(changed); err != nil {
				return err
			}
		}
	}
}
