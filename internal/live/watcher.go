package live

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce is how long the watcher waits for a burst of writes to
// settle before reporting a change.
const DefaultDebounce = 100 * time.Millisecond

// Watcher reports changes to markdown sources below a content directory.
// Sources are slash-separated paths relative to the directory, the same
// form the nav uses.
type Watcher struct {
	dir      string
	fsw      *fsnotify.Watcher
	onChange func(source string)
	log      *slog.Logger
	debounce time.Duration
}

// NewWatcher watches dir and every directory below it.
func NewWatcher(dir string, onChange func(source string), log *slog.Logger) (*Watcher, error) {
	if log == nil {
		log = slog.Default()
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("creating watcher: %w", err)
	}
	w := &Watcher{dir: dir, fsw: fsw, onChange: onChange, log: log, debounce: DefaultDebounce}

	err = filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			if strings.HasPrefix(d.Name(), ".") && path != dir {
				return filepath.SkipDir
			}
			return fsw.Add(path)
		}
		return nil
	})
	if err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watching %s: %w", dir, err)
	}
	return w, nil
}

// Run delivers changes until ctx is done or the watcher is closed.
func (w *Watcher) Run(ctx context.Context) error {
	pending := make(map[string]struct{})
	timer := time.NewTimer(w.debounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Has(fsnotify.Create) {
				w.addDir(ev.Name)
			}
			src, ok := w.source(ev.Name)
			if !ok {
				continue
			}
			pending[src] = struct{}{}
			timer.Reset(w.debounce)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.log.Warn("live: watcher error", "error", err)

		case <-timer.C:
			for src := range pending {
				w.log.Debug("live: source changed", "source", src)
				w.onChange(src)
			}
			clear(pending)
		}
	}
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addDir(path string) {
	info, err := os.Stat(path)
	if err != nil || !info.IsDir() {
		return
	}
	if err := w.fsw.Add(path); err == nil {
		w.log.Debug("live: watching new directory", "path", path)
	}
}

func (w *Watcher) source(path string) (string, bool) {
	if !strings.EqualFold(filepath.Ext(path), ".md") {
		return "", false
	}
	rel, err := filepath.Rel(w.dir, path)
	if err != nil || strings.HasPrefix(rel, "..") {
		return "", false
	}
	return filepath.ToSlash(rel), true
}
