package main

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"
)

const defaultDebounce = 200 * time.Millisecond

// fileWatcher reports changes to a fixed set of files. It watches their
// directories so that editors which save by rename are still seen.
type fileWatcher struct {
	fsw      *fsnotify.Watcher
	files    map[string]string // absolute path -> path as given
	debounce time.Duration
	logger   *slog.Logger
}

func newFileWatcher(paths []string, debounce time.Duration, logger *slog.Logger) (*fileWatcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("start watcher: %w", err)
	}
	if debounce <= 0 {
		debounce = defaultDebounce
	}
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	w := &fileWatcher{fsw: fsw, files: make(map[string]string), debounce: debounce, logger: logger}
	dirs := make(map[string]bool)
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fsw.Close()
			return nil, err
		}
		w.files[abs] = p
		dirs[filepath.Dir(abs)] = true
	}
	for dir := range dirs {
		if err := fsw.Add(dir); err != nil {
			fsw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
		logger.Debug("watching directory", "path", dir)
	}
	return w, nil
}

// run calls onChange once per changed file after the debounce delay has
// passed, until ctx is cancelled.
func (w *fileWatcher) run(ctx context.Context, onChange func(path string)) error {
	defer w.fsw.Close()

	ticker := time.NewTicker(w.debounce)
	defer ticker.Stop()

	pending := make(map[string]bool)
	for {
		select {
		case <-ctx.Done():
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			path, watched := w.files[filepath.Clean(ev.Name)]
			if !watched || !ev.Has(fsnotify.Write|fsnotify.Create) {
				continue
			}
			pending[path] = true
			w.logger.Debug("file change detected", "path", path, "op", ev.Op.String())

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)

		case <-ticker.C:
			if len(pending) == 0 {
				continue
			}
			changed := make([]string, 0, len(pending))
			for p := range pending {
				changed = append(changed, p)
			}
			clear(pending)
			sort.Strings(changed)
			for _, p := range changed {
				onChange(p)
			}
		}
	}
}
