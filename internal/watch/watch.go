/*
Copyright © 2025 3 Leaps <info@3leaps.net>
*/

// Package watch re-runs a callback whenever files under a directory change.
package watch

import (
	"context"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/fulmenhq/sitecheck/pkg/logger"
)

// DefaultDebounce coalesces bursts of events such as a build rewriting many files.
const DefaultDebounce = 300 * time.Millisecond

var skipDirs = map[string]bool{".git": true, "node_modules": true}

// Watcher watches a directory tree
type Watcher struct {
	root     string
	debounce time.Duration
	fsw      *fsnotify.Watcher
}

// New registers root and every subdirectory. debounce <= 0 uses DefaultDebounce.
func New(root string, debounce time.Duration) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{root: filepath.Clean(root), debounce: debounce, fsw: fsw}
	if err := w.addRecursive(w.root); err != nil {
		_ = fsw.Close()
		return nil, err
	}
	return w, nil
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func (w *Watcher) addRecursive(dir string) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			if os.IsNotExist(err) || os.IsPermission(err) {
				return nil
			}
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != dir && skipDirs[d.Name()] {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil && !os.IsPermission(err) {
			return err
		}
		return nil
	})
}

// Run calls fn once, then again after each debounced batch of changes,
// until ctx is cancelled. Runs never overlap.
func (w *Watcher) Run(ctx context.Context, fn func(context.Context)) error {
	fn(ctx)

	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !w.relevant(ev) {
				continue
			}
			logger.Trace("change detected", logger.String("path", ev.Name), logger.String("op", ev.Op.String()))
			if ev.Has(fsnotify.Create) {
				if st, err := os.Stat(ev.Name); err == nil && st.IsDir() {
					if err := w.addRecursive(ev.Name); err != nil {
						logger.Warn("cannot watch new directory", logger.String("path", ev.Name), logger.Err(err))
					}
				}
			}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.debounce)
			fire = timer.C
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("watch error", logger.Err(err))
		case <-fire:
			fire = nil
			fn(ctx)
		}
	}
}

func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op == fsnotify.Chmod {
		return false
	}
	rel, err := filepath.Rel(w.root, ev.Name)
	if err != nil {
		return true
	}
	for _, part := range strings.Split(filepath.ToSlash(rel), "/") {
		if skipDirs[part] {
			return false
		}
	}
	return true
}
