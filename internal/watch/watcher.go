package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/kokkonisd/locstats/internal/config"
)

type Debouncer struct {
	mu       sync.Mutex
	timer    *time.Timer
	duration time.Duration
	fn       func()
}

func NewDebouncer(duration time.Duration, fn func()) *Debouncer {
	return &Debouncer{duration: duration, fn: fn}
}

func (d *Debouncer) Trigger() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = time.AfterFunc(d.duration, d.fn)
}

func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer != nil {
		d.timer.Stop()
	}
}

type OnChange func() error

// Watch calls onChange after file changes under any of roots settle for the
// debounce window. Roots that do not exist are skipped; at least one must.
// Callbacks run on the event loop and never overlap.
func Watch(ctx context.Context, roots []string, debounce time.Duration, onChange OnChange) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("create watcher: %w", err)
	}
	defer watcher.Close()

	watched := make([]string, 0, len(roots))
	for _, root := range roots {
		if info, err := os.Stat(root); err != nil || !info.IsDir() {
			continue
		}
		if err := addDirsRecursive(watcher, root); err != nil {
			return err
		}
		watched = append(watched, root)
	}
	if len(watched) == 0 {
		return fmt.Errorf("no existing directory to watch")
	}

	debouncedChanges := make(chan struct{}, 1)
	debouncer := NewDebouncer(debounce, func() {
		select {
		case debouncedChanges <- struct{}{}:
		default:
		}
	})
	defer debouncer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-debouncedChanges:
			if err := onChange(); err != nil {
				return fmt.Errorf("watch callback: %w", err)
			}
		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if isIgnoredUnder(watched, event.Name) {
				continue
			}
			if event.Has(fsnotify.Create) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					_ = addDirsRecursive(watcher, event.Name)
				}
			}
			if event.Has(fsnotify.Write) || event.Has(fsnotify.Create) || event.Has(fsnotify.Remove) || event.Has(fsnotify.Rename) {
				debouncer.Trigger()
			}
		case watchErr, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			return fmt.Errorf("watcher error: %w", watchErr)
		}
	}
}

func addDirsRecursive(watcher *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isIgnoredPath(root, path) {
			return filepath.SkipDir
		}
		if err := watcher.Add(path); err != nil {
			return fmt.Errorf("watch add %s: %w", path, err)
		}
		return nil
	})
}

func isIgnoredUnder(roots []string, path string) bool {
	for _, root := range roots {
		if isIgnoredPath(root, path) {
			return true
		}
	}
	return false
}

func isIgnoredPath(root, path string) bool {
	rel, err := filepath.Rel(root, path)
	if err != nil {
		return false
	}
	rel = filepath.ToSlash(rel)
	if rel == "." || rel == ".." || strings.HasPrefix(rel, "../") {
		return false
	}
	for _, part := range strings.Split(rel, "/") {
		if _, ignored := config.IgnoredDirNames[part]; ignored {
			return true
		}
	}
	return false
}
