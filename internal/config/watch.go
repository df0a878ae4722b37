package config

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounce collapses the burst of events a single save produces.
const DefaultDebounce = 150 * time.Millisecond

// Change is delivered when config.json or models.yaml changes on disk.
type Change struct {
	// Files holds the base names that changed since the previous Change.
	Files []string
}

// Watch reports changes to the config files in configDir until ctx is done.
// The directory is watched rather than the files so that rename-based saves
// keep being observed. The returned channel is closed when watching stops.
func Watch(ctx context.Context, configDir string, debounce time.Duration) (<-chan Change, error) {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	if err := w.Add(configDir); err != nil {
		_ = w.Close()
		return nil, fmt.Errorf("watch %s: %w", configDir, err)
	}

	out := make(chan Change, 1)
	go loopWatch(ctx, w, debounce, out)
	return out, nil
}

func loopWatch(ctx context.Context, w *fsnotify.Watcher, debounce time.Duration, out chan<- Change) {
	defer close(out)
	defer w.Close()

	pending := map[string]bool{}
	var timer *time.Timer
	var fire <-chan time.Time

	flush := func() {
		if len(pending) == 0 {
			return
		}
		files := make([]string, 0, len(pending))
		for _, name := range []string{"config.json", "models.yaml"} {
			if pending[name] {
				files = append(files, name)
			}
		}
		clear(pending)
		select {
		case out <- Change{Files: files}:
		case <-ctx.Done():
		}
	}

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return
		case ev, ok := <-w.Events:
			if !ok {
				return
			}
			name := filepath.Base(ev.Name)
			if !watched(name) || !relevant(ev.Op) {
				continue
			}
			pending[name] = true
			if debounce <= 0 {
				flush()
				continue
			}
			if timer == nil {
				timer = time.NewTimer(debounce)
			} else {
				timer.Reset(debounce)
			}
			fire = timer.C
		case <-fire:
			fire = nil
			flush()
		case _, ok := <-w.Errors:
			if !ok {
				return
			}
		}
	}
}

func watched(name string) bool {
	return name == "config.json" || name == "models.yaml"
}

func relevant(op fsnotify.Op) bool {
	return op.Has(fsnotify.Create) || op.Has(fsnotify.Write) || op.Has(fsnotify.Rename) || op.Has(fsnotify.Remove)
}
