// Package watch observes the worklog store for changes made by other
// processes, editors included.
//
// The watcher builds no derived state from what it sees. It only debounces
// raw filesystem events into a change notification so connected dashboards
// can refetch the boards; the store on disk stays the single source of truth.
package watch

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/example/worklog/internal/board"
	"github.com/example/worklog/internal/record"
)

// Callback is invoked once per debounced burst of store changes.
type Callback func()

const debounceDelay = 200 * time.Millisecond

// Watch starts an fsnotify watcher on the store layout directories and runs
// until ctx is cancelled. Bursts of events, such as an editor saving through
// a temp file dance, collapse into a single callback.
//
// The layout directories must exist before Watch is called.
func Watch(ctx context.Context, root string, logger *slog.Logger, cb Callback) error {
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	dirs := []string{filepath.Join(root, record.DirName)}
	for _, b := range board.All() {
		dirs = append(dirs, filepath.Join(root, string(b)))
	}
	for _, dir := range dirs {
		if err := w.Add(dir); err != nil {
			return err
		}
	}

	logger.Info("watcher: started", slog.String("root", root))

	// debounceTimer collapses event bursts into one notification.
	var debounceTimer *time.Timer
	var debounceCh <-chan time.Time

	schedule := func() {
		if debounceTimer == nil {
			debounceTimer = time.NewTimer(debounceDelay)
			debounceCh = debounceTimer.C
		} else {
			debounceTimer.Reset(debounceDelay)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if debounceTimer != nil {
				debounceTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-debounceCh:
			if cb != nil {
				cb()
			}

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			if !relevant(ev.Name) {
				continue
			}
			logger.Debug("watcher: store changed",
				slog.String("path", ev.Name),
				slog.String("op", ev.Op.String()))
			schedule()

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// relevant keeps only record files and board pointers. Temp files from
// atomic writes and stray names never reach the callback.
func relevant(path string) bool {
	name := filepath.Base(path)
	if !strings.HasSuffix(name, record.Ext) {
		return false
	}
	return record.IDFromName(name) != ""
}
