package library

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
)

// watchDebounce collapses bursts of events into one notification
const watchDebounce = 100 * time.Millisecond

// Watch calls onChange when recordings are added, removed or renamed in the
// directory. It blocks until ctx is cancelled.
func (l *Library) Watch(ctx context.Context, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create watcher: %w", err)
	}
	defer watcher.Close()

	if err := watcher.Add(l.dir); err != nil {
		return fmt.Errorf("failed to watch directory: %w", err)
	}
	l.logger.Debug("Watching recordings directory", "dir", l.dir)

	timer := time.NewTimer(watchDebounce)
	timer.Stop()
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			if !IsRecording(filepath.Base(event.Name)) {
				continue
			}
			if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Remove) &&
				!event.Has(fsnotify.Rename) && !event.Has(fsnotify.Write) {
				continue
			}
			l.logger.Debug("Recordings changed", "file", filepath.Base(event.Name), "op", event.Op.String())
			timer.Reset(watchDebounce)

		case <-timer.C:
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			l.logger.Error("Watcher error", "error", err)
		}
	}
}
