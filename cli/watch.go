package cli

import (
	"context"
	"fmt"
	"time"

	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"
)

// debounceDelay collapses the several events editors emit for one save.
const debounceDelay = 100 * time.Millisecond

// watchFiles calls onChange after any of files changes, until ctx is done.
func watchFiles(ctx context.Context, logger *log.Logger, files []string, onChange func()) error {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return fmt.Errorf("failed to create file watcher: %w", err)
	}
	defer func() { _ = watcher.Close() }()

	addAll := func() {
		for _, file := range files {
			if err := watcher.Add(file); err != nil {
				logger.Warn("failed to watch file", "file", file, "err", err)
			}
		}
	}
	addAll()

	debounce := time.NewTimer(debounceDelay)
	debounce.Stop()
	defer debounce.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-watcher.Events:
			if !ok {
				return nil
			}
			// Remove and Rename come with atomic saves.
			if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Remove|fsnotify.Rename) == 0 {
				continue
			}
			logger.Debug("file changed", "file", event.Name, "op", event.Op.String())
			debounce.Reset(debounceDelay)

		case <-debounce.C:
			// Re-add to pick up files that were replaced.
			addAll()
			onChange()

		case err, ok := <-watcher.Errors:
			if !ok {
				return nil
			}
			logger.Warn("file watcher error", "err", err)
		}
	}
}
