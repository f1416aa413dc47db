package storage

import (
	"context"
	"log/slog"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultWatchDebounce coalesces bursts of writes (temp file + rename, WAL
// checkpoints) into a single notification.
const DefaultWatchDebounce = 150 * time.Millisecond

// Watch notifies on the returned channel whenever the file at path changes.
// The parent directory is watched so atomic renames are seen. Related files
// sharing the base name as a prefix (SQLite -wal and -shm) also count.
// The channel is closed when ctx is done.
func Watch(ctx context.Context, path string, debounce time.Duration, logger *slog.Logger) (<-chan struct{}, error) {
	if debounce <= 0 {
		debounce = DefaultWatchDebounce
	}
	if logger == nil {
		logger = slog.Default()
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	dir := filepath.Dir(path)
	if err := watcher.Add(dir); err != nil {
		watcher.Close()
		return nil, err
	}

	base := filepath.Base(path)
	events := make(chan struct{}, 1)

	go func() {
		defer watcher.Close()
		defer close(events)

		timer := time.NewTimer(debounce)
		if !timer.Stop() {
			<-timer.C
		}
		pending := false

		for {
			select {
			case <-ctx.Done():
				timer.Stop()
				return

			case event, ok := <-watcher.Events:
				if !ok {
					return
				}
				name := filepath.Base(event.Name)
				if name != base && !strings.HasPrefix(name, base+"-") {
					continue
				}
				if event.Op&(fsnotify.Write|fsnotify.Create|fsnotify.Rename|fsnotify.Remove) == 0 {
					continue
				}
				if pending && !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(debounce)
				pending = true

			case <-timer.C:
				pending = false
				select {
				case events <- struct{}{}:
				default:
					// a notification is already queued
				}

			case err, ok := <-watcher.Errors:
				if !ok {
					return
				}
				logger.Debug("storage watch error", "path", path, "err", err)
			}
		}
	}()

	return events, nil
}
