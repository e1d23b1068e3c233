// Package watcher reloads the music library when the expanded tree changes.
package watcher

import (
	"context"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/storage"
)

// DefaultDebounce is how long the watcher waits after the last change
// before reloading.
const DefaultDebounce = 200 * time.Millisecond

// Reloader rebuilds the library snapshot.
type Reloader interface {
	Reload(ctx context.Context) models.LibraryStats
}

// EventCallback is called for each audio file change, before the debounced
// reload. kind is "added" or "removed"; path is relative to the watched root.
type EventCallback func(kind string, path string)

// Watch starts an fsnotify watcher on root and its sub-directories and
// reloads the library after bursts of audio file changes, until ctx is
// cancelled. New directories created at runtime are watched too.
func Watch(ctx context.Context, lib Reloader, root string, debounce time.Duration, logger *slog.Logger, cb EventCallback) error {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	root = filepath.Clean(root)
	w, err := fsnotify.NewWatcher()
	if err != nil {
		return err
	}
	defer w.Close()

	if err := addDirsRecursive(w, root); err != nil {
		return err
	}

	logger.Info("watcher: started", slog.String("root", root))

	var reloadTimer *time.Timer
	var reloadCh <-chan time.Time

	scheduleReload := func() {
		if reloadTimer == nil {
			reloadTimer = time.NewTimer(debounce)
			reloadCh = reloadTimer.C
		} else {
			reloadTimer.Reset(debounce)
		}
	}

	for {
		select {
		case <-ctx.Done():
			if reloadTimer != nil {
				reloadTimer.Stop()
			}
			logger.Info("watcher: stopped")
			return nil

		case <-reloadCh:
			stats := lib.Reload(ctx)
			logger.Debug("watcher: reloaded", slog.Int("expanded", stats.Expanded))

		case ev, ok := <-w.Events:
			if !ok {
				return nil
			}
			absPath := ev.Name

			if ev.Op&fsnotify.Create != 0 {
				if info, statErr := os.Stat(absPath); statErr == nil && info.IsDir() {
					if addErr := addDirsRecursive(w, absPath); addErr != nil {
						logger.Warn("watcher: add new dir failed",
							slog.String("path", absPath),
							slog.String("error", addErr.Error()))
					}
					scheduleReload()
					continue
				}
			}

			if !storage.IsAudio(absPath) {
				// A mood folder moved or deleted as a whole yields a single
				// event on the folder itself.
				if ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0 && filepath.Dir(absPath) == root {
					logger.Debug("watcher: folder removed", slog.String("path", filepath.Base(absPath)))
					scheduleReload()
				}
				continue
			}
			rel, relErr := filepath.Rel(root, absPath)
			if relErr != nil {
				continue
			}
			rel = filepath.ToSlash(rel)

			switch {
			case ev.Op&fsnotify.Create != 0:
				logger.Debug("watcher: track added", slog.String("path", rel))
				if cb != nil {
					cb("added", rel)
				}
				scheduleReload()
			case ev.Op&(fsnotify.Remove|fsnotify.Rename) != 0:
				// Rename fires on the old path; the new one arrives as Create.
				logger.Debug("watcher: track removed", slog.String("path", rel))
				if cb != nil {
					cb("removed", rel)
				}
				scheduleReload()
			}

		case watchErr, ok := <-w.Errors:
			if !ok {
				return nil
			}
			logger.Error("watcher: error", slog.String("error", watchErr.Error()))
		}
	}
}

// addDirsRecursive adds root and all its subdirectories to the watcher.
func addDirsRecursive(w *fsnotify.Watcher, root string) error {
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if d.IsDir() {
			return w.Add(path)
		}
		return nil
	})
}
