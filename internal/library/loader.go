// Package library discovers user-supplied music organized as one folder
// per mood and builds an in-memory index of it.
package library

import (
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path"

	"github.com/starford/moodmusic/internal/mood"
	"github.com/starford/moodmusic/internal/storage"
)

// Index maps a mood to the relative paths ("<mood>/<file>") of its tracks.
// A mood is present only when it has at least one track.
type Index struct {
	byMood map[mood.Mood][]string
}

// NewIndex builds an Index from a raw mapping, dropping empty entries.
func NewIndex(m map[mood.Mood][]string) *Index {
	idx := &Index{byMood: make(map[mood.Mood][]string, len(m))}
	for k, files := range m {
		if len(files) > 0 {
			idx.byMood[k] = append([]string(nil), files...)
		}
	}
	return idx
}

// Files returns the tracks indexed for m.
func (i *Index) Files(m mood.Mood) []string {
	if i == nil {
		return nil
	}
	return append([]string(nil), i.byMood[m]...)
}

// Has reports whether m has at least one track.
func (i *Index) Has(m mood.Mood) bool {
	return i != nil && len(i.byMood[m]) > 0
}

// Len returns the total number of indexed tracks.
func (i *Index) Len() int {
	if i == nil {
		return 0
	}
	n := 0
	for _, files := range i.byMood {
		n += len(files)
	}
	return n
}

// Moods returns the indexed moods in enumeration order.
func (i *Index) Moods() []mood.Mood {
	var out []mood.Mood
	for _, m := range mood.All() {
		if i.Has(m) {
			out = append(out, m)
		}
	}
	return out
}

// Load scans root for mood folders and returns the discovered tracks.
// When root does not exist it is bootstrapped and an empty index is
// returned. Load never fails: filesystem errors are logged and the
// affected moods are left out.
func Load(root string, logger *slog.Logger) *Index {
	if logger == nil {
		logger = slog.Default()
	}

	if _, err := os.Stat(root); errors.Is(err, fs.ErrNotExist) {
		Bootstrap(root, logger)
		return NewIndex(nil)
	} else if err != nil {
		logger.Warn("library: stat root failed", slog.String("root", root), slog.String("error", err.Error()))
		return NewIndex(nil)
	}

	store, err := storage.NewFS(root)
	if err != nil {
		logger.Warn("library: open root failed", slog.String("root", root), slog.String("error", err.Error()))
		return NewIndex(nil)
	}

	found := make(map[mood.Mood][]string)
	for _, m := range mood.All() {
		dir := string(m)
		abs, err := store.Abs(dir)
		if err != nil {
			continue
		}
		if info, err := os.Stat(abs); err != nil || !info.IsDir() {
			continue
		}
		names, err := store.ListAudio(dir)
		if err != nil {
			logger.Warn("library: list mood folder failed", slog.String("mood", dir), slog.String("error", err.Error()))
			continue
		}
		for _, name := range names {
			found[m] = append(found[m], path.Join(dir, name))
		}
	}

	idx := NewIndex(found)
	logger.Debug("library: loaded", slog.String("root", root), slog.Int("tracks", idx.Len()))
	return idx
}

// Bootstrap creates root, one folder per mood, and the guide document.
// Existing folders and an existing guide are left untouched.
func Bootstrap(root string, logger *slog.Logger) {
	if logger == nil {
		logger = slog.Default()
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		logger.Warn("library: create root failed", slog.String("root", root), slog.String("error", err.Error()))
		return
	}
	store, err := storage.NewFS(root)
	if err != nil {
		logger.Warn("library: open root failed", slog.String("root", root), slog.String("error", err.Error()))
		return
	}
	for _, m := range mood.All() {
		if err := store.MkdirAll(string(m)); err != nil {
			logger.Warn("library: create mood folder failed", slog.String("mood", string(m)), slog.String("error", err.Error()))
		}
	}
	wrote, err := store.WriteIfAbsent(GuideName, []byte(Guide))
	if err != nil {
		logger.Warn("library: write guide failed", slog.String("error", err.Error()))
		return
	}
	if wrote {
		logger.Info("library: created expanded music tree", slog.String("root", store.Root()))
	}
}
