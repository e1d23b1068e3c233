package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// AudioExtensions is the allow-list of audio containers picked up from disk.
var AudioExtensions = []string{".mp3", ".wav", ".ogg"}

// IsAudio reports whether name carries an allowed audio extension.
// The comparison is case-insensitive.
func IsAudio(name string) bool {
	ext := strings.ToLower(filepath.Ext(name))
	for _, a := range AudioExtensions {
		if ext == a {
			return true
		}
	}
	return false
}

// FS implements Provider backed by the local file system.
type FS struct {
	root string // absolute path
}

var _ Provider = (*FS)(nil)

// NewFS creates a new FS provider rooted at the given directory.
// The directory must already exist.
func NewFS(root string) (*FS, error) {
	abs, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("storage: resolve root: %w", err)
	}
	info, err := os.Stat(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: stat root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("storage: root is not a directory: %s", abs)
	}
	return &FS{root: abs}, nil
}

// Root returns the absolute root directory.
func (f *FS) Root() string { return f.root }

// Abs resolves a relative path against the root and rejects any result
// that escapes it.
func (f *FS) Abs(rel string) (string, error) {
	if rel == "" {
		return f.root, nil
	}
	cleaned := filepath.Clean(filepath.FromSlash(rel))
	if filepath.IsAbs(cleaned) {
		return "", fmt.Errorf("storage: absolute paths not allowed: %s", rel)
	}
	abs, err := filepath.Abs(filepath.Join(f.root, cleaned))
	if err != nil {
		return "", fmt.Errorf("storage: resolve path: %w", err)
	}
	if !strings.HasPrefix(abs, f.root+string(os.PathSeparator)) && abs != f.root {
		return "", fmt.Errorf("storage: path escapes root: %s", rel)
	}
	return abs, nil
}

// Exists reports whether rel names a regular file under the root.
func (f *FS) Exists(rel string) bool {
	abs, err := f.Abs(rel)
	if err != nil {
		return false
	}
	info, err := os.Stat(abs)
	return err == nil && info.Mode().IsRegular()
}

// ListAudio returns the sorted names of audio files directly inside dir.
// Sub-directories and hidden files are skipped.
func (f *FS) ListAudio(dir string) ([]string, error) {
	abs, err := f.Abs(dir)
	if err != nil {
		return nil, err
	}
	entries, err := os.ReadDir(abs)
	if err != nil {
		return nil, fmt.Errorf("storage: list %s: %w", dir, err)
	}
	var out []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.HasPrefix(name, ".") || !IsAudio(name) {
			continue
		}
		if t := e.Type(); !t.IsRegular() && t&fs.ModeSymlink == 0 {
			continue
		}
		out = append(out, name)
	}
	sort.Strings(out)
	return out, nil
}

// MkdirAll creates dir (relative to root) and any missing parents.
func (f *FS) MkdirAll(dir string) error {
	abs, err := f.Abs(dir)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(abs, 0o755); err != nil {
		return fmt.Errorf("storage: mkdir %s: %w", dir, err)
	}
	return nil
}

// WriteIfAbsent writes content to rel unless a file already exists there.
// The write is atomic: tmp file → fsync → rename.
func (f *FS) WriteIfAbsent(rel string, content []byte) (bool, error) {
	abs, err := f.Abs(rel)
	if err != nil {
		return false, err
	}
	if _, err := os.Stat(abs); err == nil {
		return false, nil
	} else if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("storage: stat %s: %w", rel, err)
	}

	dir := filepath.Dir(abs)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return false, fmt.Errorf("storage: mkdir: %w", err)
	}
	tmp, err := os.CreateTemp(dir, ".moodmusic-tmp-*")
	if err != nil {
		return false, fmt.Errorf("storage: create temp: %w", err)
	}
	tmpName := tmp.Name()

	success := false
	defer func() {
		if !success {
			_ = tmp.Close()
			_ = os.Remove(tmpName)
		}
	}()

	if _, err := tmp.Write(content); err != nil {
		return false, fmt.Errorf("storage: write temp: %w", err)
	}
	if err := tmp.Sync(); err != nil {
		return false, fmt.Errorf("storage: fsync: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return false, fmt.Errorf("storage: close temp: %w", err)
	}
	if err := os.Rename(tmpName, abs); err != nil {
		return false, fmt.Errorf("storage: rename: %w", err)
	}
	success = true
	return true, nil
}
