// Package storage provides root-confined access to the music directory tree.
package storage

// Provider is the interface for music file operations. All paths are
// slash-separated and relative to the provider root.
type Provider interface {
	// Root returns the absolute root directory.
	Root() string
	// Abs resolves path against the root, rejecting traversal.
	Abs(path string) (string, error)
	// Exists reports whether path is a regular file.
	Exists(path string) bool
	// ListAudio returns the sorted names of audio files directly inside dir.
	ListAudio(dir string) ([]string, error)
	// MkdirAll creates dir and any missing parents.
	MkdirAll(dir string) error
	// WriteIfAbsent atomically writes content to path unless it already
	// exists. It reports whether a write happened.
	WriteIfAbsent(path string, content []byte) (bool, error)
}
