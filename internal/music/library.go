package music

import "sync/atomic"

// Library holds the current engine snapshot. Reload swaps in a freshly
// scanned engine; readers holding the previous one keep using it.
type Library struct {
	root string
	opts []Option
	cur  atomic.Pointer[Engine]
}

// NewLibrary builds the first engine for root.
func NewLibrary(root string, opts ...Option) *Library {
	l := &Library{root: root, opts: opts}
	l.cur.Store(New(root, opts...))
	return l
}

// Current returns the active engine.
func (l *Library) Current() *Engine {
	return l.cur.Load()
}

// Reload rescans the music root and makes the result current.
func (l *Library) Reload() *Engine {
	e := New(l.root, l.opts...)
	l.cur.Store(e)
	return e
}
