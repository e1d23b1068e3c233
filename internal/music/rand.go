package music

import "math/rand/v2"

// Rand is a source of uniform draws in [0, n).
type Rand interface {
	IntN(n int) int
}

// RandFunc adapts a plain function to Rand.
type RandFunc func(n int) int

// IntN implements Rand.
func (f RandFunc) IntN(n int) int { return f(n) }

// defaultRand uses the goroutine-safe top-level math/rand/v2 source.
var defaultRand Rand = RandFunc(rand.IntN)
