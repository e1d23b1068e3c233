package music

import (
	"log/slog"

	"github.com/starford/moodmusic/internal/catalog"
	"github.com/starford/moodmusic/internal/mood"
)

// DefaultBuffer is added to the requested duration for discovered tracks,
// whose real length is unknown.
const DefaultBuffer = 10.0

// Option is a functional option for configuring an Engine.
type Option func(*options)

type options struct {
	baseURL string
	buffer  float64
	rnd     Rand
	logger  *slog.Logger
	static  []catalog.Asset
	graph   mood.Graph
}

func defaultOptions() options {
	return options{
		baseURL: "http://localhost:8080",
		buffer:  DefaultBuffer,
		rnd:     defaultRand,
		logger:  slog.Default(),
		static:  catalog.Builtin(),
		graph:   mood.Fallback(),
	}
}

// WithBaseURL sets the public base address used when building track URLs.
func WithBaseURL(base string) Option {
	return func(o *options) {
		o.baseURL = base
	}
}

// WithBuffer sets the seconds added to the requested duration for
// discovered tracks.
func WithBuffer(seconds float64) Option {
	return func(o *options) {
		if seconds >= 0 {
			o.buffer = seconds
		}
	}
}

// WithRand replaces the random source.
func WithRand(r Rand) Option {
	return func(o *options) {
		if r != nil {
			o.rnd = r
		}
	}
}

// WithLogger sets the logger.
func WithLogger(l *slog.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithCatalog replaces the built-in static catalog.
func WithCatalog(assets []catalog.Asset) Option {
	return func(o *options) {
		o.static = append([]catalog.Asset(nil), assets...)
	}
}

// WithFallback replaces the mood similarity graph.
func WithFallback(g mood.Graph) Option {
	return func(o *options) {
		o.graph = g
	}
}
