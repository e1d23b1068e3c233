// Package music selects a track for a mood and duration from the built-in
// catalog and the discovered library, and builds servable addresses for it.
package music

import (
	"log/slog"
	"os"
	"path/filepath"

	"github.com/starford/moodmusic/internal/catalog"
	"github.com/starford/moodmusic/internal/library"
	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/mood"
	"github.com/starford/moodmusic/internal/storage"
)

// ExpandedDir is the name of the discovered library under the music root.
const ExpandedDir = "expanded"

// ListingLength is the end offset advertised for discovered tracks in
// catalog listings.
const ListingLength = 180.0

// Tier records how a track was found.
type Tier string

const (
	TierExpanded   Tier = "expanded"
	TierStatic     Tier = "static"
	TierFallback   Tier = "fallback"
	TierLastResort Tier = "last_resort"
)

// Resolution describes a Resolve call.
type Resolution struct {
	Requested mood.Mood // after defaulting
	Tier      Tier
}

// Engine resolves tracks against a snapshot of the library taken at
// construction. It is immutable and safe for concurrent use.
type Engine struct {
	root         string
	expandedRoot string

	static   []catalog.Asset
	index    *library.Index
	music    storage.Provider // music root; nil when unavailable
	expanded storage.Provider // expanded root; nil when unavailable

	graph   mood.Graph
	rnd     Rand
	baseURL string
	buffer  float64
	logger  *slog.Logger
}

// New scans root/expanded (bootstrapping it when absent) and returns an
// engine over the result. It panics when the static catalog is empty,
// since resolution could then fail.
func New(root string, opts ...Option) *Engine {
	o := defaultOptions()
	for _, opt := range opts {
		opt(&o)
	}
	if len(o.static) == 0 {
		panic("music: static catalog is empty")
	}

	e := &Engine{
		root:         root,
		expandedRoot: filepath.Join(root, ExpandedDir),
		static:       o.static,
		graph:        o.graph,
		rnd:          o.rnd,
		baseURL:      o.baseURL,
		buffer:       o.buffer,
		logger:       o.logger,
	}

	e.index = library.Load(e.expandedRoot, e.logger)

	if fs, err := storage.NewFS(e.expandedRoot); err == nil {
		e.expanded = fs
	}
	if fs, err := storage.NewFS(root); err == nil {
		e.music = fs
	}
	return e
}

// Root returns the music root directory.
func (e *Engine) Root() string { return e.root }

// ExpandedRoot returns the discovered library directory.
func (e *Engine) ExpandedRoot() string { return e.expandedRoot }

// Neighbors returns the fallback moods Resolve tries for m, in order.
func (e *Engine) Neighbors(m mood.Mood) []mood.Mood { return e.graph.Neighbors(m) }

// Index returns the discovered library snapshot.
func (e *Engine) Index() *library.Index { return e.index }

// Resolve picks a track for the requested mood. An empty mood means the
// default mood. It never fails.
func (e *Engine) Resolve(duration float64, requested mood.Mood) models.Track {
	t, _ := e.ResolveDetailed(duration, requested)
	return t
}

// ResolveDetailed is Resolve that also reports which tier answered.
//
// Order: discovered tracks for the mood, built-in tracks for the mood,
// then the same two tiers for each fallback neighbor in order, and
// finally any built-in track.
func (e *Engine) ResolveDetailed(duration float64, requested mood.Mood) (models.Track, Resolution) {
	if duration < 0 {
		duration = 0
	}
	m := requested
	if m == "" {
		m = mood.Default
	}

	if t, tier, ok := e.pick(m, duration); ok {
		return t, Resolution{Requested: m, Tier: tier}
	}

	for _, n := range e.graph.Neighbors(m) {
		if t, _, ok := e.pick(n, duration); ok {
			e.logger.Debug("music: resolved via fallback",
				slog.String("requested", string(m)),
				slog.String("mood", string(n)))
			return t, Resolution{Requested: m, Tier: TierFallback}
		}
	}

	a := e.static[e.rnd.IntN(len(e.static))]
	e.logger.Warn("music: no track for mood or its neighbors, using any track",
		slog.String("requested", string(m)),
		slog.String("file", a.File))
	return e.staticTrack(a), Resolution{Requested: m, Tier: TierLastResort}
}

// pick tries the discovered tier and then the static tier for m.
func (e *Engine) pick(m mood.Mood, duration float64) (models.Track, Tier, bool) {
	if files := e.index.Files(m); len(files) > 0 {
		f := files[e.rnd.IntN(len(files))]
		if e.expanded != nil && e.expanded.Exists(f) {
			return e.withURL(models.Track{
				File:   f,
				Start:  0,
				End:    duration + e.buffer,
				Mood:   m,
				Origin: models.OriginExpanded,
			}), TierExpanded, true
		}
		e.logger.Warn("music: discovered track vanished", slog.String("file", f))
	}

	if assets := catalog.ByMood(e.static, m); len(assets) > 0 {
		return e.staticTrack(assets[e.rnd.IntN(len(assets))]), TierStatic, true
	}
	return models.Track{}, "", false
}

func (e *Engine) staticTrack(a catalog.Asset) models.Track {
	return e.withURL(models.Track{
		File:   a.File,
		Start:  a.Start,
		End:    a.End,
		Mood:   a.Mood,
		Origin: models.OriginStatic,
	})
}

func (e *Engine) withURL(t models.Track) models.Track {
	t.URL = e.URL(t)
	return t
}

// URL returns the servable address of t.
func (e *Engine) URL(t models.Track) string {
	return TrackURL(e.baseURL, t)
}

// Stats counts tracks by origin and mood.
func (e *Engine) Stats() models.LibraryStats {
	s := models.LibraryStats{
		Original: len(e.static),
		Expanded: e.index.Len(),
		ByMood:   make(map[mood.Mood]int),
	}
	for _, m := range e.index.Moods() {
		s.ByMood[m] += len(e.index.Files(m))
	}
	for _, a := range e.static {
		s.ByMood[a.Mood]++
	}
	return s
}

// Catalog lists every track: built-in tracks first, in catalog order,
// then discovered tracks by mood and file name.
func (e *Engine) Catalog() []models.Track {
	out := make([]models.Track, 0, len(e.static)+e.index.Len())
	for _, a := range e.static {
		out = append(out, e.staticTrack(a))
	}
	for _, m := range e.index.Moods() {
		for _, f := range e.index.Files(m) {
			out = append(out, e.withURL(models.Track{
				File:   f,
				Start:  0,
				End:    ListingLength,
				Mood:   m,
				Origin: models.OriginExpanded,
			}))
		}
	}
	return out
}

// VerifyAssetsPresent logs every built-in file missing from the music
// root and returns their names. It also re-creates the expanded tree if
// it has been removed. It never fails.
func (e *Engine) VerifyAssetsPresent() []string {
	var missing []string
	for _, a := range e.static {
		if e.music == nil || !e.music.Exists(a.File) {
			e.logger.Warn("music: built-in track not found", slog.String("file", a.File))
			missing = append(missing, a.File)
		}
	}
	if _, err := os.Stat(e.expandedRoot); os.IsNotExist(err) {
		library.Bootstrap(e.expandedRoot, e.logger)
	}
	return missing
}
