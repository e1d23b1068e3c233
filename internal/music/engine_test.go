package music

import (
	"net/url"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/starford/moodmusic/internal/catalog"
	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/mood"
	"github.com/starford/moodmusic/internal/testutil"
)

// seqRand returns the given draws in order, then zeros.
type seqRand struct {
	draws []int
	calls []int
}

func (r *seqRand) IntN(n int) int {
	r.calls = append(r.calls, n)
	if len(r.draws) == 0 {
		return 0
	}
	d := r.draws[0]
	r.draws = r.draws[1:]
	return d % n
}

func newEngine(t *testing.T, root string, opts ...Option) *Engine {
	t.Helper()
	opts = append([]Option{WithLogger(testutil.Logger()), WithBaseURL("http://localhost:3123")}, opts...)
	return New(root, opts...)
}

func TestResolve_StaticHit(t *testing.T) {
	root := testutil.MusicDir(t)
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "A.mp3", Start: 0, End: 120, Mood: mood.Happy}}),
	)

	got, res := e.ResolveDetailed(60, mood.Happy)
	if got.File != "A.mp3" || got.Mood != mood.Happy {
		t.Fatalf("got %+v", got)
	}
	if got.Origin != models.OriginStatic || res.Tier != TierStatic {
		t.Errorf("origin=%s tier=%s", got.Origin, res.Tier)
	}
	if got.Start != 0 || got.End != 120 {
		t.Errorf("static trims changed: %v-%v", got.Start, got.End)
	}
	if got.URL != "http://localhost:3123/api/music/A.mp3" {
		t.Errorf("url = %q", got.URL)
	}
}

func TestResolve_DiscoveredHit(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "funny/B.mp3")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "A.mp3", Start: 0, End: 120, Mood: mood.Happy}}),
	)

	got, res := e.ResolveDetailed(30, mood.Funny)
	if got.File != "funny/B.mp3" || got.Mood != mood.Funny {
		t.Fatalf("got %+v", got)
	}
	if got.Start != 0 || got.End != 40 {
		t.Errorf("range = %v-%v, want 0-40", got.Start, got.End)
	}
	if got.Origin != models.OriginExpanded || res.Tier != TierExpanded {
		t.Errorf("origin=%s tier=%s", got.Origin, res.Tier)
	}
	if got.URL != "http://localhost:3123/api/music/expanded/funny%2FB.mp3" {
		t.Errorf("url = %q", got.URL)
	}
}

func TestResolve_DiscoveredPreferredOverStatic(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "happy/mine.ogg")
	e := newEngine(t, root)

	got := e.Resolve(15, mood.Happy)
	if got.File != "happy/mine.ogg" {
		t.Errorf("file = %q, want discovered track", got.File)
	}
}

func TestResolve_DefaultMood(t *testing.T) {
	root := testutil.MusicDir(t)
	e := newEngine(t, root)

	got, res := e.ResolveDetailed(60, "")
	if got.Mood != mood.Chill || res.Requested != mood.Chill {
		t.Errorf("mood = %s requested = %s, want chill", got.Mood, res.Requested)
	}
}

func TestResolve_StaleDiscoveredFallsThrough(t *testing.T) {
	root := testutil.MusicDir(t)
	expanded := filepath.Join(root, ExpandedDir)
	testutil.Touch(t, expanded, "happy/gone.mp3")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "A.mp3", Start: 1, End: 99, Mood: mood.Happy}}),
	)
	if err := os.Remove(filepath.Join(expanded, "happy", "gone.mp3")); err != nil {
		t.Fatal(err)
	}

	got, res := e.ResolveDetailed(60, mood.Happy)
	if got.File != "A.mp3" || res.Tier != TierStatic {
		t.Errorf("got %+v tier %s, want static A.mp3", got, res.Tier)
	}
}

func TestResolve_FallbackOrder(t *testing.T) {
	root := testutil.MusicDir(t)
	// happy has no tracks; only its second neighbor (euphoric) does.
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{
			{File: "E.mp3", Start: 0, End: 100, Mood: mood.Euphoric},
			{File: "H.mp3", Start: 0, End: 100, Mood: mood.Hopeful},
			{File: "S.mp3", Start: 0, End: 100, Mood: mood.Sad},
		}),
		WithFallback(mood.Graph{mood.Happy: {mood.Excited, mood.Euphoric, mood.Hopeful}}),
	)

	got, res := e.ResolveDetailed(60, mood.Happy)
	if got.File != "E.mp3" || got.Mood != mood.Euphoric {
		t.Errorf("got %+v, want euphoric E.mp3", got)
	}
	if res.Tier != TierFallback || res.Requested != mood.Happy {
		t.Errorf("resolution = %+v", res)
	}
}

func TestResolve_FallbackUsesDiscoveredNeighbor(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "excited/x.wav")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "E.mp3", Start: 0, End: 100, Mood: mood.Euphoric}}),
	)

	got := e.Resolve(20, mood.Funny) // funny -> [happy, excited]
	if got.File != "excited/x.wav" || got.End != 30 {
		t.Errorf("got %+v", got)
	}
}

func TestResolve_NoTransitiveFallback(t *testing.T) {
	root := testutil.MusicDir(t)
	// angry -> [dark, uneasy]; uneasy's own neighbors are never consulted.
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "C.mp3", Start: 0, End: 100, Mood: mood.Chill}}),
		WithFallback(mood.Graph{
			mood.Angry:  {mood.Dark, mood.Uneasy},
			mood.Uneasy: {mood.Chill},
		}),
	)

	got, res := e.ResolveDetailed(60, mood.Angry)
	if res.Tier != TierLastResort {
		t.Errorf("tier = %s, want last resort", res.Tier)
	}
	if got.File != "C.mp3" {
		t.Errorf("file = %q", got.File)
	}
}

func TestResolve_LastResort(t *testing.T) {
	root := testutil.MusicDir(t)
	assets := []catalog.Asset{
		{File: "one.mp3", Start: 0, End: 10, Mood: mood.Happy},
		{File: "two.mp3", Start: 0, End: 10, Mood: mood.Sad},
	}
	r := &seqRand{draws: []int{1}}
	e := newEngine(t, root, WithCatalog(assets), WithRand(r))

	got, res := e.ResolveDetailed(60, mood.Angry)
	if res.Tier != TierLastResort {
		t.Fatalf("tier = %s", res.Tier)
	}
	if got.File != "two.mp3" {
		t.Errorf("file = %q, want two.mp3", got.File)
	}
	if got.Origin != models.OriginStatic {
		t.Errorf("origin = %s", got.Origin)
	}
}

func TestResolve_InjectedRandPicksIndex(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "dark/a.mp3", "dark/b.mp3", "dark/c.mp3")
	r := &seqRand{draws: []int{2}}
	e := newEngine(t, root, WithRand(r))

	got := e.Resolve(5, mood.Dark)
	if got.File != "dark/c.mp3" {
		t.Errorf("file = %q, want dark/c.mp3", got.File)
	}
	if len(r.calls) != 1 || r.calls[0] != 3 {
		t.Errorf("rand calls = %v, want [3]", r.calls)
	}
}

func TestResolve_EveryMoodNeverEmpty(t *testing.T) {
	root := testutil.MusicDir(t)
	e := newEngine(t, root)
	for _, m := range append(mood.All(), "") {
		got := e.Resolve(45, m)
		if got.File == "" || got.URL == "" || !got.Mood.Valid() {
			t.Errorf("Resolve(%q) = %+v", m, got)
		}
		want := m
		if want == "" {
			want = mood.Default
		}
		// Every mood has built-in tracks, so no fallback happens.
		if got.Mood != want {
			t.Errorf("Resolve(%q).Mood = %s", m, got.Mood)
		}
	}
}

func TestResolve_NegativeDurationClamped(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "sad/s.mp3")
	e := newEngine(t, root, WithBuffer(5))
	got := e.Resolve(-30, mood.Sad)
	if got.End != 5 {
		t.Errorf("end = %v, want 5", got.End)
	}
}

func TestNew_EmptyCatalogPanics(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("expected panic for empty catalog")
		}
	}()
	New(testutil.MusicDir(t), WithCatalog(nil), WithLogger(testutil.Logger()))
}

func TestNew_BootstrapsExpandedTree(t *testing.T) {
	root := t.TempDir()
	e := newEngine(t, root)
	if _, err := os.Stat(filepath.Join(e.ExpandedRoot(), "README.md")); err != nil {
		t.Errorf("guide not created: %v", err)
	}
	for _, m := range mood.All() {
		if _, err := os.Stat(filepath.Join(e.ExpandedRoot(), string(m))); err != nil {
			t.Errorf("mood dir %s not created", m)
		}
	}
	if e.Stats().Expanded != 0 {
		t.Error("fresh tree should have no discovered tracks")
	}
}

func TestTrackURL(t *testing.T) {
	cases := []struct {
		name  string
		track models.Track
		want  string
	}{
		{
			name:  "static with spaces",
			track: models.Track{File: "Sly Sky - Telecasted.mp3", Origin: models.OriginStatic},
			want:  "http://h:1/api/music/Sly%20Sky%20-%20Telecasted.mp3",
		},
		{
			name:  "expanded encodes separator",
			track: models.Track{File: "happy/Song (live).mp3", Origin: models.OriginExpanded},
			want:  "http://h:1/api/music/expanded/happy%2FSong%20%28live%29.mp3",
		},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := TrackURL("http://h:1/", tc.track); got != tc.want {
				t.Errorf("got %q, want %q", got, tc.want)
			}
		})
	}
}

func TestTrackURL_Idempotent(t *testing.T) {
	tr := models.Track{File: "Honey, I Dismembered The Kids - Ezra Lipp.mp3", Origin: models.OriginStatic}
	if TrackURL("http://x", tr) != TrackURL("http://x", tr) {
		t.Error("TrackURL is not deterministic")
	}
}

func TestTrackURL_RoundTrip(t *testing.T) {
	names := []string{
		"Phantom - Density & Time.mp3",
		"Touch (Anno Domini Beats).mp3",
		"sad/Café du Monde (remaster).ogg",
		"No.2 Remembering Her - Esther Abrami.mp3",
		"100% pure+fun?.wav",
	}
	for _, name := range names {
		for _, origin := range []models.Origin{models.OriginStatic, models.OriginExpanded} {
			u := TrackURL("http://localhost:3123", models.Track{File: name, Origin: origin})
			prefix := "http://localhost:3123" + StaticRoute
			if origin == models.OriginExpanded {
				prefix = "http://localhost:3123" + ExpandedRoute
			}
			enc := strings.TrimPrefix(u, prefix)
			if strings.ContainsAny(enc, " ()/") {
				t.Errorf("%q not fully escaped: %q", name, enc)
			}
			dec, err := url.PathUnescape(enc)
			if err != nil {
				t.Fatalf("unescape %q: %v", enc, err)
			}
			if dec != name {
				t.Errorf("round trip %q -> %q", name, dec)
			}
		}
	}
}

func TestStats(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "happy/a.mp3", "happy/b.mp3", "funny/c.mp3")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{
			{File: "H.mp3", Start: 0, End: 10, Mood: mood.Happy},
			{File: "S.mp3", Start: 0, End: 10, Mood: mood.Sad},
		}),
	)

	s := e.Stats()
	if s.Original != 2 || s.Expanded != 3 || s.Total() != 5 {
		t.Errorf("stats = %+v", s)
	}
	want := map[mood.Mood]int{mood.Happy: 3, mood.Funny: 1, mood.Sad: 1}
	if len(s.ByMood) != len(want) {
		t.Errorf("by mood = %v, want %v", s.ByMood, want)
	}
	for m, n := range want {
		if s.ByMood[m] != n {
			t.Errorf("by mood[%s] = %d, want %d", m, s.ByMood[m], n)
		}
	}

	// Recomputed, not accumulated.
	if again := e.Stats(); again.ByMood[mood.Happy] != 3 {
		t.Errorf("second call drifted: %v", again.ByMood)
	}
}

func TestCatalog(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, filepath.Join(root, ExpandedDir), "chill/z.mp3")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "A B.mp3", Start: 2, End: 50, Mood: mood.Happy}}),
	)

	got := e.Catalog()
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].File != "A B.mp3" || got[0].URL != "http://localhost:3123/api/music/A%20B.mp3" || got[0].Start != 2 {
		t.Errorf("static entry = %+v", got[0])
	}
	if got[1].File != "chill/z.mp3" || got[1].End != ListingLength || got[1].Origin != models.OriginExpanded {
		t.Errorf("expanded entry = %+v", got[1])
	}
}

func TestVerifyAssetsPresent(t *testing.T) {
	root := testutil.MusicDir(t)
	testutil.Touch(t, root, "here.mp3")
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{
			{File: "here.mp3", Start: 0, End: 10, Mood: mood.Happy},
			{File: "gone.mp3", Start: 0, End: 10, Mood: mood.Sad},
		}),
	)
	if err := os.RemoveAll(e.ExpandedRoot()); err != nil {
		t.Fatal(err)
	}

	missing := e.VerifyAssetsPresent()
	if len(missing) != 1 || missing[0] != "gone.mp3" {
		t.Errorf("missing = %v", missing)
	}
	if _, err := os.Stat(filepath.Join(e.ExpandedRoot(), "README.md")); err != nil {
		t.Errorf("expanded tree not re-created: %v", err)
	}
}

func TestLibraryReload(t *testing.T) {
	root := testutil.MusicDir(t)
	lib := NewLibrary(root, WithLogger(testutil.Logger()))
	first := lib.Current()
	if first.Stats().Expanded != 0 {
		t.Fatal("expected empty library")
	}

	testutil.Touch(t, filepath.Join(root, ExpandedDir), "hopeful/new.mp3")

	// The snapshot does not refresh on its own.
	if lib.Current().Stats().Expanded != 0 {
		t.Error("snapshot changed without reload")
	}

	second := lib.Reload()
	if second == first {
		t.Error("reload returned the same engine")
	}
	if lib.Current().Stats().Expanded != 1 {
		t.Errorf("expanded = %d after reload, want 1", lib.Current().Stats().Expanded)
	}
	if first.Stats().Expanded != 0 {
		t.Error("old snapshot mutated")
	}
}

func TestEngineNeighbors_UsesConfiguredGraph(t *testing.T) {
	root := testutil.MusicDir(t)
	e := newEngine(t, root,
		WithCatalog([]catalog.Asset{{File: "A.mp3", End: 120, Mood: mood.Happy}}),
		WithFallback(mood.Graph{mood.Sad: {mood.Happy}}),
	)
	if got := e.Neighbors(mood.Sad); len(got) != 1 || got[0] != mood.Happy {
		t.Errorf("Neighbors(sad) = %v, want [happy]", got)
	}
	// Moods missing from the graph fall back to the default mood.
	if got := e.Neighbors(mood.Dark); len(got) != 1 || got[0] != mood.Default {
		t.Errorf("Neighbors(dark) = %v, want [%s]", got, mood.Default)
	}
}
