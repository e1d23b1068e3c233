// Package mood defines the closed set of music moods and the similarity
// graph used when a mood has no tracks of its own.
package mood

import (
	"fmt"
	"strings"

	"github.com/starford/moodmusic/internal/apperr"
)

// Mood is a semantic tag describing the emotional character of a track.
type Mood string

// Known moods.
const (
	Happy         Mood = "happy"
	Sad           Mood = "sad"
	Chill         Mood = "chill"
	Dark          Mood = "dark"
	Excited       Mood = "excited"
	Euphoric      Mood = "euphoric"
	Angry         Mood = "angry"
	Hopeful       Mood = "hopeful"
	Contemplative Mood = "contemplative"
	Funny         Mood = "funny"
	Melancholic   Mood = "melancholic"
	Uneasy        Mood = "uneasy"
)

// Default is used when no mood is requested.
const Default = Chill

// all lists every mood in a stable order. Folder creation, listings and
// stats iterate in this order.
var all = []Mood{
	Sad, Melancholic, Happy, Euphoric, Excited, Chill,
	Uneasy, Angry, Dark, Hopeful, Contemplative, Funny,
}

// All returns every known mood.
func All() []Mood {
	out := make([]Mood, len(all))
	copy(out, all)
	return out
}

// Strings returns every known mood as a plain string, e.g. for enum schemas.
func Strings() []string {
	out := make([]string, len(all))
	for i, m := range all {
		out[i] = string(m)
	}
	return out
}

// Valid reports whether m belongs to the known set.
func (m Mood) Valid() bool {
	for _, k := range all {
		if k == m {
			return true
		}
	}
	return false
}

func (m Mood) String() string { return string(m) }

// Parse converts s into a Mood. Matching is case-insensitive and ignores
// surrounding whitespace. An empty string yields "" with no error, which
// callers treat as "no mood requested".
func Parse(s string) (Mood, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return "", nil
	}
	m := Mood(s)
	if !m.Valid() {
		return "", fmt.Errorf("%w: %q", apperr.ErrInvalidMood, s)
	}
	return m, nil
}
