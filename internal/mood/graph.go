package mood

import "fmt"

// Graph maps a mood to its ordered list of substitutes. Earlier entries
// are tried first; neighbors of neighbors are never consulted.
type Graph map[Mood][]Mood

var fallback = Graph{
	Happy:         {Excited, Euphoric, Hopeful},
	Excited:       {Happy, Euphoric},
	Euphoric:      {Excited, Happy},
	Sad:           {Melancholic, Contemplative},
	Melancholic:   {Sad, Contemplative},
	Dark:          {Uneasy, Angry},
	Uneasy:        {Dark, Angry},
	Angry:         {Dark, Uneasy},
	Chill:         {Contemplative, Hopeful},
	Contemplative: {Chill, Melancholic},
	Hopeful:       {Happy, Chill},
	Funny:         {Happy, Excited},
}

func init() {
	if err := fallback.Check(); err != nil {
		panic(err)
	}
}

// Fallback returns a copy of the built-in similarity graph.
func Fallback() Graph {
	out := make(Graph, len(fallback))
	for k, v := range fallback {
		out[k] = append([]Mood(nil), v...)
	}
	return out
}

// Neighbors returns the substitutes for m from the built-in graph.
func Neighbors(m Mood) []Mood {
	return fallback.Neighbors(m)
}

// Neighbors returns the substitutes for m. Moods missing from the graph
// fall back to the default mood.
func (g Graph) Neighbors(m Mood) []Mood {
	n, ok := g[m]
	if !ok || len(n) == 0 {
		return []Mood{Default}
	}
	return append([]Mood(nil), n...)
}

// Check verifies the graph is total over the known moods: every mood has
// a non-empty list of known moods that is not just itself.
func (g Graph) Check() error {
	for _, m := range all {
		n, ok := g[m]
		if !ok || len(n) == 0 {
			return fmt.Errorf("mood: no fallback for %q", m)
		}
		if len(n) == 1 && n[0] == m {
			return fmt.Errorf("mood: %q falls back only to itself", m)
		}
		for _, x := range n {
			if !x.Valid() {
				return fmt.Errorf("mood: %q falls back to unknown mood %q", m, x)
			}
		}
	}
	return nil
}
