// Package models defines the domain types shared by the transports.
package models

import (
	"time"

	"github.com/starford/moodmusic/internal/mood"
)

// Origin tells which catalog tier a track came from.
type Origin string

const (
	OriginStatic   Origin = "static"   // built-in catalog, served from the music root
	OriginExpanded Origin = "expanded" // discovered under the expanded tree
)

// Track is a resolved, servable music track.
type Track struct {
	File   string    `json:"file"`
	Start  float64   `json:"start"`
	End    float64   `json:"end"`
	Mood   mood.Mood `json:"mood"`
	Origin Origin    `json:"origin"`
	URL    string    `json:"url"`
}

// LibraryStats summarizes the library by origin and mood.
type LibraryStats struct {
	Original int               `json:"original"`
	Expanded int               `json:"expanded"`
	ByMood   map[mood.Mood]int `json:"by_mood"`
}

// Total returns the number of tracks across both tiers.
func (s LibraryStats) Total() int { return s.Original + s.Expanded }

// MoodInfo describes a mood and its ordered substitutes.
type MoodInfo struct {
	Mood      mood.Mood   `json:"mood"`
	Fallbacks []mood.Mood `json:"fallbacks"`
	Tracks    int         `json:"tracks"`
	Served    int         `json:"served"` // resolutions recorded in history
}

// HistoryEntry is one recorded resolution.
type HistoryEntry struct {
	ID         string    `json:"id"`
	Requested  mood.Mood `json:"requested"`
	Mood       mood.Mood `json:"mood"`
	File       string    `json:"file"`
	Origin     Origin    `json:"origin"`
	Tier       string    `json:"tier"`
	Duration   float64   `json:"duration"`
	ResolvedAt time.Time `json:"resolved_at"`
}
