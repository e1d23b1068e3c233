package api

import "github.com/starford/moodmusic/internal/models"

// Track is a resolved track (aliased from the domain layer).
type Track = models.Track

// TrackListResponse wraps catalog listings.
type TrackListResponse struct {
	Tracks []Track `json:"tracks" validate:"required"`
	Total  int     `json:"total" example:"31" validate:"required"`
}

// MoodListResponse wraps the mood list.
type MoodListResponse struct {
	Moods []models.MoodInfo `json:"moods" validate:"required"`
}

// HistoryResponse wraps recent resolutions.
type HistoryResponse struct {
	Entries []models.HistoryEntry `json:"entries" validate:"required"`
}

// VerifyResponse lists built-in tracks missing from disk.
type VerifyResponse struct {
	Missing []string `json:"missing" validate:"required"`
}
