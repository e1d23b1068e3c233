package api

import (
	"errors"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/starford/moodmusic/internal/apperr"
	"github.com/starford/moodmusic/internal/musicservice"
)

// Handler holds API route handlers.
type Handler struct {
	svc *musicservice.Service
}

// NewHandler creates a new Handler.
func NewHandler(svc *musicservice.Service) *Handler {
	return &Handler{svc: svc}
}

// ListTracks handles GET /api/music.
//
//	@Summary		List every track with its address
//	@Tags			music
//	@Produce		json
//	@Param			mood	query		string	false	"Filter by mood"
//	@Success		200		{object}	TrackListResponse
//	@Failure		400		{object}	errResponse
//	@Router			/music [get]
func (h *Handler) ListTracks(w http.ResponseWriter, r *http.Request) {
	tracks, err := h.svc.Catalog(r.Context(), r.URL.Query().Get("mood"))
	if err != nil {
		writeServiceError(w, "list tracks", err)
		return
	}
	writeJSON(w, http.StatusOK, TrackListResponse{Tracks: tracks, Total: len(tracks)})
}

// Resolve handles GET /api/music/resolve.
//
//	@Summary		Pick a track for a mood and video duration
//	@Tags			music
//	@Produce		json
//	@Param			duration	query		number	true	"Video duration in seconds"
//	@Param			mood		query		string	false	"Requested mood (default chill)"
//	@Success		200			{object}	Track
//	@Failure		400			{object}	errResponse
//	@Router			/music/resolve [get]
func (h *Handler) Resolve(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	duration, err := strconv.ParseFloat(q.Get("duration"), 64)
	if err != nil {
		writeError(w, http.StatusBadRequest, "query parameter 'duration' must be a number")
		return
	}
	track, err := h.svc.Resolve(r.Context(), duration, q.Get("mood"))
	if err != nil {
		writeServiceError(w, "resolve", err)
		return
	}
	writeJSON(w, http.StatusOK, track)
}

// Stats handles GET /api/music/stats.
//
//	@Summary		Library statistics by origin and mood
//	@Tags			music
//	@Produce		json
//	@Success		200	{object}	models.LibraryStats
//	@Router			/music/stats [get]
func (h *Handler) Stats(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Stats(r.Context()))
}

// Moods handles GET /api/music/moods.
//
//	@Summary		List moods with their fallbacks
//	@Tags			music
//	@Produce		json
//	@Success		200	{object}	MoodListResponse
//	@Router			/music/moods [get]
func (h *Handler) Moods(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, MoodListResponse{Moods: h.svc.Moods(r.Context())})
}

// History handles GET /api/music/history.
//
//	@Summary		Recent resolutions, newest first
//	@Tags			music
//	@Produce		json
//	@Param			limit	query		int	false	"Max entries"
//	@Success		200		{object}	HistoryResponse
//	@Security		BearerAuth
//	@Router			/music/history [get]
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	limit, _ := strconv.Atoi(r.URL.Query().Get("limit"))
	entries, err := h.svc.History(r.Context(), limit)
	if err != nil {
		writeServiceError(w, "history", err)
		return
	}
	writeJSON(w, http.StatusOK, HistoryResponse{Entries: entries})
}

// Reload handles POST /api/music/reload.
//
//	@Summary		Rescan the expanded library
//	@Tags			music
//	@Produce		json
//	@Success		200	{object}	models.LibraryStats
//	@Security		BearerAuth
//	@Router			/music/reload [post]
func (h *Handler) Reload(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, h.svc.Reload(r.Context()))
}

// Verify handles POST /api/music/verify.
//
//	@Summary		Report built-in tracks missing from disk
//	@Tags			music
//	@Produce		json
//	@Success		200	{object}	VerifyResponse
//	@Security		BearerAuth
//	@Router			/music/verify [post]
func (h *Handler) Verify(w http.ResponseWriter, r *http.Request) {
	missing := h.svc.Verify(r.Context())
	if missing == nil {
		missing = []string{}
	}
	writeJSON(w, http.StatusOK, VerifyResponse{Missing: missing})
}

func writeServiceError(w http.ResponseWriter, op string, err error) {
	switch {
	case errors.Is(err, apperr.ErrInvalidMood), errors.Is(err, apperr.ErrInvalidDuration):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, apperr.ErrNotFound):
		writeError(w, http.StatusNotFound, "not found")
	default:
		slog.Error(op+" failed", slog.String("error", err.Error()))
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}
