// Package musicservice coordinates the music library, the selection
// history and event publishing for the transports.
package musicservice

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"github.com/starford/moodmusic/internal/apperr"
	"github.com/starford/moodmusic/internal/history"
	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/mood"
	"github.com/starford/moodmusic/internal/music"
	"github.com/starford/moodmusic/internal/sse"
	"github.com/starford/moodmusic/internal/storage"
)

// MaxDuration is the longest video duration accepted, in seconds.
const MaxDuration = 3600.0

// Publisher receives service events.
type Publisher interface {
	Publish(event sse.Event)
}

// Service coordinates library, history and event operations.
type Service struct {
	lib    *music.Library
	hist   history.Recorder // optional
	events Publisher        // optional
	logger *slog.Logger
}

// NewService creates a new music service. hist and events may be nil.
func NewService(lib *music.Library, hist history.Recorder, events Publisher, logger *slog.Logger) *Service {
	if logger == nil {
		logger = slog.Default()
	}
	return &Service{lib: lib, hist: hist, events: events, logger: logger}
}

// ValidateDuration checks a requested duration in seconds.
func ValidateDuration(d float64) error {
	err := validation.Validate(d,
		validation.Required,
		validation.Min(0.0).Exclusive(),
		validation.Max(MaxDuration),
	)
	if err != nil {
		return fmt.Errorf("%w: %v", apperr.ErrInvalidDuration, err)
	}
	return nil
}

// Resolve validates the request, picks a track and records it.
// An empty mood selects the default mood.
func (s *Service) Resolve(ctx context.Context, duration float64, moodName string) (models.Track, error) {
	if err := ValidateDuration(duration); err != nil {
		return models.Track{}, err
	}
	m, err := mood.Parse(moodName)
	if err != nil {
		return models.Track{}, err
	}

	track, res := s.lib.Current().ResolveDetailed(duration, m)

	if s.hist != nil {
		_, recErr := s.hist.Record(ctx, models.HistoryEntry{
			Requested: res.Requested,
			Mood:      track.Mood,
			File:      track.File,
			Origin:    track.Origin,
			Tier:      string(res.Tier),
			Duration:  duration,
		})
		if recErr != nil {
			s.logger.Warn("record resolution failed", slog.String("error", recErr.Error()))
		}
	}
	s.publish(sse.TypeTrackResolved, track)
	return track, nil
}

// Catalog lists every track, optionally filtered by mood.
func (s *Service) Catalog(_ context.Context, moodName string) ([]models.Track, error) {
	m, err := mood.Parse(moodName)
	if err != nil {
		return nil, err
	}
	all := s.lib.Current().Catalog()
	if m == "" {
		return all, nil
	}
	out := []models.Track{}
	for _, t := range all {
		if t.Mood == m {
			out = append(out, t)
		}
	}
	return out, nil
}

// Stats summarizes the current library snapshot.
func (s *Service) Stats(_ context.Context) models.LibraryStats {
	return s.lib.Current().Stats()
}

// Moods lists every mood with its fallbacks, track count and how often
// it has been served.
func (s *Service) Moods(ctx context.Context) []models.MoodInfo {
	e := s.lib.Current()
	stats := e.Stats()
	var served map[mood.Mood]int
	if s.hist != nil {
		var err error
		if served, err = s.hist.CountByMood(ctx); err != nil {
			s.logger.Warn("count served moods failed", slog.String("error", err.Error()))
		}
	}
	out := make([]models.MoodInfo, 0, len(mood.All()))
	for _, m := range mood.All() {
		out = append(out, models.MoodInfo{
			Mood:      m,
			Fallbacks: e.Neighbors(m),
			Tracks:    stats.ByMood[m],
			Served:    served[m],
		})
	}
	return out
}

// History returns recent resolutions, newest first.
func (s *Service) History(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if s.hist == nil {
		return []models.HistoryEntry{}, nil
	}
	entries, err := s.hist.Recent(ctx, limit)
	if err != nil {
		return nil, err
	}
	if entries == nil {
		entries = []models.HistoryEntry{}
	}
	return entries, nil
}

// Reload rescans the library and returns the new stats.
func (s *Service) Reload(_ context.Context) models.LibraryStats {
	stats := s.lib.Reload().Stats()
	s.logger.Info("library reloaded",
		slog.Int("original", stats.Original),
		slog.Int("expanded", stats.Expanded))
	s.publish(sse.TypeLibraryReloaded, stats)
	return stats
}

// Verify reports built-in tracks missing from disk.
func (s *Service) Verify(_ context.Context) []string {
	return s.lib.Current().VerifyAssetsPresent()
}

// AssetPath returns the absolute path of a servable audio file. file is
// the decoded name as carried in a track URL.
func (s *Service) AssetPath(origin models.Origin, file string) (string, error) {
	e := s.lib.Current()
	root := e.Root()
	if origin == models.OriginExpanded {
		root = e.ExpandedRoot()
	}
	if file == "" || !storage.IsAudio(file) {
		return "", apperr.ErrNotFound
	}
	fs, err := storage.NewFS(root)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", apperr.ErrNotFound
		}
		return "", err
	}
	abs, err := fs.Abs(file)
	if err != nil {
		return "", fmt.Errorf("%w: %v", apperr.ErrNotFound, err)
	}
	if !fs.Exists(file) {
		return "", apperr.ErrNotFound
	}
	return abs, nil
}

func (s *Service) publish(kind string, data any) {
	if s.events != nil {
		s.events.Publish(sse.Event{Type: kind, Data: data})
	}
}
