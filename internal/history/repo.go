package history

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/mood"
)

// Recorder is the subset of DB used by the music service.
type Recorder interface {
	Record(ctx context.Context, e models.HistoryEntry) (models.HistoryEntry, error)
	Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error)
	CountByMood(ctx context.Context) (map[mood.Mood]int, error)
}

var _ Recorder = (*DB)(nil)

// Record stores e, filling in the ID and timestamp when absent.
func (db *DB) Record(ctx context.Context, e models.HistoryEntry) (models.HistoryEntry, error) {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.ResolvedAt.IsZero() {
		e.ResolvedAt = time.Now().UTC()
	}
	_, err := db.conn.ExecContext(ctx, `
		INSERT INTO resolutions (id, requested, mood, file, origin, tier, duration, resolved_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, e.ID, string(e.Requested), string(e.Mood), e.File, string(e.Origin), e.Tier, e.Duration, e.ResolvedAt)
	if err != nil {
		return models.HistoryEntry{}, fmt.Errorf("history: record: %w", err)
	}
	return e, nil
}

// Recent returns up to limit entries, newest first.
func (db *DB) Recent(ctx context.Context, limit int) ([]models.HistoryEntry, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := db.conn.QueryContext(ctx, `
		SELECT id, requested, mood, file, origin, tier, duration, resolved_at
		FROM resolutions
		ORDER BY resolved_at DESC, rowid DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("history: recent: %w", err)
	}
	defer rows.Close()

	var out []models.HistoryEntry
	for rows.Next() {
		var (
			e                    models.HistoryEntry
			requested, m, origin string
		)
		if err := rows.Scan(&e.ID, &requested, &m, &e.File, &origin, &e.Tier, &e.Duration, &e.ResolvedAt); err != nil {
			return nil, err
		}
		e.Requested = mood.Mood(requested)
		e.Mood = mood.Mood(m)
		e.Origin = models.Origin(origin)
		out = append(out, e)
	}
	return out, rows.Err()
}

// CountByMood returns how often each mood was served.
func (db *DB) CountByMood(ctx context.Context) (map[mood.Mood]int, error) {
	rows, err := db.conn.QueryContext(ctx, `SELECT mood, count(*) FROM resolutions GROUP BY mood`)
	if err != nil {
		return nil, fmt.Errorf("history: count by mood: %w", err)
	}
	defer rows.Close()

	out := make(map[mood.Mood]int)
	for rows.Next() {
		var (
			m string
			n int
		)
		if err := rows.Scan(&m, &n); err != nil {
			return nil, err
		}
		out[mood.Mood(m)] = n
	}
	return out, rows.Err()
}
