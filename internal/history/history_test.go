package history

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/starford/moodmusic/internal/models"
	"github.com/starford/moodmusic/internal/mood"
)

func testDB(t *testing.T) *DB {
	t.Helper()
	f, err := os.CreateTemp("", "moodmusic-history-*.db")
	if err != nil {
		t.Fatal(err)
	}
	f.Close()
	t.Cleanup(func() { os.Remove(f.Name()) })

	db, err := Open(f.Name())
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func TestSchemaCreation(t *testing.T) {
	db := testDB(t)
	var count int
	if err := db.conn.QueryRow(`SELECT count(*) FROM resolutions`).Scan(&count); err != nil {
		t.Fatalf("resolutions table missing: %v", err)
	}
}

func TestRecordFillsIDAndTime(t *testing.T) {
	db := testDB(t)
	got, err := db.Record(context.Background(), models.HistoryEntry{
		Requested: mood.Happy,
		Mood:      mood.Happy,
		File:      "A.mp3",
		Origin:    models.OriginStatic,
		Tier:      "static",
		Duration:  60,
	})
	if err != nil {
		t.Fatalf("Record: %v", err)
	}
	if got.ID == "" {
		t.Error("ID not assigned")
	}
	if got.ResolvedAt.IsZero() {
		t.Error("ResolvedAt not assigned")
	}
}

func TestRecentNewestFirst(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	base := time.Date(2026, 1, 1, 12, 0, 0, 0, time.UTC)
	files := []string{"first.mp3", "second.mp3", "third.mp3"}
	for i, f := range files {
		_, err := db.Record(ctx, models.HistoryEntry{
			Requested:  mood.Sad,
			Mood:       mood.Sad,
			File:       f,
			Origin:     models.OriginStatic,
			Tier:       "static",
			ResolvedAt: base.Add(time.Duration(i) * time.Minute),
		})
		if err != nil {
			t.Fatal(err)
		}
	}

	got, err := db.Recent(ctx, 2)
	if err != nil {
		t.Fatalf("Recent: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("len = %d, want 2", len(got))
	}
	if got[0].File != "third.mp3" || got[1].File != "second.mp3" {
		t.Errorf("order = %s, %s", got[0].File, got[1].File)
	}
	if got[0].Mood != mood.Sad || got[0].Origin != models.OriginStatic {
		t.Errorf("entry = %+v", got[0])
	}
}

func TestCountByMood(t *testing.T) {
	db := testDB(t)
	ctx := context.Background()
	for _, m := range []mood.Mood{mood.Dark, mood.Dark, mood.Chill} {
		if _, err := db.Record(ctx, models.HistoryEntry{Requested: m, Mood: m, File: "x.mp3", Origin: models.OriginStatic, Tier: "static"}); err != nil {
			t.Fatal(err)
		}
	}
	counts, err := db.CountByMood(ctx)
	if err != nil {
		t.Fatalf("CountByMood: %v", err)
	}
	if counts[mood.Dark] != 2 || counts[mood.Chill] != 1 {
		t.Errorf("counts = %v", counts)
	}
}
