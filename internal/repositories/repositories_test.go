package repositories

import (
	"context"
	"database/sql"
	"testing"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
)

// setupTestDB creates an in-memory SQLite database with migrations applied
func setupTestDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := shared.RunMigrations(db); err != nil {
		t.Fatalf("failed to run migrations: %v", err)
	}

	return db
}

func sampleTrack(title string) models.TrackRef {
	return models.TrackRef{
		ID:      "track-" + title,
		Title:   title,
		Artists: []string{"Artist One", "Artist Two"},
		URI:     "spotify:track:" + title,
	}
}

func TestNextSequence(t *testing.T) {
	db := setupTestDB(t)

	first, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	second, err := NextSequence(db, "tracks")
	if err != nil {
		t.Fatalf("NextSequence failed: %v", err)
	}
	if second != first+1 {
		t.Errorf("expected consecutive sequences, got %d then %d", first, second)
	}
}

func TestTrackCacheRepository(t *testing.T) {
	t.Run("Create and GetByTerm", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		entry := models.NewCachedTrack("hello", sampleTrack("Hello"))
		if err := repo.Create(entry); err != nil {
			t.Fatalf("failed to create cache entry: %v", err)
		}
		if entry.ID() == "" {
			t.Error("entry ID should be set after creation")
		}

		got, err := repo.GetByTerm("hello")
		if err != nil {
			t.Fatalf("GetByTerm failed: %v", err)
		}
		ref := got.Track()
		if ref.Title != "Hello" {
			t.Errorf("unexpected title %q", ref.Title)
		}
		if len(ref.Artists) != 2 || ref.Artists[1] != "Artist Two" {
			t.Errorf("artists did not round-trip: %v", ref.Artists)
		}
	})

	t.Run("duplicate term rejected", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		if err := repo.Create(models.NewCachedTrack("hello", sampleTrack("Hello"))); err != nil {
			t.Fatalf("first create failed: %v", err)
		}
		if err := repo.Create(models.NewCachedTrack("hello", sampleTrack("Other"))); err == nil {
			t.Error("expected unique constraint violation")
		}
	})

	t.Run("RecordHit increments counter", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		if err := repo.Create(models.NewCachedTrack("hello", sampleTrack("Hello"))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := repo.RecordHit("hello"); err != nil {
			t.Fatalf("RecordHit failed: %v", err)
		}
		if err := repo.RecordHit("hello"); err != nil {
			t.Fatalf("RecordHit failed: %v", err)
		}

		got, err := repo.GetByTerm("hello")
		if err != nil {
			t.Fatalf("GetByTerm failed: %v", err)
		}
		if got.Hits() != 2 {
			t.Errorf("hits = %d, want 2", got.Hits())
		}
	})

	t.Run("Clear soft-deletes everything", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		for _, term := range []string{"one", "two", "three"} {
			if err := repo.Create(models.NewCachedTrack(term, sampleTrack(term))); err != nil {
				t.Fatalf("create failed: %v", err)
			}
		}

		cleared, err := repo.Clear()
		if err != nil {
			t.Fatalf("Clear failed: %v", err)
		}
		if cleared != 3 {
			t.Errorf("cleared = %d, want 3", cleared)
		}

		if _, err := repo.GetByTerm("one"); err == nil {
			t.Error("expected miss after clear")
		}
	})

	t.Run("Stats counts live entries and hits", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		if err := repo.Create(models.NewCachedTrack("one", sampleTrack("One"))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := repo.Create(models.NewCachedTrack("two", sampleTrack("Two"))); err != nil {
			t.Fatalf("create failed: %v", err)
		}
		if err := repo.RecordHit("one"); err != nil {
			t.Fatalf("RecordHit failed: %v", err)
		}

		stats, err := repo.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.Entries != 2 || stats.TotalHits != 1 {
			t.Errorf("unexpected stats %+v", stats)
		}
	})

	t.Run("List filters by term", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)

		for _, term := range []string{"one", "two"} {
			if err := repo.Create(models.NewCachedTrack(term, sampleTrack(term))); err != nil {
				t.Fatalf("create failed: %v", err)
			}
		}

		all, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(all) != 2 {
			t.Errorf("expected 2 entries, got %d", len(all))
		}

		filtered, err := repo.List(map[string]any{"term": "one"})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(filtered) != 1 || filtered[0].Term() != "one" {
			t.Errorf("unexpected filtered result %v", filtered)
		}
	})
}

func TestCacheAdapter(t *testing.T) {
	ctx := context.Background()

	t.Run("miss then put then hit", func(t *testing.T) {
		db := setupTestDB(t)
		adapter := NewCacheAdapter(NewTrackCacheRepository(db))

		if track, _ := adapter.Get(ctx, "hello"); track != nil {
			t.Error("expected miss on empty cache")
		}

		if err := adapter.Put(ctx, "hello", sampleTrack("Hello")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}

		track, err := adapter.Get(ctx, "hello")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if track == nil || track.Title != "Hello" {
			t.Errorf("unexpected track %+v", track)
		}
	})

	t.Run("put is idempotent", func(t *testing.T) {
		db := setupTestDB(t)
		adapter := NewCacheAdapter(NewTrackCacheRepository(db))

		if err := adapter.Put(ctx, "hello", sampleTrack("Hello")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if err := adapter.Put(ctx, "hello", sampleTrack("Other")); err != nil {
			t.Fatalf("second Put failed: %v", err)
		}

		track, err := adapter.Get(ctx, "hello")
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if track.Title != "Hello" {
			t.Errorf("first write should win, got %q", track.Title)
		}
	})

	t.Run("get records hits", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewTrackCacheRepository(db)
		adapter := NewCacheAdapter(repo)

		if err := adapter.Put(ctx, "hello", sampleTrack("Hello")); err != nil {
			t.Fatalf("Put failed: %v", err)
		}
		if _, err := adapter.Get(ctx, "hello"); err != nil {
			t.Fatalf("Get failed: %v", err)
		}

		stats, err := repo.Stats()
		if err != nil {
			t.Fatalf("Stats failed: %v", err)
		}
		if stats.TotalHits != 1 {
			t.Errorf("total hits = %d, want 1", stats.TotalHits)
		}
	})
}

func TestPlaylistRepository(t *testing.T) {
	newRecord := func(name string) *models.PlaylistRecord {
		return models.NewPlaylistRecord("sp-pl-1", "user1", name, "desc", "hello world", 2, 2, false, "https://example.com/pl")
	}

	t.Run("Create and Get", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		record := newRecord("greeting")
		if err := repo.Create(record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if record.ID() == "" {
			t.Error("record ID should be set after creation")
		}

		got, err := repo.Get(record.ID())
		if err != nil {
			t.Fatalf("Get failed: %v", err)
		}
		if got.Name() != "greeting" || got.Sentence() != "hello world" {
			t.Errorf("unexpected record %q %q", got.Name(), got.Sentence())
		}
	})

	t.Run("List newest first", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		for _, name := range []string{"first", "second", "third"} {
			if err := repo.Create(newRecord(name)); err != nil {
				t.Fatalf("Create failed: %v", err)
			}
		}

		records, err := repo.List(map[string]any{})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(records) != 3 {
			t.Fatalf("expected 3 records, got %d", len(records))
		}
		if records[0].Name() != "third" {
			t.Errorf("expected newest first, got %q", records[0].Name())
		}

		limited, err := repo.List(map[string]any{"limit": 2})
		if err != nil {
			t.Fatalf("List failed: %v", err)
		}
		if len(limited) != 2 {
			t.Errorf("expected 2 records with limit, got %d", len(limited))
		}
	})

	t.Run("Delete hides record", func(t *testing.T) {
		db := setupTestDB(t)
		repo := NewPlaylistRepository(db)

		record := newRecord("gone")
		if err := repo.Create(record); err != nil {
			t.Fatalf("Create failed: %v", err)
		}
		if err := repo.Delete(record.ID()); err != nil {
			t.Fatalf("Delete failed: %v", err)
		}
		if _, err := repo.Get(record.ID()); err == nil {
			t.Error("expected miss after delete")
		}
	})
}
