package repositories

import (
	"context"
	"testing"
	"time"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

func newTestRepo(t *testing.T) *ResolutionCacheRepository {
	t.Helper()
	db, err := shared.NewDatabase(":memory:")
	if err != nil {
		t.Fatalf("NewDatabase() error = %v", err)
	}
	t.Cleanup(func() { db.Close() })

	repo, err := NewResolutionCacheRepository(db)
	if err != nil {
		t.Fatalf("NewResolutionCacheRepository() error = %v", err)
	}
	return repo
}

func cachedCandidate(id string) models.CandidateTrack {
	return models.CandidateTrack{
		Track: models.Track{
			ID:         id,
			Title:      "Yesterday",
			Artist:     "The Beatles",
			Album:      "Help!",
			DurationMS: 185000,
			ISRC:       "GBAYE0601498",
		},
		Service: "Apple Music",
		Score:   models.MatchScore{Total: 100, Confidence: models.ConfidenceHigh},
	}
}

func TestResolutionCacheRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-123")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "Apple Music", "GBAYE0601498")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got == nil {
		t.Fatal("Get() = nil, want cached candidate")
	}
	if got.Track.ID != "am-123" {
		t.Errorf("Track.ID = %q, want %q", got.Track.ID, "am-123")
	}
	if got.Score.Confidence != models.ConfidenceHigh {
		t.Errorf("Score.Confidence = %q, want high", got.Score.Confidence)
	}
}

func TestResolutionCacheMiss(t *testing.T) {
	repo := newTestRepo(t)

	got, err := repo.Get(context.Background(), "Apple Music", "USUM71703861")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() = %+v, want nil on miss", got)
	}
}

func TestResolutionCacheKeyedByService(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-123")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "Spotify", "GBAYE0601498")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != nil {
		t.Errorf("Get() for other service = %+v, want nil", got)
	}
}

func TestResolutionCacheUpsert(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-old")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-new")); err != nil {
		t.Fatalf("second Put() error = %v", err)
	}

	got, err := repo.Get(ctx, "Apple Music", "GBAYE0601498")
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got.Track.ID != "am-new" {
		t.Errorf("Track.ID = %q, want refreshed value", got.Track.ID)
	}
}

func TestResolutionCachePurge(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-123")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	removed, err := repo.Purge(ctx, time.Hour)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 0 {
		t.Errorf("Purge(1h) removed %d fresh rows", removed)
	}

	removed, err = repo.Purge(ctx, -time.Hour)
	if err != nil {
		t.Fatalf("Purge() error = %v", err)
	}
	if removed != 1 {
		t.Errorf("Purge(-1h) removed %d rows, want 1", removed)
	}
}

func TestResolutionCacheStats(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.Put(ctx, "Apple Music", "GBAYE0601498", cachedCandidate("am-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, "Apple Music", "USUM71703861", cachedCandidate("am-2")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}
	if err := repo.Put(ctx, "Spotify", "GBAYE0601498", cachedCandidate("sp-1")); err != nil {
		t.Fatalf("Put() error = %v", err)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		t.Fatalf("Stats() error = %v", err)
	}
	if stats["Apple Music"] != 2 || stats["Spotify"] != 1 {
		t.Errorf("Stats() = %v", stats)
	}
}
