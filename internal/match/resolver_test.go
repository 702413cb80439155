package match

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

// fakeCatalog scripts per-tier responses and records the queries it saw.
type fakeCatalog struct {
	isrcResults   []models.Track
	isrcErr       error
	searchResults map[string][]models.Track // keyed by query
	searchErr     error
	queries       []string
}

func (f *fakeCatalog) Name() string { return "fake" }

func (f *fakeCatalog) LookupISRC(ctx context.Context, isrc string) ([]models.Track, error) {
	f.queries = append(f.queries, "isrc:"+isrc)
	return f.isrcResults, f.isrcErr
}

func (f *fakeCatalog) SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error) {
	f.queries = append(f.queries, query)
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return f.searchResults[query], nil
}

func newTestResolver(catalog CatalogSearcher) *Resolver {
	logger := shared.NewLogger(io.Discard)
	return NewResolver(catalog, NewScorer(StrictProfile()), DefaultChainConfig(), logger)
}

func TestResolveISRCExactMatch(t *testing.T) {
	source := yesterday()
	candidate := source
	candidate.ID = "dst-1"

	catalog := &fakeCatalog{isrcResults: []models.Track{candidate}}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if result.Match == nil {
		t.Fatal("expected a match")
	}
	if result.Match.Track.ID != "dst-1" {
		t.Errorf("matched track id = %q, want dst-1", result.Match.Track.ID)
	}
	if result.MatchMethod != "ISRC" {
		t.Errorf("match method = %q, want ISRC", result.MatchMethod)
	}
	if result.Match.Score.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %v, want high", result.Match.Score.Confidence)
	}
	if result.NeedsReview || result.Unavailable {
		t.Error("auto-accepted result should not need review or be unavailable")
	}
	if len(result.Attempts) != 1 || result.Attempts[0].Tier != TierISRC {
		t.Errorf("attempts = %+v, want single isrc attempt", result.Attempts)
	}
	if len(catalog.queries) != 1 {
		t.Errorf("expected chain to stop after ISRC tier, queries = %v", catalog.queries)
	}
}

func TestResolveSkipsISRCTierWithoutCode(t *testing.T) {
	source := yesterday()
	source.ISRC = ""

	candidate := source
	candidate.ID = "dst-1"

	catalog := &fakeCatalog{
		searchResults: map[string][]models.Track{
			preciseQuery(source): {candidate},
		},
	}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if result.Match == nil {
		t.Fatal("expected a precise-tier match")
	}
	for _, a := range result.Attempts {
		if a.Tier == TierISRC {
			t.Error("isrc tier should be skipped when source has no ISRC")
		}
	}
}

func TestResolvePreciseTierEarlyTermination(t *testing.T) {
	source := yesterday()
	source.ISRC = ""

	// A sub-threshold but above-floor candidate: right title and artist,
	// wrong album, no duration.
	candidate := models.Track{
		ID:      "dst-amb",
		Title:   "Yesterday",
		Artist:  "The Beatles",
		Artists: []string{"The Beatles"},
		Album:   "1",
	}

	catalog := &fakeCatalog{
		searchResults: map[string][]models.Track{
			preciseQuery(source): {candidate},
		},
	}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if !result.NeedsReview {
		t.Fatal("expected needs-review outcome")
	}
	if len(result.Alternatives) == 0 {
		t.Fatal("needs-review result must carry alternatives")
	}
	if result.Match != nil {
		t.Error("ambiguous result should not set Match")
	}

	// Sub-threshold alternatives from the precise tier terminate the chain:
	// flexible and artist tiers never run.
	for _, a := range result.Attempts {
		if a.Tier == TierFlexible || a.Tier == TierArtist {
			t.Errorf("tier %s should have been skipped, attempts = %+v", a.Tier, result.Attempts)
		}
	}
}

func TestResolveUnavailable(t *testing.T) {
	source := yesterday()

	catalog := &fakeCatalog{searchResults: map[string][]models.Track{}}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if !result.Unavailable {
		t.Fatal("expected unavailable outcome")
	}
	if result.Match != nil || len(result.Alternatives) != 0 {
		t.Error("unavailable result must carry no match and no alternatives")
	}
	if len(result.Attempts) != 4 {
		t.Errorf("expected all 4 tiers attempted, got %d: %+v", len(result.Attempts), result.Attempts)
	}
}

func TestResolveFailSoftOnTierErrors(t *testing.T) {
	source := yesterday()
	candidate := source
	candidate.ID = "dst-1"

	// ISRC lookup fails; the chain advances to the precise tier.
	catalog := &fakeCatalog{
		isrcErr: errors.New("catalog timeout"),
		searchResults: map[string][]models.Track{
			preciseQuery(source): {candidate},
		},
	}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}

	if result.Match == nil {
		t.Fatal("expected precise tier to recover from isrc failure")
	}
	if result.MatchMethod != "search" {
		t.Errorf("match method = %q, want search", result.MatchMethod)
	}
}

func TestResolveAllTiersFailIsUnavailable(t *testing.T) {
	source := yesterday()

	catalog := &fakeCatalog{
		isrcErr:   errors.New("boom"),
		searchErr: errors.New("boom"),
	}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !result.Unavailable {
		t.Error("exhausting all tiers on errors should be unavailable, not an error")
	}
}

func TestResolveContextCancellation(t *testing.T) {
	source := yesterday()
	catalog := &fakeCatalog{}
	resolver := newTestResolver(catalog)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := resolver.Resolve(ctx, source)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Resolve with cancelled context returned %v, want context.Canceled", err)
	}
}

func TestResolveAlternativesCapped(t *testing.T) {
	source := yesterday()
	source.ISRC = ""

	// 15 plausible but ambiguous candidates, all above the flexible floor.
	var pool []models.Track
	for i := 0; i < 15; i++ {
		c := models.Track{
			ID:      "dst-" + string(rune('a'+i)),
			Title:   "Yesterday",
			Artist:  "The Beatles",
			Artists: []string{"The Beatles"},
			Album:   "Anthology 2",
		}
		pool = append(pool, c)
	}

	catalog := &fakeCatalog{
		searchResults: map[string][]models.Track{
			preciseQuery(source): pool,
		},
	}
	resolver := newTestResolver(catalog)

	result, err := resolver.Resolve(context.Background(), source)
	if err != nil {
		t.Fatalf("Resolve error: %v", err)
	}
	if !result.NeedsReview {
		t.Fatal("expected needs-review outcome")
	}
	if len(result.Alternatives) > DefaultChainConfig().MaxAlternatives {
		t.Errorf("alternatives = %d, want at most %d", len(result.Alternatives), DefaultChainConfig().MaxAlternatives)
	}
}
