package match

import (
	"context"
	"sort"
	"strings"

	"github.com/desertthunder/crossfade/internal/models"
)

// CatalogSearcher is the slice of a destination catalog the search chain
// needs. internal/services implementations satisfy it.
type CatalogSearcher interface {
	// Name returns the catalog name for trace and candidate records.
	Name() string

	// SearchTracks runs a free-text search and returns up to limit ranked raw candidates.
	SearchTracks(ctx context.Context, query string, limit int) ([]models.Track, error)

	// LookupISRC queries the catalog by ISRC code.
	LookupISRC(ctx context.Context, isrc string) ([]models.Track, error)
}

// ChainConfig tunes the four-tier search chain. Acceptance thresholds
// terminate the chain when the tier's best candidate clears them; floors
// filter which sub-threshold candidates survive as review alternatives.
type ChainConfig struct {
	PreciseLimit  int // candidate pool for the precise metadata tier
	FlexibleLimit int // larger pool for the flexible tier
	ArtistLimit   int // pool for the artist-only tier

	ISRCAccept     float64
	PreciseAccept  float64
	FlexibleAccept float64
	ArtistAccept   float64

	ISRCFloor     float64 // alternatives floor for ISRC and accepted precise tiers
	PreciseFloor  float64 // floor for low-confidence precise candidates
	FlexibleFloor float64 // floor for flexible and artist-only candidates

	MaxAlternatives int
}

// DefaultChainConfig returns the standard chain tuning.
func DefaultChainConfig() ChainConfig {
	return ChainConfig{
		PreciseLimit:    5,
		FlexibleLimit:   15,
		ArtistLimit:     10,
		ISRCAccept:      75,
		PreciseAccept:   90,
		FlexibleAccept:  75,
		ArtistAccept:    60,
		ISRCFloor:       60,
		PreciseFloor:    50,
		FlexibleFloor:   40,
		MaxAlternatives: 10,
	}
}

// Tier names used in search-attempt traces.
const (
	TierISRC     = "isrc"
	TierPrecise  = "precise"
	TierFlexible = "flexible"
	TierArtist   = "artist"
)

// tierOutcome carries one tier's scored candidates back to the resolver.
type tierOutcome struct {
	attempt      models.SearchAttempt
	best         *models.CandidateTrack
	accepted     bool                    // best cleared the tier's acceptance threshold
	alternatives []models.CandidateTrack // review candidates above the tier floor
	// terminate stops the chain even without acceptance. Tiers 2 and 3 set it
	// whenever they produce any alternatives: the remaining tiers are skipped
	// in exchange for fewer catalog calls. Intentional policy, kept from the
	// original chain design.
	terminate bool
}

// scoreAndRank scores raw candidates against the source and sorts descending.
func scoreAndRank(scorer *Scorer, catalog string, source models.Track, raw []models.Track) []models.CandidateTrack {
	candidates := make([]models.CandidateTrack, 0, len(raw))
	for _, t := range raw {
		candidates = append(candidates, models.CandidateTrack{
			Track:   t,
			Service: catalog,
			Score:   scorer.Score(source, t),
		})
	}
	sort.SliceStable(candidates, func(i, j int) bool {
		return candidates[i].Score.Total > candidates[j].Score.Total
	})
	return candidates
}

// aboveFloor filters ranked candidates by a minimum total score, capped at max.
func aboveFloor(candidates []models.CandidateTrack, floor float64, max int) []models.CandidateTrack {
	var out []models.CandidateTrack
	for _, c := range candidates {
		if c.Score.Total >= floor {
			out = append(out, c)
		}
		if len(out) == max {
			break
		}
	}
	return out
}

// preciseQuery builds the tier-2 query from normalized name + artist + album.
func preciseQuery(t models.Track) string {
	return strings.TrimSpace(Normalize(t.Title) + " " + Normalize(t.Artist) + " " + Normalize(t.Album))
}

// flexibleQuery builds the tier-3 query from normalized name + artist only.
func flexibleQuery(t models.Track) string {
	return strings.TrimSpace(Normalize(t.Title) + " " + Normalize(t.Artist))
}
