package match

import (
	"context"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crossfade/internal/models"
)

// Resolver resolves one source track against a destination catalog by running
// the tiered search chain and deciding the terminal outcome.
type Resolver struct {
	catalog      CatalogSearcher
	scorer       *Scorer
	artistScorer *Scorer
	cfg          ChainConfig
	logger       *log.Logger
}

// NewResolver creates a Resolver over the given catalog.
//
// The scorer is used by tiers 1-3; the artist-only tier scores with
// [ArtistOnlyProfile] regardless of the main profile.
func NewResolver(catalog CatalogSearcher, scorer *Scorer, cfg ChainConfig, logger *log.Logger) *Resolver {
	return &Resolver{
		catalog:      catalog,
		scorer:       scorer,
		artistScorer: NewScorer(ArtistOnlyProfile()),
		cfg:          cfg,
		logger:       logger,
	}
}

// Resolve runs the search chain for one track. Tiers execute strictly
// sequentially; a tier's network failure is logged and the chain advances
// (fail-soft). Exhausting all tiers is the normal "unavailable" outcome, not
// an error. The only returned error is context cancellation.
func (r *Resolver) Resolve(ctx context.Context, source models.Track) (models.ResolutionResult, error) {
	result := models.ResolutionResult{Source: source}

	tiers := []func(context.Context, models.Track) (tierOutcome, error){
		r.isrcTier,
		r.preciseTier,
		r.flexibleTier,
		r.artistTier,
	}

	for _, tier := range tiers {
		if err := ctx.Err(); err != nil {
			return result, err
		}

		outcome, err := tier(ctx, source)
		if outcome.attempt.Tier != "" {
			result.Attempts = append(result.Attempts, outcome.attempt)
		}
		if err != nil {
			if ctx.Err() != nil {
				return result, ctx.Err()
			}
			r.logger.Warn("search tier failed",
				"tier", outcome.attempt.Tier, "track", source.Title, "err", err)
			continue
		}

		if outcome.accepted {
			if outcome.best.Score.Confidence == models.ConfidenceHigh {
				result.Match = outcome.best
				result.MatchMethod = outcome.attempt.Method
				return result, nil
			}
			result.NeedsReview = true
			result.Alternatives = outcome.alternatives
			return result, nil
		}

		if outcome.terminate && len(outcome.alternatives) > 0 {
			result.NeedsReview = true
			result.Alternatives = outcome.alternatives
			return result, nil
		}
	}

	result.Unavailable = true
	return result, nil
}

// isrcTier queries by ISRC code, the gold-standard key. Skipped when the
// source carries no ISRC.
func (r *Resolver) isrcTier(ctx context.Context, source models.Track) (tierOutcome, error) {
	if source.ISRC == "" {
		return tierOutcome{}, nil
	}

	raw, err := r.catalog.LookupISRC(ctx, source.ISRC)
	attempt := models.SearchAttempt{Tier: TierISRC, Method: "ISRC", Query: source.ISRC, ResultCount: len(raw)}
	if err != nil {
		return tierOutcome{attempt: attempt}, err
	}

	candidates := scoreAndRank(r.scorer, r.catalog.Name(), source, raw)
	out := tierOutcome{attempt: attempt}
	if len(candidates) == 0 {
		return out, nil
	}

	best := candidates[0]
	if best.Score.Total >= r.cfg.ISRCAccept {
		out.accepted = true
		out.best = &best
		out.alternatives = aboveFloor(candidates, r.cfg.ISRCFloor, r.cfg.MaxAlternatives)
	}
	return out, nil
}

// preciseTier searches on normalized name + artist + album.
func (r *Resolver) preciseTier(ctx context.Context, source models.Track) (tierOutcome, error) {
	query := preciseQuery(source)
	raw, err := r.catalog.SearchTracks(ctx, query, r.cfg.PreciseLimit)
	attempt := models.SearchAttempt{Tier: TierPrecise, Method: "search", Query: query, ResultCount: len(raw)}
	if err != nil {
		return tierOutcome{attempt: attempt}, err
	}

	candidates := scoreAndRank(r.scorer, r.catalog.Name(), source, raw)
	out := tierOutcome{attempt: attempt}
	if len(candidates) == 0 {
		return out, nil
	}

	best := candidates[0]
	if best.Score.Total >= r.cfg.PreciseAccept {
		out.accepted = true
		out.best = &best
		out.alternatives = aboveFloor(candidates, r.cfg.ISRCFloor, r.cfg.MaxAlternatives)
		return out, nil
	}

	// Sub-threshold candidates still short-circuit the chain when any clear
	// the low-confidence floor.
	out.alternatives = aboveFloor(candidates, r.cfg.PreciseFloor, r.cfg.MaxAlternatives)
	out.terminate = len(out.alternatives) > 0
	return out, nil
}

// flexibleTier searches on name + artist only, with a larger pool and a
// lower acceptance bar.
func (r *Resolver) flexibleTier(ctx context.Context, source models.Track) (tierOutcome, error) {
	query := flexibleQuery(source)
	raw, err := r.catalog.SearchTracks(ctx, query, r.cfg.FlexibleLimit)
	attempt := models.SearchAttempt{Tier: TierFlexible, Method: "search", Query: query, ResultCount: len(raw)}
	if err != nil {
		return tierOutcome{attempt: attempt}, err
	}

	candidates := scoreAndRank(r.scorer, r.catalog.Name(), source, raw)
	out := tierOutcome{attempt: attempt}
	if len(candidates) == 0 {
		return out, nil
	}

	best := candidates[0]
	if best.Score.Total >= r.cfg.FlexibleAccept {
		out.accepted = true
		out.best = &best
		out.alternatives = aboveFloor(candidates, r.cfg.FlexibleFloor, r.cfg.MaxAlternatives)
		return out, nil
	}

	out.alternatives = aboveFloor(candidates, r.cfg.FlexibleFloor, r.cfg.MaxAlternatives)
	out.terminate = len(out.alternatives) > 0
	return out, nil
}

// artistTier is the last resort: an artist-only query scored almost entirely
// on artist similarity.
func (r *Resolver) artistTier(ctx context.Context, source models.Track) (tierOutcome, error) {
	query := Normalize(source.Artist)
	if query == "" {
		return tierOutcome{}, nil
	}

	raw, err := r.catalog.SearchTracks(ctx, query, r.cfg.ArtistLimit)
	attempt := models.SearchAttempt{Tier: TierArtist, Method: "search", Query: query, ResultCount: len(raw)}
	if err != nil {
		return tierOutcome{attempt: attempt}, err
	}

	candidates := scoreAndRank(r.artistScorer, r.catalog.Name(), source, raw)
	out := tierOutcome{attempt: attempt}
	if len(candidates) == 0 {
		return out, nil
	}

	best := candidates[0]
	if best.Score.Total >= r.cfg.ArtistAccept {
		out.accepted = true
		out.best = &best
		out.alternatives = aboveFloor(candidates, r.cfg.FlexibleFloor, r.cfg.MaxAlternatives)
	}
	return out, nil
}
