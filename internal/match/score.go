package match

import (
	"fmt"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

// DurationTier grants Bonus points when the absolute duration difference is
// at most MaxDiffMS. Tiers are checked smallest first.
type DurationTier struct {
	MaxDiffMS int
	Bonus     float64
}

// Profile is a named weight scheme for the scorer. Earlier versions of this
// tool carried three separately-tuned scorers for different catalog pairs;
// they are consolidated here into named profiles over a single implementation.
type Profile struct {
	Name            string
	TitleWeight     float64
	ArtistWeight    float64
	AlbumWeight     float64
	DurationTiers   []DurationTier
	DurationVetoMS  int // 0 disables the veto
	VariantBonus    float64
	VariantPenalty  float64
	ExactAlbumBonus float64
}

// StrictProfile is the default scheme: title 40 / artist 30 / album 10,
// duration bonus tiers at 2s/5s/10s, and a hard duration veto at 3500ms.
//
// The artist weight is fixed at 30 for every direction pair.
func StrictProfile() Profile {
	return Profile{
		Name:         "strict",
		TitleWeight:  40,
		ArtistWeight: 30,
		AlbumWeight:  10,
		DurationTiers: []DurationTier{
			{MaxDiffMS: 2000, Bonus: 10},
			{MaxDiffMS: 5000, Bonus: 5},
			{MaxDiffMS: 10000, Bonus: 2},
		},
		DurationVetoMS:  3500,
		VariantBonus:    15,
		VariantPenalty:  15,
		ExactAlbumBonus: 5,
	}
}

// LenientProfile drops the duration veto and softens the variant penalty,
// for catalogs with unreliable duration metadata.
func LenientProfile() Profile {
	p := StrictProfile()
	p.Name = "lenient"
	p.DurationVetoMS = 0
	p.VariantPenalty = 10
	return p
}

// ArtistOnlyProfile weights almost entirely on artist similarity. Used by the
// last-resort search tier.
func ArtistOnlyProfile() Profile {
	return Profile{
		Name:         "artist_only",
		TitleWeight:  10,
		ArtistWeight: 80,
		AlbumWeight:  0,
		DurationTiers: []DurationTier{
			{MaxDiffMS: 5000, Bonus: 5},
		},
		VariantBonus:   10,
		VariantPenalty: 10,
	}
}

// ProfileByName looks up a named weight profile.
func ProfileByName(name string) (Profile, error) {
	switch name {
	case "", "strict":
		return StrictProfile(), nil
	case "lenient":
		return LenientProfile(), nil
	case "artist_only":
		return ArtistOnlyProfile(), nil
	default:
		return Profile{}, fmt.Errorf("%w: unknown scoring profile %q", shared.ErrInvalidConfig, name)
	}
}

// Scorer computes weighted-feature match scores under one profile.
type Scorer struct {
	profile Profile
}

// NewScorer creates a Scorer with the given profile.
func NewScorer(profile Profile) *Scorer {
	return &Scorer{profile: profile}
}

// Profile returns the scorer's weight profile.
func (s *Scorer) Profile() Profile {
	return s.profile
}

// Score computes the match score for a candidate against a source track.
//
// Totals are clamped to [0,100] after summing. A duration difference past the
// profile's veto cutoff forces the total to 0 regardless of other features;
// the per-feature breakdown is preserved for diagnostics.
func (s *Scorer) Score(source, candidate models.Track) models.MatchScore {
	p := s.profile

	score := models.MatchScore{
		Title:  StringSimilarity(source.Title, candidate.Title) * p.TitleWeight,
		Artist: artistSimilarity(source, candidate) * p.ArtistWeight,
		Album:  StringSimilarity(source.Album, candidate.Album) * p.AlbumWeight,
	}

	vetoed := false
	if source.DurationMS > 0 && candidate.DurationMS > 0 {
		diff := source.DurationMS - candidate.DurationMS
		if diff < 0 {
			diff = -diff
		}
		if p.DurationVetoMS > 0 && diff > p.DurationVetoMS {
			vetoed = true
		}
		for _, tier := range p.DurationTiers {
			if diff <= tier.MaxDiffMS {
				score.Duration = tier.Bonus
				break
			}
		}
	}

	if variantsAgree(source, candidate) {
		score.Variant = p.VariantBonus
	} else {
		score.Variant = -p.VariantPenalty
	}

	total := score.Title + score.Artist + score.Album + score.Duration + score.Variant

	if source.Album != "" && Normalize(source.Album) == Normalize(candidate.Album) {
		total += p.ExactAlbumBonus
	}

	if total > 100 {
		total = 100
	}
	if total < 0 {
		total = 0
	}
	if vetoed {
		total = 0
		score.Vetoed = true
	}

	score.Total = total
	score.Confidence = models.BucketScore(total)
	return score
}

// artistSimilarity takes the best pairwise similarity across both tracks'
// artist lists, falling back to the primary artist strings. Token-set overlap
// is considered alongside edit distance so reordered joint credits
// ("A & B" vs "B & A") still match.
func artistSimilarity(source, candidate models.Track) float64 {
	srcArtists := source.Artists
	if len(srcArtists) == 0 && source.Artist != "" {
		srcArtists = []string{source.Artist}
	}
	candArtists := candidate.Artists
	if len(candArtists) == 0 && candidate.Artist != "" {
		candArtists = []string{candidate.Artist}
	}

	if len(srcArtists) == 0 || len(candArtists) == 0 {
		return 0
	}

	var best float64
	for _, a := range srcArtists {
		for _, b := range candArtists {
			if sim := StringSimilarity(a, b); sim > best {
				best = sim
			}
		}
	}

	joint := JaccardSimilarity(source.Artist, candidate.Artist)
	if joint > best {
		best = joint
	}

	return best
}

// variantTags classifies a track, folding the catalog explicit flag into the
// tag set so "explicit" agreement is checked even when the title omits it.
func variantTags(t models.Track) map[VariantTag]bool {
	set := make(map[VariantTag]bool)
	for _, tag := range Classify(t.Title, t.Album) {
		if tag != VariantOriginal {
			set[tag] = true
		}
	}
	if t.Explicit {
		set[VariantExplicit] = true
	}
	return set
}

// variantsAgree reports whether two tracks carry the same edition tags.
func variantsAgree(source, candidate models.Track) bool {
	a, b := variantTags(source), variantTags(candidate)
	if len(a) != len(b) {
		return false
	}
	for tag := range a {
		if !b[tag] {
			return false
		}
	}
	return true
}
