package match

import (
	"testing"

	"github.com/desertthunder/crossfade/internal/models"
)

func yesterday() models.Track {
	return models.Track{
		ID:         "src-1",
		Title:      "Yesterday",
		Artist:     "The Beatles",
		Artists:    []string{"The Beatles"},
		Album:      "Help!",
		DurationMS: 185000,
		ISRC:       "GBAYE0601498",
	}
}

func TestScoreIdenticalMetadata(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()
	candidate := source
	candidate.ID = "dst-1"

	score := scorer.Score(source, candidate)

	if score.Total != 100 {
		t.Errorf("identical metadata total = %v, want 100", score.Total)
	}
	if score.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %v, want high", score.Confidence)
	}
	if score.Vetoed {
		t.Error("identical metadata should not be vetoed")
	}
}

func TestScoreDurationBonusTiers(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()

	tc := []struct {
		name      string
		diffMS    int
		wantBonus float64
	}{
		{name: "within full bonus tier", diffMS: 1500, wantBonus: 10},
		{name: "exact full bonus cutoff", diffMS: 2000, wantBonus: 10},
		{name: "partial tier", diffMS: 3000, wantBonus: 5},
		{name: "no bonus when unknown", diffMS: -185000, wantBonus: 0},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			candidate := source
			candidate.DurationMS = source.DurationMS + tt.diffMS

			score := scorer.Score(source, candidate)
			if score.Duration != tt.wantBonus {
				t.Errorf("duration bonus = %v, want %v", score.Duration, tt.wantBonus)
			}
		})
	}
}

func TestScoreNearIdenticalDurationStaysHigh(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()
	candidate := source
	candidate.DurationMS = source.DurationMS + 1500

	score := scorer.Score(source, candidate)

	if score.Duration != 10 {
		t.Errorf("duration bonus = %v, want full bonus 10", score.Duration)
	}
	if score.Confidence != models.ConfidenceHigh {
		t.Errorf("confidence = %v, want high", score.Confidence)
	}
}

func TestScoreDurationVeto(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()
	candidate := source
	candidate.DurationMS = source.DurationMS + 4000 // past the 3500ms cutoff

	score := scorer.Score(source, candidate)

	if score.Total != 0 {
		t.Errorf("vetoed total = %v, want 0", score.Total)
	}
	if !score.Vetoed {
		t.Error("expected Vetoed to be set")
	}
	if score.Confidence != models.ConfidenceVeryLow {
		t.Errorf("vetoed confidence = %v, want very_low", score.Confidence)
	}
	// The breakdown survives the veto for diagnostics.
	if score.Title != 40 {
		t.Errorf("title feature = %v, want 40", score.Title)
	}
}

func TestScoreLenientProfileSkipsVeto(t *testing.T) {
	scorer := NewScorer(LenientProfile())
	source := yesterday()
	candidate := source
	candidate.DurationMS = source.DurationMS + 60000

	score := scorer.Score(source, candidate)
	if score.Vetoed {
		t.Error("lenient profile should not veto on duration")
	}
	if score.Total == 0 {
		t.Error("lenient profile should keep similarity-driven score")
	}
}

func TestScoreVariantMismatchPenalty(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()

	live := source
	live.Title = "Yesterday - Live at Shea Stadium"

	studio := scorer.Score(source, source)
	mismatch := scorer.Score(source, live)

	if mismatch.Variant != -15 {
		t.Errorf("variant penalty = %v, want -15", mismatch.Variant)
	}
	if studio.Variant != 15 {
		t.Errorf("variant agreement bonus = %v, want 15", studio.Variant)
	}
	if mismatch.Total >= studio.Total {
		t.Errorf("live mismatch (%v) should score below studio match (%v)", mismatch.Total, studio.Total)
	}
}

func TestScoreVariantAgreementBothLive(t *testing.T) {
	scorer := NewScorer(StrictProfile())

	source := yesterday()
	source.Title = "Yesterday (Live)"
	candidate := source
	candidate.ID = "dst-live"

	score := scorer.Score(source, candidate)
	if score.Variant != 15 {
		t.Errorf("both-live variant bonus = %v, want 15", score.Variant)
	}
}

func TestScoreExplicitFlagAgreement(t *testing.T) {
	scorer := NewScorer(StrictProfile())

	source := yesterday()
	source.Explicit = true
	clean := source
	clean.Explicit = false

	score := scorer.Score(source, clean)
	if score.Variant != -15 {
		t.Errorf("explicit/clean mismatch variant = %v, want -15", score.Variant)
	}
}

func TestScoreClampedToHundred(t *testing.T) {
	scorer := NewScorer(StrictProfile())
	source := yesterday()

	score := scorer.Score(source, source)
	if score.Total > 100 {
		t.Errorf("total %v exceeds clamp", score.Total)
	}
}

func TestScoreReorderedJointCredit(t *testing.T) {
	scorer := NewScorer(StrictProfile())

	source := yesterday()
	source.Artist = "Simon & Garfunkel"
	source.Artists = []string{"Simon", "Garfunkel"}

	candidate := source
	candidate.Artist = "Garfunkel & Simon"
	candidate.Artists = []string{"Garfunkel", "Simon"}

	score := scorer.Score(source, candidate)
	if score.Artist != 30 {
		t.Errorf("reordered joint credit artist feature = %v, want full 30", score.Artist)
	}
}

func TestProfileByName(t *testing.T) {
	tc := []struct {
		name    string
		profile string
		want    string
		wantErr bool
	}{
		{name: "default is strict", profile: "", want: "strict"},
		{name: "strict", profile: "strict", want: "strict"},
		{name: "lenient", profile: "lenient", want: "lenient"},
		{name: "artist only", profile: "artist_only", want: "artist_only"},
		{name: "unknown", profile: "aggressive", wantErr: true},
	}

	for _, tt := range tc {
		t.Run(tt.name, func(t *testing.T) {
			p, err := ProfileByName(tt.profile)
			if tt.wantErr {
				if err == nil {
					t.Fatal("expected error for unknown profile")
				}
				return
			}
			if err != nil {
				t.Fatalf("ProfileByName(%q) error: %v", tt.profile, err)
			}
			if p.Name != tt.want {
				t.Errorf("profile name = %q, want %q", p.Name, tt.want)
			}
		})
	}
}
