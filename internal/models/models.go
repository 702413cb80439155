// package models defines the data model for the playlist transfer service
package models

// Playlist represents a music playlist from any catalog.
type Playlist struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Description string `json:"description"`
	TrackCount  int    `json:"track_count"`
	Public      bool   `json:"public"`
}

// PlaylistExport represents a playlist with all its tracks for transfer.
type PlaylistExport struct {
	Playlist Playlist `json:"playlist"`
	Tracks   []Track  `json:"tracks"`
}

// Track is a catalog-agnostic track descriptor. Per-catalog adapters
// translate raw API payloads into this shape before anything is scored.
type Track struct {
	ID         string   `json:"id"`
	Title      string   `json:"title"`
	Artist     string   `json:"artist"`  // primary artist
	Artists    []string `json:"artists"` // ordered artist list, primary first
	Album      string   `json:"album"`
	DurationMS int      `json:"duration_ms"`
	ISRC       string   `json:"isrc,omitempty"`
	Explicit   bool     `json:"explicit"`
}

// Confidence buckets a numeric match score into a categorical label.
type Confidence string

const (
	ConfidenceHigh    Confidence = "high"     // score >= 90
	ConfidenceMedium  Confidence = "medium"   // score >= 75
	ConfidenceLow     Confidence = "low"      // score >= 60
	ConfidenceVeryLow Confidence = "very_low" // score < 60
)

// BucketScore maps a numeric score to its confidence bucket.
func BucketScore(score float64) Confidence {
	switch {
	case score >= 90:
		return ConfidenceHigh
	case score >= 75:
		return ConfidenceMedium
	case score >= 60:
		return ConfidenceLow
	default:
		return ConfidenceVeryLow
	}
}

// MatchScore is the weighted-feature confidence score for one candidate.
type MatchScore struct {
	Total      float64    `json:"total"`
	Title      float64    `json:"title"`
	Artist     float64    `json:"artist"`
	Album      float64    `json:"album"`
	Duration   float64    `json:"duration"`
	Variant    float64    `json:"variant"` // agreement bonus or mismatch penalty
	Vetoed     bool       `json:"vetoed"`  // duration veto forced the total to 0
	Confidence Confidence `json:"confidence"`
}

// CandidateTrack is a scored track from the destination catalog.
type CandidateTrack struct {
	Track   Track      `json:"track"`
	Service string     `json:"service"` // catalog the candidate came from
	Score   MatchScore `json:"score"`
}

// SearchAttempt records one tier's query against the destination catalog.
type SearchAttempt struct {
	Tier        string `json:"tier"`   // "isrc", "precise", "flexible", "artist"
	Method      string `json:"method"` // "ISRC" or "search"
	Query       string `json:"query"`
	ResultCount int    `json:"result_count"`
}

// ResolutionResult is the terminal outcome of resolving one source track.
//
// Exactly one of three outcomes holds: auto-accepted (Match set, NeedsReview
// false), needs review (Alternatives non-empty), or unavailable. When
// Unavailable is true, Match is nil and Alternatives is empty.
type ResolutionResult struct {
	Source       Track            `json:"source"`
	Match        *CandidateTrack  `json:"match,omitempty"`
	Alternatives []CandidateTrack `json:"alternatives,omitempty"`
	Unavailable  bool             `json:"unavailable"`
	NeedsReview  bool             `json:"needs_review"`
	MatchMethod  string           `json:"match_method,omitempty"` // tier method that produced Match
	Attempts     []SearchAttempt  `json:"attempts"`
}
