// Package models defines domain entities for the crossfade playlist transfer service.
//
// The package contains catalog-agnostic Data Transfer Objects only:
//   - [Playlist] / [PlaylistExport] : playlist metadata and full track listings
//   - [Track] : track descriptor with ISRC for cross-catalog matching
//   - [CandidateTrack] / [MatchScore] : scored candidates from a destination catalog
//   - [ResolutionResult] : the terminal outcome of resolving one source track
//
// Per-catalog response types live with their clients in internal/services; the
// adapters there translate raw API shapes into these neutral structs before
// scoring or display.
package models
