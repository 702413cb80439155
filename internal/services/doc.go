// Package services implements catalog clients for music-streaming APIs.
//
// The [Catalog] interface is the contract the resolution engine and transfer
// tasks depend on. Two implementations exist:
//
//   - [SpotifyService] : OAuth2 authorization code flow; tracks arrive with
//     an artists array, duration_ms, and external_ids.isrc
//   - [AppleMusicService] : developer token + music user token; tracks arrive
//     with a joined artistName string, durationInMillis, and isrc
//
// Each client normalizes its catalog's raw attribute shape into
// [models.Track] before anything downstream sees it, so the scorer and chain
// never branch on catalog-specific schemas.
//
// Every client takes an injected [rate.Limiter] shared across all concurrent
// callers of that catalog. The limiter intentionally serializes minimum
// spacing between outbound calls even when many tracks are resolving in
// flight. Per-call timeouts are enforced by the underlying http.Client; a
// timeout surfaces as that call's error and is handled by the caller's
// fail-soft policy.
package services
