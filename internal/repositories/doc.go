// Package repositories implements SQLite persistence for resolution results.
//
// The resolution cache memoizes high-confidence ISRC matches per destination
// service, so repeat transfers of overlapping playlists skip the search chain
// entirely. Cached rows carry the full scored candidate as JSON alongside the
// indexed (service, isrc) key.
package repositories
