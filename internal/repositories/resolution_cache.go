package repositories

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/desertthunder/crossfade/internal/models"
)

const cacheSchema = `
	CREATE TABLE IF NOT EXISTS resolution_cache (
		service TEXT NOT NULL,
		isrc TEXT NOT NULL,
		track_id TEXT NOT NULL,
		candidate TEXT NOT NULL,
		created_at TIMESTAMP NOT NULL,
		updated_at TIMESTAMP NOT NULL,
		PRIMARY KEY (service, isrc)
	);
`

// ResolutionCacheRepository implements tasks.ResolutionCache on SQLite.
//
// Rows are keyed by (service, isrc) and hold the matched candidate serialized
// as JSON. Put upserts, so re-resolving a track refreshes its cached match.
type ResolutionCacheRepository struct {
	db *sql.DB
}

// NewResolutionCacheRepository creates the repository and its table if missing.
func NewResolutionCacheRepository(db *sql.DB) (*ResolutionCacheRepository, error) {
	if _, err := db.Exec(cacheSchema); err != nil {
		return nil, fmt.Errorf("failed to create resolution_cache table: %w", err)
	}
	return &ResolutionCacheRepository{db: db}, nil
}

// Get returns the cached match for (service, isrc), or nil on a miss.
func (r *ResolutionCacheRepository) Get(ctx context.Context, service, isrc string) (*models.CandidateTrack, error) {
	query := `
		SELECT candidate
		FROM resolution_cache
		WHERE service = ? AND isrc = ?
	`

	var raw string
	err := r.db.QueryRowContext(ctx, query, service, isrc).Scan(&raw)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query resolution cache: %w", err)
	}

	var candidate models.CandidateTrack
	if err := json.Unmarshal([]byte(raw), &candidate); err != nil {
		return nil, fmt.Errorf("failed to decode cached candidate: %w", err)
	}
	return &candidate, nil
}

// Put stores or refreshes the match for (service, isrc).
func (r *ResolutionCacheRepository) Put(ctx context.Context, service, isrc string, match models.CandidateTrack) error {
	raw, err := json.Marshal(match)
	if err != nil {
		return fmt.Errorf("failed to encode candidate: %w", err)
	}

	now := time.Now()
	query := `
		INSERT INTO resolution_cache (service, isrc, track_id, candidate, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (service, isrc) DO UPDATE SET
			track_id = excluded.track_id,
			candidate = excluded.candidate,
			updated_at = excluded.updated_at
	`

	if _, err := r.db.ExecContext(ctx, query, service, isrc, match.Track.ID, string(raw), now, now); err != nil {
		return fmt.Errorf("failed to upsert resolution cache: %w", err)
	}
	return nil
}

// Purge removes cached matches older than maxAge. Returns the number of rows
// removed.
func (r *ResolutionCacheRepository) Purge(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := time.Now().Add(-maxAge)
	result, err := r.db.ExecContext(ctx, `DELETE FROM resolution_cache WHERE updated_at < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("failed to purge resolution cache: %w", err)
	}
	return result.RowsAffected()
}

// Stats summarizes the cache contents per destination service.
func (r *ResolutionCacheRepository) Stats(ctx context.Context) (map[string]int, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT service, COUNT(*) FROM resolution_cache GROUP BY service`)
	if err != nil {
		return nil, fmt.Errorf("failed to query cache stats: %w", err)
	}
	defer rows.Close()

	stats := make(map[string]int)
	for rows.Next() {
		var service string
		var count int
		if err := rows.Scan(&service, &count); err != nil {
			return nil, fmt.Errorf("failed to scan cache stats: %w", err)
		}
		stats[service] = count
	}
	return stats, rows.Err()
}
