package main

import (
	"context"
	"fmt"
	"time"

	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/urfave/cli/v3"
)

// CacheStats prints cached match counts per destination service.
func (r *Runner) CacheStats(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openCache()
	if err != nil {
		return err
	}
	if repo == nil {
		return fmt.Errorf("%w: no cache path configured", shared.ErrMissingConfig)
	}

	stats, err := repo.Stats(ctx)
	if err != nil {
		return fmt.Errorf("failed to read cache stats: %w", err)
	}

	if len(stats) == 0 {
		r.writePlain("Resolution cache is empty.\n")
		return nil
	}

	r.writePlainHeader("Resolution Cache")
	total := 0
	for service, count := range stats {
		r.writePlain("%s: %d cached matches\n", service, count)
		total += count
	}
	r.writePlain("Total: %d\n", total)

	return nil
}

// CachePurge deletes cache entries older than the given age. A zero age
// removes everything.
func (r *Runner) CachePurge(ctx context.Context, cmd *cli.Command) error {
	repo, err := r.openCache()
	if err != nil {
		return err
	}
	if repo == nil {
		return fmt.Errorf("%w: no cache path configured", shared.ErrMissingConfig)
	}

	maxAge := time.Duration(cmd.Int("max-age-hours")) * time.Hour

	removed, err := repo.Purge(ctx, maxAge)
	if err != nil {
		return fmt.Errorf("failed to purge cache: %w", err)
	}

	r.logger.Info("cache purged", "removed", removed, "max_age", maxAge)
	r.writePlain("✓ Removed %d cache entries\n", removed)

	return nil
}
