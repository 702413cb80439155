package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/urfave/cli/v3"
)

// ApplePlaylists lists Apple Music library playlists with optional limit.
func (r *Runner) ApplePlaylists(ctx context.Context, cmd *cli.Command) error {
	if r.apple == nil {
		return fmt.Errorf("%w: Apple Music service not initialized", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	r.logger.Infof("listing apple music playlists with limit %v", limit)

	playlists, err := r.apple.GetPlaylists(ctx)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	return r.printPlaylists(playlists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// AppleExport exports an Apple Music playlist with all its tracks.
func (r *Runner) AppleExport(ctx context.Context, cmd *cli.Command) error {
	if r.apple == nil {
		return fmt.Errorf("%w: Apple Music service not initialized", shared.ErrServiceUnavailable)
	}
	return r.exportPlaylist(ctx, r.apple, cmd)
}

// AppleSearch searches the Apple Music catalog for tracks.
func (r *Runner) AppleSearch(ctx context.Context, cmd *cli.Command) error {
	if r.apple == nil {
		return fmt.Errorf("%w: Apple Music service not initialized", shared.ErrServiceUnavailable)
	}
	return r.searchTracks(ctx, r.apple, cmd)
}
