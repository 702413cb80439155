package main

import (
	"context"
	"fmt"
	"os"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/services"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/urfave/cli/v3"
)

// SpotifyPlaylists lists Spotify playlists with optional limit.
func (r *Runner) SpotifyPlaylists(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}

	limit := cmd.Int("limit")
	r.logger.Infof("listing spotify playlists with limit %v", limit)

	playlists, err := r.spotify.GetPlaylists(ctx)
	if err != nil {
		reauthed, authErr := r.handleSpotifyAuthError(ctx, err, cmd)
		if !reauthed {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
		if authErr != nil {
			return authErr
		}
		if playlists, err = r.spotify.GetPlaylists(ctx); err != nil {
			return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
		}
	}

	if limit > 0 && limit < len(playlists) {
		playlists = playlists[:limit]
	}

	return r.printPlaylists(playlists, cmd.Bool("json"), cmd.Bool("pretty"))
}

// SpotifyExport exports a playlist with all its tracks.
func (r *Runner) SpotifyExport(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	return r.exportPlaylist(ctx, r.spotify, cmd)
}

// SpotifySearch searches the Spotify catalog for tracks.
func (r *Runner) SpotifySearch(ctx context.Context, cmd *cli.Command) error {
	if r.spotify == nil {
		return fmt.Errorf("%w: Spotify service not initialized", shared.ErrServiceUnavailable)
	}
	return r.searchTracks(ctx, r.spotify, cmd)
}

func (r *Runner) printPlaylists(playlists []models.Playlist, useJSON, pretty bool) error {
	if useJSON {
		return r.writeJSON(playlists, pretty)
	}

	r.writePlain("Found %d playlists:\n\n", len(playlists))
	for i, pl := range playlists {
		r.writePlain("%d. %s (%d tracks)\n", i+1, pl.Name, pl.TrackCount)
		if pl.Description != "" {
			r.writePlain("   %s\n", pl.Description)
		}
	}
	return nil
}

func (r *Runner) exportPlaylist(ctx context.Context, catalog services.Catalog, cmd *cli.Command) error {
	playlistID := cmd.String("id")
	outputPath := cmd.String("output")

	r.logger.Info("exporting playlist", "service", catalog.Name(), "id", playlistID)

	export, err := catalog.ExportPlaylist(ctx, playlistID)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if outputPath != "" {
		data, err := shared.MarshalJSON(export, true)
		if err != nil {
			return fmt.Errorf("failed to marshal export: %w", err)
		}
		if err := os.WriteFile(outputPath, data, 0644); err != nil {
			return fmt.Errorf("failed to write export: %w", err)
		}
		r.writePlainln("✓ Exported %s (%d tracks) to %s", export.Playlist.Name, len(export.Tracks), outputPath)
		return nil
	}

	if cmd.Bool("json") {
		return r.writeJSON(export, cmd.Bool("pretty"))
	}

	r.writePlain("%s (%d tracks)\n\n", export.Playlist.Name, len(export.Tracks))
	for i, track := range export.Tracks {
		r.writePlain("%d. %s - %s [%s]\n", i+1, track.Artist, track.Title, shared.FormatDurationMS(track.DurationMS))
	}
	return nil
}

func (r *Runner) searchTracks(ctx context.Context, catalog services.Catalog, cmd *cli.Command) error {
	query := cmd.String("query")
	limit := cmd.Int("limit")
	if limit <= 0 {
		limit = 10
	}

	tracks, err := catalog.SearchTracks(ctx, query, limit)
	if err != nil {
		return fmt.Errorf("%w: %v", shared.ErrAPIRequest, err)
	}

	if cmd.Bool("json") {
		return r.writeJSON(tracks, cmd.Bool("pretty"))
	}

	r.writePlain("Found %d tracks for %q:\n\n", len(tracks), query)
	for i, track := range tracks {
		r.writePlain("%d. %s - %s", i+1, track.Artist, track.Title)
		if track.Album != "" {
			r.writePlain(" (%s)", track.Album)
		}
		r.writePlain(" [%s]\n", shared.FormatDurationMS(track.DurationMS))
	}
	return nil
}
