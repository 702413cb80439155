package main

import (
	"context"
	"fmt"

	"github.com/desertthunder/crossfade/internal/formatter"
	"github.com/desertthunder/crossfade/internal/tasks"
	"github.com/urfave/cli/v3"
)

// TransferRun runs a full playlist transfer between two catalogs.
func (r *Runner) TransferRun(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveCatalog(cmd.String("from"))
	if err != nil {
		return err
	}
	dest, err := r.resolveCatalog(cmd.String("to"))
	if err != nil {
		return err
	}

	playlist := cmd.String("playlist")
	destName := cmd.String("name")

	r.logger.Info("starting transfer", "from", source.Name(), "to", dest.Name(), "playlist", playlist)
	r.writePlain("Starting playlist transfer...\n")
	r.writePlain("Source: %s (%s)\n", playlist, source.Name())
	r.writePlain("Destination: %s\n\n", dest.Name())

	engine, err := r.newEngine(source, dest)
	if err != nil {
		return err
	}

	progressCh := make(chan tasks.ProgressUpdate, 50)
	done := make(chan struct{})
	go func() {
		defer close(done)
		for update := range progressCh {
			switch update.Phase {
			case tasks.FetchSource:
				r.writePlain("📥 %s\n", update.Message)
			case tasks.ResolveTracks:
				if update.Step == 0 {
					r.writePlain("\n🔍 %s\n", update.Message)
				} else {
					r.writePlain("   %s\n", update.Message)
				}
			case tasks.ResolveBatch:
				r.writePlain("   %s\n", update.Message)
			case tasks.CreatePlaylist:
				r.writePlain("\n📝 %s\n", update.Message)
			case tasks.CommitTracks:
				r.writePlain("📝 %s\n", update.Message)
			}
		}
	}()

	result, err := engine.Run(ctx, progressCh, playlist, destName)
	close(progressCh)
	<-done

	if err != nil {
		return err
	}

	r.writePlain("\n")
	r.writePlainHeader("Transfer Complete!")
	r.writePlain("Source: %s (%d tracks)\n", result.SourcePlaylist.Playlist.Name, result.TotalTracks)
	r.writePlain("Destination: %s\n", result.DestPlaylist.Name)
	r.writePlain("Auto-matched: %d/%d (%.1f%%)\n", result.AutoMatched, result.TotalTracks, result.MatchPercentage)

	if result.NeedsReview > 0 {
		r.writePlain("Needs review: %d (skipped; use 'crossfade tui' to review them)\n", result.NeedsReview)
	}
	if result.Unavailable > 0 {
		r.writePlain("\nCould not match %d tracks:\n", result.Unavailable)
		for _, res := range result.Results {
			if res.Unavailable {
				r.writePlain("  - %s - %s\n", res.Source.Artist, res.Source.Title)
			}
		}
	}

	if reportPath := cmd.String("report"); reportPath != "" {
		if err := formatter.WriteReport(result, cmd.String("format"), reportPath); err != nil {
			return fmt.Errorf("failed to write report: %w", err)
		}
		r.writePlain("\nReport written to %s\n", reportPath)
	}

	return nil
}

// TransferPreview resolves every track against the destination without
// creating a playlist.
func (r *Runner) TransferPreview(ctx context.Context, cmd *cli.Command) error {
	source, err := r.resolveCatalog(cmd.String("from"))
	if err != nil {
		return err
	}
	dest, err := r.resolveCatalog(cmd.String("to"))
	if err != nil {
		return err
	}

	playlist := cmd.String("playlist")
	r.logger.Info("previewing transfer", "from", source.Name(), "to", dest.Name(), "playlist", playlist)

	engine, err := r.newEngine(source, dest)
	if err != nil {
		return err
	}

	export, results, err := engine.ResolvePlaylist(ctx, nil, playlist)
	if err != nil {
		return err
	}

	if cmd.Bool("json") {
		return r.writeJSON(results, true)
	}

	var matched, review, unavailable int
	for _, res := range results {
		switch {
		case res.Unavailable:
			unavailable++
		case res.NeedsReview:
			review++
		default:
			matched++
		}
	}

	r.writePlainHeader(fmt.Sprintf("Preview: %s → %s", export.Playlist.Name, dest.Name()))
	r.writePlain("Matched: %d\n", matched)
	r.writePlain("Needs review: %d\n", review)
	r.writePlain("Unavailable: %d\n\n", unavailable)

	for i, res := range results {
		switch {
		case res.Unavailable:
			r.writePlain("%d. ✗ %s - %s\n", i+1, res.Source.Artist, res.Source.Title)
		case res.NeedsReview:
			r.writePlain("%d. ? %s - %s (best %.0f, %d alternatives)\n",
				i+1, res.Source.Artist, res.Source.Title, res.Alternatives[0].Score.Total, len(res.Alternatives))
		default:
			r.writePlain("%d. ✓ %s - %s (%.0f via %s)\n",
				i+1, res.Source.Artist, res.Source.Title, res.Match.Score.Total, res.MatchMethod)
		}
	}

	return nil
}
