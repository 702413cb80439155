package tasks

import (
	"context"
	"fmt"
	"sync/atomic"

	"github.com/charmbracelet/log"
	"github.com/desertthunder/crossfade/internal/match"
	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/services"
	"github.com/desertthunder/crossfade/internal/shared"
)

// MatchMethodCache marks results served from the resolution cache instead of
// a live search tier.
const MatchMethodCache = "cache"

// ResolutionCache memoizes high-confidence ISRC resolutions against a
// destination catalog so repeat transfers skip the search chain.
type ResolutionCache interface {
	// Get returns the cached match for (service, isrc), or nil on a miss.
	Get(ctx context.Context, service, isrc string) (*models.CandidateTrack, error)

	// Put stores a resolved match for (service, isrc).
	Put(ctx context.Context, service, isrc string, match models.CandidateTrack) error
}

// TransferRunResult contains all data from a full transfer operation.
type TransferRunResult struct {
	SourcePlaylist  *models.PlaylistExport   // Source playlist with tracks
	DestPlaylist    *models.Playlist         // Created destination playlist (nil when nothing committed)
	Results         []models.ResolutionResult // Per-track resolution outcomes, in source order
	AutoMatched     int                       // Tracks matched with high confidence
	NeedsReview     int                       // Tracks with candidates below auto-accept
	Unavailable     int                       // Tracks with no acceptable candidate
	TotalTracks     int                       // Total tracks processed
	MatchPercentage float64                   // Auto-match rate as percentage
}

// EngineOpts contains optional TransferEngine dependencies and tuning.
type EngineOpts struct {
	Cache  ResolutionCache // optional ISRC resolution cache
	Logger *log.Logger
	Batch  ChunkOpts
	Retry  RetryOpts
}

// TransferEngine orchestrates playlist transfers: export from the source
// catalog, resolve each track against the destination, create the
// destination playlist, and commit the matched tracks.
type TransferEngine struct {
	source   services.Catalog
	dest     services.Catalog
	resolver *match.Resolver
	cache    ResolutionCache
	logger   *log.Logger
	batch    ChunkOpts
	retry    RetryOpts
}

// NewTransferEngine creates a TransferEngine resolving tracks from source
// into dest.
func NewTransferEngine(source, dest services.Catalog, resolver *match.Resolver, opts EngineOpts) *TransferEngine {
	logger := opts.Logger
	if logger == nil {
		logger = shared.NewLogger(nil)
	}
	return &TransferEngine{
		source:   source,
		dest:     dest,
		resolver: resolver,
		cache:    opts.Cache,
		logger:   logger,
		batch:    opts.Batch,
		retry:    opts.Retry,
	}
}

// sendProgress sends a progress update through the channel without blocking.
// Uses select with default to ensure progress reporting never blocks execution.
func (e *TransferEngine) sendProgress(progress chan<- ProgressUpdate, update ProgressUpdate) {
	if progress == nil {
		return
	}
	select {
	case progress <- update:
	default:
	}
}

// ResolveAll resolves every track against the destination catalog in
// delayed batches, preserving source order. Per-track failures are recorded
// as unavailable results rather than aborting the run; the returned error is
// non-nil only when ctx is cancelled.
func (e *TransferEngine) ResolveAll(ctx context.Context, progress chan<- ProgressUpdate, tracks []models.Track) ([]models.ResolutionResult, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	total := len(tracks)
	var completed atomic.Int64
	items, err := RunChunked(ctx, tracks, e.batch, func(ctx context.Context, tr models.Track) (models.ResolutionResult, error) {
		return e.resolveOne(ctx, tr)
	}, func(item ItemResult[models.Track, models.ResolutionResult]) {
		// streamed from worker goroutines as each track finishes
		res := item.Result
		if item.Err != nil {
			res = models.ResolutionResult{Source: item.Item, Unavailable: true}
		}
		step := int(completed.Add(1))
		e.sendProgress(progress, resolveTrackUpdate(step, total, item.Item, &res))
	}, func(bp BatchProgress) {
		e.sendProgress(progress, resolveBatchUpdate(bp))
	})

	results := make([]models.ResolutionResult, 0, total)
	for _, item := range items {
		res := item.Result
		if item.Err != nil {
			res = models.ResolutionResult{Source: item.Item, Unavailable: true}
			e.logger.Warn("track resolution failed", "title", item.Item.Title, "error", item.Err)
		}
		results = append(results, res)
	}

	if err != nil {
		return results, err
	}
	return results, nil
}

// resolveOne checks the cache before running the search chain, and writes
// back high-confidence ISRC matches after it.
func (e *TransferEngine) resolveOne(ctx context.Context, tr models.Track) (models.ResolutionResult, error) {
	if e.cache != nil && tr.ISRC != "" {
		cached, err := e.cache.Get(ctx, e.dest.Name(), tr.ISRC)
		if err != nil {
			e.logger.Warn("cache lookup failed", "isrc", tr.ISRC, "error", err)
		} else if cached != nil {
			return models.ResolutionResult{
				Source:      tr,
				Match:       cached,
				MatchMethod: MatchMethodCache,
			}, nil
		}
	}

	result, err := e.resolver.Resolve(ctx, tr)
	if err != nil {
		return result, err
	}

	if e.cache != nil && tr.ISRC != "" && result.Match != nil &&
		result.Match.Score.Confidence == models.ConfidenceHigh {
		if err := e.cache.Put(ctx, e.dest.Name(), tr.ISRC, *result.Match); err != nil {
			e.logger.Warn("cache store failed", "isrc", tr.ISRC, "error", err)
		}
	}
	return result, nil
}

// Run performs a full source → destination playlist transfer. sourceIDOrName
// is tried as a playlist ID first, then matched against playlist names.
// Tracks needing review or unavailable are reported in the result but not
// committed.
func (e *TransferEngine) Run(ctx context.Context, progress chan<- ProgressUpdate, sourceIDOrName, destName string) (*TransferRunResult, error) {
	if e.source == nil {
		return nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	export, results, err := e.ResolvePlaylist(ctx, progress, sourceIDOrName)
	if err != nil {
		return nil, err
	}

	result := &TransferRunResult{
		SourcePlaylist: export,
		TotalTracks:    len(export.Tracks),
		Results:        results,
	}

	trackIDs := make([]string, 0, len(results))
	for _, res := range results {
		switch {
		case res.NeedsReview:
			result.NeedsReview++
		case res.Unavailable:
			result.Unavailable++
		case res.Match != nil:
			result.AutoMatched++
			trackIDs = append(trackIDs, res.Match.Track.ID)
		}
	}
	if result.TotalTracks > 0 {
		result.MatchPercentage = float64(result.AutoMatched) / float64(result.TotalTracks) * 100
	}

	if result.AutoMatched == 0 {
		return result, fmt.Errorf("no tracks were matched - cannot create empty playlist")
	}

	if destName == "" {
		destName = export.Playlist.Name
	}
	description := fmt.Sprintf("Transferred from %s: %s", e.source.Name(), export.Playlist.Name)

	pl, err := e.CommitTracks(ctx, progress, destName, description, trackIDs)
	if err != nil {
		return result, err
	}
	result.DestPlaylist = pl
	return result, nil
}

// ResolvePlaylist exports the source playlist and resolves every track
// against the destination catalog without committing anything.
func (e *TransferEngine) ResolvePlaylist(ctx context.Context, progress chan<- ProgressUpdate, sourceIDOrName string) (*models.PlaylistExport, []models.ResolutionResult, error) {
	if e.source == nil {
		return nil, nil, fmt.Errorf("%w: source service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, fetchSourceUpdate(e.source.Name()))

	export, err := e.exportSource(ctx, sourceIDOrName)
	if err != nil {
		return nil, nil, err
	}
	e.sendProgress(progress, foundPlaylistUpdate(export))

	results, err := e.ResolveAll(ctx, progress, export.Tracks)
	if err != nil {
		return export, results, err
	}
	return export, results, nil
}

// exportSource resolves sourceIDOrName to a playlist export, falling back to
// a name match across the user's playlists when the ID lookup fails.
func (e *TransferEngine) exportSource(ctx context.Context, sourceIDOrName string) (*models.PlaylistExport, error) {
	export, err := e.source.ExportPlaylist(ctx, sourceIDOrName)
	if err == nil {
		return export, nil
	}

	playlists, listErr := e.source.GetPlaylists(ctx)
	if listErr != nil {
		return nil, fmt.Errorf("%w: failed to get playlists: %v", shared.ErrAPIRequest, listErr)
	}

	var matchedID string
	for _, pl := range playlists {
		if pl.Name == sourceIDOrName {
			matchedID = pl.ID
			break
		}
	}
	if matchedID == "" {
		return nil, fmt.Errorf("%w: no playlist found with name '%s'", shared.ErrPlaylistNotFound, sourceIDOrName)
	}

	export, err = e.source.ExportPlaylist(ctx, matchedID)
	if err != nil {
		return nil, fmt.Errorf("%w: failed to export playlist: %v", shared.ErrAPIRequest, err)
	}
	return export, nil
}

// CommitTracks creates a destination playlist and appends trackIDs to it in
// order. Both catalog calls retry with exponential backoff.
func (e *TransferEngine) CommitTracks(ctx context.Context, progress chan<- ProgressUpdate, name, description string, trackIDs []string) (*models.Playlist, error) {
	if e.dest == nil {
		return nil, fmt.Errorf("%w: destination service not initialized", shared.ErrServiceUnavailable)
	}

	e.sendProgress(progress, createPlaylistUpdate(name))

	pl, err := RetryWithBackoff(ctx, e.retry, func(ctx context.Context) (*models.Playlist, error) {
		return e.dest.CreatePlaylist(ctx, name, description)
	})
	if err != nil {
		return nil, fmt.Errorf("%w: failed to create playlist: %v", shared.ErrAPIRequest, err)
	}

	_, err = RetryWithBackoff(ctx, e.retry, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, e.dest.AddTracks(ctx, pl.ID, trackIDs)
	})
	if err != nil {
		return pl, fmt.Errorf("%w: failed to add tracks: %v", shared.ErrAPIRequest, err)
	}

	e.sendProgress(progress, commitTracksUpdate(len(trackIDs), pl))
	return pl, nil
}
