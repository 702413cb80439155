package tasks

import (
	"fmt"

	"github.com/desertthunder/crossfade/internal/models"
)

// ProgressUpdate represents a progress event during a long-running operation.
//
// Used to send real-time updates to the CLI or UI layer for display.
type ProgressUpdate struct {
	Phase   Phase  // Operation phase
	Step    int    // Current step number within phase
	Total   int    // Total steps in this phase
	Message string // Human-readable message for display
	Data    any    // Optional phase-specific data for advanced UIs
}

// Operation phase enumeration
type Phase int

const (
	FetchSource Phase = iota
	ResolveTracks
	ResolveBatch
	CreatePlaylist
	CommitTracks
)

func (p Phase) String() string {
	switch p {
	case FetchSource:
		return "fetch_source"
	case ResolveTracks:
		return "resolve_tracks"
	case ResolveBatch:
		return "resolve_batch"
	case CreatePlaylist:
		return "create_playlist"
	case CommitTracks:
		return "commit_tracks"
	default:
		return ""
	}
}

func fetchSourceUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Fetching source playlist (%s)...", name),
	}
}

func foundPlaylistUpdate(export *models.PlaylistExport) ProgressUpdate {
	return ProgressUpdate{
		Phase:   FetchSource,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Found playlist: %s (%d tracks)", export.Playlist.Name, len(export.Tracks)),
		Data:    export,
	}
}

func resolveTrackUpdate(step, total int, tr models.Track, result *models.ResolutionResult) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveTracks,
		Step:    step,
		Total:   total,
		Message: fmt.Sprintf("[%d/%d] %s - %s", step, total, tr.Artist, tr.Title),
		Data:    result,
	}
}

// BatchProgress is the Data payload for per-batch updates in chunked mode.
type BatchProgress struct {
	CurrentBatch   int `json:"current_batch"`
	TotalBatches   int `json:"total_batches"`
	ProcessedItems int `json:"processed_items"`
	TotalItems     int `json:"total_items"`
}

func resolveBatchUpdate(bp BatchProgress) ProgressUpdate {
	return ProgressUpdate{
		Phase:   ResolveBatch,
		Step:    bp.CurrentBatch,
		Total:   bp.TotalBatches,
		Message: fmt.Sprintf("Batch %d/%d (%d/%d tracks)", bp.CurrentBatch, bp.TotalBatches, bp.ProcessedItems, bp.TotalItems),
		Data:    bp,
	}
}

func createPlaylistUpdate(name string) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CreatePlaylist,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Creating playlist %q on destination...", name),
	}
}

func commitTracksUpdate(count int, pl *models.Playlist) ProgressUpdate {
	return ProgressUpdate{
		Phase:   CommitTracks,
		Step:    1,
		Total:   1,
		Message: fmt.Sprintf("Added %d tracks to %s (ID: %s)", count, pl.Name, pl.ID),
		Data:    pl,
	}
}
