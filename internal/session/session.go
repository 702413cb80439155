// package session tracks the lifecycle of a playlist transfer that needs
// human review.
//
// A transfer starts in StatusProcessing while tracks resolve. Resolution
// partitions tracks into auto-matched, needs-review, and unavailable; if any
// track needs review the session waits in StatusNeedsReview for decisions,
// otherwise it is immediately StatusReady. Submitted decisions move it to
// StatusReviewed, execution to StatusExecuting, and a committed playlist to
// StatusCompleted. Any failure parks it in StatusError.
package session

import (
	"fmt"
	"sync"
	"time"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

// Status is the lifecycle state of a review session.
type Status string

const (
	StatusProcessing  Status = "processing"
	StatusNeedsReview Status = "needs_review"
	StatusReady       Status = "ready"
	StatusReviewed    Status = "reviewed"
	StatusExecuting   Status = "executing"
	StatusCompleted   Status = "completed"
	StatusError       Status = "error"
)

// Decision actions for a track awaiting review.
const (
	ActionSelect = "select" // commit the chosen alternative
	ActionIgnore = "ignore" // leave the track out of the transfer
)

// Decision records the reviewer's choice for one ambiguous track.
type Decision struct {
	TrackIndex        int    `json:"track_index"` // index into the session's Results
	Action            string `json:"action"`      // "select" or "ignore"
	SelectedVariantID string `json:"selected_variant_id,omitempty"`
}

// Summary is a point-in-time snapshot of a session for listings and API
// responses.
type Summary struct {
	ID          string    `json:"id"`
	Status      Status    `json:"status"`
	Source      string    `json:"source"`
	Destination string    `json:"destination"`
	Playlist    string    `json:"playlist"`
	Total       int       `json:"total"`
	AutoMatched int       `json:"auto_matched"`
	NeedsReview int       `json:"needs_review"`
	Unavailable int       `json:"unavailable"`
	Error       string    `json:"error,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ReviewSession holds one transfer's resolution results and review decisions.
// All methods are safe for concurrent use.
type ReviewSession struct {
	mu sync.Mutex

	ID            string
	SourceService string
	DestService   string
	DestName      string
	Playlist      *models.PlaylistExport
	Results       []models.ResolutionResult
	Decisions     map[int]Decision
	DestPlaylist  *models.Playlist

	status    Status
	errMsg    string
	createdAt time.Time
	updatedAt time.Time
}

// New creates a session in StatusProcessing.
func New(sourceService, destService, destName string) *ReviewSession {
	now := time.Now()
	return &ReviewSession{
		ID:            shared.GenerateID(),
		SourceService: sourceService,
		DestService:   destService,
		DestName:      destName,
		Decisions:     make(map[int]Decision),
		status:        StatusProcessing,
		createdAt:     now,
		updatedAt:     now,
	}
}

// Status returns the current lifecycle state.
func (s *ReviewSession) Status() Status {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.status
}

// SetResults records resolution output and advances the session from
// StatusProcessing to StatusNeedsReview when any track awaits a decision,
// or straight to StatusReady when none do.
func (s *ReviewSession) SetResults(playlist *models.PlaylistExport, results []models.ResolutionResult) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusProcessing {
		return fmt.Errorf("%w: cannot set results in state %q", shared.ErrInvalidState, s.status)
	}

	s.Playlist = playlist
	s.Results = results
	if countNeedsReview(results) > 0 {
		s.status = StatusNeedsReview
	} else {
		s.status = StatusReady
	}
	s.updatedAt = time.Now()
	return nil
}

// SubmitDecisions applies reviewer decisions and advances the session to
// StatusReviewed. Valid only in StatusNeedsReview; any other state leaves the
// session unchanged. Decisions referencing tracks that do not need review, or
// selecting a variant ID absent from the track's alternatives, are dropped.
// Tracks needing review with no surviving decision default to ignore.
func (s *ReviewSession) SubmitDecisions(decisions []Decision) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusNeedsReview {
		return fmt.Errorf("%w: cannot submit decisions in state %q", shared.ErrInvalidState, s.status)
	}

	accepted := make(map[int]Decision, len(decisions))
	for _, d := range decisions {
		if d.TrackIndex < 0 || d.TrackIndex >= len(s.Results) {
			continue
		}
		res := s.Results[d.TrackIndex]
		if !res.NeedsReview {
			continue
		}
		switch d.Action {
		case ActionIgnore:
			accepted[d.TrackIndex] = d
		case ActionSelect:
			if hasAlternative(res, d.SelectedVariantID) {
				accepted[d.TrackIndex] = d
			}
		}
	}

	s.Decisions = accepted
	s.status = StatusReviewed
	s.updatedAt = time.Now()
	return nil
}

// BeginExecution transitions a StatusReady or StatusReviewed session to
// StatusExecuting.
func (s *ReviewSession) BeginExecution() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusReady && s.status != StatusReviewed {
		return fmt.Errorf("%w: cannot execute in state %q", shared.ErrInvalidState, s.status)
	}
	s.status = StatusExecuting
	s.updatedAt = time.Now()
	return nil
}

// Complete records the committed playlist and marks the session done.
func (s *ReviewSession) Complete(pl *models.Playlist) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.status != StatusExecuting {
		return fmt.Errorf("%w: cannot complete in state %q", shared.ErrInvalidState, s.status)
	}
	s.DestPlaylist = pl
	s.status = StatusCompleted
	s.updatedAt = time.Now()
	return nil
}

// Fail parks the session in StatusError with the cause. Valid from any state.
func (s *ReviewSession) Fail(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.status = StatusError
	if err != nil {
		s.errMsg = err.Error()
	}
	s.updatedAt = time.Now()
}

// CommitList returns the destination track IDs to commit, in source order:
// every auto-matched track plus every reviewed track whose decision selected
// an alternative. Callable once the session is StatusReady or later.
func (s *ReviewSession) CommitList() []string {
	s.mu.Lock()
	defer s.mu.Unlock()

	ids := make([]string, 0, len(s.Results))
	for i, res := range s.Results {
		switch {
		case res.NeedsReview:
			d, ok := s.Decisions[i]
			if ok && d.Action == ActionSelect {
				ids = append(ids, d.SelectedVariantID)
			}
		case res.Match != nil:
			ids = append(ids, res.Match.Track.ID)
		}
	}
	return ids
}

// Summarize returns a snapshot for listings and API responses.
func (s *ReviewSession) Summarize() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()

	sum := Summary{
		ID:          s.ID,
		Status:      s.status,
		Source:      s.SourceService,
		Destination: s.DestService,
		Total:       len(s.Results),
		NeedsReview: countNeedsReview(s.Results),
		Error:       s.errMsg,
		CreatedAt:   s.createdAt,
		UpdatedAt:   s.updatedAt,
	}
	if s.Playlist != nil {
		sum.Playlist = s.Playlist.Playlist.Name
	}
	for _, res := range s.Results {
		switch {
		case res.NeedsReview:
		case res.Unavailable:
			sum.Unavailable++
		case res.Match != nil:
			sum.AutoMatched++
		}
	}
	return sum
}

func countNeedsReview(results []models.ResolutionResult) int {
	n := 0
	for _, res := range results {
		if res.NeedsReview {
			n++
		}
	}
	return n
}

func hasAlternative(res models.ResolutionResult, id string) bool {
	for _, alt := range res.Alternatives {
		if alt.Track.ID == id {
			return true
		}
	}
	return false
}
