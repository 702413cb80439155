package session

import (
	"errors"
	"testing"
	"time"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

func candidate(id string, total float64) models.CandidateTrack {
	return models.CandidateTrack{
		Track:   models.Track{ID: id, Title: "Yesterday", Artist: "The Beatles"},
		Service: "Apple Music",
		Score:   models.MatchScore{Total: total, Confidence: models.BucketScore(total)},
	}
}

func reviewResults() []models.ResolutionResult {
	high := candidate("d-auto", 95)
	return []models.ResolutionResult{
		{Source: models.Track{ID: "s0"}, Match: &high, MatchMethod: "search"},
		{
			Source:       models.Track{ID: "s1"},
			NeedsReview:  true,
			Alternatives: []models.CandidateTrack{candidate("d-alt-1", 80), candidate("d-alt-2", 72)},
		},
		{Source: models.Track{ID: "s2"}, Unavailable: true},
	}
}

func reviewSession(t *testing.T) *ReviewSession {
	t.Helper()
	s := New("Spotify", "Apple Music", "Road Trip")
	export := &models.PlaylistExport{Playlist: models.Playlist{ID: "pl1", Name: "Road Trip"}}
	if err := s.SetResults(export, reviewResults()); err != nil {
		t.Fatalf("SetResults() error = %v", err)
	}
	return s
}

func TestSetResults(t *testing.T) {
	t.Run("ambiguous tracks wait for review", func(t *testing.T) {
		s := reviewSession(t)
		if got := s.Status(); got != StatusNeedsReview {
			t.Errorf("Status() = %q, want %q", got, StatusNeedsReview)
		}
	})

	t.Run("clean resolution is immediately ready", func(t *testing.T) {
		s := New("Spotify", "Apple Music", "")
		high := candidate("d-auto", 95)
		results := []models.ResolutionResult{{Source: models.Track{ID: "s0"}, Match: &high}}
		if err := s.SetResults(nil, results); err != nil {
			t.Fatalf("SetResults() error = %v", err)
		}
		if got := s.Status(); got != StatusReady {
			t.Errorf("Status() = %q, want %q", got, StatusReady)
		}
	})

	t.Run("rejected outside processing", func(t *testing.T) {
		s := reviewSession(t)
		if err := s.SetResults(nil, nil); !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("SetResults() error = %v, want ErrInvalidState", err)
		}
	})
}

func TestSubmitDecisions(t *testing.T) {
	t.Run("selects an alternative", func(t *testing.T) {
		s := reviewSession(t)
		err := s.SubmitDecisions([]Decision{
			{TrackIndex: 1, Action: ActionSelect, SelectedVariantID: "d-alt-2"},
		})
		if err != nil {
			t.Fatalf("SubmitDecisions() error = %v", err)
		}
		if got := s.Status(); got != StatusReviewed {
			t.Errorf("Status() = %q, want %q", got, StatusReviewed)
		}

		ids := s.CommitList()
		want := []string{"d-auto", "d-alt-2"}
		if len(ids) != len(want) {
			t.Fatalf("CommitList() = %v, want %v", ids, want)
		}
		for i := range want {
			if ids[i] != want[i] {
				t.Errorf("CommitList()[%d] = %q, want %q", i, ids[i], want[i])
			}
		}
	})

	t.Run("unknown variant ID is dropped", func(t *testing.T) {
		s := reviewSession(t)
		err := s.SubmitDecisions([]Decision{
			{TrackIndex: 1, Action: ActionSelect, SelectedVariantID: "not-a-candidate"},
		})
		if err != nil {
			t.Fatalf("SubmitDecisions() error = %v", err)
		}

		ids := s.CommitList()
		if len(ids) != 1 || ids[0] != "d-auto" {
			t.Errorf("CommitList() = %v, want only the auto match", ids)
		}
	})

	t.Run("undecided tracks default to ignore", func(t *testing.T) {
		s := reviewSession(t)
		if err := s.SubmitDecisions(nil); err != nil {
			t.Fatalf("SubmitDecisions() error = %v", err)
		}
		ids := s.CommitList()
		if len(ids) != 1 || ids[0] != "d-auto" {
			t.Errorf("CommitList() = %v, want only the auto match", ids)
		}
	})

	t.Run("rejected outside needs_review and leaves session unchanged", func(t *testing.T) {
		s := reviewSession(t)
		if err := s.SubmitDecisions(nil); err != nil {
			t.Fatalf("first SubmitDecisions() error = %v", err)
		}

		err := s.SubmitDecisions([]Decision{{TrackIndex: 1, Action: ActionIgnore}})
		if !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("SubmitDecisions() error = %v, want ErrInvalidState", err)
		}
		if got := s.Status(); got != StatusReviewed {
			t.Errorf("Status() = %q, want %q after rejected submission", got, StatusReviewed)
		}
	})

	t.Run("decision for a settled track is dropped", func(t *testing.T) {
		s := reviewSession(t)
		err := s.SubmitDecisions([]Decision{
			{TrackIndex: 0, Action: ActionIgnore},
			{TrackIndex: 1, Action: ActionIgnore},
		})
		if err != nil {
			t.Fatalf("SubmitDecisions() error = %v", err)
		}
		ids := s.CommitList()
		if len(ids) != 1 || ids[0] != "d-auto" {
			t.Errorf("CommitList() = %v, auto match must survive an ignore aimed at it", ids)
		}
	})
}

func TestLifecycle(t *testing.T) {
	t.Run("ready session executes and completes", func(t *testing.T) {
		s := reviewSession(t)
		if err := s.SubmitDecisions(nil); err != nil {
			t.Fatalf("SubmitDecisions() error = %v", err)
		}
		if err := s.BeginExecution(); err != nil {
			t.Fatalf("BeginExecution() error = %v", err)
		}
		if err := s.Complete(&models.Playlist{ID: "new-pl", Name: "Road Trip"}); err != nil {
			t.Fatalf("Complete() error = %v", err)
		}
		if got := s.Status(); got != StatusCompleted {
			t.Errorf("Status() = %q, want %q", got, StatusCompleted)
		}
	})

	t.Run("execution requires review first", func(t *testing.T) {
		s := reviewSession(t)
		if err := s.BeginExecution(); !errors.Is(err, shared.ErrInvalidState) {
			t.Errorf("BeginExecution() error = %v, want ErrInvalidState", err)
		}
	})

	t.Run("failure is terminal from any state", func(t *testing.T) {
		s := reviewSession(t)
		s.Fail(errors.New("catalog unreachable"))
		if got := s.Status(); got != StatusError {
			t.Errorf("Status() = %q, want %q", got, StatusError)
		}
		if sum := s.Summarize(); sum.Error != "catalog unreachable" {
			t.Errorf("Summary.Error = %q", sum.Error)
		}
	})
}

func TestSummarize(t *testing.T) {
	s := reviewSession(t)
	sum := s.Summarize()

	if sum.Total != 3 || sum.AutoMatched != 1 || sum.NeedsReview != 1 || sum.Unavailable != 1 {
		t.Errorf("Summary counts = %+v", sum)
	}
	if sum.Playlist != "Road Trip" {
		t.Errorf("Summary.Playlist = %q", sum.Playlist)
	}
}

func TestMemoryStore(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		store := NewMemoryStore(0)
		s := reviewSession(t)
		if err := store.Put(s); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		got, err := store.Get(s.ID)
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if got.ID != s.ID {
			t.Errorf("Get() ID = %q, want %q", got.ID, s.ID)
		}
	})

	t.Run("missing session", func(t *testing.T) {
		store := NewMemoryStore(0)
		if _, err := store.Get("nope"); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("Get() error = %v, want ErrSessionNotFound", err)
		}
	})

	t.Run("expired sessions are dropped", func(t *testing.T) {
		store := NewMemoryStore(30 * time.Minute)
		current := time.Now()
		store.now = func() time.Time { return current }

		s := reviewSession(t)
		if err := store.Put(s); err != nil {
			t.Fatalf("Put() error = %v", err)
		}

		current = current.Add(31 * time.Minute)
		if _, err := store.Get(s.ID); !errors.Is(err, shared.ErrSessionNotFound) {
			t.Errorf("Get() after TTL error = %v, want ErrSessionNotFound", err)
		}
		if got := store.List(); len(got) != 0 {
			t.Errorf("List() after TTL = %d sessions, want 0", len(got))
		}
	})

	t.Run("delete is idempotent", func(t *testing.T) {
		store := NewMemoryStore(0)
		if err := store.Delete("absent"); err != nil {
			t.Errorf("Delete() error = %v", err)
		}
	})
}
