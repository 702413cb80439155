package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
)

var (
	_ list.Item = playlistItem{}
	_ list.Item = reviewItem{}
	_ list.Item = candidateItem{}
)

// playlistItem wraps [models.Playlist] to implement [list.Item].
type playlistItem struct {
	playlist models.Playlist
}

func (i playlistItem) FilterValue() string { return i.playlist.Name }
func (i playlistItem) Title() string       { return i.playlist.Name }
func (i playlistItem) Description() string {
	desc := fmt.Sprintf("%d tracks", i.playlist.TrackCount)
	if i.playlist.Description != "" {
		desc = fmt.Sprintf("%s • %s", desc, i.playlist.Description)
	}
	return desc
}

// reviewItem wraps one ambiguous [models.ResolutionResult] to implement [list.Item].
type reviewItem struct {
	index  int // position in the session's results
	result models.ResolutionResult
	status string // "pending", "selected", or "skipped"
}

func (i reviewItem) FilterValue() string { return i.result.Source.Title }
func (i reviewItem) Title() string {
	return fmt.Sprintf("%s - %s", i.result.Source.Artist, i.result.Source.Title)
}
func (i reviewItem) Description() string {
	return fmt.Sprintf("%d candidates • %s", len(i.result.Alternatives), i.status)
}

// candidateItem wraps a scored [models.CandidateTrack] to implement [list.Item].
type candidateItem struct {
	candidate models.CandidateTrack
}

func (i candidateItem) FilterValue() string { return i.candidate.Track.Title }
func (i candidateItem) Title() string {
	return fmt.Sprintf("%s - %s", i.candidate.Track.Artist, i.candidate.Track.Title)
}
func (i candidateItem) Description() string {
	tr := i.candidate.Track
	desc := fmt.Sprintf("score %.0f (%s)", i.candidate.Score.Total, i.candidate.Score.Confidence)
	if tr.Album != "" {
		desc = fmt.Sprintf("%s • %s", desc, tr.Album)
	}
	if tr.DurationMS > 0 {
		desc = fmt.Sprintf("%s • %s", desc, shared.FormatDurationMS(tr.DurationMS))
	}
	return desc
}
