package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/services"
	"github.com/desertthunder/crossfade/internal/session"
	"github.com/desertthunder/crossfade/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	PlaylistListView ViewState = iota
	ResolveView
	ReviewListView
	AlternativesView
	ConfirmView
	ExecuteView
	ResultView
)

// Model represents the TUI application state.
type Model struct {
	ctx    context.Context
	view   ViewState
	source services.Catalog
	engine *tasks.TransferEngine
	width  int
	height int

	playlistList list.Model
	reviewList   list.Model
	altList      list.Model

	sess         *session.ReviewSession
	export       *models.PlaylistExport
	reviewQueue  []int // result indexes awaiting a decision
	decisions    map[int]session.Decision
	activeReview int // result index open in AlternativesView

	progressChan chan tasks.ProgressUpdate
	progress     tasks.ProgressUpdate
	created      *models.Playlist
	err          error

	help help.Model
	keys keyMap
}

type playlistsFetchedMsg struct {
	playlists []models.Playlist
	err       error
}

type resolutionDoneMsg struct {
	export  *models.PlaylistExport
	results []models.ResolutionResult
	err     error
}

type progressUpdateMsg tasks.ProgressUpdate

type commitDoneMsg struct {
	playlist *models.Playlist
	err      error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, source services.Catalog, engine *tasks.TransferEngine) *Model {
	return &Model{
		ctx:       ctx,
		view:      PlaylistListView,
		source:    source,
		engine:    engine,
		decisions: make(map[int]session.Decision),
		help:      help.New(),
		keys:      newKeyMap(),
	}
}

// Init initializes the TUI by fetching playlists from the source catalog.
func (m *Model) Init() tea.Cmd {
	return m.fetchPlaylists()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		for _, l := range []*list.Model{&m.playlistList, &m.reviewList, &m.altList} {
			if l.Width() == 0 {
				l.SetSize(msg.Width-4, msg.Height-8)
			}
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case PlaylistListView:
			return m.handlePlaylistKeys(msg)
		case ReviewListView:
			return m.handleReviewKeys(msg)
		case AlternativesView:
			return m.handleAlternativesKeys(msg)
		case ConfirmView:
			return m.handleConfirmKeys(msg)
		case ResultView:
			return m.handleResultKeys(msg)
		}

	case playlistsFetchedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, tea.Quit
		}
		items := make([]list.Item, len(msg.playlists))
		for i, pl := range msg.playlists {
			items[i] = playlistItem{playlist: pl}
		}
		m.playlistList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.playlistList.Title = fmt.Sprintf("%s Playlists", m.source.Name())
		m.playlistList.SetSize(m.width-4, m.height-8)
		return m, nil

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case resolutionDoneMsg:
		return m.handleResolutionDone(msg)

	case commitDoneMsg:
		m.created = msg.playlist
		m.err = msg.err
		if msg.err != nil {
			m.sess.Fail(msg.err)
		} else if err := m.sess.Complete(msg.playlist); err != nil {
			m.err = err
		}
		m.view = ResultView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil && m.view != ResultView {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case PlaylistListView:
		return m.renderList(m.playlistList, m.keys.enter)
	case ResolveView:
		return m.renderProgress("Resolving Tracks")
	case ReviewListView:
		return m.renderList(m.reviewList, m.keys.enter, m.keys.skip, m.keys.yes)
	case AlternativesView:
		return m.renderList(m.altList, m.keys.enter, m.keys.skip, m.keys.back)
	case ConfirmView:
		return m.renderConfirm()
	case ExecuteView:
		return m.renderProgress("Creating Playlist")
	case ResultView:
		return m.renderResult()
	default:
		return ""
	}
}

func (m *Model) handlePlaylistKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "enter":
		if item, ok := m.playlistList.SelectedItem().(playlistItem); ok {
			m.view = ResolveView
			return m, m.startResolution(item.playlist)
		}
	}

	var cmd tea.Cmd
	m.playlistList, cmd = m.playlistList.Update(msg)
	return m, cmd
}

func (m *Model) handleReviewKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		if item, ok := m.reviewList.SelectedItem().(reviewItem); ok {
			m.decisions[item.index] = session.Decision{TrackIndex: item.index, Action: session.ActionIgnore}
			m.refreshReviewList()
		}
		return m, nil
	case "y":
		m.view = ConfirmView
		return m, nil
	case "enter":
		if item, ok := m.reviewList.SelectedItem().(reviewItem); ok {
			m.openAlternatives(item)
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.reviewList, cmd = m.reviewList.Update(msg)
	return m, cmd
}

func (m *Model) handleAlternativesKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = ReviewListView
		return m, nil
	case "s":
		m.decisions[m.activeReview] = session.Decision{TrackIndex: m.activeReview, Action: session.ActionIgnore}
		m.refreshReviewList()
		m.view = ReviewListView
		return m, nil
	case "enter":
		if item, ok := m.altList.SelectedItem().(candidateItem); ok {
			m.decisions[m.activeReview] = session.Decision{
				TrackIndex:        m.activeReview,
				Action:            session.ActionSelect,
				SelectedVariantID: item.candidate.Track.ID,
			}
			m.refreshReviewList()
			m.view = ReviewListView
		}
		return m, nil
	}

	var cmd tea.Cmd
	m.altList, cmd = m.altList.Update(msg)
	return m, cmd
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "n", "esc":
		if len(m.reviewQueue) > 0 {
			m.view = ReviewListView
		} else {
			m.view = PlaylistListView
		}
		return m, nil
	case "y":
		m.view = ExecuteView
		return m, m.startCommit()
	}
	return m, nil
}

func (m *Model) handleResultKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "r":
		m.view = PlaylistListView
		m.sess = nil
		m.export = nil
		m.reviewQueue = nil
		m.decisions = make(map[int]session.Decision)
		m.created = nil
		m.err = nil
		return m, nil
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case PlaylistListView:
		m.playlistList, cmd = m.playlistList.Update(msg)
	case ReviewListView:
		m.reviewList, cmd = m.reviewList.Update(msg)
	case AlternativesView:
		m.altList, cmd = m.altList.Update(msg)
	}
	return m, cmd
}

func (m *Model) fetchPlaylists() tea.Cmd {
	return func() tea.Msg {
		playlists, err := m.source.GetPlaylists(m.ctx)
		return playlistsFetchedMsg{playlists: playlists, err: err}
	}
}

func (m *Model) startResolution(pl models.Playlist) tea.Cmd {
	m.sess = session.New(m.source.Name(), "", pl.Name)
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan resolutionDoneMsg, 1)

	go func() {
		export, results, err := m.engine.ResolvePlaylist(m.ctx, m.progressChan, pl.ID)
		done <- resolutionDoneMsg{export: export, results: results, err: err}
		close(m.progressChan)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) handleResolutionDone(msg resolutionDoneMsg) (tea.Model, tea.Cmd) {
	m.progressChan = nil
	if msg.err != nil {
		m.err = msg.err
		m.sess.Fail(msg.err)
		m.view = ResultView
		return m, nil
	}

	m.export = msg.export
	if err := m.sess.SetResults(msg.export, msg.results); err != nil {
		m.err = err
		m.view = ResultView
		return m, nil
	}

	m.reviewQueue = nil
	for i, res := range msg.results {
		if res.NeedsReview {
			m.reviewQueue = append(m.reviewQueue, i)
		}
	}

	if len(m.reviewQueue) == 0 {
		m.view = ConfirmView
		return m, nil
	}

	m.reviewList = list.New(nil, list.NewDefaultDelegate(), m.width-4, m.height-8)
	m.reviewList.Title = fmt.Sprintf("Review %d Ambiguous Tracks", len(m.reviewQueue))
	m.refreshReviewList()
	m.view = ReviewListView
	return m, nil
}

func (m *Model) refreshReviewList() {
	items := make([]list.Item, len(m.reviewQueue))
	for i, idx := range m.reviewQueue {
		status := "pending"
		if d, ok := m.decisions[idx]; ok {
			if d.Action == session.ActionSelect {
				status = "selected"
			} else {
				status = "skipped"
			}
		}
		items[i] = reviewItem{index: idx, result: m.sess.Results[idx], status: status}
	}
	m.reviewList.SetItems(items)
}

func (m *Model) openAlternatives(item reviewItem) {
	m.activeReview = item.index
	items := make([]list.Item, len(item.result.Alternatives))
	for i, alt := range item.result.Alternatives {
		items[i] = candidateItem{candidate: alt}
	}
	m.altList = list.New(items, list.NewDefaultDelegate(), m.width-4, m.height-8)
	m.altList.Title = fmt.Sprintf("Candidates for '%s'", item.result.Source.Title)
}

func (m *Model) startCommit() tea.Cmd {
	decisions := make([]session.Decision, 0, len(m.decisions))
	for _, d := range m.decisions {
		decisions = append(decisions, d)
	}

	if m.sess.Status() == session.StatusNeedsReview {
		if err := m.sess.SubmitDecisions(decisions); err != nil {
			m.err = err
			m.view = ResultView
			return nil
		}
	}
	if err := m.sess.BeginExecution(); err != nil {
		m.err = err
		m.view = ResultView
		return nil
	}

	ids := m.sess.CommitList()
	name := m.sess.DestName
	m.progressChan = make(chan tasks.ProgressUpdate, 50)
	done := make(chan commitDoneMsg, 1)

	go func() {
		pl, err := m.engine.CommitTracks(m.ctx, m.progressChan, name, fmt.Sprintf("Transferred from %s", m.source.Name()), ids)
		done <- commitDoneMsg{playlist: pl, err: err}
		close(m.progressChan)
	}()

	return tea.Batch(m.waitForProgress(), func() tea.Msg { return <-done })
}

func (m *Model) waitForProgress() tea.Cmd {
	ch := m.progressChan
	return func() tea.Msg {
		if ch == nil {
			return nil
		}
		update, ok := <-ch
		if !ok {
			return nil
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderList(l list.Model, bindings ...key.Binding) string {
	bindings = append(bindings, m.keys.quit)
	return fmt.Sprintf("%s\n\n%s", l.View(), m.help.ShortHelpView(bindings))
}

func (m *Model) renderProgress(title string) string {
	header := styles.title.Render(title)
	if m.progress.Total > 1 {
		return fmt.Sprintf("%s\n\n[%d/%d] %s", header, m.progress.Step, m.progress.Total, m.progress.Message)
	}
	return fmt.Sprintf("%s\n\n%s", header, m.progress.Message)
}

func (m *Model) renderConfirm() string {
	sum := m.sess.Summarize()
	title := styles.title.Render(fmt.Sprintf("Commit '%s'?", sum.Playlist))

	selected := 0
	for _, d := range m.decisions {
		if d.Action == session.ActionSelect {
			selected++
		}
	}
	info := fmt.Sprintf(
		"\nAuto-matched: %d\nReviewed picks: %d\nSkipped: %d\nUnavailable: %d\n",
		sum.AutoMatched, selected, sum.NeedsReview-selected, sum.Unavailable,
	)

	helpView := m.help.ShortHelpView([]key.Binding{m.keys.yes, m.keys.no, m.keys.quit})
	return fmt.Sprintf("%s\n%s\n%s", title, info, helpView)
}

func (m *Model) renderResult() string {
	helpView := m.help.ShortHelpView([]key.Binding{m.keys.restart, m.keys.quit})

	if m.err != nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render(fmt.Sprintf("Transfer failed: %v", m.err)), helpView)
	}
	if m.created == nil {
		return fmt.Sprintf("%s\n\n%s", styles.err.Render("No result available"), helpView)
	}

	sum := m.sess.Summarize()
	title := styles.ok.Render("Transfer Complete")
	info := fmt.Sprintf(
		"\nSource: %s (%d tracks)\nCreated: %s (ID: %s)\nAuto-matched: %d, unavailable: %d",
		sum.Playlist, sum.Total, m.created.Name, m.created.ID, sum.AutoMatched, sum.Unavailable,
	)

	var warn string
	if sum.Unavailable > 0 {
		warn = "\n\n" + styles.warn.Render(fmt.Sprintf("%d tracks could not be matched:", sum.Unavailable))
		for _, res := range m.sess.Results {
			if res.Unavailable {
				warn += fmt.Sprintf("\n  • %s - %s", res.Source.Artist, res.Source.Title)
			}
		}
	}

	return fmt.Sprintf("%s\n%s%s\n\n%s", title, info, warn, helpView)
}
