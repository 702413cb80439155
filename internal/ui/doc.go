// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for transferring a playlist with
// human review of ambiguous matches:
//  1. [PlaylistListView] : Browse and select a source playlist
//  2. [ResolveView] : Monitor track resolution progress
//  3. [ReviewListView] : Walk the tracks that need a decision
//  4. [AlternativesView] : Pick a candidate or skip the track
//  5. [ConfirmView] : Confirm the commit
//  6. [ExecuteView] : Monitor playlist creation
//  7. [ResultView] : Display the outcome
//
// The [Model] implements bubbletea's standard Init/Update/View pattern.
// Progress updates flow through a channel from the TransferEngine, providing
// non-blocking status reporting during resolution and commit.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, y/n, q) with
// contextual help displayed via charmbracelet/bubbles/help.
package ui
