// package formatter renders transfer reports to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"strconv"

	"github.com/desertthunder/crossfade/internal/models"
	"github.com/desertthunder/crossfade/internal/shared"
	"github.com/desertthunder/crossfade/internal/tasks"
)

// resultStatus labels a resolution outcome for report rows.
func resultStatus(res models.ResolutionResult) string {
	switch {
	case res.NeedsReview:
		return "needs_review"
	case res.Unavailable:
		return "unavailable"
	case res.Match != nil:
		return "matched"
	default:
		return "skipped"
	}
}

// ReportToCSV renders per-track resolution results as CSV.
//
// Columns: Title, Artist, Album, ISRC, Status, Method, Matched ID, Matched Title, Score, Confidence
func ReportToCSV(results []models.ResolutionResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Title", "Artist", "Album", "ISRC", "Status", "Method", "Matched ID", "Matched Title", "Score", "Confidence"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, res := range results {
		record := []string{
			res.Source.Title,
			res.Source.Artist,
			res.Source.Album,
			res.Source.ISRC,
			resultStatus(res),
			res.MatchMethod,
			"", "", "", "",
		}
		if res.Match != nil {
			record[6] = res.Match.Track.ID
			record[7] = res.Match.Track.Title
			record[8] = strconv.FormatFloat(res.Match.Score.Total, 'f', 1, 64)
			record[9] = string(res.Match.Score.Confidence)
		}
		if err := writer.Write(record); err != nil {
			return nil, fmt.Errorf("failed to write CSV record: %w", err)
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ReportToMarkdown renders a transfer run as a Markdown document.
func ReportToMarkdown(result *tasks.TransferRunResult) ([]byte, error) {
	if result == nil || result.SourcePlaylist == nil {
		return nil, fmt.Errorf("no transfer result to render")
	}

	var buf bytes.Buffer
	buf.WriteString(fmt.Sprintf("# Transfer Report: %s\n\n", result.SourcePlaylist.Playlist.Name))

	if result.DestPlaylist != nil {
		buf.WriteString(fmt.Sprintf("**Created**: %s (`%s`)\n\n", result.DestPlaylist.Name, result.DestPlaylist.ID))
	}

	buf.WriteString(fmt.Sprintf("**Tracks**: %d\n", result.TotalTracks))
	buf.WriteString(fmt.Sprintf("**Auto-matched**: %d (%.1f%%)\n", result.AutoMatched, result.MatchPercentage))
	buf.WriteString(fmt.Sprintf("**Needs review**: %d\n", result.NeedsReview))
	buf.WriteString(fmt.Sprintf("**Unavailable**: %d\n\n", result.Unavailable))

	buf.WriteString("## Tracks\n\n")
	for i, res := range result.Results {
		duration := shared.FormatDurationMS(res.Source.DurationMS)
		line := fmt.Sprintf("%d. %s - %s [%s] • %s", i+1, res.Source.Artist, res.Source.Title, duration, resultStatus(res))
		if res.Match != nil {
			line += fmt.Sprintf(" (score %.0f, %s)", res.Match.Score.Total, res.Match.Score.Confidence)
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes(), nil
}

// ReportToText renders per-track resolution results as plain text, one line
// per track.
func ReportToText(results []models.ResolutionResult) ([]byte, error) {
	var buf bytes.Buffer

	for i, res := range results {
		buf.WriteString(fmt.Sprintf("%d. %s - %s: %s", i+1, res.Source.Artist, res.Source.Title, resultStatus(res)))
		if res.Match != nil {
			buf.WriteString(fmt.Sprintf(" -> %s (%.0f)", res.Match.Track.Title, res.Match.Score.Total))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes(), nil
}

// ReportToJSON renders the full transfer run as indented JSON.
func ReportToJSON(result *tasks.TransferRunResult) ([]byte, error) {
	return shared.MarshalJSON(result, true)
}

// WriteReport writes a transfer report to path in the given format
// (csv, markdown, txt, or json; json is the default).
func WriteReport(result *tasks.TransferRunResult, format, path string) error {
	if path == "" {
		return fmt.Errorf("report path is required")
	}

	var data []byte
	var err error
	switch format {
	case "csv":
		data, err = ReportToCSV(result.Results)
	case "markdown", "md":
		data, err = ReportToMarkdown(result)
	case "txt", "text":
		data, err = ReportToText(result.Results)
	case "json", "":
		data, err = ReportToJSON(result)
	default:
		return fmt.Errorf("unknown report format %q", format)
	}
	if err != nil {
		return fmt.Errorf("failed to render report: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write report: %w", err)
	}
	return nil
}
