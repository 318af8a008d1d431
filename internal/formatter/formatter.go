// package formatter renders sync results to various formats (plain text, Markdown, CSV)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/desertthunder/yt2spot/internal/tasks"
)

func outcomeLine(result *tasks.SyncResult) string {
	switch result.Outcome {
	case tasks.PlaylistCreated:
		return fmt.Sprintf("Created playlist %q (public) with %d tracks", result.Playlist.Name, len(result.Added))
	case tasks.PlaylistUpdated:
		return fmt.Sprintf("Added %d new tracks to %q", len(result.Added), result.Playlist.Name)
	default:
		return fmt.Sprintf("No new tracks to add to %q", result.Playlist.Name)
	}
}

// ReportText converts a SyncResult to a plain text report.
func ReportText(result *tasks.SyncResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(outcomeLine(result) + "\n\n")
	buf.WriteString(fmt.Sprintf("Titles extracted: %d\n", len(result.Titles)))
	buf.WriteString(fmt.Sprintf("Tracks resolved:  %d\n", len(result.Resolution.Tracks)))
	buf.WriteString(fmt.Sprintf("Titles skipped:   %d\n", len(result.Resolution.Skipped)))

	if len(result.Resolution.Tracks) > 0 {
		buf.WriteString("\nResolved tracks:\n")
		for i, track := range result.Resolution.Tracks {
			buf.WriteString(fmt.Sprintf("%d. %s - %s\n", i+1, track.Artist, track.Title))
		}
	}

	if len(result.Resolution.Skipped) > 0 {
		buf.WriteString("\nNo match found for:\n")
		for _, title := range result.Resolution.Skipped {
			buf.WriteString(fmt.Sprintf("  %s\n", title))
		}
	}

	return buf.Bytes()
}

// ReportMarkdown converts a SyncResult to a Markdown report.
func ReportMarkdown(result *tasks.SyncResult) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("# %s\n\n", result.Playlist.Name))
	buf.WriteString(fmt.Sprintf("**Outcome**: %s\n\n", outcomeLine(result)))

	buf.WriteString("## Resolved tracks\n\n")
	for i, track := range result.Resolution.Tracks {
		buf.WriteString(fmt.Sprintf("%d. %s - %s", i+1, track.Artist, track.Title))
		if track.Album != "" {
			buf.WriteString(fmt.Sprintf(" (%s)", track.Album))
		}
		buf.WriteString("\n")
	}

	if len(result.Resolution.Skipped) > 0 {
		buf.WriteString("\n## Skipped titles\n\n")
		for _, title := range result.Resolution.Skipped {
			buf.WriteString(fmt.Sprintf("- %s\n", title))
		}
	}

	return buf.Bytes()
}

// ReportCSV converts a SyncResult's resolved tracks to CSV with columns: URI, Title, Artist, Album, Added
func ReportCSV(result *tasks.SyncResult) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"URI", "Title", "Artist", "Album", "Added"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	added := make(map[string]struct{}, len(result.Added))
	for _, uri := range result.Added {
		added[uri] = struct{}{}
	}

	for _, track := range result.Resolution.Tracks {
		_, wasAdded := added[track.URI]
		record := []string{
			track.URI,
			track.Title,
			track.Artist,
			track.Album,
			fmt.Sprintf("%t", wasAdded),
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
