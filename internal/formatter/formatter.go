// package formatter provides functions to export generation results to various formats (CSV, Markdown, plain text)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/shared"
	"github.com/bmckenna/saylist/internal/tasks"
)

// OutcomesToCSV converts resolution outcomes to CSV with columns: Word, Status, Title, Artists, URI, Query
func OutcomesToCSV(outcomes []models.ResolutionOutcome) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Word", "Status", "Title", "Artists", "URI", "Query"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, outcome := range outcomes {
		record := []string{outcome.Term.Raw, outcome.Kind.String(), "", "", "", outcome.Query}
		if outcome.Track != nil {
			record[2] = outcome.Track.Title
			record[3] = strings.Join(outcome.Track.Artists, "; ")
			record[4] = outcome.Track.URI
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

// ResultToMarkdown converts a generation result to Markdown
func ResultToMarkdown(result *tasks.GenerateResult) ([]byte, error) {
	var buf bytes.Buffer

	title := result.Sentence
	if result.Playlist != nil && result.Playlist.ExternalURL != "" {
		buf.WriteString(fmt.Sprintf("# [%s](%s)\n\n", title, result.Playlist.ExternalURL))
	} else {
		buf.WriteString(fmt.Sprintf("# %s\n\n", title))
	}

	buf.WriteString(fmt.Sprintf("**Matched**: %d/%d (%.0f%%)\n\n", result.MatchedCount, len(result.Outcomes), result.MatchPercentage))

	buf.WriteString("## Words\n\n")
	for i, outcome := range result.Outcomes {
		switch outcome.Kind {
		case models.Matched:
			artists := strings.Join(outcome.Track.Artists, ", ")
			buf.WriteString(fmt.Sprintf("%d. ✓ %s → %s - %s\n", i+1, outcome.Term.Raw, artists, outcome.Track.Title))
		case models.NoMatch:
			buf.WriteString(fmt.Sprintf("%d. ✗ %s → no match\n", i+1, outcome.Term.Raw))
		default:
			buf.WriteString(fmt.Sprintf("%d. ! %s → lookup failed\n", i+1, outcome.Term.Raw))
		}
	}

	return buf.Bytes(), nil
}

// ResultToText converts a generation result to plain text
func ResultToText(result *tasks.GenerateResult) ([]byte, error) {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Sentence: %s\n", result.Sentence))
	buf.WriteString(fmt.Sprintf("Matched: %d/%d\n", result.MatchedCount, len(result.Outcomes)))
	if result.Playlist != nil {
		buf.WriteString(fmt.Sprintf("Playlist: %s\n", result.Playlist.ExternalURL))
	}
	buf.WriteString("\n")

	for i, outcome := range result.Outcomes {
		switch outcome.Kind {
		case models.Matched:
			artists := strings.Join(outcome.Track.Artists, ", ")
			buf.WriteString(fmt.Sprintf("%d. %s: %s - %s\n", i+1, outcome.Term.Raw, artists, outcome.Track.Title))
		case models.NoMatch:
			buf.WriteString(fmt.Sprintf("%d. %s: (no match)\n", i+1, outcome.Term.Raw))
		default:
			buf.WriteString(fmt.Sprintf("%d. %s: (lookup failed)\n", i+1, outcome.Term.Raw))
		}
	}

	return buf.Bytes(), nil
}

// HistoryToText renders playlist history records as aligned plain text rows
func HistoryToText(records []*models.PlaylistRecord) []byte {
	var buf bytes.Buffer

	if len(records) == 0 {
		buf.WriteString("No playlists generated yet.\n")
		return buf.Bytes()
	}

	for _, record := range records {
		buf.WriteString(fmt.Sprintf("#%d %s\n", record.Sequence(), record.Name()))
		buf.WriteString(fmt.Sprintf("    Sentence: %s\n", record.Sentence()))
		buf.WriteString(fmt.Sprintf("    Matched: %s of %s words, %s\n",
			strconv.Itoa(record.MatchedCount()), strconv.Itoa(record.TrackCount()),
			shared.VisibilityString(record.Public())))
		if record.URL() != "" {
			buf.WriteString(fmt.Sprintf("    URL: %s\n", record.URL()))
		}
		buf.WriteString(fmt.Sprintf("    Created: %s\n", record.CreatedAt().Format("2006-01-02 15:04")))
	}

	return buf.Bytes()
}

// WriteFile writes formatted output to path, creating parent directories as needed
func WriteFile(path string, data []byte) error {
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write output file: %w", err)
	}
	return nil
}
