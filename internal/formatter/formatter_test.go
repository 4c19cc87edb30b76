package formatter

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bmckenna/saylist/internal/models"
	"github.com/bmckenna/saylist/internal/tasks"
)

func sampleResult() *tasks.GenerateResult {
	hello := models.TrackRef{
		ID:      "t1",
		Title:   "Hello",
		Artists: []string{"Adele"},
		URI:     "spotify:track:t1",
	}
	return &tasks.GenerateResult{
		Sentence: "hello zzzxq",
		Outcomes: []models.ResolutionOutcome{
			{Term: models.SearchTerm{Raw: "hello", Normalized: "hello"}, Kind: models.Matched, Track: &hello, Exact: true, Query: `track:"hello"`},
			{Term: models.SearchTerm{Raw: "zzzxq", Normalized: "zzzxq"}, Kind: models.NoMatch},
		},
		MatchedCount:    1,
		NoMatchCount:    1,
		MatchPercentage: 50,
		Playlist:        &models.PlaylistHandle{ID: "pl1", ExternalURL: "https://example.com/pl1"},
		State:           tasks.StateDone,
	}
}

func TestOutcomesToCSV(t *testing.T) {
	data, err := OutcomesToCSV(sampleResult().Outcomes)
	if err != nil {
		t.Fatalf("OutcomesToCSV failed: %v", err)
	}

	records, err := csv.NewReader(strings.NewReader(string(data))).ReadAll()
	if err != nil {
		t.Fatalf("output is not valid CSV: %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("expected header plus 2 rows, got %d", len(records))
	}
	if records[1][0] != "hello" || records[1][1] != "matched" || records[1][2] != "Hello" {
		t.Errorf("unexpected matched row %v", records[1])
	}
	if records[2][1] != "no_match" || records[2][2] != "" {
		t.Errorf("unexpected miss row %v", records[2])
	}
}

func TestResultToText(t *testing.T) {
	data, err := ResultToText(sampleResult())
	if err != nil {
		t.Fatalf("ResultToText failed: %v", err)
	}
	text := string(data)

	for _, want := range []string{"hello zzzxq", "Matched: 1/2", "Adele - Hello", "(no match)", "https://example.com/pl1"} {
		if !strings.Contains(text, want) {
			t.Errorf("output missing %q:\n%s", want, text)
		}
	}
}

func TestResultToMarkdown(t *testing.T) {
	data, err := ResultToMarkdown(sampleResult())
	if err != nil {
		t.Fatalf("ResultToMarkdown failed: %v", err)
	}
	text := string(data)

	if !strings.HasPrefix(text, "# [hello zzzxq](https://example.com/pl1)") {
		t.Errorf("expected linked title, got %q", strings.SplitN(text, "\n", 2)[0])
	}
	if !strings.Contains(text, "✓ hello") || !strings.Contains(text, "✗ zzzxq") {
		t.Errorf("missing outcome markers:\n%s", text)
	}
}

func TestHistoryToText(t *testing.T) {
	t.Run("empty history", func(t *testing.T) {
		text := string(HistoryToText(nil))
		if !strings.Contains(text, "No playlists") {
			t.Errorf("unexpected empty output %q", text)
		}
	})

	t.Run("renders records", func(t *testing.T) {
		record := models.NewPlaylistRecord("sp1", "user1", "greeting", "", "hello world", 2, 2, false, "https://example.com/pl")
		record.SetSequence(4)

		text := string(HistoryToText([]*models.PlaylistRecord{record}))
		for _, want := range []string{"#4 greeting", "hello world", "2 of 2", "https://example.com/pl"} {
			if !strings.Contains(text, want) {
				t.Errorf("output missing %q:\n%s", want, text)
			}
		}
	})
}

func TestWriteFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "nested", "out.txt")

	if err := WriteFile(path, []byte("hello")); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read back failed: %v", err)
	}
	if string(data) != "hello" {
		t.Errorf("unexpected contents %q", data)
	}
}
