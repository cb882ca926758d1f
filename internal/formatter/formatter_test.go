package formatter

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	tu "github.com/desertthunder/galx/internal/testing"
)

var started = time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)

func testRuns() []models.Run {
	finished := started.Add(90 * time.Second)
	return []models.Run{
		{ID: "run-2", Kind: "bulk", Items: 1500, Failures: 3, StartedAt: started.Add(time.Hour)},
		{ID: "run-1", Kind: "once", Target: "Summer Banner", Params: "batch=10 order=desc", Items: 10, StartedAt: started, FinishedAt: &finished},
	}
}

func testChanges() []models.Change {
	return []models.Change{
		{Sequence: 1, ItemID: 101, MediaID: 55, Action: "added", Status: 200, Message: "Product 101 - Total images: 3", CreatedAt: started},
		{Sequence: 2, ItemID: 102, Action: "failed", Status: 400, Message: "Failed, with comma", CreatedAt: started.Add(time.Second)},
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    Format
		wantErr bool
	}{
		{"", FormatText, false},
		{"text", FormatText, false},
		{"csv", FormatCSV, false},
		{"json", FormatJSON, false},
		{"yaml", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ParseFormat(tt.in)
			if tt.wantErr {
				if !errors.Is(err, shared.ErrInvalidArgument) {
					t.Errorf("expected ErrInvalidArgument, got %v", err)
				}
				return
			}
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("expected %s, got %s", tt.want, got)
			}
		})
	}
}

func TestExporters(t *testing.T) {
	t.Run("RunsToText", func(t *testing.T) {
		now := started.Add(3 * time.Hour)
		lines := strings.Split(string(RunsToText(testRuns(), now)), "\n")

		tu.AssertContains(t, lines, "Runs: 2")
		tu.AssertContains(t, lines, "1,500 items, 3 failed")
		tu.AssertContains(t, lines, "started 2 hours ago (in progress)")
		tu.AssertContains(t, lines, "started 3 hours ago")
		tu.AssertContains(t, lines, `target: "Summer Banner"  batch=10 order=desc`)
	})

	t.Run("RunsToText empty", func(t *testing.T) {
		if got := string(RunsToText(nil, started)); got != "No runs recorded.\n" {
			t.Errorf("unexpected output: %q", got)
		}
	})

	t.Run("RunToText", func(t *testing.T) {
		runs := testRuns()
		lines := strings.Split(string(RunToText(&runs[1], testChanges())), "\n")

		tu.AssertContains(t, lines, "Run: run-1 (once)")
		tu.AssertContains(t, lines, "Target: Summer Banner")
		tu.AssertContains(t, lines, "(1m30s)")
		tu.AssertContains(t, lines, "1st. item 101 added media 55 (status 200): Product 101 - Total images: 3")
		tu.AssertContains(t, lines, "2nd. item 102 failed (status 400)")
	})

	t.Run("RunToText without changes", func(t *testing.T) {
		runs := testRuns()
		output := string(RunToText(&runs[0], nil))
		if !strings.Contains(output, "No changes recorded.") {
			t.Errorf("expected empty changes note, got: %s", output)
		}
		if strings.Contains(output, "Finished:") {
			t.Errorf("unfinished run should not show finish time")
		}
	})

	t.Run("ChangesToCSV", func(t *testing.T) {
		data, err := ChangesToCSV(testChanges())
		if err != nil {
			t.Fatalf("ChangesToCSV failed: %v", err)
		}

		output := string(data)
		if !strings.HasPrefix(output, "Sequence,Item,Media,Action,Status,Message,Created\n") {
			t.Errorf("CSV missing headers, got: %s", output)
		}
		if !strings.Contains(output, "1,101,55,added,200,Product 101 - Total images: 3,2024-05-01T12:00:00Z") {
			t.Errorf("CSV missing first change, got: %s", output)
		}
		if !strings.Contains(output, `"Failed, with comma"`) {
			t.Errorf("CSV should quote fields with commas, got: %s", output)
		}
	})

	t.Run("RunsToCSV", func(t *testing.T) {
		data, err := RunsToCSV(testRuns())
		if err != nil {
			t.Fatalf("RunsToCSV failed: %v", err)
		}
		lines := strings.Split(strings.TrimSpace(string(data)), "\n")
		if len(lines) != 3 {
			t.Fatalf("expected header and 2 rows, got %d lines", len(lines))
		}
		if !strings.HasSuffix(lines[1], "2024-05-01T13:00:00Z,") {
			t.Errorf("unfinished run should have empty finish column, got: %s", lines[1])
		}
	})

	t.Run("ChangesToJSON", func(t *testing.T) {
		data, err := ChangesToJSON(testChanges())
		if err != nil {
			t.Fatalf("ChangesToJSON failed: %v", err)
		}

		var decoded []map[string]any
		if err := json.Unmarshal(data, &decoded); err != nil {
			t.Fatalf("invalid JSON: %v", err)
		}
		if len(decoded) != 2 {
			t.Fatalf("expected 2 records, got %d", len(decoded))
		}
		if decoded[0]["item_id"] != float64(101) || decoded[0]["action"] != "added" {
			t.Errorf("unexpected first record: %v", decoded[0])
		}
		if _, ok := decoded[1]["media_id"]; ok {
			t.Errorf("zero media id should be omitted: %v", decoded[1])
		}
	})

	t.Run("ChangesToJSON empty", func(t *testing.T) {
		data, err := ChangesToJSON(nil)
		if err != nil {
			t.Fatalf("ChangesToJSON failed: %v", err)
		}
		if string(data) != "[]" {
			t.Errorf("expected empty array, got %s", data)
		}
	})

	t.Run("RunsToJSON", func(t *testing.T) {
		data, err := RunsToJSON(testRuns())
		if err != nil {
			t.Fatalf("RunsToJSON failed: %v", err)
		}
		output := string(data)
		if !strings.Contains(output, `"kind": "bulk"`) || !strings.Contains(output, `"finished_at": "2024-05-01T12:01:30Z"`) {
			t.Errorf("unexpected JSON: %s", output)
		}
	})
}
