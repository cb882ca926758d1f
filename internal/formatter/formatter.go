// package formatter renders journal history as plain text, CSV or JSON
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strconv"
	"time"

	"github.com/desertthunder/galx/internal/models"
	"github.com/desertthunder/galx/internal/shared"
	"github.com/dustin/go-humanize"
)

// Format selects the rendering used by the history command.
type Format string

const (
	FormatText Format = "text"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format value. Empty means text.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case "", FormatText:
		return FormatText, nil
	case FormatCSV, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("%w: unknown format %q (text, csv, json)", shared.ErrInvalidArgument, s)
	}
}

// RunsToText lists runs one per line with relative start times measured from now.
func RunsToText(runs []models.Run, now time.Time) []byte {
	var buf bytes.Buffer

	if len(runs) == 0 {
		buf.WriteString("No runs recorded.\n")
		return buf.Bytes()
	}

	buf.WriteString(fmt.Sprintf("Runs: %s\n\n", humanize.Comma(int64(len(runs)))))
	for _, run := range runs {
		buf.WriteString(fmt.Sprintf("%s  %-4s  %s items, %s failed  started %s%s\n",
			run.ID,
			run.Kind,
			humanize.Comma(int64(run.Items)),
			humanize.Comma(int64(run.Failures)),
			humanize.RelTime(run.StartedAt, now, "ago", "from now"),
			runStatus(run),
		))
		if run.Target != "" || run.Params != "" {
			buf.WriteString(fmt.Sprintf("      target: %q  %s\n", run.Target, run.Params))
		}
	}

	return buf.Bytes()
}

// RunToText renders a single run followed by its changes in sequence order.
func RunToText(run *models.Run, changes []models.Change) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Run: %s (%s)\n", run.ID, run.Kind))
	if run.Target != "" {
		buf.WriteString(fmt.Sprintf("Target: %s\n", run.Target))
	}
	if run.Params != "" {
		buf.WriteString(fmt.Sprintf("Params: %s\n", run.Params))
	}
	buf.WriteString(fmt.Sprintf("Started: %s\n", run.StartedAt.Format(time.RFC3339)))
	if run.FinishedAt != nil {
		buf.WriteString(fmt.Sprintf("Finished: %s (%s)\n", run.FinishedAt.Format(time.RFC3339), run.Duration().Round(time.Millisecond)))
	}
	buf.WriteString(fmt.Sprintf("Items: %s, failed: %s\n\n",
		humanize.Comma(int64(run.Items)), humanize.Comma(int64(run.Failures))))

	if len(changes) == 0 {
		buf.WriteString("No changes recorded.\n")
		return buf.Bytes()
	}

	for _, c := range changes {
		line := fmt.Sprintf("%s. item %d %s", humanize.Ordinal(c.Sequence), c.ItemID, c.Action)
		if c.MediaID != 0 {
			line += fmt.Sprintf(" media %d", c.MediaID)
		}
		if c.Status != 0 {
			line += fmt.Sprintf(" (status %d)", c.Status)
		}
		if c.Message != "" {
			line += ": " + c.Message
		}
		buf.WriteString(line + "\n")
	}

	return buf.Bytes()
}

// ChangesToCSV converts changes to CSV with columns: Sequence, Item, Media, Action, Status, Message, Created
func ChangesToCSV(changes []models.Change) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	headers := []string{"Sequence", "Item", "Media", "Action", "Status", "Message", "Created"}
	if err := writer.Write(headers); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, c := range changes {
		record := []string{
			strconv.Itoa(c.Sequence),
			strconv.FormatInt(int64(c.ItemID), 10),
			strconv.FormatInt(int64(c.MediaID), 10),
			c.Action,
			strconv.Itoa(c.Status),
			c.Message,
			c.CreatedAt.UTC().Format(time.RFC3339),
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

// RunsToCSV converts runs to CSV with columns: ID, Kind, Target, Params, Items, Failures, Started, Finished
func RunsToCSV(runs []models.Run) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"ID", "Kind", "Target", "Params", "Items", "Failures", "Started", "Finished"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, r := range runs {
		finished := ""
		if r.FinishedAt != nil {
			finished = r.FinishedAt.UTC().Format(time.RFC3339)
		}
		record := []string{
			r.ID, r.Kind, r.Target, r.Params,
			strconv.Itoa(r.Items), strconv.Itoa(r.Failures),
			r.StartedAt.UTC().Format(time.RFC3339), finished,
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

type runRecord struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Target     string     `json:"target,omitempty"`
	Params     string     `json:"params,omitempty"`
	Items      int        `json:"items"`
	Failures   int        `json:"failures"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

type changeRecord struct {
	Sequence  int       `json:"sequence"`
	ItemID    int64     `json:"item_id"`
	MediaID   int64     `json:"media_id,omitempty"`
	Action    string    `json:"action"`
	Status    int       `json:"status,omitempty"`
	Message   string    `json:"message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// ChangesToJSON renders changes as an indented JSON array.
func ChangesToJSON(changes []models.Change) ([]byte, error) {
	records := make([]changeRecord, 0, len(changes))
	for _, c := range changes {
		records = append(records, changeRecord{
			Sequence:  c.Sequence,
			ItemID:    int64(c.ItemID),
			MediaID:   int64(c.MediaID),
			Action:    c.Action,
			Status:    c.Status,
			Message:   c.Message,
			CreatedAt: c.CreatedAt.UTC(),
		})
	}
	return shared.MarshalJSON(records, true)
}

// RunsToJSON renders runs as an indented JSON array.
func RunsToJSON(runs []models.Run) ([]byte, error) {
	records := make([]runRecord, 0, len(runs))
	for _, r := range runs {
		records = append(records, runRecord{
			ID:         r.ID,
			Kind:       r.Kind,
			Target:     r.Target,
			Params:     r.Params,
			Items:      r.Items,
			Failures:   r.Failures,
			StartedAt:  r.StartedAt.UTC(),
			FinishedAt: r.FinishedAt,
		})
	}
	return shared.MarshalJSON(records, true)
}

func runStatus(run models.Run) string {
	if run.FinishedAt == nil {
		return " (in progress)"
	}
	return ""
}
