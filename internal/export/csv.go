// Package export serializes derived datasets to CSV for downstream plotting
// tools. Files are written through a temp file and renamed into place so a
// failed run never leaves partial output behind.
package export

import (
	"encoding/csv"
	"fmt"
	"os"
	"strconv"
	"time"

	"chainflow/internal/chain"
	"chainflow/internal/report"
)

const timeLayout = "2006-01-02 15:04:05"

// ChainStepHeader is the exact column order of the Sankey dataset.
var ChainStepHeader = []string{
	"issue_key", "step", "source", "target",
	"previous_timestamp", "transition_timestamp", "duration_seconds",
	"chain_length", "issue_type", "chain", "chain_id",
}

// WriteChainSteps writes the final per-step dataset. An empty step slice
// still produces a header-only file.
func WriteChainSteps(path string, steps []chain.ChainStep) error {
	records := make([][]string, 0, len(steps)+1)
	records = append(records, ChainStepHeader)
	for _, s := range steps {
		records = append(records, []string{
			s.IssueKey,
			strconv.Itoa(s.Step),
			s.Source,
			s.Target,
			formatNullableTime(s.PreviousTimestamp),
			s.TransitionTimestamp.Format(timeLayout),
			formatNullableFloat(s.DurationSeconds),
			strconv.Itoa(s.ChainLength),
			s.IssueType,
			s.Chain,
			strconv.Itoa(s.ChainID),
		})
	}
	return writeAtomic(path, records)
}

// WriteStatusReport writes the pivoted status window report: descriptive
// columns followed by a min/max column pair per status.
func WriteStatusReport(path string, rep *report.StatusReport) error {
	header := []string{"key", "summary", "current_status", "issue_type", "assignee"}
	for _, status := range rep.Statuses {
		header = append(header, status+"_min", status+"_max")
	}

	records := make([][]string, 0, len(rep.Rows)+1)
	records = append(records, header)
	for _, row := range rep.Rows {
		record := []string{row.Key, row.Summary, row.CurrentStatus, row.IssueType, row.Assignee}
		for _, status := range rep.Statuses {
			if w, ok := row.Windows[status]; ok {
				record = append(record, w.Min.Format(timeLayout), w.Max.Format(timeLayout))
			} else {
				record = append(record, "", "")
			}
		}
		records = append(records, record)
	}
	return writeAtomic(path, records)
}

func formatNullableTime(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.Format(timeLayout)
}

func formatNullableFloat(f *float64) string {
	if f == nil {
		return ""
	}
	return strconv.FormatFloat(*f, 'f', -1, 64)
}

func writeAtomic(path string, records [][]string) error {
	tmpPath := path + ".tmp"
	file, err := os.Create(tmpPath)
	if err != nil {
		return fmt.Errorf("creating %s: %w", tmpPath, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.WriteAll(records); err != nil {
		file.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := file.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("closing %s: %w", tmpPath, err)
	}

	if err := os.Rename(tmpPath, path); err != nil {
		return fmt.Errorf("renaming %s: %w", tmpPath, err)
	}
	return nil
}
