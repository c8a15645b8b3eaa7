// Package report derives the per-issue status dwell report: for every status
// an issue ever entered, the first and last time it arrived there.
package report

import (
	"sort"
	"time"

	"chainflow/internal/chain"
	"chainflow/internal/jira"
)

// Window is the first and last time an issue entered one status.
type Window struct {
	Min time.Time
	Max time.Time
}

// Row is one issue with its per-status entry windows.
type Row struct {
	Key           string
	Summary       string
	CurrentStatus string
	IssueType     string
	Assignee      string
	Windows       map[string]Window
}

// StatusReport is the pivoted result: a sorted status axis and one row per
// issue that has at least one status change.
type StatusReport struct {
	Statuses []string
	Rows     []Row
}

// Build folds status events and projected issue fields into the report.
// Issues without status events are absent; issues without projected fields
// still appear, with their descriptive columns empty.
func Build(events []chain.Event, fields map[string]jira.IssueFields) *StatusReport {
	statusSet := make(map[string]bool)
	type acc struct {
		windows map[string]Window
	}
	byIssue := make(map[string]*acc)

	for _, e := range events {
		if e.Field != "status" || e.ToString == "" {
			continue
		}
		statusSet[e.ToString] = true

		a, ok := byIssue[e.IssueKey]
		if !ok {
			a = &acc{windows: make(map[string]Window)}
			byIssue[e.IssueKey] = a
		}
		w, seen := a.windows[e.ToString]
		if !seen {
			a.windows[e.ToString] = Window{Min: e.Created, Max: e.Created}
			continue
		}
		if e.Created.Before(w.Min) {
			w.Min = e.Created
		}
		if e.Created.After(w.Max) {
			w.Max = e.Created
		}
		a.windows[e.ToString] = w
	}

	statuses := make([]string, 0, len(statusSet))
	for s := range statusSet {
		statuses = append(statuses, s)
	}
	sort.Strings(statuses)

	keys := make([]string, 0, len(byIssue))
	for key := range byIssue {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	rows := make([]Row, 0, len(keys))
	for _, key := range keys {
		row := Row{Key: key, Windows: byIssue[key].windows}
		if f, ok := fields[key]; ok {
			row.Summary = f.Summary
			row.CurrentStatus = f.Status
			row.IssueType = f.IssueType
			row.Assignee = f.Assignee
		}
		rows = append(rows, row)
	}

	return &StatusReport{Statuses: statuses, Rows: rows}
}
