package report

import (
	"testing"
	"time"

	"chainflow/internal/chain"
	"chainflow/internal/jira"
)

func TestBuild_WindowsAndStatusAxis(t *testing.T) {
	base := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	events := []chain.Event{
		{IssueKey: "ABC-1", Created: base, Field: "status", FromString: "Open", ToString: "Dev"},
		{IssueKey: "ABC-1", Created: base.Add(2 * time.Hour), Field: "status", FromString: "Dev", ToString: "Open"},
		{IssueKey: "ABC-1", Created: base.Add(3 * time.Hour), Field: "status", FromString: "Open", ToString: "Dev"},
		{IssueKey: "ABC-1", Created: base.Add(5 * time.Hour), Field: "status", FromString: "Dev", ToString: "Done"},
		{IssueKey: "ABC-1", Created: base.Add(time.Hour), Field: "assignee", FromString: "a", ToString: "b"},
	}
	fields := map[string]jira.IssueFields{
		"ABC-1": {Summary: "Fix it", Status: "Done", IssueType: "Bug", Assignee: "Jane"},
	}

	rep := Build(events, fields)

	wantAxis := []string{"Dev", "Done", "Open"}
	if len(rep.Statuses) != len(wantAxis) {
		t.Fatalf("Unexpected status axis: %v", rep.Statuses)
	}
	for i := range wantAxis {
		if rep.Statuses[i] != wantAxis[i] {
			t.Errorf("Status axis not sorted: %v", rep.Statuses)
		}
	}

	if len(rep.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rep.Rows))
	}
	row := rep.Rows[0]
	if row.Summary != "Fix it" || row.CurrentStatus != "Done" || row.Assignee != "Jane" {
		t.Errorf("Descriptive columns lost: %+v", row)
	}

	dev := row.Windows["Dev"]
	if !dev.Min.Equal(base) {
		t.Errorf("Dev min should be first entry, got %v", dev.Min)
	}
	if !dev.Max.Equal(base.Add(3 * time.Hour)) {
		t.Errorf("Dev max should be last entry, got %v", dev.Max)
	}
	if _, ok := row.Windows["assignee-change"]; ok {
		t.Error("Non-status fields must not contribute windows")
	}
}

func TestBuild_IssueWithoutFieldsStillListed(t *testing.T) {
	base := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	events := []chain.Event{
		{IssueKey: "ABC-2", Created: base, Field: "status", FromString: "Open", ToString: "Done"},
	}

	rep := Build(events, nil)

	if len(rep.Rows) != 1 {
		t.Fatalf("Expected 1 row, got %d", len(rep.Rows))
	}
	if rep.Rows[0].Key != "ABC-2" || rep.Rows[0].CurrentStatus != "" {
		t.Errorf("Unexpected row: %+v", rep.Rows[0])
	}
}

func TestBuild_EmptyInput(t *testing.T) {
	rep := Build(nil, nil)
	if len(rep.Statuses) != 0 || len(rep.Rows) != 0 {
		t.Errorf("Empty input should yield an empty report: %+v", rep)
	}
}

func TestBuild_RowsSortedByKey(t *testing.T) {
	base := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)

	events := []chain.Event{
		{IssueKey: "ZZZ-1", Created: base, Field: "status", ToString: "Done"},
		{IssueKey: "AAA-1", Created: base, Field: "status", ToString: "Done"},
	}

	rep := Build(events, nil)

	if len(rep.Rows) != 2 || rep.Rows[0].Key != "AAA-1" || rep.Rows[1].Key != "ZZZ-1" {
		t.Errorf("Rows should be sorted by key: %+v", rep.Rows)
	}
}
