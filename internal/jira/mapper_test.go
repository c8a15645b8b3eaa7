package jira

import (
	"testing"
)

func TestFlattenChangelog_OneRowPerItem(t *testing.T) {
	histories := []HistoryDTO{
		{
			ID:      "100",
			Created: "2024-03-20T10:00:00.000+0000",
			Author:  AuthorDTO{AccountID: "acc-1", DisplayName: "Jane"},
			Items: []ItemDTO{
				{Field: "status", FieldType: "jira", From: "1", FromString: "Open", To: "3", ToString: "In Progress"},
				{Field: "assignee", FieldType: "jira", FromString: "", ToString: "Jane"},
			},
		},
	}

	rows := FlattenChangelog("ABC-1", histories)

	if len(rows) != 2 {
		t.Fatalf("Expected 2 flattened rows, got %d", len(rows))
	}
	first := rows[0]
	if first.ID != "100" || first.IssueKey != "ABC-1" || first.Field != "status" {
		t.Errorf("Unexpected row: %+v", first)
	}
	if first.AuthorDisplayName != "Jane" || first.FromString != "Open" || first.ToString != "In Progress" {
		t.Errorf("Row lost values: %+v", first)
	}
	if rows[1].Field != "assignee" {
		t.Errorf("Second item should keep its field, got %q", rows[1].Field)
	}
}

func TestFlattenChangelog_DropsUnparseableTimestamps(t *testing.T) {
	histories := []HistoryDTO{
		{ID: "1", Created: "garbage", Items: []ItemDTO{{Field: "status"}}},
		{ID: "2", Created: "2024-03-20T10:00:00.000+0000", Items: []ItemDTO{{Field: "status"}}},
	}

	rows := FlattenChangelog("ABC-2", histories)

	if len(rows) != 1 || rows[0].ID != "2" {
		t.Errorf("Only the parseable entry should survive, got %+v", rows)
	}
}

func TestExtractLinks_Directions(t *testing.T) {
	raw := []byte(`{
		"issuelinks": [
			{"type": {"name": "Blocks"}, "outwardIssue": {"key": "ABC-9"}},
			{"type": {"name": "Relates"}, "inwardIssue": {"key": "ABC-7"}}
		]
	}`)

	links := ExtractLinks("ABC-1", raw)

	if len(links) != 2 {
		t.Fatalf("Expected 2 links, got %d", len(links))
	}
	if links[0].SourceIssueKey != "ABC-1" || links[0].TargetIssueKey != "ABC-9" || links[0].LinkType != "Blocks" {
		t.Errorf("Unexpected outward link: %+v", links[0])
	}
	if links[1].SourceIssueKey != "ABC-7" || links[1].TargetIssueKey != "ABC-1" {
		t.Errorf("Inward link should point at this issue: %+v", links[1])
	}
}

func TestExtractLinks_NoLinks(t *testing.T) {
	if links := ExtractLinks("ABC-1", []byte(`{"summary": "x"}`)); links != nil {
		t.Errorf("Expected no links, got %+v", links)
	}
}
