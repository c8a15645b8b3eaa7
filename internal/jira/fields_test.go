package jira

import (
	"errors"
	"testing"
	"time"
)

func TestProjectFields_HappyPath(t *testing.T) {
	raw := []byte(`{
		"created": "2024-03-20T10:00:00.000+0000",
		"updated": "2024-03-21T09:30:00.000+0000",
		"summary": "Fix the widget",
		"status": {"name": "In Progress"},
		"issuetype": {"name": "Bug"},
		"assignee": {"displayName": "Jane Doe"}
	}`)

	fields, err := ProjectFields("ABC-1", raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	want := time.Date(2024, 3, 20, 10, 0, 0, 0, time.UTC)
	if !fields.Created.Equal(want) {
		t.Errorf("Created = %v, want %v", fields.Created, want)
	}
	if fields.Status != "In Progress" || fields.IssueType != "Bug" {
		t.Errorf("Unexpected projection: %+v", fields)
	}
	if fields.Summary != "Fix the widget" || fields.Assignee != "Jane Doe" {
		t.Errorf("Best-effort fields lost: %+v", fields)
	}
}

func TestProjectFields_MissingCreated(t *testing.T) {
	raw := []byte(`{"status": {"name": "Open"}, "issuetype": {"name": "Bug"}}`)

	_, err := ProjectFields("ABC-2", raw)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingFieldError, got %v", err)
	}
	if missing.Path != "created" || missing.IssueKey != "ABC-2" {
		t.Errorf("Unexpected error details: %+v", missing)
	}
}

func TestProjectFields_MissingStatusName(t *testing.T) {
	raw := []byte(`{"created": "2024-03-20T10:00:00.000+0000", "issuetype": {"name": "Bug"}}`)

	_, err := ProjectFields("ABC-3", raw)
	var missing *MissingFieldError
	if !errors.As(err, &missing) {
		t.Fatalf("Expected MissingFieldError, got %v", err)
	}
	if missing.Path != "status.name" {
		t.Errorf("Expected status.name missing, got %q", missing.Path)
	}
}

func TestProjectFields_UnparseableCreated(t *testing.T) {
	raw := []byte(`{
		"created": "not-a-timestamp",
		"status": {"name": "Open"},
		"issuetype": {"name": "Bug"}
	}`)

	if _, err := ProjectFields("ABC-4", raw); err == nil {
		t.Fatal("Expected an error for an unparseable created timestamp")
	}
}

func TestProjectFields_NullAssignee(t *testing.T) {
	raw := []byte(`{
		"created": "2024-03-20T10:00:00.000+0000",
		"status": {"name": "Open"},
		"issuetype": {"name": "Bug"},
		"assignee": null
	}`)

	fields, err := ProjectFields("ABC-5", raw)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if fields.Assignee != "" {
		t.Errorf("Null assignee should project to empty, got %q", fields.Assignee)
	}
}
