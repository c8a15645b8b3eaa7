package jira

import (
	"encoding/json"
	"fmt"
	"time"
)

// IssueFields is the typed projection of the raw field bag: only the paths
// the pipeline actually reads, extracted once at the boundary.
type IssueFields struct {
	Created   time.Time
	Updated   string
	Summary   string
	Status    string
	IssueType string
	Assignee  string
}

// MissingFieldError reports a required path absent from an issue's field bag.
// Callers skip the offending issue instead of aborting the run.
type MissingFieldError struct {
	IssueKey string
	Path     string
}

func (e *MissingFieldError) Error() string {
	return fmt.Sprintf("issue %s: missing field %s", e.IssueKey, e.Path)
}

// ProjectFields extracts the needed paths from a raw field bag. Created,
// status.name and issuetype.name are required; summary and assignee are
// best-effort.
func ProjectFields(issueKey string, raw []byte) (IssueFields, error) {
	var bag struct {
		Created string `json:"created"`
		Updated string `json:"updated"`
		Summary string `json:"summary"`
		Status  *struct {
			Name string `json:"name"`
		} `json:"status"`
		IssueType *struct {
			Name string `json:"name"`
		} `json:"issuetype"`
		Assignee *struct {
			DisplayName string `json:"displayName"`
		} `json:"assignee"`
	}
	if err := json.Unmarshal(raw, &bag); err != nil {
		return IssueFields{}, fmt.Errorf("issue %s: decoding field bag: %w", issueKey, err)
	}

	if bag.Created == "" {
		return IssueFields{}, &MissingFieldError{IssueKey: issueKey, Path: "created"}
	}
	created, err := ParseTime(bag.Created)
	if err != nil {
		return IssueFields{}, fmt.Errorf("issue %s: parsing created %q: %w", issueKey, bag.Created, err)
	}
	if bag.Status == nil || bag.Status.Name == "" {
		return IssueFields{}, &MissingFieldError{IssueKey: issueKey, Path: "status.name"}
	}
	if bag.IssueType == nil || bag.IssueType.Name == "" {
		return IssueFields{}, &MissingFieldError{IssueKey: issueKey, Path: "issuetype.name"}
	}

	fields := IssueFields{
		Created:   created,
		Updated:   bag.Updated,
		Summary:   bag.Summary,
		Status:    bag.Status.Name,
		IssueType: bag.IssueType.Name,
	}
	if bag.Assignee != nil {
		fields.Assignee = bag.Assignee.DisplayName
	}
	return fields, nil
}
