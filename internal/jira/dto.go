package jira

import (
	"encoding/json"
	"time"
)

// SearchResponse is the top-level container for JIRA search results.
type SearchResponse struct {
	StartAt    int        `json:"startAt"`
	MaxResults int        `json:"maxResults"`
	Total      int        `json:"total"`
	Issues     []IssueDTO `json:"issues"`
}

// IssueDTO represents a single issue in the JIRA search response. Fields is
// kept raw: the warehouse stores the whole bag and the projection layer
// extracts the few paths the pipeline needs.
type IssueDTO struct {
	ID     string          `json:"id"`
	Key    string          `json:"key"`
	Fields json.RawMessage `json:"fields"`
}

// issueWithChangelog is the shape returned by /issue/{key}?expand=changelog.
type issueWithChangelog struct {
	Key       string        `json:"key"`
	Changelog *ChangelogDTO `json:"changelog"`
}

// ChangelogDTO contains historical field changes. API v2 nests them under
// "histories"; the dedicated v3 endpoint returns pages of "values".
type ChangelogDTO struct {
	StartAt    int          `json:"startAt"`
	MaxResults int          `json:"maxResults"`
	Total      int          `json:"total"`
	Histories  []HistoryDTO `json:"histories"`
	Values     []HistoryDTO `json:"values"`
}

// HistoryDTO is a single entry in the changelog.
type HistoryDTO struct {
	ID      string    `json:"id"`
	Created string    `json:"created"`
	Author  AuthorDTO `json:"author"`
	Items   []ItemDTO `json:"items"`
}

// AuthorDTO identifies who made a change.
type AuthorDTO struct {
	AccountID   string `json:"accountId"`
	DisplayName string `json:"displayName"`
}

// ItemDTO is a single field change within a history entry.
type ItemDTO struct {
	Field      string `json:"field"`
	FieldType  string `json:"fieldtype"`
	From       string `json:"from"`
	FromString string `json:"fromString"`
	To         string `json:"to"`
	ToString   string `json:"toString"`
}

// ParseTime is a helper for the strict JIRA time format.
func ParseTime(s string) (time.Time, error) {
	return time.Parse("2006-01-02T15:04:05.000-0700", s)
}
