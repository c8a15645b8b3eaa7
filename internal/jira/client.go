// Package jira talks to the JIRA REST API and projects its semi-structured
// payloads into the typed rows the warehouse stores.
package jira

import (
	"fmt"
	"strings"
)

// Client is the interface for interacting with JIRA.
type Client interface {
	// SearchIssues runs a paginated JQL search returning raw field bags.
	SearchIssues(jql string, startAt int, maxResults int) (*SearchResponse, error)
	// IssueChangelog returns the complete changelog for one issue.
	IssueChangelog(issueKey string) ([]HistoryDTO, error)
}

// Config holds the connection and authentication settings for JIRA.
type Config struct {
	// BaseURL of the JIRA instance, always with a trailing slash.
	BaseURL string
	// APIVersion selects the REST API generation ("2" or "3").
	APIVersion string
	// ProjectKey scopes every search to one project.
	ProjectKey string

	// Basic auth credentials (JIRA Cloud).
	Email     string
	AuthToken string
	// Token is a personal access token; takes precedence over basic auth.
	Token string
}

// NewClient creates a JIRA client for the provided configuration.
func NewClient(cfg Config) Client {
	return newHTTPClient(cfg)
}

// IncrementalJQL builds the search query for one project, optionally bounded
// to issues updated at or after lastUpdated. Oldest-first ordering keeps
// pagination stable while the warehouse catches up.
func IncrementalJQL(projectKey, lastUpdated string) string {
	if lastUpdated == "" {
		return fmt.Sprintf("project = %q order by updated ASC", projectKey)
	}
	return fmt.Sprintf("project = %q AND updated >= %q order by updated ASC", projectKey, lastUpdated)
}

// FormatUpdatedForJQL converts a stored JIRA updated timestamp into the
// minute-precision form JQL accepts. Returns "" when the value cannot be
// parsed, which callers treat as "no lower bound".
func FormatUpdatedForJQL(ts string) string {
	if ts == "" {
		return ""
	}
	t, err := ParseTime(strings.TrimSpace(ts))
	if err != nil {
		return ""
	}
	return t.Format("2006-01-02 15:04")
}
