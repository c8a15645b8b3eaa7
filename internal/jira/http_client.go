package jira

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/rs/zerolog/log"
)

const changelogPageSize = 100

type httpClient struct {
	cfg    Config
	client *http.Client
}

func newHTTPClient(cfg Config) *httpClient {
	if cfg.APIVersion == "" {
		cfg.APIVersion = "2"
	}
	return &httpClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: 90 * time.Second,
		},
	}
}

func (c *httpClient) authenticate(req *http.Request) {
	if c.cfg.Token != "" {
		req.Header.Set("Authorization", "Bearer "+c.cfg.Token)
		return
	}
	if c.cfg.Email != "" && c.cfg.AuthToken != "" {
		req.SetBasicAuth(c.cfg.Email, c.cfg.AuthToken)
		req.Header.Set("X-Atlassian-Token", "no-check")
	}
}

func (c *httpClient) get(rawURL string, out interface{}) error {
	req, err := http.NewRequest(http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")
	c.authenticate(req)

	resp, err := c.client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		switch resp.StatusCode {
		case http.StatusUnauthorized, http.StatusForbidden:
			return fmt.Errorf("JIRA authentication failed (%d), check JIRA_EMAIL and JIRA_AUTH_TOKEN", resp.StatusCode)
		case http.StatusNotFound:
			return fmt.Errorf("JIRA endpoint not found (404), check JIRA_BASE_URL and JIRA_API_VERSION")
		case http.StatusTooManyRequests:
			if retryAfter := resp.Header.Get("Retry-After"); retryAfter != "" {
				return fmt.Errorf("JIRA rate limit exceeded (429), retry after %s seconds", retryAfter)
			}
			return fmt.Errorf("JIRA rate limit exceeded (429)")
		default:
			return fmt.Errorf("JIRA API returned status %d", resp.StatusCode)
		}
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return fmt.Errorf("failed to decode JIRA response: %w", err)
	}
	return nil
}

func (c *httpClient) SearchIssues(jql string, startAt int, maxResults int) (*SearchResponse, error) {
	params := url.Values{}
	params.Set("jql", jql)
	params.Set("startAt", strconv.Itoa(startAt))
	params.Set("maxResults", strconv.Itoa(maxResults))
	params.Set("fields", "*all")

	searchURL := fmt.Sprintf("%srest/api/%s/search?%s", c.cfg.BaseURL, c.cfg.APIVersion, params.Encode())
	log.Info().Int("startAt", startAt).Msg("Requesting issues from JIRA")
	log.Debug().Str("url", searchURL).Str("jql", jql).Msg("JIRA search details")

	var result SearchResponse
	if err := c.get(searchURL, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

func (c *httpClient) IssueChangelog(issueKey string) ([]HistoryDTO, error) {
	if c.cfg.APIVersion == "3" {
		return c.pagedChangelog(issueKey)
	}
	return c.expandedChangelog(issueKey)
}

// expandedChangelog reads the changelog embedded in the issue resource
// (API v2 has no dedicated changelog endpoint).
func (c *httpClient) expandedChangelog(issueKey string) ([]HistoryDTO, error) {
	params := url.Values{}
	params.Set("expand", "changelog")

	issueURL := fmt.Sprintf("%srest/api/%s/issue/%s?%s", c.cfg.BaseURL, c.cfg.APIVersion, issueKey, params.Encode())

	var result issueWithChangelog
	if err := c.get(issueURL, &result); err != nil {
		return nil, err
	}
	if result.Changelog == nil {
		return nil, nil
	}
	return result.Changelog.Histories, nil
}

// pagedChangelog walks the dedicated v3 changelog endpoint until exhausted.
func (c *httpClient) pagedChangelog(issueKey string) ([]HistoryDTO, error) {
	var entries []HistoryDTO
	startAt := 0
	for {
		params := url.Values{}
		params.Set("startAt", strconv.Itoa(startAt))
		params.Set("maxResults", strconv.Itoa(changelogPageSize))

		pageURL := fmt.Sprintf("%srest/api/%s/issue/%s/changelog?%s", c.cfg.BaseURL, c.cfg.APIVersion, issueKey, params.Encode())

		var page ChangelogDTO
		if err := c.get(pageURL, &page); err != nil {
			return nil, err
		}
		entries = append(entries, page.Values...)

		if startAt+changelogPageSize >= page.Total {
			break
		}
		startAt += changelogPageSize
	}
	return entries, nil
}
