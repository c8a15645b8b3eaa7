// Package github pulls pull requests and their commits from the GitHub API
// and normalizes them into warehouse rows.
package github

import (
	"context"
	"fmt"
	"strings"
	"time"

	"chainflow/internal/warehouse"

	gh "github.com/google/go-github/v41/github"
	"github.com/rs/zerolog/log"
	"golang.org/x/oauth2"
)

const perPage = 100

// Config holds the repository coordinates and API credentials.
type Config struct {
	// Repo in "owner/name" form.
	Repo   string
	APIKey string
}

// Client wraps the GitHub API client for one repository.
type Client struct {
	gh    *gh.Client
	owner string
	repo  string
}

// NewClient builds an authenticated client for the configured repository.
func NewClient(ctx context.Context, cfg Config) (*Client, error) {
	parts := strings.Split(cfg.Repo, "/")
	if len(parts) != 2 || parts[0] == "" || parts[1] == "" {
		return nil, fmt.Errorf("invalid repository %q, expected owner/repo", cfg.Repo)
	}

	ts := oauth2.StaticTokenSource(&oauth2.Token{AccessToken: cfg.APIKey})
	tc := oauth2.NewClient(ctx, ts)

	return &Client{
		gh:    gh.NewClient(tc),
		owner: parts[0],
		repo:  parts[1],
	}, nil
}

// PullRequests lists every pull request updated after since, oldest first.
func (c *Client) PullRequests(ctx context.Context, since time.Time) ([]warehouse.PullRequestRow, error) {
	opts := &gh.PullRequestListOptions{
		State:     "all",
		Sort:      "updated",
		Direction: "asc",
		ListOptions: gh.ListOptions{
			PerPage: perPage,
		},
	}

	var rows []warehouse.PullRequestRow
	for {
		prs, resp, err := c.gh.PullRequests.List(ctx, c.owner, c.repo, opts)
		if err != nil {
			return nil, fmt.Errorf("listing pull requests: %w", err)
		}
		for _, pr := range prs {
			if pr.UpdatedAt == nil || !pr.UpdatedAt.After(since) {
				continue
			}
			rows = append(rows, normalizePullRequest(pr))
		}
		log.Debug().Int("page", opts.Page).Int("count", len(prs)).Msg("Fetched pull request page")

		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return rows, nil
}

// Commits lists every commit of one pull request.
func (c *Client) Commits(ctx context.Context, prID int64, prNumber int) ([]warehouse.CommitRow, error) {
	opts := &gh.ListOptions{PerPage: perPage}

	var rows []warehouse.CommitRow
	for {
		commits, resp, err := c.gh.PullRequests.ListCommits(ctx, c.owner, c.repo, prNumber, opts)
		if err != nil {
			return nil, fmt.Errorf("listing commits for PR #%d: %w", prNumber, err)
		}
		for _, commit := range commits {
			rows = append(rows, normalizeCommit(commit, prID, prNumber))
		}
		if resp.NextPage == 0 {
			break
		}
		opts.Page = resp.NextPage
	}
	return rows, nil
}

func normalizePullRequest(pr *gh.PullRequest) warehouse.PullRequestRow {
	row := warehouse.PullRequestRow{
		ID:       pr.GetID(),
		Number:   pr.GetNumber(),
		Title:    pr.GetTitle(),
		State:    pr.GetState(),
		HTMLURL:  pr.GetHTMLURL(),
		ClosedAt: pr.ClosedAt,
		MergedAt: pr.MergedAt,
	}
	if pr.User != nil {
		row.UserLogin = pr.User.GetLogin()
	}
	if pr.CreatedAt != nil {
		row.CreatedAt = *pr.CreatedAt
	}
	if pr.UpdatedAt != nil {
		row.UpdatedAt = *pr.UpdatedAt
	}
	return row
}

func normalizeCommit(rc *gh.RepositoryCommit, prID int64, prNumber int) warehouse.CommitRow {
	row := warehouse.CommitRow{
		SHA:               rc.GetSHA(),
		PullRequestID:     prID,
		PullRequestNumber: prNumber,
		HTMLURL:           rc.GetHTMLURL(),
	}
	commit := rc.GetCommit()
	if commit == nil {
		return row
	}
	row.Message = commit.GetMessage()
	if a := commit.GetAuthor(); a != nil {
		row.AuthorName = a.GetName()
		row.AuthorEmail = a.GetEmail()
		row.AuthorDate = a.GetDate()
	}
	if c := commit.GetCommitter(); c != nil {
		row.CommitterName = c.GetName()
		row.CommitterEmail = c.GetEmail()
		row.CommitDate = c.GetDate()
	}
	return row
}
