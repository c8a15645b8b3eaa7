package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// PullRequestRow is one normalized pull request record.
type PullRequestRow struct {
	ID        int64
	Number    int
	Title     string
	UserLogin string
	State     string
	CreatedAt time.Time
	UpdatedAt time.Time
	ClosedAt  *time.Time
	MergedAt  *time.Time
	HTMLURL   string
}

// CommitRow is one commit attached to a pull request.
type CommitRow struct {
	SHA               string
	PullRequestID     int64
	PullRequestNumber int
	AuthorName        string
	AuthorEmail       string
	AuthorDate        time.Time
	CommitterName     string
	CommitterEmail    string
	CommitDate        time.Time
	Message           string
	HTMLURL           string
}

// UpsertPullRequests inserts or refreshes pull request records.
func (d *DB) UpsertPullRequests(ctx context.Context, prs []PullRequestRow) error {
	if len(prs) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning pull request upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pull_requests (
			id, number, title, user_login, state,
			created_at, updated_at, closed_at, merged_at, html_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id) DO UPDATE SET
			number = excluded.number,
			title = excluded.title,
			user_login = excluded.user_login,
			state = excluded.state,
			created_at = excluded.created_at,
			updated_at = excluded.updated_at,
			closed_at = excluded.closed_at,
			merged_at = excluded.merged_at,
			html_url = excluded.html_url`)
	if err != nil {
		return fmt.Errorf("preparing pull request upsert: %w", err)
	}
	defer stmt.Close()

	for _, pr := range prs {
		_, err := stmt.ExecContext(ctx,
			pr.ID, pr.Number, pr.Title, pr.UserLogin, pr.State,
			pr.CreatedAt, pr.UpdatedAt, nullTime(pr.ClosedAt), nullTime(pr.MergedAt), pr.HTMLURL)
		if err != nil {
			return fmt.Errorf("upserting pull request #%d: %w", pr.Number, err)
		}
	}
	return tx.Commit()
}

// UpsertCommits inserts or refreshes per-PR commit records.
func (d *DB) UpsertCommits(ctx context.Context, commits []CommitRow) error {
	if len(commits) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning commit upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO pull_request_commits (
			sha, pull_request_id, pull_request_number,
			author_name, author_email, author_date,
			committer_name, committer_email, commit_date,
			message, html_url
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (sha, pull_request_id) DO UPDATE SET
			pull_request_number = excluded.pull_request_number,
			author_name = excluded.author_name,
			author_email = excluded.author_email,
			author_date = excluded.author_date,
			committer_name = excluded.committer_name,
			committer_email = excluded.committer_email,
			commit_date = excluded.commit_date,
			message = excluded.message,
			html_url = excluded.html_url`)
	if err != nil {
		return fmt.Errorf("preparing commit upsert: %w", err)
	}
	defer stmt.Close()

	for _, c := range commits {
		_, err := stmt.ExecContext(ctx,
			c.SHA, c.PullRequestID, c.PullRequestNumber,
			c.AuthorName, c.AuthorEmail, c.AuthorDate,
			c.CommitterName, c.CommitterEmail, c.CommitDate,
			c.Message, c.HTMLURL)
		if err != nil {
			return fmt.Errorf("upserting commit %s: %w", c.SHA, err)
		}
	}
	return tx.Commit()
}

// LastPullRequestUpdated returns the newest updated_at across stored pull
// requests, or the zero time when none exist.
func (d *DB) LastPullRequestUpdated(ctx context.Context) (time.Time, error) {
	var updated sql.NullTime
	err := d.sql.QueryRowContext(ctx, `SELECT MAX(updated_at) FROM pull_requests`).Scan(&updated)
	if err != nil {
		return time.Time{}, fmt.Errorf("querying last pull request update: %w", err)
	}
	if !updated.Valid {
		return time.Time{}, nil
	}
	return updated.Time, nil
}

func nullTime(t *time.Time) interface{} {
	if t == nil {
		return nil
	}
	return *t
}
