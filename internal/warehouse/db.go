// Package warehouse owns the local DuckDB analytic store: ingestion upserts
// on the write side and the read-only row sets the chain derivation consumes.
package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	_ "github.com/marcboeker/go-duckdb/v2"
)

// DB wraps the DuckDB connection.
type DB struct {
	sql *sql.DB
}

// Open connects to the DuckDB file at path and ensures the schema exists.
func Open(ctx context.Context, path string) (*DB, error) {
	db, err := sql.Open("duckdb", path)
	if err != nil {
		return nil, fmt.Errorf("opening warehouse %s: %w", path, err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("pinging warehouse %s: %w", path, err)
	}
	d := &DB{sql: db}
	if err := d.ensureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}
	return d, nil
}

// Close releases the underlying connection.
func (d *DB) Close() error {
	return d.sql.Close()
}

func (d *DB) ensureSchema(ctx context.Context) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS jira_issues (
			key TEXT PRIMARY KEY,
			id TEXT,
			fields JSON,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			updated_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP
		)`,
		`CREATE TABLE IF NOT EXISTS jira_changelog (
			id TEXT,
			issue_key TEXT,
			created TIMESTAMP,
			author_account_id TEXT,
			author_display_name TEXT,
			field TEXT,
			field_type TEXT,
			from_value TEXT,
			from_string TEXT,
			to_value TEXT,
			to_string TEXT,
			PRIMARY KEY (id, field)
		)`,
		`CREATE TABLE IF NOT EXISTS jira_links (
			source_issue_key TEXT,
			target_issue_key TEXT,
			link_type TEXT,
			created_at TIMESTAMP DEFAULT CURRENT_TIMESTAMP,
			PRIMARY KEY (source_issue_key, target_issue_key, link_type)
		)`,
		`CREATE TABLE IF NOT EXISTS pull_requests (
			id BIGINT PRIMARY KEY,
			number INT,
			title TEXT,
			user_login TEXT,
			state TEXT,
			created_at TIMESTAMP,
			updated_at TIMESTAMP,
			closed_at TIMESTAMP,
			merged_at TIMESTAMP,
			html_url TEXT
		)`,
		`CREATE TABLE IF NOT EXISTS pull_request_commits (
			sha TEXT,
			pull_request_id BIGINT,
			pull_request_number INT,
			author_name TEXT,
			author_email TEXT,
			author_date TIMESTAMP,
			committer_name TEXT,
			committer_email TEXT,
			commit_date TIMESTAMP,
			message TEXT,
			html_url TEXT,
			PRIMARY KEY (sha, pull_request_id)
		)`,
	}
	for _, stmt := range stmts {
		if _, err := d.sql.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("creating warehouse schema: %w", err)
		}
	}
	return nil
}
