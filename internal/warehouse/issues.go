package warehouse

import (
	"context"
	"database/sql"
	"fmt"
	"time"
)

// IssueRow is one issue with its raw field bag, as fetched from JIRA.
type IssueRow struct {
	Key    string
	ID     string
	Fields []byte
}

// ChangelogRow is one flattened (changelog entry, field) change record.
type ChangelogRow struct {
	ID                string
	IssueKey          string
	Created           time.Time
	AuthorAccountID   string
	AuthorDisplayName string
	Field             string
	FieldType         string
	FromValue         string
	FromString        string
	ToValue           string
	ToString          string
}

// LinkRow is one directed issue link.
type LinkRow struct {
	SourceIssueKey string
	TargetIssueKey string
	LinkType       string
}

// UpsertIssues inserts or refreshes issue field bags.
func (d *DB) UpsertIssues(ctx context.Context, issues []IssueRow) error {
	if len(issues) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning issue upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jira_issues (key, id, fields, updated_at)
		VALUES (?, ?, ?, now())
		ON CONFLICT (key) DO UPDATE SET
			id = excluded.id,
			fields = excluded.fields,
			updated_at = now()`)
	if err != nil {
		return fmt.Errorf("preparing issue upsert: %w", err)
	}
	defer stmt.Close()

	for _, issue := range issues {
		if _, err := stmt.ExecContext(ctx, issue.Key, issue.ID, string(issue.Fields)); err != nil {
			return fmt.Errorf("upserting issue %s: %w", issue.Key, err)
		}
	}
	return tx.Commit()
}

// UpsertChangelog inserts or refreshes flattened changelog rows.
func (d *DB) UpsertChangelog(ctx context.Context, rows []ChangelogRow) error {
	if len(rows) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning changelog upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jira_changelog (
			id, issue_key, created, author_account_id, author_display_name,
			field, field_type, from_value, from_string, to_value, to_string
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (id, field) DO UPDATE SET
			created = excluded.created,
			author_account_id = excluded.author_account_id,
			author_display_name = excluded.author_display_name,
			from_value = excluded.from_value,
			from_string = excluded.from_string,
			to_value = excluded.to_value,
			to_string = excluded.to_string`)
	if err != nil {
		return fmt.Errorf("preparing changelog upsert: %w", err)
	}
	defer stmt.Close()

	for _, r := range rows {
		_, err := stmt.ExecContext(ctx,
			r.ID, r.IssueKey, r.Created, r.AuthorAccountID, r.AuthorDisplayName,
			r.Field, r.FieldType, r.FromValue, r.FromString, r.ToValue, r.ToString)
		if err != nil {
			return fmt.Errorf("upserting changelog entry %s/%s: %w", r.ID, r.Field, err)
		}
	}
	return tx.Commit()
}

// UpsertLinks records directed issue links, ignoring ones already present.
func (d *DB) UpsertLinks(ctx context.Context, links []LinkRow) error {
	if len(links) == 0 {
		return nil
	}
	tx, err := d.sql.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning link upsert: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO jira_links (source_issue_key, target_issue_key, link_type, created_at)
		VALUES (?, ?, ?, now())
		ON CONFLICT (source_issue_key, target_issue_key, link_type) DO NOTHING`)
	if err != nil {
		return fmt.Errorf("preparing link upsert: %w", err)
	}
	defer stmt.Close()

	for _, l := range links {
		if _, err := stmt.ExecContext(ctx, l.SourceIssueKey, l.TargetIssueKey, l.LinkType); err != nil {
			return fmt.Errorf("upserting link %s -> %s: %w", l.SourceIssueKey, l.TargetIssueKey, err)
		}
	}
	return tx.Commit()
}

// LastIssueUpdated returns the most recent "updated" value across all stored
// field bags, or "" when the warehouse holds no issues yet.
func (d *DB) LastIssueUpdated(ctx context.Context) (string, error) {
	var updated sql.NullString
	err := d.sql.QueryRowContext(ctx, `
		SELECT MAX(json_extract_string(fields, '$.updated'))
		FROM jira_issues`).Scan(&updated)
	if err != nil {
		return "", fmt.Errorf("querying last issue update: %w", err)
	}
	if !updated.Valid {
		return "", nil
	}
	return updated.String, nil
}
