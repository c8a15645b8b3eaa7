package warehouse

import (
	"context"
	"database/sql"
	"fmt"

	"chainflow/internal/chain"
)

// StatusEvents reads every status-field changelog row, ordered by issue key
// and change time. Any query failure is fatal for the run; callers must not
// write partial output.
func (d *DB) StatusEvents(ctx context.Context) ([]chain.Event, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT issue_key, created, field, from_string, to_string
		FROM jira_changelog
		WHERE field = 'status'
		ORDER BY issue_key, created`)
	if err != nil {
		return nil, fmt.Errorf("querying status events: %w", err)
	}
	defer rows.Close()

	var events []chain.Event
	for rows.Next() {
		var e chain.Event
		var from, to sql.NullString
		if err := rows.Scan(&e.IssueKey, &e.Created, &e.Field, &from, &to); err != nil {
			return nil, fmt.Errorf("scanning status event: %w", err)
		}
		e.FromString = from.String
		e.ToString = to.String
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading status events: %w", err)
	}
	return events, nil
}

// Issues reads every stored issue with its raw field bag.
func (d *DB) Issues(ctx context.Context) ([]IssueRow, error) {
	rows, err := d.sql.QueryContext(ctx, `
		SELECT key, id, CAST(fields AS VARCHAR)
		FROM jira_issues
		ORDER BY key`)
	if err != nil {
		return nil, fmt.Errorf("querying issues: %w", err)
	}
	defer rows.Close()

	var issues []IssueRow
	for rows.Next() {
		var r IssueRow
		var id, fields sql.NullString
		if err := rows.Scan(&r.Key, &id, &fields); err != nil {
			return nil, fmt.Errorf("scanning issue: %w", err)
		}
		r.ID = id.String
		r.Fields = []byte(fields.String)
		issues = append(issues, r)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("reading issues: %w", err)
	}
	return issues, nil
}
