// Package chain reconstructs per-issue status-transition chains from the
// flattened JIRA changelog held in the warehouse. The derivation is a
// one-shot, single-threaded fold: extract ordered transitions per issue,
// collapse immediate status repetition, label the resulting path and assign
// each distinct label a run-scoped integer ID.
package chain

import "time"

// Event is one flattened changelog row as stored in the warehouse.
// Only rows with Field == "status" participate in the derivation.
type Event struct {
	IssueKey   string
	Created    time.Time
	Field      string
	FromString string
	ToString   string
}

// Meta is the projected issue metadata the derivation needs: the creation
// timestamp anchoring the synthetic first transition, the current status for
// the closed-state filter and the issue type carried into the output.
type Meta struct {
	Created   time.Time
	Status    string
	IssueType string
}

// SourceCreated is the synthetic source label bridging issue creation to the
// first observed status.
const SourceCreated = "Created"

// ClosedStatuses are the terminal statuses an issue must currently be in to
// appear in the final chain dataset. Transitions are still extracted for
// other issues; they just never survive the classification join.
var ClosedStatuses = map[string]bool{
	"Closed":          true,
	"Done":            true,
	"Resolved":        true,
	"Patch available": true,
	"Fixed":           true,
	"Released":        true,
}
