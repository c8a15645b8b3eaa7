package chain

import (
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog/log"
)

// Transition is a single step in an issue's derived lifecycle. Step 0 is the
// synthesized "Created -> first observed status" bridge; steps 1..n are real
// changelog transitions ranked by their change timestamp.
type Transition struct {
	IssueKey  string
	Step      int
	Source    string
	Target    string
	Timestamp time.Time
}

// normalizeTerminal collapses the "Resolved" alias into "Closed". The
// substitution is textual and applied independently to both sides of a
// transition, matching the domain rule for equivalent terminal states.
func normalizeTerminal(s string) string {
	return strings.ReplaceAll(s, "Resolved", "Closed")
}

// ExtractTransitions projects the raw changelog into ordered per-issue
// transition sequences. Issues without any status-field events contribute no
// rows. Issues whose creation metadata is missing or unparseable are skipped
// with a warning; the rest of the run proceeds.
func ExtractTransitions(events []Event, metas map[string]Meta) []Transition {
	byIssue := make(map[string][]Event)
	var keys []string
	for _, e := range events {
		if e.Field != "status" {
			continue
		}
		if _, ok := byIssue[e.IssueKey]; !ok {
			keys = append(keys, e.IssueKey)
		}
		byIssue[e.IssueKey] = append(byIssue[e.IssueKey], e)
	}
	sort.Strings(keys)

	var transitions []Transition
	for _, key := range keys {
		evs := byIssue[key]
		// Stable sort keeps the original insertion order for identical
		// timestamps, so ranking stays deterministic.
		sort.SliceStable(evs, func(i, j int) bool {
			return evs[i].Created.Before(evs[j].Created)
		})

		meta, ok := metas[key]
		if !ok || meta.Created.IsZero() {
			log.Warn().Str("issue", key).Msg("Missing creation metadata, skipping issue")
			continue
		}

		transitions = append(transitions, Transition{
			IssueKey:  key,
			Step:      0,
			Source:    SourceCreated,
			Target:    normalizeTerminal(evs[0].FromString),
			Timestamp: meta.Created,
		})
		for i, e := range evs {
			transitions = append(transitions, Transition{
				IssueKey:  key,
				Step:      i + 1,
				Source:    normalizeTerminal(e.FromString),
				Target:    normalizeTerminal(e.ToString),
				Timestamp: e.Created,
			})
		}
	}
	return transitions
}
