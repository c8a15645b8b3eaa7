package chain

import (
	"sort"
	"time"
)

// ChainStep is one final output row: a transition augmented with elapsed
// time, total chain length, issue type and the chain label/ID of its issue.
type ChainStep struct {
	IssueKey            string
	Step                int
	Source              string
	Target              string
	PreviousTimestamp   *time.Time
	TransitionTimestamp time.Time
	DurationSeconds     *float64
	ChainLength         int
	IssueType           string
	Chain               string
	ChainID             int
}

// BuildChainSteps joins transitions with issue metadata and chain
// classification. Only issues whose current status is terminal survive the
// join; everything else is filtered out, not an error. Issues are folded in
// ascending key order so chain IDs are deterministic for a fixed dataset.
func BuildChainSteps(transitions []Transition, metas map[string]Meta) []ChainStep {
	byIssue := make(map[string][]Transition)
	for _, t := range transitions {
		byIssue[t.IssueKey] = append(byIssue[t.IssueKey], t)
	}

	keys := make([]string, 0, len(byIssue))
	for key := range byIssue {
		meta, ok := metas[key]
		if !ok || !ClosedStatuses[meta.Status] {
			continue
		}
		keys = append(keys, key)
	}
	sort.Strings(keys)

	classifier := NewClassifier()

	var steps []ChainStep
	for _, key := range keys {
		ts := byIssue[key]
		sort.Slice(ts, func(i, j int) bool { return ts[i].Step < ts[j].Step })

		label := Label(Dedupe(ts))
		chainID := classifier.Classify(label)
		chainLength := ts[len(ts)-1].Step + 1
		issueType := metas[key].IssueType

		var prev *time.Time
		for _, t := range ts {
			step := ChainStep{
				IssueKey:            t.IssueKey,
				Step:                t.Step,
				Source:              t.Source,
				Target:              t.Target,
				TransitionTimestamp: t.Timestamp,
				ChainLength:         chainLength,
				IssueType:           issueType,
				Chain:               label,
				ChainID:             chainID,
			}
			if prev != nil {
				p := *prev
				step.PreviousTimestamp = &p
				d := t.Timestamp.Sub(p).Seconds()
				step.DurationSeconds = &d
			}
			steps = append(steps, step)

			cur := t.Timestamp
			prev = &cur
		}
	}
	return steps
}
