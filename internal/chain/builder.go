package chain

import "strings"

// Pair is one kept (source, target) hop of a deduplicated chain.
type Pair struct {
	Source string
	Target string
}

// Dedupe collapses immediate status repetition in a step-ordered transition
// sequence. A transition is dropped when it lands on the status the chain is
// already sitting at, i.e. its target equals the previous kept pair's target.
// The first occurrence is kept.
func Dedupe(transitions []Transition) []Pair {
	var seen []Pair
	for _, t := range transitions {
		if len(seen) == 0 || seen[len(seen)-1].Target != t.Target {
			seen = append(seen, Pair{Source: t.Source, Target: t.Target})
		}
	}
	return seen
}

// Label renders a deduplicated chain as its canonical string form:
// the first pair's source followed by every kept target, joined by " > ".
func Label(pairs []Pair) string {
	if len(pairs) == 0 {
		return ""
	}
	parts := make([]string, 0, len(pairs)+1)
	parts = append(parts, pairs[0].Source)
	for _, p := range pairs {
		parts = append(parts, p.Target)
	}
	return strings.Join(parts, " > ")
}

// Classifier assigns run-scoped integer IDs to distinct chain labels.
// Assignment is first-seen-wins starting at 1, so ID order follows the order
// in which issues are folded, not the label values themselves.
type Classifier struct {
	ids map[string]int
}

// NewClassifier creates an empty label-to-ID map for a single run.
func NewClassifier() *Classifier {
	return &Classifier{ids: make(map[string]int)}
}

// Classify returns the ID for label, assigning the next sequential ID when
// the label has not been seen before.
func (c *Classifier) Classify(label string) int {
	if id, ok := c.ids[label]; ok {
		return id
	}
	id := len(c.ids) + 1
	c.ids[label] = id
	return id
}
