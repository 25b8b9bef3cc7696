package queries

import (
	"time"

	"github.com/bugsdev/bugs/internal/types"
)

// Summary recaps a working session: what was picked up, what shipped,
// and what has progress notes.
type Summary struct {
	Since        time.Time      `json:"since"`
	Started      []*types.Issue `json:"started"`
	Closed       []*types.Issue `json:"closed"`
	Checkpointed []*types.Issue `json:"checkpointed"`
}

// BuildSummary collects activity after the cutoff. Started scans the
// open partition, closed scans the closed one. Checkpointed lists open
// issues carrying progress notes regardless of age.
func BuildSummary(open, closed []*types.Issue, since time.Time) *Summary {
	s := &Summary{Since: since}
	for _, issue := range open {
		if issue.StartedAt != nil && issue.StartedAt.After(since) {
			s.Started = append(s.Started, issue)
		}
		if len(issue.Checkpoints) > 0 {
			s.Checkpointed = append(s.Checkpointed, issue)
		}
	}
	for _, issue := range closed {
		if issue.ClosedAt != nil && issue.ClosedAt.After(since) {
			s.Closed = append(s.Closed, issue)
		}
	}
	return s
}
