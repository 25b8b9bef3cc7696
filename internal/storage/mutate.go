package storage

import (
	"time"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/status"
	"github.com/bugsdev/bugs/internal/types"
)

// Apply runs a lifecycle action against the issue the reference resolves
// to. Reason is only used by block.
func (s *Store) Apply(ref string, action status.Action, reason string) (*types.Issue, error) {
	now := time.Now().Truncate(time.Second)
	return s.Update(ref, func(issue *types.Issue) error {
		return status.Apply(issue, action, reason, now)
	})
}

// Start moves an issue to active, recording the first start time.
func (s *Store) Start(ref string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionStart, "")
}

// Block marks an issue blocked with the given reason.
func (s *Store) Block(ref, reason string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionBlock, reason)
}

// Done marks an issue's work finished without archiving it.
func (s *Store) Done(ref string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionDone, "")
}

// Close archives an issue into the closed partition. A non-empty note is
// appended to the record as a close annotation.
func (s *Store) Close(ref, note string) (*types.Issue, error) {
	now := time.Now().Truncate(time.Second)
	return s.Update(ref, func(issue *types.Issue) error {
		if err := status.Apply(issue, status.ActionClose, "", now); err != nil {
			return err
		}
		if note != "" {
			y, m, d := now.Date()
			issue.CloseNotes = append(issue.CloseNotes, types.CloseNote{
				On:   time.Date(y, m, d, 0, 0, 0, 0, time.Local),
				Note: codec.SanitizeNote(note),
			})
		}
		return nil
	})
}

// Reopen moves a closed issue back to the open partition.
func (s *Store) Reopen(ref string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionReopen, "")
}

// Defer parks an issue in the backlog.
func (s *Store) Defer(ref string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionDefer, "")
}

// Activate pulls a backlog issue back to open.
func (s *Store) Activate(ref string) (*types.Issue, error) {
	return s.Apply(ref, status.ActionActivate, "")
}

// Checkpoint appends a timestamped progress note. When the note carries a
// status prefix the matching transition is attempted afterwards; the
// append itself never fails over it, so a note on a closed issue is still
// recorded. The action actually applied is returned, empty if none.
func (s *Store) Checkpoint(ref, note string) (*types.Issue, status.Action, error) {
	now := time.Now().Truncate(time.Minute)
	var applied status.Action

	issue, err := s.Update(ref, func(issue *types.Issue) error {
		issue.Checkpoints = append(issue.Checkpoints, types.Checkpoint{
			At:   now,
			Note: codec.SanitizeNote(note),
		})
		if action, reason, ok := status.DetectCheckpoint(note); ok {
			if status.Apply(issue, action, reason, now) == nil {
				applied = action
			}
		}
		return nil
	})
	if err != nil {
		return nil, "", err
	}
	return issue, applied, nil
}

// CheckpointNote appends a progress note without inspecting it for a
// status prefix. Used when auto-status is disabled.
func (s *Store) CheckpointNote(ref, note string) (*types.Issue, error) {
	now := time.Now().Truncate(time.Minute)
	return s.Update(ref, func(issue *types.Issue) error {
		issue.Checkpoints = append(issue.Checkpoints, types.Checkpoint{
			At:   now,
			Note: codec.SanitizeNote(note),
		})
		return nil
	})
}

// BulkApply runs an action against each reference independently. One
// failure never stops the rest; the returned outcomes align with refs.
func (s *Store) BulkApply(refs []string, action status.Action, reason string) []types.Outcome {
	outcomes := make([]types.Outcome, 0, len(refs))
	for _, ref := range refs {
		issue, err := s.Apply(ref, action, reason)
		if err != nil {
			outcomes = append(outcomes, types.Outcome{Err: err.Error()})
			continue
		}
		outcomes = append(outcomes, types.Outcome{ID: issue.ID, Status: issue.Status})
	}
	return outcomes
}

// BulkClose closes each reference independently with a shared note.
func (s *Store) BulkClose(refs []string, note string) []types.Outcome {
	outcomes := make([]types.Outcome, 0, len(refs))
	for _, ref := range refs {
		issue, err := s.Close(ref, note)
		if err != nil {
			outcomes = append(outcomes, types.Outcome{Err: err.Error()})
			continue
		}
		outcomes = append(outcomes, types.Outcome{ID: issue.ID, Status: issue.Status})
	}
	return outcomes
}

// SetEffort updates the effort estimate, in minutes.
func (s *Store) SetEffort(ref string, minutes int) (*types.Issue, error) {
	return s.Update(ref, func(issue *types.Issue) error {
		issue.EffortMinutes = minutes
		return nil
	})
}

// AddTags appends tags to an issue. Normalization and deduplication
// happen on persist.
func (s *Store) AddTags(ref string, tags []string) (*types.Issue, error) {
	return s.Update(ref, func(issue *types.Issue) error {
		issue.Tags = append(issue.Tags, tags...)
		return nil
	})
}
