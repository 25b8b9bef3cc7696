// Package status implements the issue lifecycle: which actions are legal
// from which state, what fields each action touches, and the checkpoint
// prefixes that trigger implicit transitions.
package status

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/bugsdev/bugs/internal/types"
)

// Action is a lifecycle operation applied to an issue.
type Action string

const (
	ActionStart    Action = "start"
	ActionBlock    Action = "block"
	ActionDone     Action = "done"
	ActionClose    Action = "close"
	ActionReopen   Action = "reopen"
	ActionDefer    Action = "defer"
	ActionActivate Action = "activate"
)

// ErrReasonRequired is returned when block is attempted without a reason.
// The check runs before any state is touched.
var ErrReasonRequired = errors.New("block requires a reason")

// InvalidTransitionError reports an action applied from a state that does
// not permit it.
type InvalidTransitionError struct {
	From   types.Status
	Action Action
}

func (e *InvalidTransitionError) Error() string {
	return fmt.Sprintf("cannot %s an issue that is %s", e.Action, e.From)
}

// Allowed reports whether action is legal from the given status.
func Allowed(from types.Status, action Action) bool {
	switch action {
	case ActionStart:
		return from == types.StatusOpen || from == types.StatusBlocked || from == types.StatusBacklog
	case ActionBlock:
		return from == types.StatusOpen || from == types.StatusActive
	case ActionDone:
		return from == types.StatusActive || from == types.StatusBlocked
	case ActionClose:
		return from == types.StatusOpen || from == types.StatusActive ||
			from == types.StatusBlocked || from == types.StatusDone
	case ActionReopen:
		return from == types.StatusClosed
	case ActionDefer:
		return from != types.StatusClosed
	case ActionActivate:
		return from == types.StatusBacklog
	}
	return false
}

// Apply performs action on the issue in place. Reason is only consulted
// for block. On error the issue is untouched.
func Apply(issue *types.Issue, action Action, reason string, now time.Time) error {
	if action == ActionBlock && strings.TrimSpace(reason) == "" {
		return ErrReasonRequired
	}
	if !Allowed(issue.Status, action) {
		return &InvalidTransitionError{From: issue.Status, Action: action}
	}

	switch action {
	case ActionStart:
		issue.Status = types.StatusActive
		issue.BlockReason = ""
		if issue.StartedAt == nil {
			t := now
			issue.StartedAt = &t
		}
	case ActionBlock:
		issue.Status = types.StatusBlocked
		issue.BlockReason = strings.TrimSpace(reason)
	case ActionDone:
		issue.Status = types.StatusDone
		issue.BlockReason = ""
	case ActionClose:
		issue.Status = types.StatusClosed
		issue.BlockReason = ""
		t := now
		issue.ClosedAt = &t
	case ActionReopen:
		issue.Status = types.StatusOpen
		issue.ClosedAt = nil
	case ActionDefer:
		issue.Status = types.StatusBacklog
		issue.BlockReason = ""
	case ActionActivate:
		issue.Status = types.StatusOpen
	}
	return nil
}

// DetectCheckpoint inspects a checkpoint note for a status prefix. A note
// like "BLOCKED: waiting on review" implies a block with that reason;
// "FIXED:" and "DONE:" imply done. Matching is case-insensitive and only
// considers the text before the first colon.
func DetectCheckpoint(note string) (Action, string, bool) {
	idx := strings.Index(note, ":")
	if idx <= 0 {
		return "", "", false
	}
	switch strings.ToUpper(strings.TrimSpace(note[:idx])) {
	case "BLOCKED":
		return ActionBlock, strings.TrimSpace(note[idx+1:]), true
	case "FIXED", "DONE":
		return ActionDone, "", true
	}
	return "", "", false
}
