// Package queries computes read-only views over a loaded snapshot: the
// working-context buckets, focus list, readiness and quick-win picks,
// metrics, and the session summary. Everything here is pure; callers
// load the partitions once and pass them in.
package queries

import (
	"sort"

	"github.com/bugsdev/bugs/internal/graph"
	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

// Context is the "where was I" view over the open partition.
type Context struct {
	InProgress   []*types.Issue `json:"in_progress"`
	Blocked      []*types.Issue `json:"blocked"`
	HighPriority []*types.Issue `json:"high_priority"`
	Ready        []*types.Issue `json:"ready_to_start"`
	TotalOpen    int            `json:"total_open"`
}

// readyLimit caps the ready bucket in the context view so it stays a
// prompt, not a backlog dump.
const readyLimit = 5

// focusLimit caps the focus list.
const focusLimit = 5

// BuildContext assembles the context buckets. High priority only lists
// issues not yet picked up; ready is capped at five.
func BuildContext(open, closed []*types.Issue) *Context {
	ctx := &Context{TotalOpen: len(open)}
	for _, issue := range open {
		switch issue.Status {
		case types.StatusActive:
			ctx.InProgress = append(ctx.InProgress, issue)
		case types.StatusBlocked:
			ctx.Blocked = append(ctx.Blocked, issue)
		case types.StatusOpen:
			if issue.Priority == types.PriorityCritical || issue.Priority == types.PriorityHigh {
				ctx.HighPriority = append(ctx.HighPriority, issue)
			}
		}
	}
	sortByPriority(ctx.InProgress)
	sortByPriority(ctx.Blocked)
	sortByPriority(ctx.HighPriority)

	ready := Ready(open, closed)
	if len(ready) > readyLimit {
		ready = ready[:readyLimit]
	}
	ctx.Ready = ready
	return ctx
}

// Focus returns the five issues to look at first: anything in flight or
// stuck outranks everything waiting, then priority decides.
func Focus(open []*types.Issue) []*types.Issue {
	var pool []*types.Issue
	for _, issue := range open {
		switch issue.Status {
		case types.StatusOpen, types.StatusActive, types.StatusBlocked:
			pool = append(pool, issue)
		}
	}
	sort.SliceStable(pool, func(i, j int) bool {
		ki, kj := focusKey(pool[i]), focusKey(pool[j])
		if ki != kj {
			return ki < kj
		}
		return pool[i].ID < pool[j].ID
	})
	if len(pool) > focusLimit {
		pool = pool[:focusLimit]
	}
	return pool
}

func focusKey(issue *types.Issue) int {
	if issue.Status == types.StatusActive || issue.Status == types.StatusBlocked {
		return -1
	}
	return issue.Priority.SortKey()
}

// Ready returns the open-status issues whose dependencies are all
// resolved, most urgent first. An issue with no dependencies is ready.
func Ready(open, closed []*types.Issue) []*types.Issue {
	lookup := storage.StatusOf(open, closed)
	var out []*types.Issue
	for _, issue := range open {
		if issue.Status != types.StatusOpen {
			continue
		}
		if graph.IsReady(issue, lookup) {
			out = append(out, issue)
		}
	}
	sortByPriority(out)
	return out
}

// Blocked returns the blocked issues, most urgent first.
func Blocked(open []*types.Issue) []*types.Issue {
	var out []*types.Issue
	for _, issue := range open {
		if issue.Status == types.StatusBlocked {
			out = append(out, issue)
		}
	}
	sortByPriority(out)
	return out
}

// QuickWins returns open issues with an effort estimate at or under the
// threshold, smallest first. A zero threshold means no ceiling;
// unestimated issues never qualify.
func QuickWins(open []*types.Issue, thresholdMinutes int) []*types.Issue {
	var out []*types.Issue
	for _, issue := range open {
		if issue.Status != types.StatusOpen || issue.EffortMinutes == 0 {
			continue
		}
		if thresholdMinutes > 0 && issue.EffortMinutes > thresholdMinutes {
			continue
		}
		out = append(out, issue)
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].EffortMinutes != out[j].EffortMinutes {
			return out[i].EffortMinutes < out[j].EffortMinutes
		}
		return out[i].ID < out[j].ID
	})
	return out
}

// Apply filters a list and returns it sorted by id.
func Apply(issues []*types.Issue, f types.Filter) []*types.Issue {
	var out []*types.Issue
	for _, issue := range issues {
		if f.Match(issue) {
			out = append(out, issue)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func sortByPriority(issues []*types.Issue) {
	sort.SliceStable(issues, func(i, j int) bool {
		ki, kj := issues[i].Priority.SortKey(), issues[j].Priority.SortKey()
		if ki != kj {
			return ki < kj
		}
		return issues[i].ID < issues[j].ID
	})
}
