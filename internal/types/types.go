// Package types defines the core data structures for the bugs issue tracker.
package types

import (
	"fmt"
	"strings"
	"time"
)

// Issue represents a tracked unit of work. The metadata fields round-trip
// through the record frontmatter; the narrative fields and checkpoint log
// live in the record body.
type Issue struct {
	// ===== Metadata (frontmatter) =====
	ID            int        `yaml:"id" json:"id"`
	Title         string     `yaml:"title" json:"title"`
	Priority      Priority   `yaml:"priority" json:"priority"`
	Status        Status     `yaml:"status" json:"status"`
	CreatedAt     time.Time  `yaml:"created" json:"created_at"`
	Files         []string   `yaml:"files,omitempty" json:"files,omitempty"`
	Tags          []string   `yaml:"tags,omitempty" json:"tags,omitempty"`
	DependsOn     []int      `yaml:"depends_on,omitempty" json:"depends_on,omitempty"`
	EffortMinutes int        `yaml:"effort_minutes,omitempty" json:"effort_minutes,omitempty"`
	StartedAt     *time.Time `yaml:"started,omitempty" json:"started_at,omitempty"`
	BlockReason   string     `yaml:"blocked_reason,omitempty" json:"block_reason,omitempty"`
	ClosedAt      *time.Time `yaml:"closed,omitempty" json:"closed_at,omitempty"`

	// ===== Narrative (body sections) =====
	Description string `yaml:"-" json:"description,omitempty"`
	Impact      string `yaml:"-" json:"impact,omitempty"`
	Acceptance  string `yaml:"-" json:"acceptance,omitempty"`
	Context     string `yaml:"-" json:"context,omitempty"`

	// ===== Append-only logs (body) =====
	Checkpoints []Checkpoint `yaml:"-" json:"checkpoints,omitempty"`
	CloseNotes  []CloseNote  `yaml:"-" json:"close_notes,omitempty"`
}

// Checkpoint is a timestamped progress note. Timestamps carry minute
// precision since that is what the record format preserves.
type Checkpoint struct {
	At   time.Time `json:"at"`
	Note string    `json:"note"`
}

// CloseNote is the annotation appended when an issue is closed with a
// message. Dates carry day precision.
type CloseNote struct {
	On   time.Time `json:"on"`
	Note string    `json:"note"`
}

// Ref formats the canonical display reference for an issue id.
func Ref(id int) string {
	return fmt.Sprintf("BUG-%d", id)
}

// Status tracks where an issue sits in its lifecycle.
type Status string

const (
	StatusOpen    Status = "open"
	StatusActive  Status = "active"
	StatusBlocked Status = "blocked"
	StatusDone    Status = "done"
	StatusClosed  Status = "closed"
	StatusBacklog Status = "backlog"
)

// IsValid reports whether the status is one of the known lifecycle states.
func (s Status) IsValid() bool {
	switch s {
	case StatusOpen, StatusActive, StatusBlocked, StatusDone, StatusClosed, StatusBacklog:
		return true
	}
	return false
}

// Partition returns the on-disk partition the status belongs to. Only
// closed issues live in the closed partition; done issues stay in open
// until explicitly closed.
func (s Status) Partition() Partition {
	if s == StatusClosed {
		return PartitionClosed
	}
	return PartitionOpen
}

// Resolved reports whether the status counts as finished for dependency
// readiness checks.
func (s Status) Resolved() bool {
	return s == StatusDone || s == StatusClosed
}

// ParseStatus converts user input into a Status.
func ParseStatus(s string) (Status, error) {
	st := Status(strings.ToLower(strings.TrimSpace(s)))
	if !st.IsValid() {
		return "", fmt.Errorf("invalid status: %q (want open, active, blocked, done, closed, or backlog)", s)
	}
	return st, nil
}

// Partition names the open/closed grouping of persisted records.
type Partition string

const (
	PartitionOpen   Partition = "open"
	PartitionClosed Partition = "closed"
)

// Priority ranks how urgently an issue needs attention.
type Priority string

const (
	PriorityCritical Priority = "critical"
	PriorityHigh     Priority = "high"
	PriorityMedium   Priority = "medium"
	PriorityLow      Priority = "low"
)

// IsValid reports whether the priority is one of the known levels.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow:
		return true
	}
	return false
}

// SortKey orders priorities from most (0) to least (3) urgent.
func (p Priority) SortKey() int {
	switch p {
	case PriorityCritical:
		return 0
	case PriorityHigh:
		return 1
	case PriorityMedium:
		return 2
	case PriorityLow:
		return 3
	}
	return 4
}

// ParsePriority converts user input into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(strings.ToLower(strings.TrimSpace(s)))
	if !p.IsValid() {
		return "", fmt.Errorf("invalid priority: %q (want critical, high, medium, or low)", s)
	}
	return p, nil
}

// NormalizeTag canonicalizes a tag label: surrounding whitespace and a
// leading '#' are stripped, and the result is lowercased.
func NormalizeTag(tag string) string {
	return strings.ToLower(strings.TrimPrefix(strings.TrimSpace(tag), "#"))
}

// NormalizeTags canonicalizes a tag list, dropping entries that normalize
// to the empty string and collapsing duplicates while preserving order.
func NormalizeTags(tags []string) []string {
	var out []string
	seen := make(map[string]bool, len(tags))
	for _, t := range tags {
		n := NormalizeTag(t)
		if n == "" || seen[n] {
			continue
		}
		seen[n] = true
		out = append(out, n)
	}
	return out
}

// HasTag reports whether the issue carries the given tag after
// normalization.
func (i *Issue) HasTag(tag string) bool {
	want := NormalizeTag(tag)
	for _, t := range i.Tags {
		if NormalizeTag(t) == want {
			return true
		}
	}
	return false
}

// DependsOnID reports whether the issue's dependency set contains id.
func (i *Issue) DependsOnID(id int) bool {
	for _, d := range i.DependsOn {
		if d == id {
			return true
		}
	}
	return false
}

// SetDefaults applies default values for fields omitted at creation or
// import time.
func (i *Issue) SetDefaults() {
	if i.Status == "" {
		i.Status = StatusOpen
	}
	if i.Priority == "" {
		i.Priority = PriorityMedium
	}
}

// Validate checks the issue's structural invariants.
func (i *Issue) Validate() error {
	if i.ID <= 0 {
		return fmt.Errorf("id must be positive (got %d)", i.ID)
	}
	if strings.TrimSpace(i.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if !i.Priority.IsValid() {
		return fmt.Errorf("invalid priority: %s", i.Priority)
	}
	if !i.Status.IsValid() {
		return fmt.Errorf("invalid status: %s", i.Status)
	}
	if i.EffortMinutes < 0 {
		return fmt.Errorf("effort_minutes cannot be negative")
	}
	if i.Status == StatusClosed && i.ClosedAt == nil {
		return fmt.Errorf("closed issues must have a closed timestamp")
	}
	if i.Status != StatusClosed && i.ClosedAt != nil {
		return fmt.Errorf("non-closed issues cannot have a closed timestamp")
	}
	if i.Status != StatusBlocked && i.BlockReason != "" {
		return fmt.Errorf("block reason is only valid while blocked")
	}
	if i.DependsOnID(i.ID) {
		return fmt.Errorf("issue cannot depend on itself")
	}
	return nil
}

// Filter narrows issue listings. Zero values mean "no constraint".
type Filter struct {
	Status     Status
	Priority   Priority
	Tag        string
	MaxMinutes int
}

// Match reports whether the issue satisfies every set constraint.
func (f Filter) Match(i *Issue) bool {
	if f.Status != "" && i.Status != f.Status {
		return false
	}
	if f.Priority != "" && i.Priority != f.Priority {
		return false
	}
	if f.Tag != "" && !i.HasTag(f.Tag) {
		return false
	}
	if f.MaxMinutes > 0 && (i.EffortMinutes == 0 || i.EffortMinutes > f.MaxMinutes) {
		return false
	}
	return true
}

// Outcome records the per-issue result of a bulk operation. Bulk start and
// close apply each id independently; one failure never aborts the rest.
type Outcome struct {
	ID     int    `json:"id"`
	Status Status `json:"status,omitempty"`
	Err    string `json:"error,omitempty"`
}

// Failed reports whether the outcome carries an error.
func (o Outcome) Failed() bool { return o.Err != "" }
