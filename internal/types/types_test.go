package types

import (
	"testing"
	"time"
)

func TestStatusIsValid(t *testing.T) {
	valid := []Status{StatusOpen, StatusActive, StatusBlocked, StatusDone, StatusClosed, StatusBacklog}
	for _, s := range valid {
		if !s.IsValid() {
			t.Errorf("expected %q to be valid", s)
		}
	}
	for _, s := range []Status{"", "in_progress", "OPEN", "deleted"} {
		if s.IsValid() {
			t.Errorf("expected %q to be invalid", s)
		}
	}
}

func TestStatusPartition(t *testing.T) {
	if got := StatusClosed.Partition(); got != PartitionClosed {
		t.Errorf("closed should live in the closed partition, got %s", got)
	}
	for _, s := range []Status{StatusOpen, StatusActive, StatusBlocked, StatusDone, StatusBacklog} {
		if got := s.Partition(); got != PartitionOpen {
			t.Errorf("%s should live in the open partition, got %s", s, got)
		}
	}
}

func TestStatusResolved(t *testing.T) {
	if !StatusDone.Resolved() || !StatusClosed.Resolved() {
		t.Error("done and closed should count as resolved")
	}
	for _, s := range []Status{StatusOpen, StatusActive, StatusBlocked, StatusBacklog} {
		if s.Resolved() {
			t.Errorf("%s should not count as resolved", s)
		}
	}
}

func TestParseStatus(t *testing.T) {
	tests := []struct {
		in      string
		want    Status
		wantErr bool
	}{
		{"open", StatusOpen, false},
		{"  Active ", StatusActive, false},
		{"BLOCKED", StatusBlocked, false},
		{"backlog", StatusBacklog, false},
		{"in_progress", "", true},
		{"", "", true},
	}
	for _, tt := range tests {
		got, err := ParseStatus(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseStatus(%q) expected error, got %q", tt.in, got)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseStatus(%q) unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseStatus(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPrioritySortKey(t *testing.T) {
	order := []Priority{PriorityCritical, PriorityHigh, PriorityMedium, PriorityLow}
	for i := 1; i < len(order); i++ {
		if order[i-1].SortKey() >= order[i].SortKey() {
			t.Errorf("expected %s to sort before %s", order[i-1], order[i])
		}
	}
}

func TestNormalizeTag(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"#Backend", "backend"},
		{"  auth  ", "auth"},
		{"#UI", "ui"},
		{"", ""},
		{"#", ""},
	}
	for _, tt := range tests {
		if got := NormalizeTag(tt.in); got != tt.want {
			t.Errorf("NormalizeTag(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestNormalizeTagsDedup(t *testing.T) {
	got := NormalizeTags([]string{"#Auth", "auth", " BACKEND", "", "#"})
	want := []string{"auth", "backend"}
	if len(got) != len(want) {
		t.Fatalf("NormalizeTags = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("NormalizeTags[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestIssueValidate(t *testing.T) {
	now := time.Now()
	valid := func() *Issue {
		return &Issue{
			ID:        1,
			Title:     "Fix login crash",
			Priority:  PriorityMedium,
			Status:    StatusOpen,
			CreatedAt: now,
		}
	}

	if err := valid().Validate(); err != nil {
		t.Fatalf("valid issue failed validation: %v", err)
	}

	tests := []struct {
		name   string
		mutate func(*Issue)
	}{
		{"zero id", func(i *Issue) { i.ID = 0 }},
		{"empty title", func(i *Issue) { i.Title = "   " }},
		{"bad priority", func(i *Issue) { i.Priority = "urgent" }},
		{"bad status", func(i *Issue) { i.Status = "in_progress" }},
		{"negative effort", func(i *Issue) { i.EffortMinutes = -5 }},
		{"closed without timestamp", func(i *Issue) { i.Status = StatusClosed }},
		{"open with closed timestamp", func(i *Issue) { i.ClosedAt = &now }},
		{"block reason while open", func(i *Issue) { i.BlockReason = "waiting" }},
		{"self dependency", func(i *Issue) { i.DependsOn = []int{1} }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issue := valid()
			tt.mutate(issue)
			if err := issue.Validate(); err == nil {
				t.Error("expected validation error, got nil")
			}
		})
	}
}

func TestIssueValidateBlockedWithReason(t *testing.T) {
	issue := &Issue{
		ID:          2,
		Title:       "Blocked on review",
		Priority:    PriorityHigh,
		Status:      StatusBlocked,
		CreatedAt:   time.Now(),
		BlockReason: "waiting on upstream fix",
	}
	if err := issue.Validate(); err != nil {
		t.Errorf("blocked issue with reason should validate: %v", err)
	}
}

func TestSetDefaults(t *testing.T) {
	i := &Issue{}
	i.SetDefaults()
	if i.Status != StatusOpen {
		t.Errorf("default status = %s, want open", i.Status)
	}
	if i.Priority != PriorityMedium {
		t.Errorf("default priority = %s, want medium", i.Priority)
	}

	j := &Issue{Status: StatusBacklog, Priority: PriorityLow}
	j.SetDefaults()
	if j.Status != StatusBacklog || j.Priority != PriorityLow {
		t.Error("SetDefaults must not overwrite set fields")
	}
}

func TestFilterMatch(t *testing.T) {
	issue := &Issue{
		ID:            3,
		Title:         "Tune cache eviction",
		Priority:      PriorityHigh,
		Status:        StatusOpen,
		Tags:          []string{"perf", "cache"},
		EffortMinutes: 90,
	}

	tests := []struct {
		name   string
		filter Filter
		want   bool
	}{
		{"empty filter", Filter{}, true},
		{"status match", Filter{Status: StatusOpen}, true},
		{"status mismatch", Filter{Status: StatusActive}, false},
		{"priority match", Filter{Priority: PriorityHigh}, true},
		{"tag match", Filter{Tag: "#PERF"}, true},
		{"tag mismatch", Filter{Tag: "ui"}, false},
		{"under effort ceiling", Filter{MaxMinutes: 120}, true},
		{"over effort ceiling", Filter{MaxMinutes: 60}, false},
		{"combined", Filter{Status: StatusOpen, Priority: PriorityHigh, Tag: "cache"}, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.filter.Match(issue); got != tt.want {
				t.Errorf("Match = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestFilterMaxMinutesExcludesUnestimated(t *testing.T) {
	issue := &Issue{ID: 4, Title: "No estimate", Priority: PriorityLow, Status: StatusOpen}
	if (Filter{MaxMinutes: 60}).Match(issue) {
		t.Error("issues without an estimate should not match an effort ceiling")
	}
}

func TestRef(t *testing.T) {
	if got := Ref(7); got != "BUG-7" {
		t.Errorf("Ref(7) = %q, want BUG-7", got)
	}
}
