package storage

import (
	"errors"
	"testing"

	"github.com/bugsdev/bugs/internal/status"
	"github.com/bugsdev/bugs/internal/types"
)

func TestLifecycle(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Full lifecycle")

	t.Run("start", func(t *testing.T) {
		issue, err := s.Start("1")
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if issue.Status != types.StatusActive {
			t.Errorf("Status = %s, want active", issue.Status)
		}
		if issue.StartedAt == nil {
			t.Error("StartedAt not set")
		}
	})

	t.Run("block", func(t *testing.T) {
		issue, err := s.Block("1", "waiting on upstream fix")
		if err != nil {
			t.Fatalf("Block: %v", err)
		}
		if issue.Status != types.StatusBlocked {
			t.Errorf("Status = %s, want blocked", issue.Status)
		}
		if issue.BlockReason != "waiting on upstream fix" {
			t.Errorf("BlockReason = %q", issue.BlockReason)
		}
	})

	t.Run("unblock via start", func(t *testing.T) {
		issue, err := s.Start("1")
		if err != nil {
			t.Fatalf("Start: %v", err)
		}
		if issue.Status != types.StatusActive {
			t.Errorf("Status = %s, want active", issue.Status)
		}
		if issue.BlockReason != "" {
			t.Errorf("BlockReason = %q, want cleared", issue.BlockReason)
		}
	})

	t.Run("done", func(t *testing.T) {
		issue, err := s.Done("1")
		if err != nil {
			t.Fatalf("Done: %v", err)
		}
		if issue.Status != types.StatusDone {
			t.Errorf("Status = %s, want done", issue.Status)
		}
		// Done issues stay in the open partition.
		open, err := s.List(types.PartitionOpen)
		if err != nil {
			t.Fatalf("List: %v", err)
		}
		if len(open) != 1 {
			t.Errorf("open partition has %d issues, want 1", len(open))
		}
	})

	t.Run("close", func(t *testing.T) {
		issue, err := s.Close("1", "")
		if err != nil {
			t.Fatalf("Close: %v", err)
		}
		if issue.Status != types.StatusClosed {
			t.Errorf("Status = %s, want closed", issue.Status)
		}
	})

	t.Run("invalid after close", func(t *testing.T) {
		_, err := s.Start("1")
		var invalid *status.InvalidTransitionError
		if !errors.As(err, &invalid) {
			t.Fatalf("Start error = %v, want InvalidTransitionError", err)
		}
	})
}

func TestDeferAndActivate(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Someday maybe")

	issue, err := s.Defer("1")
	if err != nil {
		t.Fatalf("Defer: %v", err)
	}
	if issue.Status != types.StatusBacklog {
		t.Errorf("Status = %s, want backlog", issue.Status)
	}

	issue, err = s.Activate("1")
	if err != nil {
		t.Fatalf("Activate: %v", err)
	}
	if issue.Status != types.StatusOpen {
		t.Errorf("Status = %s, want open", issue.Status)
	}
}

func TestBlockEmptyReasonLeavesRecordAlone(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Stable")

	_, err := s.Block("1", "   ")
	if !errors.Is(err, status.ErrReasonRequired) {
		t.Fatalf("Block error = %v, want ErrReasonRequired", err)
	}
	got, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got.Status != types.StatusOpen {
		t.Errorf("Status = %s, want open (unchanged)", got.Status)
	}
}

func TestCheckpointAppends(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Slow burner")

	issue, applied, err := s.Checkpoint("1", "narrowed it down to the retry loop")
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if applied != "" {
		t.Errorf("applied = %q, want none", applied)
	}
	if len(issue.Checkpoints) != 1 {
		t.Fatalf("len(Checkpoints) = %d, want 1", len(issue.Checkpoints))
	}
	if issue.Checkpoints[0].Note != "narrowed it down to the retry loop" {
		t.Errorf("Note = %q", issue.Checkpoints[0].Note)
	}
	if issue.Status != types.StatusOpen {
		t.Errorf("Status = %s, plain note should not transition", issue.Status)
	}
}

func TestCheckpointBlockedPrefixTransitions(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "In flight")
	if _, err := s.Start("1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	issue, applied, err := s.Checkpoint("1", "BLOCKED: waiting on review")
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if applied != status.ActionBlock {
		t.Errorf("applied = %q, want block", applied)
	}
	if issue.Status != types.StatusBlocked {
		t.Errorf("Status = %s, want blocked", issue.Status)
	}
	if issue.BlockReason != "waiting on review" {
		t.Errorf("BlockReason = %q, want %q", issue.BlockReason, "waiting on review")
	}
	if len(issue.Checkpoints) != 1 {
		t.Errorf("len(Checkpoints) = %d, want 1", len(issue.Checkpoints))
	}
}

func TestCheckpointFixedPrefixTransitions(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Almost there")
	if _, err := s.Start("1"); err != nil {
		t.Fatalf("Start: %v", err)
	}

	issue, applied, err := s.Checkpoint("1", "FIXED: retry loop now honors the deadline")
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if applied != status.ActionDone {
		t.Errorf("applied = %q, want done", applied)
	}
	if issue.Status != types.StatusDone {
		t.Errorf("Status = %s, want done", issue.Status)
	}
}

func TestCheckpointOnClosedAppendsOnly(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Already shipped")
	if _, err := s.Close("1", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}

	issue, applied, err := s.Checkpoint("1", "BLOCKED: waiting on review")
	if err != nil {
		t.Fatalf("Checkpoint: %v", err)
	}
	if applied != "" {
		t.Errorf("applied = %q, want none on a closed issue", applied)
	}
	if issue.Status != types.StatusClosed {
		t.Errorf("Status = %s, want closed", issue.Status)
	}
	if len(issue.Checkpoints) != 1 {
		t.Errorf("len(Checkpoints) = %d, want 1 (append still happens)", len(issue.Checkpoints))
	}
}

func TestBulkApplyIsolatesFailures(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "First")
	seedIssue(t, s, "Second")

	outcomes := s.BulkApply([]string{"1", "missing", "2"}, status.ActionStart, "")
	if len(outcomes) != 3 {
		t.Fatalf("len(outcomes) = %d, want 3", len(outcomes))
	}
	if outcomes[0].Failed() || outcomes[0].ID != 1 || outcomes[0].Status != types.StatusActive {
		t.Errorf("outcomes[0] = %+v", outcomes[0])
	}
	if !outcomes[1].Failed() {
		t.Errorf("outcomes[1] = %+v, want failure", outcomes[1])
	}
	if outcomes[2].Failed() || outcomes[2].ID != 2 || outcomes[2].Status != types.StatusActive {
		t.Errorf("outcomes[2] = %+v", outcomes[2])
	}
}

func TestBulkCloseContinuesPastInvalid(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "First")
	seedIssue(t, s, "Second")
	if _, err := s.Close("1", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// Issue 1 is already closed; issue 2 should close anyway.
	outcomes := s.BulkClose([]string{"1", "2"}, "sweep")
	if !outcomes[0].Failed() {
		t.Errorf("outcomes[0] = %+v, want invalid transition", outcomes[0])
	}
	if outcomes[1].Failed() || outcomes[1].Status != types.StatusClosed {
		t.Errorf("outcomes[1] = %+v", outcomes[1])
	}
}
