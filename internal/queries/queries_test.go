package queries

import (
	"testing"
	"time"

	"github.com/bugsdev/bugs/internal/types"
)

func mk(id int, st types.Status, pr types.Priority) *types.Issue {
	return &types.Issue{ID: id, Title: "issue", Status: st, Priority: pr}
}

func ids(issues []*types.Issue) []int {
	out := make([]int, len(issues))
	for i, issue := range issues {
		out[i] = issue.ID
	}
	return out
}

func sameIDs(t *testing.T, name string, got []*types.Issue, want ...int) {
	t.Helper()
	if len(got) != len(want) {
		t.Fatalf("%s = %v, want %v", name, ids(got), want)
	}
	for i := range want {
		if got[i].ID != want[i] {
			t.Fatalf("%s = %v, want %v", name, ids(got), want)
		}
	}
}

func TestBuildContext(t *testing.T) {
	active := mk(1, types.StatusActive, types.PriorityMedium)
	blocked := mk(2, types.StatusBlocked, types.PriorityHigh)
	blocked.BlockReason = "waiting on api keys"
	critical := mk(3, types.StatusOpen, types.PriorityCritical)
	low := mk(4, types.StatusOpen, types.PriorityLow)
	backlog := mk(5, types.StatusBacklog, types.PriorityHigh)
	open := []*types.Issue{active, blocked, critical, low, backlog}

	ctx := BuildContext(open, nil)

	sameIDs(t, "InProgress", ctx.InProgress, 1)
	sameIDs(t, "Blocked", ctx.Blocked, 2)
	sameIDs(t, "HighPriority", ctx.HighPriority, 3)
	sameIDs(t, "Ready", ctx.Ready, 3, 4)
	if ctx.TotalOpen != 5 {
		t.Errorf("TotalOpen = %d, want 5", ctx.TotalOpen)
	}
}

func TestContextReadyCapped(t *testing.T) {
	var open []*types.Issue
	for i := 1; i <= 8; i++ {
		open = append(open, mk(i, types.StatusOpen, types.PriorityMedium))
	}

	ctx := BuildContext(open, nil)
	if len(ctx.Ready) != 5 {
		t.Errorf("len(Ready) = %d, want 5", len(ctx.Ready))
	}
}

func TestFocusOrdersInFlightFirst(t *testing.T) {
	open := []*types.Issue{
		mk(1, types.StatusOpen, types.PriorityCritical),
		mk(2, types.StatusActive, types.PriorityLow),
		mk(3, types.StatusOpen, types.PriorityLow),
		mk(4, types.StatusBlocked, types.PriorityMedium),
		mk(5, types.StatusBacklog, types.PriorityCritical),
		mk(6, types.StatusDone, types.PriorityCritical),
	}

	// In-flight work (2, 4) outranks even a critical untouched issue;
	// backlog and done never surface.
	got := Focus(open)
	sameIDs(t, "Focus", got, 2, 4, 1, 3)
}

func TestFocusCapped(t *testing.T) {
	var open []*types.Issue
	for i := 1; i <= 9; i++ {
		open = append(open, mk(i, types.StatusOpen, types.PriorityMedium))
	}
	if got := Focus(open); len(got) != 5 {
		t.Errorf("len(Focus) = %d, want 5", len(got))
	}
}

func TestReady(t *testing.T) {
	done := mk(1, types.StatusDone, types.PriorityMedium)
	blockedDep := mk(2, types.StatusActive, types.PriorityMedium)
	free := mk(3, types.StatusOpen, types.PriorityLow)
	waiting := mk(4, types.StatusOpen, types.PriorityCritical)
	waiting.DependsOn = []int{2}
	satisfied := mk(5, types.StatusOpen, types.PriorityHigh)
	satisfied.DependsOn = []int{1, 6}
	open := []*types.Issue{done, blockedDep, free, waiting, satisfied}

	closedDep := mk(6, types.StatusClosed, types.PriorityMedium)
	now := time.Now()
	closedDep.ClosedAt = &now

	got := Ready(open, []*types.Issue{closedDep})
	// 5 depends on done + closed work, 3 has no deps; 4 waits on active 2.
	sameIDs(t, "Ready", got, 5, 3)
}

func TestReadyVacuouslyTrue(t *testing.T) {
	open := []*types.Issue{mk(1, types.StatusOpen, types.PriorityMedium)}
	sameIDs(t, "Ready", Ready(open, nil), 1)
}

func TestQuickWins(t *testing.T) {
	big := mk(1, types.StatusOpen, types.PriorityMedium)
	big.EffortMinutes = 480
	small := mk(2, types.StatusOpen, types.PriorityMedium)
	small.EffortMinutes = 15
	medium := mk(3, types.StatusOpen, types.PriorityMedium)
	medium.EffortMinutes = 60
	unestimated := mk(4, types.StatusOpen, types.PriorityMedium)
	inFlight := mk(5, types.StatusActive, types.PriorityMedium)
	inFlight.EffortMinutes = 5
	open := []*types.Issue{big, small, medium, unestimated, inFlight}

	sameIDs(t, "QuickWins", QuickWins(open, 0), 2, 3, 1)
	sameIDs(t, "QuickWins(60)", QuickWins(open, 60), 2, 3)
}

func TestApplyFilter(t *testing.T) {
	a := mk(1, types.StatusOpen, types.PriorityHigh)
	a.Tags = []string{"auth"}
	b := mk(2, types.StatusBlocked, types.PriorityHigh)
	c := mk(3, types.StatusOpen, types.PriorityLow)
	c.Tags = []string{"auth"}
	issues := []*types.Issue{c, a, b}

	sameIDs(t, "status filter", Apply(issues, types.Filter{Status: types.StatusOpen}), 1, 3)
	sameIDs(t, "tag filter", Apply(issues, types.Filter{Tag: "auth"}), 1, 3)
	sameIDs(t, "combined", Apply(issues, types.Filter{Tag: "auth", Priority: types.PriorityHigh}), 1)
}

func TestBuildMetrics(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	hoursAgo := func(h int) time.Time { return now.Add(-time.Duration(h) * time.Hour) }
	ptr := func(ts time.Time) *time.Time { return &ts }

	fresh := mk(1, types.StatusOpen, types.PriorityHigh)
	fresh.CreatedAt = hoursAgo(2)
	stale := mk(2, types.StatusActive, types.PriorityMedium)
	stale.CreatedAt = hoursAgo(24 * 10)
	open := []*types.Issue{fresh, stale}

	quick := mk(3, types.StatusClosed, types.PriorityMedium)
	quick.CreatedAt = hoursAgo(8)
	quick.ClosedAt = ptr(hoursAgo(2))
	old := mk(4, types.StatusClosed, types.PriorityLow)
	old.CreatedAt = hoursAgo(24 * 20)
	old.ClosedAt = ptr(hoursAgo(24 * 15))
	closed := []*types.Issue{quick, old}

	m := BuildMetrics(open, closed, PeriodDay, now)
	if m.TotalOpen != 2 || m.TotalClosed != 2 {
		t.Errorf("totals = %d/%d, want 2/2", m.TotalOpen, m.TotalClosed)
	}
	if m.OpenedInPeriod != 2 {
		t.Errorf("OpenedInPeriod = %d, want 2 (issues 1 and 3)", m.OpenedInPeriod)
	}
	if m.ClosedInPeriod != 1 {
		t.Errorf("ClosedInPeriod = %d, want 1", m.ClosedInPeriod)
	}
	if m.AvgCloseHours != 6 {
		t.Errorf("AvgCloseHours = %v, want 6", m.AvgCloseHours)
	}
	if m.ByPriority["high"] != 1 || m.ByPriority["medium"] != 1 {
		t.Errorf("ByPriority = %v", m.ByPriority)
	}
	if m.ByStatus["open"] != 1 || m.ByStatus["active"] != 1 {
		t.Errorf("ByStatus = %v", m.ByStatus)
	}

	all := BuildMetrics(open, closed, PeriodAll, now)
	if all.OpenedInPeriod != 4 || all.ClosedInPeriod != 2 {
		t.Errorf("all-time = %d opened / %d closed, want 4/2", all.OpenedInPeriod, all.ClosedInPeriod)
	}
}

func TestParsePeriod(t *testing.T) {
	for _, ok := range []string{"day", "week", "month", "all"} {
		if _, err := ParsePeriod(ok); err != nil {
			t.Errorf("ParsePeriod(%q): %v", ok, err)
		}
	}
	if _, err := ParsePeriod("fortnight"); err == nil {
		t.Error("ParsePeriod accepted fortnight")
	}
}

func TestBuildSummary(t *testing.T) {
	now := time.Date(2026, 5, 10, 12, 0, 0, 0, time.UTC)
	since := now.Add(-24 * time.Hour)
	ptr := func(ts time.Time) *time.Time { return &ts }

	justStarted := mk(1, types.StatusActive, types.PriorityMedium)
	justStarted.StartedAt = ptr(now.Add(-2 * time.Hour))
	longRunning := mk(2, types.StatusActive, types.PriorityMedium)
	longRunning.StartedAt = ptr(now.Add(-72 * time.Hour))
	noted := mk(3, types.StatusOpen, types.PriorityMedium)
	noted.Checkpoints = []types.Checkpoint{{At: now.Add(-48 * time.Hour), Note: "old note"}}
	open := []*types.Issue{justStarted, longRunning, noted}

	shipped := mk(4, types.StatusClosed, types.PriorityMedium)
	shipped.ClosedAt = ptr(now.Add(-1 * time.Hour))
	ancient := mk(5, types.StatusClosed, types.PriorityMedium)
	ancient.ClosedAt = ptr(now.Add(-100 * time.Hour))
	closed := []*types.Issue{shipped, ancient}

	s := BuildSummary(open, closed, since)
	sameIDs(t, "Started", s.Started, 1)
	sameIDs(t, "Closed", s.Closed, 4)
	sameIDs(t, "Checkpointed", s.Checkpointed, 3)
}
