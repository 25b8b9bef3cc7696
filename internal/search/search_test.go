package search

import (
	"strings"
	"testing"

	"github.com/bugsdev/bugs/internal/types"
)

func newTestIndex(t *testing.T) *Index {
	t.Helper()
	ix, err := Open(":memory:")
	if err != nil {
		t.Fatalf("Open: %v", err)
	}
	t.Cleanup(func() { ix.Close() })
	return ix
}

func testSnapshot() []*types.Issue {
	return []*types.Issue{
		{
			ID:          1,
			Title:       "Login page rejects valid passwords",
			Status:      types.StatusOpen,
			Priority:    types.PriorityHigh,
			Description: "The authentication handler trims trailing whitespace before hashing.",
			Impact:      "Users with space-padded passwords cannot log in.",
			Acceptance:  "Passwords are hashed exactly as entered.",
			Tags:        []string{"auth", "login"},
		},
		{
			ID:          2,
			Title:       "Export times out on large projects",
			Status:      types.StatusActive,
			Priority:    types.PriorityMedium,
			Description: "The exporter loads every record into memory before writing.",
			Impact:      "Projects over 10k issues cannot be exported.",
			Acceptance:  "Export streams records with bounded memory.",
			Checkpoints: []types.Checkpoint{{Note: "profiled the exporter, allocation is in the codec"}},
		},
		{
			ID:          3,
			Title:       "Typo in settings help text",
			Status:      types.StatusOpen,
			Priority:    types.PriorityLow,
			Description: "The word preferences is misspelled.",
			Impact:      "Looks unpolished.",
			Acceptance:  "Spelling fixed.",
		},
	}
}

func TestRebuildAndQuery(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild(testSnapshot()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}

	matches, err := ix.Query("authentication", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 1 {
		t.Fatalf("matches = %+v, want only issue 1", matches)
	}
	if matches[0].Status != types.StatusOpen || matches[0].Priority != types.PriorityHigh {
		t.Errorf("match meta = %s/%s, want open/high", matches[0].Status, matches[0].Priority)
	}
	if !strings.Contains(matches[0].Snippet, "[authentication]") {
		t.Errorf("snippet %q does not highlight the match", matches[0].Snippet)
	}
}

func TestQueryMatchesCheckpointNotes(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild(testSnapshot()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	matches, err := ix.Query("profiled", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 2 {
		t.Fatalf("matches = %+v, want only issue 2", matches)
	}
}

func TestQueryPrefix(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild(testSnapshot()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	matches, err := ix.Query("export*", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 1 || matches[0].ID != 2 {
		t.Fatalf("matches = %+v, want issue 2", matches)
	}
}

func TestQuerySurvivesHostileInput(t *testing.T) {
	ix := newTestIndex(t)
	if err := ix.Rebuild(testSnapshot()); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	for _, q := range []string{`"unbalanced`, `a AND (b`, `t-dash NOT`} {
		if _, err := ix.Query(q, 10); err != nil {
			t.Errorf("Query(%q): %v", q, err)
		}
	}
	if _, err := ix.Query("   ", 10); err == nil {
		t.Error("blank query should error")
	}
}

func TestRebuildReplacesContents(t *testing.T) {
	ix := newTestIndex(t)
	all := testSnapshot()
	if err := ix.Rebuild(all); err != nil {
		t.Fatalf("Rebuild: %v", err)
	}
	if err := ix.Rebuild(all[:1]); err != nil {
		t.Fatalf("Rebuild subset: %v", err)
	}
	matches, err := ix.Query("exporter", 10)
	if err != nil {
		t.Fatalf("Query: %v", err)
	}
	if len(matches) != 0 {
		t.Fatalf("stale docs survived rebuild: %+v", matches)
	}
}
