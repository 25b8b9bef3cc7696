package validation

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

func newTestStore(t *testing.T) *storage.Store {
	t.Helper()
	return storage.Open(filepath.Join(t.TempDir(), "issues"))
}

func seedIssue(t *testing.T, s *storage.Store, title string) *types.Issue {
	t.Helper()
	issue, err := s.Create(&types.Issue{
		Title:       title,
		Description: "What goes wrong.",
		Impact:      "Who it hurts.",
		Acceptance:  "When it counts as fixed.",
	})
	if err != nil {
		t.Fatalf("Create(%q): %v", title, err)
	}
	return issue
}

func mustCheck(t *testing.T, s *storage.Store) *Report {
	t.Helper()
	report, err := Check(s)
	if err != nil {
		t.Fatalf("Check: %v", err)
	}
	return report
}

func recordPath(t *testing.T, s *storage.Store, issue *types.Issue) string {
	t.Helper()
	return filepath.Join(
		s.PartitionDir(issue.Status.Partition()),
		storage.RecordName(issue.ID, issue.Title),
	)
}

func TestCheckCleanTree(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Login fails on Safari")
	seedIssue(t, s, "Exports lose emoji")
	if _, err := s.Close("2", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}

	report := mustCheck(t, s)
	if !report.Clean() {
		t.Fatalf("findings on a clean tree: %+v", report.Findings)
	}
	if report.Checked != 2 {
		t.Errorf("Checked = %d, want 2", report.Checked)
	}
	if n := report.FixableCount(); n != 0 {
		t.Errorf("FixableCount = %d, want 0", n)
	}
}

func TestCheckMalformedRecord(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Real issue")
	bogus := filepath.Join(s.PartitionDir(types.PartitionOpen), "99-bogus.mdx")
	if err := os.WriteFile(bogus, []byte("not a record at all"), 0o644); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if report.Checked != 1 {
		t.Errorf("Checked = %d, want 1", report.Checked)
	}
	if len(report.Findings) != 1 {
		t.Fatalf("findings = %+v, want one malformed", report.Findings)
	}
	f := report.Findings[0]
	if f.Kind != KindMalformed || f.Path != bogus || f.Fixable {
		t.Errorf("finding = %+v, want unfixable malformed at %s", f, bogus)
	}
}

func TestCheckAndFixFilenameMismatch(t *testing.T) {
	s := newTestStore(t)
	issue := seedIssue(t, s, "Slug drift")
	canonical := recordPath(t, s, issue)
	stale := filepath.Join(filepath.Dir(canonical), "01-old-title.mdx")
	if err := os.Rename(canonical, stale); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 || report.Findings[0].Kind != KindFilename {
		t.Fatalf("findings = %+v, want one filename mismatch", report.Findings)
	}
	if !report.Findings[0].Fixable {
		t.Fatal("filename mismatch should be fixable")
	}

	fixed, err := Fix(s, report)
	if err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if fixed != 1 {
		t.Errorf("fixed = %d, want 1", fixed)
	}
	if _, err := os.Stat(canonical); err != nil {
		t.Errorf("canonical name not restored: %v", err)
	}
	if !mustCheck(t, s).Clean() {
		t.Error("tree still dirty after fix")
	}
}

func TestCheckAndFixWrongPartition(t *testing.T) {
	s := newTestStore(t)
	issue := seedIssue(t, s, "Wrong shelf")
	canonical := recordPath(t, s, issue)
	// Misfiled and misnamed at once: the partition fix must restore both.
	misfiled := filepath.Join(s.PartitionDir(types.PartitionClosed), "01-zz.mdx")
	if err := os.MkdirAll(filepath.Dir(misfiled), 0o755); err != nil {
		t.Fatal(err)
	}
	if err := os.Rename(canonical, misfiled); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 || report.Findings[0].Kind != KindPartition {
		t.Fatalf("findings = %+v, want one partition mismatch", report.Findings)
	}

	if _, err := Fix(s, report); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	if _, err := os.Stat(canonical); err != nil {
		t.Errorf("record not restored to %s: %v", canonical, err)
	}
	if !mustCheck(t, s).Clean() {
		t.Error("tree still dirty after fix")
	}
}

func TestCheckDuplicateID(t *testing.T) {
	s := newTestStore(t)
	issue := seedIssue(t, s, "Original")
	data, err := os.ReadFile(recordPath(t, s, issue))
	if err != nil {
		t.Fatal(err)
	}
	copyPath := filepath.Join(s.PartitionDir(types.PartitionOpen), "01-zcopy.mdx")
	if err := os.WriteFile(copyPath, data, 0o644); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 {
		t.Fatalf("findings = %+v, want only the duplicate", report.Findings)
	}
	f := report.Findings[0]
	if f.Kind != KindDuplicateID || f.Path != copyPath || f.Fixable {
		t.Errorf("finding = %+v, want unfixable duplicate at %s", f, copyPath)
	}
}

func TestCheckAndFixDanglingAlias(t *testing.T) {
	s := newTestStore(t)
	issue := seedIssue(t, s, "Soon gone")
	if err := s.AddAlias("auth", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if err := os.Remove(recordPath(t, s, issue)); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 || report.Findings[0].Kind != KindDanglingAlias {
		t.Fatalf("findings = %+v, want one dangling alias", report.Findings)
	}

	if _, err := Fix(s, report); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	aliases, err := s.Aliases()
	if err != nil {
		t.Fatalf("Aliases: %v", err)
	}
	if len(aliases) != 0 {
		t.Errorf("aliases = %v, want none", aliases)
	}
	if !mustCheck(t, s).Clean() {
		t.Error("tree still dirty after fix")
	}
}

func TestCheckAndFixDanglingDependency(t *testing.T) {
	s := newTestStore(t)
	target := seedIssue(t, s, "Removed later")
	seedIssue(t, s, "Depends on it")
	if _, err := s.AddDependency("2", "1"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if err := os.Remove(recordPath(t, s, target)); err != nil {
		t.Fatal(err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 || report.Findings[0].Kind != KindDanglingDep {
		t.Fatalf("findings = %+v, want one dangling dependency", report.Findings)
	}
	if report.Findings[0].Ref != "BUG-2" {
		t.Errorf("Ref = %q, want BUG-2", report.Findings[0].Ref)
	}

	if _, err := Fix(s, report); err != nil {
		t.Fatalf("Fix: %v", err)
	}
	got, err := s.Get("2")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("DependsOn = %v, want empty", got.DependsOn)
	}
	if !mustCheck(t, s).Clean() {
		t.Error("tree still dirty after fix")
	}
}

func TestCheckReportsHandEditedCycle(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "First")
	seedIssue(t, s, "Second")
	if _, err := s.AddDependency("2", "1"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	// AddDependency refuses cycles, so close the loop the way a hand
	// edit would.
	_, err := s.Update("1", func(issue *types.Issue) error {
		issue.DependsOn = append(issue.DependsOn, 2)
		return nil
	})
	if err != nil {
		t.Fatalf("Update: %v", err)
	}

	report := mustCheck(t, s)
	if len(report.Findings) != 1 {
		t.Fatalf("findings = %+v, want one cycle", report.Findings)
	}
	f := report.Findings[0]
	if f.Kind != KindCycle || f.Fixable {
		t.Errorf("finding = %+v, want unfixable cycle", f)
	}
	if want := "BUG-1 -> BUG-2 -> BUG-1"; !strings.Contains(f.Detail, want) {
		t.Errorf("Detail = %q, want it to contain %q", f.Detail, want)
	}
}

func TestCheckMissingTreeIsEmpty(t *testing.T) {
	s := storage.Open(filepath.Join(t.TempDir(), "never-created"))
	report := mustCheck(t, s)
	if !report.Clean() || report.Checked != 0 {
		t.Errorf("report = %+v, want empty clean report", report)
	}
}
