package rpc

import (
	"path/filepath"
	"testing"

	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

func newWatchStore(t *testing.T) *storage.Store {
	t.Helper()
	store := storage.Open(filepath.Join(t.TempDir(), "issues"))
	if err := store.Init(); err != nil {
		t.Fatalf("Init: %v", err)
	}
	return store
}

func TestRelevantFiltersNoise(t *testing.T) {
	store := newWatchStore(t)
	fw := &FileWatcher{
		root:      store.Root(),
		aliasPath: store.AliasFile(),
		openDir:   store.PartitionDir(types.PartitionOpen),
		closedDir: store.PartitionDir(types.PartitionClosed),
	}

	cases := []struct {
		name string
		path string
		want bool
	}{
		{"alias table", fw.aliasPath, true},
		{"open partition dir", fw.openDir, true},
		{"closed partition dir", fw.closedDir, true},
		{"open record", filepath.Join(fw.openDir, "01-login-bug.mdx"), true},
		{"closed record", filepath.Join(fw.closedDir, "02-old-bug.mdx"), true},
		{"lock file", filepath.Join(fw.root, ".bugs.lock"), false},
		{"cache db", filepath.Join(fw.root, ".cache", "index.db"), false},
		{"stray file in partition", filepath.Join(fw.openDir, "notes.txt"), false},
		{"record elsewhere", filepath.Join(fw.root, "03-misplaced.mdx"), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := fw.relevant(tc.path); got != tc.want {
				t.Errorf("relevant(%q) = %t, want %t", tc.path, got, tc.want)
			}
		})
	}
}

func TestPollSigTracksRecordChanges(t *testing.T) {
	store := newWatchStore(t)
	fw := &FileWatcher{
		root:      store.Root(),
		aliasPath: store.AliasFile(),
		openDir:   store.PartitionDir(types.PartitionOpen),
		closedDir: store.PartitionDir(types.PartitionClosed),
	}

	empty := fw.pollSig()
	if empty.count != 0 {
		t.Fatalf("empty tree signature = %+v", empty)
	}

	issue := &types.Issue{
		Title:       "Watcher test subject",
		Description: "Record for fingerprinting.",
		Impact:      "None.",
		Acceptance:  "Signature changes.",
	}
	if _, err := store.Create(issue); err != nil {
		t.Fatalf("Create: %v", err)
	}
	created := fw.pollSig()
	if created == empty {
		t.Fatal("signature unchanged after create")
	}
	if created.count != 1 {
		t.Errorf("count = %d, want 1", created.count)
	}

	// A close moves the record between partitions; count stays the
	// same but the fingerprint still shifts.
	if _, err := store.Close("1", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}
	closed := fw.pollSig()
	if closed == created {
		t.Fatal("signature unchanged after close")
	}
	if closed.count != 1 {
		t.Errorf("count after close = %d, want 1", closed.count)
	}

	if err := store.AddAlias("subject", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if sig := fw.pollSig(); sig == closed || !sig.aliasOK {
		t.Errorf("alias write not reflected: %+v", sig)
	}
}
