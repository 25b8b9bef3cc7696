// Package validation inspects a record tree for integrity problems:
// records that fail to decode, filenames that disagree with their
// record, records filed in the wrong partition, duplicate ids,
// dangling aliases and dependencies, and dependency cycles.
package validation

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/graph"
	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
)

// Kind classifies a finding.
type Kind string

const (
	KindMalformed     Kind = "malformed"
	KindFilename      Kind = "filename"
	KindPartition     Kind = "partition"
	KindDuplicateID   Kind = "duplicate-id"
	KindDanglingAlias Kind = "dangling-alias"
	KindDanglingDep   Kind = "dangling-dependency"
	KindCycle         Kind = "cycle"
)

// Finding is one problem in the tree. Fixable findings carry a repair
// that Fix applies.
type Finding struct {
	Kind    Kind   `json:"kind"`
	Ref     string `json:"ref,omitempty"`
	Path    string `json:"path,omitempty"`
	Detail  string `json:"detail"`
	Fixable bool   `json:"fixable"`

	fix func(*storage.Store) error
}

// Report is the outcome of a full tree check.
type Report struct {
	Checked  int       `json:"checked"`
	Findings []Finding `json:"findings"`
}

func (r *Report) add(f Finding) {
	f.Fixable = f.fix != nil
	r.Findings = append(r.Findings, f)
}

// Clean reports whether the check found nothing.
func (r *Report) Clean() bool { return len(r.Findings) == 0 }

// FixableCount returns how many findings carry a repair.
func (r *Report) FixableCount() int {
	n := 0
	for _, f := range r.Findings {
		if f.Fixable {
			n++
		}
	}
	return n
}

type checkedRecord struct {
	issue *types.Issue
	path  string
}

// Check walks both partitions and the alias table. It never mutates
// anything; repairs happen only through Fix.
func Check(store *storage.Store) (*Report, error) {
	report := &Report{}
	var records []checkedRecord
	firstPath := map[int]string{}

	for _, p := range []types.Partition{types.PartitionOpen, types.PartitionClosed} {
		part := p
		dir := store.PartitionDir(part)
		entries, err := os.ReadDir(dir)
		if errors.Is(err, fs.ErrNotExist) {
			// The store treats a missing partition directory as empty.
			continue
		}
		if err != nil {
			return nil, fmt.Errorf("reading %s partition: %w", part, err)
		}

		for _, entry := range entries {
			if entry.IsDir() || !strings.HasSuffix(entry.Name(), storage.RecordExt) {
				continue
			}
			path := filepath.Join(dir, entry.Name())
			data, err := os.ReadFile(path)
			if err != nil {
				return nil, fmt.Errorf("reading %s: %w", path, err)
			}
			issue, err := codec.Decode(data)
			if err != nil {
				report.add(Finding{Kind: KindMalformed, Path: path, Detail: err.Error()})
				continue
			}
			report.Checked++

			if prev, ok := firstPath[issue.ID]; ok {
				// Renaming or moving a duplicate would clobber the
				// first record, so no other findings for this file.
				report.add(Finding{
					Kind:   KindDuplicateID,
					Ref:    types.Ref(issue.ID),
					Path:   path,
					Detail: fmt.Sprintf("id %d is also used by %s", issue.ID, prev),
				})
				continue
			}
			firstPath[issue.ID] = path

			want := storage.RecordName(issue.ID, issue.Title)
			wantPart := issue.Status.Partition()
			switch {
			case wantPart != part:
				// The partition fix moves the file to its canonical
				// name as well, so a misnamed misfiled record needs
				// only this one finding.
				src, dst := path, filepath.Join(store.PartitionDir(wantPart), want)
				report.add(Finding{
					Kind:   KindPartition,
					Ref:    types.Ref(issue.ID),
					Path:   path,
					Detail: fmt.Sprintf("status %s belongs in %s/", issue.Status, wantPart),
					fix: func(*storage.Store) error {
						if err := os.MkdirAll(filepath.Dir(dst), 0o755); err != nil {
							return err
						}
						return os.Rename(src, dst)
					},
				})
			case entry.Name() != want:
				src, dst := path, filepath.Join(dir, want)
				report.add(Finding{
					Kind:   KindFilename,
					Ref:    types.Ref(issue.ID),
					Path:   path,
					Detail: fmt.Sprintf("file is named %s, record says %s", entry.Name(), want),
					fix:    func(*storage.Store) error { return os.Rename(src, dst) },
				})
			}

			records = append(records, checkedRecord{issue: issue, path: path})
		}
	}

	checkAliases(store, report, firstPath)
	checkDependencies(report, records, firstPath)
	checkCycles(report, records)

	return report, nil
}

func checkAliases(store *storage.Store, report *Report, firstPath map[int]string) {
	aliases, err := store.Aliases()
	if err != nil {
		report.add(Finding{Kind: KindDanglingAlias, Detail: fmt.Sprintf("alias table unreadable: %v", err)})
		return
	}
	names := make([]string, 0, len(aliases))
	for name := range aliases {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		id := aliases[name]
		if _, ok := firstPath[id]; ok {
			continue
		}
		alias := name
		report.add(Finding{
			Kind:   KindDanglingAlias,
			Ref:    types.Ref(id),
			Detail: fmt.Sprintf("alias %q points at missing %s", alias, types.Ref(id)),
			fix:    func(s *storage.Store) error { return s.RemoveAlias(alias) },
		})
	}
}

func checkDependencies(report *Report, records []checkedRecord, firstPath map[int]string) {
	for _, rec := range records {
		for _, dep := range rec.issue.DependsOn {
			if _, ok := firstPath[dep]; ok {
				continue
			}
			from, missing := rec.issue.ID, dep
			report.add(Finding{
				Kind:   KindDanglingDep,
				Ref:    types.Ref(from),
				Path:   rec.path,
				Detail: fmt.Sprintf("depends on missing %s", types.Ref(missing)),
				fix: func(s *storage.Store) error {
					_, err := s.Update(strconv.Itoa(from), func(issue *types.Issue) error {
						kept := issue.DependsOn[:0]
						for _, d := range issue.DependsOn {
							if d != missing {
								kept = append(kept, d)
							}
						}
						issue.DependsOn = kept
						return nil
					})
					return err
				},
			})
		}
	}
}

func checkCycles(report *Report, records []checkedRecord) {
	issues := make([]*types.Issue, 0, len(records))
	for _, rec := range records {
		issues = append(issues, rec.issue)
	}
	for _, cycle := range graph.Build(issues).Cycles() {
		refs := make([]string, 0, len(cycle)+1)
		for _, id := range cycle {
			refs = append(refs, types.Ref(id))
		}
		refs = append(refs, types.Ref(cycle[0]))
		report.add(Finding{
			Kind:   KindCycle,
			Ref:    types.Ref(cycle[0]),
			Detail: "dependency cycle: " + strings.Join(refs, " -> "),
		})
	}
}

// Fix applies every fixable finding, continuing past individual
// failures. It returns the number repaired and the joined errors.
func Fix(store *storage.Store, report *Report) (int, error) {
	fixed := 0
	var errs []error
	for _, f := range report.Findings {
		if f.fix == nil {
			continue
		}
		if err := f.fix(store); err != nil {
			errs = append(errs, fmt.Errorf("%s %s: %w", f.Kind, f.Detail, err))
			continue
		}
		fixed++
	}
	return fixed, errors.Join(errs...)
}
