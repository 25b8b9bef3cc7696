// Package storage persists issues as one record file per issue, split
// across an open and a closed partition, with an alias table alongside.
// All mutations run load -> mutate -> persist under a single mutex, plus
// a file lock so concurrent processes fail fast instead of clobbering
// each other.
package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/gofrs/flock"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/types"
)

const (
	// RecordExt is the extension of persisted issue records.
	RecordExt     = ".mdx"
	aliasFileName = ".aliases.yaml"
	lockFileName  = ".bugs.lock"
	cacheDirName  = ".cache"
)

// Store manages the record tree rooted at an issues directory.
type Store struct {
	mu   sync.Mutex
	root string
}

// Open returns a store over the given issues directory. The directory
// does not need to exist yet; reads treat a missing tree as empty and
// the first write creates it.
func Open(root string) *Store {
	return &Store{root: root}
}

// Discover walks up from start looking for an issues directory holding
// at least one partition. ok is false when the walk hits the filesystem
// root without a match.
func Discover(start string) (root string, ok bool) {
	for dir := start; ; dir = filepath.Dir(dir) {
		candidate := filepath.Join(dir, "issues")
		for _, p := range []types.Partition{types.PartitionOpen, types.PartitionClosed} {
			if info, err := os.Stat(filepath.Join(candidate, string(p))); err == nil && info.IsDir() {
				return candidate, true
			}
		}
		if dir == filepath.Dir(dir) {
			return "", false
		}
	}
}

// Root returns the issues directory the store operates on.
func (s *Store) Root() string { return s.root }

// CacheDir returns the directory for derived data such as the search
// index. Nothing under it is a source of truth.
func (s *Store) CacheDir() string { return filepath.Join(s.root, cacheDirName) }

// AliasFile returns the path of the alias table.
func (s *Store) AliasFile() string { return s.aliasPath() }

// PartitionDir returns the directory holding a partition's records.
func (s *Store) PartitionDir(p types.Partition) string {
	return filepath.Join(s.root, string(p))
}

// Init creates the partition layout.
func (s *Store) Init() error {
	for _, p := range []types.Partition{types.PartitionOpen, types.PartitionClosed} {
		if err := os.MkdirAll(s.PartitionDir(p), 0o755); err != nil {
			return fmt.Errorf("creating %s partition: %w", p, err)
		}
	}
	return nil
}

func (s *Store) lockPath() string {
	return filepath.Join(s.root, lockFileName)
}

// withFileLock takes the cross-process write lock for the duration of fn.
// A held lock fails the call immediately rather than queueing behind the
// other writer.
func (s *Store) withFileLock(fn func() error) error {
	if err := os.MkdirAll(s.root, 0o755); err != nil {
		return fmt.Errorf("creating issues directory: %w", err)
	}
	lock := flock.New(s.lockPath())
	locked, err := lock.TryLock()
	if err != nil {
		return fmt.Errorf("acquiring write lock: %w", err)
	}
	if !locked {
		return fmt.Errorf("another bugs process is writing to %s", s.root)
	}
	defer func() {
		_ = lock.Unlock()
	}()
	return fn()
}

// Slugify converts a title into the filename-safe fragment used in record
// names: lowercased, runs of non-alphanumerics collapsed to single
// dashes.
func Slugify(title string) string {
	var b strings.Builder
	lastDash := true
	for _, r := range strings.ToLower(title) {
		switch {
		case r >= 'a' && r <= 'z' || r >= '0' && r <= '9':
			b.WriteRune(r)
			lastDash = false
		case !lastDash:
			b.WriteByte('-')
			lastDash = true
		}
	}
	return strings.TrimRight(b.String(), "-")
}

// RecordName returns the canonical file name for an issue record.
func RecordName(id int, title string) string {
	return fmt.Sprintf("%02d-%s%s", id, Slugify(title), RecordExt)
}

func (s *Store) pathFor(issue *types.Issue) string {
	return filepath.Join(s.PartitionDir(issue.Status.Partition()), RecordName(issue.ID, issue.Title))
}

// located pairs a decoded issue with the file it came from.
type located struct {
	issue *types.Issue
	path  string
}

func (s *Store) readPartition(p types.Partition) ([]located, error) {
	dir := s.PartitionDir(p)
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading %s partition: %w", p, err)
	}

	var out []located
	for _, entry := range entries {
		if entry.IsDir() || !strings.HasSuffix(entry.Name(), RecordExt) {
			continue
		}
		path := filepath.Join(dir, entry.Name())
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("reading %s: %w", path, err)
		}
		issue, err := codec.Decode(data)
		if err != nil {
			return nil, fmt.Errorf("decoding %s: %w", path, err)
		}
		out = append(out, located{issue: issue, path: path})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].issue.ID < out[j].issue.ID })
	return out, nil
}

// scan loads every record. When the same id appears in both partitions
// the open copy wins; doctor reports the duplicate.
func (s *Store) scan() (map[int]located, error) {
	byID := make(map[int]located)
	for _, p := range []types.Partition{types.PartitionOpen, types.PartitionClosed} {
		records, err := s.readPartition(p)
		if err != nil {
			return nil, err
		}
		for _, rec := range records {
			if _, ok := byID[rec.issue.ID]; ok {
				continue
			}
			byID[rec.issue.ID] = rec
		}
	}
	return byID, nil
}

// List returns the issues in one partition, sorted by id.
func (s *Store) List(p types.Partition) ([]*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	records, err := s.readPartition(p)
	if err != nil {
		return nil, err
	}
	issues := make([]*types.Issue, len(records))
	for i, rec := range records {
		issues[i] = rec.issue
	}
	return issues, nil
}

// All returns both partitions, each sorted by id.
func (s *Store) All() (open, closed []*types.Issue, err error) {
	open, err = s.List(types.PartitionOpen)
	if err != nil {
		return nil, nil, err
	}
	closed, err = s.List(types.PartitionClosed)
	if err != nil {
		return nil, nil, err
	}
	return open, closed, nil
}

// Get resolves a reference and returns the issue.
func (s *Store) Get(ref string) (*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := s.scan()
	if err != nil {
		return nil, err
	}
	id, err := s.resolve(ref, snapshot)
	if err != nil {
		return nil, err
	}
	return snapshot[id].issue, nil
}

// NextID returns the id the next created issue will receive: one past the
// highest id in either partition.
func (s *Store) NextID() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	snapshot, err := s.scan()
	if err != nil {
		return 0, err
	}
	return nextID(snapshot), nil
}

func nextID(snapshot map[int]located) int {
	max := 0
	for id := range snapshot {
		if id > max {
			max = id
		}
	}
	return max + 1
}

// Create persists a new issue into the open partition. A zero id is
// assigned automatically; defaults and tag normalization are applied
// before the record is written.
func (s *Store) Create(issue *types.Issue) (*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	err := s.withFileLock(func() error {
		snapshot, err := s.scan()
		if err != nil {
			return err
		}
		if issue.ID == 0 {
			issue.ID = nextID(snapshot)
		} else if _, ok := snapshot[issue.ID]; ok {
			return fmt.Errorf("id %d is already in use", issue.ID)
		}
		issue.SetDefaults()
		if issue.CreatedAt.IsZero() {
			issue.CreatedAt = time.Now().Truncate(time.Second)
		}
		issue.Tags = types.NormalizeTags(issue.Tags)
		if err := issue.Validate(); err != nil {
			return err
		}
		return s.write(issue, s.pathFor(issue))
	})
	if err != nil {
		return nil, err
	}
	return issue, nil
}

func (s *Store) write(issue *types.Issue, path string) error {
	data, err := codec.Encode(issue)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("creating partition: %w", err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

// Update resolves a reference, applies fn to the issue, and persists the
// result. If fn returns an error nothing is written. When the update
// changes the record's partition or filename the new copy is written and
// verified before the old one is removed, so a failed write can never
// lose the record.
func (s *Store) Update(ref string, fn func(*types.Issue) error) (*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *types.Issue
	err := s.withFileLock(func() error {
		snapshot, err := s.scan()
		if err != nil {
			return err
		}
		id, err := s.resolve(ref, snapshot)
		if err != nil {
			return err
		}
		rec := snapshot[id]
		issue := rec.issue

		if err := fn(issue); err != nil {
			return err
		}
		issue.Tags = types.NormalizeTags(issue.Tags)
		if err := issue.Validate(); err != nil {
			return fmt.Errorf("refusing to persist invalid record: %w", err)
		}

		newPath := s.pathFor(issue)
		if newPath == rec.path {
			if err := s.write(issue, newPath); err != nil {
				return err
			}
			updated = issue
			return nil
		}
		if err := s.move(issue, rec.path, newPath); err != nil {
			return err
		}
		updated = issue
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// move writes the record at newPath, reads it back to confirm it decodes
// to the same issue, and only then removes the old copy. A verification
// failure leaves the old record untouched.
func (s *Store) move(issue *types.Issue, oldPath, newPath string) error {
	if err := s.write(issue, newPath); err != nil {
		return err
	}
	if err := s.verify(issue, newPath); err != nil {
		_ = os.Remove(newPath)
		return &CorruptedError{Path: newPath, Err: err}
	}
	if err := os.Remove(oldPath); err != nil {
		return fmt.Errorf("removing old record %s: %w", oldPath, err)
	}
	return nil
}

func (s *Store) verify(issue *types.Issue, path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}
	decoded, err := codec.Decode(data)
	if err != nil {
		return err
	}
	if decoded.ID != issue.ID || decoded.Status != issue.Status {
		return fmt.Errorf("read-back mismatch: got %s/%s, want %s/%s",
			types.Ref(decoded.ID), decoded.Status, types.Ref(issue.ID), issue.Status)
	}
	return nil
}
