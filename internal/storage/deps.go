package storage

import (
	"github.com/bugsdev/bugs/internal/graph"
	"github.com/bugsdev/bugs/internal/types"
)

// AddDependency records that from depends on to. Both references must
// resolve; self edges and edges that would close a cycle are refused
// before anything is written, and the check runs over every record in
// both partitions so edges through closed issues still count. Adding an
// edge that already exists is a no-op.
func (s *Store) AddDependency(fromRef, toRef string) (*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *types.Issue
	err := s.withFileLock(func() error {
		snapshot, err := s.scan()
		if err != nil {
			return err
		}
		from, err := s.resolve(fromRef, snapshot)
		if err != nil {
			return err
		}
		to, err := s.resolve(toRef, snapshot)
		if err != nil {
			return err
		}

		issues := make([]*types.Issue, 0, len(snapshot))
		for _, rec := range snapshot {
			issues = append(issues, rec.issue)
		}
		if err := graph.Build(issues).CheckAdd(from, to); err != nil {
			return err
		}

		rec := snapshot[from]
		updated = rec.issue
		if updated.DependsOnID(to) {
			return nil
		}
		updated.DependsOn = append(updated.DependsOn, to)
		return s.write(updated, rec.path)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// RemoveDependency deletes the from -> to edge. Removing an edge that
// does not exist is a no-op.
func (s *Store) RemoveDependency(fromRef, toRef string) (*types.Issue, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	var updated *types.Issue
	err := s.withFileLock(func() error {
		snapshot, err := s.scan()
		if err != nil {
			return err
		}
		from, err := s.resolve(fromRef, snapshot)
		if err != nil {
			return err
		}
		to, err := s.resolve(toRef, snapshot)
		if err != nil {
			return err
		}

		rec := snapshot[from]
		updated = rec.issue
		if !updated.DependsOnID(to) {
			return nil
		}
		kept := updated.DependsOn[:0]
		for _, dep := range updated.DependsOn {
			if dep != to {
				kept = append(kept, dep)
			}
		}
		if len(kept) == 0 {
			updated.DependsOn = nil
		} else {
			updated.DependsOn = kept
		}
		return s.write(updated, rec.path)
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// OpenGraph builds a dependency graph over the open partition, which is
// what planning queries care about. Closed issues only matter as already
// satisfied dependencies.
func (s *Store) OpenGraph() (*graph.Graph, error) {
	open, err := s.List(types.PartitionOpen)
	if err != nil {
		return nil, err
	}
	return graph.Build(open), nil
}

// StatusOf reports the status of an id wherever its record lives. Used
// for readiness checks, where a dependency in the closed partition
// counts as satisfied.
func StatusOf(open, closed []*types.Issue) func(int) (types.Status, bool) {
	byID := make(map[int]types.Status, len(open)+len(closed))
	for _, issue := range open {
		byID[issue.ID] = issue.Status
	}
	for _, issue := range closed {
		if _, ok := byID[issue.ID]; !ok {
			byID[issue.ID] = issue.Status
		}
	}
	return func(id int) (types.Status, bool) {
		st, ok := byID[id]
		return st, ok
	}
}
