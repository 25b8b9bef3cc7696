package storage

import (
	"errors"
	"testing"

	"github.com/bugsdev/bugs/internal/graph"
)

func TestAddDependencyPersists(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Feature")
	seedIssue(t, s, "Groundwork")

	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	got, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.DependsOn) != 1 || got.DependsOn[0] != 2 {
		t.Errorf("DependsOn = %v, want [2]", got.DependsOn)
	}
}

func TestAddDependencyIdempotent(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Feature")
	seedIssue(t, s, "Groundwork")

	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency repeat: %v", err)
	}
	got, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.DependsOn) != 1 {
		t.Errorf("DependsOn = %v, want single edge", got.DependsOn)
	}
}

func TestAddDependencySelf(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Loner")

	_, err := s.AddDependency("1", "1")
	var self *graph.SelfDependencyError
	if !errors.As(err, &self) {
		t.Fatalf("AddDependency error = %v, want SelfDependencyError", err)
	}
}

func TestAddDependencyCycleLeavesGraphUnchanged(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "A")
	seedIssue(t, s, "B")
	seedIssue(t, s, "C")

	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency 1->2: %v", err)
	}
	if _, err := s.AddDependency("2", "3"); err != nil {
		t.Fatalf("AddDependency 2->3: %v", err)
	}

	_, err := s.AddDependency("3", "1")
	var cycle *graph.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("AddDependency error = %v, want CycleError", err)
	}

	got, err := s.Get("3")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("DependsOn = %v, failed add must not persist", got.DependsOn)
	}
}

func TestAddDependencyCycleThroughClosedIssue(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "A")
	seedIssue(t, s, "B")

	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if _, err := s.Close("1", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}

	// The edge 1 -> 2 still exists on the closed record, so 2 -> 1
	// would close a loop.
	_, err := s.AddDependency("2", "1")
	var cycle *graph.CycleError
	if !errors.As(err, &cycle) {
		t.Fatalf("AddDependency error = %v, want CycleError", err)
	}
}

func TestAddDependencyUnknownTarget(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Feature")

	_, err := s.AddDependency("1", "42")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("AddDependency error = %v, want NotFoundError", err)
	}
}

func TestRemoveDependency(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Feature")
	seedIssue(t, s, "Groundwork")

	if _, err := s.AddDependency("1", "2"); err != nil {
		t.Fatalf("AddDependency: %v", err)
	}
	if _, err := s.RemoveDependency("1", "2"); err != nil {
		t.Fatalf("RemoveDependency: %v", err)
	}
	got, err := s.Get("1")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if len(got.DependsOn) != 0 {
		t.Errorf("DependsOn = %v, want empty", got.DependsOn)
	}

	// Removal is idempotent; an absent edge is not an error.
	if _, err := s.RemoveDependency("1", "2"); err != nil {
		t.Errorf("RemoveDependency repeat: %v", err)
	}
}
