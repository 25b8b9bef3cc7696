package storage

import (
	"errors"
	"testing"
)

func TestResolveNumeric(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	id, err := s.Resolve("1")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}
}

func TestResolveUnknownNumeric(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	_, err := s.Resolve("42")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve error = %v, want NotFoundError", err)
	}
	if notFound.Ref != "42" {
		t.Errorf("Ref = %q, want %q", notFound.Ref, "42")
	}
}

func TestResolveAlias(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Auth regression")

	if err := s.AddAlias("auth-bug", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	id, err := s.Resolve("auth-bug")
	if err != nil {
		t.Fatalf("Resolve: %v", err)
	}
	if id != 1 {
		t.Errorf("id = %d, want 1", id)
	}

	issue, err := s.Get("auth-bug")
	if err != nil {
		t.Fatalf("Get by alias: %v", err)
	}
	if issue.ID != 1 {
		t.Errorf("Get by alias returned %d", issue.ID)
	}
}

func TestResolveUnknownAlias(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	_, err := s.Resolve("no-such-alias")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("Resolve error = %v, want NotFoundError", err)
	}
}

func TestAddAliasIdempotentSameTarget(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	if err := s.AddAlias("shortcut", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if err := s.AddAlias("shortcut", "1"); err != nil {
		t.Errorf("re-adding identical alias failed: %v", err)
	}
}

func TestAddAliasConflict(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "First")
	seedIssue(t, s, "Second")

	if err := s.AddAlias("shortcut", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	err := s.AddAlias("shortcut", "2")
	var conflict *AliasConflictError
	if !errors.As(err, &conflict) {
		t.Fatalf("AddAlias error = %v, want AliasConflictError", err)
	}
	if conflict.Alias != "shortcut" || conflict.ID != 1 {
		t.Errorf("conflict = %+v, want shortcut -> 1", conflict)
	}
}

func TestAddAliasRejectsNumericAndEmpty(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	if err := s.AddAlias("17", "1"); err == nil {
		t.Error("numeric alias accepted")
	}
	if err := s.AddAlias("  ", "1"); err == nil {
		t.Error("empty alias accepted")
	}
}

func TestRemoveAlias(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Target")

	if err := s.AddAlias("shortcut", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if err := s.RemoveAlias("shortcut"); err != nil {
		t.Fatalf("RemoveAlias: %v", err)
	}
	if _, err := s.Resolve("shortcut"); err == nil {
		t.Error("alias still resolves after removal")
	}

	err := s.RemoveAlias("shortcut")
	var notFound *NotFoundError
	if !errors.As(err, &notFound) {
		t.Errorf("RemoveAlias error = %v, want NotFoundError", err)
	}
}

func TestAliasSurvivesClose(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Long lived")

	if err := s.AddAlias("keeper", "1"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}
	if _, err := s.Close("1", ""); err != nil {
		t.Fatalf("Close: %v", err)
	}

	issue, err := s.Get("keeper")
	if err != nil {
		t.Fatalf("Get by alias after close: %v", err)
	}
	if issue.ID != 1 {
		t.Errorf("alias resolved to %d, want 1", issue.ID)
	}
}

func TestAliasesFor(t *testing.T) {
	s := newTestStore(t)
	seedIssue(t, s, "Popular")
	seedIssue(t, s, "Other")

	for _, alias := range []string{"zulu", "alpha"} {
		if err := s.AddAlias(alias, "1"); err != nil {
			t.Fatalf("AddAlias(%q): %v", alias, err)
		}
	}
	if err := s.AddAlias("unrelated", "2"); err != nil {
		t.Fatalf("AddAlias: %v", err)
	}

	names, err := s.AliasesFor(1)
	if err != nil {
		t.Fatalf("AliasesFor: %v", err)
	}
	if len(names) != 2 || names[0] != "alpha" || names[1] != "zulu" {
		t.Errorf("AliasesFor = %v, want [alpha zulu]", names)
	}
}
