package ui

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/tree"

	"github.com/bugsdev/bugs/internal/types"
)

// IssueLookup resolves an id to an issue from either partition.
type IssueLookup func(id int) (*types.Issue, bool)

func dependencyLabel(id int, lookup IssueLookup) string {
	issue, ok := lookup(id)
	if !ok {
		return TableHintStyle.Render(fmt.Sprintf("%s (missing)", types.Ref(id)))
	}
	label := fmt.Sprintf("%s %s", types.Ref(id), issue.Title)
	if issue.Status.Resolved() {
		return TableSuccessStyle.Render(label + " ✓")
	}
	if issue.Status == types.StatusBlocked {
		return TableWarningStyle.Render(label + " [blocked]")
	}
	return label
}

// BuildDependencyTree constructs a lipgloss/tree rooted at an issue,
// expanding its dependencies recursively. Already-expanded ids are not
// expanded again so hand-edited records with loops still terminate.
func BuildDependencyTree(root *types.Issue, lookup IssueLookup) *tree.Tree {
	t := tree.New().Root(fmt.Sprintf("%s %s", types.Ref(root.ID), root.Title))
	t.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorAccent))
	t.RootStyle(lipgloss.NewStyle().Bold(true).Foreground(ColorAccent))

	seen := map[int]bool{root.ID: true}
	for _, dep := range root.DependsOn {
		t.Child(buildDependencyNode(dep, lookup, seen))
	}
	return t
}

func buildDependencyNode(id int, lookup IssueLookup, seen map[int]bool) *tree.Tree {
	node := tree.New().Root(dependencyLabel(id, lookup))
	node.EnumeratorStyle(lipgloss.NewStyle().Foreground(ColorAccent))
	if seen[id] {
		return node
	}
	seen[id] = true

	issue, ok := lookup(id)
	if !ok {
		return node
	}
	for _, dep := range issue.DependsOn {
		node.Child(buildDependencyNode(dep, lookup, seen))
	}
	return node
}

// RenderDependencyTree renders an issue's dependency tree.
func RenderDependencyTree(root *types.Issue, lookup IssueLookup) string {
	if len(root.DependsOn) == 0 {
		return TableHintStyle.Render(fmt.Sprintf("%s has no dependencies.", types.Ref(root.ID)))
	}
	return BuildDependencyTree(root, lookup).String()
}
