// Package graph provides dependency analysis over a snapshot of issues:
// cycle prevention at insertion time, whole-graph validation, critical
// path extraction, and readiness checks.
package graph

import (
	"fmt"
	"sort"

	"github.com/bugsdev/bugs/internal/types"
)

// SelfDependencyError reports an issue declared as depending on itself.
type SelfDependencyError struct {
	ID int
}

func (e *SelfDependencyError) Error() string {
	return fmt.Sprintf("%s cannot depend on itself", types.Ref(e.ID))
}

// CycleError reports a dependency edge that would close a loop. Path
// holds the ids that already connect the target back to the source.
type CycleError struct {
	From int
	To   int
	Path []int
}

func (e *CycleError) Error() string {
	return fmt.Sprintf("%s -> %s would create a dependency cycle", types.Ref(e.From), types.Ref(e.To))
}

// Graph is an immutable dependency view over a set of issues. Edges point
// from an issue to its prerequisites. Edges referencing ids outside the
// set are kept but never traversed.
type Graph struct {
	issues map[int]*types.Issue
	out    map[int][]int
	in     map[int][]int
}

// Build constructs the graph from the given issues.
func Build(issues []*types.Issue) *Graph {
	g := &Graph{
		issues: make(map[int]*types.Issue, len(issues)),
		out:    make(map[int][]int),
		in:     make(map[int][]int),
	}
	for _, issue := range issues {
		g.issues[issue.ID] = issue
	}
	for _, issue := range issues {
		for _, dep := range issue.DependsOn {
			g.out[issue.ID] = append(g.out[issue.ID], dep)
			g.in[dep] = append(g.in[dep], issue.ID)
		}
	}
	return g
}

// Has reports whether the id is a node in the graph.
func (g *Graph) Has(id int) bool {
	_, ok := g.issues[id]
	return ok
}

// Dependencies returns the ids the issue depends on, sorted.
func (g *Graph) Dependencies(id int) []int {
	return sortedCopy(g.out[id])
}

// Dependents returns the ids that depend on the issue, sorted.
func (g *Graph) Dependents(id int) []int {
	return sortedCopy(g.in[id])
}

func sortedCopy(ids []int) []int {
	if len(ids) == 0 {
		return nil
	}
	out := make([]int, len(ids))
	copy(out, ids)
	sort.Ints(out)
	return out
}

// CheckAdd verifies that an edge from -> to could be added without
// breaking the graph's invariants. It never mutates anything, so a
// failed add leaves the graph exactly as it was.
func (g *Graph) CheckAdd(from, to int) error {
	if from == to {
		return &SelfDependencyError{ID: from}
	}
	if path := g.pathBetween(to, from); path != nil {
		return &CycleError{From: from, To: to, Path: path}
	}
	return nil
}

// pathBetween returns a dependency path from src to dst, or nil if dst is
// not reachable. Traversal only follows edges to known nodes.
func (g *Graph) pathBetween(src, dst int) []int {
	if !g.Has(src) || !g.Has(dst) {
		return nil
	}
	prev := map[int]int{src: src}
	queue := []int{src}
	for len(queue) > 0 {
		cur := queue[0]
		queue = queue[1:]
		if cur == dst {
			var path []int
			for n := dst; ; n = prev[n] {
				path = append([]int{n}, path...)
				if n == src {
					return path
				}
			}
		}
		for _, next := range g.out[cur] {
			if !g.Has(next) {
				continue
			}
			if _, seen := prev[next]; seen {
				continue
			}
			prev[next] = cur
			queue = append(queue, next)
		}
	}
	return nil
}

// Cycles finds every dependency cycle in the graph. The API refuses to
// insert cycles, but records edited by hand can still contain them.
// Each cycle is reported once as the ordered list of its participants.
func (g *Graph) Cycles() [][]int {
	const (
		white = 0
		gray  = 1
		black = 2
	)
	color := make(map[int]int, len(g.issues))
	var stack []int
	var cycles [][]int

	var visit func(id int)
	visit = func(id int) {
		color[id] = gray
		stack = append(stack, id)
		for _, next := range g.out[id] {
			if !g.Has(next) {
				continue
			}
			switch color[next] {
			case white:
				visit(next)
			case gray:
				for i := len(stack) - 1; i >= 0; i-- {
					if stack[i] == next {
						cycle := make([]int, len(stack)-i)
						copy(cycle, stack[i:])
						cycles = append(cycles, cycle)
						break
					}
				}
			}
		}
		stack = stack[:len(stack)-1]
		color[id] = black
	}

	for _, id := range g.sortedIDs() {
		if color[id] == white {
			visit(id)
		}
	}
	return cycles
}

func (g *Graph) sortedIDs() []int {
	ids := make([]int, 0, len(g.issues))
	for id := range g.issues {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

type chain struct {
	length int
	effort int
	next   int // 0 means chain ends here
}

// better reports whether c should replace other as the best chain. Longer
// chains win; equal length falls back to total estimated effort.
func (c chain) better(other chain) bool {
	if c.length != other.length {
		return c.length > other.length
	}
	return c.effort > other.effort
}

// CriticalPath returns the longest dependency chain in the graph, ordered
// so that the issue everything else waits on comes first. Length is
// measured in edges; ties break toward the chain with the larger summed
// effort estimate. Memoized, so the walk is linear in nodes plus edges.
func (g *Graph) CriticalPath() []int {
	memo := make(map[int]chain, len(g.issues))
	onStack := make(map[int]bool)

	var visit func(id int) chain
	visit = func(id int) chain {
		if c, ok := memo[id]; ok {
			return c
		}
		onStack[id] = true
		best := chain{length: 1, effort: g.effort(id)}
		for _, next := range sortedCopy(g.out[id]) {
			if !g.Has(next) || onStack[next] {
				continue
			}
			sub := visit(next)
			cand := chain{length: sub.length + 1, effort: g.effort(id) + sub.effort, next: next}
			if cand.better(best) {
				best = cand
			}
		}
		onStack[id] = false
		memo[id] = best
		return best
	}

	var bestHead int
	var best chain
	for _, id := range g.sortedIDs() {
		if c := visit(id); c.better(best) {
			best = c
			bestHead = id
		}
	}
	if best.length <= 1 {
		return nil
	}

	path := make([]int, 0, best.length)
	for id := bestHead; ; {
		path = append(path, id)
		c := memo[id]
		if c.next == 0 {
			break
		}
		id = c.next
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path
}

func (g *Graph) effort(id int) int {
	if issue, ok := g.issues[id]; ok {
		return issue.EffortMinutes
	}
	return 0
}

// IsReady reports whether every dependency of the issue is resolved.
// lookup resolves a dependency id to its current status; unknown ids are
// treated as resolved since there is nothing left to wait on. An issue
// with no dependencies is ready.
func IsReady(issue *types.Issue, lookup func(int) (types.Status, bool)) bool {
	for _, dep := range issue.DependsOn {
		if st, ok := lookup(dep); ok && !st.Resolved() {
			return false
		}
	}
	return true
}
