package rpc

import (
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/graph"
	"github.com/bugsdev/bugs/internal/importer"
	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/timeparse"
	"github.com/bugsdev/bugs/internal/types"
)

// defaultWinsMinutes bounds quick wins when no threshold is given.
const defaultWinsMinutes = 60

// issueRow is the compact listing shape. Full records come from show.
type issueRow struct {
	Ref       string         `json:"ref"`
	Title     string         `json:"title"`
	Status    types.Status   `json:"status"`
	Priority  types.Priority `json:"priority"`
	Effort    string         `json:"effort,omitempty"`
	Tags      []string       `json:"tags,omitempty"`
	DependsOn []int          `json:"depends_on,omitempty"`
}

func row(issue *types.Issue) issueRow {
	r := issueRow{
		Ref:       types.Ref(issue.ID),
		Title:     issue.Title,
		Status:    issue.Status,
		Priority:  issue.Priority,
		Tags:      issue.Tags,
		DependsOn: issue.DependsOn,
	}
	if issue.EffortMinutes > 0 {
		r.Effort = duration.Format(issue.EffortMinutes)
	}
	return r
}

func rows(issues []*types.Issue) []issueRow {
	out := make([]issueRow, 0, len(issues))
	for _, issue := range issues {
		out = append(out, row(issue))
	}
	return out
}

func (s *Server) handleList(raw json.RawMessage) toolResult {
	var args ListArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid list args: %v", err))
	}

	var filter types.Filter
	if args.Status != "" {
		st, err := types.ParseStatus(args.Status)
		if err != nil {
			return errorResult(err)
		}
		filter.Status = st
	}
	if args.Priority != "" {
		p, err := types.ParsePriority(args.Priority)
		if err != nil {
			return errorResult(err)
		}
		filter.Priority = p
	}
	if args.Tag != "" {
		filter.Tag = types.NormalizeTag(args.Tag)
	}
	if args.MaxEffort != "" {
		minutes, err := duration.Parse(args.MaxEffort)
		if err != nil {
			return errorResult(err)
		}
		filter.MaxMinutes = minutes
	}

	issues, err := s.store.List(types.PartitionOpen)
	if err != nil {
		return errorResult(err)
	}
	if args.AllRecords {
		closed, err := s.store.List(types.PartitionClosed)
		if err != nil {
			return errorResult(err)
		}
		issues = append(issues, closed...)
	}
	return textResult(rows(queries.Apply(issues, filter)))
}

func (s *Server) handleShow(raw json.RawMessage) toolResult {
	var args RefArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid show args: %v", err))
	}
	issue, err := s.store.Get(args.Ref)
	if err != nil {
		return errorResult(err)
	}
	return textResult(issue)
}

func (s *Server) handleCreate(raw json.RawMessage) toolResult {
	var args CreateArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid create args: %v", err))
	}

	issue := &types.Issue{
		Title:       args.Title,
		Description: args.Issue,
		Impact:      args.Impact,
		Acceptance:  args.Acceptance,
		Context:     args.Context,
		Files:       args.Files,
		Tags:        args.Tags,
	}
	if args.Priority != "" {
		p, err := types.ParsePriority(args.Priority)
		if err != nil {
			return errorResult(err)
		}
		issue.Priority = p
	}
	if args.Effort != "" {
		minutes, err := duration.Parse(args.Effort)
		if err != nil {
			return errorResult(err)
		}
		issue.EffortMinutes = minutes
	}

	// Dependencies are checked before anything is written so a bad id
	// fails the call without leaving a record behind.
	for _, dep := range args.DependsOn {
		if _, err := s.store.Get(strconv.Itoa(dep)); err != nil {
			return errorResult(fmt.Errorf("dependency %d: %w", dep, err))
		}
	}

	created, err := s.store.Create(issue)
	if err != nil {
		return errorResult(err)
	}
	for _, dep := range args.DependsOn {
		updated, err := s.store.AddDependency(strconv.Itoa(created.ID), strconv.Itoa(dep))
		if err != nil {
			return errorResult(fmt.Errorf("created %s, adding dependency on %d: %w", types.Ref(created.ID), dep, err))
		}
		created = updated
	}
	return textResult(created)
}

func (s *Server) handleStart(raw json.RawMessage) toolResult {
	return s.handleTransition(raw, "start", s.store.Start)
}

func (s *Server) handleDone(raw json.RawMessage) toolResult {
	return s.handleTransition(raw, "done", s.store.Done)
}

func (s *Server) handleReopen(raw json.RawMessage) toolResult {
	return s.handleTransition(raw, "reopen", s.store.Reopen)
}

func (s *Server) handleDefer(raw json.RawMessage) toolResult {
	return s.handleTransition(raw, "defer", s.store.Defer)
}

func (s *Server) handleActivate(raw json.RawMessage) toolResult {
	return s.handleTransition(raw, "activate", s.store.Activate)
}

// handleTransition covers the single-ref status changes that need no
// extra arguments.
func (s *Server) handleTransition(raw json.RawMessage, name string, apply func(string) (*types.Issue, error)) toolResult {
	var args RefArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid %s args: %v", name, err))
	}
	if args.Ref == "" {
		return errorResult(fmt.Errorf("%s requires a ref", name))
	}
	issue, err := apply(args.Ref)
	if err != nil {
		return errorResult(err)
	}
	return textResult(issue)
}

func (s *Server) handleBlock(raw json.RawMessage) toolResult {
	var args BlockArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid block args: %v", err))
	}
	if args.Reason == "" {
		return errorResult(errors.New("block requires a reason"))
	}
	issue, err := s.store.Block(args.Ref, args.Reason)
	if err != nil {
		return errorResult(err)
	}
	return textResult(issue)
}

func (s *Server) handleClose(raw json.RawMessage) toolResult {
	var args CloseArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid close args: %v", err))
	}
	if len(args.Refs) == 0 {
		return errorResult(errors.New("close requires at least one ref"))
	}
	return textResult(s.store.BulkClose(args.Refs, args.Note))
}

// checkpointResult reports the note append plus any transition the
// note's prefix carried.
type checkpointResult struct {
	Issue      *types.Issue `json:"issue"`
	Transition string       `json:"transition,omitempty"`
}

func (s *Server) handleCheckpoint(raw json.RawMessage) toolResult {
	var args CheckpointArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid checkpoint args: %v", err))
	}
	if args.Note == "" {
		return errorResult(errors.New("checkpoint requires a note"))
	}
	issue, applied, err := s.store.Checkpoint(args.Ref, args.Note)
	if err != nil {
		return errorResult(err)
	}
	return textResult(checkpointResult{Issue: issue, Transition: string(applied)})
}

func (s *Server) handleContext(_ json.RawMessage) toolResult {
	open, closed, err := s.store.All()
	if err != nil {
		return errorResult(err)
	}
	return textResult(queries.BuildContext(open, closed))
}

func (s *Server) handleFocus(_ json.RawMessage) toolResult {
	open, err := s.store.List(types.PartitionOpen)
	if err != nil {
		return errorResult(err)
	}
	return textResult(rows(queries.Focus(open)))
}

func (s *Server) handleReady(_ json.RawMessage) toolResult {
	open, closed, err := s.store.All()
	if err != nil {
		return errorResult(err)
	}
	return textResult(rows(queries.Ready(open, closed)))
}

func (s *Server) handleBlocked(_ json.RawMessage) toolResult {
	open, err := s.store.List(types.PartitionOpen)
	if err != nil {
		return errorResult(err)
	}
	blocked := queries.Blocked(open)
	out := make([]blockedRow, 0, len(blocked))
	for _, issue := range blocked {
		out = append(out, blockedRow{issueRow: row(issue), Reason: issue.BlockReason})
	}
	return textResult(out)
}

type blockedRow struct {
	issueRow
	Reason string `json:"reason,omitempty"`
}

func (s *Server) handleWins(raw json.RawMessage) toolResult {
	var args WinsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid wins args: %v", err))
	}
	threshold := defaultWinsMinutes
	if args.Threshold != "" {
		minutes, err := duration.Parse(args.Threshold)
		if err != nil {
			return errorResult(err)
		}
		threshold = minutes
	}
	open, err := s.store.List(types.PartitionOpen)
	if err != nil {
		return errorResult(err)
	}
	return textResult(rows(queries.QuickWins(open, threshold)))
}

func (s *Server) handleDepAdd(raw json.RawMessage) toolResult {
	var args DepArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid dep_add args: %v", err))
	}
	issue, err := s.store.AddDependency(args.From, args.To)
	if err != nil {
		return errorResult(err)
	}
	return textResult(issue)
}

func (s *Server) handleDepRemove(raw json.RawMessage) toolResult {
	var args DepArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid dep_remove args: %v", err))
	}
	issue, err := s.store.RemoveDependency(args.From, args.To)
	if err != nil {
		return errorResult(err)
	}
	return textResult(issue)
}

// depNode is one level of the dependency tree. Missing marks ids that
// appear in depends_on but have no record in either partition.
type depNode struct {
	Ref       string       `json:"ref"`
	Title     string       `json:"title,omitempty"`
	Status    types.Status `json:"status,omitempty"`
	Missing   bool         `json:"missing,omitempty"`
	DependsOn []depNode    `json:"depends_on,omitempty"`
}

func buildDepNode(g *graph.Graph, byID map[int]*types.Issue, id int, seen map[int]bool) depNode {
	node := depNode{Ref: types.Ref(id)}
	issue, ok := byID[id]
	if !ok {
		node.Missing = true
		return node
	}
	node.Title = issue.Title
	node.Status = issue.Status
	for _, dep := range g.Dependencies(id) {
		if seen[dep] {
			// Hand-edited records can loop; the repeated id becomes a
			// leaf so the walk terminates.
			node.DependsOn = append(node.DependsOn, depNode{Ref: types.Ref(dep)})
			continue
		}
		seen[dep] = true
		node.DependsOn = append(node.DependsOn, buildDepNode(g, byID, dep, seen))
	}
	return node
}

func (s *Server) handleDepTree(raw json.RawMessage) toolResult {
	var args RefArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid dep_tree args: %v", err))
	}
	root, err := s.store.Get(args.Ref)
	if err != nil {
		return errorResult(err)
	}
	open, closed, err := s.store.All()
	if err != nil {
		return errorResult(err)
	}
	all := append(open, closed...)
	byID := make(map[int]*types.Issue, len(all))
	for _, issue := range all {
		byID[issue.ID] = issue
	}
	g := graph.Build(all)
	seen := map[int]bool{root.ID: true}
	return textResult(buildDepNode(g, byID, root.ID, seen))
}

func (s *Server) handleAliasAdd(raw json.RawMessage) toolResult {
	var args AliasArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid alias_add args: %v", err))
	}
	if err := s.store.AddAlias(args.Alias, args.Ref); err != nil {
		return errorResult(err)
	}
	issue, err := s.store.Get(args.Ref)
	if err != nil {
		return errorResult(err)
	}
	return textResult(struct {
		Alias string `json:"alias"`
		Ref   string `json:"ref"`
		Title string `json:"title"`
	}{Alias: args.Alias, Ref: types.Ref(issue.ID), Title: issue.Title})
}

func (s *Server) handleImport(raw json.RawMessage) toolResult {
	var args ImportArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid import args: %v", err))
	}
	if args.Content == "" {
		return errorResult(errors.New("import requires content"))
	}
	file, err := importer.Parse([]byte(args.Content))
	if err != nil {
		return errorResult(err)
	}
	return textResult(importer.Run(s.store, file))
}

func (s *Server) handleSummary(raw json.RawMessage) toolResult {
	var args SummaryArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid summary args: %v", err))
	}
	now := time.Now()
	since := now.Add(-24 * time.Hour)
	if args.Since != "" {
		cutoff, err := timeparse.Since(args.Since, now)
		if err != nil {
			return errorResult(err)
		}
		since = cutoff
	}
	open, closed, err := s.store.All()
	if err != nil {
		return errorResult(err)
	}
	return textResult(queries.BuildSummary(open, closed, since))
}

func (s *Server) handleMetrics(raw json.RawMessage) toolResult {
	var args MetricsArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid metrics args: %v", err))
	}
	period := queries.PeriodWeek
	if args.Period != "" {
		p, err := queries.ParsePeriod(args.Period)
		if err != nil {
			return errorResult(err)
		}
		period = p
	}
	open, closed, err := s.store.All()
	if err != nil {
		return errorResult(err)
	}
	return textResult(queries.BuildMetrics(open, closed, period, time.Now()))
}

// searchRow pairs a match with its display ref.
type searchRow struct {
	Ref      string         `json:"ref"`
	Title    string         `json:"title"`
	Status   types.Status   `json:"status"`
	Priority types.Priority `json:"priority"`
	Snippet  string         `json:"snippet,omitempty"`
}

func (s *Server) handleSearch(raw json.RawMessage) toolResult {
	var args SearchArgs
	if err := json.Unmarshal(raw, &args); err != nil {
		return errorResult(fmt.Errorf("invalid search args: %v", err))
	}
	if s.index == nil {
		return errorResult(errors.New("search index not available"))
	}
	// Records may have changed through this server or outside it since
	// the last watcher rebuild, so reindex before querying.
	if err := s.Reindex(); err != nil {
		return errorResult(fmt.Errorf("rebuilding search index: %w", err))
	}
	matches, err := s.index.Query(args.Query, args.Limit)
	if err != nil {
		return errorResult(err)
	}
	out := make([]searchRow, 0, len(matches))
	for _, m := range matches {
		out = append(out, searchRow{
			Ref:      types.Ref(m.ID),
			Title:    m.Title,
			Status:   m.Status,
			Priority: m.Priority,
			Snippet:  m.Snippet,
		})
	}
	return textResult(out)
}
