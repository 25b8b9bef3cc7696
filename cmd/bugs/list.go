package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var listCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	GroupID: "issues",
	Short:   "List issues",
	Long: `List issues, open partition by default.

Filters combine: every flag given must match.

Examples:
  bugs list                        # All open work
  bugs list -s blocked             # Only blocked issues
  bugs list -p high -t auth        # High priority, tagged auth
  bugs list --max-effort 1h        # Small, estimated work
  bugs list --all                  # Include the closed partition`,
	Run: func(cmd *cobra.Command, args []string) {
		var filter types.Filter
		if s, _ := cmd.Flags().GetString("status"); s != "" {
			st, err := types.ParseStatus(s)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			filter.Status = st
		}
		if p, _ := cmd.Flags().GetString("priority"); p != "" {
			pr, err := types.ParsePriority(p)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			filter.Priority = pr
		}
		if tag, _ := cmd.Flags().GetString("tag"); tag != "" {
			filter.Tag = types.NormalizeTag(tag)
		}
		if effort, _ := cmd.Flags().GetString("max-effort"); effort != "" {
			minutes, err := duration.Parse(effort)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			filter.MaxMinutes = minutes
		}

		pool, err := store.List(types.PartitionOpen)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if all, _ := cmd.Flags().GetBool("all"); all {
			closed, err := store.List(types.PartitionClosed)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			pool = append(pool, closed...)
		}
		issues := queries.Apply(pool, filter)

		if jsonOutput {
			if issues == nil {
				issues = []*types.Issue{}
			}
			outputJSON(issues)
			return
		}
		if len(issues) == 0 {
			fmt.Printf("\n%s No matching issues\n", ui.RenderPass("✨"))
			if filter.Tag != "" {
				if hints := queries.SuggestTags(filter.Tag, queries.AllTags(pool)); len(hints) > 0 {
					fmt.Printf("   %s %s\n", ui.RenderMuted("Did you mean:"), strings.Join(hints, ", "))
				}
			}
			fmt.Println()
			return
		}
		fmt.Printf("\n%s %d issues:\n\n", ui.RenderAccent("📋"), len(issues))
		printIssueList(issues)
		fmt.Println()
	},
}

// printIssueList renders issues as a bordered table on a terminal and as
// plain grep-friendly lines everywhere else.
func printIssueList(issues []*types.Issue) {
	if !ui.IsTerminal() {
		for _, issue := range issues {
			fmt.Printf("%s [%s/%s] %s\n", types.Ref(issue.ID), issue.Status, issue.Priority, issue.Title)
		}
		return
	}
	t := ui.NewIssueTable(ui.GetWidth()).
		Headers("ID", "Status", "Priority", "Effort", "Title")
	for _, issue := range issues {
		effort := ""
		if issue.EffortMinutes > 0 {
			effort = duration.Format(issue.EffortMinutes)
		}
		t.Row(
			types.Ref(issue.ID),
			ui.StatusLabel(issue.Status),
			ui.PriorityLabel(issue.Priority),
			effort,
			issue.Title,
		)
	}
	fmt.Println(t)
}

func init() {
	listCmd.Flags().StringP("status", "s", "", "Filter by status (open, active, blocked, done, closed, backlog)")
	listCmd.Flags().StringP("priority", "p", "", "Filter by priority (critical, high, medium, low)")
	listCmd.Flags().StringP("tag", "t", "", "Filter by tag")
	listCmd.Flags().String("max-effort", "", "Only issues estimated at or under this effort (e.g. 2h)")
	listCmd.Flags().BoolP("all", "a", false, "Include the closed partition")
	rootCmd.AddCommand(listCmd)
}
