package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/status"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var startCmd = &cobra.Command{
	Use:     "start <ref>...",
	Aliases: []string{"unblock"},
	GroupID: "issues",
	Short:   "Start working on issues (open/blocked/backlog -> active)",
	Long: `Mark issues active and record when work began.

Accepts several refs; each is applied independently and a failure on
one never blocks the others.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		reportOutcomes("Started", args, store.BulkApply(args, status.ActionStart, ""))
	},
}

// reportOutcomes prints per-ref results of a bulk lifecycle operation
// and exits non-zero if any ref failed. Outcomes align with refs.
func reportOutcomes(verb string, refs []string, outcomes []types.Outcome) {
	failures := 0
	for i, o := range outcomes {
		if o.Failed() {
			failures++
			if !jsonOutput {
				fmt.Fprintf(os.Stderr, "%s %s: %s\n", ui.RenderFail("✗"), refs[i], o.Err)
			}
			continue
		}
		if !jsonOutput {
			fmt.Printf("%s %s %s (%s)\n", ui.RenderPass("✓"), verb, types.Ref(o.ID), ui.StatusLabel(o.Status))
		}
	}
	if jsonOutput {
		outputJSON(outcomes)
	}
	if failures > 0 {
		os.Exit(1)
	}
}

func init() {
	rootCmd.AddCommand(startCmd)
}
