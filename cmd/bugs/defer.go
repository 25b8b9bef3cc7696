package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var deferCmd = &cobra.Command{
	Use:     "defer <ref>",
	GroupID: "issues",
	Short:   "Park an issue in the backlog",
	Long: `Move an issue to the backlog. Backlog issues stay in the open
partition but drop out of ready and focus views until activated.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Defer(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Deferred %s: %s\n", ui.RenderMuted("💤"), types.Ref(issue.ID), issue.Title)
	},
}

var activateCmd = &cobra.Command{
	Use:               "activate <ref>",
	GroupID:           "issues",
	Short:             "Pull a backlog issue back to open",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Activate(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Activated %s: %s\n", ui.RenderPass("✓"), types.Ref(issue.ID), issue.Title)
	},
}

func init() {
	rootCmd.AddCommand(deferCmd)
	rootCmd.AddCommand(activateCmd)
}
