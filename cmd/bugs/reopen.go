package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var reopenCmd = &cobra.Command{
	Use:     "reopen <ref>",
	GroupID: "issues",
	Short:   "Reopen a closed issue",
	Long: `Reopen a closed issue. The record moves back to the open partition
with closed_at cleared; the checkpoint log and close annotations stay
on the record.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Reopen(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Reopened %s: %s\n", ui.RenderWarn("↩"), types.Ref(issue.ID), issue.Title)
	},
}

func init() {
	rootCmd.AddCommand(reopenCmd)
}
