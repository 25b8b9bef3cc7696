package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var doneCmd = &cobra.Command{
	Use:     "done <ref>",
	GroupID: "issues",
	Short:   "Mark an issue's work finished",
	Long: `Mark an issue done. The record stays in the open partition until
'bugs close' archives it, so finished work remains visible in list
output while it awaits review.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Done(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Done %s: %s\n", ui.RenderPass("✓"), types.Ref(issue.ID), issue.Title)
	},
}

func init() {
	rootCmd.AddCommand(doneCmd)
}
