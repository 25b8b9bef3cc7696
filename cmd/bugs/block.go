package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var blockCmd = &cobra.Command{
	Use:     "block <ref> <reason>",
	GroupID: "issues",
	Short:   "Mark an issue blocked",
	Long: `Mark an issue blocked with a reason.

The reason is required: a blocked issue without one tells future-you
nothing. Everything after the ref becomes the reason.

Example:
  bugs block 4 waiting on upstream fix for the cookie parser`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		reason := strings.Join(args[1:], " ")
		issue, err := store.Block(args[0], reason)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Blocked %s: %s\n", ui.RenderFail("🚫"), types.Ref(issue.ID), issue.BlockReason)
	},
}

func init() {
	rootCmd.AddCommand(blockCmd)
}
