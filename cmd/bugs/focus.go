package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var focusCmd = &cobra.Command{
	Use:     "focus",
	GroupID: "views",
	Short:   "Show the few issues to look at first",
	Long: `Show up to five issues ordered by what deserves attention: work
already in flight and anything blocked come first, then open work by
priority.`,
	Run: func(cmd *cobra.Command, args []string) {
		open, err := store.List(types.PartitionOpen)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		focus := queries.Focus(open)

		if jsonOutput {
			if focus == nil {
				focus = []*types.Issue{}
			}
			outputJSON(focus)
			return
		}
		if len(focus) == 0 {
			fmt.Printf("\n%s Nothing needs attention\n\n", ui.RenderPass("✨"))
			return
		}
		fmt.Printf("\n%s Focus:\n\n", ui.RenderAccent("🎯"))
		for i, issue := range focus {
			fmt.Printf("%d. %s[%s] %s: %s\n", i+1,
				ui.StatusIcon(issue.Status),
				ui.PriorityLabel(issue.Priority),
				types.Ref(issue.ID), issue.Title)
			if issue.Status == types.StatusBlocked && issue.BlockReason != "" {
				fmt.Printf("   %s %s\n", ui.RenderMuted("blocked:"), issue.BlockReason)
			}
		}
		fmt.Println()
	},
}

func init() {
	rootCmd.AddCommand(focusCmd)
}
