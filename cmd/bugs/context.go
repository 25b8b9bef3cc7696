package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var contextCmd = &cobra.Command{
	Use:     "context",
	Aliases: []string{"ctx"},
	GroupID: "views",
	Short:   "Show where work stands",
	Long: `Show the working context: what is in flight, what is stuck, what
is urgent, and what could be picked up next. This is the view to run
at the start of a session.`,
	Run: func(cmd *cobra.Command, args []string) {
		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		ctx := queries.BuildContext(open, closed)

		if jsonOutput {
			outputJSON(ctx)
			return
		}

		fmt.Println()
		printBucket(ui.RenderAccent("🔄 In progress"), ctx.InProgress)
		printBucket(ui.RenderFail("🚫 Blocked"), ctx.Blocked)
		printBucket(ui.RenderWarn("❗ High priority"), ctx.HighPriority)
		printBucket(ui.RenderPass("📋 Ready to start"), ctx.Ready)
		fmt.Printf("Total open: %d\n\n", ctx.TotalOpen)
	},
}

func printBucket(header string, issues []*types.Issue) {
	if len(issues) == 0 {
		return
	}
	fmt.Printf("%s (%d):\n", header, len(issues))
	for _, issue := range issues {
		printIssueLine(issue)
	}
	fmt.Println()
}

func printIssueLine(issue *types.Issue) {
	fmt.Printf("   [%s] %s: %s\n", ui.PriorityLabel(issue.Priority), types.Ref(issue.ID), issue.Title)
	if issue.Status == types.StatusBlocked && issue.BlockReason != "" {
		fmt.Printf("        %s %s\n", ui.RenderMuted("blocked:"), issue.BlockReason)
	}
}

func init() {
	rootCmd.AddCommand(contextCmd)
}
