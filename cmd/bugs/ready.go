package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var readyCmd = &cobra.Command{
	Use:     "ready",
	GroupID: "views",
	Short:   "Show work with no unresolved dependencies",
	Long: `Show open issues whose dependencies are all done or closed, sorted
by priority. This is the pick-up-next list for anyone, human or
agent, looking for work that can actually start.`,
	Run: func(cmd *cobra.Command, args []string) {
		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		ready := queries.Ready(open, closed)

		if jsonOutput {
			if ready == nil {
				ready = []*types.Issue{}
			}
			outputJSON(ready)
			return
		}
		if len(ready) == 0 {
			if len(open) > 0 {
				fmt.Printf("\n%s No ready work (everything waits on a dependency)\n\n", ui.RenderWarn("✨"))
			} else {
				fmt.Printf("\n%s No open issues\n\n", ui.RenderPass("✨"))
			}
			return
		}
		fmt.Printf("\n%s Ready work (%d issues with no blockers):\n\n", ui.RenderAccent("📋"), len(ready))
		for i, issue := range ready {
			fmt.Printf("%d. [%s] %s: %s\n", i+1,
				ui.PriorityLabel(issue.Priority),
				types.Ref(issue.ID), issue.Title)
		}
		fmt.Println()
	},
}

var blockedCmd = &cobra.Command{
	Use:     "blocked",
	GroupID: "views",
	Short:   "Show blocked issues with their reasons",
	Run: func(cmd *cobra.Command, args []string) {
		open, err := store.List(types.PartitionOpen)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		blocked := queries.Blocked(open)

		if jsonOutput {
			if blocked == nil {
				blocked = []*types.Issue{}
			}
			outputJSON(blocked)
			return
		}
		if len(blocked) == 0 {
			fmt.Printf("\n%s No blocked issues\n\n", ui.RenderPass("✨"))
			return
		}
		fmt.Printf("\n%s Blocked issues (%d):\n\n", ui.RenderFail("🚫"), len(blocked))
		for _, issue := range blocked {
			fmt.Printf("[%s] %s: %s\n",
				ui.PriorityLabel(issue.Priority),
				types.Ref(issue.ID), issue.Title)
			if issue.BlockReason != "" {
				fmt.Printf("  %s\n", ui.RenderMuted(issue.BlockReason))
			}
			fmt.Println()
		}
	},
}

func init() {
	rootCmd.AddCommand(readyCmd)
	rootCmd.AddCommand(blockedCmd)
}
