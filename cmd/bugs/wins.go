package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var winsCmd = &cobra.Command{
	Use:     "wins",
	GroupID: "views",
	Short:   "Show quick wins: small, ready work",
	Long: `Show ready issues estimated at or under a threshold, smallest
first. Unestimated work never qualifies.

The default threshold is an hour; override per run with --threshold
or permanently with quick-win-minutes in .bugsrc.yaml.`,
	Run: func(cmd *cobra.Command, args []string) {
		minutes := config.GetInt("quick-win-minutes")
		if t, _ := cmd.Flags().GetString("threshold"); t != "" {
			parsed, err := duration.Parse(t)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			minutes = parsed
		}

		open, err := store.List(types.PartitionOpen)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		wins := queries.QuickWins(open, minutes)

		if jsonOutput {
			if wins == nil {
				wins = []*types.Issue{}
			}
			outputJSON(wins)
			return
		}
		if len(wins) == 0 {
			fmt.Printf("\n%s No quick wins under %s\n\n", ui.RenderWarn("✨"), duration.Format(minutes))
			return
		}
		fmt.Printf("\n%s Quick wins (under %s):\n\n", ui.RenderAccent("⚡"), duration.Format(minutes))
		for i, issue := range wins {
			fmt.Printf("%d. [%s] %s: %s (%s)\n", i+1,
				ui.PriorityLabel(issue.Priority),
				types.Ref(issue.ID), issue.Title,
				duration.Format(issue.EffortMinutes))
		}
		fmt.Println()
	},
}

func init() {
	winsCmd.Flags().StringP("threshold", "t", "", "Effort ceiling (e.g. 30m, 2h)")
	rootCmd.AddCommand(winsCmd)
}
