package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/timeparse"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var summaryCmd = &cobra.Command{
	Use:     "summary",
	GroupID: "views",
	Short:   "Show recent activity",
	Long: `Show what happened since a cutoff: issues started, issues closed,
and open issues carrying checkpoints to resume from.

--since takes a duration ("36h"), a date ("2026-07-01"), or natural
language ("yesterday", "last friday"). The default looks back the
configured summary-hours.

Examples:
  bugs summary
  bugs summary --since yesterday
  bugs summary --since "last friday"`,
	Run: func(cmd *cobra.Command, args []string) {
		now := time.Now()
		since := now.Add(-time.Duration(config.GetInt("summary-hours")) * time.Hour)
		if expr, _ := cmd.Flags().GetString("since"); expr != "" {
			parsed, err := timeparse.Since(expr, now)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			since = parsed
		}

		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		sum := queries.BuildSummary(open, closed, since)

		if jsonOutput {
			outputJSON(sum)
			return
		}

		fmt.Printf("\n📋 Summary since %s\n\n", since.Format(codec.CheckpointTimeLayout))
		if len(sum.Started) == 0 && len(sum.Closed) == 0 && len(sum.Checkpointed) == 0 {
			fmt.Println("✨ No activity")
			fmt.Println()
			return
		}
		if len(sum.Started) > 0 {
			fmt.Printf("%s (%d):\n", ui.RenderAccent("🔄 Started"), len(sum.Started))
			for _, issue := range sum.Started {
				fmt.Printf("   %s: %s\n", types.Ref(issue.ID), issue.Title)
			}
			fmt.Println()
		}
		if len(sum.Closed) > 0 {
			fmt.Printf("%s (%d):\n", ui.RenderPass("✓ Closed"), len(sum.Closed))
			for _, issue := range sum.Closed {
				fmt.Printf("   %s: %s\n", types.Ref(issue.ID), issue.Title)
			}
			fmt.Println()
		}
		if len(sum.Checkpointed) > 0 {
			fmt.Printf("%s (%d):\n", ui.RenderWarn("📝 Has checkpoints"), len(sum.Checkpointed))
			for _, issue := range sum.Checkpointed {
				last := issue.Checkpoints[len(issue.Checkpoints)-1]
				fmt.Printf("   %s: %s\n", types.Ref(issue.ID), issue.Title)
				fmt.Printf("      %s %s\n", ui.RenderMuted(last.At.Format(codec.CheckpointTimeLayout)), last.Note)
			}
			fmt.Println()
		}
	},
}

func init() {
	summaryCmd.Flags().StringP("since", "s", "", "Cutoff: duration, date, or natural language")
	rootCmd.AddCommand(summaryCmd)
}
