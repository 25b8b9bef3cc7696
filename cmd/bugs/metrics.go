package main

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/queries"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var metricsCmd = &cobra.Command{
	Use:     "metrics",
	GroupID: "views",
	Short:   "Show tracker statistics",
	Long: `Show aggregate statistics: totals, activity within a period, average
close time, and the open-work breakdown by priority and status.

Examples:
  bugs metrics                # Last week
  bugs metrics --period month
  bugs metrics --period all`,
	Run: func(cmd *cobra.Command, args []string) {
		periodFlag, _ := cmd.Flags().GetString("period")
		period, err := queries.ParsePeriod(periodFlag)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		m := queries.BuildMetrics(open, closed, period, time.Now())

		if jsonOutput {
			outputJSON(m)
			return
		}

		fmt.Printf("\n📊 Metrics (%s)\n\n", m.Period)
		fmt.Printf("   Open:   %d\n", m.TotalOpen)
		fmt.Printf("   Closed: %d\n", m.TotalClosed)
		fmt.Printf("   Opened in period: %d\n", m.OpenedInPeriod)
		fmt.Printf("   Closed in period: %d\n", m.ClosedInPeriod)
		if m.AvgCloseHours > 0 {
			fmt.Printf("   Avg close time:   %.1fh\n", m.AvgCloseHours)
		}

		if m.TotalOpen > 0 {
			fmt.Printf("\n%s\n", ui.RenderBold("By priority:"))
			for _, p := range []types.Priority{types.PriorityCritical, types.PriorityHigh, types.PriorityMedium, types.PriorityLow} {
				if n := m.ByPriority[string(p)]; n > 0 {
					fmt.Printf("   %s: %d\n", ui.PriorityLabel(p), n)
				}
			}
			fmt.Printf("\n%s\n", ui.RenderBold("By status:"))
			for _, s := range []types.Status{types.StatusActive, types.StatusBlocked, types.StatusOpen, types.StatusDone, types.StatusBacklog} {
				if n := m.ByStatus[string(s)]; n > 0 {
					fmt.Printf("   %s: %d\n", ui.StatusLabel(s), n)
				}
			}
		}
		fmt.Println()
	},
}

func init() {
	metricsCmd.Flags().StringP("period", "p", string(queries.PeriodWeek), "Period: day, week, month, or all")
	rootCmd.AddCommand(metricsCmd)
}
