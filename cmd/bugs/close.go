package main

import (
	"github.com/spf13/cobra"
)

var closeCmd = &cobra.Command{
	Use:     "close <ref>...",
	GroupID: "issues",
	Short:   "Close issues and archive their records",
	Long: `Close issues, moving their records to the closed partition.

Open and blocked issues may be closed directly (fixed elsewhere,
obsolete, duplicate); they do not have to pass through done.

A note explains why and is appended to each record:
  bugs close 3 7 --note "superseded by the session rewrite"

Several refs close independently; a failure on one never blocks the
others.`,
	Args:              cobra.MinimumNArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		note, _ := cmd.Flags().GetString("note")
		reportOutcomes("Closed", args, store.BulkClose(args, note))
	},
}

func init() {
	closeCmd.Flags().StringP("note", "n", "", "Why the issue is being closed (appended to the record)")
	rootCmd.AddCommand(closeCmd)
}
