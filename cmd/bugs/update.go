package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var updateCmd = &cobra.Command{
	Use:     "update <ref>",
	GroupID: "issues",
	Short:   "Update an issue's fields",
	Long: `Update an issue's title, priority, effort, or tags. Status never
changes here; the lifecycle commands own that.

Renaming an issue renames its record file to match.

Examples:
  bugs update 4 --title "Login rejects valid sessions on Safari"
  bugs update 4 --priority critical
  bugs update 4 --effort 4h
  bugs update 4 --tag auth --tag regression`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		title, _ := cmd.Flags().GetString("title")
		priorityFlag, _ := cmd.Flags().GetString("priority")
		effortFlag, _ := cmd.Flags().GetString("effort")
		tags, _ := cmd.Flags().GetStringSlice("tag")

		if title == "" && priorityFlag == "" && effortFlag == "" && len(tags) == 0 {
			FatalErrorRespectJSON("nothing to update (pass --title, --priority, --effort, or --tag)")
		}

		var issue *types.Issue
		var err error

		if title != "" || priorityFlag != "" {
			var priority types.Priority
			if priorityFlag != "" {
				priority, err = types.ParsePriority(priorityFlag)
				if err != nil {
					FatalErrorRespectJSON("%v", err)
				}
			}
			issue, err = store.Update(args[0], func(i *types.Issue) error {
				if title != "" {
					i.Title = title
				}
				if priority != "" {
					i.Priority = priority
				}
				return nil
			})
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
		}

		if effortFlag != "" {
			minutes, err := duration.Parse(effortFlag)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			issue, err = store.SetEffort(args[0], minutes)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
		}

		if len(tags) > 0 {
			issue, err = store.AddTags(args[0], types.NormalizeTags(tags))
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
		}

		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Updated %s: %s\n", ui.RenderPass("✓"), types.Ref(issue.ID), issue.Title)
	},
}

func init() {
	updateCmd.Flags().String("title", "", "New title")
	updateCmd.Flags().StringP("priority", "p", "", "New priority: critical, high, medium, or low")
	updateCmd.Flags().StringP("effort", "e", "", "New effort estimate (30m, 2h, 1d, 1w)")
	updateCmd.Flags().StringSliceP("tag", "t", nil, "Tag to add (repeatable)")
	rootCmd.AddCommand(updateCmd)
}
