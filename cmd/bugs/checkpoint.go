package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var checkpointCmd = &cobra.Command{
	Use:     "checkpoint <ref> <note>",
	Aliases: []string{"cp"},
	GroupID: "issues",
	Short:   "Append a timestamped progress note",
	Long: `Append a progress note to an issue's checkpoint log. Everything
after the ref becomes the note.

Notes starting with a status prefix also move the issue:
  BLOCKED: <reason>   -> blocked, with the reason
  FIXED: <note>       -> done
  DONE: <note>        -> done

The note is appended first and survives even when the transition is
refused, so progress is never lost to a status rule. Set auto-status
to false in .bugsrc.yaml to record prefixed notes verbatim with no
transition.`,
	Args:              cobra.MinimumNArgs(2),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		note := strings.Join(args[1:], " ")

		if !config.AutoStatus() {
			issue, err := store.CheckpointNote(args[0], note)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			if jsonOutput {
				outputJSON(map[string]interface{}{"issue": issue, "transition": ""})
				return
			}
			fmt.Printf("%s Checkpoint on %s\n", ui.RenderPass("✓"), types.Ref(issue.ID))
			return
		}

		issue, applied, err := store.Checkpoint(args[0], note)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"issue": issue, "transition": string(applied)})
			return
		}
		fmt.Printf("%s Checkpoint on %s\n", ui.RenderPass("✓"), types.Ref(issue.ID))
		if applied != "" {
			fmt.Printf("  Status is now %s\n", ui.StatusLabel(issue.Status))
		}
	},
}

func init() {
	rootCmd.AddCommand(checkpointCmd)
}
