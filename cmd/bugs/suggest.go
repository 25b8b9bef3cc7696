package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/advice"
	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var suggestCmd = &cobra.Command{
	Use:     "suggest <ref>",
	GroupID: "advanced",
	Short:   "Ask Claude for next steps on an issue",
	Long: `Ask Claude for next steps on an issue. The suggestion covers concrete
actions, gaps in the acceptance criteria, and likely risks, based on
the issue narrative, its checkpoints, and any unresolved dependencies.

Requires ANTHROPIC_API_KEY. The model defaults to a small fast one;
override it with the suggest.model config key. Suggestions are only
printed, never written to the record.`,
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Get(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		client, err := advice.NewClient(config.GetString("suggest.model"))
		if err != nil {
			if errors.Is(err, advice.ErrAPIKeyRequired) {
				FatalErrorRespectJSON("suggest needs an API key: set ANTHROPIC_API_KEY")
			}
			FatalErrorRespectJSON("%v", err)
		}

		blockers := unresolvedBlockers(issue)
		if !jsonOutput {
			fmt.Fprintln(os.Stderr, ui.RenderMuted("Asking for suggestions..."))
		}
		text, err := client.Suggest(rootCtx, issue, blockers)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"id":          issue.ID,
				"suggestions": text,
			})
			return
		}
		fmt.Printf("\n💡 %s: %s\n", ui.RenderBold(types.Ref(issue.ID)), issue.Title)
		fmt.Println(ui.RenderSeparator())
		fmt.Println(ui.RenderMarkdown(text))
	},
}

// unresolvedBlockers describes the dependencies still in the way, one
// line per unresolved dependency.
func unresolvedBlockers(issue *types.Issue) []string {
	if len(issue.DependsOn) == 0 {
		return nil
	}
	_, byID := loadGraph()
	var blockers []string
	for _, dep := range issue.DependsOn {
		found, ok := byID[dep]
		if !ok {
			blockers = append(blockers, fmt.Sprintf("%s (missing)", types.Ref(dep)))
			continue
		}
		if !found.Status.Resolved() {
			blockers = append(blockers, fmt.Sprintf("%s: %s (%s)", types.Ref(dep), found.Title, found.Status))
		}
	}
	return blockers
}

func init() {
	rootCmd.AddCommand(suggestCmd)
}
