package main

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var createCmd = &cobra.Command{
	Use:     "create [title]",
	Aliases: []string{"new"},
	GroupID: "issues",
	Short:   "Create a new issue",
	Long: `Create a new issue.

With a title and flags, creates directly:
  bugs create "Login fails on Safari" \
    --issue "Session cookie never set" \
    --impact "Safari users cannot log in" \
    --acceptance "Login works on Safari 17" \
    -p high -e 2h -t auth

With no arguments, opens an interactive form.`,
	Args: cobra.MaximumNArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if len(args) == 0 {
			if !ui.IsTerminal() {
				FatalErrorRespectJSON("title is required (the interactive form needs a terminal)")
			}
			runCreateForm()
			return
		}

		description, _ := cmd.Flags().GetString("issue")
		impact, _ := cmd.Flags().GetString("impact")
		acceptance, _ := cmd.Flags().GetString("acceptance")
		switch {
		case description == "":
			FatalErrorRespectJSON("--issue is required")
		case impact == "":
			FatalErrorRespectJSON("--impact is required")
		case acceptance == "":
			FatalErrorRespectJSON("--acceptance is required")
		}

		issue := &types.Issue{
			Title:       args[0],
			Description: description,
			Impact:      impact,
			Acceptance:  acceptance,
		}
		issue.Context, _ = cmd.Flags().GetString("context")
		issue.Tags, _ = cmd.Flags().GetStringSlice("tag")
		issue.Files, _ = cmd.Flags().GetStringSlice("file")

		if p, _ := cmd.Flags().GetString("priority"); p != "" {
			pr, err := types.ParsePriority(p)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			issue.Priority = pr
		} else if pr, err := types.ParsePriority(config.DefaultPriority()); err == nil {
			issue.Priority = pr
		}

		if e, _ := cmd.Flags().GetString("effort"); e != "" {
			minutes, err := duration.Parse(e)
			if err != nil {
				FatalErrorRespectJSON("%v", err)
			}
			issue.EffortMinutes = minutes
		}

		if deferred, _ := cmd.Flags().GetBool("defer"); deferred {
			issue.Status = types.StatusBacklog
		}

		deps, _ := cmd.Flags().GetIntSlice("depends-on")
		created := createIssueWithDeps(issue, deps)

		if jsonOutput {
			outputJSON(created)
			return
		}
		printCreatedIssue(created)
	},
}

// createIssueWithDeps validates the dependency targets, creates the
// issue, then adds the edges. Targets are checked before anything is
// written so a bad id fails without leaving a record behind.
func createIssueWithDeps(issue *types.Issue, deps []int) *types.Issue {
	for _, dep := range deps {
		if _, err := store.Get(strconv.Itoa(dep)); err != nil {
			FatalErrorRespectJSON("dependency %s: %v", types.Ref(dep), err)
		}
	}
	created, err := store.Create(issue)
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	for _, dep := range deps {
		updated, err := store.AddDependency(strconv.Itoa(created.ID), strconv.Itoa(dep))
		if err != nil {
			FatalErrorRespectJSON("created %s, adding dependency on %s: %v", types.Ref(created.ID), types.Ref(dep), err)
		}
		created = updated
	}
	return created
}

func printCreatedIssue(issue *types.Issue) {
	fmt.Printf("\n%s Created %s\n", ui.RenderPass("✓"), types.Ref(issue.ID))
	fmt.Printf("  Title:    %s\n", issue.Title)
	fmt.Printf("  Priority: %s\n", ui.PriorityLabel(issue.Priority))
	fmt.Printf("  Status:   %s\n", ui.StatusLabel(issue.Status))
	if issue.EffortMinutes > 0 {
		fmt.Printf("  Effort:   %s\n", duration.Format(issue.EffortMinutes))
	}
	if len(issue.DependsOn) > 0 {
		refs := make([]string, 0, len(issue.DependsOn))
		for _, dep := range issue.DependsOn {
			refs = append(refs, types.Ref(dep))
		}
		fmt.Printf("  Depends:  %v\n", refs)
	}
	fmt.Println()
}

func init() {
	createCmd.Flags().StringP("issue", "i", "", "What goes wrong (required)")
	createCmd.Flags().String("impact", "", "Who it hurts and how badly (required)")
	createCmd.Flags().String("acceptance", "", "When this counts as fixed (required)")
	createCmd.Flags().String("context", "", "Paths, reproduction notes, links")
	createCmd.Flags().StringP("priority", "p", "", "Priority (critical, high, medium, low)")
	createCmd.Flags().StringP("effort", "e", "", "Estimated effort (30m, 2h, 1d, 1w)")
	createCmd.Flags().StringSliceP("tag", "t", nil, "Tag (repeatable)")
	createCmd.Flags().StringSlice("file", nil, "Related file path (repeatable)")
	createCmd.Flags().IntSlice("depends-on", nil, "Issue ids this one depends on")
	createCmd.Flags().Bool("defer", false, "Create straight into the backlog instead of open")
	rootCmd.AddCommand(createCmd)
}
