package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/codec"
	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var showCmd = &cobra.Command{
	Use:               "show <ref>",
	GroupID:           "issues",
	Short:             "Show an issue in full",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Get(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		printIssue(issue)
	},
}

func printIssue(issue *types.Issue) {
	fmt.Printf("\n%s%s %s\n", ui.StatusIcon(issue.Status), ui.RenderBold(types.Ref(issue.ID)), ui.RenderBold(issue.Title))

	meta := fmt.Sprintf("   Status: %s    Priority: %s", ui.StatusLabel(issue.Status), ui.PriorityLabel(issue.Priority))
	if issue.EffortMinutes > 0 {
		meta += fmt.Sprintf("    Effort: %s", duration.Format(issue.EffortMinutes))
	}
	fmt.Println(meta)
	if len(issue.Tags) > 0 {
		fmt.Printf("   Tags: %s\n", strings.Join(issue.Tags, ", "))
	}

	created := fmt.Sprintf("   Created: %s", issue.CreatedAt.Format(codec.CloseDateLayout))
	if issue.StartedAt != nil {
		created += fmt.Sprintf("    Started: %s", issue.StartedAt.Format(codec.CloseDateLayout))
	}
	if issue.ClosedAt != nil {
		created += fmt.Sprintf("    Closed: %s", issue.ClosedAt.Format(codec.CloseDateLayout))
	}
	fmt.Println(created)

	if issue.BlockReason != "" {
		fmt.Printf("   %s %s\n", ui.RenderFail("Blocked:"), issue.BlockReason)
	}
	if len(issue.DependsOn) > 0 {
		fmt.Printf("   Depends on: %s\n", dependencySummary(issue.DependsOn))
	}
	if len(issue.Files) > 0 {
		fmt.Printf("   Files: %s\n", strings.Join(issue.Files, ", "))
	}

	if body := issueBody(issue); body != "" {
		fmt.Println()
		fmt.Println(ui.RenderSeparator())
		fmt.Println(ui.RenderMarkdown(body))
	}

	if len(issue.Checkpoints) > 0 {
		fmt.Printf("\n%s Checkpoints:\n", ui.RenderAccent("📝"))
		for _, cp := range issue.Checkpoints {
			fmt.Printf("   %s  %s\n", ui.RenderMuted(cp.At.Format(codec.CheckpointTimeLayout)), cp.Note)
		}
	}
	if len(issue.CloseNotes) > 0 {
		fmt.Printf("\n%s Closed:\n", ui.RenderPass("✓"))
		for _, cn := range issue.CloseNotes {
			fmt.Printf("   %s  %s\n", ui.RenderMuted(cn.On.Format(codec.CloseDateLayout)), cn.Note)
		}
	}
	fmt.Println()
}

// dependencySummary annotates each dependency with its resolution state.
func dependencySummary(deps []int) string {
	var lookup func(int) (types.Status, bool)
	if open, closed, err := store.All(); err == nil {
		lookup = storage.StatusOf(open, closed)
	} else {
		lookup = func(int) (types.Status, bool) { return "", false }
	}

	parts := make([]string, 0, len(deps))
	for _, dep := range deps {
		st, ok := lookup(dep)
		switch {
		case !ok:
			parts = append(parts, ui.RenderFail(types.Ref(dep)+" (missing)"))
		case st.Resolved():
			parts = append(parts, ui.RenderPass(types.Ref(dep)+" ✓"))
		default:
			parts = append(parts, fmt.Sprintf("%s (%s)", types.Ref(dep), st))
		}
	}
	return strings.Join(parts, ", ")
}

// issueBody reassembles the narrative sections as markdown for display.
func issueBody(issue *types.Issue) string {
	var b strings.Builder
	section := func(heading, text string) {
		if strings.TrimSpace(text) == "" {
			return
		}
		fmt.Fprintf(&b, "## %s\n\n%s\n\n", heading, text)
	}
	section("Issue", issue.Description)
	section("Impact", issue.Impact)
	section("Acceptance", issue.Acceptance)
	section("Context", issue.Context)
	return strings.TrimRight(b.String(), "\n")
}

func init() {
	rootCmd.AddCommand(showCmd)
}
