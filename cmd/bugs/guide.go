package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/ui"
)

var guideCmd = &cobra.Command{
	Use:     "guide",
	GroupID: "setup",
	Short:   "Workflow guide for agents and humans",
	Long:    `Display the intended workflow: creating issues, working through them with checkpoints, and using dependencies to find ready work.`,
	Run:     runGuide,
}

func runGuide(cmd *cobra.Command, args []string) {
	fmt.Printf("\n%s\n\n", ui.RenderBold("bugs - File-Backed Issue Tracker"))
	fmt.Printf("Issues are markdown records in issues/ that travel with the repo.\n")
	fmt.Printf("Agents and humans share the same tracker through the same commands.\n\n")

	fmt.Printf("%s\n", ui.RenderBold("GETTING STARTED"))
	fmt.Printf("  %s   Create the issues/ tree and a starter config\n\n", ui.RenderAccent("bugs init"))

	fmt.Printf("%s\n", ui.RenderBold("CREATING ISSUES"))
	fmt.Printf("  Every issue answers three questions: what goes wrong, who it\n")
	fmt.Printf("  hurts, and when it counts as fixed.\n")
	fmt.Printf("  %s\n", ui.RenderAccent(`bugs create "Login rejects valid sessions" \`))
	fmt.Printf("  %s\n", ui.RenderAccent(`    -i "Session cookie dropped on refresh" \`))
	fmt.Printf("  %s\n", ui.RenderAccent(`    --impact "Users logged out constantly" \`))
	fmt.Printf("  %s\n", ui.RenderAccent(`    --acceptance "Refresh keeps the session" -p high -e 2h`))
	fmt.Printf("  %s            Interactive form instead of flags\n", ui.RenderAccent("bugs create"))
	fmt.Printf("  %s   Create a whole batch from YAML\n\n", ui.RenderAccent("bugs import plan.yaml"))

	fmt.Printf("%s\n", ui.RenderBold("WORKING AN ISSUE"))
	fmt.Printf("  1. %s          Claim it\n", ui.RenderAccent("bugs start 4"))
	fmt.Printf("  2. %s   Leave breadcrumbs as you go\n", ui.RenderWarn(`bugs checkpoint 4 "found the race"`))
	fmt.Printf("  3. %s           Acceptance criteria met\n", ui.RenderAccent("bugs done 4"))
	fmt.Printf("  4. %s          Verified, move to closed/\n\n", ui.RenderAccent("bugs close 4"))

	fmt.Printf("  Checkpoint prefixes move the issue for you:\n")
	fmt.Printf("  %s\n", ui.RenderAccent(`bugs checkpoint 4 "BLOCKED: waiting on schema change"`))
	fmt.Printf("  %s\n\n", ui.RenderAccent(`bugs checkpoint 4 "FIXED: cache key included the session"`))

	fmt.Printf("%s\n", ui.RenderBold("FINDING WORK"))
	fmt.Printf("  %s     Everything not blocked by a dependency\n", ui.RenderAccent("bugs ready"))
	fmt.Printf("  %s     The five issues needing attention most\n", ui.RenderAccent("bugs focus"))
	fmt.Printf("  %s      Small issues for spare minutes\n", ui.RenderAccent("bugs wins"))
	fmt.Printf("  %s   The whole board at a glance\n\n", ui.RenderAccent("bugs context"))

	fmt.Printf("%s\n", ui.RenderBold("DEPENDENCIES"))
	fmt.Printf("  %s   BUG-4 waits on BUG-2\n", ui.RenderAccent("bugs dep add 4 2"))
	fmt.Printf("  %s    What BUG-4 is waiting for, expanded\n", ui.RenderAccent("bugs dep tree 4"))
	fmt.Printf("  %s     The longest chain in the tracker\n", ui.RenderAccent("bugs dep path"))
	fmt.Printf("  Cycles are refused at insert; %s finds hand-made ones.\n\n", ui.RenderAccent("bugs dep cycles"))

	fmt.Printf("%s\n", ui.RenderBold("PICKING UP AFTER A BREAK"))
	fmt.Printf("  %s                 What happened lately\n", ui.RenderAccent("bugs summary"))
	fmt.Printf("  %s   Full record with all checkpoints\n", ui.RenderAccent("bugs show 4"))
	fmt.Printf("  %s      Full-text search, closed included\n\n", ui.RenderAccent(`bugs search "race"`))

	fmt.Printf("%s\n", ui.RenderBold("AGENT INTEGRATION"))
	fmt.Printf("  • Every command takes %s for machine-readable output\n", ui.RenderAccent("--json"))
	fmt.Printf("  • %s exposes the tracker as JSON-RPC tools on stdio\n", ui.RenderAccent("bugs serve"))
	fmt.Printf("  • Checkpoints survive context loss: write them as you learn\n")
	fmt.Printf("  • %s names an issue for later (%s)\n\n", ui.RenderAccent("bugs alias add auth 7"), ui.RenderAccent("bugs show auth"))

	fmt.Printf("%s\n", ui.RenderBold("KEEPING THE TREE HEALTHY"))
	fmt.Printf("  %s    Integrity check: filenames, partitions, aliases, cycles\n", ui.RenderAccent("bugs doctor"))
	fmt.Printf("  %s   Hand-edited records welcome; doctor cleans up after them\n\n", ui.RenderAccent("bugs doctor --fix"))

	fmt.Printf("%s\n", ui.RenderPass("Ready to track!"))
	fmt.Printf("Run %s to create your first issue.\n\n", ui.RenderAccent("bugs create"))
}

func init() {
	rootCmd.AddCommand(guideCmd)
}
