package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/duration"
	"github.com/bugsdev/bugs/internal/graph"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var depCmd = &cobra.Command{
	Use:     "dep",
	GroupID: "deps",
	Short:   "Manage dependencies between issues",
	Long: `Manage dependencies between issues.

An issue depends on the issues that must be finished before it can
start. Dependencies gate the ready view and feed the dependency tree,
cycle scan, and critical path.

Examples:
  bugs dep add 4 2       # BUG-4 depends on BUG-2
  bugs dep show 4        # Both directions for BUG-4
  bugs dep tree 4        # Expand what BUG-4 waits on
  bugs dep path          # Longest chain in the tracker`,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

var depAddCmd = &cobra.Command{
	Use:   "add <ref> <depends-on>",
	Short: "Add a dependency",
	Long: `Record that the first issue depends on the second. Self and cycle
forming edges are refused with the offending path.`,
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.AddDependency(args[0], args[1])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Added dependency: %s depends on %s\n",
			ui.RenderPass("✓"), types.Ref(issue.ID), refLabel(args[1]))
	},
}

var depRemoveCmd = &cobra.Command{
	Use:               "remove <ref> <depends-on>",
	Aliases:           []string{"rm"},
	Short:             "Remove a dependency",
	Args:              cobra.ExactArgs(2),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.RemoveDependency(args[0], args[1])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Printf("%s Removed dependency: %s no longer depends on %s\n",
			ui.RenderPass("✓"), types.Ref(issue.ID), refLabel(args[1]))
	},
}

var depShowCmd = &cobra.Command{
	Use:               "show <ref>",
	Short:             "Show both directions for one issue",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Get(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		g, byID := loadGraph()
		deps := g.Dependencies(issue.ID)
		dependents := g.Dependents(issue.ID)

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"id":         issue.ID,
				"depends_on": deps,
				"dependents": dependents,
			})
			return
		}

		fmt.Printf("\n%s %s\n\n", ui.RenderBold(types.Ref(issue.ID)), issue.Title)
		fmt.Printf("Depends on (%d):\n", len(deps))
		printDepLines(deps, byID)
		fmt.Printf("\nBlocks (%d):\n", len(dependents))
		printDepLines(dependents, byID)
		fmt.Println()
	},
}

var depTreeCmd = &cobra.Command{
	Use:               "tree <ref>",
	Short:             "Show the dependency tree under an issue",
	Args:              cobra.ExactArgs(1),
	ValidArgsFunction: issueIDCompletion,
	Run: func(cmd *cobra.Command, args []string) {
		issue, err := store.Get(args[0])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		_, byID := loadGraph()
		lookup := func(id int) (*types.Issue, bool) {
			found, ok := byID[id]
			return found, ok
		}
		if jsonOutput {
			outputJSON(issue)
			return
		}
		fmt.Println(ui.RenderDependencyTree(issue, lookup))
	},
}

var depCyclesCmd = &cobra.Command{
	Use:   "cycles",
	Short: "Scan for dependency cycles",
	Long: `Scan both partitions for dependency cycles. The API refuses to
insert cycles, but hand-edited records can still contain them; a
cycle hides its members from the ready view.`,
	Run: func(cmd *cobra.Command, args []string) {
		g, _ := loadGraph()
		cycles := g.Cycles()

		if jsonOutput {
			if cycles == nil {
				cycles = [][]int{}
			}
			outputJSON(cycles)
			return
		}
		if len(cycles) == 0 {
			fmt.Printf("\n%s No dependency cycles\n\n", ui.RenderPass("✓"))
			return
		}
		fmt.Printf("\n%s %d dependency cycles:\n\n", ui.RenderFail("⚠"), len(cycles))
		for _, cycle := range cycles {
			fmt.Printf("  %s\n", formatCycle(cycle))
		}
		fmt.Println()
	},
}

var depPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show the critical path",
	Long: `Show the longest dependency chain in the tracker, starting from the
issue everything else waits on. Ties break toward the chain with the
most estimated effort.`,
	Run: func(cmd *cobra.Command, args []string) {
		g, byID := loadGraph()
		path := g.CriticalPath()

		if jsonOutput {
			if path == nil {
				path = []int{}
			}
			outputJSON(path)
			return
		}
		if len(path) == 0 {
			fmt.Printf("\n%s No dependency chains\n\n", ui.RenderPass("✓"))
			return
		}
		fmt.Printf("\n%s Critical path (%d issues):\n\n", ui.RenderAccent("🎯"), len(path))
		for i, id := range path {
			fmt.Printf("%d. ", i+1)
			if issue, ok := byID[id]; ok {
				effort := ""
				if issue.EffortMinutes > 0 {
					effort = fmt.Sprintf(" (%s)", duration.Format(issue.EffortMinutes))
				}
				fmt.Printf("%s: %s%s\n", types.Ref(id), issue.Title, effort)
			} else {
				fmt.Printf("%s\n", types.Ref(id))
			}
		}
		fmt.Println()
	},
}

// refLabel resolves a user-supplied ref to its canonical BUG-n label,
// falling back to the raw input when it does not resolve.
func refLabel(ref string) string {
	if id, err := store.Resolve(ref); err == nil {
		return types.Ref(id)
	}
	return ref
}

// loadGraph builds the dependency graph over both partitions along with
// an id lookup.
func loadGraph() (*graph.Graph, map[int]*types.Issue) {
	open, closed, err := store.All()
	if err != nil {
		FatalErrorRespectJSON("%v", err)
	}
	all := append(open, closed...)
	byID := make(map[int]*types.Issue, len(all))
	for _, issue := range all {
		byID[issue.ID] = issue
	}
	return graph.Build(all), byID
}

func printDepLines(ids []int, byID map[int]*types.Issue) {
	if len(ids) == 0 {
		fmt.Println(ui.RenderMuted("  none"))
		return
	}
	for _, id := range ids {
		if issue, ok := byID[id]; ok {
			fmt.Printf("  %s [%s] %s\n", types.Ref(id), ui.StatusLabel(issue.Status), issue.Title)
		} else {
			fmt.Printf("  %s %s\n", types.Ref(id), ui.RenderFail("(missing)"))
		}
	}
}

func formatCycle(cycle []int) string {
	refs := make([]string, 0, len(cycle)+1)
	for _, id := range cycle {
		refs = append(refs, types.Ref(id))
	}
	if len(cycle) > 0 {
		refs = append(refs, types.Ref(cycle[0]))
	}
	return strings.Join(refs, " → ")
}

func init() {
	depCmd.AddCommand(depAddCmd)
	depCmd.AddCommand(depRemoveCmd)
	depCmd.AddCommand(depShowCmd)
	depCmd.AddCommand(depTreeCmd)
	depCmd.AddCommand(depCyclesCmd)
	depCmd.AddCommand(depPathCmd)
	rootCmd.AddCommand(depCmd)
}
