package main

import (
	"fmt"
	"sort"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var aliasCmd = &cobra.Command{
	Use:     "alias",
	GroupID: "advanced",
	Short:   "Manage issue aliases",
	Long: `Manage issue aliases.

An alias is a short name that resolves to an issue anywhere a ref is
accepted: 'bugs show auth' works once 'auth' points at an issue.
Aliases survive closing and reopening; they only go stale when the
record itself is deleted.

Examples:
  bugs alias add auth 7
  bugs show auth
  bugs alias remove auth`,
	Run: func(cmd *cobra.Command, args []string) {
		aliases, err := store.Aliases()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			if aliases == nil {
				aliases = map[string]int{}
			}
			outputJSON(aliases)
			return
		}
		if len(aliases) == 0 {
			fmt.Println("✨ No aliases defined")
			return
		}
		names := make([]string, 0, len(aliases))
		for name := range aliases {
			names = append(names, name)
		}
		sort.Strings(names)
		fmt.Printf("\n🔖 Aliases (%d):\n\n", len(names))
		for _, name := range names {
			fmt.Printf("  %s → %s\n", ui.RenderBold(name), types.Ref(aliases[name]))
		}
		fmt.Println()
	},
}

var aliasAddCmd = &cobra.Command{
	Use:   "add <alias> <ref>",
	Short: "Point an alias at an issue",
	Args:  cobra.ExactArgs(2),
	Run: func(cmd *cobra.Command, args []string) {
		if err := store.AddAlias(args[0], args[1]); err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		issue, err := store.Get(args[1])
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"alias": args[0],
				"id":    issue.ID,
			})
			return
		}
		fmt.Printf("%s Alias %s → %s: %s\n",
			ui.RenderPass("✓"), ui.RenderBold(args[0]), types.Ref(issue.ID), issue.Title)
	},
}

var aliasRemoveCmd = &cobra.Command{
	Use:     "remove <alias>",
	Aliases: []string{"rm"},
	Short:   "Remove an alias",
	Args:    cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		if err := store.RemoveAlias(args[0]); err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		if jsonOutput {
			outputJSON(map[string]interface{}{"removed": args[0]})
			return
		}
		fmt.Printf("%s Removed alias %s\n", ui.RenderPass("✓"), ui.RenderBold(args[0]))
	},
}

func init() {
	aliasCmd.AddCommand(aliasAddCmd)
	aliasCmd.AddCommand(aliasRemoveCmd)
	rootCmd.AddCommand(aliasCmd)
}
