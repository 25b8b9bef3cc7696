package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/importer"
	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

var importCmd = &cobra.Command{
	Use:     "import <file>",
	GroupID: "issues",
	Short:   "Create issues from a YAML batch file",
	Long: `Create issues from a YAML batch file.

The file holds an 'issues' list where each entry carries the same
fields as 'bugs create': title, issue, impact, acceptance, and the
optional context, priority, effort, files, tags, and depends_on.
A depends_on entry may name an earlier issue in the same file by
title, so a batch can wire its own dependencies.

Entries are created in file order. A bad entry is reported and
skipped; the rest of the batch still runs.

Pass '-' to read the batch from stdin.

Example file:
  issues:
    - title: Fix login timeout
      issue: Sessions expire after five minutes.
      impact: Users lose unsaved work.
      acceptance: Sessions last eight hours.
      priority: high
      effort: 2h
    - title: Add session tests
      issue: No coverage for session expiry.
      impact: Regressions ship unnoticed.
      acceptance: Expiry paths are covered.
      depends_on: [Fix login timeout]`,
	Args: cobra.ExactArgs(1),
	Run: func(cmd *cobra.Command, args []string) {
		var data []byte
		var err error
		if args[0] == "-" {
			data, err = io.ReadAll(os.Stdin)
		} else {
			data, err = os.ReadFile(args[0])
		}
		if err != nil {
			FatalErrorRespectJSON("reading import file: %v", err)
		}

		file, err := importer.Parse(data)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		res := importer.Run(store, file)

		if jsonOutput {
			outputJSON(res)
			if res.Failed > 0 {
				os.Exit(1)
			}
			return
		}

		for _, out := range res.Outcomes {
			if out.Err != nil {
				fmt.Fprintf(os.Stderr, "%s %q: %v\n", ui.RenderFail("✗"), out.Title, out.Err)
				continue
			}
			fmt.Printf("%s Created %s: %s\n", ui.RenderPass("✓"), types.Ref(out.ID), out.Title)
		}
		fmt.Printf("\n📦 Imported %d issues", res.Created)
		if res.Failed > 0 {
			fmt.Printf(", %s", ui.RenderFail(fmt.Sprintf("%d failed", res.Failed)))
		}
		fmt.Println()
		if res.Failed > 0 {
			os.Exit(1)
		}
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
