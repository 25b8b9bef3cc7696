package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/ui"
	"github.com/bugsdev/bugs/internal/validation"
)

var doctorCmd = &cobra.Command{
	Use:     "doctor",
	GroupID: "advanced",
	Short:   "Check the record tree for integrity problems",
	Long: `Check every record, alias, and dependency for integrity problems:
records that fail to parse, filenames out of sync with their content,
records filed in the wrong partition, duplicate ids, aliases and
dependencies pointing at deleted issues, and dependency cycles.

The check never modifies anything. --fix applies the repairs that are
safe to automate: renames, moves, and dropping dangling references.
Malformed records, duplicate ids, and cycles always need a human.

Examples:
  bugs doctor
  bugs doctor --fix`,
	Run: func(cmd *cobra.Command, args []string) {
		applyFixes, _ := cmd.Flags().GetBool("fix")

		report, err := validation.Check(store)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if !applyFixes {
			if jsonOutput {
				outputJSON(report)
			} else {
				printDoctorReport(report)
				if !report.Clean() && report.FixableCount() > 0 {
					fmt.Printf("Run 'bugs doctor --fix' to repair %d of them automatically\n\n", report.FixableCount())
				}
			}
			if !report.Clean() {
				os.Exit(1)
			}
			return
		}

		fixable := report.FixableCount()
		if !jsonOutput {
			printDoctorReport(report)
		}
		if fixable > 0 && !jsonOutput && ui.IsTerminal() {
			if !ui.PromptYesNo(fmt.Sprintf("Apply %d automatic fixes?", fixable), true) {
				fmt.Println("Aborted, nothing changed.")
				os.Exit(1)
			}
		}

		var fixed int
		var fixErr error
		if fixable > 0 {
			fixed, fixErr = validation.Fix(store, report)
		}

		// Re-check so the result reflects the tree as repaired, not the
		// findings as planned.
		after, err := validation.Check(store)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if jsonOutput {
			outputJSON(map[string]interface{}{
				"checked":  after.Checked,
				"fixed":    fixed,
				"findings": after.Findings,
			})
			if !after.Clean() {
				os.Exit(1)
			}
			return
		}

		if fixErr != nil {
			fmt.Fprintf(os.Stderr, "%s Some fixes failed:\n%v\n", ui.RenderFail("✗"), fixErr)
		}
		if fixed > 0 {
			fmt.Printf("%s Applied %d fixes\n", ui.RenderPass("🔧"), fixed)
		}
		if after.Clean() {
			fmt.Printf("%s Record tree is clean\n\n", ui.RenderPass("✓"))
			return
		}
		fmt.Printf("%s %d problems remain\n\n", ui.RenderWarn("⚠"), len(after.Findings))
		os.Exit(1)
	},
}

func printDoctorReport(report *validation.Report) {
	fmt.Printf("\n🩺 Checked %d records\n\n", report.Checked)
	if report.Clean() {
		fmt.Printf("%s No problems found\n\n", ui.RenderPass("✓"))
		return
	}
	for _, f := range report.Findings {
		where := f.Ref
		if where == "" {
			where = f.Path
		}
		marker := ui.RenderFail("✗")
		note := ""
		if f.Fixable {
			note = " " + ui.RenderMuted("(fixable)")
		}
		fmt.Printf("  %s [%s] %s: %s%s\n", marker, f.Kind, where, f.Detail, note)
	}
	fmt.Printf("\n%d problems, %d fixable\n", len(report.Findings), report.FixableCount())
}

func init() {
	doctorCmd.Flags().Bool("fix", false, "Apply the automatic repairs")
	rootCmd.AddCommand(doctorCmd)
}
