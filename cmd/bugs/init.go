package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
	"github.com/bugsdev/bugs/internal/validation"
)

const starterConfig = `# bugs configuration. Every key is optional.
# Environment variables override these: BUGS_JSON, BUGS_AUTO_STATUS, ...

# Where the issues/ tree lives: cwd (walk up from the working
# directory), home (~/.bugs), or an explicit base path.
#issues-location: cwd

# Priority given to new issues created without --priority.
#default-priority: medium

# Let checkpoint notes starting with BLOCKED:/FIXED:/DONE: move the
# issue. Set false to keep checkpoints purely informational.
#auto-status: true

#colored-output: true

# Effort ceiling for 'bugs wins', in minutes.
#quick-win-minutes: 60

# Default lookback for 'bugs summary', in hours.
#summary-hours: 24
`

var initCmd = &cobra.Command{
	Use:     "init",
	GroupID: "setup",
	Short:   "Initialize an issue tracker here",
	Long: `Create the issues/ tree in the current directory (or under --dir) and
drop a commented starter config next to it.

Running init in an already initialized tree is safe: existing records
and config are left alone, and the report includes any integrity
problems found in them.

With --global the starter config goes to the user config directory
instead of the project.`,
	Run: func(cmd *cobra.Command, args []string) {
		quiet, _ := cmd.Flags().GetBool("quiet")
		global, _ := cmd.Flags().GetBool("global")

		var created []string
		for _, p := range []types.Partition{types.PartitionOpen, types.PartitionClosed} {
			dir := store.PartitionDir(p)
			if _, err := os.Stat(dir); os.IsNotExist(err) {
				created = append(created, dir)
			}
		}
		if err := store.Init(); err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		configFile, err := writeStarterConfig(global)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		nextID, err := store.NextID()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		// Surface problems in pre-existing records; a fresh tree has none.
		var warnings []string
		if report, err := validation.Check(store); err == nil {
			for _, f := range report.Findings {
				warnings = append(warnings, f.Detail)
			}
		}

		if jsonOutput {
			if created == nil {
				created = []string{}
			}
			outputJSON(map[string]interface{}{
				"root":         store.Root(),
				"created_dirs": created,
				"config_file":  configFile,
				"next_ref":     types.Ref(nextID),
				"warnings":     warnings,
			})
			return
		}
		if quiet {
			return
		}

		res := ui.InitResult{
			Root:         store.Root(),
			CreatedDirs:  created,
			ConfigFile:   configFile,
			NextRef:      types.Ref(nextID),
			DoctorIssues: warnings,
			QuickstartCommands: []string{
				`bugs create "Fix the thing" -i "What goes wrong" --impact "Who it hurts" --acceptance "When it is fixed"`,
				"bugs ready",
				"bugs guide",
			},
		}
		fmt.Println(ui.RenderInitReport(res, ui.GetWidth()))
	},
}

// writeStarterConfig drops the commented starter config if no config
// exists at the target yet. It returns the path that ends up governing.
func writeStarterConfig(global bool) (string, error) {
	target := ".bugsrc.yaml"
	if global {
		configDir, err := os.UserConfigDir()
		if err != nil {
			return "", fmt.Errorf("resolving user config dir: %w", err)
		}
		target = filepath.Join(configDir, "bugs", "config.yaml")
	}

	if _, err := os.Stat(target); err == nil {
		return target, nil
	}
	if err := os.MkdirAll(filepath.Dir(target), 0o755); err != nil {
		return "", fmt.Errorf("creating config dir: %w", err)
	}
	if err := os.WriteFile(target, []byte(starterConfig), 0o644); err != nil {
		return "", fmt.Errorf("writing starter config: %w", err)
	}
	return target, nil
}

func init() {
	initCmd.Flags().BoolP("quiet", "q", false, "Suppress the report")
	initCmd.Flags().Bool("global", false, "Write the starter config to the user config directory")
	rootCmd.AddCommand(initCmd)
}
