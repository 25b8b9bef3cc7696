package main

import (
	"fmt"
	"runtime/debug"

	"github.com/spf13/cobra"
)

// Version, Build, Commit, and Branch identify the binary. All four can
// be overridden with ldflags; Commit and Branch otherwise come from the
// VCS stamp the Go toolchain embeds.
var (
	Version = "0.3.0"
	Build   = "dev"
	Commit  = ""
	Branch  = ""
)

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		commit := Commit
		if commit == "" {
			commit = buildSetting("vcs.revision")
		}
		branch := Branch
		if branch == "" {
			branch = buildSetting("vcs.branch")
		}

		if jsonOutput {
			result := map[string]string{
				"version": Version,
				"build":   Build,
			}
			if commit != "" {
				result["commit"] = commit
			}
			if branch != "" {
				result["branch"] = branch
			}
			outputJSON(result)
			return
		}
		switch {
		case commit != "" && branch != "":
			fmt.Printf("bugs version %s (%s: %s@%s)\n", Version, Build, branch, shortCommit(commit))
		case commit != "":
			fmt.Printf("bugs version %s (%s: %s)\n", Version, Build, shortCommit(commit))
		default:
			fmt.Printf("bugs version %s (%s)\n", Version, Build)
		}
	},
}

func buildSetting(key string) string {
	info, ok := debug.ReadBuildInfo()
	if !ok {
		return ""
	}
	for _, setting := range info.Settings {
		if setting.Key == key {
			return setting.Value
		}
	}
	return ""
}

func shortCommit(hash string) string {
	if len(hash) > 12 {
		return hash[:12]
	}
	return hash
}

func init() {
	rootCmd.AddCommand(versionCmd)
}
