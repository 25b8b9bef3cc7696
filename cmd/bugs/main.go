// Package main implements the bugs CLI.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/bugsdev/bugs/internal/config"
	"github.com/bugsdev/bugs/internal/storage"
	"github.com/bugsdev/bugs/internal/ui"
)

// Shared command state, initialized by PersistentPreRun before any
// command body runs.
var (
	store      *storage.Store
	jsonOutput bool
	rootCtx    context.Context
	rootCancel context.CancelFunc
)

var rootCmd = &cobra.Command{
	Use:   "bugs",
	Short: "File-backed issue tracker for a repo and the agents working in it",
	Long: `bugs keeps issues as markdown records under issues/, split into open/
and closed/ partitions. Records are plain files: they diff, they grep,
and they survive without a daemon or a database.

Start with 'bugs init', then 'bugs create' and 'bugs list'. Run
'bugs guide' for the agent-oriented walkthrough.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if err := config.Initialize(); err != nil {
			FatalError("loading configuration: %v", err)
		}

		jsonOutput = config.GetBool("json")
		if cmd.Flags().Changed("json") {
			jsonOutput, _ = cmd.Flags().GetBool("json")
		}

		if !config.ColoredOutput() || !ui.ShouldUseColor() {
			ui.DisableColor()
		}

		dir, _ := cmd.Flags().GetString("dir")
		if dir == "" {
			dir = config.IssuesDir()
		}
		store = storage.Open(dir)
	},
}

func init() {
	rootCmd.PersistentFlags().Bool("json", false, "Output as JSON")
	rootCmd.PersistentFlags().String("dir", "", "Issues directory (default: nearest issues/ walking up from CWD)")

	rootCmd.AddGroup(
		&cobra.Group{ID: "issues", Title: "Issue Commands:"},
		&cobra.Group{ID: "views", Title: "View Commands:"},
		&cobra.Group{ID: "deps", Title: "Dependency Commands:"},
		&cobra.Group{ID: "setup", Title: "Setup Commands:"},
		&cobra.Group{ID: "advanced", Title: "Advanced Commands:"},
	)
}

// outputJSON prints v as indented JSON on stdout.
func outputJSON(v interface{}) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: encoding JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Println(string(data))
}

// FatalError prints an error to stderr and exits non-zero.
func FatalError(format string, args ...interface{}) {
	fmt.Fprintf(os.Stderr, "Error: "+format+"\n", args...)
	os.Exit(1)
}

// FatalErrorRespectJSON is FatalError, except in JSON mode the error goes
// to stdout as {"error": ...} so scripted callers keep a parseable
// stream.
func FatalErrorRespectJSON(format string, args ...interface{}) {
	if jsonOutput {
		data, _ := json.Marshal(map[string]string{"error": fmt.Sprintf(format, args...)})
		fmt.Println(string(data))
		os.Exit(1)
	}
	FatalError(format, args...)
}

func main() {
	rootCtx, rootCancel = signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer rootCancel()

	if err := rootCmd.Execute(); err != nil {
		FatalErrorRespectJSON("%v", err)
	}
}
