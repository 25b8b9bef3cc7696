package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/BurntSushi/toml"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/bugsdev/bugs/internal/types"
	"github.com/bugsdev/bugs/internal/ui"
)

// exportSnapshot is the full-tracker dump written by 'bugs export'. Field
// names mirror the import file so an exported issue can be pasted back
// into a batch.
type exportSnapshot struct {
	GeneratedAt time.Time     `toml:"generated_at" json:"generated_at" yaml:"generated_at"`
	Open        []exportIssue `toml:"open" json:"open" yaml:"open"`
	Closed      []exportIssue `toml:"closed" json:"closed" yaml:"closed"`
}

type exportIssue struct {
	ID            int            `toml:"id" json:"id" yaml:"id"`
	Title         string         `toml:"title" json:"title" yaml:"title"`
	Status        types.Status   `toml:"status" json:"status" yaml:"status"`
	Priority      types.Priority `toml:"priority" json:"priority" yaml:"priority"`
	CreatedAt     time.Time      `toml:"created_at" json:"created_at" yaml:"created_at"`
	StartedAt     *time.Time     `toml:"started_at,omitempty" json:"started_at,omitempty" yaml:"started_at,omitempty"`
	ClosedAt      *time.Time     `toml:"closed_at,omitempty" json:"closed_at,omitempty" yaml:"closed_at,omitempty"`
	EffortMinutes int            `toml:"effort_minutes,omitempty" json:"effort_minutes,omitempty" yaml:"effort_minutes,omitempty"`
	BlockReason   string         `toml:"block_reason,omitempty" json:"block_reason,omitempty" yaml:"block_reason,omitempty"`
	Tags          []string       `toml:"tags,omitempty" json:"tags,omitempty" yaml:"tags,omitempty"`
	Files         []string       `toml:"files,omitempty" json:"files,omitempty" yaml:"files,omitempty"`
	DependsOn     []int          `toml:"depends_on,omitempty" json:"depends_on,omitempty" yaml:"depends_on,omitempty"`

	Issue      string `toml:"issue,omitempty" json:"issue,omitempty" yaml:"issue,omitempty"`
	Impact     string `toml:"impact,omitempty" json:"impact,omitempty" yaml:"impact,omitempty"`
	Acceptance string `toml:"acceptance,omitempty" json:"acceptance,omitempty" yaml:"acceptance,omitempty"`
	Context    string `toml:"context,omitempty" json:"context,omitempty" yaml:"context,omitempty"`

	Checkpoints []exportCheckpoint `toml:"checkpoints,omitempty" json:"checkpoints,omitempty" yaml:"checkpoints,omitempty"`
	CloseNotes  []exportCloseNote  `toml:"close_notes,omitempty" json:"close_notes,omitempty" yaml:"close_notes,omitempty"`
}

type exportCheckpoint struct {
	At   time.Time `toml:"at" json:"at" yaml:"at"`
	Note string    `toml:"note" json:"note" yaml:"note"`
}

type exportCloseNote struct {
	On   time.Time `toml:"on" json:"on" yaml:"on"`
	Note string    `toml:"note" json:"note" yaml:"note"`
}

var exportCmd = &cobra.Command{
	Use:     "export",
	GroupID: "issues",
	Short:   "Dump every issue as TOML, JSON, or YAML",
	Long: `Dump every issue, open and closed, as a single structured document.

The records on disk stay the source of truth; the export is a
point-in-time snapshot for reporting or migration. Per-issue fields
use the same names as the import file.

Examples:
  bugs export                         # TOML to stdout
  bugs export --format json           # JSON instead
  bugs export -o snapshot.toml        # Write to a file`,
	Run: func(cmd *cobra.Command, args []string) {
		format, _ := cmd.Flags().GetString("format")
		outPath, _ := cmd.Flags().GetString("output")
		if !cmd.Flags().Changed("format") && jsonOutput {
			format = "json"
		}

		open, closed, err := store.All()
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}
		snap := exportSnapshot{
			GeneratedAt: time.Now(),
			Open:        toExportIssues(open),
			Closed:      toExportIssues(closed),
		}

		data, err := encodeSnapshot(snap, format)
		if err != nil {
			FatalErrorRespectJSON("%v", err)
		}

		if outPath == "" {
			_, _ = os.Stdout.Write(data)
			return
		}
		if err := os.WriteFile(outPath, data, 0o644); err != nil {
			FatalErrorRespectJSON("writing export: %v", err)
		}
		total := len(snap.Open) + len(snap.Closed)
		if jsonOutput {
			outputJSON(map[string]interface{}{
				"path":   outPath,
				"issues": total,
			})
			return
		}
		fmt.Printf("%s Exported %d issues to %s\n", ui.RenderPass("✓"), total, outPath)
	},
}

func encodeSnapshot(snap exportSnapshot, format string) ([]byte, error) {
	switch format {
	case "toml":
		var buf bytes.Buffer
		encoder := toml.NewEncoder(&buf)
		encoder.Indent = ""
		if err := encoder.Encode(snap); err != nil {
			return nil, fmt.Errorf("encoding TOML: %w", err)
		}
		return buf.Bytes(), nil
	case "json":
		data, err := json.MarshalIndent(snap, "", "  ")
		if err != nil {
			return nil, fmt.Errorf("encoding JSON: %w", err)
		}
		return append(data, '\n'), nil
	case "yaml":
		data, err := yaml.Marshal(snap)
		if err != nil {
			return nil, fmt.Errorf("encoding YAML: %w", err)
		}
		return data, nil
	}
	return nil, fmt.Errorf("unknown export format: %q (want toml, json, or yaml)", format)
}

func toExportIssues(issues []*types.Issue) []exportIssue {
	out := make([]exportIssue, 0, len(issues))
	for _, i := range issues {
		e := exportIssue{
			ID:            i.ID,
			Title:         i.Title,
			Status:        i.Status,
			Priority:      i.Priority,
			CreatedAt:     i.CreatedAt,
			StartedAt:     i.StartedAt,
			ClosedAt:      i.ClosedAt,
			EffortMinutes: i.EffortMinutes,
			BlockReason:   i.BlockReason,
			Tags:          i.Tags,
			Files:         i.Files,
			DependsOn:     i.DependsOn,
			Issue:         i.Description,
			Impact:        i.Impact,
			Acceptance:    i.Acceptance,
			Context:       i.Context,
		}
		for _, cp := range i.Checkpoints {
			e.Checkpoints = append(e.Checkpoints, exportCheckpoint{At: cp.At, Note: cp.Note})
		}
		for _, cn := range i.CloseNotes {
			e.CloseNotes = append(e.CloseNotes, exportCloseNote{On: cn.On, Note: cn.Note})
		}
		out = append(out, e)
	}
	return out
}

func init() {
	exportCmd.Flags().StringP("format", "f", "toml", "Export format: toml, json, or yaml")
	exportCmd.Flags().StringP("output", "o", "", "Write to a file instead of stdout")
	rootCmd.AddCommand(exportCmd)
}
