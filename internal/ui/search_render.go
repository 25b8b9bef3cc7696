package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// SearchResultItem is one full-text match prepared for rendering.
type SearchResultItem struct {
	Ref      string
	Title    string
	Status   string
	Priority string
	Snippet  string
}

func truncate(s string, max int) string {
	if max < 10 {
		max = 10
	}
	if len(s) <= max {
		return s
	}
	return s[:max-3] + "..."
}

// RenderSearchResults renders full-text matches as a bordered table with
// the snippet under each title.
func RenderSearchResults(query string, results []SearchResultItem, width int) string {
	var sections []string

	header := fmt.Sprintf("🔍 Search: %q", query)
	sections = append(sections, TableHeaderStyle.Render(header))
	sections = append(sections, "")

	if len(results) == 0 {
		sections = append(sections, TableWarningStyle.Render("  No matching issues."))
		sections = append(sections, TableHintStyle.Render("  Try fewer or broader terms."))
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	rows := [][]string{}
	for _, r := range results {
		cell := truncate(r.Title, width-25)
		if r.Snippet != "" {
			cell += "\n" + TableHintStyle.Render(truncate(r.Snippet, width-25))
		}
		idCol := fmt.Sprintf("%s\n%s", r.Ref, TableHintStyle.Render(r.Status))
		rows = append(rows, []string{idCol, cell})
	}

	t := table.New().
		Headers(fmt.Sprintf("Found %d issues", len(results))).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		BorderRow(true).
		Width(width).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return TableHeaderStyle.Width(width - 2)
			}
			style := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
			if col == 0 {
				style = style.Width(12)
			}
			return style
		})

	sections = append(sections, t.String())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// RenderSearchResultsPlain renders matches without box drawing, used when
// stdout is not a terminal.
func RenderSearchResultsPlain(results []SearchResultItem) string {
	var b strings.Builder
	for _, r := range results {
		fmt.Fprintf(&b, "%s [%s] %s\n", r.Ref, r.Status, r.Title)
		if r.Snippet != "" {
			fmt.Fprintf(&b, "    %s\n", r.Snippet)
		}
	}
	return strings.TrimRight(b.String(), "\n")
}
