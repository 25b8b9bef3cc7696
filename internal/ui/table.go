package ui

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Table styles
var (
	TableHeaderStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(ColorAccent).
			Align(lipgloss.Center)

	TableWarningStyle = lipgloss.NewStyle().
				Foreground(ColorWarn)

	TableSuccessStyle = lipgloss.NewStyle().
				Foreground(ColorPass)

	TableHintStyle = lipgloss.NewStyle().
			Foreground(ColorMuted)

	TableBorderStyle = lipgloss.NewStyle().
				Foreground(ColorMuted)
)

// NewIssueTable creates a bordered table sized to the terminal, used by
// list and search output.
func NewIssueTable(width int) *table.Table {
	return table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Width(width)
}
