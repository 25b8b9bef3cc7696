package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/list"
	"github.com/charmbracelet/lipgloss/table"
)

// InitResult aggregates everything the init command did for the report.
type InitResult struct {
	Root        string
	CreatedDirs []string
	ConfigFile  string
	NextRef     string

	DoctorIssues []string

	QuickstartCommands []string
}

// RenderInitReport renders the summary printed after initializing an
// issue tracker in a project.
func RenderInitReport(res InitResult, width int) string {
	var sections []string

	header := lipgloss.NewStyle().
		Bold(true).
		Foreground(ColorPass).
		Render("✓ bugs initialized")
	sections = append(sections, header, "")

	if len(res.CreatedDirs) > 0 {
		l := list.New().
			Enumerator(func(_ list.Items, i int) string {
				return RenderPass("✓")
			}).
			EnumeratorStyle(lipgloss.NewStyle().MarginRight(1))
		for _, d := range res.CreatedDirs {
			l.Item(d)
		}
		sections = append(sections, l.String(), "")
	}

	detailsRows := [][]string{
		{"Issues", res.Root},
		{"Config", res.ConfigFile},
		{"Next id", res.NextRef},
	}
	summaryTable := table.New().
		Headers("Component", "Location").
		Rows(detailsRows...).
		Border(lipgloss.RoundedBorder()).
		BorderStyle(TableBorderStyle).
		Width(width).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				if col == 0 {
					return TableHeaderStyle.Width(14)
				}
				return TableHeaderStyle.Width(width - 14 - 3)
			}
			style := lipgloss.NewStyle().Padding(0, 1).Align(lipgloss.Left)
			if col == 0 {
				style = style.Bold(true).Foreground(ColorAccent)
			}
			return style
		})
	sections = append(sections, summaryTable.String(), "")

	if len(res.DoctorIssues) > 0 {
		warnBox := lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(ColorWarn).
			Padding(0, 1).
			Width(width - 2)

		var warnContent []string
		warnContent = append(warnContent, lipgloss.NewStyle().Bold(true).Foreground(ColorWarn).Render("⚠ Warnings:"))
		for _, issue := range res.DoctorIssues {
			warnContent = append(warnContent, "  • "+issue)
		}
		warnContent = append(warnContent, "", "Run "+RenderAccent("bugs doctor --fix")+" to resolve.")
		sections = append(sections, warnBox.Render(strings.Join(warnContent, "\n")), "")
	}

	if len(res.QuickstartCommands) > 0 {
		sections = append(sections, lipgloss.NewStyle().Bold(true).Render("Next steps:"))
		for _, cmd := range res.QuickstartCommands {
			sections = append(sections, "  • "+RenderAccent(cmd))
		}
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}
