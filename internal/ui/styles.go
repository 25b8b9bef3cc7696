package ui

import (
	"strings"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"

	"github.com/bugsdev/bugs/internal/types"
)

// Palette shared across all rendering.
var (
	ColorAccent = lipgloss.Color("39")
	ColorPass   = lipgloss.Color("42")
	ColorWarn   = lipgloss.Color("214")
	ColorFail   = lipgloss.Color("196")
	ColorMuted  = lipgloss.Color("245")
)

var (
	boldStyle   = lipgloss.NewStyle().Bold(true)
	mutedStyle  = lipgloss.NewStyle().Foreground(ColorMuted)
	accentStyle = lipgloss.NewStyle().Foreground(ColorAccent)
	passStyle   = lipgloss.NewStyle().Foreground(ColorPass)
	warnStyle   = lipgloss.NewStyle().Foreground(ColorWarn)
	failStyle   = lipgloss.NewStyle().Foreground(ColorFail)
)

// DisableColor forces plain output regardless of terminal detection.
// Used when colored-output is off or stdout is not a TTY.
func DisableColor() {
	lipgloss.SetColorProfile(termenv.Ascii)
}

func RenderBold(s string) string   { return boldStyle.Render(s) }
func RenderMuted(s string) string  { return mutedStyle.Render(s) }
func RenderAccent(s string) string { return accentStyle.Render(s) }
func RenderPass(s string) string   { return passStyle.Render(s) }
func RenderWarn(s string) string   { return warnStyle.Render(s) }
func RenderFail(s string) string   { return failStyle.Render(s) }

// RenderSeparator returns the section divider used by show and context.
func RenderSeparator() string {
	return RenderMuted(strings.Repeat("─", 60))
}

// RenderMarkdown renders markdown for the terminal. Falls back to the
// raw text when rendering fails or output is not a terminal.
func RenderMarkdown(text string) string {
	if !IsTerminal() {
		return text
	}
	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(GetWidth()),
	)
	if err != nil {
		return text
	}
	out, err := r.Render(text)
	if err != nil {
		return text
	}
	return strings.TrimRight(out, "\n")
}

// StatusIcon returns the glyph shown next to a status. Empty when emoji
// are disabled.
func StatusIcon(st types.Status) string {
	if !ShouldUseEmoji() {
		return ""
	}
	switch st {
	case types.StatusActive:
		return "🔄 "
	case types.StatusBlocked:
		return "🚫 "
	case types.StatusDone:
		return "✓ "
	case types.StatusClosed:
		return "✓ "
	case types.StatusBacklog:
		return "💤 "
	}
	return ""
}

// StatusLabel renders a status name in its color.
func StatusLabel(st types.Status) string {
	switch st {
	case types.StatusActive:
		return RenderAccent(string(st))
	case types.StatusBlocked:
		return RenderFail(string(st))
	case types.StatusDone, types.StatusClosed:
		return RenderPass(string(st))
	case types.StatusBacklog:
		return RenderMuted(string(st))
	}
	return string(st)
}

// PriorityLabel renders a priority name in its color.
func PriorityLabel(p types.Priority) string {
	switch p {
	case types.PriorityCritical:
		return failStyle.Bold(true).Render(string(p))
	case types.PriorityHigh:
		return RenderWarn(string(p))
	case types.PriorityLow:
		return RenderMuted(string(p))
	}
	return string(p)
}
