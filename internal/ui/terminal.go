// Package ui provides terminal styling and output helpers for the bugs CLI.
package ui

import (
	"os"

	"golang.org/x/term"
)

// IsTerminal reports whether stdout is a TTY.
func IsTerminal() bool {
	return term.IsTerminal(int(os.Stdout.Fd()))
}

// ShouldUseColor honors NO_COLOR (https://no-color.org/) and the
// CLICOLOR/CLICOLOR_FORCE conventions, then falls back to TTY detection.
func ShouldUseColor() bool {
	if os.Getenv("NO_COLOR") != "" || os.Getenv("CLICOLOR") == "0" {
		return false
	}
	if os.Getenv("CLICOLOR_FORCE") != "" {
		return true
	}
	return IsTerminal()
}

// ShouldUseEmoji reports whether status glyphs should decorate output.
// Off when stdout is not a TTY so piped output stays machine-readable;
// BUGS_NO_EMOJI forces it off everywhere.
func ShouldUseEmoji() bool {
	if os.Getenv("BUGS_NO_EMOJI") != "" {
		return false
	}
	return IsTerminal()
}

// GetWidth returns the terminal width, or 80 when it cannot be measured.
func GetWidth() int {
	w, _, err := term.GetSize(int(os.Stdout.Fd()))
	if err != nil || w <= 0 {
		return 80
	}
	return w
}
