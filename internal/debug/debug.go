// Package debug provides diagnostic logging gated by the BUGS_DEBUG
// environment variable. Output goes to stderr so it never mixes with
// command output or JSON.
package debug

import (
	"fmt"
	"os"
	"strconv"
)

var enabled bool

func init() {
	if v := os.Getenv("BUGS_DEBUG"); v != "" {
		b, err := strconv.ParseBool(v)
		enabled = err != nil || b
	}
}

// Logf writes a diagnostic line to stderr when debug logging is enabled.
func Logf(format string, args ...interface{}) {
	if !enabled {
		return
	}
	fmt.Fprintf(os.Stderr, format, args...)
	if len(format) == 0 || format[len(format)-1] != '\n' {
		fmt.Fprintln(os.Stderr)
	}
}
