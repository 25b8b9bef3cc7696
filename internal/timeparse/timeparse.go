// Package timeparse resolves the --since expressions accepted by the
// summary and metrics commands: Go durations, dates, and natural
// language like "yesterday" or "last monday".
package timeparse

import (
	"fmt"
	"time"

	"github.com/olebedev/when"
	"github.com/olebedev/when/rules/common"
	"github.com/olebedev/when/rules/en"
)

var parser *when.Parser

func init() {
	parser = when.New(nil)
	parser.Add(en.All...)
	parser.Add(common.All...)
}

// Since converts an expression into a cutoff time relative to now.
// Durations ("36h", "30m") count backwards from now; dates
// ("2026-07-01", RFC 3339) are taken as-is; anything else goes through
// the natural language parser.
func Since(expr string, now time.Time) (time.Time, error) {
	if d, err := time.ParseDuration(expr); err == nil {
		return now.Add(-d), nil
	}
	if t, err := time.ParseInLocation("2006-01-02", expr, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.Parse(time.RFC3339, expr); err == nil {
		return t, nil
	}

	r, err := parser.Parse(expr, now)
	if err != nil {
		return time.Time{}, fmt.Errorf("parsing %q: %w", expr, err)
	}
	if r == nil {
		return time.Time{}, fmt.Errorf("unrecognized time expression: %q", expr)
	}
	return r.Time, nil
}
