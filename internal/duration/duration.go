// Package duration parses human effort strings like "2h", "1.5d", or
// "30 minutes" into whole minute counts.
package duration

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Workday and workweek scale: a day is 8 working hours, a week 5 working
// days.
const (
	minutesPerHour = 60
	minutesPerDay  = 8 * minutesPerHour
	minutesPerWeek = 5 * minutesPerDay
)

// InvalidDurationError reports input that does not match the duration
// grammar.
type InvalidDurationError struct {
	Input  string
	Reason string
}

func (e *InvalidDurationError) Error() string {
	return fmt.Sprintf("invalid duration %q: %s", e.Input, e.Reason)
}

// Parse converts an effort string into minutes. The grammar is a decimal
// magnitude followed by an optional unit token (minutes, hours, days,
// weeks); a bare number means minutes. Unit tokens are case-insensitive
// and fractional results round half-up to the nearest minute.
func Parse(s string) (int, error) {
	trimmed := strings.TrimSpace(s)
	if trimmed == "" {
		return 0, &InvalidDurationError{Input: s, Reason: "empty input"}
	}

	numEnd := 0
	for i, c := range trimmed {
		if (c >= '0' && c <= '9') || c == '.' || (c == '-' && i == 0) {
			numEnd = i + 1
			continue
		}
		break
	}
	if numEnd == 0 {
		return 0, &InvalidDurationError{Input: s, Reason: "no magnitude found"}
	}

	numPart := trimmed[:numEnd]
	unitPart := strings.ToLower(strings.TrimSpace(trimmed[numEnd:]))

	value, err := strconv.ParseFloat(numPart, 64)
	if err != nil {
		return 0, &InvalidDurationError{Input: s, Reason: fmt.Sprintf("bad magnitude %q", numPart)}
	}
	if value < 0 {
		return 0, &InvalidDurationError{Input: s, Reason: "negative magnitude"}
	}

	var scale float64
	switch unitPart {
	case "", "m", "min", "mins", "minute", "minutes":
		scale = 1
	case "h", "hr", "hrs", "hour", "hours":
		scale = minutesPerHour
	case "d", "day", "days":
		scale = minutesPerDay
	case "w", "week", "weeks":
		scale = minutesPerWeek
	default:
		return 0, &InvalidDurationError{Input: s, Reason: fmt.Sprintf("unknown unit %q", unitPart)}
	}

	return int(math.Floor(value*scale + 0.5)), nil
}

// Format renders a minute count compactly for display ("45m", "2h",
// "1.5d"). The inverse of Parse up to unit choice.
func Format(minutes int) string {
	switch {
	case minutes <= 0:
		return "0m"
	case minutes < minutesPerHour:
		return fmt.Sprintf("%dm", minutes)
	case minutes < minutesPerDay:
		return trimUnit(float64(minutes)/minutesPerHour, "h")
	case minutes < minutesPerWeek:
		return trimUnit(float64(minutes)/minutesPerDay, "d")
	default:
		return trimUnit(float64(minutes)/minutesPerWeek, "w")
	}
}

func trimUnit(v float64, unit string) string {
	s := strconv.FormatFloat(v, 'f', 1, 64)
	s = strings.TrimSuffix(s, ".0")
	return s + unit
}
