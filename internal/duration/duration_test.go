package duration

import (
	"errors"
	"testing"
)

func TestParse(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		{"30m", 30},
		{"2h", 120},
		{"1d", 480},
		{"1w", 2400},
		{"0.5h", 30},
		{"1.5 hours", 90},
		{"1.5d", 720},
		{"45", 45},
		{"  2h  ", 120},
		{"2H", 120},
		{"3 Days", 1440},
		{"90 minutes", 90},
		{"1 hr", 60},
		{"2 hrs", 120},
		{"10 mins", 10},
		{"1 week", 2400},
		{"0m", 0},
		{"0", 0},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := Parse(tt.in)
			if err != nil {
				t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
			}
		})
	}
}

func TestParseRoundsHalfUp(t *testing.T) {
	tests := []struct {
		in   string
		want int
	}{
		// 0.025h = 1.5m rounds up to 2
		{"0.025h", 2},
		// 0.024h = 1.44m rounds down to 1
		{"0.024h", 1},
		{"1.5m", 2},
		{"2.4m", 2},
		{"2.5m", 3},
	}
	for _, tt := range tests {
		got, err := Parse(tt.in)
		if err != nil {
			t.Fatalf("Parse(%q) unexpected error: %v", tt.in, err)
		}
		if got != tt.want {
			t.Errorf("Parse(%q) = %d, want %d", tt.in, got, tt.want)
		}
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"",
		"   ",
		"abc",
		"-5m",
		"2 fortnights",
		"2x",
		"1.2.3h",
		"h",
	}
	for _, in := range tests {
		t.Run(in, func(t *testing.T) {
			_, err := Parse(in)
			if err == nil {
				t.Fatalf("Parse(%q) expected error, got nil", in)
			}
			var invalid *InvalidDurationError
			if !errors.As(err, &invalid) {
				t.Errorf("Parse(%q) error type = %T, want *InvalidDurationError", in, err)
			}
		})
	}
}

func TestFormat(t *testing.T) {
	tests := []struct {
		in   int
		want string
	}{
		{0, "0m"},
		{30, "30m"},
		{60, "1h"},
		{90, "1.5h"},
		{480, "1d"},
		{720, "1.5d"},
		{2400, "1w"},
	}
	for _, tt := range tests {
		if got := Format(tt.in); got != tt.want {
			t.Errorf("Format(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
