package timeparse

import (
	"testing"
	"time"
)

func TestSinceDuration(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := Since("36h", now)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	want := now.Add(-36 * time.Hour)
	if !got.Equal(want) {
		t.Errorf("Since(36h) = %v, want %v", got, want)
	}
}

func TestSinceDate(t *testing.T) {
	got, err := Since("2026-05-20", time.Now())
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if got.Year() != 2026 || got.Month() != time.May || got.Day() != 20 {
		t.Errorf("Since(2026-05-20) = %v", got)
	}
}

func TestSinceNaturalLanguage(t *testing.T) {
	now := time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

	got, err := Since("yesterday", now)
	if err != nil {
		t.Fatalf("Since: %v", err)
	}
	if !got.Before(now) || got.Before(now.Add(-48*time.Hour)) {
		t.Errorf("Since(yesterday) = %v, outside expected window", got)
	}
}

func TestSinceUnrecognized(t *testing.T) {
	if _, err := Since("whenever you feel like it", time.Now()); err == nil {
		t.Error("Since accepted nonsense")
	}
}
