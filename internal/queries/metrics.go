package queries

import (
	"fmt"
	"time"

	"github.com/bugsdev/bugs/internal/types"
)

// Period selects the metrics window.
type Period string

const (
	PeriodDay   Period = "day"
	PeriodWeek  Period = "week"
	PeriodMonth Period = "month"
	PeriodAll   Period = "all"
)

// ParsePeriod converts user input into a Period.
func ParsePeriod(s string) (Period, error) {
	switch Period(s) {
	case PeriodDay, PeriodWeek, PeriodMonth, PeriodAll:
		return Period(s), nil
	}
	return "", fmt.Errorf("invalid period: %q (want day, week, month, or all)", s)
}

// Start returns the cutoff for the period. ok is false for all-time.
// Month is a flat thirty days.
func (p Period) Start(now time.Time) (time.Time, bool) {
	switch p {
	case PeriodDay:
		return now.Add(-24 * time.Hour), true
	case PeriodWeek:
		return now.Add(-7 * 24 * time.Hour), true
	case PeriodMonth:
		return now.Add(-30 * 24 * time.Hour), true
	}
	return time.Time{}, false
}

// Metrics aggregates tracker activity for a period.
type Metrics struct {
	Period         Period         `json:"period"`
	TotalOpen      int            `json:"total_open"`
	TotalClosed    int            `json:"total_closed"`
	OpenedInPeriod int            `json:"opened_in_period"`
	ClosedInPeriod int            `json:"closed_in_period"`
	AvgCloseHours  float64        `json:"avg_close_time_hours"`
	ByPriority     map[string]int `json:"by_priority"`
	ByStatus       map[string]int `json:"by_status"`
}

// BuildMetrics computes the aggregate view. Opened counts creations in
// either partition; the priority and status breakdowns cover open work
// only; average close time runs creation to close over the issues closed
// in the period.
func BuildMetrics(open, closed []*types.Issue, period Period, now time.Time) *Metrics {
	m := &Metrics{
		Period:      period,
		TotalOpen:   len(open),
		TotalClosed: len(closed),
		ByPriority:  make(map[string]int),
		ByStatus:    make(map[string]int),
	}
	since, bounded := period.Start(now)

	for _, issue := range open {
		m.ByPriority[string(issue.Priority)]++
		m.ByStatus[string(issue.Status)]++
		if !bounded || issue.CreatedAt.After(since) {
			m.OpenedInPeriod++
		}
	}

	var closeHours float64
	for _, issue := range closed {
		if !bounded || issue.CreatedAt.After(since) {
			m.OpenedInPeriod++
		}
		if issue.ClosedAt == nil {
			continue
		}
		if bounded && !issue.ClosedAt.After(since) {
			continue
		}
		m.ClosedInPeriod++
		closeHours += issue.ClosedAt.Sub(issue.CreatedAt).Hours()
	}
	if m.ClosedInPeriod > 0 {
		m.AvgCloseHours = closeHours / float64(m.ClosedInPeriod)
	}
	return m
}
