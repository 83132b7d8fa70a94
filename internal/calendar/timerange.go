// Package calendar resolves analysis periods, fetches events from the
// calendar provider and normalizes them into prompt text.
package calendar

import (
	"strings"
	"time"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

// ParsePeriod maps a user-supplied label onto one of the known periods.
// Labels are matched case-insensitively and "this week" / "this-week" are
// accepted for this_week. Anything unrecognized is recent_days.
func ParsePeriod(label string) domain.TimePeriod {
	norm := strings.ToLower(strings.TrimSpace(label))
	norm = strings.NewReplacer(" ", "_", "-", "_").Replace(norm)

	switch domain.TimePeriod(norm) {
	case domain.PeriodToday, domain.PeriodThisWeek, domain.PeriodThisMonth:
		return domain.TimePeriod(norm)
	default:
		return domain.PeriodRecentDays
	}
}

// ResolveRange converts a period label into a concrete [start, end) interval
// relative to now, using now's location for calendar-day boundaries.
func ResolveRange(label string, now time.Time) domain.TimeRange {
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())

	switch ParsePeriod(label) {
	case domain.PeriodToday:
		return domain.TimeRange{Start: midnight, End: midnight.AddDate(0, 0, 1)}

	case domain.PeriodThisWeek:
		// Monday is offset 0.
		offset := (int(now.Weekday()) + 6) % 7
		start := midnight.AddDate(0, 0, -offset)
		return domain.TimeRange{Start: start, End: start.AddDate(0, 0, 7)}

	case domain.PeriodThisMonth:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		// time.Date normalizes month 13 into January of the next year.
		end := time.Date(now.Year(), now.Month()+1, 1, 0, 0, 0, 0, now.Location())
		return domain.TimeRange{Start: start, End: end}

	default:
		return domain.TimeRange{Start: now.AddDate(0, 0, -7), End: now}
	}
}
