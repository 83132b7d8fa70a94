package calendar

import (
	"strings"
	"time"

	"github.com/alexanderramin/meetmeter/internal/domain"
)

const (
	// NoEventsSentinel is returned by FormatEvents for an empty event list.
	// The analyzer compares against it to skip the model call entirely.
	NoEventsSentinel = "No events found"

	untitledSummary = "No title"

	dateLayout  = "2006-01-02"
	clockLayout = "03:04 PM"
)

// FormatEvents renders events as one line each, in input order:
//
//	2024-01-15 09:00 AM - 10:00 AM: Daily Standup
//	2024-01-16: Offsite (All day)
//
// Events with neither a dateTime nor a date start are dropped.
func FormatEvents(events []domain.CalendarEvent) string {
	lines := make([]string, 0, len(events))
	for _, ev := range events {
		if line, ok := formatEvent(ev); ok {
			lines = append(lines, line)
		}
	}
	if len(lines) == 0 {
		return NoEventsSentinel
	}
	return strings.Join(lines, "\n")
}

func formatEvent(ev domain.CalendarEvent) (string, bool) {
	summary := strings.TrimSpace(ev.Summary)
	if summary == "" {
		summary = untitledSummary
	}

	switch {
	case ev.Start.DateTime != "":
		end := ev.End.DateTime
		if end == "" {
			end = ev.Start.DateTime
		}
		start, startOK := parseDateTime(ev.Start.DateTime)
		stop, stopOK := parseDateTime(end)
		if !startOK || !stopOK {
			return ev.Start.DateTime + " - " + end + ": " + summary, true
		}
		return start.Format(dateLayout) + " " + start.Format(clockLayout) +
			" - " + stop.Format(clockLayout) + ": " + summary, true

	case ev.Start.Date != "":
		day := ev.Start.Date
		if len(day) > len(dateLayout) {
			day = day[:len(dateLayout)]
		}
		return day + ": " + summary + " (All day)", true

	default:
		return "", false
	}
}

func parseDateTime(s string) (time.Time, bool) {
	for _, layout := range []string{time.RFC3339Nano, time.RFC3339, "2006-01-02T15:04:05"} {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
