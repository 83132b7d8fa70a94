package domain

import "time"

// EventTime mirrors the provider representation of an event boundary:
// timed events carry DateTime (RFC 3339), all-day events carry Date (YYYY-MM-DD).
type EventTime struct {
	DateTime string `json:"dateTime,omitempty"`
	Date     string `json:"date,omitempty"`
	TimeZone string `json:"timeZone,omitempty"`
}

func (t EventTime) IsZero() bool {
	return t.DateTime == "" && t.Date == ""
}

type CalendarEvent struct {
	ID       string    `json:"id,omitempty"`
	Summary  string    `json:"summary"`
	Start    EventTime `json:"start"`
	End      EventTime `json:"end"`
	Status   string    `json:"status,omitempty"`
	Location string    `json:"location,omitempty"`
}

type TimePeriod string

const (
	PeriodToday      TimePeriod = "today"
	PeriodThisWeek   TimePeriod = "this_week"
	PeriodThisMonth  TimePeriod = "this_month"
	PeriodRecentDays TimePeriod = "recent_days"
)

// TimeRange is a half-open interval [Start, End).
type TimeRange struct {
	Start time.Time `json:"start"`
	End   time.Time `json:"end"`
}
