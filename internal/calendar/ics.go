package calendar

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/alexanderramin/meetmeter/internal/domain"
	"github.com/emersion/go-ical"
)

const icsHeader = "BEGIN:VCALENDAR"

// LooksLikeICS reports whether text is raw iCalendar data.
func LooksLikeICS(text string) bool {
	return strings.HasPrefix(strings.TrimSpace(text), icsHeader)
}

// ParseICS decodes every VEVENT in r. Floating times are interpreted in loc.
func ParseICS(r io.Reader, loc *time.Location) ([]domain.CalendarEvent, error) {
	if loc == nil {
		loc = time.UTC
	}

	decoder := ical.NewDecoder(r)
	var events []domain.CalendarEvent
	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("decoding calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}
			events = append(events, icsEvent(comp, loc))
		}
	}
	return events, nil
}

func icsEvent(comp *ical.Component, loc *time.Location) domain.CalendarEvent {
	ev := domain.CalendarEvent{}
	if uid, err := comp.Props.Text(ical.PropUID); err == nil {
		ev.ID = uid
	}
	if summary, err := comp.Props.Text(ical.PropSummary); err == nil {
		ev.Summary = summary
	}
	if location, err := comp.Props.Text(ical.PropLocation); err == nil {
		ev.Location = location
	}
	if status := comp.Props.Get(ical.PropStatus); status != nil {
		ev.Status = strings.ToLower(status.Value)
	}
	ev.Start = icsTime(comp.Props.Get(ical.PropDateTimeStart), loc)
	ev.End = icsTime(comp.Props.Get(ical.PropDateTimeEnd), loc)
	return ev
}

func icsTime(prop *ical.Prop, loc *time.Location) domain.EventTime {
	if prop == nil {
		return domain.EventTime{}
	}
	t, err := prop.DateTime(loc)
	if err != nil {
		return domain.EventTime{}
	}
	if prop.ValueType() == ical.ValueDate || len(strings.TrimSpace(prop.Value)) == len("20060102") {
		return domain.EventTime{Date: t.Format(dateLayout)}
	}
	return domain.EventTime{DateTime: t.Format(time.RFC3339)}
}

// FormatICS is the manual-input counterpart of FormatEvents for raw iCalendar text.
func FormatICS(text string, loc *time.Location) (string, error) {
	events, err := ParseICS(strings.NewReader(text), loc)
	if err != nil {
		return "", err
	}
	return FormatEvents(events), nil
}
