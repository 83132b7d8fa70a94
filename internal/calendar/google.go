package calendar

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/meetmeter/internal/domain"
	"golang.org/x/oauth2"
	gcal "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"
)

// ErrFetchFailed wraps any failure talking to the calendar provider.
var ErrFetchFailed = errors.New("calendar fetch failed")

const (
	defaultCalendarID = "primary"
	pageSize          = 250
)

// Listing is the result of a provider fetch. Token is the credential in
// effect after the call and differs from the input when it was refreshed.
type Listing struct {
	Events []domain.CalendarEvent
	Token  *oauth2.Token
}

// EventSource lists calendar events visible to an OAuth token.
type EventSource interface {
	ListEvents(ctx context.Context, tok *oauth2.Token, r domain.TimeRange) (*Listing, error)
}

// GoogleProvider reads events through the Google Calendar v3 API.
type GoogleProvider struct {
	oauth      *oauth2.Config
	calendarID string
	opts       []option.ClientOption
}

// NewGoogleProvider creates an EventSource. The oauth config is used to
// refresh expired access tokens; extra options are appended to every
// calendar service (tests point option.WithEndpoint at an httptest server).
func NewGoogleProvider(oauth *oauth2.Config, opts ...option.ClientOption) *GoogleProvider {
	if oauth == nil {
		oauth = &oauth2.Config{}
	}
	return &GoogleProvider{
		oauth:      oauth,
		calendarID: defaultCalendarID,
		opts:       opts,
	}
}

func (p *GoogleProvider) ListEvents(ctx context.Context, tok *oauth2.Token, r domain.TimeRange) (*Listing, error) {
	if tok == nil {
		return nil, fmt.Errorf("%w: no token", ErrFetchFailed)
	}

	ts := p.oauth.TokenSource(ctx, tok)
	opts := append([]option.ClientOption{option.WithTokenSource(ts)}, p.opts...)
	svc, err := gcal.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("%w: creating service: %v", ErrFetchFailed, err)
	}

	call := svc.Events.List(p.calendarID).
		TimeMin(r.Start.Format(time.RFC3339)).
		TimeMax(r.End.Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		MaxResults(pageSize)

	var events []domain.CalendarEvent
	err = call.Pages(ctx, func(page *gcal.Events) error {
		for _, item := range page.Items {
			events = append(events, fromGoogleEvent(item))
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrFetchFailed, err)
	}

	current, err := ts.Token()
	if err != nil {
		current = tok
	}
	return &Listing{Events: events, Token: current}, nil
}

func fromGoogleEvent(item *gcal.Event) domain.CalendarEvent {
	ev := domain.CalendarEvent{
		ID:       item.Id,
		Summary:  item.Summary,
		Status:   item.Status,
		Location: item.Location,
	}
	if item.Start != nil {
		ev.Start = domain.EventTime{DateTime: item.Start.DateTime, Date: item.Start.Date, TimeZone: item.Start.TimeZone}
	}
	if item.End != nil {
		ev.End = domain.EventTime{DateTime: item.End.DateTime, Date: item.End.Date, TimeZone: item.End.TimeZone}
	}
	return ev
}
