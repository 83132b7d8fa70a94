// Package analysis turns calendar data into a themed "meeting oppression"
// analysis by prompting a language model and validating its reply.
package analysis

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/alexanderramin/meetmeter/internal/auth"
	"github.com/alexanderramin/meetmeter/internal/calendar"
	"github.com/alexanderramin/meetmeter/internal/domain"
	"github.com/alexanderramin/meetmeter/internal/llm"
	"github.com/alexanderramin/meetmeter/internal/repository"
)

// DefaultPeriodLabel is used when a manual request names no period.
const DefaultPeriodLabel = "this week"

var (
	// ErrLLMNotConfigured is returned when no model credential was configured.
	ErrLLMNotConfigured = errors.New("OpenAI API key not configured")
	// ErrCalendarNotConnected is returned when the user never completed the
	// Calendar consent flow.
	ErrCalendarNotConnected = errors.New("Google Calendar not connected")
)

// Stage names the step of an analysis request.
type Stage string

const (
	StageResolvingInput Stage = "resolving-input"
	StageBuildingPrompt Stage = "building-prompt"
	StageCallingModel   Stage = "calling-model"
	StageParsingResult  Stage = "parsing-result"
	StageDone           Stage = "done"
)

// StageError records the stage an analysis failed in. Its message is the
// underlying error's message.
type StageError struct {
	Stage Stage
	Err   error
}

func (e *StageError) Error() string { return e.Err.Error() }
func (e *StageError) Unwrap() error { return e.Err }

// ManualRequest carries caller-supplied calendar text.
type ManualRequest struct {
	CalendarData string `json:"calendar_data"`
	TimePeriod   string `json:"time_period"`
}

// EventsResult is the outcome of a calendar fetch for one user.
type EventsResult struct {
	Events     []domain.CalendarEvent `json:"events"`
	TimeRange  domain.TimeRange       `json:"time_range"`
	TimePeriod domain.TimePeriod      `json:"time_period"`
}

// CredentialStore reads and writes per-user OAuth credentials.
type CredentialStore interface {
	GetByEmail(ctx context.Context, email string) (*domain.UserCredential, error)
	Upsert(ctx context.Context, cred *domain.UserCredential) error
}

// Analyzer runs the manual and auto analysis paths.
type Analyzer struct {
	client   llm.LLMClient
	theme    Theme
	events   calendar.EventSource
	creds    CredentialStore
	observer Observer
	logger   *zap.Logger
	loc      *time.Location
	now      func() time.Time
}

// Option configures an Analyzer.
type Option func(*Analyzer)

// WithCalendar enables the auto path.
func WithCalendar(src calendar.EventSource, creds CredentialStore) Option {
	return func(a *Analyzer) {
		a.events = src
		a.creds = creds
	}
}

func WithObserver(o Observer) Option {
	return func(a *Analyzer) {
		if o != nil {
			a.observer = o
		}
	}
}

func WithLogger(l *zap.Logger) Option {
	return func(a *Analyzer) {
		if l != nil {
			a.logger = l
		}
	}
}

// WithLocation sets the zone period boundaries and .ics floating times are resolved in.
func WithLocation(loc *time.Location) Option {
	return func(a *Analyzer) {
		if loc != nil {
			a.loc = loc
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(a *Analyzer) {
		if now != nil {
			a.now = now
		}
	}
}

// NewAnalyzer creates an Analyzer. A nil client means no model credential
// is configured; every analysis then fails with ErrLLMNotConfigured.
func NewAnalyzer(client llm.LLMClient, theme Theme, opts ...Option) *Analyzer {
	a := &Analyzer{
		client:   client,
		theme:    theme,
		observer: NoopObserver{},
		logger:   zap.NewNop(),
		loc:      time.UTC,
		now:      time.Now,
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// Theme returns the deployment theme.
func (a *Analyzer) Theme() Theme { return a.theme }

// AnalyzeManual analyzes calendar text supplied by the caller. Text that
// looks like an iCalendar document is decoded and normalised first.
func (a *Analyzer) AnalyzeManual(ctx context.Context, req ManualRequest) (res *domain.AnalysisResult, err error) {
	if a.client == nil {
		return nil, ErrLLMNotConfigured
	}
	run := a.begin(ctx, "analyze_manual")
	defer func() { run.finish(err) }()

	text := req.CalendarData
	if calendar.LooksLikeICS(text) {
		text, err = calendar.FormatICS(text, a.loc)
		if err != nil {
			return nil, run.fail(StageResolvingInput, err)
		}
	}
	period := req.TimePeriod
	if strings.TrimSpace(period) == "" {
		period = DefaultPeriodLabel
	}

	return a.analyze(ctx, run, text, period)
}

// AnalyzeAuto fetches the user's events for the labelled period and analyzes
// them. A period with no events yields the theme's free-schedule result
// without a model call.
func (a *Analyzer) AnalyzeAuto(ctx context.Context, email, label string) (res *domain.AnalysisResult, err error) {
	if a.client == nil {
		return nil, ErrLLMNotConfigured
	}
	run := a.begin(ctx, "analyze_auto")
	run.fields["time_period"] = label
	defer func() { run.finish(err) }()

	fetched, err := a.fetch(ctx, email, label)
	if err != nil {
		return nil, run.fail(StageResolvingInput, err)
	}

	text := calendar.FormatEvents(fetched.Events)
	run.fields["event_count"] = len(fetched.Events)
	if text == calendar.NoEventsSentinel {
		run.stage = StageDone
		run.fields["short_circuit"] = true
		return a.theme.FreeSchedule.Clone(), nil
	}

	return a.analyze(ctx, run, text, string(fetched.TimePeriod))
}

// FetchEvents returns the user's raw events for the labelled period.
func (a *Analyzer) FetchEvents(ctx context.Context, email, label string) (res *EventsResult, err error) {
	run := a.begin(ctx, "fetch_events")
	defer func() { run.finish(err) }()

	res, err = a.fetch(ctx, email, label)
	if err != nil {
		return nil, run.fail(StageResolvingInput, err)
	}
	run.stage = StageDone
	return res, nil
}

func (a *Analyzer) fetch(ctx context.Context, email, label string) (*EventsResult, error) {
	if a.events == nil || a.creds == nil {
		return nil, ErrCalendarNotConnected
	}

	cred, err := a.creds.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrCalendarNotConnected
		}
		return nil, fmt.Errorf("loading calendar credential: %w", err)
	}

	period := calendar.ParsePeriod(label)
	rng := calendar.ResolveRange(string(period), a.now().In(a.loc))

	listing, err := a.events.ListEvents(ctx, auth.TokenFromCredential(cred), rng)
	if err != nil {
		return nil, err
	}
	a.writeBackToken(ctx, cred, listing)

	events := listing.Events
	if events == nil {
		events = []domain.CalendarEvent{}
	}
	return &EventsResult{Events: events, TimeRange: rng, TimePeriod: period}, nil
}

// writeBackToken persists a token the provider refreshed during the fetch.
// Concurrent requests for the same user may race here; the last write wins.
func (a *Analyzer) writeBackToken(ctx context.Context, cred *domain.UserCredential, listing *calendar.Listing) {
	if listing.Token == nil || listing.Token.AccessToken == cred.AccessToken {
		return
	}
	updated := auth.CredentialFromToken(cred.Email, listing.Token, cred)
	if err := a.creds.Upsert(ctx, updated); err != nil {
		a.logger.Warn("persisting refreshed calendar token failed",
			zap.String("email", cred.Email), zap.Error(err))
	}
}

func (a *Analyzer) analyze(ctx context.Context, run *useCaseRun, text, period string) (*domain.AnalysisResult, error) {
	run.stage = StageBuildingPrompt
	prompt := BuildPrompt(a.theme, text, period)

	run.stage = StageCallingModel
	resp, err := a.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskCalendarAnalysis,
		SystemPrompt: prompt.System,
		UserPrompt:   prompt.User,
	})
	if err != nil {
		return nil, run.fail(StageCallingModel, err)
	}

	run.stage = StageParsingResult
	res, perr := parseResult(resp.Text)
	if perr != nil {
		a.logger.Warn("model reply did not match schema, using fallback",
			zap.String("theme", a.theme.ID), zap.Error(perr))
		run.fields["fallback"] = true
		res = a.theme.Fallback.Clone()
	}
	run.stage = StageDone
	return res, nil
}

type useCaseRun struct {
	a      *Analyzer
	ctx    context.Context
	name   string
	start  time.Time
	stage  Stage
	fields map[string]any
}

func (a *Analyzer) begin(ctx context.Context, name string) *useCaseRun {
	return &useCaseRun{
		a:      a,
		ctx:    ctx,
		name:   name,
		start:  time.Now(),
		stage:  StageResolvingInput,
		fields: map[string]any{"theme": a.theme.ID},
	}
}

func (r *useCaseRun) fail(stage Stage, err error) error {
	r.stage = stage
	return &StageError{Stage: stage, Err: err}
}

func (r *useCaseRun) finish(err error) {
	r.a.observer.ObserveUseCase(r.ctx, UseCaseEvent{
		Name:      r.name,
		Duration:  time.Since(r.start),
		Success:   err == nil,
		Stage:     r.stage,
		Err:       err,
		Fields:    r.fields,
		StartedAt: r.start,
	})
}
