package analysis

import (
	"context"
	"time"

	"go.uber.org/zap"
)

// UseCaseEvent captures lightweight execution telemetry for one analysis request.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Stage     Stage
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// Observer receives use-case execution events.
type Observer interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopObserver ignores all events.
type NoopObserver struct{}

func (NoopObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logObserver struct {
	logger *zap.Logger
}

// NewLogObserver writes use-case events to logger.
func NewLogObserver(logger *zap.Logger) Observer {
	if logger == nil {
		return NoopObserver{}
	}
	return &logObserver{logger: logger.Named("analysis")}
}

func (o *logObserver) ObserveUseCase(_ context.Context, event UseCaseEvent) {
	fields := make([]zap.Field, 0, 5+len(event.Fields))
	fields = append(fields,
		zap.String("use_case", event.Name),
		zap.Int64("duration_ms", event.Duration.Milliseconds()),
		zap.Bool("success", event.Success),
		zap.String("stage", string(event.Stage)),
	)
	for k, v := range event.Fields {
		fields = append(fields, zap.Any(k, v))
	}
	if event.Err != nil {
		fields = append(fields, zap.Error(event.Err))
		o.logger.Error("analysis_use_case", fields...)
		return
	}
	o.logger.Info("analysis_use_case", fields...)
}
