package service

import (
	"context"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/alexanderramin/cadence/internal/scheduler"
)

// UseCaseEvent captures lightweight execution telemetry for a service use case.
type UseCaseEvent struct {
	Name      string
	Duration  time.Duration
	Success   bool
	Err       error
	Fields    map[string]any
	StartedAt time.Time
}

// UseCaseObserver receives use-case execution events.
type UseCaseObserver interface {
	ObserveUseCase(ctx context.Context, event UseCaseEvent)
}

// NoopUseCaseObserver ignores all events.
type NoopUseCaseObserver struct{}

func (NoopUseCaseObserver) ObserveUseCase(context.Context, UseCaseEvent) {}

type logUseCaseObserver struct {
	logger *slog.Logger
}

// NewLogUseCaseObserver writes service use-case events to the provided writer.
func NewLogUseCaseObserver(w io.Writer) UseCaseObserver {
	if w == nil {
		return NoopUseCaseObserver{}
	}
	return NewSlogUseCaseObserver(slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: slog.LevelInfo})))
}

// NewSlogUseCaseObserver logs through an already configured logger.
func NewSlogUseCaseObserver(logger *slog.Logger) UseCaseObserver {
	if logger == nil {
		return NoopUseCaseObserver{}
	}
	return &logUseCaseObserver{logger: logger}
}

func (o *logUseCaseObserver) ObserveUseCase(ctx context.Context, event UseCaseEvent) {
	attrs := make([]any, 0, 8+len(event.Fields)*2)
	attrs = append(attrs,
		"use_case", event.Name,
		"duration_ms", event.Duration.Milliseconds(),
		"success", event.Success,
	)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	if event.Err != nil {
		attrs = append(attrs, "error", event.Err.Error())
		o.logger.ErrorContext(ctx, "service_use_case", attrs...)
		return
	}
	o.logger.InfoContext(ctx, "service_use_case", attrs...)
}

func useCaseObserverOrNoop(observers []UseCaseObserver) UseCaseObserver {
	for _, obs := range observers {
		if obs != nil {
			return obs
		}
	}
	return NoopUseCaseObserver{}
}

// observe emits one use-case event. Call it deferred with a pointer to the
// named error result.
func observe(ctx context.Context, obs UseCaseObserver, name string, startedAt time.Time, fields map[string]any, errp *error) {
	var err error
	if errp != nil {
		err = *errp
	}
	obs.ObserveUseCase(ctx, UseCaseEvent{
		Name:      name,
		StartedAt: startedAt,
		Duration:  time.Since(startedAt),
		Success:   err == nil,
		Err:       err,
		Fields:    fields,
	})
}

// --- Pipeline stage observers ---

type logPipelineObserver struct {
	logger *slog.Logger
}

// NewLogPipelineObserver writes one debug line per pipeline stage.
func NewLogPipelineObserver(logger *slog.Logger) scheduler.StageObserver {
	if logger == nil {
		return scheduler.NoopStageObserver{}
	}
	return &logPipelineObserver{logger: logger}
}

func (o *logPipelineObserver) OnStage(event scheduler.StageEvent) {
	attrs := make([]any, 0, 4+len(event.Fields)*2)
	attrs = append(attrs, "stage", string(event.Stage), "project", event.Project)
	for k, v := range event.Fields {
		attrs = append(attrs, k, v)
	}
	o.logger.Debug("pipeline_stage", attrs...)
}

type metricsPipelineObserver struct {
	stages    *prometheus.CounterVec
	decisions *prometheus.CounterVec
	scores    *prometheus.HistogramVec
}

// NewMetricsPipelineObserver registers cadence_pipeline_* collectors on reg.
func NewMetricsPipelineObserver(reg prometheus.Registerer) scheduler.StageObserver {
	factory := promauto.With(reg)
	return &metricsPipelineObserver{
		stages: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_pipeline_stage_total",
			Help: "Pipeline stages reached, by stage.",
		}, []string{"stage"}),
		decisions: factory.NewCounterVec(prometheus.CounterOpts{
			Name: "cadence_pipeline_decisions_total",
			Help: "Decisions emitted, by decision and rule.",
		}, []string{"decision", "rule"}),
		scores: factory.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "cadence_pipeline_score",
			Help:    "Distribution of computed scores, by component.",
			Buckets: prometheus.LinearBuckets(0, 10, 11),
		}, []string{"component"}),
	}
}

func (o *metricsPipelineObserver) OnStage(event scheduler.StageEvent) {
	o.stages.WithLabelValues(string(event.Stage)).Inc()
	switch event.Stage {
	case scheduler.StageScoresComputed:
		for _, component := range []string{"interest", "difficulty", "urgency", "context", "composite"} {
			if v, ok := event.Fields[component].(int); ok {
				o.scores.WithLabelValues(component).Observe(float64(v))
			}
		}
	case scheduler.StageDecisionMade:
		decision, _ := event.Fields["decision"].(string)
		rule, _ := event.Fields["rule"].(string)
		o.decisions.WithLabelValues(decision, rule).Inc()
	}
}

// MultiPipelineObserver fans each stage event out to every member.
type MultiPipelineObserver []scheduler.StageObserver

func (m MultiPipelineObserver) OnStage(event scheduler.StageEvent) {
	for _, o := range m {
		if o != nil {
			o.OnStage(event)
		}
	}
}
