package service

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// AnalysisSettings are the tunables shared by the analysis use cases.
type AnalysisSettings struct {
	Capacity            scheduler.CapacityConfig
	Policy              scheduler.DeferralPolicy
	SignalLookbackDays  int
	SignalLimit         int
	DeadlineHorizonDays int
	Workers             int
}

func DefaultAnalysisSettings() AnalysisSettings {
	return AnalysisSettings{
		Capacity:            scheduler.DefaultCapacityConfig(),
		Policy:              scheduler.PolicyOptimistic,
		SignalLookbackDays:  7,
		SignalLimit:         200,
		DeadlineHorizonDays: 30,
		Workers:             4,
	}
}

// AnalysisContext bundles everything loaded for one analysis or ranking call.
type AnalysisContext struct {
	Snapshot scheduler.Snapshot
	Capacity scheduler.CapacityConfig
	Degraded bool
	Warnings []string
}

// SnapshotLoader reads the stores once per call. Every analysis in the call
// shares the resulting snapshot read-only.
type SnapshotLoader struct {
	tasks    repository.TaskStore
	signals  repository.SignalStore
	profiles repository.UserProfileRepo
	settings AnalysisSettings
}

func NewSnapshotLoader(
	tasks repository.TaskStore,
	signals repository.SignalStore,
	profiles repository.UserProfileRepo,
	settings AnalysisSettings,
) *SnapshotLoader {
	return &SnapshotLoader{tasks: tasks, signals: signals, profiles: profiles, settings: settings}
}

// CapacityFor resolves the user's capacity config, applying profile
// overrides on top of the configured defaults.
func (l *SnapshotLoader) CapacityFor(ctx context.Context, userID string) (scheduler.CapacityConfig, error) {
	if userID == "" || l.profiles == nil {
		return l.settings.Capacity, nil
	}
	profile, err := l.profiles.Get(ctx, userID)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return l.settings.Capacity, nil
		}
		return scheduler.CapacityConfig{}, fmt.Errorf("loading user profile: %w", err)
	}
	return l.settings.Capacity.WithProfile(profile), nil
}

// Load fetches signals, deadlines and the current week's active tasks. Store
// failures are returned as UPSTREAM_UNAVAILABLE unless allowDegraded is set,
// in which case the failing source is treated as empty and flagged.
func (l *SnapshotLoader) Load(ctx context.Context, userID string, now time.Time, allowDegraded bool) (*AnalysisContext, error) {
	capacity, err := l.CapacityFor(ctx, userID)
	if err != nil {
		return nil, upstreamError("user_profile", err)
	}

	actx := &AnalysisContext{
		Snapshot: scheduler.Snapshot{Now: now},
		Capacity: capacity,
	}

	degrade := func(source string, err error) error {
		if !allowDegraded {
			return upstreamError(source, err)
		}
		actx.Degraded = true
		actx.Warnings = append(actx.Warnings, fmt.Sprintf("%s unavailable, analysing without it: %v", source, err))
		return nil
	}

	since := now.AddDate(0, 0, -l.settings.SignalLookbackDays)
	signals, err := l.signals.FetchRecentSignals(ctx, userID, since, l.settings.SignalLimit)
	if err != nil {
		if err := degrade("signal store", err); err != nil {
			return nil, err
		}
	}
	actx.Snapshot.Signals = signals

	deadlines, err := l.signals.FetchUpcomingDeadlines(ctx, userID, now, now.AddDate(0, 0, l.settings.DeadlineHorizonDays))
	if err != nil {
		if err := degrade("deadline store", err); err != nil {
			return nil, err
		}
	}
	actx.Snapshot.Deadlines = deadlines

	week, year := domain.ISOBucket(now)
	tasks, err := l.tasks.FetchActiveTasks(ctx, userID, &repository.WeekFilter{Week: week, Year: year})
	if err != nil {
		if err := degrade("task store", err); err != nil {
			return nil, err
		}
	}
	actx.Snapshot.Tasks = tasks

	return actx, nil
}

func (l *SnapshotLoader) analyzer(cfg scheduler.CapacityConfig, observer scheduler.StageObserver) *scheduler.Analyzer {
	return scheduler.NewAnalyzer(cfg, l.settings.Policy, scheduler.WithStageObserver(observer))
}

func upstreamError(source string, err error) error {
	return &app.AnalysisError{
		Code:    app.ErrUpstreamUnavailable,
		Stage:   app.StageLoad,
		Message: source + " unavailable",
		Err:     err,
	}
}

func invalidInput(stage app.Stage, project, message string, err error) error {
	return &app.AnalysisError{
		Code:    app.ErrInvalidInput,
		Stage:   stage,
		Project: project,
		Message: message,
		Err:     err,
	}
}

func resolveNow(now *time.Time) time.Time {
	if now != nil {
		return *now
	}
	return time.Now().UTC()
}
