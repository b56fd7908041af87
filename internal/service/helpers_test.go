package service

import (
	"context"
	"database/sql"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
)

type fixture struct {
	db       *sql.DB
	projects *repository.SQLiteProjectRepo
	tasks    *repository.SQLiteSprintTaskRepo
	signals  *repository.SQLiteSignalRepo
	profiles *repository.SQLiteUserProfileRepo
	settings AnalysisSettings
	loader   *SnapshotLoader
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	database := testutil.NewTestDB(t)
	f := &fixture{
		db:       database,
		projects: repository.NewSQLiteProjectRepo(database),
		tasks:    repository.NewSQLiteSprintTaskRepo(database),
		signals:  repository.NewSQLiteSignalRepo(database),
		profiles: repository.NewSQLiteUserProfileRepo(database),
		settings: DefaultAnalysisSettings(),
	}
	f.loader = NewSnapshotLoader(f.tasks, f.signals, f.profiles, f.settings)
	return f
}

// withSignals swaps the signal store behind the loader.
func (f *fixture) withSignals(store repository.SignalStore) *fixture {
	f.loader = NewSnapshotLoader(f.tasks, store, f.profiles, f.settings)
	return f
}

func (f *fixture) createProject(t *testing.T, p *domain.Project) *domain.Project {
	t.Helper()
	if err := f.projects.Create(context.Background(), p); err != nil {
		t.Fatalf("creating project: %v", err)
	}
	return p
}

type failingSignalStore struct {
	err error
}

func (s failingSignalStore) FetchRecentSignals(context.Context, string, time.Time, int) ([]domain.ActivitySignal, error) {
	return nil, s.err
}

func (s failingSignalStore) FetchUpcomingDeadlines(context.Context, string, time.Time, time.Time) ([]domain.Deadline, error) {
	return nil, s.err
}

type recordingStageObserver struct {
	mu     sync.Mutex
	events []scheduler.StageEvent
}

func (o *recordingStageObserver) OnStage(e scheduler.StageEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

func (o *recordingStageObserver) count(stage scheduler.Stage) int {
	o.mu.Lock()
	defer o.mu.Unlock()
	n := 0
	for _, e := range o.events {
		if e.Stage == stage {
			n++
		}
	}
	return n
}

type recordingUseCaseObserver struct {
	mu     sync.Mutex
	events []UseCaseEvent
}

func (o *recordingUseCaseObserver) ObserveUseCase(_ context.Context, e UseCaseEvent) {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.events = append(o.events, e)
}

type fakeGenerator struct {
	drafts []domain.Project
	err    error
	calls  int
	last   app.LearningProfile
}

func (g *fakeGenerator) Generate(_ context.Context, profile app.LearningProfile, count int) ([]domain.Project, error) {
	g.calls++
	g.last = profile
	if g.err != nil {
		return nil, g.err
	}
	return g.drafts, nil
}

func asAnalysisError(t *testing.T, err error) *app.AnalysisError {
	t.Helper()
	var ae *app.AnalysisError
	if !errors.As(err, &ae) {
		t.Fatalf("expected *app.AnalysisError, got %T: %v", err, err)
	}
	return ae
}

func hoursSum(tasks []domain.SprintTask) float64 {
	var sum float64
	for _, task := range tasks {
		sum += task.EstimatedHours
	}
	return sum
}
