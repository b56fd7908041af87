package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
	"github.com/alexanderramin/cadence/internal/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAnalysisService_Analyze_DueTomorrowExecutesNow(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()

	p := f.createProject(t, testutil.NewTestProject("Lab report",
		testutil.WithDueDate(now.AddDate(0, 0, 1)),
		testutil.WithComplexity(domain.ComplexityLow)))

	obs := &recordingUseCaseObserver{}
	svc := NewAnalysisService(f.projects, f.loader, nil, obs)
	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.ProjectID = p.ID
	req.Now = &now

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionExecuteNow, result.Decision)
	require.Len(t, result.Tasks, 1)
	assert.Equal(t, 3.0, result.Tasks[0].EstimatedHours)

	week, year := domain.ISOBucket(now)
	assert.Equal(t, week, result.Tasks[0].SprintWeek)
	assert.Equal(t, year, result.Tasks[0].SprintYear)
	assert.Equal(t, 20.0, result.Feasibility.TimeAvailable)
	assert.False(t, result.Degraded)

	require.Len(t, obs.events, 1)
	assert.Equal(t, "analyze", obs.events[0].Name)
	assert.True(t, obs.events[0].Success)
	assert.Equal(t, "EXECUTE_NOW", obs.events[0].Fields["decision"])
}

func TestAnalysisService_Analyze_UsesSignalsAndCommittedTasks(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	busy := f.createProject(t, testutil.NewTestProject("Busy work"))
	require.NoError(t, f.tasks.Create(ctx, testutil.NewTestTask(busy.ID, "Grind", testutil.WithTaskHours(18))))

	require.NoError(t, f.signals.Append(ctx, testutil.NewTestSignal("graph traversal tutorial for beginners",
		testutil.WithSignalTitle("Graph tutorial"),
		testutil.WithObservedAt(now.Add(-time.Hour)),
		testutil.WithDurationSec(900))))

	p := testutil.NewTestProject("Graph traversal visualizer",
		testutil.WithDescription("Animate traversal of graph structures"),
		testutil.WithDueDate(now.AddDate(0, 0, 5)),
		testutil.WithComplexity(domain.ComplexityLow))

	svc := NewAnalysisService(f.projects, f.loader, nil)
	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.Project = p
	req.Now = &now

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, 18.0, result.Feasibility.AllocatedHours)
	assert.Equal(t, 2.0, result.Feasibility.TimeAvailable)
	assert.False(t, result.Feasibility.FitsThisWeek)
	assert.Equal(t, domain.DecisionExecuteNow, result.Decision)
	assert.True(t, result.LowConfidence)

	assert.Greater(t, result.Scores.Interest, 0)
	assert.Greater(t, result.Scores.Difficulty, 0)
	assert.Contains(t, result.Insights.RecentActivities, "Graph tutorial")
	assert.Contains(t, result.Insights.StruggleIndicators, "Graph tutorial")
}

func TestAnalysisService_Analyze_ProfileOverridesCapacity(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC()
	require.NoError(t, f.profiles.Upsert(ctx, &domain.UserProfile{ID: testutil.TestUserID, WeeklyHoursAvailable: 6, MaxProjectHoursPerWeek: 4}))

	p := testutil.NewTestProject("Essay",
		testutil.WithDueDate(now.AddDate(0, 0, 5)),
		testutil.WithEstimatedHours(8))

	svc := NewAnalysisService(f.projects, f.loader, nil)
	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.Project = p
	req.Now = &now

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, 6.0, result.Feasibility.WeeklyCapacity)
	assert.Equal(t, 4.0, result.Feasibility.MaxProjectHours)
	assert.True(t, result.Feasibility.ExceedsProjectCap)
	assert.Equal(t, domain.DecisionBreakDown, result.Decision)
	assert.InDelta(t, 4.0, hoursSum(result.Tasks), 0.1)
	assert.InDelta(t, 4.0, result.UnplannedHours, 0.1)
	assert.NotEmpty(t, result.Warnings)
}

func TestAnalysisService_Analyze_InvalidProjectRejectedBeforeLoading(t *testing.T) {
	f := newFixture(t).withSignals(failingSignalStore{err: errors.New("mongo down")})
	svc := NewAnalysisService(f.projects, f.loader, nil)

	tests := []struct {
		name    string
		project *domain.Project
		want    error
	}{
		{"missing title", testutil.NewTestProject(""), domain.ErrMissingTitle},
		{"missing description", testutil.NewTestProject("X", testutil.WithDescription("")), domain.ErrMissingDescription},
		{"missing due date", testutil.NewTestProject("X", testutil.WithDueDate(time.Time{})), domain.ErrMissingDueDate},
		{"non-positive hours", testutil.NewTestProject("X", testutil.WithEstimatedHours(0)), domain.ErrNonPositiveHours},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			req := app.NewAnalyzeRequest(testutil.TestUserID)
			req.Project = tc.project

			result, err := svc.Analyze(context.Background(), req)
			require.Error(t, err)
			assert.Nil(t, result)
			ae := asAnalysisError(t, err)
			assert.Equal(t, app.ErrInvalidInput, ae.Code)
			assert.Equal(t, app.StageValidate, ae.Stage)
			assert.ErrorIs(t, err, tc.want)
		})
	}
}

func TestAnalysisService_Analyze_UnknownProject(t *testing.T) {
	f := newFixture(t)
	svc := NewAnalysisService(f.projects, f.loader, nil)

	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.ProjectID = "missing"
	_, err := svc.Analyze(context.Background(), req)
	require.Error(t, err)
	assert.Equal(t, app.ErrProjectNotFound, asAnalysisError(t, err).Code)
}

func TestAnalysisService_Analyze_UpstreamFailure(t *testing.T) {
	storeErr := errors.New("connection refused")
	f := newFixture(t).withSignals(failingSignalStore{err: storeErr})
	svc := NewAnalysisService(f.projects, f.loader, nil)
	now := time.Now().UTC()

	p := testutil.NewTestProject("Quiz prep", testutil.WithDueDate(now.AddDate(0, 0, 2)), testutil.WithComplexity(domain.ComplexityLow))

	t.Run("propagated by default", func(t *testing.T) {
		req := app.NewAnalyzeRequest(testutil.TestUserID)
		req.Project = p
		req.Now = &now

		_, err := svc.Analyze(context.Background(), req)
		require.Error(t, err)
		ae := asAnalysisError(t, err)
		assert.Equal(t, app.ErrUpstreamUnavailable, ae.Code)
		assert.Equal(t, app.StageLoad, ae.Stage)
		assert.ErrorIs(t, err, storeErr)
	})

	t.Run("degraded on request", func(t *testing.T) {
		req := app.NewAnalyzeRequest(testutil.TestUserID)
		req.Project = p
		req.Now = &now
		req.AllowDegraded = true

		result, err := svc.Analyze(context.Background(), req)
		require.NoError(t, err)
		assert.True(t, result.Degraded)
		assert.Len(t, result.Warnings, 2, "signals and deadlines both failed")
		assert.Zero(t, result.Scores.Interest)
		assert.Equal(t, domain.DecisionExecuteNow, result.Decision)
	})
}

func TestAnalysisService_Analyze_ReportsStages(t *testing.T) {
	f := newFixture(t)
	stages := &recordingStageObserver{}
	svc := NewAnalysisService(f.projects, f.loader, stages)

	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.Project = testutil.NewTestProject("Observed")
	_, err := svc.Analyze(context.Background(), req)
	require.NoError(t, err)

	assert.Equal(t, 1, stages.count(scheduler.StageConceptsExtracted))
	assert.Equal(t, 1, stages.count(scheduler.StageScoresComputed))
	assert.Equal(t, 1, stages.count(scheduler.StageDecisionMade))
}

func TestAnalysisService_PlanBreakdown(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	p := f.createProject(t, testutil.NewTestProject("Compiler",
		testutil.WithDueDate(now.AddDate(0, 0, 21)),
		testutil.WithComplexity(domain.ComplexityVeryHigh),
		testutil.WithTags("coding")))

	svc := NewAnalysisService(f.projects, f.loader, nil)
	resp, err := svc.PlanBreakdown(ctx, app.BreakdownRequest{ProjectID: p.ID, Now: &now})
	require.NoError(t, err)

	assert.Equal(t, "software", resp.Template)
	assert.Equal(t, 3, resp.WeeksAvailable)
	require.Len(t, resp.Tasks, 3)
	assert.InDelta(t, 30.0, hoursSum(resp.Tasks), 0.1)
	assert.Contains(t, resp.Tasks[0].Title, "Setup & Planning")
	assert.Contains(t, resp.Tasks[2].Title, "Testing & Refinement")
	for i, task := range resp.Tasks {
		assert.Equal(t, i+1, task.OrderInSprint)
	}

	zero := 0.0
	_, err = svc.PlanBreakdown(ctx, app.BreakdownRequest{ProjectID: p.ID, TotalHours: &zero, Now: &now})
	require.Error(t, err)
	assert.Equal(t, app.ErrInvalidInput, asAnalysisError(t, err).Code)
}

func TestAnalysisService_Analyze_IngestedTitleFeedsContextNotInterest(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	now := time.Now().UTC().Truncate(time.Millisecond)

	signals := NewSignalService(f.signals)
	require.NoError(t, signals.Ingest(ctx, testutil.NewTestSignal("watched a lecture",
		testutil.WithSignalTitle("Graph algorithms"),
		testutil.WithObservedAt(now.Add(-time.Hour)),
		testutil.WithDurationSec(600))))

	p := testutil.NewTestProject("Graph algorithms", testutil.WithDueDate(now.AddDate(0, 0, 20)))

	svc := NewAnalysisService(f.projects, f.loader, nil)
	req := app.NewAnalyzeRequest(testutil.TestUserID)
	req.Project = p
	req.Now = &now

	result, err := svc.Analyze(ctx, req)
	require.NoError(t, err)

	assert.Equal(t, []string{"graph", "algorithms", "project"}, result.Concepts)
	assert.Empty(t, result.Insights.RelatedConcepts)
	assert.Equal(t, []string{"Graph algorithms"}, result.Insights.RecentActivities)
	assert.Equal(t, 0, result.Scores.Interest)
	// "graph" and "algorithms" appear in the recent activity label only.
	assert.Equal(t, 30, result.Scores.ContextRelevance)
}
