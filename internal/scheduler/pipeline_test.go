package scheduler

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var pipelineNow = time.Date(2025, 3, 12, 10, 0, 0, 0, time.UTC) // Wednesday, ISO week 11

type recordingObserver struct {
	mu     sync.Mutex
	stages []Stage
}

func (r *recordingObserver) OnStage(e StageEvent) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.stages = append(r.stages, e.Stage)
}

func newProject(title string, due time.Time, complexity domain.Complexity, tags ...string) *domain.Project {
	return &domain.Project{
		ID:          "p-" + title,
		Title:       title,
		Description: "Project " + title,
		DueDate:     due,
		Complexity:  complexity,
		Tags:        tags,
		Status:      domain.ProjectProposed,
	}
}

func TestAnalyze_DueTomorrowFitsThisWeek(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Lab report", pipelineNow.AddDate(0, 0, 1), domain.ComplexityLow)

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionExecuteNow, res.Decision)
	assert.Equal(t, 20.0, res.Feasibility.TimeAvailable)
	assert.Equal(t, 1, res.Feasibility.DaysUntilDue)
	require.Len(t, res.Tasks, 1)
	task := res.Tasks[0]
	assert.Equal(t, 3.0, task.EstimatedHours)
	assert.Equal(t, 11, task.SprintWeek)
	assert.Equal(t, 2025, task.SprintYear)
	assert.Equal(t, 1, task.OrderInSprint)
	assert.Equal(t, p.DueDate, task.DueDate)
	assert.Contains(t, res.Recommendation, "Lab report")
	assert.False(t, res.LowConfidence)
}

func TestAnalyze_LargeProjectBreaksDown(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Web game", pipelineNow.AddDate(0, 0, 21), domain.ComplexityVeryHigh, "coding")

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionBreakDown, res.Decision)
	assert.Equal(t, 3, res.Feasibility.WeeksUntilDue)
	assert.Equal(t, "software", res.Template)
	require.Len(t, res.Tasks, 3)
	assert.InDelta(t, 30, sumHours(res.Tasks), 0.1)
	assert.Contains(t, res.Tasks[2].Title, "Testing & Refinement")
}

func TestAnalyze_OverdueForcesExecution(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Late essay", pipelineNow.AddDate(0, 0, -10), domain.ComplexityMedium)

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow})
	require.NoError(t, err)

	assert.Equal(t, domain.DecisionExecuteNow, res.Decision)
	assert.Equal(t, -10, res.Feasibility.DaysUntilDue)
	assert.Equal(t, 100, res.Scores.Urgency)
	assert.GreaterOrEqual(t, res.PriorityScore, 95)
	assert.Contains(t, res.Rationale, "OVERDUE")
	require.Len(t, res.Tasks, 1)
	assert.Equal(t, domain.PriorityCritical, res.Tasks[0].Priority)

	var floored bool
	for _, r := range res.Scores.Reasons {
		if r.Code == app.ReasonOverdueFloor {
			floored = true
		}
	}
	assert.True(t, floored)
}

func TestAnalyze_CountsExistingAllocation(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Quiz prep", pipelineNow.AddDate(0, 0, 5), domain.ComplexityMedium)
	tasks := []domain.SprintTask{
		{EstimatedHours: 10, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskTodo},
		{EstimatedHours: 5, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskInProgress},
		{EstimatedHours: 7, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskCompleted},
	}

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow, Tasks: tasks})
	require.NoError(t, err)

	assert.Equal(t, 15.0, res.Feasibility.AllocatedHours)
	assert.Equal(t, 5.0, res.Feasibility.TimeAvailable)
	assert.Equal(t, domain.DecisionExecuteNow, res.Decision)
	assert.True(t, res.LowConfidence)
	assert.Contains(t, res.Rationale, "low confidence")
}

func TestAnalyze_IgnoresOwnCommittedTasks(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyDefer)
	p := newProject("Quiz prep", pipelineNow.AddDate(0, 0, 5), domain.ComplexityHigh)
	tasks := []domain.SprintTask{
		{ProjectID: p.ID, EstimatedHours: 16, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskTodo},
		{ProjectID: "p-other", EstimatedHours: 3, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskTodo},
	}

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow, Tasks: tasks})
	require.NoError(t, err)
	assert.Equal(t, 3.0, res.Feasibility.AllocatedHours)
	assert.Equal(t, 17.0, res.Feasibility.TimeAvailable)
	assert.Equal(t, domain.DecisionExecuteNow, res.Decision)
	assert.False(t, res.LowConfidence)
}

func TestAnalyze_DeferPolicy(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyDefer)
	p := newProject("Quiz prep", pipelineNow.AddDate(0, 0, 5), domain.ComplexityMedium)
	tasks := []domain.SprintTask{{EstimatedHours: 18, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskTodo}}

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow, Tasks: tasks})
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionDefer, res.Decision)
	assert.Empty(t, res.Tasks)
	assert.Contains(t, res.Recommendation, "Defer")
}

func TestAnalyze_RejectsInvalidProject(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("No description", pipelineNow.AddDate(0, 0, 3), domain.ComplexityLow)
	p.Description = ""

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow})
	require.Error(t, err)
	assert.Empty(t, res.Decision)

	var ae *app.AnalysisError
	require.True(t, errors.As(err, &ae))
	assert.Equal(t, app.ErrInvalidInput, ae.Code)
	assert.Equal(t, app.StageValidate, ae.Stage)
	assert.Equal(t, "No description", ae.Project)
	assert.ErrorIs(t, err, domain.ErrMissingDescription)
}

func TestAnalyze_InsightsFromSignals(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Recursion drills", pipelineNow.AddDate(0, 0, 4), domain.ComplexityLow)
	p.Description = "Practice recursion problems"

	signals := []domain.ActivitySignal{
		{UserID: "u1", Kind: domain.ActivityBrowserTab, Title: "Recursion help forum", RawText: "stuck on recursion base case",
			Concepts: []string{"Recursion", "stack"}, ObservedAt: pipelineNow.Add(-time.Hour)},
		{UserID: "u1", Kind: domain.ActivityVideoTranscript, RawText: "sorting algorithms lecture",
			Concepts: []string{"sorting", "stack"}, ObservedAt: pipelineNow.Add(-2 * time.Hour)},
	}
	deadlines := []domain.Deadline{{Label: "CS101 quiz", DueDate: pipelineNow.AddDate(0, 0, 2)}}

	res, err := a.Analyze(p, Snapshot{Now: pipelineNow, Signals: signals, Deadlines: deadlines})
	require.NoError(t, err)

	assert.Equal(t, []string{"recursion", "stack", "sorting"}, res.Insights.RelatedConcepts)
	assert.Equal(t, []string{"Recursion help forum", "video_transcript"}, res.Insights.RecentActivities)
	assert.Equal(t, []string{"Recursion help forum"}, res.Insights.StruggleIndicators)
	assert.Equal(t, deadlines, res.Insights.UpcomingDeadlines)
	assert.Greater(t, res.Scores.Interest, 0)
	assert.Greater(t, res.Scores.Difficulty, 0)
	assert.Greater(t, res.Scores.ContextRelevance, 0)
}

func TestAnalyze_Idempotent(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic)
	p := newProject("Parser", pipelineNow.AddDate(0, 0, 18), domain.ComplexityHigh, "coding")
	snap := Snapshot{
		Now: pipelineNow,
		Signals: []domain.ActivitySignal{
			{UserID: "u1", Kind: domain.ActivityPDFText, RawText: "parser combinators tutorial", ObservedAt: pipelineNow.Add(-30 * time.Hour)},
		},
		Tasks: []domain.SprintTask{{EstimatedHours: 6, SprintWeek: 11, SprintYear: 2025, Status: domain.TaskTodo}},
	}

	first, err := a.Analyze(p, snap)
	require.NoError(t, err)
	second, err := a.Analyze(p, snap)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestAnalyze_NotifiesStages(t *testing.T) {
	obs := &recordingObserver{}
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic, WithStageObserver(obs))
	p := newProject("Observed", pipelineNow.AddDate(0, 0, 3), domain.ComplexityLow)

	_, err := a.Analyze(p, Snapshot{Now: pipelineNow})
	require.NoError(t, err)
	assert.Equal(t, []Stage{StageConceptsExtracted, StageScoresComputed, StageDecisionMade}, obs.stages)
}

type neverMatcher struct{}

func (neverMatcher) Matches(string, []string) bool { return false }

func TestAnalyze_CustomMatcher(t *testing.T) {
	a := NewAnalyzer(DefaultCapacityConfig(), PolicyOptimistic, WithMatcher(neverMatcher{}))
	p := newProject("Recursion", pipelineNow.AddDate(0, 0, 3), domain.ComplexityLow)
	snap := Snapshot{Now: pipelineNow, Signals: []domain.ActivitySignal{
		{UserID: "u1", Kind: domain.ActivityManualInput, RawText: "recursion help", ObservedAt: pipelineNow},
	}}

	res, err := a.Analyze(p, snap)
	require.NoError(t, err)
	assert.Zero(t, res.Scores.Interest)
	assert.Zero(t, res.Scores.Difficulty)
	assert.Empty(t, res.Insights.StruggleIndicators)
}
