package scheduler

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

const maxRecentActivities = 10

type Stage string

const (
	StageConceptsExtracted Stage = "concepts_extracted"
	StageScoresComputed    Stage = "scores_computed"
	StageDecisionMade      Stage = "decision_made"
	StageRanked            Stage = "ranked"
	StageSuggestions       Stage = "suggestions_generated"
)

type StageEvent struct {
	Stage   Stage
	Project string
	Fields  map[string]any
}

// StageObserver is notified as an analysis moves through its stages.
type StageObserver interface {
	OnStage(StageEvent)
}

type NoopStageObserver struct{}

func (NoopStageObserver) OnStage(StageEvent) {}

// Snapshot is the read-only state every analysis in a call shares.
type Snapshot struct {
	Signals   []domain.ActivitySignal
	Tasks     []domain.SprintTask
	Deadlines []domain.Deadline
	Now       time.Time
}

type Analyzer struct {
	scores    *ScoreEngine
	capacity  *CapacityPlanner
	decisions *DecisionEngine
	breakdown *SprintBreakdownPlanner
	observer  StageObserver
}

type AnalyzerOption func(*Analyzer)

func WithMatcher(m TextMatcher) AnalyzerOption {
	return func(a *Analyzer) { a.scores = NewScoreEngine(m) }
}

func WithStageObserver(o StageObserver) AnalyzerOption {
	return func(a *Analyzer) {
		if o != nil {
			a.observer = o
		}
	}
}

func NewAnalyzer(cfg CapacityConfig, policy DeferralPolicy, opts ...AnalyzerOption) *Analyzer {
	a := &Analyzer{
		scores:    NewScoreEngine(SubstringMatcher{}),
		capacity:  NewCapacityPlanner(cfg),
		decisions: NewDecisionEngine(cfg, policy),
		breakdown: NewSprintBreakdownPlanner(cfg),
		observer:  NoopStageObserver{},
	}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

func (a *Analyzer) Capacity() *CapacityPlanner { return a.capacity }

func (a *Analyzer) Breakdown() *SprintBreakdownPlanner { return a.breakdown }

// Analyze runs extraction, scoring, capacity and decision for one project.
// It is a pure function of p and snap; invalid projects are rejected before
// any scoring.
func (a *Analyzer) Analyze(p *domain.Project, snap Snapshot) (app.AnalysisResult, error) {
	if err := p.Validate(); err != nil {
		return app.AnalysisResult{}, &app.AnalysisError{
			Code:    app.ErrInvalidInput,
			Stage:   app.StageValidate,
			Project: p.Title,
			Message: "project rejected",
			Err:     err,
		}
	}

	concepts := ProjectConcepts(p)
	a.observer.OnStage(StageEvent{
		Stage:   StageConceptsExtracted,
		Project: p.Title,
		Fields:  map[string]any{"concepts": len(concepts)},
	})

	insights := a.buildInsights(concepts, snap)
	daysUntilDue := DaysUntil(snap.Now, p.DueDate)
	scores := a.scores.Score(ScoringInput{
		ProjectConcepts:  concepts,
		Signals:          snap.Signals,
		DaysUntilDue:     daysUntilDue,
		RelatedConcepts:  insights.RelatedConcepts,
		RecentActivities: insights.RecentActivities,
		Now:              snap.Now,
	})
	a.observer.OnStage(StageEvent{
		Stage:   StageScoresComputed,
		Project: p.Title,
		Fields: map[string]any{
			"interest":   scores.Interest,
			"difficulty": scores.Difficulty,
			"urgency":    scores.Urgency,
			"context":    scores.ContextRelevance,
			"composite":  scores.Composite,
		},
	})

	cfg := a.capacity.Config()
	week, year := domain.ISOBucket(snap.Now)
	allocated := a.capacity.AllocatedHours(tasksOfOtherProjects(snap.Tasks, p.ID), week, year)
	available := cfg.WeeklyHoursAvailable - allocated
	hours := p.EffectiveHours()

	outcome := a.decisions.Decide(DecisionInput{
		DaysUntilDue:   daysUntilDue,
		EstimatedHours: hours,
		TimeAvailable:  available,
		PriorityScore:  scores.Composite,
	})
	a.observer.OnStage(StageEvent{
		Stage:   StageDecisionMade,
		Project: p.Title,
		Fields: map[string]any{
			"decision": string(outcome.Decision),
			"rule":     string(outcome.Rule),
			"priority": outcome.PriorityScore,
		},
	})

	if outcome.Rule == RuleOverdue {
		floor := float64(outcome.PriorityScore - scores.Composite)
		scores.Reasons = append(scores.Reasons, app.ScoreReason{
			Code:        app.ReasonOverdueFloor,
			Message:     fmt.Sprintf("Overdue: priority floored at %d", overdueScoreFloor),
			WeightDelta: &floor,
		})
	}

	result := app.AnalysisResult{
		ProjectID:     p.ID,
		ProjectTitle:  p.Title,
		Concepts:      concepts,
		Decision:      outcome.Decision,
		PriorityScore: outcome.PriorityScore,
		Scores:        scores,
		Feasibility: app.Feasibility{
			SprintWeek:        week,
			SprintYear:        year,
			WeeklyCapacity:    cfg.WeeklyHoursAvailable,
			MaxProjectHours:   cfg.MaxProjectHoursPerWeek,
			AllocatedHours:    roundHours(allocated),
			TimeAvailable:     roundHours(available),
			EstimatedHours:    hours,
			DaysUntilDue:      daysUntilDue,
			WeeksUntilDue:     outcome.WeeksUntilDue,
			FitsThisWeek:      hours <= available,
			ExceedsProjectCap: hours > cfg.MaxProjectHoursPerWeek,
		},
		Insights:      insights,
		Rationale:     outcome.Rationale,
		LowConfidence: outcome.LowConfidence,
		AnalyzedAt:    snap.Now,
	}

	switch outcome.Decision {
	case domain.DecisionBreakDown:
		plan := a.breakdown.Plan(p, hours, daysUntilDue, snap.Now)
		result.Tasks = plan.Tasks
		result.Template = plan.Template
		result.UnplannedHours = plan.UnplannedHours
		if plan.UnplannedHours > 0 {
			result.Warnings = append(result.Warnings, fmt.Sprintf(
				"%.1fh do not fit under the %.1fh weekly cap before the due date", plan.UnplannedHours, cfg.MaxProjectHoursPerWeek))
		}
	case domain.DecisionExecuteNow:
		result.Tasks = []domain.SprintTask{singleTask(p, hours, outcome, week, year)}
	}
	result.Recommendation = recommend(p, result)
	return result, nil
}

// buildInsights collects the context shared by scoring and reporting.
// Signals are expected newest first.
func (a *Analyzer) buildInsights(concepts []string, snap Snapshot) app.ContextInsights {
	var ins app.ContextInsights
	seenConcept := make(map[string]bool)
	seenActivity := make(map[string]bool)
	for i := range snap.Signals {
		s := &snap.Signals[i]
		for _, c := range s.Concepts {
			c = strings.ToLower(strings.TrimSpace(c))
			if c != "" && !seenConcept[c] {
				seenConcept[c] = true
				ins.RelatedConcepts = append(ins.RelatedConcepts, c)
			}
		}
		label := s.Label()
		if len(ins.RecentActivities) < maxRecentActivities && !seenActivity[label] {
			seenActivity[label] = true
			ins.RecentActivities = append(ins.RecentActivities, label)
		}
		text := s.RawText + " " + s.Title
		if IsStruggle(text) && a.scores.matcher.Matches(text, concepts) {
			ins.StruggleIndicators = append(ins.StruggleIndicators, label)
		}
	}
	ins.UpcomingDeadlines = snap.Deadlines
	return ins
}

// tasksOfOtherProjects drops the project's own committed tasks so that
// re-analysing a planned project does not compete with its current plan.
func tasksOfOtherProjects(tasks []domain.SprintTask, projectID string) []domain.SprintTask {
	if projectID == "" {
		return tasks
	}
	out := make([]domain.SprintTask, 0, len(tasks))
	for _, t := range tasks {
		if t.ProjectID != projectID {
			out = append(out, t)
		}
	}
	return out
}

func singleTask(p *domain.Project, hours float64, outcome DecisionOutcome, week, year int) domain.SprintTask {
	return domain.SprintTask{
		ProjectID:      p.ID,
		Title:          p.Title,
		Description:    p.Description,
		Priority:       priorityFor(outcome),
		EstimatedHours: roundHours(hours),
		DueDate:        p.DueDate,
		SprintWeek:     week,
		SprintYear:     year,
		Status:         domain.TaskTodo,
		OrderInSprint:  1,
	}
}

func priorityFor(outcome DecisionOutcome) domain.TaskPriority {
	if outcome.Rule == RuleOverdue {
		return domain.PriorityCritical
	}
	switch s := outcome.PriorityScore; {
	case s >= 80:
		return domain.PriorityCritical
	case s >= 60:
		return domain.PriorityHigh
	case s >= 40:
		return domain.PriorityMedium
	default:
		return domain.PriorityLow
	}
}

func recommend(p *domain.Project, r app.AnalysisResult) string {
	f := r.Feasibility
	switch {
	case r.Decision == domain.DecisionDefer:
		return fmt.Sprintf("Defer %q until capacity frees up: %.1fh needed, %.1fh available.", p.Title, f.EstimatedHours, f.TimeAvailable)
	case r.Decision == domain.DecisionBreakDown && len(r.Tasks) > 0:
		return fmt.Sprintf("Split %q into %d weekly sprint(s) starting with %q.", p.Title, len(r.Tasks), r.Tasks[0].Title)
	case f.DaysUntilDue < 0:
		return fmt.Sprintf("%q is overdue by %d day(s): start it immediately.", p.Title, -f.DaysUntilDue)
	case r.LowConfidence:
		return fmt.Sprintf("Start %q now, but capacity is tight: %.1fh needed, %.1fh available.", p.Title, f.EstimatedHours, f.TimeAvailable)
	default:
		return fmt.Sprintf("Start %q this week: %.1fh fits in %.1fh available.", p.Title, f.EstimatedHours, f.TimeAvailable)
	}
}
