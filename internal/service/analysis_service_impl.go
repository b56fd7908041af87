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

type analysisService struct {
	projects repository.ProjectRepo
	loader   *SnapshotLoader
	stages   scheduler.StageObserver
	observer UseCaseObserver
}

func NewAnalysisService(
	projects repository.ProjectRepo,
	loader *SnapshotLoader,
	stages scheduler.StageObserver,
	observers ...UseCaseObserver,
) AnalysisService {
	if stages == nil {
		stages = scheduler.NoopStageObserver{}
	}
	return &analysisService{
		projects: projects,
		loader:   loader,
		stages:   stages,
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *analysisService) Analyze(ctx context.Context, req app.AnalyzeRequest) (result *app.AnalysisResult, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": req.UserID}
	defer observe(ctx, s.observer, "analyze", startedAt, fields, &err)

	p, err := resolveProject(ctx, s.projects, req.ProjectID, req.Project)
	if err != nil {
		return nil, err
	}
	fields["project"] = p.Title
	if err := p.Validate(); err != nil {
		return nil, invalidInput(app.StageValidate, p.Title, "project rejected", err)
	}

	userID := domain.CoalesceStr(req.UserID, p.UserID)
	actx, err := s.loader.Load(ctx, userID, resolveNow(req.Now), req.AllowDegraded)
	if err != nil {
		return nil, err
	}

	analysis, err := s.loader.analyzer(actx.Capacity, s.stages).Analyze(p, actx.Snapshot)
	if err != nil {
		return nil, err
	}
	if actx.Degraded {
		analysis.Degraded = true
		analysis.Warnings = append(append([]string(nil), actx.Warnings...), analysis.Warnings...)
	}
	fields["decision"] = string(analysis.Decision)
	fields["priority"] = analysis.PriorityScore
	return &analysis, nil
}

func (s *analysisService) PlanBreakdown(ctx context.Context, req app.BreakdownRequest) (resp *app.BreakdownResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{}
	defer observe(ctx, s.observer, "plan-breakdown", startedAt, fields, &err)

	p, err := resolveProject(ctx, s.projects, req.ProjectID, req.Project)
	if err != nil {
		return nil, err
	}
	fields["project"] = p.Title
	if err := p.Validate(); err != nil {
		return nil, invalidInput(app.StageValidate, p.Title, "project rejected", err)
	}

	total := p.EffectiveHours()
	if req.TotalHours != nil {
		total = *req.TotalHours
	}
	if total <= 0 {
		return nil, invalidInput(app.StageBreakdown, p.Title, "total hours must be positive", domain.ErrNonPositiveHours)
	}

	cfg, err := s.loader.CapacityFor(ctx, p.UserID)
	if err != nil {
		return nil, upstreamError("user_profile", err)
	}

	now := resolveNow(req.Now)
	plan := scheduler.NewSprintBreakdownPlanner(cfg).Plan(p, total, scheduler.DaysUntil(now, p.DueDate), now)
	fields["tasks"] = len(plan.Tasks)

	return &app.BreakdownResponse{
		ProjectID:      p.ID,
		ProjectTitle:   p.Title,
		Template:       plan.Template,
		WeeksAvailable: plan.WeeksAvailable,
		HoursPerWeek:   plan.HoursPerWeek,
		Tasks:          plan.Tasks,
		UnplannedHours: plan.UnplannedHours,
	}, nil
}

// resolveProject returns a copy of the inline project, or loads it by ID.
func resolveProject(ctx context.Context, projects repository.ProjectRepo, id string, inline *domain.Project) (*domain.Project, error) {
	if inline != nil {
		p := *inline
		return &p, nil
	}
	if id == "" {
		return nil, invalidInput(app.StageValidate, "", "project id or project body is required", nil)
	}
	p, err := projects.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, &app.AnalysisError{
				Code:    app.ErrProjectNotFound,
				Stage:   app.StageLoad,
				Project: id,
				Message: "project not found",
				Err:     err,
			}
		}
		return nil, fmt.Errorf("loading project %s: %w", id, err)
	}
	return p, nil
}
