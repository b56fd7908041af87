package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type rankService struct {
	projects repository.ProjectRepo
	loader   *SnapshotLoader
	suggest  app.SuggestUseCase
	stages   scheduler.StageObserver
	workers  int
	observer UseCaseObserver
}

// NewRankService wires ranking. suggest may be nil, in which case
// IncludeSuggestions only adds a warning.
func NewRankService(
	projects repository.ProjectRepo,
	loader *SnapshotLoader,
	suggest app.SuggestUseCase,
	stages scheduler.StageObserver,
	observers ...UseCaseObserver,
) RankService {
	if stages == nil {
		stages = scheduler.NoopStageObserver{}
	}
	return &rankService{
		projects: projects,
		loader:   loader,
		suggest:  suggest,
		stages:   stages,
		workers:  max(1, loader.settings.Workers),
		observer: useCaseObserverOrNoop(observers),
	}
}

func (s *rankService) Rank(ctx context.Context, req app.RankRequest) (resp *app.RankResponse, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": req.UserID}
	defer observe(ctx, s.observer, "rank", startedAt, fields, &err)

	now := resolveNow(req.Now)
	candidates, err := s.collect(ctx, req)
	if err != nil {
		return nil, err
	}
	for i := range candidates {
		if err := candidates[i].Validate(); err != nil {
			return nil, invalidInput(app.StageValidate, candidates[i].Title, "project rejected", err)
		}
	}

	actx, err := s.loader.Load(ctx, req.UserID, now, req.AllowDegraded)
	if err != nil {
		return nil, err
	}
	resp = &app.RankResponse{
		GeneratedAt: now,
		Degraded:    actx.Degraded,
		Warnings:    append([]string(nil), actx.Warnings...),
	}

	suggested := 0
	if req.IncludeSuggestions {
		drafts, warnings := s.suggestions(ctx, req, now)
		resp.Warnings = append(resp.Warnings, warnings...)
		suggested = len(drafts)
		candidates = append(candidates, drafts...)
	}
	fields["candidates"] = len(candidates)

	analyzer := s.loader.analyzer(actx.Capacity, s.stages)
	results := make([]scheduler.RankCandidate, len(candidates))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.workers)
	for i := range candidates {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			analysis, err := analyzer.Analyze(&candidates[i], actx.Snapshot)
			if err != nil {
				return err
			}
			analysis.Degraded = actx.Degraded
			results[i] = scheduler.RankCandidate{
				Project:   candidates[i],
				Analysis:  analysis,
				Index:     i,
				Suggested: i >= len(candidates)-suggested,
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		var ae *app.AnalysisError
		if errors.As(err, &ae) {
			return nil, err
		}
		return nil, &app.AnalysisError{Code: app.ErrInternal, Stage: app.StageRank, Message: "analysis fan-out failed", Err: err}
	}

	resp.Ranked = scheduler.RankProjects(results)
	resp.Top = scheduler.TopK(resp.Ranked, req.TopK)
	resp.Synthesis = synthesize(resp.Ranked, resp.Top)
	s.stages.OnStage(scheduler.StageEvent{
		Stage:  scheduler.StageRanked,
		Fields: map[string]any{"ranked": len(resp.Ranked), "top": len(resp.Top)},
	})
	fields["ranked"] = len(resp.Ranked)
	return resp, nil
}

// collect returns the caller's projects: inline drafts, explicit IDs, or the
// user's open portfolio when neither is given.
func (s *rankService) collect(ctx context.Context, req app.RankRequest) ([]domain.Project, error) {
	var out []domain.Project
	out = append(out, req.Projects...)
	for _, id := range req.ProjectIDs {
		p, err := resolveProject(ctx, s.projects, id, nil)
		if err != nil {
			return nil, err
		}
		out = append(out, *p)
	}
	if len(req.Projects) > 0 || len(req.ProjectIDs) > 0 {
		return out, nil
	}

	stored, err := s.projects.List(ctx, req.UserID, domain.ProjectProposed, domain.ProjectPlanning, domain.ProjectInProgress)
	if err != nil {
		return nil, upstreamError("project store", err)
	}
	for _, p := range stored {
		out = append(out, *p)
	}
	return out, nil
}

// suggestions never fails the ranking. Zero suggestions is a valid outcome.
func (s *rankService) suggestions(ctx context.Context, req app.RankRequest, now time.Time) ([]domain.Project, []string) {
	if s.suggest == nil {
		return nil, []string{"suggestions requested but no generator is configured"}
	}
	drafts, warnings, err := s.suggest.Suggest(ctx, req.UserID, req.SuggestionCount, now)
	if err != nil {
		warnings = append(warnings, fmt.Sprintf("no suggestions: %v", err))
		drafts = nil
	}
	s.stages.OnStage(scheduler.StageEvent{
		Stage:  scheduler.StageSuggestions,
		Fields: map[string]any{"accepted": len(drafts), "requested": req.SuggestionCount},
	})
	return drafts, warnings
}

func synthesize(ranked, top []app.RankedProject) string {
	if len(ranked) == 0 {
		return "No projects to rank."
	}
	lead := ranked[0]
	scores := lead.Analysis.Scores
	var b strings.Builder
	fmt.Fprintf(&b, "%q leads with priority %d (interest %d, difficulty %d, urgency %d, context %d)",
		lead.Project.Title, lead.Analysis.PriorityScore,
		scores.Interest, scores.Difficulty, scores.Urgency, scores.ContextRelevance)
	fmt.Fprintf(&b, " and should %s.", decisionVerb(lead.Analysis.Decision))

	if len(top) > 1 {
		titles := make([]string, 0, len(top)-1)
		for _, r := range top[1:] {
			titles = append(titles, fmt.Sprintf("%q (%d)", r.Project.Title, r.Analysis.PriorityScore))
		}
		fmt.Fprintf(&b, " Next up: %s.", strings.Join(titles, ", "))
	}

	var overdue int
	for _, r := range ranked {
		if r.Analysis.Feasibility.DaysUntilDue < 0 {
			overdue++
		}
	}
	if overdue > 0 {
		fmt.Fprintf(&b, " %d project(s) are overdue.", overdue)
	}
	return b.String()
}

func decisionVerb(d domain.Decision) string {
	switch d {
	case domain.DecisionBreakDown:
		return "be broken into weekly sprints"
	case domain.DecisionDefer:
		return "wait for capacity"
	default:
		return "start this week"
	}
}
