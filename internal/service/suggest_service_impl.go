package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

const maxProfileConcepts = 20

type suggestService struct {
	generator app.SuggestionGenerator
	projects  repository.ProjectRepo
	loader    *SnapshotLoader
	observer  UseCaseObserver
}

func NewSuggestService(
	generator app.SuggestionGenerator,
	projects repository.ProjectRepo,
	loader *SnapshotLoader,
	observers ...UseCaseObserver,
) app.SuggestUseCase {
	return &suggestService{
		generator: generator,
		projects:  projects,
		loader:    loader,
		observer:  useCaseObserverOrNoop(observers),
	}
}

// Suggest asks the generator for drafts and keeps the valid ones. Invalid
// drafts are dropped with a warning; a generator failure is returned as
// SUGGESTION_FAILED and callers decide whether it is fatal.
func (s *suggestService) Suggest(ctx context.Context, userID string, count int, now time.Time) (drafts []domain.Project, warnings []string, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"user": userID, "requested": count}
	defer observe(ctx, s.observer, "suggest", startedAt, fields, &err)

	if count <= 0 {
		return nil, nil, nil
	}

	actx, err := s.loader.Load(ctx, userID, now, true)
	if err != nil {
		return nil, nil, err
	}
	warnings = append(warnings, actx.Warnings...)

	existing, err := s.projects.List(ctx, userID)
	if err != nil {
		return nil, warnings, fmt.Errorf("listing projects: %w", err)
	}
	profile := BuildLearningProfile(userID, actx.Snapshot, existing)

	generated, err := s.generator.Generate(ctx, profile, count)
	if err != nil {
		return nil, warnings, &app.AnalysisError{
			Code:    app.ErrSuggestionFailed,
			Stage:   app.StageSuggest,
			Message: "suggestion generator failed",
			Err:     err,
		}
	}

	for i := range generated {
		d := generated[i]
		d.UserID = userID
		d.Status = domain.ProjectProposed
		if err := d.Validate(); err != nil {
			warnings = append(warnings, fmt.Sprintf("dropped suggestion %q: %v", d.Title, err))
			continue
		}
		drafts = append(drafts, d)
		if len(drafts) == count {
			break
		}
	}
	fields["accepted"] = len(drafts)
	return drafts, warnings, nil
}

// BuildLearningProfile summarizes a snapshot for the suggestion generator.
func BuildLearningProfile(userID string, snap scheduler.Snapshot, existing []*domain.Project) app.LearningProfile {
	profile := app.LearningProfile{
		UserID:            userID,
		UpcomingDeadlines: snap.Deadlines,
	}
	seen := make(map[string]bool)
	for i := range snap.Signals {
		sig := &snap.Signals[i]
		concepts := sig.Concepts
		if len(concepts) == 0 {
			concepts = scheduler.ExtractConcepts(sig.Title + " " + sig.RawText)
		}
		for _, c := range concepts {
			c = strings.ToLower(strings.TrimSpace(c))
			if c == "" || seen[c] || len(profile.RecentConcepts) >= maxProfileConcepts {
				continue
			}
			seen[c] = true
			profile.RecentConcepts = append(profile.RecentConcepts, c)
		}
		if scheduler.IsStruggle(sig.RawText + " " + sig.Title) {
			profile.StruggleIndicators = append(profile.StruggleIndicators, sig.Label())
		}
	}
	for _, p := range existing {
		profile.ExistingProjects = append(profile.ExistingProjects, p.Title)
	}
	return profile
}
