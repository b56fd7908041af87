package app

import (
	"context"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type AnalyzeUseCase interface {
	Analyze(ctx context.Context, req AnalyzeRequest) (*AnalysisResult, error)
}

type RankUseCase interface {
	Rank(ctx context.Context, req RankRequest) (*RankResponse, error)
}

type BreakdownUseCase interface {
	PlanBreakdown(ctx context.Context, req BreakdownRequest) (*BreakdownResponse, error)
}

type CapacityUseCase interface {
	Capacity(ctx context.Context, req CapacityRequest) (*CapacityResponse, error)
}

type IngestSignalUseCase interface {
	Ingest(ctx context.Context, s *domain.ActivitySignal) error
}

type CommitPlanUseCase interface {
	Commit(ctx context.Context, projectID string, result *AnalysisResult) ([]domain.SprintTask, error)
}

type SuggestUseCase interface {
	Suggest(ctx context.Context, userID string, count int, now time.Time) ([]domain.Project, []string, error)
}

// SuggestionGenerator produces candidate project drafts from a learning
// profile. Its output is untrusted and is validated like any other project.
type SuggestionGenerator interface {
	Generate(ctx context.Context, profile LearningProfile, count int) ([]domain.Project, error)
}
