package service

import (
	"context"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type ProjectService interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, userID string, statuses ...domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	Defer(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type TaskService interface {
	app.CapacityUseCase
	ListByProject(ctx context.Context, projectID string) ([]*domain.SprintTask, error)
	ListWeek(ctx context.Context, userID string, week, year int) ([]domain.SprintTask, error)
	ListActive(ctx context.Context, userID string) ([]domain.SprintTask, error)
	SetStatus(ctx context.Context, id string, status domain.TaskStatus) error
}

type ProfileService interface {
	Effective(ctx context.Context, userID string) (scheduler.CapacityConfig, error)
	Set(ctx context.Context, p *domain.UserProfile) error
}

type SignalService interface {
	app.IngestSignalUseCase
}

// AnalysisService bundles the read-only planning use cases.
type AnalysisService interface {
	app.AnalyzeUseCase
	app.BreakdownUseCase
}

type RankService interface {
	app.RankUseCase
}

type PlanService interface {
	app.CommitPlanUseCase
}
