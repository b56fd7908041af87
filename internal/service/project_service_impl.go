package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type projectService struct {
	projects repository.ProjectRepo
}

func NewProjectService(projects repository.ProjectRepo) ProjectService {
	return &projectService{projects: projects}
}

func (s *projectService) Create(ctx context.Context, p *domain.Project) error {
	if p.ID == "" {
		p.ID = uuid.New().String()
	}
	if p.Complexity == "" {
		p.Complexity = domain.ComplexityMedium
	}
	if p.Status == "" {
		p.Status = domain.ProjectProposed
	}
	if err := p.Validate(); err != nil {
		return invalidInput(app.StageValidate, p.Title, "project rejected", err)
	}
	now := time.Now().UTC()
	p.CreatedAt = now
	p.UpdatedAt = now
	return s.projects.Create(ctx, p)
}

func (s *projectService) GetByID(ctx context.Context, id string) (*domain.Project, error) {
	return s.projects.GetByID(ctx, id)
}

func (s *projectService) List(ctx context.Context, userID string, statuses ...domain.ProjectStatus) ([]*domain.Project, error) {
	return s.projects.List(ctx, userID, statuses...)
}

func (s *projectService) Update(ctx context.Context, p *domain.Project) error {
	if err := p.Validate(); err != nil {
		return invalidInput(app.StageValidate, p.Title, "project rejected", err)
	}
	p.UpdatedAt = time.Now().UTC()
	return s.projects.Update(ctx, p)
}

// Defer is the only path into the deferred status. Scoring never defers a
// stored project on its own.
func (s *projectService) Defer(ctx context.Context, id string) error {
	return s.projects.UpdateStatus(ctx, id, domain.ProjectDeferred)
}

func (s *projectService) Delete(ctx context.Context, id string) error {
	return s.projects.Delete(ctx, id)
}
