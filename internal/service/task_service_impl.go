package service

import (
	"context"
	"fmt"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

type taskService struct {
	tasks  repository.SprintTaskRepo
	loader *SnapshotLoader
}

func NewTaskService(tasks repository.SprintTaskRepo, loader *SnapshotLoader) TaskService {
	return &taskService{tasks: tasks, loader: loader}
}

// Capacity reports the ceiling, allocation and headroom of one ISO week.
func (s *taskService) Capacity(ctx context.Context, req app.CapacityRequest) (*app.CapacityResponse, error) {
	week, year := req.Week, req.Year
	switch {
	case week == 0 && year == 0:
		week, year = domain.ISOBucket(resolveNow(req.Now))
	case week == 0 || year == 0:
		return nil, invalidInput(app.StageValidate, "", "week and year must be given together",
			fmt.Errorf("got week=%d year=%d", week, year))
	case week < 1 || week > 53:
		return nil, invalidInput(app.StageValidate, "", "week out of range",
			fmt.Errorf("ISO week must be 1-53, got %d", week))
	}

	cfg, err := s.loader.CapacityFor(ctx, req.UserID)
	if err != nil {
		return nil, upstreamError("user_profile", err)
	}
	tasks, err := s.tasks.FetchActiveTasks(ctx, req.UserID, &repository.WeekFilter{Week: week, Year: year})
	if err != nil {
		return nil, upstreamError("task store", err)
	}

	planner := scheduler.NewCapacityPlanner(cfg)
	allocated := planner.AllocatedHours(tasks, week, year)
	return &app.CapacityResponse{
		SprintWeek:     week,
		SprintYear:     year,
		WeeklyCapacity: cfg.WeeklyHoursAvailable,
		AllocatedHours: allocated,
		TimeAvailable:  cfg.WeeklyHoursAvailable - allocated,
		Tasks:          tasks,
	}, nil
}

func (s *taskService) ListByProject(ctx context.Context, projectID string) ([]*domain.SprintTask, error) {
	return s.tasks.ListByProject(ctx, projectID)
}

func (s *taskService) ListWeek(ctx context.Context, userID string, week, year int) ([]domain.SprintTask, error) {
	return s.tasks.FetchActiveTasks(ctx, userID, &repository.WeekFilter{Week: week, Year: year})
}

// ListActive returns every open task of userID across all weeks.
func (s *taskService) ListActive(ctx context.Context, userID string) ([]domain.SprintTask, error) {
	return s.tasks.FetchActiveTasks(ctx, userID, nil)
}

func (s *taskService) SetStatus(ctx context.Context, id string, status domain.TaskStatus) error {
	if !domain.ValidTaskStatuses[string(status)] {
		return fmt.Errorf("invalid task status %q", status)
	}
	return s.tasks.UpdateStatus(ctx, id, status)
}
