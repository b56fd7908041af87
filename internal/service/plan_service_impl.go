package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/repository"
)

type planService struct {
	uow      db.UnitOfWork
	observer UseCaseObserver
}

func NewPlanService(uow db.UnitOfWork, observers ...UseCaseObserver) PlanService {
	return &planService{uow: uow, observer: useCaseObserverOrNoop(observers)}
}

// Commit persists the task drafts of an analysis and moves the project to
// planning. Open tasks from an earlier plan are replaced; completed ones are
// kept. Nothing is recomputed: the caller owns the staleness of result.
func (s *planService) Commit(ctx context.Context, projectID string, result *app.AnalysisResult) (tasks []domain.SprintTask, err error) {
	startedAt := time.Now().UTC()
	fields := map[string]any{"project_id": projectID}
	defer observe(ctx, s.observer, "commit-plan", startedAt, fields, &err)

	if result == nil || len(result.Tasks) == 0 {
		return nil, invalidInput(app.StageCommit, projectID, "analysis has no tasks to commit", nil)
	}
	if result.ProjectID != "" && result.ProjectID != projectID {
		return nil, invalidInput(app.StageCommit, projectID, "analysis belongs to project "+result.ProjectID, nil)
	}

	err = s.uow.WithinTx(ctx, func(ctx context.Context, tx db.DBTX) error {
		txProjects := repository.NewSQLiteProjectRepo(tx)
		txTasks := repository.NewSQLiteSprintTaskRepo(tx)

		p, err := txProjects.GetByID(ctx, projectID)
		if err != nil {
			if errors.Is(err, repository.ErrNotFound) {
				return &app.AnalysisError{
					Code:    app.ErrProjectNotFound,
					Stage:   app.StageCommit,
					Project: projectID,
					Message: "project not found",
					Err:     err,
				}
			}
			return err
		}

		removed, err := txTasks.DeleteOpenByProject(ctx, projectID)
		if err != nil {
			return err
		}
		fields["replaced"] = removed

		now := time.Now().UTC()
		tasks = make([]domain.SprintTask, 0, len(result.Tasks))
		for _, draft := range result.Tasks {
			t := draft
			t.ID = uuid.New().String()
			t.ProjectID = projectID
			t.CreatedAt = now
			t.UpdatedAt = now
			if t.Status == "" {
				t.Status = domain.TaskTodo
			}
			if err := txTasks.Create(ctx, &t); err != nil {
				return err
			}
			tasks = append(tasks, t)
		}

		if p.Status == domain.ProjectProposed || p.Status == domain.ProjectDeferred {
			return txProjects.UpdateStatus(ctx, projectID, domain.ProjectPlanning)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	fields["tasks"] = len(tasks)
	return tasks, nil
}
