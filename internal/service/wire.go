package service

import (
	"database/sql"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/db"
	"github.com/alexanderramin/cadence/internal/repository"
	"github.com/alexanderramin/cadence/internal/scheduler"
)

// Stores are the persistence dependencies of the service layer.
type Stores struct {
	Projects repository.ProjectRepo
	Tasks    repository.SprintTaskRepo
	Signals  repository.SignalRepo
	Profiles repository.UserProfileRepo
	UoW      db.UnitOfWork
}

// SQLiteStores backs every store with database.
func SQLiteStores(database *sql.DB) Stores {
	return Stores{
		Projects: repository.NewSQLiteProjectRepo(database),
		Tasks:    repository.NewSQLiteSprintTaskRepo(database),
		Signals:  repository.NewSQLiteSignalRepo(database),
		Profiles: repository.NewSQLiteUserProfileRepo(database),
		UoW:      db.NewSQLiteUnitOfWork(database),
	}
}

// Services is the full set of use cases, wired against one Stores.
type Services struct {
	Projects ProjectService
	Tasks    TaskService
	Profiles ProfileService
	Signals  SignalService
	Analysis AnalysisService
	Rank     RankService
	Plan     PlanService
}

// Options carry the optional collaborators. A nil Generator disables
// suggestions.
type Options struct {
	Generator app.SuggestionGenerator
	Stages    scheduler.StageObserver
	UseCases  UseCaseObserver
}

func NewServices(stores Stores, settings AnalysisSettings, opts Options) *Services {
	loader := NewSnapshotLoader(stores.Tasks, stores.Signals, stores.Profiles, settings)

	var suggest app.SuggestUseCase
	if opts.Generator != nil {
		suggest = NewSuggestService(opts.Generator, stores.Projects, loader, opts.UseCases)
	}

	return &Services{
		Projects: NewProjectService(stores.Projects),
		Tasks:    NewTaskService(stores.Tasks, loader),
		Profiles: NewProfileService(stores.Profiles, loader),
		Signals:  NewSignalService(stores.Signals, opts.UseCases),
		Analysis: NewAnalysisService(stores.Projects, loader, opts.Stages, opts.UseCases),
		Rank:     NewRankService(stores.Projects, loader, suggest, opts.Stages, opts.UseCases),
		Plan:     NewPlanService(stores.UoW, opts.UseCases),
	}
}
