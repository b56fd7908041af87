package repository

import (
	"context"
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

var ErrNotFound = errors.New("not found")

type ProjectRepo interface {
	Create(ctx context.Context, p *domain.Project) error
	GetByID(ctx context.Context, id string) (*domain.Project, error)
	List(ctx context.Context, userID string, statuses ...domain.ProjectStatus) ([]*domain.Project, error)
	Update(ctx context.Context, p *domain.Project) error
	UpdateStatus(ctx context.Context, id string, status domain.ProjectStatus) error
	Delete(ctx context.Context, id string) error
}

// WeekFilter restricts task listings to one ISO week bucket.
type WeekFilter struct {
	Week int
	Year int
}

// TaskStore is the read contract the analysis pipeline needs from sprint
// task storage.
type TaskStore interface {
	FetchActiveTasks(ctx context.Context, userID string, week *WeekFilter) ([]domain.SprintTask, error)
}

type SprintTaskRepo interface {
	TaskStore
	Create(ctx context.Context, t *domain.SprintTask) error
	GetByID(ctx context.Context, id string) (*domain.SprintTask, error)
	ListByProject(ctx context.Context, projectID string) ([]*domain.SprintTask, error)
	UpdateStatus(ctx context.Context, id string, status domain.TaskStatus) error
	DeleteOpenByProject(ctx context.Context, projectID string) (int64, error)
}

// SignalStore is the read contract for activity signals.
type SignalStore interface {
	// FetchRecentSignals returns signals observed at or after since, newest
	// first.
	FetchRecentSignals(ctx context.Context, userID string, since time.Time, limit int) ([]domain.ActivitySignal, error)
	FetchUpcomingDeadlines(ctx context.Context, userID string, from, to time.Time) ([]domain.Deadline, error)
}

// SignalRepo adds the append-only write side.
type SignalRepo interface {
	SignalStore
	Append(ctx context.Context, s *domain.ActivitySignal) error
}

type UserProfileRepo interface {
	Get(ctx context.Context, id string) (*domain.UserProfile, error)
	Upsert(ctx context.Context, p *domain.UserProfile) error
}
