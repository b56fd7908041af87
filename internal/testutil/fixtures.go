package testutil

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/google/uuid"
)

// TestUserID owns every fixture unless overridden.
const TestUserID = "test-user"

// Project options
type ProjectOption func(*domain.Project)

func WithDueDate(d time.Time) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = d
	}
}

func WithDueInDays(days int) ProjectOption {
	return func(p *domain.Project) {
		p.DueDate = time.Now().UTC().AddDate(0, 0, days)
	}
}

func WithComplexity(c domain.Complexity) ProjectOption {
	return func(p *domain.Project) {
		p.Complexity = c
	}
}

func WithEstimatedHours(h float64) ProjectOption {
	return func(p *domain.Project) {
		p.EstimatedHours = &h
	}
}

func WithProjectStatus(s domain.ProjectStatus) ProjectOption {
	return func(p *domain.Project) {
		p.Status = s
	}
}

func WithTags(tags ...string) ProjectOption {
	return func(p *domain.Project) {
		p.Tags = tags
	}
}

func WithDescription(d string) ProjectOption {
	return func(p *domain.Project) {
		p.Description = d
	}
}

func WithProjectUser(userID string) ProjectOption {
	return func(p *domain.Project) {
		p.UserID = userID
	}
}

func NewTestProject(title string, opts ...ProjectOption) *domain.Project {
	now := time.Now().UTC().Truncate(time.Millisecond)
	p := &domain.Project{
		ID:          uuid.New().String(),
		UserID:      TestUserID,
		Title:       title,
		Description: title + " project",
		DueDate:     now.AddDate(0, 0, 14),
		Complexity:  domain.ComplexityMedium,
		Status:      domain.ProjectProposed,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Signal options
type SignalOption func(*domain.ActivitySignal)

func WithKind(k domain.ActivityKind) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.Kind = k
	}
}

func WithSignalTitle(title string) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.Title = title
	}
}

func WithConcepts(concepts ...string) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.Concepts = concepts
	}
}

func WithObservedAt(t time.Time) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.ObservedAt = t
	}
}

func WithDurationSec(sec int) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.DurationSec = &sec
	}
}

func WithDetectedDueDate(d time.Time) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.DetectedDueDate = &d
	}
}

func WithSignalUser(userID string) SignalOption {
	return func(s *domain.ActivitySignal) {
		s.UserID = userID
	}
}

func NewTestSignal(rawText string, opts ...SignalOption) *domain.ActivitySignal {
	s := &domain.ActivitySignal{
		ID:         uuid.New().String(),
		UserID:     TestUserID,
		Kind:       domain.ActivityBrowserTab,
		RawText:    rawText,
		ObservedAt: time.Now().UTC().Truncate(time.Millisecond),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SprintTask options
type TaskOption func(*domain.SprintTask)

func WithTaskHours(h float64) TaskOption {
	return func(t *domain.SprintTask) {
		t.EstimatedHours = h
	}
}

func WithTaskStatus(s domain.TaskStatus) TaskOption {
	return func(t *domain.SprintTask) {
		t.Status = s
	}
}

func WithSprintBucket(week, year int) TaskOption {
	return func(t *domain.SprintTask) {
		t.SprintWeek = week
		t.SprintYear = year
	}
}

func WithOrder(n int) TaskOption {
	return func(t *domain.SprintTask) {
		t.OrderInSprint = n
	}
}

// NewTestTask creates a todo task charged to the current ISO week.
func NewTestTask(projectID, title string, opts ...TaskOption) *domain.SprintTask {
	now := time.Now().UTC().Truncate(time.Millisecond)
	week, year := domain.ISOBucket(now)
	t := &domain.SprintTask{
		ID:             uuid.New().String(),
		ProjectID:      projectID,
		Title:          title,
		Priority:       domain.PriorityMedium,
		EstimatedHours: 2,
		DueDate:        now.AddDate(0, 0, 7),
		SprintWeek:     week,
		SprintYear:     year,
		Status:         domain.TaskTodo,
		OrderInSprint:  1,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	for _, opt := range opts {
		opt(t)
	}
	return t
}
