package contract

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// ProjectInput is an inline project draft. DueDate accepts a date or an
// RFC 3339 timestamp.
type ProjectInput struct {
	ID             string   `json:"id,omitempty"`
	UserID         string   `json:"user_id,omitempty"`
	Title          string   `json:"title"`
	Description    string   `json:"description"`
	DueDate        string   `json:"due_date"`
	Complexity     string   `json:"complexity,omitempty"`
	EstimatedHours *float64 `json:"estimated_hours,omitempty"`
	Tags           []string `json:"tags,omitempty"`
}

// ToDomain converts the draft. Semantic validation is left to the
// service layer.
func (in ProjectInput) ToDomain(defaultUser string) (*domain.Project, error) {
	p := &domain.Project{
		ID:             in.ID,
		UserID:         in.UserID,
		Title:          in.Title,
		Description:    in.Description,
		Complexity:     domain.Complexity(in.Complexity),
		EstimatedHours: in.EstimatedHours,
		Tags:           in.Tags,
		Status:         domain.ProjectProposed,
	}
	if p.UserID == "" {
		p.UserID = defaultUser
	}
	if in.DueDate != "" {
		due, err := ParseTime(in.DueDate)
		if err != nil {
			return nil, err
		}
		p.DueDate = due
	}
	return p, nil
}

type Project struct {
	ID             string    `json:"id,omitempty"`
	UserID         string    `json:"user_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	DueDate        time.Time `json:"due_date"`
	Complexity     string    `json:"complexity"`
	EstimatedHours float64   `json:"estimated_hours"`
	Status         string    `json:"status"`
	Tags           []string  `json:"tags,omitempty"`
}

func FromProject(p *domain.Project) Project {
	return Project{
		ID:             p.ID,
		UserID:         p.UserID,
		Title:          p.Title,
		Description:    p.Description,
		DueDate:        p.DueDate,
		Complexity:     string(p.EffectiveComplexity()),
		EstimatedHours: p.EffectiveHours(),
		Status:         string(p.Status),
		Tags:           p.Tags,
	}
}

type SprintTask struct {
	ID             string    `json:"id,omitempty"`
	ProjectID      string    `json:"project_id"`
	Title          string    `json:"title"`
	Description    string    `json:"description"`
	Priority       string    `json:"priority"`
	EstimatedHours float64   `json:"estimated_hours"`
	DueDate        time.Time `json:"due_date"`
	SprintWeek     int       `json:"sprint_week"`
	SprintYear     int       `json:"sprint_year"`
	Status         string    `json:"status"`
	OrderInSprint  int       `json:"order_in_sprint"`
}

func FromTasks(tasks []domain.SprintTask) []SprintTask {
	out := make([]SprintTask, 0, len(tasks))
	for _, t := range tasks {
		out = append(out, SprintTask{
			ID:             t.ID,
			ProjectID:      t.ProjectID,
			Title:          t.Title,
			Description:    t.Description,
			Priority:       string(t.Priority),
			EstimatedHours: t.EstimatedHours,
			DueDate:        t.DueDate,
			SprintWeek:     t.SprintWeek,
			SprintYear:     t.SprintYear,
			Status:         string(t.Status),
			OrderInSprint:  t.OrderInSprint,
		})
	}
	return out
}

type Deadline struct {
	Label   string    `json:"label"`
	DueDate time.Time `json:"due_date"`
}

func fromDeadlines(ds []domain.Deadline) []Deadline {
	out := make([]Deadline, 0, len(ds))
	for _, d := range ds {
		out = append(out, Deadline{Label: d.Label, DueDate: d.DueDate})
	}
	return out
}
