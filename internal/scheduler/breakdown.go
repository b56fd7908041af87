package scheduler

import (
	"fmt"
	"math"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// minTaskHours is the smallest task a breakdown emits, one rounding step.
const minTaskHours = 0.1

type PhaseTemplate struct {
	Name   string
	Phases []string
}

var (
	softwareTemplate = PhaseTemplate{
		Name:   "software",
		Phases: []string{"Setup & Planning", "Core Implementation", "Testing & Refinement", "Documentation & Deploy"},
	}
	researchTemplate = PhaseTemplate{
		Name:   "research",
		Phases: []string{"Research & Exploration", "Analysis", "Documentation"},
	}
	genericTemplate = PhaseTemplate{
		Name:   "generic",
		Phases: []string{"Phase 1", "Phase 2", "Phase 3"},
	}
)

// SelectTemplate picks the phase template for a tag set. Software tags win
// over research tags.
func SelectTemplate(p *domain.Project) PhaseTemplate {
	switch {
	case p.HasTag("coding", "development", "programming"):
		return softwareTemplate
	case p.HasTag("research", "analysis", "study"):
		return researchTemplate
	default:
		return genericTemplate
	}
}

// phase repeats the last entry once weeks outnumber phases.
func (t PhaseTemplate) phase(week int) string {
	return t.Phases[min(week, len(t.Phases)-1)]
}

type BreakdownPlan struct {
	Template       string
	WeeksAvailable int
	HoursPerWeek   float64
	Tasks          []domain.SprintTask
	// UnplannedHours is what could not be placed without exceeding the
	// per-project weekly cap before the due date.
	UnplannedHours float64
}

type SprintBreakdownPlanner struct {
	cfg CapacityConfig
}

func NewSprintBreakdownPlanner(cfg CapacityConfig) *SprintBreakdownPlanner {
	return &SprintBreakdownPlanner{cfg: cfg}
}

// Plan spreads totalHours across the weeks before the due date, one task per
// week starting at startDate. The final week absorbs the remainder up to the
// per-project cap.
func (s *SprintBreakdownPlanner) Plan(p *domain.Project, totalHours float64, daysUntilDue int, startDate time.Time) BreakdownPlan {
	tmpl := SelectTemplate(p)
	weeks := max(1, WeeksUntilDue(daysUntilDue))
	hoursPerWeek := math.Min(totalHours/float64(weeks), s.cfg.MaxProjectHoursPerWeek)

	plan := BreakdownPlan{
		Template:       tmpl.Name,
		WeeksAvailable: weeks,
		HoursPerWeek:   roundHours(hoursPerWeek),
	}

	// Work smaller than the rounding step still gets one task this week.
	if totalHours > 0 && roundHours(totalHours) <= 0 {
		plan.Tasks = append(plan.Tasks, weekTask(p, tmpl, 0, weeks, minTaskHours, startDate, 1))
		return plan
	}

	var placed float64
	for week := 0; week < weeks; week++ {
		// Targets are cumulative so per-week rounding never drifts.
		target := math.Min(totalHours, hoursPerWeek*float64(week+1))
		if week == weeks-1 {
			target = math.Min(totalHours, placed+s.cfg.MaxProjectHoursPerWeek)
		}
		hours := roundHours(target - placed)
		if hours <= 0 {
			continue
		}

		plan.Tasks = append(plan.Tasks, weekTask(p, tmpl, week, weeks, hours, startDate, len(plan.Tasks)+1))
		placed += hours
	}

	plan.UnplannedHours = roundHours(math.Max(0, totalHours-placed))
	return plan
}

func weekTask(p *domain.Project, tmpl PhaseTemplate, week, weeks int, hours float64, startDate time.Time, order int) domain.SprintTask {
	weekStart := startDate.AddDate(0, 0, 7*week)
	sprintWeek, sprintYear := domain.ISOBucket(weekStart)
	phase := tmpl.phase(week)

	priority := domain.PriorityMedium
	if week == 0 {
		priority = domain.PriorityHigh
	}

	due := weekStart.AddDate(0, 0, 6)
	if p.DueDate.After(weekStart) && p.DueDate.Before(due) {
		due = p.DueDate
	}

	return domain.SprintTask{
		ProjectID:      p.ID,
		Title:          fmt.Sprintf("%s: %s (Week %d)", p.Title, phase, week+1),
		Description:    fmt.Sprintf("%s phase of %s, week %d of %d", phase, p.Title, week+1, weeks),
		Priority:       priority,
		EstimatedHours: hours,
		DueDate:        due,
		SprintWeek:     sprintWeek,
		SprintYear:     sprintYear,
		Status:         domain.TaskTodo,
		OrderInSprint:  order,
	}
}
