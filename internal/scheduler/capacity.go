package scheduler

import (
	"math"
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

// CapacityConfig holds the weekly hour budget. MaxProjectHoursPerWeek only
// triggers breakdowns, it never blocks execution.
type CapacityConfig struct {
	WeeklyHoursAvailable   float64
	MaxProjectHoursPerWeek float64
}

func DefaultCapacityConfig() CapacityConfig {
	return CapacityConfig{
		WeeklyHoursAvailable:   20,
		MaxProjectHoursPerWeek: 15,
	}
}

// WithProfile applies non-zero per-user overrides.
func (c CapacityConfig) WithProfile(p *domain.UserProfile) CapacityConfig {
	if p == nil {
		return c
	}
	return CapacityConfig{
		WeeklyHoursAvailable:   domain.Float64OrDefault(p.WeeklyHoursAvailable, c.WeeklyHoursAvailable),
		MaxProjectHoursPerWeek: domain.Float64OrDefault(p.MaxProjectHoursPerWeek, c.MaxProjectHoursPerWeek),
	}
}

type CapacityPlanner struct {
	cfg CapacityConfig
}

func NewCapacityPlanner(cfg CapacityConfig) *CapacityPlanner {
	return &CapacityPlanner{cfg: cfg}
}

func (p *CapacityPlanner) Config() CapacityConfig { return p.cfg }

// AllocatedHours sums the estimates of tasks charged to the ISO week that are
// not completed.
func (p *CapacityPlanner) AllocatedHours(tasks []domain.SprintTask, week, year int) float64 {
	var total float64
	for i := range tasks {
		t := &tasks[i]
		if t.Status == domain.TaskCompleted || !t.InBucket(week, year) {
			continue
		}
		total += t.EstimatedHours
	}
	return total
}

// TimeAvailable is the remaining headroom for the week. It goes negative when
// the week is over-committed.
func (p *CapacityPlanner) TimeAvailable(tasks []domain.SprintTask, week, year int) float64 {
	return p.cfg.WeeklyHoursAvailable - p.AllocatedHours(tasks, week, year)
}

// DaysUntil counts calendar days from now to due in now's location. A
// deadline tomorrow is 1, one ten days ago is -10.
func DaysUntil(now, due time.Time) int {
	loc := now.Location()
	from := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, loc)
	d := due.In(loc)
	to := time.Date(d.Year(), d.Month(), d.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(to.Sub(from).Hours() / 24))
}

// WeeksUntilDue is ceil(days/7).
func WeeksUntilDue(daysUntilDue int) int {
	return int(math.Ceil(float64(daysUntilDue) / 7))
}

func roundHours(h float64) float64 {
	return math.Round(h*10) / 10
}
