package domain

import "time"

type SprintTask struct {
	ID             string
	ProjectID      string
	Title          string
	Description    string
	Priority       TaskPriority
	EstimatedHours float64
	DueDate        time.Time
	SprintWeek     int
	SprintYear     int
	Status         TaskStatus
	OrderInSprint  int
	CreatedAt      time.Time
	UpdatedAt      time.Time
}

// InBucket reports whether the task is charged against the given ISO week.
func (t *SprintTask) InBucket(week, year int) bool {
	return t.SprintWeek == week && t.SprintYear == year
}

// ISOBucket returns the ISO (week, year) pair for t.
func ISOBucket(t time.Time) (week, year int) {
	year, week = t.ISOWeek()
	return week, year
}
