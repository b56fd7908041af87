package domain

// UserProfile carries per-user capacity overrides. Zero values fall back to
// the configured defaults.
type UserProfile struct {
	ID                     string
	WeeklyHoursAvailable   float64
	MaxProjectHoursPerWeek float64
}
