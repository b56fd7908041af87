package contract

import (
	"errors"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
)

type AnalyzeRequest struct {
	UserID        string        `json:"user_id,omitempty"`
	ProjectID     string        `json:"project_id,omitempty"`
	Project       *ProjectInput `json:"project,omitempty"`
	Now           string        `json:"now,omitempty"`
	AllowDegraded bool          `json:"allow_degraded,omitempty"`
}

func (r AnalyzeRequest) ToApp(defaultUser string) (app.AnalyzeRequest, error) {
	req := app.NewAnalyzeRequest(defaultUser)
	if r.UserID != "" {
		req.UserID = r.UserID
	}
	req.ProjectID = r.ProjectID
	req.AllowDegraded = r.AllowDegraded
	if r.Project != nil {
		p, err := r.Project.ToDomain(req.UserID)
		if err != nil {
			return req, err
		}
		req.Project = p
	}
	if req.ProjectID == "" && req.Project == nil {
		return req, errors.New("either project_id or project is required")
	}
	now, err := parseOptionalTime(r.Now)
	if err != nil {
		return req, err
	}
	req.Now = now
	return req, nil
}

type ScoreReason struct {
	Code        string   `json:"code"`
	Message     string   `json:"message"`
	WeightDelta *float64 `json:"weight_delta,omitempty"`
}

type Scores struct {
	Interest         int           `json:"interest"`
	Difficulty       int           `json:"difficulty"`
	Urgency          int           `json:"urgency"`
	ContextRelevance int           `json:"context_relevance"`
	Composite        int           `json:"composite"`
	Reasons          []ScoreReason `json:"reasons,omitempty"`
}

type Feasibility struct {
	SprintWeek        int     `json:"sprint_week"`
	SprintYear        int     `json:"sprint_year"`
	WeeklyCapacity    float64 `json:"weekly_capacity"`
	MaxProjectHours   float64 `json:"max_project_hours"`
	AllocatedHours    float64 `json:"allocated_hours"`
	TimeAvailable     float64 `json:"time_available"`
	EstimatedHours    float64 `json:"estimated_hours"`
	DaysUntilDue      int     `json:"days_until_due"`
	WeeksUntilDue     int     `json:"weeks_until_due"`
	FitsThisWeek      bool    `json:"fits_this_week"`
	ExceedsProjectCap bool    `json:"exceeds_project_cap"`
}

type Insights struct {
	RecentActivities   []string   `json:"recent_activities"`
	RelatedConcepts    []string   `json:"related_concepts"`
	StruggleIndicators []string   `json:"struggle_indicators"`
	UpcomingDeadlines  []Deadline `json:"upcoming_deadlines"`
}

type AnalysisResult struct {
	ProjectID      string       `json:"project_id,omitempty"`
	ProjectTitle   string       `json:"project_title"`
	Concepts       []string     `json:"concepts"`
	Decision       string       `json:"decision"`
	PriorityScore  int          `json:"priority_score"`
	Scores         Scores       `json:"scores"`
	Feasibility    Feasibility  `json:"feasibility"`
	Insights       Insights     `json:"insights"`
	Tasks          []SprintTask `json:"tasks,omitempty"`
	UnplannedHours float64      `json:"unplanned_hours,omitempty"`
	Template       string       `json:"template,omitempty"`
	Rationale      string       `json:"rationale"`
	Recommendation string       `json:"recommendation"`
	LowConfidence  bool         `json:"low_confidence,omitempty"`
	Degraded       bool         `json:"degraded,omitempty"`
	Warnings       []string     `json:"warnings,omitempty"`
	AnalyzedAt     time.Time    `json:"analyzed_at"`
}

func FromAnalysis(r *app.AnalysisResult) AnalysisResult {
	reasons := make([]ScoreReason, 0, len(r.Scores.Reasons))
	for _, rs := range r.Scores.Reasons {
		reasons = append(reasons, ScoreReason{Code: string(rs.Code), Message: rs.Message, WeightDelta: rs.WeightDelta})
	}
	f := r.Feasibility
	return AnalysisResult{
		ProjectID:     r.ProjectID,
		ProjectTitle:  r.ProjectTitle,
		Concepts:      nonNil(r.Concepts),
		Decision:      string(r.Decision),
		PriorityScore: r.PriorityScore,
		Scores: Scores{
			Interest:         r.Scores.Interest,
			Difficulty:       r.Scores.Difficulty,
			Urgency:          r.Scores.Urgency,
			ContextRelevance: r.Scores.ContextRelevance,
			Composite:        r.Scores.Composite,
			Reasons:          reasons,
		},
		Feasibility: Feasibility{
			SprintWeek:        f.SprintWeek,
			SprintYear:        f.SprintYear,
			WeeklyCapacity:    f.WeeklyCapacity,
			MaxProjectHours:   f.MaxProjectHours,
			AllocatedHours:    f.AllocatedHours,
			TimeAvailable:     f.TimeAvailable,
			EstimatedHours:    f.EstimatedHours,
			DaysUntilDue:      f.DaysUntilDue,
			WeeksUntilDue:     f.WeeksUntilDue,
			FitsThisWeek:      f.FitsThisWeek,
			ExceedsProjectCap: f.ExceedsProjectCap,
		},
		Insights: Insights{
			RecentActivities:   nonNil(r.Insights.RecentActivities),
			RelatedConcepts:    nonNil(r.Insights.RelatedConcepts),
			StruggleIndicators: nonNil(r.Insights.StruggleIndicators),
			UpcomingDeadlines:  fromDeadlines(r.Insights.UpcomingDeadlines),
		},
		Tasks:          FromTasks(r.Tasks),
		UnplannedHours: r.UnplannedHours,
		Template:       r.Template,
		Rationale:      r.Rationale,
		Recommendation: r.Recommendation,
		LowConfidence:  r.LowConfidence,
		Degraded:       r.Degraded,
		Warnings:       r.Warnings,
		AnalyzedAt:     r.AnalyzedAt,
	}
}

type BreakdownRequest struct {
	ProjectID  string        `json:"project_id,omitempty"`
	Project    *ProjectInput `json:"project,omitempty"`
	TotalHours *float64      `json:"total_hours,omitempty"`
	Now        string        `json:"now,omitempty"`
}

func (r BreakdownRequest) ToApp(defaultUser string) (app.BreakdownRequest, error) {
	req := app.BreakdownRequest{ProjectID: r.ProjectID, TotalHours: r.TotalHours}
	if r.Project != nil {
		p, err := r.Project.ToDomain(defaultUser)
		if err != nil {
			return req, err
		}
		req.Project = p
	}
	if req.ProjectID == "" && req.Project == nil {
		return req, errors.New("either project_id or project is required")
	}
	now, err := parseOptionalTime(r.Now)
	if err != nil {
		return req, err
	}
	req.Now = now
	return req, nil
}

type BreakdownResponse struct {
	ProjectID      string       `json:"project_id,omitempty"`
	ProjectTitle   string       `json:"project_title"`
	Template       string       `json:"template"`
	WeeksAvailable int          `json:"weeks_available"`
	HoursPerWeek   float64      `json:"hours_per_week"`
	Tasks          []SprintTask `json:"tasks"`
	UnplannedHours float64      `json:"unplanned_hours"`
}

func FromBreakdown(r *app.BreakdownResponse) BreakdownResponse {
	return BreakdownResponse{
		ProjectID:      r.ProjectID,
		ProjectTitle:   r.ProjectTitle,
		Template:       r.Template,
		WeeksAvailable: r.WeeksAvailable,
		HoursPerWeek:   r.HoursPerWeek,
		Tasks:          FromTasks(r.Tasks),
		UnplannedHours: r.UnplannedHours,
	}
}

type CapacityResponse struct {
	SprintWeek     int          `json:"sprint_week"`
	SprintYear     int          `json:"sprint_year"`
	WeeklyCapacity float64      `json:"weekly_capacity"`
	AllocatedHours float64      `json:"allocated_hours"`
	TimeAvailable  float64      `json:"time_available"`
	Tasks          []SprintTask `json:"tasks"`
}

func FromCapacity(r *app.CapacityResponse) CapacityResponse {
	return CapacityResponse{
		SprintWeek:     r.SprintWeek,
		SprintYear:     r.SprintYear,
		WeeklyCapacity: r.WeeklyCapacity,
		AllocatedHours: r.AllocatedHours,
		TimeAvailable:  r.TimeAvailable,
		Tasks:          FromTasks(r.Tasks),
	}
}

func nonNil(s []string) []string {
	if s == nil {
		return []string{}
	}
	return s
}
