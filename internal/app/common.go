package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type ScoreReasonCode string

const (
	ReasonInterest         ScoreReasonCode = "INTEREST"
	ReasonDifficulty       ScoreReasonCode = "DIFFICULTY"
	ReasonUrgency          ScoreReasonCode = "URGENCY"
	ReasonContextRelevance ScoreReasonCode = "CONTEXT_RELEVANCE"
	ReasonOverdueFloor     ScoreReasonCode = "OVERDUE_FLOOR"
)

type ScoreReason struct {
	Code        ScoreReasonCode
	Message     string
	WeightDelta *float64
}

// ScoreBreakdown always carries all four sub-scores next to the composite so
// a ranking can be explained.
type ScoreBreakdown struct {
	Interest         int
	Difficulty       int
	Urgency          int
	ContextRelevance int
	Composite        int
	Reasons          []ScoreReason
}

// Feasibility is the capacity snapshot the decision was made against.
type Feasibility struct {
	SprintWeek        int
	SprintYear        int
	WeeklyCapacity    float64
	MaxProjectHours   float64
	AllocatedHours    float64
	TimeAvailable     float64
	EstimatedHours    float64
	DaysUntilDue      int
	WeeksUntilDue     int
	FitsThisWeek      bool
	ExceedsProjectCap bool
}

type ContextInsights struct {
	RecentActivities   []string
	RelatedConcepts    []string
	StruggleIndicators []string
	UpcomingDeadlines  []domain.Deadline
}

// AnalysisResult is produced fresh on every analysis and never mutated.
type AnalysisResult struct {
	ProjectID      string
	ProjectTitle   string
	Concepts       []string
	Decision       domain.Decision
	PriorityScore  int
	Scores         ScoreBreakdown
	Feasibility    Feasibility
	Insights       ContextInsights
	Tasks          []domain.SprintTask
	UnplannedHours float64
	Template       string
	Rationale      string
	Recommendation string
	LowConfidence  bool
	Degraded       bool
	Warnings       []string
	AnalyzedAt     time.Time
}

type RankedProject struct {
	Rank      int
	Project   domain.Project
	Analysis  AnalysisResult
	Suggested bool
}
