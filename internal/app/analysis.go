package app

import (
	"time"

	"github.com/alexanderramin/cadence/internal/domain"
)

type AnalyzeRequest struct {
	UserID string
	// Exactly one of ProjectID or Project is set. Project allows scoring an
	// idea that has not been stored yet.
	ProjectID     string
	Project       *domain.Project
	Now           *time.Time
	AllowDegraded bool
}

func NewAnalyzeRequest(userID string) AnalyzeRequest {
	return AnalyzeRequest{UserID: userID}
}

type RankRequest struct {
	UserID             string
	ProjectIDs         []string
	Projects           []domain.Project
	Now                *time.Time
	TopK               int
	IncludeSuggestions bool
	SuggestionCount    int
	AllowDegraded      bool
}

func NewRankRequest(userID string) RankRequest {
	return RankRequest{
		UserID:          userID,
		TopK:            3,
		SuggestionCount: 3,
	}
}

type RankResponse struct {
	GeneratedAt time.Time
	Ranked      []RankedProject
	Top         []RankedProject
	Synthesis   string
	Degraded    bool
	Warnings    []string
}

type BreakdownRequest struct {
	ProjectID  string
	Project    *domain.Project
	TotalHours *float64
	Now        *time.Time
}

type BreakdownResponse struct {
	ProjectID      string
	ProjectTitle   string
	Template       string
	WeeksAvailable int
	HoursPerWeek   float64
	Tasks          []domain.SprintTask
	UnplannedHours float64
}

type CapacityRequest struct {
	UserID string
	Now    *time.Time
	// Week and Year select an explicit ISO bucket; zero means the current week.
	Week int
	Year int
}

type CapacityResponse struct {
	SprintWeek     int
	SprintYear     int
	WeeklyCapacity float64
	AllocatedHours float64
	TimeAvailable  float64
	Tasks          []domain.SprintTask
}

// LearningProfile summarizes recent engagement for suggestion generation.
type LearningProfile struct {
	UserID             string
	RecentConcepts     []string
	StruggleIndicators []string
	UpcomingDeadlines  []domain.Deadline
	ExistingProjects   []string
}
