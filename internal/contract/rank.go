package contract

import (
	"time"

	"github.com/alexanderramin/cadence/internal/app"
)

type RankRequest struct {
	UserID             string         `json:"user_id,omitempty"`
	ProjectIDs         []string       `json:"project_ids,omitempty"`
	Projects           []ProjectInput `json:"projects,omitempty"`
	Now                string         `json:"now,omitempty"`
	TopK               int            `json:"top_k,omitempty"`
	IncludeSuggestions bool           `json:"include_suggestions,omitempty"`
	SuggestionCount    int            `json:"suggestion_count,omitempty"`
	AllowDegraded      bool           `json:"allow_degraded,omitempty"`
}

// ToApp fills unset counts from the request defaults; topK overrides the
// built-in default when positive.
func (r RankRequest) ToApp(defaultUser string, topK int) (app.RankRequest, error) {
	req := app.NewRankRequest(defaultUser)
	if r.UserID != "" {
		req.UserID = r.UserID
	}
	if topK > 0 {
		req.TopK = topK
	}
	if r.TopK > 0 {
		req.TopK = r.TopK
	}
	if r.SuggestionCount > 0 {
		req.SuggestionCount = r.SuggestionCount
	}
	req.ProjectIDs = r.ProjectIDs
	req.IncludeSuggestions = r.IncludeSuggestions
	req.AllowDegraded = r.AllowDegraded
	for _, in := range r.Projects {
		p, err := in.ToDomain(req.UserID)
		if err != nil {
			return req, err
		}
		req.Projects = append(req.Projects, *p)
	}
	now, err := parseOptionalTime(r.Now)
	if err != nil {
		return req, err
	}
	req.Now = now
	return req, nil
}

type RankedProject struct {
	Rank      int            `json:"rank"`
	Project   Project        `json:"project"`
	Analysis  AnalysisResult `json:"analysis"`
	Suggested bool           `json:"suggested,omitempty"`
}

type RankResponse struct {
	GeneratedAt time.Time       `json:"generated_at"`
	Ranked      []RankedProject `json:"ranked"`
	Top         []RankedProject `json:"top"`
	Synthesis   string          `json:"synthesis"`
	Degraded    bool            `json:"degraded,omitempty"`
	Warnings    []string        `json:"warnings,omitempty"`
}

func FromRank(r *app.RankResponse) RankResponse {
	return RankResponse{
		GeneratedAt: r.GeneratedAt,
		Ranked:      fromRanked(r.Ranked),
		Top:         fromRanked(r.Top),
		Synthesis:   r.Synthesis,
		Degraded:    r.Degraded,
		Warnings:    r.Warnings,
	}
}

func fromRanked(rs []app.RankedProject) []RankedProject {
	out := make([]RankedProject, 0, len(rs))
	for i := range rs {
		out = append(out, RankedProject{
			Rank:      rs[i].Rank,
			Project:   FromProject(&rs[i].Project),
			Analysis:  FromAnalysis(&rs[i].Analysis),
			Suggested: rs[i].Suggested,
		})
	}
	return out
}
