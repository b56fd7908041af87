// Package jobs runs scheduled background work.
package jobs

import (
	"context"
	"log/slog"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/service"
)

// WeeklyRanking re-ranks a user's open projects and logs the top entries.
type WeeklyRanking struct {
	Rank               service.RankService
	UserID             string
	TopK               int
	IncludeSuggestions bool
	Logger             *slog.Logger
	Now                func() time.Time
}

func (j *WeeklyRanking) Run(ctx context.Context) (*app.RankResponse, error) {
	logger := j.Logger
	if logger == nil {
		logger = slog.Default()
	}
	now := time.Now().UTC()
	if j.Now != nil {
		now = j.Now()
	}

	req := app.NewRankRequest(j.UserID)
	req.Now = &now
	if j.TopK > 0 {
		req.TopK = j.TopK
	}
	req.IncludeSuggestions = j.IncludeSuggestions
	req.AllowDegraded = true

	res, err := j.Rank.Rank(ctx, req)
	if err != nil {
		logger.Error("weekly_ranking_failed", "user", j.UserID, "error", err)
		return nil, err
	}

	logger.Info("weekly_ranking",
		"user", j.UserID,
		"ranked", len(res.Ranked),
		"degraded", res.Degraded,
		"summary", res.Synthesis,
	)
	for _, r := range res.Top {
		logger.Info("weekly_ranking_top",
			"rank", r.Rank,
			"project", r.Project.Title,
			"priority", r.Analysis.PriorityScore,
			"decision", string(r.Analysis.Decision),
			"suggested", r.Suggested,
		)
	}
	for _, w := range res.Warnings {
		logger.Warn("weekly_ranking_warning", "warning", w)
	}
	return res, nil
}
