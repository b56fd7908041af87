package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/testutil"
)

func TestNewServices_EndToEnd(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)
	svc := NewServices(SQLiteStores(testutil.NewTestDB(t)), DefaultAnalysisSettings(), Options{
		Generator: &fakeGenerator{},
	})

	p := testutil.NewTestProject("Ray tracer",
		testutil.WithProjectUser("u1"),
		testutil.WithDueDate(now.AddDate(0, 0, 28)),
		testutil.WithEstimatedHours(40),
	)
	require.NoError(t, svc.Projects.Create(ctx, p))

	req := app.NewAnalyzeRequest("u1")
	req.ProjectID = p.ID
	req.Now = &now
	res, err := svc.Analysis.Analyze(ctx, req)
	require.NoError(t, err)
	assert.Equal(t, domain.DecisionBreakDown, res.Decision)

	tasks, err := svc.Plan.Commit(ctx, p.ID, res)
	require.NoError(t, err)
	assert.Len(t, tasks, len(res.Tasks))

	stored, err := svc.Projects.GetByID(ctx, p.ID)
	require.NoError(t, err)
	assert.Equal(t, domain.ProjectPlanning, stored.Status)

	rankReq := app.NewRankRequest("u1")
	rankReq.Now = &now
	ranked, err := svc.Rank.Rank(ctx, rankReq)
	require.NoError(t, err)
	require.NotEmpty(t, ranked.Ranked)
	assert.Equal(t, p.ID, ranked.Ranked[0].Project.ID)
}
