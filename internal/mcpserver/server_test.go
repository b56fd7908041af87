package mcpserver

import (
	"context"
	"encoding/json"
	"testing"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/service"
	"github.com/alexanderramin/cadence/internal/testutil"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

func connect(t *testing.T) (*mcp.ClientSession, *service.Services) {
	t.Helper()
	svc := service.NewServices(service.SQLiteStores(testutil.NewTestDB(t)), service.DefaultAnalysisSettings(), service.Options{})
	srv := New(Deps{Analysis: svc.Analysis, Rank: svc.Rank, Tasks: svc.Tasks, UserID: "u1", TopK: 3})

	ctx := context.Background()
	clientTransport, serverTransport := mcp.NewInMemoryTransports()
	_, err := srv.Connect(ctx, serverTransport, nil)
	require.NoError(t, err)

	client := mcp.NewClient(&mcp.Implementation{Name: "test-client"}, nil)
	session, err := client.Connect(ctx, clientTransport, nil)
	require.NoError(t, err)
	t.Cleanup(func() { session.Close() })
	return session, svc
}

func call(t *testing.T, session *mcp.ClientSession, name string, args map[string]any) (string, bool) {
	t.Helper()
	result, err := session.CallTool(context.Background(), &mcp.CallToolParams{Name: name, Arguments: args})
	require.NoError(t, err)
	require.NotEmpty(t, result.Content)
	tc, ok := result.Content[0].(*mcp.TextContent)
	require.True(t, ok, "expected TextContent, got %T", result.Content[0])
	return tc.Text, result.IsError
}

func TestListTools(t *testing.T) {
	session, _ := connect(t)
	result, err := session.ListTools(context.Background(), nil)
	require.NoError(t, err)

	var names []string
	for _, tool := range result.Tools {
		names = append(names, tool.Name)
	}
	assert.ElementsMatch(t, []string{"analyze_project", "rank_projects", "plan_breakdown", "capacity"}, names)
}

func TestAnalyzeProject(t *testing.T) {
	session, _ := connect(t)
	text, isErr := call(t, session, "analyze_project", map[string]any{
		"project": map[string]any{
			"title":       "Parser combinators",
			"description": "Write a small JSON parser",
			"due_date":    "2025-03-14",
			"complexity":  "low",
		},
		"now": "2025-03-10T09:00:00Z",
	})
	require.False(t, isErr, text)

	var res contract.AnalysisResult
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	assert.Equal(t, "Parser combinators", res.ProjectTitle)
	assert.Equal(t, "EXECUTE_NOW", res.Decision)
	assert.Equal(t, 4, res.Feasibility.DaysUntilDue)
}

func TestAnalyzeProject_Errors(t *testing.T) {
	session, _ := connect(t)

	text, isErr := call(t, session, "analyze_project", map[string]any{})
	assert.True(t, isErr)
	assert.Contains(t, text, "INVALID_INPUT")

	text, isErr = call(t, session, "analyze_project", map[string]any{"project_id": "nope"})
	assert.True(t, isErr)
	assert.Contains(t, text, "PROJECT_NOT_FOUND")
}

func TestRankProjects_StoredDefaults(t *testing.T) {
	session, svc := connect(t)
	for _, title := range []string{"Alpha", "Beta"} {
		p := testutil.NewTestProject(title, testutil.WithProjectUser("u1"), testutil.WithDueDate(fixedNow.AddDate(0, 0, 10)))
		require.NoError(t, svc.Projects.Create(context.Background(), p))
	}

	text, isErr := call(t, session, "rank_projects", map[string]any{"now": "2025-03-10"})
	require.False(t, isErr, text)

	var res contract.RankResponse
	require.NoError(t, json.Unmarshal([]byte(text), &res))
	require.Len(t, res.Ranked, 2)
	assert.Equal(t, "Alpha", res.Ranked[0].Project.Title, "equal scores and due dates fall back to title order")
}

func TestPlanBreakdownAndCapacity(t *testing.T) {
	session, _ := connect(t)

	text, isErr := call(t, session, "plan_breakdown", map[string]any{
		"project": map[string]any{
			"title":           "Capstone",
			"description":     "End to end system",
			"due_date":        "2025-04-07",
			"estimated_hours": 40,
		},
		"now": "2025-03-10",
	})
	require.False(t, isErr, text)
	var plan contract.BreakdownResponse
	require.NoError(t, json.Unmarshal([]byte(text), &plan))
	assert.Equal(t, 4, plan.WeeksAvailable)
	assert.Len(t, plan.Tasks, 4)

	text, isErr = call(t, session, "capacity", map[string]any{"now": "2025-03-10"})
	require.False(t, isErr, text)
	var capRes contract.CapacityResponse
	require.NoError(t, json.Unmarshal([]byte(text), &capRes))
	assert.Equal(t, 11, capRes.SprintWeek)
	assert.Equal(t, 2025, capRes.SprintYear)
}
