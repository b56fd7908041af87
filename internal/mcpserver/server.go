// Package mcpserver exposes the planning use cases as MCP tools.
package mcpserver

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/service"
)

type Deps struct {
	Analysis service.AnalysisService
	Rank     service.RankService
	Tasks    service.TaskService
	Logger   *slog.Logger
	UserID   string
	TopK     int
	Version  string
}

// New returns a server with every tool registered.
func New(deps Deps) *mcp.Server {
	if deps.Logger == nil {
		deps.Logger = slog.Default()
	}
	if deps.Version == "" {
		deps.Version = "dev"
	}
	t := &tools{deps: deps}

	srv := mcp.NewServer(&mcp.Implementation{Name: "cadence", Version: deps.Version}, nil)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "analyze_project",
		Description: "Score one project (stored by project_id or inline) and decide whether to execute it now, break it into weekly sprint tasks, or defer it",
	}, t.analyze)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "rank_projects",
		Description: "Rank candidate projects by composite priority; defaults to the user's open projects and can include generated suggestions",
	}, t.rank)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "plan_breakdown",
		Description: "Split a project into weekly sprint tasks up to its due date without saving them",
	}, t.breakdown)

	mcp.AddTool(srv, &mcp.Tool{
		Name:        "capacity",
		Description: "Report the weekly hour ceiling, hours already allocated and hours still available for an ISO week",
	}, t.capacity)

	return srv
}

type tools struct {
	deps Deps
}

type CapacityInput struct {
	UserID string `json:"user_id,omitempty" jsonschema:"User to report on; defaults to the configured user"`
	Week   int    `json:"week,omitempty" jsonschema:"ISO week number; 0 means the current week"`
	Year   int    `json:"year,omitempty" jsonschema:"ISO year for week"`
	Now    string `json:"now,omitempty" jsonschema:"Reference time, RFC 3339 or YYYY-MM-DD"`
}

func (t *tools) analyze(ctx context.Context, _ *mcp.CallToolRequest, in contract.AnalyzeRequest) (*mcp.CallToolResult, any, error) {
	req, err := in.ToApp(t.deps.UserID)
	if err != nil {
		return toolFailure(contract.InvalidInput(err)), nil, nil
	}
	res, err := t.deps.Analysis.Analyze(ctx, req)
	if err != nil {
		return t.fail("analyze_project", err), nil, nil
	}
	return toolJSON(contract.FromAnalysis(res))
}

func (t *tools) rank(ctx context.Context, _ *mcp.CallToolRequest, in contract.RankRequest) (*mcp.CallToolResult, any, error) {
	req, err := in.ToApp(t.deps.UserID, t.deps.TopK)
	if err != nil {
		return toolFailure(contract.InvalidInput(err)), nil, nil
	}
	res, err := t.deps.Rank.Rank(ctx, req)
	if err != nil {
		return t.fail("rank_projects", err), nil, nil
	}
	return toolJSON(contract.FromRank(res))
}

func (t *tools) breakdown(ctx context.Context, _ *mcp.CallToolRequest, in contract.BreakdownRequest) (*mcp.CallToolResult, any, error) {
	req, err := in.ToApp(t.deps.UserID)
	if err != nil {
		return toolFailure(contract.InvalidInput(err)), nil, nil
	}
	res, err := t.deps.Analysis.PlanBreakdown(ctx, req)
	if err != nil {
		return t.fail("plan_breakdown", err), nil, nil
	}
	return toolJSON(contract.FromBreakdown(res))
}

func (t *tools) capacity(ctx context.Context, _ *mcp.CallToolRequest, in CapacityInput) (*mcp.CallToolResult, any, error) {
	req := app.CapacityRequest{UserID: in.UserID, Week: in.Week, Year: in.Year}
	if req.UserID == "" {
		req.UserID = t.deps.UserID
	}
	if in.Now != "" {
		now, err := contract.ParseTime(in.Now)
		if err != nil {
			return toolFailure(contract.InvalidInput(err)), nil, nil
		}
		req.Now = &now
	}
	res, err := t.deps.Tasks.Capacity(ctx, req)
	if err != nil {
		return t.fail("capacity", err), nil, nil
	}
	return toolJSON(contract.FromCapacity(res))
}

func (t *tools) fail(tool string, err error) *mcp.CallToolResult {
	body := contract.FromError(err)
	t.deps.Logger.Warn("mcp_tool_failed", "tool", tool, "code", body.Code, "error", err)
	return toolFailure(body)
}

func toolFailure(body contract.ErrorBody) *mcp.CallToolResult {
	data, err := json.Marshal(body)
	if err != nil {
		data = []byte(fmt.Sprintf(`{"code":%q,"message":%q}`, body.Code, body.Message))
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
		IsError: true,
	}
}

func toolJSON(v any) (*mcp.CallToolResult, any, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return toolFailure(contract.ErrorBody{Code: string(app.ErrInternal), Message: err.Error()}), nil, nil
	}
	return &mcp.CallToolResult{
		Content: []mcp.Content{&mcp.TextContent{Text: string(data)}},
	}, nil, nil
}
