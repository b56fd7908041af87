package intelligence

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/llm"
)

var fixedNow = time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

type fakeClient struct {
	text string
	err  error
	last llm.GenerateRequest
}

func (f *fakeClient) Generate(_ context.Context, req llm.GenerateRequest) (*llm.GenerateResponse, error) {
	f.last = req
	if f.err != nil {
		return nil, f.err
	}
	return &llm.GenerateResponse{Text: f.text, Model: "test"}, nil
}

func (f *fakeClient) Available(context.Context) bool { return f.err == nil }

func newGenerator(client llm.LLMClient) *LLMSuggestionGenerator {
	g := NewLLMSuggestionGenerator(client)
	g.now = func() time.Time { return fixedNow }
	return g
}

func testProfile() app.LearningProfile {
	return app.LearningProfile{
		UserID:             "u1",
		RecentConcepts:     []string{"graphs", "dynamic programming"},
		StruggleIndicators: []string{"recursion quiz: confused"},
		UpcomingDeadlines: []domain.Deadline{
			{Label: "Algorithms midterm", DueDate: fixedNow.AddDate(0, 0, 9)},
		},
		ExistingProjects: []string{"Build a tokenizer"},
	}
}

func TestLLMSuggestionGenerator_Generate(t *testing.T) {
	client := &fakeClient{text: "```json\n" + `{
  "projects": [
    {"title": " Shortest paths visualizer ", "description": "Animate Dijkstra.", "due_in_days": 14, "complexity": "High", "tags": ["graphs", " "]},
    {"title": "Memo table drills", "description": "Practice DP tables.", "due_in_days": 0, "complexity": "low"}
  ]
}` + "\n```"}

	got, err := newGenerator(client).Generate(context.Background(), testProfile(), 3)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Shortest paths visualizer", got[0].Title)
	assert.Equal(t, "u1", got[0].UserID)
	assert.Equal(t, domain.ComplexityHigh, got[0].Complexity)
	assert.Equal(t, domain.ProjectProposed, got[0].Status)
	assert.Equal(t, fixedNow.AddDate(0, 0, 14), got[0].DueDate)
	assert.Equal(t, []string{"graphs"}, got[0].Tags)
	require.NoError(t, got[0].Validate())

	assert.Equal(t, fixedNow.AddDate(0, 0, 7), got[1].DueDate, "non-positive due_in_days defaults to a week")

	assert.Equal(t, llm.TaskSuggest, client.last.Task)
	assert.True(t, client.last.JSON)
	assert.Contains(t, client.last.UserPrompt, "Propose 3 project(s)")
	assert.Contains(t, client.last.UserPrompt, "- dynamic programming")
	assert.Contains(t, client.last.UserPrompt, "- recursion quiz: confused")
	assert.Contains(t, client.last.UserPrompt, "- Algorithms midterm (2025-03-19)")
	assert.Contains(t, client.last.UserPrompt, "- Build a tokenizer")
}

func TestLLMSuggestionGenerator_TruncatesToCount(t *testing.T) {
	client := &fakeClient{text: `{"projects":[
		{"title":"a","description":"a","due_in_days":3},
		{"title":"b","description":"b","due_in_days":3},
		{"title":"c","description":"c","due_in_days":3}]}`}

	got, err := newGenerator(client).Generate(context.Background(), testProfile(), 2)
	require.NoError(t, err)
	assert.Len(t, got, 2)
}

func TestLLMSuggestionGenerator_ZeroCount(t *testing.T) {
	client := &fakeClient{}
	got, err := newGenerator(client).Generate(context.Background(), testProfile(), 0)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.Empty(t, client.last.UserPrompt, "model not called")
}

func TestLLMSuggestionGenerator_Errors(t *testing.T) {
	tests := []struct {
		name    string
		client  *fakeClient
		wantErr error
	}{
		{"client unavailable", &fakeClient{err: llm.ErrOllamaUnavailable}, llm.ErrOllamaUnavailable},
		{"unparseable output", &fakeClient{text: "I'd rather not."}, llm.ErrInvalidOutput},
		{"empty project list", &fakeClient{text: `{"projects":[]}`}, llm.ErrInvalidOutput},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := newGenerator(tt.client).Generate(context.Background(), testProfile(), 2)
			assert.ErrorIs(t, err, ErrGeneration)
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}

func TestLLMSuggestionGenerator_OverHTTP(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var body map[string]any
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "json", body["format"])

		_ = json.NewEncoder(w).Encode(map[string]string{
			"model":    "llama3.2",
			"response": `{"projects":[{"title":"Graph coloring","description":"Solve a scheduling puzzle.","due_in_days":10,"complexity":"medium"}]}`,
		})
	}))
	defer srv.Close()

	cfg := llm.DefaultConfig()
	cfg.Enabled = true
	cfg.Endpoint = srv.URL

	got, err := newGenerator(llm.NewOllamaClient(cfg, nil)).Generate(context.Background(), testProfile(), 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Graph coloring", got[0].Title)
	assert.Equal(t, domain.ComplexityMedium, got[0].Complexity)
}

func TestStaticSuggestionGenerator(t *testing.T) {
	g := NewStaticSuggestionGenerator()
	g.now = func() time.Time { return fixedNow }

	profile := testProfile()
	profile.RecentConcepts = []string{"graphs", "dp", "proofs", "sorting"}

	got, err := g.Generate(context.Background(), profile, 5)
	require.NoError(t, err)
	require.Len(t, got, 1)

	p := got[0]
	assert.Equal(t, "Fallback Project: Interdisciplinary Exploration", p.Title)
	assert.Contains(t, p.Description, "graphs, dp, proofs")
	assert.Equal(t, []string{"graphs", "dp", "proofs"}, p.Tags)
	assert.Equal(t, fixedNow.AddDate(0, 0, 7), p.DueDate)
	require.NoError(t, p.Validate())

	none, err := g.Generate(context.Background(), profile, 0)
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestStaticSuggestionGenerator_NoConcepts(t *testing.T) {
	got, err := NewStaticSuggestionGenerator().Generate(context.Background(), app.LearningProfile{UserID: "u1"}, 1)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Contains(t, got[0].Description, "most recent material")
	assert.Empty(t, got[0].Tags)
}
