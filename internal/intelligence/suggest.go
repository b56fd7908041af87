package intelligence

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/alexanderramin/cadence/internal/llm"
)

// ErrGeneration is returned by suggestion generators when no drafts could
// be produced. The underlying llm error is wrapped alongside it.
var ErrGeneration = errors.New("suggestion generation failed")

const maxSuggestions = 10

type suggestionPayload struct {
	Projects []suggestionDraft `json:"projects"`
}

type suggestionDraft struct {
	Title       string   `json:"title"`
	Description string   `json:"description"`
	DueInDays   int      `json:"due_in_days"`
	Complexity  string   `json:"complexity"`
	Tags        []string `json:"tags"`
}

func validateSuggestionPayload(p suggestionPayload) error {
	if len(p.Projects) == 0 {
		return errors.New("projects must not be empty")
	}
	return nil
}

// LLMSuggestionGenerator asks a language model for project drafts.
type LLMSuggestionGenerator struct {
	client llm.LLMClient
	now    func() time.Time
}

func NewLLMSuggestionGenerator(client llm.LLMClient) *LLMSuggestionGenerator {
	return &LLMSuggestionGenerator{client: client, now: time.Now}
}

func (g *LLMSuggestionGenerator) Generate(ctx context.Context, profile app.LearningProfile, count int) ([]domain.Project, error) {
	if count <= 0 {
		return nil, nil
	}
	count = min(count, maxSuggestions)

	resp, err := g.client.Generate(ctx, llm.GenerateRequest{
		Task:         llm.TaskSuggest,
		SystemPrompt: suggestSystemPrompt,
		UserPrompt:   buildSuggestPrompt(profile, count, g.now()),
		JSON:         true,
	})
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	payload, err := llm.ExtractJSON[suggestionPayload](resp.Text, validateSuggestionPayload)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrGeneration, err)
	}

	drafts := payload.Projects
	if len(drafts) > count {
		drafts = drafts[:count]
	}
	now := g.now()
	out := make([]domain.Project, 0, len(drafts))
	for _, d := range drafts {
		out = append(out, d.toProject(profile.UserID, now))
	}
	return out, nil
}

// toProject maps a draft onto a proposed project. Validation is left to the
// caller so bad drafts can be reported individually.
func (d suggestionDraft) toProject(userID string, now time.Time) domain.Project {
	days := d.DueInDays
	if days <= 0 {
		days = 7
	}
	p := domain.Project{
		UserID:      userID,
		Title:       strings.TrimSpace(d.Title),
		Description: strings.TrimSpace(d.Description),
		DueDate:     now.AddDate(0, 0, days).UTC(),
		Complexity:  domain.Complexity(strings.ToLower(strings.TrimSpace(d.Complexity))),
		Status:      domain.ProjectProposed,
	}
	for _, t := range d.Tags {
		if t = strings.TrimSpace(t); t != "" {
			p.Tags = append(p.Tags, t)
		}
	}
	return p
}

func buildSuggestPrompt(profile app.LearningProfile, count int, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "Today is %s. Propose %d project(s).\n", now.Format("2006-01-02 (Monday)"), count)

	writeList(&b, "Recent concepts", profile.RecentConcepts)
	writeList(&b, "Struggle indicators", profile.StruggleIndicators)

	if len(profile.UpcomingDeadlines) > 0 {
		b.WriteString("\nUpcoming deadlines:\n")
		for _, d := range profile.UpcomingDeadlines {
			fmt.Fprintf(&b, "- %s (%s)\n", d.Label, d.DueDate.Format("2006-01-02"))
		}
	}

	writeList(&b, "Existing projects (do not repeat)", profile.ExistingProjects)
	return b.String()
}

func writeList(b *strings.Builder, heading string, items []string) {
	if len(items) == 0 {
		return
	}
	fmt.Fprintf(b, "\n%s:\n", heading)
	for _, it := range items {
		b.WriteString("- ")
		b.WriteString(it)
		b.WriteByte('\n')
	}
}
