package intelligence

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

// StaticSuggestionGenerator returns a single fixed proposal built from the
// profile's recent concepts. It is used when no model is configured.
type StaticSuggestionGenerator struct {
	now func() time.Time
}

func NewStaticSuggestionGenerator() *StaticSuggestionGenerator {
	return &StaticSuggestionGenerator{now: time.Now}
}

func (g *StaticSuggestionGenerator) Generate(_ context.Context, profile app.LearningProfile, count int) ([]domain.Project, error) {
	if count <= 0 {
		return nil, nil
	}

	concepts := profile.RecentConcepts
	if len(concepts) > 3 {
		concepts = concepts[:3]
	}
	desc := "Review the most recent material and combine it into one small build."
	if len(concepts) > 0 {
		desc = fmt.Sprintf("Combine %s into one small build, starting with a manual review of each.",
			strings.Join(concepts, ", "))
	}

	return []domain.Project{{
		UserID:      profile.UserID,
		Title:       "Fallback Project: Interdisciplinary Exploration",
		Description: desc,
		DueDate:     g.now().AddDate(0, 0, 7).UTC(),
		Complexity:  domain.ComplexityMedium,
		Status:      domain.ProjectProposed,
		Tags:        slices.Clone(concepts),
	}}, nil
}
