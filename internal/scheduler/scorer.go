package scheduler

import (
	"fmt"
	"math"
	"regexp"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

type ScoringWeights struct {
	Interest         float64
	Difficulty       float64
	Urgency          float64
	ContextRelevance float64
}

// DefaultWeights sum to exactly 1.0. Difficulty dominates so that struggle
// signals outrank plain interest.
func DefaultWeights() ScoringWeights {
	return ScoringWeights{
		Interest:         0.30,
		Difficulty:       0.35,
		Urgency:          0.20,
		ContextRelevance: 0.15,
	}
}

const (
	recencyWindowDays    = 7.0
	interestFullMinutes  = 10.0
	difficultyFullPoints = 7.0
	strugglePoints       = 3
	longSessionPoints    = 2
	longSessionSec       = 600
	relatedConceptPoints = 20
	recentActivityPoints = 15
)

var strugglePattern = regexp.MustCompile(`(?i)help|tutorial|how to|learn|guide|beginner|stuck|error`)

// IsStruggle reports whether text contains a help-seeking keyword.
func IsStruggle(text string) bool {
	return strugglePattern.MatchString(text)
}

type ScoringInput struct {
	ProjectConcepts  []string
	Signals          []domain.ActivitySignal
	DaysUntilDue     int
	RelatedConcepts  []string
	RecentActivities []string
	Now              time.Time
}

type ScoreEngine struct {
	matcher TextMatcher
	weights ScoringWeights
}

func NewScoreEngine(matcher TextMatcher) *ScoreEngine {
	if matcher == nil {
		matcher = SubstringMatcher{}
	}
	return &ScoreEngine{matcher: matcher, weights: DefaultWeights()}
}

// Score computes all four sub-scores and the weighted composite.
func (e *ScoreEngine) Score(input ScoringInput) app.ScoreBreakdown {
	b := app.ScoreBreakdown{
		Interest:         e.Interest(input.ProjectConcepts, input.Signals, input.Now),
		Difficulty:       e.Difficulty(input.ProjectConcepts, input.Signals),
		Urgency:          UrgencyScore(input.DaysUntilDue),
		ContextRelevance: e.ContextRelevance(input.ProjectConcepts, input.RelatedConcepts, input.RecentActivities),
	}
	b.Composite = e.Composite(b.Interest, b.Difficulty, b.Urgency, b.ContextRelevance)

	factors := []struct {
		code   app.ScoreReasonCode
		score  int
		weight float64
		msg    string
	}{
		{app.ReasonInterest, b.Interest, e.weights.Interest, "Recent engagement with related material"},
		{app.ReasonDifficulty, b.Difficulty, e.weights.Difficulty, "Struggle signals on related material"},
		{app.ReasonUrgency, b.Urgency, e.weights.Urgency, formatUrgencyMessage(input.DaysUntilDue)},
		{app.ReasonContextRelevance, b.ContextRelevance, e.weights.ContextRelevance, "Overlap with current study context"},
	}
	for _, f := range factors {
		if f.score == 0 {
			continue
		}
		delta := float64(f.score) * f.weight
		b.Reasons = append(b.Reasons, app.ScoreReason{
			Code:        f.code,
			Message:     fmt.Sprintf("%s (%d)", f.msg, f.score),
			WeightDelta: &delta,
		})
	}
	return b
}

// Interest sums engagement minutes of matching signals, decayed linearly to
// zero over seven days. Ten effective minutes map to 100.
func (e *ScoreEngine) Interest(concepts []string, signals []domain.ActivitySignal, now time.Time) int {
	var total float64
	for i := range signals {
		s := &signals[i]
		text := s.RawText + " " + strings.Join(s.Concepts, " ")
		if !e.matcher.Matches(text, concepts) {
			continue
		}
		minutes := float64(s.EffectiveDurationSec()) / 60
		total += minutes * recencyWeight(now, s.ObservedAt)
	}
	return clampScore(total / interestFullMinutes * 100)
}

// Difficulty awards points to matching signals that look like help-seeking
// or long sessions. Seven points map to 100.
func (e *ScoreEngine) Difficulty(concepts []string, signals []domain.ActivitySignal) int {
	var points int
	for i := range signals {
		s := &signals[i]
		text := s.RawText + " " + s.Title
		if !e.matcher.Matches(text, concepts) {
			continue
		}
		if IsStruggle(text) {
			points += strugglePoints
		}
		if s.DurationSec != nil && *s.DurationSec > longSessionSec {
			points += longSessionPoints
		}
	}
	return clampScore(float64(points) / difficultyFullPoints * 100)
}

// UrgencyScore is a step function of days until due. Bucket upper bounds are
// inclusive.
func UrgencyScore(daysUntilDue int) int {
	switch {
	case daysUntilDue < 0:
		return 100
	case daysUntilDue <= 3:
		return 90
	case daysUntilDue <= 7:
		return 70
	case daysUntilDue <= 14:
		return 50
	case daysUntilDue <= 30:
		return 30
	default:
		return 10
	}
}

// ContextRelevance adds 20 per concept found in a related concept and 15 per
// concept found in the recent activity text, capped at 100.
func (e *ScoreEngine) ContextRelevance(concepts, related, recentActivities []string) int {
	recentText := strings.Join(recentActivities, " ")
	var score int
	for _, c := range concepts {
		one := []string{c}
		for _, r := range related {
			if e.matcher.Matches(r, one) {
				score += relatedConceptPoints
				break
			}
		}
		if recentText != "" && e.matcher.Matches(recentText, one) {
			score += recentActivityPoints
		}
	}
	return clampScore(float64(score))
}

func (e *ScoreEngine) Composite(interest, difficulty, urgency, context int) int {
	return CompositeWith(e.weights, interest, difficulty, urgency, context)
}

// CompositeWith rounds the weighted sum of the four sub-scores half away from
// zero. Weights are taken to two decimals and summed in hundredths, so exact
// halves are never lost to float error.
func CompositeWith(w ScoringWeights, interest, difficulty, urgency, context int) int {
	hundredths := interest*percent(w.Interest) +
		difficulty*percent(w.Difficulty) +
		urgency*percent(w.Urgency) +
		context*percent(w.ContextRelevance)
	if hundredths <= 0 {
		return 0
	}
	return min(100, (hundredths+50)/100)
}

func percent(weight float64) int {
	return int(math.Round(weight * 100))
}

func recencyWeight(now, observedAt time.Time) float64 {
	days := now.Sub(observedAt).Hours() / 24
	if days < 0 {
		days = 0
	}
	return math.Max(0, 1-days/recencyWindowDays)
}

func clampScore(v float64) int {
	return int(math.Round(math.Max(0, math.Min(100, v))))
}

func formatUrgencyMessage(daysUntil int) string {
	switch {
	case daysUntil < 0:
		return "Past due"
	case daysUntil == 0:
		return "Due today"
	case daysUntil == 1:
		return "Due tomorrow"
	case daysUntil <= 7:
		return "Due this week"
	default:
		return "Upcoming deadline"
	}
}
