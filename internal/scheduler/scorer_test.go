package scheduler

import (
	"math/rand"
	"testing"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

var scoreNow = time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)

func intPtr(v int) *int { return &v }

func signal(raw string, age time.Duration, durationSec *int) domain.ActivitySignal {
	return domain.ActivitySignal{
		UserID:      "u1",
		Kind:        domain.ActivityBrowserTab,
		RawText:     raw,
		ObservedAt:  scoreNow.Add(-age),
		DurationSec: durationSec,
	}
}

func TestInterest_EmptySignals(t *testing.T) {
	e := NewScoreEngine(nil)
	assert.Equal(t, 0, e.Interest([]string{"neural"}, nil, scoreNow))
}

func TestInterest_RecencyDecay(t *testing.T) {
	e := NewScoreEngine(nil)
	concepts := []string{"neural"}

	tests := []struct {
		name   string
		signal domain.ActivitySignal
		want   int
	}{
		{"fresh ten minutes", signal("neural networks intro", 0, intPtr(600)), 100},
		{"default duration", signal("neural networks intro", 0, nil), 50},
		{"half decayed", signal("neural networks intro", 84*time.Hour, nil), 25},
		{"outside window", signal("neural networks intro", 8*24*time.Hour, intPtr(6000)), 0},
		{"exactly seven days", signal("neural networks intro", 7*24*time.Hour, intPtr(6000)), 0},
		{"future signal clamps to fresh", signal("neural networks intro", -time.Hour, nil), 50},
		{"no match", signal("linear algebra", 0, intPtr(6000)), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := e.Interest(concepts, []domain.ActivitySignal{tt.signal}, scoreNow)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestInterest_MatchesSignalConcepts(t *testing.T) {
	e := NewScoreEngine(nil)
	s := signal("lecture notes", 0, nil)
	s.Concepts = []string{"Neural-Nets"}
	assert.Equal(t, 50, e.Interest([]string{"neural"}, []domain.ActivitySignal{s}, scoreNow))
}

func TestDifficulty(t *testing.T) {
	e := NewScoreEngine(nil)
	concepts := []string{"python"}

	struggle := signal("python tutorial for beginners", 0, nil)
	long := signal("python deep dive", 0, intPtr(700))
	both := signal("stuck on a python error", 0, intPtr(900))

	assert.Equal(t, 43, e.Difficulty(concepts, []domain.ActivitySignal{struggle}))
	assert.Equal(t, 29, e.Difficulty(concepts, []domain.ActivitySignal{long}))
	assert.Equal(t, 71, e.Difficulty(concepts, []domain.ActivitySignal{both}))
	assert.Equal(t, 100, e.Difficulty(concepts, []domain.ActivitySignal{struggle, both}))
}

func TestDifficulty_MatchesTitleNotConcepts(t *testing.T) {
	e := NewScoreEngine(nil)

	conceptOnly := signal("stuck on an error", 0, nil)
	conceptOnly.Concepts = []string{"python"}
	assert.Equal(t, 0, e.Difficulty([]string{"python"}, []domain.ActivitySignal{conceptOnly}))

	titled := signal("stuck on an error", 0, nil)
	titled.Title = "Python docs"
	assert.Equal(t, 43, e.Difficulty([]string{"python"}, []domain.ActivitySignal{titled}))
}

func TestUrgencyScore_Buckets(t *testing.T) {
	tests := []struct {
		days int
		want int
	}{
		{-10, 100}, {-1, 100},
		{0, 90}, {3, 90},
		{4, 70}, {7, 70},
		{8, 50}, {14, 50},
		{15, 30}, {30, 30},
		{31, 10}, {365, 10},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, UrgencyScore(tt.days), "days=%d", tt.days)
	}
}

func TestContextRelevance(t *testing.T) {
	e := NewScoreEngine(nil)

	got := e.ContextRelevance(
		[]string{"neural", "networks"},
		[]string{"neural-nets", "deep learning"},
		[]string{"Neural networks lecture"},
	)
	// neural: +20 related, +15 recent; networks: +15 recent
	assert.Equal(t, 50, got)

	assert.Equal(t, 0, e.ContextRelevance([]string{"neural"}, nil, nil))
}

func TestContextRelevance_ClampsAt100(t *testing.T) {
	e := NewScoreEngine(nil)
	concepts := []string{"alpha", "bravo", "charlie", "delta"}
	related := []string{"alpha bravo charlie delta"}
	recent := []string{"alpha bravo charlie delta"}
	assert.Equal(t, 100, e.ContextRelevance(concepts, related, recent))
}

func TestComposite_Table(t *testing.T) {
	e := NewScoreEngine(nil)
	tests := []struct {
		i, d, u, c int
		want       int
	}{
		{65, 82, 70, 85, 75},
		{0, 0, 0, 0, 0},
		{100, 100, 100, 100, 100},
		{100, 0, 0, 0, 30},
		{0, 100, 0, 0, 35},
		{0, 0, 100, 0, 20},
		{0, 0, 0, 100, 15},
		{50, 50, 50, 50, 50},
		{0, 0, 90, 0, 18},
		// exact halves round up
		{1, 12, 10, 0, 7},
		{0, 10, 0, 0, 4},
		{0, 0, 0, 10, 2},
		{5, 0, 0, 0, 2},
		{1, 0, 0, 1, 0},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, e.Composite(tt.i, tt.d, tt.u, tt.c), "(%d,%d,%d,%d)", tt.i, tt.d, tt.u, tt.c)
	}
}

func TestDefaultWeights_SumToOne(t *testing.T) {
	w := DefaultWeights()
	assert.InDelta(t, 1.0, w.Interest+w.Difficulty+w.Urgency+w.ContextRelevance, 1e-9)
}

func TestScore_ReportsAllSubScoresAndReasons(t *testing.T) {
	e := NewScoreEngine(nil)
	b := e.Score(ScoringInput{
		ProjectConcepts:  []string{"python"},
		Signals:          []domain.ActivitySignal{signal("python tutorial", 0, intPtr(600))},
		DaysUntilDue:     2,
		RelatedConcepts:  []string{"python"},
		RecentActivities: []string{"python tutorial"},
		Now:              scoreNow,
	})

	assert.Equal(t, 100, b.Interest)
	assert.Equal(t, 43, b.Difficulty)
	assert.Equal(t, 90, b.Urgency)
	assert.Equal(t, 35, b.ContextRelevance)
	assert.Equal(t, e.Composite(100, 43, 90, 35), b.Composite)

	codes := map[app.ScoreReasonCode]bool{}
	for _, r := range b.Reasons {
		codes[r.Code] = true
		assert.NotNil(t, r.WeightDelta)
	}
	assert.True(t, codes[app.ReasonInterest])
	assert.True(t, codes[app.ReasonDifficulty])
	assert.True(t, codes[app.ReasonUrgency])
	assert.True(t, codes[app.ReasonContextRelevance])
}

// TestSubScores_AlwaysInRange property-tests the [0,100] bound for random
// signal sets.
func TestSubScores_AlwaysInRange(t *testing.T) {
	rng := rand.New(rand.NewSource(42))
	e := NewScoreEngine(nil)
	words := []string{"python", "help", "graph", "stuck", "tutorial", "neural", "error", "notes"}

	for trial := 0; trial < 200; trial++ {
		n := rng.Intn(30)
		signals := make([]domain.ActivitySignal, n)
		for i := range signals {
			raw := words[rng.Intn(len(words))] + " " + words[rng.Intn(len(words))]
			var dur *int
			if rng.Intn(3) > 0 {
				dur = intPtr(rng.Intn(7200))
			}
			age := time.Duration(rng.Intn(14*24)) * time.Hour
			signals[i] = signal(raw, age, dur)
			signals[i].Concepts = []string{words[rng.Intn(len(words))]}
		}
		concepts := []string{words[rng.Intn(len(words))], words[rng.Intn(len(words))]}

		b := e.Score(ScoringInput{
			ProjectConcepts:  concepts,
			Signals:          signals,
			DaysUntilDue:     rng.Intn(80) - 20,
			RelatedConcepts:  words[:rng.Intn(len(words))],
			RecentActivities: words[:rng.Intn(len(words))],
			Now:              scoreNow,
		})
		for _, v := range []int{b.Interest, b.Difficulty, b.Urgency, b.ContextRelevance, b.Composite} {
			assert.GreaterOrEqual(t, v, 0, "trial %d", trial)
			assert.LessOrEqual(t, v, 100, "trial %d", trial)
		}
	}
}
