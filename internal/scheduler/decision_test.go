package scheduler

import (
	"testing"

	"github.com/alexanderramin/cadence/internal/domain"
	"github.com/stretchr/testify/assert"
)

func TestDecide_OverdueFloorsScore(t *testing.T) {
	e := NewDecisionEngine(DefaultCapacityConfig(), PolicyOptimistic)

	out := e.Decide(DecisionInput{DaysUntilDue: -10, EstimatedHours: 30, TimeAvailable: 0, PriorityScore: 40})
	assert.Equal(t, domain.DecisionExecuteNow, out.Decision)
	assert.Equal(t, RuleOverdue, out.Rule)
	assert.Equal(t, 95, out.PriorityScore)
	assert.Contains(t, out.Rationale, "OVERDUE")

	out = e.Decide(DecisionInput{DaysUntilDue: -1, EstimatedHours: 3, TimeAvailable: 20, PriorityScore: 98})
	assert.Equal(t, 98, out.PriorityScore)
}

func TestDecide_RuleOrder(t *testing.T) {
	tests := []struct {
		name          string
		in            DecisionInput
		wantDecision  domain.Decision
		wantRule      DecisionRule
		lowConfidence bool
	}{
		{
			name:         "fits this week",
			in:           DecisionInput{DaysUntilDue: 1, EstimatedHours: 3, TimeAvailable: 20},
			wantDecision: domain.DecisionExecuteNow,
			wantRule:     RuleFitsThisWeek,
		},
		{
			name:         "fits wins over multi-week deadline",
			in:           DecisionInput{DaysUntilDue: 21, EstimatedHours: 10, TimeAvailable: 20},
			wantDecision: domain.DecisionExecuteNow,
			wantRule:     RuleFitsThisWeek,
		},
		{
			name:         "exceeds per-project cap",
			in:           DecisionInput{DaysUntilDue: 21, EstimatedHours: 30, TimeAvailable: 20},
			wantDecision: domain.DecisionBreakDown,
			wantRule:     RuleBreakDown,
		},
		{
			name:         "due today over cap",
			in:           DecisionInput{DaysUntilDue: 0, EstimatedHours: 16, TimeAvailable: 20},
			wantDecision: domain.DecisionBreakDown,
			wantRule:     RuleBreakDown,
		},
		{
			name:         "several weeks but no room this week",
			in:           DecisionInput{DaysUntilDue: 10, EstimatedHours: 8, TimeAvailable: 2},
			wantDecision: domain.DecisionBreakDown,
			wantRule:     RuleBreakDown,
		},
		{
			name:          "fallback stays optimistic",
			in:            DecisionInput{DaysUntilDue: 5, EstimatedHours: 10, TimeAvailable: 5},
			wantDecision:  domain.DecisionExecuteNow,
			wantRule:      RuleFallback,
			lowConfidence: true,
		},
		{
			name:          "due today within capacity",
			in:            DecisionInput{DaysUntilDue: 0, EstimatedHours: 3, TimeAvailable: 20},
			wantDecision:  domain.DecisionExecuteNow,
			wantRule:      RuleFallback,
			lowConfidence: true,
		},
	}

	e := NewDecisionEngine(DefaultCapacityConfig(), PolicyOptimistic)
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			out := e.Decide(tt.in)
			assert.Equal(t, tt.wantDecision, out.Decision)
			assert.Equal(t, tt.wantRule, out.Rule)
			assert.Equal(t, tt.lowConfidence, out.LowConfidence)
			assert.NotEmpty(t, out.Rationale)
		})
	}
}

func TestDecide_DeferPolicyOnlyAffectsFallback(t *testing.T) {
	e := NewDecisionEngine(DefaultCapacityConfig(), PolicyDefer)

	out := e.Decide(DecisionInput{DaysUntilDue: 5, EstimatedHours: 10, TimeAvailable: 5, PriorityScore: 60})
	assert.Equal(t, domain.DecisionDefer, out.Decision)
	assert.True(t, out.LowConfidence)

	out = e.Decide(DecisionInput{DaysUntilDue: -3, EstimatedHours: 10, TimeAvailable: 5})
	assert.Equal(t, domain.DecisionExecuteNow, out.Decision)

	out = e.Decide(DecisionInput{DaysUntilDue: 2, EstimatedHours: 3, TimeAvailable: 5})
	assert.Equal(t, domain.DecisionExecuteNow, out.Decision)
}

func TestNewDecisionEngine_UnknownPolicyFallsBackToOptimistic(t *testing.T) {
	e := NewDecisionEngine(DefaultCapacityConfig(), "sometimes")
	out := e.Decide(DecisionInput{DaysUntilDue: 5, EstimatedHours: 10, TimeAvailable: 5})
	assert.Equal(t, domain.DecisionExecuteNow, out.Decision)
}

func TestDecide_UsesConfiguredCap(t *testing.T) {
	e := NewDecisionEngine(CapacityConfig{WeeklyHoursAvailable: 40, MaxProjectHoursPerWeek: 5}, PolicyOptimistic)
	out := e.Decide(DecisionInput{DaysUntilDue: 0, EstimatedHours: 6, TimeAvailable: 40})
	assert.Equal(t, domain.DecisionBreakDown, out.Decision)
}
