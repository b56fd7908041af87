package scheduler

import (
	"fmt"

	"github.com/alexanderramin/cadence/internal/domain"
)

// DeferralPolicy controls the last rule of the decision chain, reached when a
// project neither fits this week nor is large enough to break down.
type DeferralPolicy string

const (
	// PolicyOptimistic schedules the project anyway with a low-confidence
	// rationale. Nothing is ever deferred automatically.
	PolicyOptimistic DeferralPolicy = "optimistic"
	// PolicyDefer emits DEFER instead.
	PolicyDefer DeferralPolicy = "defer"
)

func (p DeferralPolicy) Valid() bool {
	return p == PolicyOptimistic || p == PolicyDefer
}

const overdueScoreFloor = 95

type DecisionRule string

const (
	RuleOverdue      DecisionRule = "overdue"
	RuleFitsThisWeek DecisionRule = "fits_this_week"
	RuleBreakDown    DecisionRule = "break_down"
	RuleFallback     DecisionRule = "fallback"
)

type DecisionInput struct {
	DaysUntilDue   int
	EstimatedHours float64
	TimeAvailable  float64
	PriorityScore  int
}

type DecisionOutcome struct {
	Decision      domain.Decision
	Rule          DecisionRule
	PriorityScore int
	WeeksUntilDue int
	Rationale     string
	LowConfidence bool
}

type DecisionEngine struct {
	cfg    CapacityConfig
	policy DeferralPolicy
}

func NewDecisionEngine(cfg CapacityConfig, policy DeferralPolicy) *DecisionEngine {
	if !policy.Valid() {
		policy = PolicyOptimistic
	}
	return &DecisionEngine{cfg: cfg, policy: policy}
}

// Decide evaluates the rules in order; the first match wins.
func (e *DecisionEngine) Decide(in DecisionInput) DecisionOutcome {
	out := DecisionOutcome{
		PriorityScore: in.PriorityScore,
		WeeksUntilDue: WeeksUntilDue(in.DaysUntilDue),
	}

	switch {
	case in.DaysUntilDue < 0:
		out.Decision = domain.DecisionExecuteNow
		out.Rule = RuleOverdue
		out.PriorityScore = max(in.PriorityScore, overdueScoreFloor)
		out.Rationale = fmt.Sprintf("OVERDUE by %d day(s): execute immediately regardless of computed priority", -in.DaysUntilDue)

	case in.EstimatedHours <= in.TimeAvailable && in.DaysUntilDue >= 1:
		out.Decision = domain.DecisionExecuteNow
		out.Rule = RuleFitsThisWeek
		out.Rationale = fmt.Sprintf("%.1fh fits in the %.1fh still available this week", in.EstimatedHours, in.TimeAvailable)

	case in.EstimatedHours > e.cfg.MaxProjectHoursPerWeek || out.WeeksUntilDue > 1:
		out.Decision = domain.DecisionBreakDown
		out.Rule = RuleBreakDown
		if in.EstimatedHours > e.cfg.MaxProjectHoursPerWeek {
			out.Rationale = fmt.Sprintf("%.1fh exceeds the %.1fh per-project weekly cap: split into weekly sprints",
				in.EstimatedHours, e.cfg.MaxProjectHoursPerWeek)
		} else {
			out.Rationale = fmt.Sprintf("due in %d weeks with only %.1fh available this week: split into weekly sprints",
				out.WeeksUntilDue, in.TimeAvailable)
		}

	default:
		out.Rule = RuleFallback
		out.LowConfidence = true
		if e.policy == PolicyDefer {
			out.Decision = domain.DecisionDefer
			out.Rationale = fmt.Sprintf("needs %.1fh but only %.1fh available this week: deferred until capacity frees up",
				in.EstimatedHours, in.TimeAvailable)
		} else {
			out.Decision = domain.DecisionExecuteNow
			out.Rationale = fmt.Sprintf("low confidence: needs %.1fh but only %.1fh available this week, capacity is limited",
				in.EstimatedHours, in.TimeAvailable)
		}
	}
	return out
}
