package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
)

// FormatAnalysis renders one analysis as a boxed card.
func FormatAnalysis(r *app.AnalysisResult, now time.Time) string {
	var b strings.Builder

	fmt.Fprintf(&b, "%s  %s\n", Bold(r.ProjectTitle), DecisionBadge(r.Decision))
	fmt.Fprintf(&b, "%s %s", Dim("Priority"), ScoreStyle(r.PriorityScore).Render(fmt.Sprintf("%d/100", r.PriorityScore)))
	if r.LowConfidence {
		b.WriteString("  " + StyleYellow.Render("(low confidence)"))
	}
	b.WriteString("\n\n")

	b.WriteString(Header("Scores") + "\n")
	b.WriteString(FormatScores(r.Scores))
	b.WriteString("\n")

	f := r.Feasibility
	b.WriteString(Header("Capacity") + "\n")
	fmt.Fprintf(&b, "Week %d/%d  %s  %s of %s allocated\n",
		f.SprintWeek, f.SprintYear,
		RenderBar(f.AllocatedHours, f.WeeklyCapacity, 20),
		FormatHours(f.AllocatedHours), FormatHours(f.WeeklyCapacity))
	fmt.Fprintf(&b, "Needs %s, %s available, due in %d day(s)\n\n",
		FormatHours(f.EstimatedHours), FormatHours(f.TimeAvailable), f.DaysUntilDue)

	b.WriteString(Header("Why") + "\n")
	b.WriteString(r.Rationale + "\n")
	if r.Recommendation != "" {
		b.WriteString(StyleGreen.Render("→ "+r.Recommendation) + "\n")
	}

	if len(r.Tasks) > 0 {
		b.WriteString("\n" + Header(fmt.Sprintf("Sprint plan (%s template)", r.Template)) + "\n")
		b.WriteString(FormatTasks(r.Tasks, now))
		if r.UnplannedHours > 0 {
			b.WriteString(StyleYellow.Render(fmt.Sprintf("%s could not be placed before the due date", FormatHours(r.UnplannedHours))) + "\n")
		}
	}

	if ins := r.Insights; len(ins.RelatedConcepts)+len(ins.StruggleIndicators)+len(ins.UpcomingDeadlines) > 0 {
		b.WriteString("\n" + Header("Context") + "\n")
		if len(ins.RelatedConcepts) > 0 {
			fmt.Fprintf(&b, "%s %s\n", Dim("Related:"), strings.Join(ins.RelatedConcepts, ", "))
		}
		for _, s := range ins.StruggleIndicators {
			fmt.Fprintf(&b, "%s %s\n", StyleYellow.Render("Struggling:"), s)
		}
		for _, d := range ins.UpcomingDeadlines {
			fmt.Fprintf(&b, "%s %s %s\n", Dim("Deadline:"), d.Label, DueStyled(d.DueDate, now))
		}
	}

	writeWarnings(&b, r.Warnings)
	return RenderBox("Analysis", b.String())
}

// FormatScores renders the four component scores and the composite.
func FormatScores(s app.ScoreBreakdown) string {
	rows := [][]string{
		{"Interest", fmt.Sprint(s.Interest), "30%"},
		{"Difficulty", fmt.Sprint(s.Difficulty), "35%"},
		{"Urgency", fmt.Sprint(s.Urgency), "20%"},
		{"Context", fmt.Sprint(s.ContextRelevance), "15%"},
		{Bold("Composite"), ScoreStyle(s.Composite).Render(fmt.Sprint(s.Composite)), ""},
	}
	return RenderTable([]string{"COMPONENT", "SCORE", "WEIGHT"}, rows) + "\n"
}

func writeWarnings(b *strings.Builder, warnings []string) {
	if len(warnings) == 0 {
		return
	}
	b.WriteString("\n")
	for _, w := range warnings {
		b.WriteString(StyleYellow.Render("WARNING: "+w) + "\n")
	}
}
