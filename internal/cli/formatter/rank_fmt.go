package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
)

// FormatRanking renders the ranked table with the synthesis underneath.
func FormatRanking(r *app.RankResponse, now time.Time) string {
	if len(r.Ranked) == 0 {
		return RenderBox("Ranking", Dim(r.Synthesis))
	}

	top := make(map[int]bool, len(r.Top))
	for _, t := range r.Top {
		top[t.Rank] = true
	}

	rows := make([][]string, 0, len(r.Ranked))
	for _, rp := range r.Ranked {
		rank := fmt.Sprintf("%d", rp.Rank)
		if top[rp.Rank] {
			rank = StyleHeader.Render("★" + rank)
		}
		title := rp.Project.Title
		if rp.Suggested {
			title += " " + StylePurple.Render("(suggested)")
		}
		rows = append(rows, []string{
			rank,
			title,
			ScoreStyle(rp.Analysis.PriorityScore).Render(fmt.Sprint(rp.Analysis.PriorityScore)),
			DecisionBadge(rp.Analysis.Decision),
			FormatHours(rp.Analysis.Feasibility.EstimatedHours),
			DueStyled(rp.Project.DueDate, now),
		})
	}

	var b strings.Builder
	b.WriteString(RenderTable([]string{"#", "PROJECT", "PRIORITY", "DECISION", "EFFORT", "DUE"}, rows))
	b.WriteString("\n\n")
	b.WriteString(r.Synthesis)
	b.WriteString("\n")
	writeWarnings(&b, r.Warnings)
	return RenderBox("Ranking", b.String())
}
