package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/domain"
)

func FormatProjectList(projects []*domain.Project, now time.Time) string {
	rows := make([][]string, 0, len(projects))
	for _, p := range projects {
		rows = append(rows, []string{
			TruncID(p.ID),
			Bold(p.Title),
			string(p.EffectiveComplexity()),
			FormatHours(p.EffectiveHours()),
			StatusPill(p.Status),
			DueStyled(p.DueDate, now),
		})
	}
	return RenderBox("Projects", RenderTable([]string{"ID", "TITLE", "COMPLEXITY", "EFFORT", "STATUS", "DUE"}, rows))
}

// FormatTasks renders sprint tasks in the order given.
func FormatTasks(tasks []domain.SprintTask, now time.Time) string {
	rows := make([][]string, 0, len(tasks))
	for _, t := range tasks {
		id := TruncID(t.ID)
		if id == "" {
			id = Dim("draft")
		}
		rows = append(rows, []string{
			id,
			t.Title,
			fmt.Sprintf("W%d", t.SprintWeek),
			FormatHours(t.EstimatedHours),
			string(t.Priority),
			TaskStatusPill(t.Status),
			DueStyled(t.DueDate, now),
		})
	}
	return RenderTable([]string{"ID", "TASK", "WEEK", "HOURS", "PRIORITY", "STATUS", "DUE"}, rows) + "\n"
}

func FormatBreakdown(r *app.BreakdownResponse, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s  %s\n", Bold(r.ProjectTitle), Dim(r.Template+" template"))
	fmt.Fprintf(&b, "%d week(s) at up to %s per week\n\n", r.WeeksAvailable, FormatHours(r.HoursPerWeek))
	b.WriteString(FormatTasks(r.Tasks, now))
	if r.UnplannedHours > 0 {
		b.WriteString(StyleYellow.Render(fmt.Sprintf("%s could not be placed before the due date", FormatHours(r.UnplannedHours))) + "\n")
	}
	return RenderBox("Breakdown", b.String())
}
