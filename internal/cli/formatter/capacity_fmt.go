package formatter

import (
	"fmt"
	"strings"
	"time"

	"github.com/alexanderramin/cadence/internal/app"
)

func FormatCapacity(r *app.CapacityResponse, now time.Time) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%s\n", RenderBar(r.AllocatedHours, r.WeeklyCapacity, 30))
	fmt.Fprintf(&b, "%s  %s  %s\n",
		StyleFg.Render("Ceiling "+FormatHours(r.WeeklyCapacity)),
		StyleBlue.Render("Allocated "+FormatHours(r.AllocatedHours)),
		StyleGreen.Render("Available "+FormatHours(r.TimeAvailable)),
	)
	if len(r.Tasks) > 0 {
		b.WriteString("\n")
		b.WriteString(FormatTasks(r.Tasks, now))
	}
	return RenderBox(fmt.Sprintf("Week %d, %d", r.SprintWeek, r.SprintYear), b.String())
}
