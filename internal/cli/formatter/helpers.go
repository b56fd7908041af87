package formatter

import (
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
)

// RenderBox wraps content in a rounded border with an optional title.
func RenderBox(title, content string) string {
	box := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(ColorDim).
		Padding(1, 2)

	if title != "" {
		content = StyleHeader.Render(strings.ToUpper(title)) + "\n\n" + content
	}
	return box.Render(content)
}

// RelativeDateFrom describes t relative to now in whole calendar days.
func RelativeDateFrom(t, now time.Time) string {
	days := calendarDays(now, t)

	switch {
	case days == 0:
		return "Today"
	case days == 1:
		return "Tomorrow"
	case days == -1:
		return "Yesterday"
	case days > 0 && days < 14:
		return fmt.Sprintf("In %dd", days)
	case days > 0 && days < 60:
		return fmt.Sprintf("In %dw", days/7)
	case days > 0:
		return fmt.Sprintf("In %dmo", days/30)
	case days > -14:
		return fmt.Sprintf("%dd ago", -days)
	case days > -60:
		return fmt.Sprintf("%dw ago", -days/7)
	default:
		return fmt.Sprintf("%dmo ago", -days/30)
	}
}

// DueStyled renders the relative due date, red when overdue or within two
// days and yellow within a week.
func DueStyled(due, now time.Time) string {
	text := RelativeDateFrom(due, now)
	days := calendarDays(now, due)
	switch {
	case days <= 2:
		return StyleRed.Render(text)
	case days <= 7:
		return StyleYellow.Render(text)
	default:
		return StyleFg.Render(text)
	}
}

func calendarDays(from, to time.Time) int {
	loc := from.Location()
	a := time.Date(from.Year(), from.Month(), from.Day(), 0, 0, 0, 0, loc)
	tl := to.In(loc)
	b := time.Date(tl.Year(), tl.Month(), tl.Day(), 0, 0, 0, 0, loc)
	return int(math.Round(b.Sub(a).Hours() / 24))
}

// FormatHours renders 7.5 as "7.5h" and 8 as "8h".
func FormatHours(h float64) string {
	if h == math.Trunc(h) {
		return fmt.Sprintf("%.0fh", h)
	}
	return fmt.Sprintf("%.1fh", h)
}

// TruncID shortens a UUID for tables.
func TruncID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

const (
	filledBlock = "█"
	emptyBlock  = "░"
)

// RenderBar renders used/total as a bar. The bar turns yellow past 66% and
// red past 90%.
func RenderBar(used, total float64, width int) string {
	pct := 0.0
	if total > 0 {
		pct = math.Min(1, math.Max(0, used/total))
	}
	width = max(width, 2)
	filled := int(math.Round(pct * float64(width)))
	bar := strings.Repeat(filledBlock, filled) + strings.Repeat(emptyBlock, width-filled)

	style := StyleGreen
	switch {
	case pct > 0.9:
		style = StyleRed
	case pct > 0.66:
		style = StyleYellow
	}
	return fmt.Sprintf("[%s] %3.0f%%", style.Render(bar), pct*100)
}
