package formatter

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/cadence/internal/domain"
)

// Gruvbox palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// DecisionBadge renders a decision as a coloured label.
func DecisionBadge(d domain.Decision) string {
	switch d {
	case domain.DecisionExecuteNow:
		return StyleGreen.Render("▶ EXECUTE NOW")
	case domain.DecisionBreakDown:
		return StyleBlue.Render("◫ BREAK DOWN")
	case domain.DecisionDefer:
		return StyleYellow.Render("⏸ DEFER")
	default:
		return StyleDim.Render(string(d))
	}
}

// ScoreStyle colours a 0-100 score: red from 80, yellow from 50.
func ScoreStyle(score int) lipgloss.Style {
	switch {
	case score >= 80:
		return StyleRed
	case score >= 50:
		return StyleYellow
	default:
		return StyleGreen
	}
}

func StatusPill(status domain.ProjectStatus) string {
	switch status {
	case domain.ProjectProposed:
		return StylePurple.Render("◇ Proposed")
	case domain.ProjectPlanning:
		return StyleBlue.Render("◆ Planning")
	case domain.ProjectInProgress:
		return StyleGreen.Render("● In progress")
	case domain.ProjectCompleted:
		return StyleDim.Render("✔ Completed")
	case domain.ProjectDeferred:
		return StyleYellow.Render("○ Deferred")
	default:
		return StyleDim.Render(string(status))
	}
}

func TaskStatusPill(status domain.TaskStatus) string {
	switch status {
	case domain.TaskTodo:
		return StyleFg.Render("○ todo")
	case domain.TaskInProgress:
		return StyleGreen.Render("● in progress")
	case domain.TaskBlocked:
		return StyleRed.Render("✖ blocked")
	case domain.TaskCompleted:
		return StyleDim.Render("✔ done")
	default:
		return StyleDim.Render(string(status))
	}
}

// Header renders an upper-cased section title with an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", lipgloss.Width(upper))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

func Dim(text string) string {
	return StyleDim.Render(text)
}

func Bold(text string) string {
	return StyleBold.Render(text)
}
