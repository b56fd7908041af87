package cli

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
)

func cadenceHuhTheme() *huh.Theme {
	t := huh.ThemeBase()

	t.Focused.Title = lipgloss.NewStyle().Foreground(formatter.ColorHeader).Bold(true)
	t.Focused.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorGreen)
	t.Focused.UnselectedOption = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Cursor = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorHeader)
	t.Focused.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorFg)
	t.Focused.TextInput.Placeholder = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Focused.Description = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	t.Blurred.Title = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectSelector = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.SelectedOption = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Prompt = lipgloss.NewStyle().Foreground(formatter.ColorDim)
	t.Blurred.TextInput.Text = lipgloss.NewStyle().Foreground(formatter.ColorDim)

	return t
}

// projectForm collects a project draft into f. Hours and tags are gathered as
// text and parsed by the caller.
func projectForm(f *projectFlags, hours, tags *string) *huh.Form {
	if f.complexity == "" {
		f.complexity = string(domain.ComplexityMedium)
	}
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Value(&f.title).
				Validate(validateRequired),
			huh.NewText().
				Title("Description").
				Description("What will you build or learn?").
				Value(&f.description).
				Validate(validateRequired),
			huh.NewInput().
				Title("Due date").
				Placeholder("2025-06-30 or 14d").
				Value(&f.due).
				Validate(validateDue),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Complexity").
				Options(huh.NewOptions(
					string(domain.ComplexityLow),
					string(domain.ComplexityMedium),
					string(domain.ComplexityHigh),
					string(domain.ComplexityVeryHigh),
				)...).
				Value(&f.complexity),
			huh.NewInput().
				Title("Estimated hours (blank for the complexity default)").
				Value(hours).
				Validate(validateOptionalHours),
			huh.NewInput().
				Title("Tags (comma separated)").
				Value(tags),
		),
	).WithTheme(cadenceHuhTheme()).WithShowHelp(false)
}

func validateRequired(s string) error {
	if strings.TrimSpace(s) == "" {
		return errors.New("required")
	}
	return nil
}

func validateDue(s string) error {
	if _, err := resolveDue(s, time.Now()); err != nil {
		return errors.New("use YYYY-MM-DD or a day offset like 14d")
	}
	return nil
}

func validateOptionalHours(s string) error {
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil || v <= 0 {
		return errors.New("enter a positive number")
	}
	return nil
}

// resolveDue turns a day offset such as "14d" into a date relative to now.
// Anything else is returned unchanged for contract.ParseTime.
func resolveDue(s string, now time.Time) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", errors.New("due date is required")
	}
	if n, ok := strings.CutSuffix(s, "d"); ok {
		days, err := strconv.Atoi(n)
		if err != nil {
			return "", fmt.Errorf("invalid day offset %q", s)
		}
		return now.AddDate(0, 0, days).Format(time.RFC3339), nil
	}
	if _, err := time.Parse("2006-01-02", s); err == nil {
		return s, nil
	}
	if _, err := time.Parse(time.RFC3339, s); err != nil {
		return "", fmt.Errorf("invalid due date %q", s)
	}
	return s, nil
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
