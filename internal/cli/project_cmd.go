package cli

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

// projectFlags describe a project draft on the command line. They are shared
// by "project add" and the commands that accept an unsaved draft.
type projectFlags struct {
	title       string
	description string
	due         string
	complexity  string
	hours       float64
	tags        []string
}

func (f *projectFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.title, "title", "", "project title")
	fs.StringVar(&f.description, "description", "", "project description")
	fs.StringVar(&f.due, "due", "", "due date (YYYY-MM-DD, RFC 3339 or a day offset like 14d)")
	fs.StringVar(&f.complexity, "complexity", "", "low, medium, high or very-high")
	fs.Float64Var(&f.hours, "hours", 0, "estimated hours (default from complexity)")
	fs.StringSliceVar(&f.tags, "tag", nil, "tag (repeatable)")
}

// toProject builds the draft. Hours count as an estimate only when the flag
// was given, so a zero or negative value is rejected by validation instead of
// silently ignored.
func (f *projectFlags) toProject(fs *pflag.FlagSet, userID string, now time.Time) (*domain.Project, error) {
	due, err := resolveDue(f.due, now)
	if err != nil {
		return nil, err
	}
	in := contract.ProjectInput{
		Title:       strings.TrimSpace(f.title),
		Description: strings.TrimSpace(f.description),
		DueDate:     due,
		Complexity:  strings.ToLower(f.complexity),
		Tags:        f.tags,
	}
	if in.Description == "" {
		in.Description = in.Title
	}
	if fs.Changed("hours") {
		h := f.hours
		in.EstimatedHours = &h
	}
	return in.ToDomain(userID)
}

func resolveProjectID(ctx context.Context, app *App, input string) (string, error) {
	if input == "" {
		return "", errors.New("project ID is required")
	}

	projects, err := app.Projects.List(ctx, app.userID())
	if err != nil {
		return "", err
	}

	for _, p := range projects {
		if p.ID == input {
			return p.ID, nil
		}
	}

	var matches []string
	for _, p := range projects {
		if strings.HasPrefix(p.ID, input) {
			matches = append(matches, p.ID)
		}
	}

	switch len(matches) {
	case 0:
		return "", fmt.Errorf("project not found: %q", input)
	case 1:
		return matches[0], nil
	default:
		return "", fmt.Errorf("project ID prefix %q is ambiguous (%d matches)", input, len(matches))
	}
}

func newProjectCmd(app *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "project",
		Short: "Manage projects",
	}

	cmd.AddCommand(
		newProjectAddCmd(app),
		newProjectListCmd(app),
		newProjectShowCmd(app),
		newProjectDeferCmd(app),
		newProjectRemoveCmd(app),
	)

	return cmd
}

func newProjectAddCmd(app *App) *cobra.Command {
	var f projectFlags
	var interactive bool

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a new project",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := app.now()
			if err != nil {
				return err
			}

			if interactive {
				if !app.Interactive {
					return errors.New("--interactive needs a terminal")
				}
				var hours, tags string
				if f.hours > 0 {
					hours = strconv.FormatFloat(f.hours, 'f', -1, 64)
				}
				tags = strings.Join(f.tags, ", ")
				if err := projectForm(&f, &hours, &tags).Run(); err != nil {
					return err
				}
				f.tags = splitList(tags)
				if hours != "" {
					f.hours, _ = strconv.ParseFloat(hours, 64)
					_ = cmd.Flags().Set("hours", hours)
				}
			}
			if f.title == "" {
				return errors.New("--title is required (or use --interactive)")
			}

			p, err := f.toProject(cmd.Flags(), app.userID(), now)
			if err != nil {
				return err
			}
			if err := app.Projects.Create(cmd.Context(), p); err != nil {
				return err
			}

			return app.render(cmd, contract.FromProject(p), func() string {
				return fmt.Sprintf("Created project %s [%s]", p.Title, formatter.TruncID(p.ID))
			})
		},
	}

	f.register(cmd.Flags())
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "fill the project in with a form")

	return cmd
}

func newProjectListCmd(app *App) *cobra.Command {
	var statuses []string

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List projects",
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := app.now()
			if err != nil {
				return err
			}
			filter := make([]domain.ProjectStatus, 0, len(statuses))
			for _, s := range statuses {
				filter = append(filter, domain.ProjectStatus(s))
			}

			projects, err := app.Projects.List(cmd.Context(), app.userID(), filter...)
			if err != nil {
				return err
			}

			out := make([]contract.Project, 0, len(projects))
			for _, p := range projects {
				out = append(out, contract.FromProject(p))
			}
			return app.render(cmd, out, func() string {
				if len(projects) == 0 {
					return "No projects found."
				}
				return formatter.FormatProjectList(projects, now)
			})
		},
	}

	cmd.Flags().StringSliceVar(&statuses, "status", nil, "only list projects with these statuses")

	return cmd
}

func newProjectShowCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show <project>",
		Short: "Show a project and its committed tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := app.now()
			if err != nil {
				return err
			}
			id, err := resolveProjectID(ctx, app, args[0])
			if err != nil {
				return err
			}
			p, err := app.Projects.GetByID(ctx, id)
			if err != nil {
				return err
			}
			ptrs, err := app.Tasks.ListByProject(ctx, id)
			if err != nil {
				return err
			}
			tasks := derefTasks(ptrs)

			payload := struct {
				contract.Project
				Tasks []contract.SprintTask `json:"tasks"`
			}{contract.FromProject(p), contract.FromTasks(tasks)}

			return app.render(cmd, payload, func() string {
				var b strings.Builder
				b.WriteString(formatter.FormatProjectList([]*domain.Project{p}, now))
				b.WriteString("\n")
				if p.Description != "" {
					b.WriteString(p.Description + "\n\n")
				}
				if len(tasks) == 0 {
					b.WriteString(formatter.Dim("No committed plan. Run `cadence analyze " + formatter.TruncID(p.ID) + " --commit`."))
				} else {
					b.WriteString(formatter.FormatTasks(tasks, now))
				}
				return b.String()
			})
		},
	}
}

func newProjectDeferCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:   "defer <project>",
		Short: "Park a project until capacity frees up",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Defer(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deferred project %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func newProjectRemoveCmd(app *App) *cobra.Command {
	return &cobra.Command{
		Use:     "rm <project>",
		Aliases: []string{"remove"},
		Short:   "Delete a project and its tasks",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := resolveProjectID(cmd.Context(), app, args[0])
			if err != nil {
				return err
			}
			if err := app.Projects.Delete(cmd.Context(), id); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed project %s\n", formatter.TruncID(id))
			return nil
		},
	}
}

func derefTasks(ptrs []*domain.SprintTask) []domain.SprintTask {
	tasks := make([]domain.SprintTask, 0, len(ptrs))
	for _, t := range ptrs {
		tasks = append(tasks, *t)
	}
	return tasks
}
