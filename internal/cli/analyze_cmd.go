package cli

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

type analyzeOutput struct {
	contract.AnalysisResult
	Committed []contract.SprintTask `json:"committed,omitempty"`
}

func newAnalyzeCmd(a *App) *cobra.Command {
	var draft projectFlags
	var commit, degraded bool

	cmd := &cobra.Command{
		Use:   "analyze [project]",
		Short: "Score a project and decide whether to execute, break down or defer it",
		Long: `Analyze scores a stored project, or an unsaved draft given with --title,
against this week's capacity and recent learning activity.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := a.now()
			if err != nil {
				return err
			}

			req := app.NewAnalyzeRequest(a.userID())
			req.Now = &now
			req.AllowDegraded = degraded

			switch {
			case len(args) == 1:
				id, err := resolveProjectID(ctx, a, args[0])
				if err != nil {
					return err
				}
				req.ProjectID = id
			case draft.title != "":
				p, err := draft.toProject(cmd.Flags(), req.UserID, now)
				if err != nil {
					return err
				}
				req.Project = p
			default:
				return errors.New("pass a project ID or --title for an unsaved draft")
			}
			if commit && req.ProjectID == "" {
				return errors.New("--commit needs a stored project")
			}

			res, err := a.Analysis.Analyze(ctx, req)
			if err != nil {
				return err
			}

			var committed []domain.SprintTask
			if commit {
				if committed, err = a.Plan.Commit(ctx, req.ProjectID, res); err != nil {
					return err
				}
			}

			out := analyzeOutput{AnalysisResult: contract.FromAnalysis(res)}
			if committed != nil {
				out.Committed = contract.FromTasks(committed)
			}
			return a.render(cmd, out, func() string {
				text := formatter.FormatAnalysis(res, now)
				if committed != nil {
					text += "\n" + formatter.StyleGreen.Render(fmt.Sprintf("Committed %d task(s).", len(committed)))
				}
				return text
			})
		},
	}

	draft.register(cmd.Flags())
	cmd.Flags().BoolVar(&commit, "commit", false, "persist the proposed tasks")
	cmd.Flags().BoolVar(&degraded, "degraded", false, "continue with empty context when signals are unavailable")

	return cmd
}

// newCommitCmd re-analyzes a stored project and commits the resulting plan
// in one step.
func newCommitCmd(a *App) *cobra.Command {
	var degraded bool

	cmd := &cobra.Command{
		Use:   "commit <project>",
		Short: "Analyze a project and persist its sprint tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := a.now()
			if err != nil {
				return err
			}
			id, err := resolveProjectID(ctx, a, args[0])
			if err != nil {
				return err
			}

			req := app.NewAnalyzeRequest(a.userID())
			req.ProjectID = id
			req.Now = &now
			req.AllowDegraded = degraded
			res, err := a.Analysis.Analyze(ctx, req)
			if err != nil {
				return err
			}
			tasks, err := a.Plan.Commit(ctx, id, res)
			if err != nil {
				return err
			}

			return a.render(cmd, contract.FromTasks(tasks), func() string {
				var b strings.Builder
				fmt.Fprintf(&b, "%s  %s\n", formatter.Bold(res.ProjectTitle), formatter.DecisionBadge(res.Decision))
				b.WriteString(formatter.FormatTasks(tasks, now))
				b.WriteString(formatter.StyleGreen.Render(fmt.Sprintf("Committed %d task(s).", len(tasks))))
				return b.String()
			})
		},
	}

	cmd.Flags().BoolVar(&degraded, "degraded", false, "continue with empty context when signals are unavailable")

	return cmd
}

func newBreakdownCmd(a *App) *cobra.Command {
	var draft projectFlags
	var total float64

	cmd := &cobra.Command{
		Use:   "breakdown [project]",
		Short: "Preview how a project splits into weekly sprints",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := a.now()
			if err != nil {
				return err
			}

			req := app.BreakdownRequest{Now: &now}
			switch {
			case len(args) == 1:
				id, err := resolveProjectID(ctx, a, args[0])
				if err != nil {
					return err
				}
				req.ProjectID = id
			case draft.title != "":
				p, err := draft.toProject(cmd.Flags(), a.userID(), now)
				if err != nil {
					return err
				}
				req.Project = p
			default:
				return errors.New("pass a project ID or --title for an unsaved draft")
			}
			if cmd.Flags().Changed("total-hours") {
				req.TotalHours = &total
			}

			res, err := a.Analysis.PlanBreakdown(ctx, req)
			if err != nil {
				return err
			}
			return a.render(cmd, contract.FromBreakdown(res), func() string {
				return formatter.FormatBreakdown(res, now)
			})
		},
	}

	draft.register(cmd.Flags())
	cmd.Flags().Float64Var(&total, "total-hours", 0, "hours to spread instead of the project's estimate")

	return cmd
}
