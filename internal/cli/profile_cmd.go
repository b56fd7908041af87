package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/domain"
)

type profileOutput struct {
	UserID                 string  `json:"user_id"`
	WeeklyHoursAvailable   float64 `json:"weekly_hours_available"`
	MaxProjectHoursPerWeek float64 `json:"max_project_hours_per_week"`
}

func newProfileCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "profile",
		Short: "Show or change weekly capacity",
	}
	cmd.AddCommand(newProfileShowCmd(a), newProfileSetCmd(a))
	return cmd
}

func newProfileShowCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the effective capacity settings",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.Profiles.Effective(cmd.Context(), a.userID())
			if err != nil {
				return err
			}
			out := profileOutput{a.userID(), cfg.WeeklyHoursAvailable, cfg.MaxProjectHoursPerWeek}
			return a.render(cmd, out, func() string {
				return formatter.RenderBox("Profile "+out.UserID, fmt.Sprintf(
					"Weekly hours        %s\nPer-project cap     %s",
					formatter.FormatHours(out.WeeklyHoursAvailable),
					formatter.FormatHours(out.MaxProjectHoursPerWeek)))
			})
		},
	}
}

func newProfileSetCmd(a *App) *cobra.Command {
	var weekly, maxProject float64

	cmd := &cobra.Command{
		Use:   "set",
		Short: "Override weekly capacity for the current user",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			cfg, err := a.Profiles.Effective(ctx, a.userID())
			if err != nil {
				return err
			}

			p := &domain.UserProfile{
				ID:                     a.userID(),
				WeeklyHoursAvailable:   cfg.WeeklyHoursAvailable,
				MaxProjectHoursPerWeek: cfg.MaxProjectHoursPerWeek,
			}
			if cmd.Flags().Changed("weekly") {
				p.WeeklyHoursAvailable = weekly
			}
			if cmd.Flags().Changed("max-project") {
				p.MaxProjectHoursPerWeek = maxProject
			}
			if err := a.Profiles.Set(ctx, p); err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Profile %s: %s per week, %s per project\n",
				p.ID, formatter.FormatHours(p.WeeklyHoursAvailable), formatter.FormatHours(p.MaxProjectHoursPerWeek))
			return nil
		},
	}

	cmd.Flags().Float64Var(&weekly, "weekly", 0, "hours available per week")
	cmd.Flags().Float64Var(&maxProject, "max-project", 0, "hours one project may take per week")
	cmd.MarkFlagsOneRequired("weekly", "max-project")

	return cmd
}
