package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
)

func newCapacityCmd(a *App) *cobra.Command {
	var week, year int

	cmd := &cobra.Command{
		Use:   "capacity",
		Short: "Show committed hours against the weekly ceiling",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			res, err := a.Tasks.Capacity(cmd.Context(), app.CapacityRequest{
				UserID: a.userID(),
				Now:    &now,
				Week:   week,
				Year:   year,
			})
			if err != nil {
				return err
			}
			return a.render(cmd, contract.FromCapacity(res), func() string {
				return formatter.FormatCapacity(res, now)
			})
		},
	}

	cmd.Flags().IntVar(&week, "week", 0, "ISO week (default current)")
	cmd.Flags().IntVar(&year, "year", 0, "ISO year (default current)")
	cmd.MarkFlagsRequiredTogether("week", "year")

	return cmd
}
