package cli

import (
	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/app"
	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
)

func newRankCmd(a *App) *cobra.Command {
	var top, count int
	var suggest, degraded bool

	cmd := &cobra.Command{
		Use:   "rank [project...]",
		Short: "Rank open projects by priority",
		Long: `Rank analyzes every open project (or only the ones named) and orders them
by priority score, nearest due date and title. With --suggest, generated
project ideas are ranked alongside.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			now, err := a.now()
			if err != nil {
				return err
			}

			req := app.NewRankRequest(a.userID())
			req.Now = &now
			req.TopK = a.topK()
			if cmd.Flags().Changed("top") {
				req.TopK = top
			}
			if count > 0 {
				req.SuggestionCount = count
			}
			req.IncludeSuggestions = suggest
			req.AllowDegraded = degraded
			for _, ref := range args {
				id, err := resolveProjectID(ctx, a, ref)
				if err != nil {
					return err
				}
				req.ProjectIDs = append(req.ProjectIDs, id)
			}

			stop := func() {}
			if suggest && a.Interactive && !a.jsonOut {
				stop = formatter.StartSpinner(cmd.ErrOrStderr(), "Generating project suggestions...")
			}
			res, err := a.Rank.Rank(ctx, req)
			stop()
			if err != nil {
				return err
			}

			return a.render(cmd, contract.FromRank(res), func() string {
				return formatter.FormatRanking(res, now)
			})
		},
	}

	cmd.Flags().IntVar(&top, "top", 3, "number of projects to highlight")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "include generated project suggestions")
	cmd.Flags().IntVar(&count, "count", 0, "number of suggestions to request (default 3)")
	cmd.Flags().BoolVar(&degraded, "degraded", false, "continue with empty context when signals are unavailable")

	return cmd
}
