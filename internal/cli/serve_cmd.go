package cli

import (
	"context"
	"time"

	"github.com/modelcontextprotocol/go-sdk/mcp"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/jobs"
	"github.com/alexanderramin/cadence/internal/mcpserver"
	"github.com/alexanderramin/cadence/internal/server"
)

func newServeCmd(a *App) *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the JSON API and Prometheus metrics over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if addr == "" {
				addr = a.Config.Server.Addr
			}
			srv := server.New(server.Deps{
				Analysis: a.Analysis,
				Rank:     a.Rank,
				Signals:  a.Signals,
				Tasks:    a.Tasks,
				Registry: a.Registry,
				Logger:   a.Logger,
				UserID:   a.userID(),
				TopK:     a.topK(),
				Now:      a.clock(),
			})
			return srv.Run(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config)")

	return cmd
}

func newMCPCmd(a *App) *cobra.Command {
	return &cobra.Command{
		Use:   "mcp",
		Short: "Serve the planning tools over MCP on stdio",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			srv := mcpserver.New(mcpserver.Deps{
				Analysis: a.Analysis,
				Rank:     a.Rank,
				Tasks:    a.Tasks,
				Logger:   a.Logger,
				UserID:   a.userID(),
				TopK:     a.topK(),
				Version:  a.Version,
			})
			a.Logger.Info("mcp_server_started", "transport", "stdio")
			return srv.Run(cmd.Context(), &mcp.StdioTransport{})
		},
	}
}

func newScheduleCmd(a *App) *cobra.Command {
	var spec string
	var once, suggest bool

	cmd := &cobra.Command{
		Use:   "schedule",
		Short: "Re-rank open projects on a cron schedule",
		Long: `Schedule runs the weekly ranking job on a five-field cron spec until
interrupted. With --once it runs the job a single time and prints the result.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			job := &jobs.WeeklyRanking{
				Rank:               a.Rank,
				UserID:             a.userID(),
				TopK:               a.topK(),
				IncludeSuggestions: suggest,
				Logger:             a.Logger,
				Now:                a.clock(),
			}

			if once {
				res, err := job.Run(cmd.Context())
				if err != nil {
					return err
				}
				now := job.Now()
				return a.render(cmd, contract.FromRank(res), func() string {
					return formatter.FormatRanking(res, now)
				})
			}

			if spec == "" {
				spec = a.Config.Schedule.Cron
			}
			sched := jobs.NewScheduler(a.Logger, time.Local)
			err := sched.Add("weekly_ranking", spec, func(ctx context.Context) error {
				_, err := job.Run(ctx)
				return err
			})
			if err != nil {
				return err
			}
			return sched.Run(cmd.Context())
		},
	}

	cmd.Flags().StringVar(&spec, "cron", "", "cron spec (default from config)")
	cmd.Flags().BoolVar(&once, "once", false, "run the job once and exit")
	cmd.Flags().BoolVar(&suggest, "suggest", false, "include generated project suggestions")

	return cmd
}
