// Package cli implements the cadence command tree.
package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/config"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/service"
)

// App holds references to all service interfaces used by CLI commands.
type App struct {
	Projects service.ProjectService
	Tasks    service.TaskService
	Profiles service.ProfileService
	Signals  service.SignalService
	Analysis service.AnalysisService
	Rank     service.RankService
	Plan     service.PlanService

	Config   *config.Config
	Logger   *slog.Logger
	Registry *prometheus.Registry
	Version  string

	// Interactive enables forms and spinners. Set it only when stdin and
	// stdout are terminals.
	Interactive bool
	Clock       func() time.Time

	userFlag string
	nowFlag  string
	jsonOut  bool
}

// NewApp binds the CLI to a wired set of services.
func NewApp(s *service.Services, cfg *config.Config, logger *slog.Logger) *App {
	if cfg == nil {
		cfg = config.Default()
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &App{
		Projects: s.Projects,
		Tasks:    s.Tasks,
		Profiles: s.Profiles,
		Signals:  s.Signals,
		Analysis: s.Analysis,
		Rank:     s.Rank,
		Plan:     s.Plan,
		Config:   cfg,
		Logger:   logger,
	}
}

// NewRootCmd creates the top-level "cadence" command and registers all
// subcommands against the provided App.
func NewRootCmd(app *App) *cobra.Command {
	root := &cobra.Command{
		Use:           "cadence",
		Short:         "Score, rank and break down learning projects against weekly capacity",
		Version:       app.Version,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	// --config is consumed before the services are wired; it is declared here
	// so cobra accepts it and lists it in help.
	pf.String("config", "", "config file (default $CADENCE_CONFIG_PATH)")
	pf.StringVar(&app.userFlag, "user", "", "user ID (default from config)")
	pf.StringVar(&app.nowFlag, "now", "", "evaluate as of this date or RFC 3339 time")
	pf.BoolVar(&app.jsonOut, "json", false, "print JSON instead of tables")

	root.AddCommand(
		newProjectCmd(app),
		newAnalyzeCmd(app),
		newCommitCmd(app),
		newRankCmd(app),
		newBreakdownCmd(app),
		newCapacityCmd(app),
		newSignalCmd(app),
		newTaskCmd(app),
		newProfileCmd(app),
		newServeCmd(app),
		newMCPCmd(app),
		newScheduleCmd(app),
	)

	return root
}

func (a *App) userID() string {
	if a.userFlag != "" {
		return a.userFlag
	}
	if a.Config != nil && a.Config.User.ID != "" {
		return a.Config.User.ID
	}
	return "default"
}

func (a *App) now() (time.Time, error) {
	if a.nowFlag != "" {
		t, err := contract.ParseTime(a.nowFlag)
		if err != nil {
			return time.Time{}, fmt.Errorf("invalid --now %q: %w", a.nowFlag, err)
		}
		return t, nil
	}
	if a.Clock != nil {
		return a.Clock(), nil
	}
	return time.Now().UTC(), nil
}

// clock is what long-running commands see: the pinned --now when given,
// otherwise the wall clock.
func (a *App) clock() func() time.Time {
	if a.nowFlag != "" {
		if t, err := contract.ParseTime(a.nowFlag); err == nil {
			return func() time.Time { return t }
		}
	}
	if a.Clock != nil {
		return a.Clock
	}
	return func() time.Time { return time.Now().UTC() }
}

func (a *App) topK() int {
	if a.Config != nil && a.Config.Ranking.TopK > 0 {
		return a.Config.Ranking.TopK
	}
	return 3
}

// render prints payload as JSON under --json and the text form otherwise.
func (a *App) render(cmd *cobra.Command, payload any, text func() string) error {
	if a.jsonOut {
		return writeJSON(cmd.OutOrStdout(), payload)
	}
	fmt.Fprintln(cmd.OutOrStdout(), text())
	return nil
}

func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
