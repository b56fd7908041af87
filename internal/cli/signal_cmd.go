package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/alexanderramin/cadence/internal/cli/formatter"
	"github.com/alexanderramin/cadence/internal/contract"
	"github.com/alexanderramin/cadence/internal/domain"
)

func newSignalCmd(a *App) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "signal",
		Short: "Record learning activity",
	}
	cmd.AddCommand(newSignalAddCmd(a))
	return cmd
}

func newSignalAddCmd(a *App) *cobra.Command {
	var in contract.SignalInput
	var duration int

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Record one activity signal",
		Example: `  cadence signal add --kind lms_assignment --title "Lab 3" --due 2025-03-20
  cadence signal add --title "Linear algebra lecture" --concept eigenvalues --duration 3600`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			now, err := a.now()
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("duration") {
				in.DurationSec = &duration
			}

			s, err := in.ToDomain(a.userID(), now)
			if err != nil {
				return err
			}
			if err := a.Signals.Ingest(cmd.Context(), s); err != nil {
				return err
			}

			return a.render(cmd, contract.FromSignal(s), func() string {
				return fmt.Sprintf("Recorded %s signal %s (%d concept(s))",
					s.Kind, formatter.TruncID(s.ID), len(s.Concepts))
			})
		},
	}

	f := cmd.Flags()
	f.StringVar(&in.Kind, "kind", string(domain.ActivityManualInput), "browser_tab, lms_assignment, pdf_text, video_transcript or manual_input")
	f.StringVar(&in.Title, "title", "", "short label")
	f.StringVar(&in.RawText, "text", "", "raw text of the activity")
	f.StringSliceVar(&in.Concepts, "concept", nil, "concept the activity covers (repeatable)")
	f.StringVar(&in.ObservedAt, "observed", "", "when the activity happened (default now)")
	f.IntVar(&duration, "duration", 0, "engagement in seconds")
	f.StringVar(&in.DetectedDueDate, "due", "", "deadline the activity points at")

	return cmd
}
