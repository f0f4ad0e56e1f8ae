package cmd

import (
	"fmt"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/app"
	"github.com/abhisek/fluentz/internal/assessment"
	"github.com/abhisek/fluentz/internal/content"
)

var examCmd = &cobra.Command{
	Use:   "exam [FILE]",
	Short: "Take a timed assessment from a question set file",
	Long: "Take a timed assessment. With no FILE, resume the assessment left " +
		"running by a previous run. Ctrl+C pauses; the countdown continues " +
		"from where it stopped on the next run.",
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGTERM)
		defer stop()

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctrl := e.tracker.Assessment
		title := "Assessment"

		if ctrl.Status() == assessment.StatusActive {
			if len(args) > 0 {
				fmt.Fprintln(cmd.ErrOrStderr(), "An assessment is already running; resuming it. Abandon it with 'x' to start a new one.")
			}
		} else {
			if len(args) == 0 {
				return fmt.Errorf("no assessment to resume; pass a question set file")
			}
			set, err := content.LoadFile(args[0])
			if err != nil {
				return err
			}
			if set.Title != "" {
				title = set.Title
			}
			if err := warnPersist(cmd, ctrl.Start(ctx, set.Kind, set.Questions, set.DurationSeconds)); err != nil {
				return fmt.Errorf("start assessment: %w", err)
			}
		}

		e.tracker.Start(ctx)
		outcome, err := app.Run(ctx, app.Options{Tracker: e.tracker, Title: title})
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		switch outcome {
		case app.OutcomePaused:
			if ctrl.Status() == assessment.StatusActive {
				fmt.Fprintf(out, "Paused with %d seconds left. Run 'fluentz exam' to resume.\n", ctrl.Remaining())
			}
		case app.OutcomeAbandoned:
			fmt.Fprintln(out, "Assessment abandoned.")
		case app.OutcomeFinished:
			if res := ctrl.LastResult(); res != nil {
				fmt.Fprintf(out, "Score: %d/%d\n", res.Score, res.TotalQuestions)
			} else if h := e.tracker.History.List(); len(h) > 0 {
				fmt.Fprintf(out, "Score: %d/%d\n", h[0].Score, h[0].TotalQuestions)
			}
		}
		return nil
	},
}
