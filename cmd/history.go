package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/history"
	"github.com/abhisek/fluentz/internal/ui/layout"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Show recent assessment results",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		results := e.tracker.History.List()
		if len(results) == 0 {
			fmt.Fprintln(out, "No assessments yet.")
			return nil
		}

		fmt.Fprintf(out, "%-16s  %-10s  %7s  %6s  %s\n", "Completed", "Kind", "Score", "Time", "")
		fmt.Fprintln(out, strings.Repeat("─", 56))
		for _, r := range results {
			note := ""
			if r.Expired {
				note = "time ran out"
			}
			fmt.Fprintf(out, "%-16s  %-10s  %7s  %6s  %s\n",
				r.CompletedAt.Local().Format("2006-01-02 15:04"), r.Kind,
				fmt.Sprintf("%d/%d", r.Score, r.TotalQuestions),
				layout.FormatClock(r.SecondsElapsed), note)
		}
		fmt.Fprintf(out, "\n%d of the last %d results\n", len(results), history.MaxEntries)
		return nil
	},
}
