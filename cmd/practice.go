package cmd

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var practiceCmd = &cobra.Command{
	Use:   "practice CATEGORY correct|wrong",
	Short: "Record the outcome of one exercise",
	Long: "Record one answered exercise outside an assessment, e.g. " +
		"'fluentz practice idioms correct'. Use --action to also count it " +
		"toward today's challenge.",
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		category := strings.ToLower(strings.TrimSpace(args[0]))
		if category == "" {
			return fmt.Errorf("category must not be empty")
		}
		var correct bool
		switch strings.ToLower(args[1]) {
		case "correct", "right", "yes", "y":
			correct = true
		case "wrong", "incorrect", "no", "n":
		default:
			return fmt.Errorf("outcome must be correct or wrong, got %q", args[1])
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := warnPersist(cmd, e.tracker.OnExerciseCompleted(cmd.Context(), category, correct)); err != nil {
			return err
		}
		if action, _ := cmd.Flags().GetString("action"); action != "" {
			_, err := e.tracker.OnActionPerformed(cmd.Context(), challengeAction(action))
			if err := warnPersist(cmd, err); err != nil {
				return err
			}
		}

		t := e.tracker.Performance.Get(category)
		fmt.Fprintf(cmd.OutOrStdout(), "%s: %d/%d correct\n", category, t.Correct, t.Total)
		return nil
	},
}

func init() {
	practiceCmd.Flags().String("action", "", "Challenge action to count (e.g. grammar, reading)")
}
