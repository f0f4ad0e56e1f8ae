package cmd

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/challenge"
)

var challengeCmd = &cobra.Command{
	Use:   "challenge",
	Short: "Manage today's challenge",
}

var challengeShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show today's challenge and streak",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		printChallenge(cmd.OutOrStdout(), e.tracker.Challenge())
		return nil
	},
}

var challengeSetCmd = &cobra.Command{
	Use:   "set TYPE TARGET [DESCRIPTION...]",
	Short: "Set today's challenge (replaces any existing one)",
	Args:  cobra.MinimumNArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		target, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("target must be a number: %w", err)
		}
		typ := challengeAction(args[0])
		desc := strings.Join(args[2:], " ")
		if desc == "" {
			desc = fmt.Sprintf("%d x %s", target, typ)
		}

		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		if err := warnPersist(cmd, e.tracker.Challenges.SetChallenge(cmd.Context(), typ, desc, target)); err != nil {
			return err
		}
		printChallenge(cmd.OutOrStdout(), e.tracker.Challenge())
		return nil
	},
}

var challengeTrackCmd = &cobra.Command{
	Use:   "track ACTION",
	Short: "Record one action toward today's challenge",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		advanced, err := e.tracker.OnActionPerformed(cmd.Context(), challengeAction(args[0]))
		if err := warnPersist(cmd, err); err != nil {
			return err
		}
		if !advanced {
			fmt.Fprintln(cmd.OutOrStdout(), "No matching challenge for today.")
		}
		printChallenge(cmd.OutOrStdout(), e.tracker.Challenge())
		return nil
	},
}

var challengeDailyCmd = &cobra.Command{
	Use:   "daily",
	Short: "Pick today's challenge from the built-in catalog",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		set, err := e.tracker.Challenges.EnsureDaily(cmd.Context())
		if err := warnPersist(cmd, err); err != nil {
			return err
		}
		if !set {
			fmt.Fprintln(cmd.OutOrStdout(), "Today's challenge is already set.")
		}
		printChallenge(cmd.OutOrStdout(), e.tracker.Challenge())
		return nil
	},
}

func init() {
	challengeCmd.AddCommand(challengeShowCmd)
	challengeCmd.AddCommand(challengeSetCmd)
	challengeCmd.AddCommand(challengeTrackCmd)
	challengeCmd.AddCommand(challengeDailyCmd)
}

func challengeAction(s string) challenge.ActionType {
	return challenge.ActionType(strings.ToLower(strings.TrimSpace(s)))
}
