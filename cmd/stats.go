package cmd

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/challenge"
	"github.com/abhisek/fluentz/internal/skills"
)

var statsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show the skill tree, streak and today's challenge",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		printSkillTree(out, e.tracker.SkillTree())
		fmt.Fprintln(out)
		printChallenge(out, e.tracker.Challenge())
		return nil
	},
}

func printSkillTree(w io.Writer, tree []skills.Skill) {
	fmt.Fprintf(w, "%-12s  %9s  %5s  %-12s  %s\n", "Skill", "Correct", "%", "Tier", "Level")
	fmt.Fprintln(w, strings.Repeat("─", 58))
	for _, s := range tree {
		if !s.Rated() {
			fmt.Fprintf(w, "%-12s  %9s  %5s  %-12s  %s\n", s.Group.Name, "-", "-", s.Tier.DisplayName(), s.Band.DisplayName())
			continue
		}
		fmt.Fprintf(w, "%-12s  %9s  %4d%%  %-12s  %s\n",
			s.Group.Name, fmt.Sprintf("%d/%d", s.Correct, s.Total), s.Percent,
			s.Tier.DisplayName(), s.Band.DisplayName())
	}
	fmt.Fprintf(w, "\n%d of %d skills tracked\n", len(skills.Tracked(tree)), len(tree))
}

func printChallenge(w io.Writer, st challenge.State) {
	fmt.Fprintf(w, "Streak: %d day(s)  (longest %d)\n", st.Streak, st.LongestStreak)
	switch {
	case st.Current == nil && st.Stale:
		fmt.Fprintln(w, "Today's challenge: none yet (yesterday's has expired)")
	case st.Current == nil:
		fmt.Fprintln(w, "Today's challenge: none yet")
	default:
		c := st.Current
		status := "in progress"
		if c.Completed {
			status = "completed"
		}
		fmt.Fprintf(w, "Today's challenge: %s [%s] %d/%d, %s\n", c.Description, c.Type, c.Progress, c.Target, status)
	}
}
