package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var achievementsCmd = &cobra.Command{
	Use:     "achievements",
	Aliases: []string{"badges"},
	Short:   "List badges and which are unlocked",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		out := cmd.OutOrStdout()
		all := e.tracker.Achievements()
		n := 0
		for _, s := range all {
			mark := "  "
			if s.Unlocked {
				mark = s.Icon
				n++
			}
			fmt.Fprintf(out, "%s  %-16s %s\n", mark, s.Title, s.Description)
		}
		fmt.Fprintf(out, "\n%d of %d unlocked\n", n, len(all))
		return nil
	},
}
