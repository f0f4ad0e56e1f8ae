package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/challenge"
)

var vocabCmd = &cobra.Command{
	Use:   "vocab",
	Short: "Manage saved vocabulary",
}

var vocabAddCmd = &cobra.Command{
	Use:   "add WORD...",
	Short: "Save words",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		for _, w := range args {
			added, err := e.tracker.Vocabulary.Add(ctx, w)
			if err := warnPersist(cmd, err); err != nil {
				return err
			}
			if !added {
				fmt.Fprintf(out, "%q is already saved\n", w)
				continue
			}
			fmt.Fprintf(out, "saved %q\n", w)
			_, err = e.tracker.OnActionPerformed(ctx, challenge.ActionDictionary)
			if err := warnPersist(cmd, err); err != nil {
				return err
			}
		}
		return nil
	},
}

var vocabRemoveCmd = &cobra.Command{
	Use:     "rm WORD...",
	Aliases: []string{"remove"},
	Short:   "Remove saved words",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		for _, w := range args {
			removed, err := e.tracker.Vocabulary.Remove(cmd.Context(), w)
			if err := warnPersist(cmd, err); err != nil {
				return err
			}
			if !removed {
				fmt.Fprintf(cmd.OutOrStdout(), "%q was not saved\n", w)
			}
		}
		return nil
	},
}

var vocabListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved words",
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := openEnv(cmd)
		if err != nil {
			return err
		}
		defer e.Close()

		words := e.tracker.Vocabulary.Words()
		for _, w := range words {
			fmt.Fprintln(cmd.OutOrStdout(), w)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "\n%d words\n", len(words))
		return nil
	},
}

func init() {
	vocabCmd.AddCommand(vocabAddCmd)
	vocabCmd.AddCommand(vocabRemoveCmd)
	vocabCmd.AddCommand(vocabListCmd)
}
