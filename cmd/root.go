package cmd

import (
	"github.com/spf13/cobra"

	"github.com/abhisek/fluentz/internal/store"
)

var rootCmd = &cobra.Command{
	Use:   "fluentz",
	Short: "English practice tracker",
	Long: "Fluentz runs timed English assessments in the terminal and tracks " +
		"skill progress, daily challenges, streaks and badges.",
	SilenceUsage: true,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().String("db", "", "Path to SQLite database file (overrides FLUENTZ_DB env var)")
	rootCmd.PersistentFlags().String("user", "", "Learner identity (overrides FLUENTZ_USER env var)")
	rootCmd.PersistentFlags().String("store", "", "Storage backend: sqlite, redis or memory (overrides FLUENTZ_STORE env var)")

	rootCmd.AddCommand(examCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(challengeCmd)
	rootCmd.AddCommand(vocabCmd)
	rootCmd.AddCommand(achievementsCmd)
	rootCmd.AddCommand(practiceCmd)
	rootCmd.AddCommand(historyCmd)
	rootCmd.AddCommand(resetCmd)
	rootCmd.AddCommand(versionCmd)
}

// resolveDBPath returns the database path using --db flag (highest priority),
// then FLUENTZ_DB env var, then the default XDG path.
func resolveDBPath(cmd *cobra.Command, fromEnv string) (string, error) {
	if p, _ := cmd.Flags().GetString("db"); p != "" {
		return p, store.EnsureDir(p)
	}
	if fromEnv != "" {
		return fromEnv, store.EnsureDir(fromEnv)
	}
	return store.DefaultDBPath()
}
