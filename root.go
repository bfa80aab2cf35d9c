package main

import (
	"github.com/spf13/cobra"
)

// newRootCommand builds the command tree. The caller closes a when done.
func newRootCommand(a *app) *cobra.Command {
	rootCmd := &cobra.Command{
		Use:           "medlearn",
		Short:         "Flashcards with spaced repetition and practice quizzes",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			if cmd == cmd.Root() {
				return nil
			}
			return a.open()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&a.envFile, "env-file", "", "Environment file to load (default .env)")

	rootCmd.AddCommand(newImportCommand(a))
	rootCmd.AddCommand(newDecksCommand(a))
	rootCmd.AddCommand(newStatsCommand(a))
	rootCmd.AddCommand(newReviewCommand(a))
	rootCmd.AddCommand(newQuizCommand(a))
	rootCmd.AddCommand(newExportCommand(a))
	rootCmd.AddCommand(newRestoreCommand(a))
	rootCmd.AddCommand(newBackupCommand(a))
	rootCmd.AddCommand(newLessonsCommand(a))

	return rootCmd
}
