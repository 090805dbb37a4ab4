package main

import (
	"github.com/spf13/cobra"
)

func newRootCommand() *cobra.Command {
	var catalogFlag string

	ctx := newCommandContext(&catalogFlag)

	rootCmd := &cobra.Command{
		Use:           "podcast-catalog",
		Short:         "Search and serve a local podcast catalog",
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	rootCmd.PersistentFlags().StringVar(&catalogFlag, "catalog", "", "Catalog directory (default $PODCAST_CATALOG_DIR or ./catalog)")

	rootCmd.AddCommand(newServeCommand(ctx))
	rootCmd.AddCommand(newSearchCommand(ctx))
	rootCmd.AddCommand(newSuggestCommand(ctx))
	rootCmd.AddCommand(newStatsCommand(ctx))
	rootCmd.AddCommand(newCategoriesCommand(ctx))
	rootCmd.AddCommand(newShowCommand(ctx))

	return rootCmd
}
