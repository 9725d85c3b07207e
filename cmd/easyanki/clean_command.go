package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easyanki/internal/cleaner"
)

func newCleanCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "clean <segments_raw.csv> <segments_cleaned.csv>",
		Short: "Split raw segments into learning and English lines",
		Long: "Keep segments whose text has exactly two lines, the caption in the " +
			"learning language above its English translation. Other segments are " +
			"dropped with a warning.",
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}
			stats, err := cleaner.CleanFile(args[0], args[1], logger)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Kept %d segments, dropped %d; wrote %s\n", stats.Kept, stats.Dropped, args[1])
			return nil
		},
	}
}
