package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newCardsCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "cards <video-key>",
		Short: "Export flashcards and media for a catalogued video",
		Long: "Cut an audio clip and a still frame for every cleaned segment of the " +
			"video and write cards.csv for Anki import. Existing media files are reused.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.manager()
			if err != nil {
				return err
			}
			res, err := mgr.RunStage(cmd.Context(), args[0], "cards")
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Exported %d cards to %s\n", res.Video.Cards, mgr.Paths(res.Video.Key).Cards)
			return nil
		},
	}
}
