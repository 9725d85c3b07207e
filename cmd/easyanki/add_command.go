package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"easyanki/internal/workflow"
)

func newAddCommand(ctx *commandContext) *cobra.Command {
	var req workflow.AddRequest

	cmd := &cobra.Command{
		Use:   "add <video>",
		Short: "Register a local video file in the catalog",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			mgr, err := ctx.manager()
			if err != nil {
				return err
			}
			req.Path = args[0]
			video, err := mgr.Add(cmd.Context(), req)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Registered %s (#%d, %s)\n", video.Key, video.ID, video.Title)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&req.Key, "key", "", "Catalog key (defaults to the file name)")
	flags.StringVar(&req.Title, "title", "", "Video title used for card tags")
	flags.StringVar(&req.URL, "url", "", "Source URL stored on every card")
	flags.StringVar(&req.Language, "lang", "", "Caption language (defaults to the configured language)")
	flags.BoolVar(&req.Copy, "copy", false, "Copy the file into the work directory and record its checksum")
	return cmd
}
