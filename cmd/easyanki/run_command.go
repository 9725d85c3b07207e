package main

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"easyanki/internal/workflow"
)

func newRunCommand(ctx *commandContext) *cobra.Command {
	var all bool
	var stage string

	cmd := &cobra.Command{
		Use:   "run [video-key]",
		Short: "Run a catalogued video through every stage",
		Long: "Resume the video from its first missing output (segments_raw.csv, " +
			"segments_cleaned.csv, cards.csv). Delete an output to redo that stage " +
			"and the ones after it, or pass --stage to redo a single stage.",
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if all == (len(args) == 1) {
				return errors.New("pass a video key or --all")
			}
			mgr, err := ctx.manager()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			if all {
				if stage != "" {
					return errors.New("--stage needs a single video key")
				}
				results, err := mgr.RunAll(cmd.Context())
				for _, res := range results {
					printRunResult(out, res)
				}
				return err
			}

			var res workflow.Result
			if stage != "" {
				res, err = mgr.RunStage(cmd.Context(), args[0], stage)
			} else {
				res, err = mgr.Run(cmd.Context(), args[0])
			}
			if err != nil {
				return err
			}
			printRunResult(out, res)
			return nil
		},
	}

	cmd.Flags().BoolVar(&all, "all", false, "Run every video that is not carded yet")
	cmd.Flags().StringVar(&stage, "stage", "", "Redo only this stage (segmentize, clean or cards)")
	return cmd
}

func printRunResult(out io.Writer, res workflow.Result) {
	executed := "nothing"
	if len(res.Executed) > 0 {
		executed = strings.Join(res.Executed, ", ")
	}
	fmt.Fprintf(out, "%s: ran %s; %d segments, %d cleaned, %d cards (run %s)\n",
		res.Video.Key, executed, res.Video.Segments, res.Video.Cleaned, res.Video.Cards, res.RunID)
}
