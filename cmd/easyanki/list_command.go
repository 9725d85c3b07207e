package main

import (
	"fmt"
	"strconv"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"easyanki/internal/catalog"
)

type videoView struct {
	ID        int64   `json:"id"`
	Key       string  `json:"key"`
	Title     string  `json:"title"`
	Language  string  `json:"language"`
	FPS       float64 `json:"fps"`
	Stage     string  `json:"stage"`
	Segments  int     `json:"segments"`
	Cleaned   int     `json:"cleaned"`
	Cards     int     `json:"cards"`
	Error     string  `json:"error,omitempty"`
	UpdatedAt string  `json:"updated_at"`
}

func newListCommand(ctx *commandContext) *cobra.Command {
	var stageFlags []string
	var asJSON bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List catalogued videos",
		RunE: func(cmd *cobra.Command, args []string) error {
			stages := make([]catalog.Stage, 0, len(stageFlags))
			for _, raw := range stageFlags {
				stage, ok := catalog.ParseStage(raw)
				if !ok {
					return fmt.Errorf("unknown stage %q", raw)
				}
				stages = append(stages, stage)
			}
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			videos, err := store.List(cmd.Context(), stages...)
			if err != nil {
				return err
			}

			if asJSON {
				views := make([]videoView, 0, len(videos))
				for _, v := range videos {
					views = append(views, videoView{
						ID:        v.ID,
						Key:       v.Key,
						Title:     v.Title,
						Language:  v.Language,
						FPS:       v.FPS,
						Stage:     string(v.Stage),
						Segments:  v.Segments,
						Cleaned:   v.Cleaned,
						Cards:     v.Cards,
						Error:     v.ErrorMessage,
						UpdatedAt: v.UpdatedAt.UTC().Format(time.RFC3339),
					})
				}
				return writeJSON(cmd, views)
			}

			out := cmd.OutOrStdout()
			if len(videos) == 0 {
				fmt.Fprintln(out, "No videos in the catalog")
				return nil
			}
			rows := make([][]string, 0, len(videos))
			for _, v := range videos {
				stage := string(v.Stage)
				if v.Stage == catalog.StageFailed && v.FailedStage != "" {
					stage = fmt.Sprintf("failed (%s)", v.FailedStage)
				}
				rows = append(rows, []string{
					strconv.FormatInt(v.ID, 10),
					v.Key,
					v.Title,
					stage,
					strconv.Itoa(v.Segments),
					strconv.Itoa(v.Cards),
					humanize.Time(v.UpdatedAt),
				})
			}
			fmt.Fprintln(out, renderTable(videoColumns, rows))
			return nil
		},
	}

	cmd.Flags().StringSliceVar(&stageFlags, "stage", nil, "Only list videos in these stages")
	cmd.Flags().BoolVar(&asJSON, "json", false, "Print JSON instead of a table")
	return cmd
}

func newRetryCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "retry [video-key...]",
		Short: "Return failed videos to the stage before the failure",
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			n, err := store.RetryFailed(cmd.Context(), args...)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Reset %d failed videos\n", n)
			return nil
		},
	}
}

func newRemoveCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "remove <video-key>",
		Short: "Remove a video from the catalog (outputs stay on disk)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			store, err := ctx.ensureStore()
			if err != nil {
				return err
			}
			removed, err := store.Remove(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			if !removed {
				return fmt.Errorf("video %q not found", args[0])
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Removed %s\n", args[0])
			return nil
		},
	}
}

var videoColumns = []column{
	{title: "ID", numeric: true},
	{title: "Key"},
	{title: "Title"},
	{title: "Stage"},
	{title: "Segments", numeric: true},
	{title: "Cards", numeric: true},
	{title: "Updated"},
}
