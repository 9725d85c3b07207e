package main

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"easyanki/internal/logging"
	"easyanki/internal/segment"
	"easyanki/internal/segstore"
	"easyanki/internal/workflow"
)

func newSegmentizeCommand(ctx *commandContext) *cobra.Command {
	var (
		lang         string
		outPath      string
		similarity   float64
		textCutoff   float64
		minFrames    int
		minSeconds   float64
		keepTrailing bool
		noTrailing   bool
		monolingual  bool
	)

	cmd := &cobra.Command{
		Use:   "segmentize <video>",
		Short: "Split a captioned video into caption segments",
		Long: "Scan the subtitle band of every frame, OCR each scene and merge " +
			"neighbouring scenes that show the same caption. Writes " +
			"start_frame,end_frame,text rows to --out (\"-\" for stdout).",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			logger, err := ctx.ensureLogger()
			if err != nil {
				return err
			}

			opts := workflow.SegmentizeOptionsFromConfig(cfg)
			opts.Logger = logger
			flags := cmd.Flags()
			if flags.Changed("lang") {
				opts.Language = lang
			}
			if flags.Changed("similarity-cutoff") {
				opts.SimilarityCutoff = similarity
			}
			if flags.Changed("caption-text-similarity-cutoff") {
				opts.CaptionTextSimilarityCutoff = textCutoff
			}
			if flags.Changed("min-frames") {
				opts.MinSegmentFrames = minFrames
			}
			if flags.Changed("min-seconds") {
				opts.MinSegmentSeconds = minSeconds
			}
			if keepTrailing && noTrailing {
				return errors.New("--keep-trailing and --drop-trailing are mutually exclusive")
			}
			if keepTrailing {
				opts.FlushTrailing = true
			}
			if noTrailing {
				opts.FlushTrailing = false
			}
			if monolingual {
				opts.Bilingual = false
			}
			if err := validateCutoff("similarity-cutoff", opts.SimilarityCutoff); err != nil {
				return err
			}
			if err := validateCutoff("caption-text-similarity-cutoff", opts.CaptionTextSimilarityCutoff); err != nil {
				return err
			}
			if opts.MinSegmentFrames < 1 {
				return fmt.Errorf("--min-frames must be at least 1, got %d", opts.MinSegmentFrames)
			}
			if ctx.segmentizeHook != nil {
				ctx.segmentizeHook(&opts)
			}

			var sink *segstore.Writer
			toStdout := strings.TrimSpace(outPath) == "-"
			if toStdout {
				sink, err = segstore.NewWriter(cmd.OutOrStdout())
			} else {
				sink, err = segstore.Create(outPath)
			}
			if err != nil {
				return err
			}

			summary, _, err := workflow.Segmentize(cmd.Context(), args[0], opts, sink)
			if err != nil {
				_ = sink.Abort()
				return err
			}
			if err := sink.Close(); err != nil {
				return err
			}
			logSummary(logger, summary)
			if !toStdout {
				fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s segments from %s frames to %s\n",
					humanize.Comma(int64(summary.Written)), humanize.Comma(int64(summary.Frames)), outPath)
			}
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&lang, "lang", "", "Caption language (ISO 639 code or tesseract name)")
	flags.StringVarP(&outPath, "out", "o", "segments_raw.csv", "Output CSV path, or - for stdout")
	flags.Float64Var(&similarity, "similarity-cutoff", 0, "SSIM below which consecutive frames start a new scene")
	flags.Float64Var(&textCutoff, "caption-text-similarity-cutoff", 0, "Normalized text similarity at which scenes merge")
	flags.IntVar(&minFrames, "min-frames", 0, "Drop segments shorter than this many frames")
	flags.Float64Var(&minSeconds, "min-seconds", 0, "Drop segments shorter than this many seconds")
	flags.BoolVar(&keepTrailing, "keep-trailing", false, "Emit the segment after the last scene change")
	flags.BoolVar(&noTrailing, "drop-trailing", false, "Discard the segment after the last scene change")
	flags.BoolVar(&monolingual, "monolingual", false, "Do not add English to the OCR languages")
	return cmd
}

func validateCutoff(name string, value float64) error {
	if value <= 0 || value > 1 {
		return fmt.Errorf("--%s must be in (0, 1], got %v", name, value)
	}
	return nil
}

func logSummary(logger *slog.Logger, summary segment.Summary) {
	logger.Info("segmentation finished", logging.Args(
		logging.Int("frames", summary.Frames),
		logging.Int("boundaries", summary.Boundaries),
		logging.Int("merged", summary.Merged),
		logging.Int("segments", summary.Written),
		logging.Int("dropped_empty", summary.DroppedEmpty),
		logging.Int("dropped_short", summary.DroppedShort),
	)...)
}
