package main

import (
	"fmt"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"easyanki/internal/preflight"
)

func newStatusCommand(ctx *commandContext) *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Check the environment and summarize the catalog",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := ctx.ensureConfig()
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			report := newStatusReport(out)

			report.section("Environment")
			results := preflight.RunAll(cmd.Context(), cfg)
			for _, r := range results {
				report.add(r.Name, passLevel(r.Passed), r.Detail)
			}

			report.section("Catalog")
			if store, err := ctx.ensureStore(); err != nil {
				report.add("Catalog", levelError, err.Error())
			} else {
				check := preflight.CheckCatalog(cmd.Context(), store)
				results = append(results, check)
				detail := check.Detail
				if info, err := os.Stat(store.Path()); err == nil {
					detail += ", " + humanize.Bytes(uint64(info.Size()))
				}
				report.add("Database", passLevel(check.Passed), detail)
				if summary, err := store.Summarize(cmd.Context()); err == nil {
					report.add("Pending", levelInfo, humanize.Comma(int64(summary.Pending)))
					report.add("Processing", levelInfo, humanize.Comma(int64(summary.Processing)))
					report.add("Carded", levelOK, humanize.Comma(int64(summary.Done)))
					failed := levelOK
					if summary.Failed > 0 {
						failed = levelWarn
					}
					report.add("Failed", failed, humanize.Comma(int64(summary.Failed)))
				}
			}

			if _, err := report.WriteTo(out); err != nil {
				return err
			}
			if err := preflight.Err(results); err != nil {
				return fmt.Errorf("environment not ready: %w", err)
			}
			return nil
		},
	}
}
