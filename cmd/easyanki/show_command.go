package main

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

func newShowCommand(ctx *commandContext) *cobra.Command {
	var limit int

	cmd := &cobra.Command{
		Use:         "show <csv>",
		Short:       "Render a segments or cards CSV as a table",
		Args:        cobra.ExactArgs(1),
		Annotations: map[string]string{"skipConfigLoad": "true"},
		RunE: func(cmd *cobra.Command, args []string) error {
			header, rows, err := readCSV(args[0])
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			total := len(rows)
			if limit > 0 && len(rows) > limit {
				rows = rows[:limit]
			}
			columns := make([]column, len(header))
			for i, name := range header {
				columns[i] = column{title: name, numeric: strings.HasSuffix(name, "_frame")}
			}
			fmt.Fprintln(out, renderTable(columns, rows))
			if len(rows) < total {
				fmt.Fprintf(out, "Showing %d of %d rows\n", len(rows), total)
			}
			return nil
		},
	}

	cmd.Flags().IntVarP(&limit, "limit", "n", 0, "Show at most this many rows")
	return cmd
}

// readCSV loads any easyanki CSV. Multi-line text cells are joined with " / "
// so each segment stays on one table row.
func readCSV(path string) ([]string, [][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	header, err := r.Read()
	if errors.Is(err, io.EOF) {
		return nil, nil, fmt.Errorf("%s is empty", path)
	}
	if err != nil {
		return nil, nil, fmt.Errorf("read %s: %w", path, err)
	}
	var rows [][]string
	for {
		record, err := r.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return nil, nil, fmt.Errorf("read %s: %w", path, err)
		}
		for i, cell := range record {
			record[i] = strings.ReplaceAll(cell, "\n", " / ")
		}
		rows = append(rows, record)
	}
	return header, rows, nil
}
