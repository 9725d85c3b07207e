package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
	"github.com/spf13/cobra"
)

// column describes one table column; numeric columns are right aligned.
type column struct {
	title   string
	numeric bool
}

func renderTable(columns []column, rows [][]string) string {
	if len(columns) == 0 {
		return ""
	}
	tw := table.NewWriter()
	tw.SetStyle(table.StyleRounded)

	header := make(table.Row, len(columns))
	configs := make([]table.ColumnConfig, len(columns))
	for i, c := range columns {
		header[i] = c.title
		configs[i] = table.ColumnConfig{Number: i + 1, AlignHeader: text.AlignLeft, Align: text.AlignLeft}
		if c.numeric {
			configs[i].Align = text.AlignRight
		}
	}
	tw.AppendHeader(header)
	tw.SetColumnConfigs(configs)

	for _, row := range rows {
		r := make(table.Row, len(columns))
		for i := range r {
			r[i] = ""
			if i < len(row) {
				r[i] = row[i]
			}
		}
		tw.AppendRow(r)
	}
	return tw.Render()
}

func writeJSON(cmd *cobra.Command, v any) error {
	enc := json.NewEncoder(cmd.OutOrStdout())
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

type level int

const (
	levelInfo level = iota
	levelOK
	levelWarn
	levelError
)

var levelStyles = map[level]struct {
	label  string
	colors text.Colors
}{
	levelInfo:  {"INFO", text.Colors{text.FgBlue}},
	levelOK:    {"OK", text.Colors{text.FgGreen}},
	levelWarn:  {"WARN", text.Colors{text.FgYellow}},
	levelError: {"ERROR", text.Colors{text.FgRed}},
}

func passLevel(passed bool) level {
	if passed {
		return levelOK
	}
	return levelError
}

// statusReport collects "label: [LEVEL] detail" lines under "== Section =="
// headers. Colour is used only when writing to a terminal.
type statusReport struct {
	lines []string
	color bool
}

func newStatusReport(w io.Writer) *statusReport {
	return &statusReport{color: isTerminal(w)}
}

func (r *statusReport) section(title string) {
	if len(r.lines) > 0 {
		r.lines = append(r.lines, "")
	}
	head := fmt.Sprintf("== %s ==", strings.TrimSpace(title))
	rule := strings.Repeat("-", len(head))
	r.lines = append(r.lines, r.paint(levelInfo, head), r.paint(levelInfo, rule))
}

func (r *statusReport) add(label string, lv level, detail string) {
	marker := "[" + levelStyles[lv].label + "]"
	if detail != "" {
		marker += " " + detail
	}
	r.lines = append(r.lines, r.paint(lv, fmt.Sprintf("  %-18s %s", label+":", marker)))
}

func (r *statusReport) paint(lv level, s string) string {
	if !r.color {
		return s
	}
	return levelStyles[lv].colors.Sprint(s)
}

func (r *statusReport) WriteTo(w io.Writer) (int64, error) {
	n, err := fmt.Fprintln(w, strings.Join(r.lines, "\n"))
	return int64(n), err
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	fd := f.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}
