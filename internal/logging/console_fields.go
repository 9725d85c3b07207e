package logging

import (
	"cmp"
	"fmt"
	"log/slog"
	"slices"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// infoAttrLimit caps the fields shown on an info line; the rest are counted
// as hidden.
const infoAttrLimit = 8

type render int

const (
	renderPlain render = iota
	renderCount
	renderBytes
	renderDuration
	renderPercent
	renderHidden
)

// fieldSpec controls how a known key appears on info lines. Known keys are
// shown in rank order ahead of unknown ones.
type fieldSpec struct {
	label  string
	rank   int
	render render
}

var fieldSpecs = map[string]fieldSpec{
	FieldEventType:       {"Event", 1, renderPlain},
	FieldProgressPercent: {"Progress", 2, renderPercent},
	"video_title":        {"Video", 3, renderPlain},
	"video_file":         {"File", 4, renderPlain},
	"command":            {"Command", 5, renderPlain},
	"error_message":      {"Error Message", 6, renderPlain},
	FieldErrorHint:       {"Hint", 7, renderPlain},
	FieldImpact:          {"Impact", 8, renderPlain},
	"status":             {"Status", 9, renderPlain},
	"frames":             {"Frames", 10, renderCount},
	"fps":                {"FPS", 11, renderPlain},
	"resolution":         {"Resolution", 12, renderPlain},
	"boundaries":         {"Boundaries", 13, renderCount},
	"merged":             {"Merged", 14, renderCount},
	"written":            {"Written", 15, renderCount},
	"dropped_empty":      {"Dropped (empty)", 16, renderCount},
	"dropped_short":      {"Dropped (short)", 17, renderCount},
	"segment_start":      {"From Frame", 18, renderCount},
	"segment_end":        {"To Frame", 19, renderCount},
	"text":               {"Text", 20, renderPlain},
	"cards":              {"Cards", 21, renderCount},
	"stage_duration":     {"Duration", 22, renderDuration},
	"output_bytes":       {"Output", 23, renderBytes},
	"reason":             {"Reason", 24, renderPlain},
	FieldCorrelationID:   {"", 0, renderHidden},
	"score":              {"", 0, renderHidden},
}

// Subject fields are printed in the header, never as fields.
var subjectKeys = map[string]bool{"": true, FieldVideoKey: true, FieldStage: true, FieldComponent: true}

type infoField struct {
	label string
	value string
}

// selectInfoFields formats attrs for an info line: known keys first in rank
// order, then the rest as they arrived. Internal identifiers, paths and
// overlong values are hidden unless includeDebug is set. limit 0 means no
// cap. The second result counts hidden fields.
func selectInfoFields(attrs []kv, limit int, includeDebug bool) ([]infoField, int) {
	ordered := slices.Clone(attrs)
	slices.SortStableFunc(ordered, func(a, b kv) int {
		return cmp.Compare(rankOf(a.key), rankOf(b.key))
	})

	var out []infoField
	hidden := 0
	for _, a := range ordered {
		if subjectKeys[a.key] {
			continue
		}
		spec, known := fieldSpecs[a.key]
		value := formatValueForKey(a.key, a.value)
		if !includeDebug && (isInternalKey(a.key) || tooLong(a.key, value)) {
			hidden++
			continue
		}
		if limit > 0 && len(out) >= limit {
			hidden++
			continue
		}
		label := spec.label
		if !known || label == "" {
			label = titleizeKey(a.key)
		}
		out = append(out, infoField{label: label, value: value})
	}
	return out, hidden
}

func rankOf(key string) int {
	if spec, ok := fieldSpecs[key]; ok && spec.rank > 0 {
		return spec.rank
	}
	return len(fieldSpecs) + 1
}

func isInternalKey(key string) bool {
	if spec, ok := fieldSpecs[key]; ok {
		return spec.render == renderHidden
	}
	return strings.HasSuffix(key, "_id") ||
		strings.HasPrefix(key, "ffprobe.") ||
		strings.Contains(key, "_path") ||
		strings.Contains(key, "_dir")
}

func tooLong(key, value string) bool {
	switch key {
	case "error", "error_message", "command", "text":
		return false
	}
	return len(value) > 120
}

// formatValueForKey renders v the way its key reads best: counts with
// thousands separators, sizes in SI units, booleans as yes/no.
func formatValueForKey(key string, v slog.Value) string {
	v = v.Resolve()
	switch kind := renderFor(key); {
	case kind == renderBytes && v.Kind() == slog.KindInt64 && v.Int64() >= 0:
		return humanize.Bytes(uint64(v.Int64()))
	case kind == renderBytes && v.Kind() == slog.KindUint64:
		return humanize.Bytes(v.Uint64())
	case kind == renderDuration && v.Kind() == slog.KindDuration:
		return v.Duration().Round(time.Millisecond).String()
	case kind == renderPercent && v.Kind() == slog.KindFloat64:
		return fmt.Sprintf("%.1f%%", v.Float64())
	case kind == renderCount && v.Kind() == slog.KindInt64:
		return humanize.Comma(v.Int64())
	case v.Kind() == slog.KindBool:
		if v.Bool() {
			return "yes"
		}
		return "no"
	}
	value := formatValue(v)
	if key == "error" || key == "error_message" {
		value = truncate(strings.TrimSpace(value), 200)
	}
	return value
}

// renderFor falls back to suffix conventions for keys not in fieldSpecs.
func renderFor(key string) render {
	if spec, ok := fieldSpecs[key]; ok {
		return spec.render
	}
	switch {
	case strings.HasSuffix(key, "_bytes") || key == "size":
		return renderBytes
	case strings.HasSuffix(key, "_duration") || strings.HasSuffix(key, "_elapsed") || key == "elapsed" || key == "duration":
		return renderDuration
	case strings.HasSuffix(key, "_percent"):
		return renderPercent
	}
	return renderPlain
}

func truncate(value string, n int) string {
	if len(value) <= n {
		return value
	}
	return value[:n] + "…"
}

func titleizeKey(key string) string {
	words := strings.FieldsFunc(key, func(r rune) bool {
		return r == '_' || r == '-' || r == '.'
	})
	// Casers keep state between calls and cannot be shared across handlers.
	return cases.Title(language.English).String(strings.Join(words, " "))
}
