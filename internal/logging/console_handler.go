package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// consoleHandler renders one header line per record,
//
//	2026-01-02 15:04:05.000 INFO [segmentize] lesson-1 (segmentize) - scanning frames
//
// followed by an indented line of labelled fields. Info and above show the
// highlighted fields with friendly labels; debug records list every raw
// key=value pair.
type consoleHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     slog.Leveler
	addSource bool
	attrs     []kv
	groups    []string
}

type kv struct {
	key   string
	value slog.Value
}

func newConsoleHandler(w io.Writer, lvl slog.Leveler, addSource bool) slog.Handler {
	return &consoleHandler{mu: &sync.Mutex{}, w: w, level: lvl, addSource: addSource}
}

func (h *consoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *consoleHandler) Handle(ctx context.Context, record slog.Record) error {
	if !h.Enabled(ctx, record.Level) {
		return nil
	}
	attrs := append([]kv(nil), h.attrs...)
	record.Attrs(func(a slog.Attr) bool {
		flattenAttr(&attrs, h.groups, a)
		return true
	})
	attrs = dedupeKVsByKey(attrs)

	var component, videoKey, stage string
	fields := attrs[:0:0]
	for _, a := range attrs {
		switch a.key {
		case FieldComponent:
			component = attrString(a.value)
			continue
		case FieldVideoKey:
			videoKey = attrString(a.value)
		case FieldStage:
			stage = attrString(a.value)
		}
		fields = append(fields, a)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	message := strings.TrimSpace(record.Message)
	if message == "" {
		message = "(no message)"
	}

	var buf bytes.Buffer
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(record.Level))
	if component != "" {
		buf.WriteString(" [" + component + "]")
	}
	if subject := composeSubject(videoKey, stage); subject != "" {
		buf.WriteString(" " + subject)
	}
	buf.WriteString(" - " + message)
	if src := record.Source(); h.addSource && src != nil {
		buf.WriteString(" [" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + "]")
	}
	buf.WriteByte('\n')

	var parts []string
	if record.Level < slog.LevelInfo {
		for _, a := range fields {
			parts = append(parts, a.key+"="+formatValue(a.value))
		}
	} else {
		selected, hidden := selectInfoFields(fields, infoAttrLimit, false)
		for _, f := range selected {
			parts = append(parts, f.label+": "+f.value)
		}
		if hidden > 0 {
			parts = append(parts, "+"+strconv.Itoa(hidden)+" hidden")
		}
	}
	if len(parts) > 0 {
		buf.WriteString("    ")
		buf.WriteString(strings.Join(parts, "  "))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.w.Write(buf.Bytes())
	return err
}

func (h *consoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.attrs = append([]kv(nil), h.attrs...)
	for _, a := range attrs {
		flattenAttr(&next.attrs, h.groups, a)
	}
	return &next
}

func (h *consoleHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

func composeSubject(videoKey, stage string) string {
	videoKey = strings.TrimSpace(videoKey)
	stage = strings.TrimSpace(stage)
	switch {
	case videoKey != "" && stage != "":
		return videoKey + " (" + stage + ")"
	case videoKey != "":
		return videoKey
	default:
		return stage
	}
}

// dedupeKVsByKey keeps the first position of each key with its last value.
func dedupeKVsByKey(attrs []kv) []kv {
	pos := make(map[string]int, len(attrs))
	out := make([]kv, 0, len(attrs))
	for _, a := range attrs {
		if a.key == "" {
			continue
		}
		if i, ok := pos[a.key]; ok {
			out[i].value = a.value
			continue
		}
		pos[a.key] = len(out)
		out = append(out, a)
	}
	return out
}

// flattenAttr appends attr to dst, expanding groups into dotted keys.
func flattenAttr(dst *[]kv, prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	attr.Value = attr.Value.Resolve()
	if attr.Value.Kind() == slog.KindGroup {
		next := prefix
		if attr.Key != "" {
			next = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, a := range attr.Value.Group() {
			flattenAttr(dst, next, a)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), attr.Key), ".")
		key = strings.TrimSuffix(key, ".")
	}
	*dst = append(*dst, kv{key: key, value: attr.Value})
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
