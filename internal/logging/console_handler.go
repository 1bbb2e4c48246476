package logging

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/jedib0t/go-pretty/v6/text"
	"github.com/mattn/go-isatty"
)

// infoAttrLimit caps the fields printed on an INFO line; DEBUG prints all.
const infoAttrLimit = 6

// subjectKeys are lifted out of the field list into the line header.
var subjectKeys = []string{FieldRunID, FieldBatchIndex, FieldFolder}

type field struct {
	key   string
	value slog.Value
}

// prettyHandler writes one human-oriented line per record:
//
//	2026-01-02 15:04:05 INFO  [orchestrator] Run 0123abcd · Batch #2 – batch classified  assignments=30
type prettyHandler struct {
	mu        *sync.Mutex
	w         io.Writer
	level     *slog.LevelVar
	color     bool
	addSource bool
	prefix    string
	preset    []field
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	color := false
	if f, ok := w.(*os.File); ok {
		color = isatty.IsTerminal(f.Fd())
	}
	return &prettyHandler{mu: &sync.Mutex{}, w: w, level: lvl, color: color, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = slices.Clone(h.preset)
	for _, a := range attrs {
		next.preset = appendField(next.preset, h.prefix, a)
	}
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}
	next := *h
	next.prefix = h.prefix + name + "."
	return &next
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	fields := slices.Clone(h.preset)
	record.Attrs(func(a slog.Attr) bool {
		fields = appendField(fields, h.prefix, a)
		return true
	})
	fields = lastWins(fields)

	var component string
	subject := map[string]string{}
	body := fields[:0]
	for _, f := range fields {
		if f.key == FieldComponent {
			component = plainValue(f.value)
			continue
		}
		if slices.Contains(subjectKeys, f.key) {
			subject[f.key] = plainValue(f.value)
		}
		body = append(body, f)
	}

	ts := record.Time
	if ts.IsZero() {
		ts = time.Now()
	}
	var sb strings.Builder
	sb.WriteString(consoleTime(ts))
	sb.WriteByte(' ')
	sb.WriteString(h.levelLabel(record.Level))
	if component != "" {
		sb.WriteString(" [" + component + "]")
	}
	if s := subjectLine(subject); s != "" {
		sb.WriteString(" " + s)
	}
	msg := strings.TrimSpace(record.Message)
	if msg == "" {
		msg = "(no message)"
	}
	sb.WriteString(" – " + msg)
	if h.addSource {
		if src := record.Source(); src != nil && src.File != "" {
			sb.WriteString(" (" + filepath.Base(src.File) + ":" + strconv.Itoa(src.Line) + ")")
		}
	}

	hidden := 0
	if record.Level >= slog.LevelInfo && len(body) > infoAttrLimit {
		hidden = len(body) - infoAttrLimit
		body = body[:infoAttrLimit]
	}
	for i, f := range body {
		if i == 0 {
			sb.WriteString("  ")
		} else {
			sb.WriteByte(' ')
		}
		sb.WriteString(f.key + "=" + quotedValue(f.value))
	}
	if hidden > 0 {
		sb.WriteString(" (+" + strconv.Itoa(hidden) + " more)")
	}
	sb.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := io.WriteString(h.w, sb.String())
	return err
}

func (h *prettyHandler) levelLabel(level slog.Level) string {
	var label string
	var colors text.Colors
	switch {
	case level >= slog.LevelError:
		label, colors = "ERROR", text.Colors{text.FgRed, text.Bold}
	case level >= slog.LevelWarn:
		label, colors = "WARN ", text.Colors{text.FgYellow}
	case level >= slog.LevelInfo:
		label, colors = "INFO ", text.Colors{text.FgCyan}
	default:
		label, colors = "DEBUG", text.Colors{text.FgHiBlack}
	}
	if h.color {
		return colors.Sprint(label)
	}
	return label
}

func subjectLine(subject map[string]string) string {
	parts := make([]string, 0, len(subjectKeys))
	if run := strings.TrimSpace(subject[FieldRunID]); run != "" {
		if len(run) > 8 {
			run = run[:8]
		}
		parts = append(parts, "Run "+run)
	}
	if batch := strings.TrimSpace(subject[FieldBatchIndex]); batch != "" {
		parts = append(parts, "Batch #"+batch)
	}
	if folder := strings.TrimSpace(subject[FieldFolder]); folder != "" {
		parts = append(parts, folder)
	}
	return strings.Join(parts, " · ")
}

// appendField flattens groups into dotted keys.
func appendField(dst []field, prefix string, a slog.Attr) []field {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return dst
	}
	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}
		for _, child := range a.Value.Group() {
			dst = appendField(dst, prefix, child)
		}
		return dst
	}
	if a.Key == "" {
		return dst
	}
	return append(dst, field{key: prefix + a.Key, value: a.Value})
}

// lastWins keeps the first position of each key with its latest value.
func lastWins(fields []field) []field {
	seen := make(map[string]int, len(fields))
	out := make([]field, 0, len(fields))
	for _, f := range fields {
		if i, ok := seen[f.key]; ok {
			out[i].value = f.value
			continue
		}
		seen[f.key] = len(out)
		out = append(out, f)
	}
	return out
}
