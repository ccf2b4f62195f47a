package log

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log/slog"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

type palette struct {
	key, str, num, time, src, msg lipgloss.Style
	yes, no                       lipgloss.Style
	level                         map[slog.Level]lipgloss.Style
}

func newPalette(w io.Writer) palette {
	r := lipgloss.NewRenderer(w)
	fg := func(c string) lipgloss.Style {
		return r.NewStyle().Inline(true).Foreground(lipgloss.Color(c))
	}

	return palette{
		key:  fg("8"),
		str:  fg("6"),
		num:  fg("3"),
		time: fg("4"),
		src:  fg("8"),
		msg:  r.NewStyle().Inline(true).Bold(true),
		yes:  fg("2"),
		no:   fg("1"),
		level: map[slog.Level]lipgloss.Style{
			slog.Level(LevelTrace): fg("5"),
			slog.LevelDebug:        fg("4"),
			slog.LevelInfo:         fg("2"),
			slog.LevelWarn:         fg("3"),
			slog.LevelError:        fg("1").Bold(true),
		},
	}
}

func (p palette) forLevel(l slog.Level) lipgloss.Style {
	for _, at := range []slog.Level{
		slog.LevelError, slog.LevelWarn, slog.LevelInfo, slog.LevelDebug,
	} {
		if l >= at {
			return p.level[at]
		}
	}

	return p.level[slog.Level(LevelTrace)]
}

// prettyHandler writes styled records for a terminal, either one line of
// key=value pairs per record or an indented block of key: value lines.
type prettyHandler struct {
	opts   slog.HandlerOptions
	format Format
	style  palette
	mu     *sync.Mutex
	w      io.Writer
	attrs  []slog.Attr
	group  string
}

func newPrettyHandler(
	w io.Writer,
	format Format,
	opts *slog.HandlerOptions,
) *prettyHandler {
	return &prettyHandler{
		opts:   *opts,
		format: format,
		style:  newPalette(w),
		mu:     &sync.Mutex{},
		w:      w,
	}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.opts.Level.Level()
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = slices.Concat(h.attrs, h.qualify(attrs))

	return &c
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.group = h.prefix(name)

	return &c
}

func (h *prettyHandler) prefix(key string) string {
	if h.group == "" {
		return key
	}

	return h.group + "." + key
}

func (h *prettyHandler) qualify(attrs []slog.Attr) []slog.Attr {
	out := make([]slog.Attr, len(attrs))
	for i, a := range attrs {
		out[i] = slog.Attr{Key: h.prefix(a.Key), Value: a.Value}
	}

	return out
}

type field struct {
	key   string
	value string
}

func (h *prettyHandler) Handle(_ context.Context, r slog.Record) error {
	var fields []field

	add := func(a slog.Attr, render func(slog.Value) string) {
		if h.opts.ReplaceAttr != nil && a.Value.Kind() != slog.KindGroup {
			a = h.opts.ReplaceAttr(nil, a)
		}

		if a.Key == "" {
			return
		}

		fields = append(fields, field{key: a.Key, value: render(a.Value)})
	}

	if !r.Time.IsZero() {
		add(slog.Time(slog.TimeKey, r.Time), func(v slog.Value) string {
			return h.style.time.Render(v.String())
		})
	}

	add(slog.Any(slog.LevelKey, r.Level), func(v slog.Value) string {
		return h.style.forLevel(r.Level).Render(v.String())
	})

	if h.opts.AddSource {
		if src := r.Source(); src != nil {
			add(
				slog.String(slog.SourceKey, fmt.Sprintf("%s:%d", src.File, src.Line)),
				func(v slog.Value) string { return h.style.src.Render(v.String()) },
			)
		}
	}

	add(slog.String(slog.MessageKey, r.Message), func(v slog.Value) string {
		return h.style.msg.Render(v.String())
	})

	attrs := slices.Clone(h.attrs)

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, slog.Attr{Key: h.prefix(a.Key), Value: a.Value})

		return true
	})

	for _, a := range flatten(attrs) {
		add(a, h.value)
	}

	var buf bytes.Buffer

	switch h.format {
	case FormatJSON:
		buf.WriteString("{\n")

		for i, f := range fields {
			if i > 0 {
				buf.WriteString(",\n")
			}

			buf.WriteString("  " + h.style.key.Render(f.key) + ": " + f.value)
		}

		buf.WriteString("\n}\n")

	default:
		for i, f := range fields {
			if i > 0 {
				buf.WriteByte(' ')
			}

			buf.WriteString(h.style.key.Render(f.key) + "=" + f.value)
		}

		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := h.w.Write(buf.Bytes())

	return err
}

// flatten resolves log valuers and expands groups into dotted keys.
func flatten(attrs []slog.Attr) []slog.Attr {
	var out []slog.Attr

	for _, a := range attrs {
		a.Value = a.Value.Resolve()

		if a.Value.Kind() != slog.KindGroup {
			out = append(out, a)

			continue
		}

		for _, g := range flatten(a.Value.Group()) {
			key := g.Key
			if a.Key != "" {
				key = a.Key + "." + key
			}

			out = append(out, slog.Attr{Key: key, Value: g.Value})
		}
	}

	return out
}

func (h *prettyHandler) value(v slog.Value) string {
	switch v.Kind() {
	case slog.KindInt64:
		return h.style.num.Render(strconv.FormatInt(v.Int64(), 10))

	case slog.KindUint64:
		return h.style.num.Render(strconv.FormatUint(v.Uint64(), 10))

	case slog.KindFloat64:
		return h.style.num.Render(strconv.FormatFloat(v.Float64(), 'g', -1, 64))

	case slog.KindBool:
		if v.Bool() {
			return h.style.yes.Render("true")
		}

		return h.style.no.Render("false")

	case slog.KindDuration:
		return h.style.num.Render(v.Duration().String())

	case slog.KindTime:
		return h.style.time.Render(v.Time().String())

	default:
		s := v.String()
		if strings.ContainsAny(s, " \t\n\"") {
			s = strconv.Quote(s)
		}

		return h.style.str.Render(s)
	}
}
