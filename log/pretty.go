package log

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// prettyStyles holds the lipgloss styles used by prettyTextHandler.
// Styles are bound to a renderer for the handler's output, so color is
// dropped automatically when the output is not a terminal.
type prettyStyles struct {
	time, caller, message, key, value lipgloss.Style
	levels                            map[Level]lipgloss.Style
}

func makePrettyStyles(w io.Writer) prettyStyles {
	r := lipgloss.NewRenderer(w)
	badge := func(color string) lipgloss.Style {
		return r.NewStyle().Bold(true).Foreground(lipgloss.Color(color)).Width(5)
	}

	return prettyStyles{
		time:    r.NewStyle().Faint(true),
		caller:  r.NewStyle().Faint(true).Italic(true),
		message: r.NewStyle().Bold(true),
		key:     r.NewStyle().Foreground(lipgloss.Color("6")),
		value:   r.NewStyle(),
		levels: map[Level]lipgloss.Style{
			LevelTrace: badge("8"),
			LevelDebug: badge("4"),
			LevelInfo:  badge("2"),
			LevelWarn:  badge("3"),
			LevelError: badge("1"),
		},
	}
}

// prettyTextHandler renders one styled line per record:
//
//	<time> <LEVEL> <caller> <message> key=value ...
type prettyTextHandler struct {
	mu     *sync.Mutex
	w      io.Writer
	opts   slog.HandlerOptions
	styles prettyStyles
	layout string
	prefix string // group qualifier for subsequent attributes
	attrs  []string
}

func newPrettyTextHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
	layout string,
) *prettyTextHandler {
	return &prettyTextHandler{
		mu:     &sync.Mutex{},
		w:      w,
		opts:   *opts,
		styles: makePrettyStyles(w),
		layout: layout,
	}
}

func (h *prettyTextHandler) Enabled(_ context.Context, level slog.Level) bool {
	minimum := slog.LevelInfo
	if h.opts.Level != nil {
		minimum = h.opts.Level.Level()
	}

	return level >= minimum
}

func (h *prettyTextHandler) Handle(_ context.Context, r slog.Record) error {
	var b strings.Builder

	if !r.Time.IsZero() {
		b.WriteString(h.styles.time.Render(r.Time.Format(h.layout)))
		b.WriteByte(' ')
	}

	level := Level(r.Level)
	style, ok := h.styles.levels[level]
	if !ok {
		style = h.styles.value
	}

	b.WriteString(style.Render(strings.ToUpper(level.String())))
	b.WriteByte(' ')

	if h.opts.AddSource && r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		b.WriteString(h.styles.caller.Render(
			fmt.Sprintf("%s:%d", filepath.Base(frame.File), frame.Line)))
		b.WriteByte(' ')
	}

	b.WriteString(h.styles.message.Render(r.Message))

	for _, a := range h.attrs {
		b.WriteByte(' ')
		b.WriteString(a)
	}

	r.Attrs(func(a slog.Attr) bool {
		h.appendAttr(&b, h.prefix, a)

		return true
	})

	b.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.w, b.String())

	return err
}

func (h *prettyTextHandler) appendAttr(b *strings.Builder, prefix string, a slog.Attr) {
	a.Value = a.Value.Resolve()
	if a.Equal(slog.Attr{}) {
		return
	}

	if a.Value.Kind() == slog.KindGroup {
		if a.Key != "" {
			prefix += a.Key + "."
		}

		for _, g := range a.Value.Group() {
			h.appendAttr(b, prefix, g)
		}

		return
	}

	b.WriteByte(' ')
	b.WriteString(h.styles.key.Render(prefix + a.Key))
	b.WriteByte('=')
	b.WriteString(h.styles.value.Render(a.Value.String()))
}

func (h *prettyTextHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := *h
	c.attrs = append([]string(nil), h.attrs...)

	for _, a := range attrs {
		var b strings.Builder

		h.appendAttr(&b, h.prefix, a)

		if s := strings.TrimPrefix(b.String(), " "); s != "" {
			c.attrs = append(c.attrs, s)
		}
	}

	return &c
}

func (h *prettyTextHandler) WithGroup(name string) slog.Handler {
	if name == "" {
		return h
	}

	c := *h
	c.prefix = h.prefix + name + "."

	return &c
}

// newPrettyJSONHandler returns a JSON handler whose records are indented.
func newPrettyJSONHandler(
	w io.Writer,
	opts *slog.HandlerOptions,
) slog.Handler {
	return slog.NewJSONHandler(&indentWriter{w: w}, opts)
}

// indentWriter re-indents each complete JSON record written to it.
// [slog.JSONHandler] issues exactly one Write per record.
type indentWriter struct {
	mu  sync.Mutex
	w   io.Writer
	buf bytes.Buffer
}

func (iw *indentWriter) Write(p []byte) (int, error) {
	iw.mu.Lock()
	defer iw.mu.Unlock()

	iw.buf.Reset()

	if err := json.Indent(&iw.buf, bytes.TrimSpace(p), "", "  "); err != nil {
		return iw.w.Write(p)
	}

	iw.buf.WriteByte('\n')

	if _, err := iw.w.Write(iw.buf.Bytes()); err != nil {
		return 0, err
	}

	return len(p), nil
}
