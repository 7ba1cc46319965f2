package logging

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"runtime"
	"strconv"
	"strings"
)

const (
	ansiReset     = "\033[0m"
	ansiRed       = "\033[31m"
	ansiGreen     = "\033[32m"
	ansiYellow    = "\033[33m"
	ansiCyan      = "\033[36m"
	ansiGray      = "\033[90m"
	ansiUnderline = "\033[4m"
)

//nolint:gochecknoglobals
var levelColors = map[slog.Level]string{
	slog.LevelDebug: ansiCyan,
	slog.LevelInfo:  ansiGreen,
	slog.LevelWarn:  ansiYellow,
	slog.LevelError: ansiRed,
}

// ConsoleHandler implements slog.Handler with human-readable, optionally colored output
// for development environments.
type ConsoleHandler struct {
	// Output is the destination for log output
	Output io.Writer
	// Level is the minimum level for log records to be processed
	Level slog.Leveler
	// PkgLevels maps logger names (and their dotted prefixes) to minimum levels
	PkgLevels map[string]slog.Level
	// Color enables ANSI escape sequences
	Color bool

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

func (h *ConsoleHandler) paint(code, s string) string {
	if !h.Color {
		return s
	}

	return code + s + ansiReset
}

// pkgLevel returns the most specific PkgLevels entry for a dotted logger name.
func (h *ConsoleHandler) pkgLevel(name string) (slog.Level, bool) {
	for key := name; key != ""; {
		if level, ok := h.PkgLevels[key]; ok {
			return level, true
		}

		idx := strings.LastIndex(key, ".")
		if idx < 0 {
			break
		}

		key = key[:idx]
	}

	level, ok := h.PkgLevels[""]

	return level, ok
}

// Handle implements slog.Handler.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	attrs := make([]slog.Attr, 0, r.NumAttrs()+len(h.attrs))

	r.Attrs(func(a slog.Attr) bool {
		attrs = append(attrs, a)

		return true
	})

	attrs = append(attrs, h.attrs...)

	var name string

	for _, attr := range attrs {
		if attr.Key == "logger" {
			name = attr.Value.String()

			break
		}
	}

	if level, ok := h.pkgLevel(name); ok && r.Level < level {
		return nil
	}

	var b strings.Builder

	b.WriteString(h.paint(ansiGray, r.Time.Format("15:04:05.000000")))
	b.WriteString(" " + h.paint(levelColors[r.Level], "["+r.Level.String()+"]"))
	b.WriteString(" " + r.Message)

	if len(attrs) > 0 {
		var prefix string
		if len(h.groups) > 0 {
			prefix = strings.Join(h.groups, ".") + "."
		}

		b.WriteString(" " + h.paint(ansiGray, "|"))
		h.renderAttrs(&b, prefix, attrs)
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fn := strings.Split(frame.Function, string(os.PathSeparator))

		b.WriteString("\n-> " + h.paint(ansiGray, fn[len(fn)-1]+"()"))
		b.WriteString(" in " + h.paint(ansiUnderline, frame.File+":"+strconv.Itoa(frame.Line)))
	}

	if _, err := fmt.Fprintln(h.Output, b.String()); err != nil {
		return fmt.Errorf("write log: %w", err)
	}

	return nil
}

func (h *ConsoleHandler) renderAttrs(b *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			h.renderAttrs(b, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		b.WriteString(" " + prefix + attr.Key + "=" + h.paint(ansiGray, attr.Value.String()))
	}
}

func (h *ConsoleHandler) clone() *ConsoleHandler {
	return &ConsoleHandler{
		Output:    h.Output,
		Level:     h.Level,
		PkgLevels: h.PkgLevels,
		Color:     h.Color,
		attrs:     append([]slog.Attr(nil), h.attrs...),
		groups:    append([]string(nil), h.groups...),
	}
}

// WithAttrs implements slog.Handler.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	c := h.clone()
	c.attrs = append(c.attrs, attrs...)

	return c
}

// WithGroup implements slog.Handler.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	c := h.clone()
	c.groups = append(c.groups, name)

	return c
}

// Enabled implements slog.Handler.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.Level.Level() <= level
}
