package logging

import (
	"context"
	"io"
	"log/slog"
	"runtime"
	"slices"
	"strconv"
	"strings"
	"sync"
)

const (
	ansiCodeReset     = "\033[0m"
	ansiCodeRed       = "\033[31m"
	ansiCodeGreen     = "\033[32m"
	ansiCodeYellow    = "\033[33m"
	ansiCodeCyan      = "\033[36m"
	ansiCodeGray      = "\033[90m"
	ansiCodeUnderline = "\033[4m"
)

//nolint:gochecknoglobals
var ansiCodeMap = map[slog.Level]string{
	slog.LevelDebug: ansiCodeCyan,
	slog.LevelInfo:  ansiCodeGreen,
	slog.LevelWarn:  ansiCodeYellow,
	slog.LevelError: ansiCodeRed,
}

// ConsoleHandler implements slog.Handler with human-readable, optionally colored
// output suitable for development environments.
type ConsoleHandler struct {
	output io.Writer
	level  slog.Leveler
	color  bool
	mu     *sync.Mutex

	attrs  []slog.Attr
	groups []string
}

var _ slog.Handler = (*ConsoleHandler)(nil)

// NewConsoleHandler creates a ConsoleHandler writing records at or above level to output.
// Handlers sharing mu never interleave their lines; a nil mu gets a private one.
func NewConsoleHandler(output io.Writer, level slog.Leveler, color bool, mu *sync.Mutex) *ConsoleHandler {
	if mu == nil {
		mu = new(sync.Mutex)
	}

	return &ConsoleHandler{
		output: output,
		level:  level,
		color:  color,
		mu:     mu,
	}
}

func (h *ConsoleHandler) paint(code, s string) string {
	if !h.color {
		return s
	}

	return code + s + ansiCodeReset
}

// Handle implements slog.Handler. A record renders as
// "time [LEVEL] message | key=value ..." followed by a caller line.
func (h *ConsoleHandler) Handle(_ context.Context, r slog.Record) error {
	var recordAttrs []slog.Attr

	r.Attrs(func(a slog.Attr) bool {
		recordAttrs = append(recordAttrs, a)

		return true
	})

	attrs := slices.Concat(h.attrs, h.grouped(recordAttrs))

	var line strings.Builder

	line.WriteString(h.paint(ansiCodeGray, r.Time.Format("15:04:05.000000")))
	line.WriteString(" " + h.paint(ansiCodeMap[r.Level], "["+r.Level.String()+"]"))
	line.WriteString(" " + r.Message)

	if len(attrs) > 0 {
		line.WriteString(" " + h.paint(ansiCodeGray, "|"))
		h.renderAttrs(&line, "", attrs)
	}

	if r.PC != 0 {
		frame, _ := runtime.CallersFrames([]uintptr{r.PC}).Next()
		fn := frame.Function[strings.LastIndexByte(frame.Function, '/')+1:]

		line.WriteString("\n-> " + h.paint(ansiCodeGray, fn+"()"))
		line.WriteString(" in " + h.paint(ansiCodeUnderline, frame.File+":"+strconv.Itoa(frame.Line)))
	}

	line.WriteByte('\n')

	h.mu.Lock()
	defer h.mu.Unlock()

	_, err := io.WriteString(h.output, line.String())

	return err //nolint:wrapcheck
}

func (h *ConsoleHandler) renderAttrs(out *strings.Builder, prefix string, attrs []slog.Attr) {
	for _, attr := range attrs {
		if attr.Value.Kind() == slog.KindGroup {
			h.renderAttrs(out, prefix+attr.Key+".", attr.Value.Group())

			continue
		}

		out.WriteString(" " + prefix + attr.Key + "=" + h.paint(ansiCodeGray, attr.Value.String()))
	}
}

// grouped nests attrs inside the handler's open groups.
func (h *ConsoleHandler) grouped(attrs []slog.Attr) []slog.Attr {
	if len(attrs) == 0 {
		return nil
	}

	for i := len(h.groups) - 1; i >= 0; i-- {
		attrs = []slog.Attr{{Key: h.groups[i], Value: slog.GroupValue(attrs...)}}
	}

	return attrs
}

// WithAttrs implements slog.Handler.WithAttrs.
func (h *ConsoleHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = slices.Concat(h.attrs, h.grouped(attrs))

	return &clone
}

// WithGroup implements slog.Handler.WithGroup.
func (h *ConsoleHandler) WithGroup(name string) slog.Handler {
	clone := *h
	clone.groups = slices.Concat(h.groups, []string{name})

	return &clone
}

// Enabled implements slog.Handler.Enabled.
func (h *ConsoleHandler) Enabled(_ context.Context, level slog.Level) bool {
	return h.level.Level() <= level
}
