package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
)

const (
	reset  = "\033[0m"
	red    = "\033[31m"
	green  = "\033[32m"
	yellow = "\033[33m"
	cyan   = "\033[36m"
	gray   = "\033[90m"
)

var levelStyles = map[slog.Level]struct {
	color string
	label string
}{
	slog.LevelDebug: {gray, "DEBUG"},
	slog.LevelInfo:  {green, "INFO "},
	slog.LevelWarn:  {yellow, "WARN "},
	slog.LevelError: {red, "ERROR"},
}

var Log *slog.Logger

// PrettyHandler writes single-line colored records for terminal use.
type PrettyHandler struct {
	out        io.Writer
	level      slog.Level
	mu         *sync.Mutex
	timeFormat string
}

func NewPrettyHandler(out io.Writer, level slog.Level, timeFormat string) *PrettyHandler {
	if timeFormat == "" {
		timeFormat = "2006-01-02 15:04:05"
	}
	return &PrettyHandler{
		out:        out,
		level:      level,
		mu:         &sync.Mutex{},
		timeFormat: timeFormat,
	}
}

func (h *PrettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *PrettyHandler) Handle(_ context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	style := levelStyles[r.Level]
	if style.label == "" {
		style = levelStyles[slog.LevelInfo]
	}

	line := fmt.Sprintf("%s[MEGABOT]%s %s %s|%s %s%s%s %s|%s %s",
		cyan, reset,
		r.Time.Format(h.timeFormat),
		gray, reset,
		style.color, style.label, reset,
		gray, reset,
		r.Message,
	)

	r.Attrs(func(a slog.Attr) bool {
		line += fmt.Sprintf(" %s%s%s=%v", cyan, a.Key, reset, a.Value.Any())
		return true
	})

	line += "\n"
	_, err := h.out.Write([]byte(line))
	return err
}

func (h *PrettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return h
}

func (h *PrettyHandler) WithGroup(name string) slog.Handler {
	return h
}

func init() {
	handler := NewPrettyHandler(os.Stdout, slog.LevelInfo, "")
	Log = slog.New(handler)
	slog.SetDefault(Log)
}

func Info(msg string, args ...any) {
	Log.Info(msg, args...)
}

func Error(msg string, args ...any) {
	Log.Error(msg, args...)
}

func Debug(msg string, args ...any) {
	Log.Debug(msg, args...)
}

func Warn(msg string, args ...any) {
	Log.Warn(msg, args...)
}
