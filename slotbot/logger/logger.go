package logger

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"sync"
	"time"
)

const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorGreen  = "\033[32m"
	colorYellow = "\033[33m"
	colorPurple = "\033[35m"
	colorWhite  = "\033[37m"
)

type LogType string

const (
	TypeCommand LogType = "CMD"
	TypeDB      LogType = "DB"
	TypeSystem  LogType = "SYS"
	TypeError   LogType = "ERR"
)

// Noisy disgo internals that drown out the bot's own lines.
var skippedMessages = []string{
	"locking buckets",
	"unlocking buckets",
	"gateway event",
	"cleaning up bucket",
	"cleaned up rate limit buckets",
	"binary message received",
	"received gateway message",
	"locking gateway rate limiter",
	"unlocking gateway rate limiter",
	"sending gateway command",
	"new request",
	"new response",
	"locking rest bucket",
	"unlocking rest bucket",
	"rate limit response headers",
	"sending heartbeat",
}

// Options picks the handler. Format "json" yields slog's JSON handler,
// anything else the colored console handler.
type Options struct {
	Level     slog.Level
	Format    string
	AddSource bool
}

func New(w io.Writer, opts Options) slog.Handler {
	if w == nil {
		w = os.Stdout
	}
	if opts.Format == "json" {
		return slog.NewJSONHandler(w, &slog.HandlerOptions{Level: opts.Level, AddSource: opts.AddSource})
	}
	return NewHandler(w, opts.Level)
}

type CustomHandler struct {
	out   io.Writer
	mu    *sync.Mutex
	level slog.Level
	attrs []slog.Attr
	group string
}

func NewHandler(w io.Writer, level slog.Level) *CustomHandler {
	return &CustomHandler{out: w, mu: &sync.Mutex{}, level: level}
}

func (h *CustomHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level
}

func (h *CustomHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	clone := *h
	clone.attrs = append(append([]slog.Attr{}, h.attrs...), attrs...)
	return &clone
}

func (h *CustomHandler) WithGroup(name string) slog.Handler {
	clone := *h
	if clone.group != "" {
		name = clone.group + "." + name
	}
	clone.group = name
	return &clone
}

func (h *CustomHandler) Handle(_ context.Context, r slog.Record) error {
	if skip(r.Message) {
		return nil
	}

	fields := map[string]string{}
	var extra []string
	collect := func(a slog.Attr) bool {
		switch a.Key {
		case "type", "name", "user_name", "status", "error", "took":
			fields[a.Key] = a.Value.String()
		default:
			key := a.Key
			if h.group != "" {
				key = h.group + "." + key
			}
			extra = append(extra, fmt.Sprintf("%s=%v", key, a.Value))
		}
		return true
	}
	for _, a := range h.attrs {
		collect(a)
	}
	r.Attrs(collect)

	message := r.Message
	if r.Level >= slog.LevelError && fields["error"] != "" {
		message = fmt.Sprintf("%s: %s", message, fields["error"])
	}
	if fields["name"] != "" && fields["user_name"] != "" {
		message = fmt.Sprintf("%s [%s by %s]", message, fields["name"], fields["user_name"])
	}
	if fields["status"] != "" {
		message = fmt.Sprintf("%s [Status: %s]", message, fields["status"])
	}
	if fields["took"] != "" {
		message = fmt.Sprintf("%s (took %s)", message, fields["took"])
	}
	if len(extra) > 0 {
		message += " " + strings.Join(extra, " ")
	}

	levelColor, levelText := levelStyle(r.Level)
	ts := r.Time
	if ts.IsZero() {
		ts = time.Now()
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := fmt.Fprintf(h.out, "%s[SlotBot] [%s] [%s%s%s] [%s] %s%s\n",
		colorWhite,
		ts.Format("15:04:05"),
		levelColor,
		levelText,
		colorWhite,
		logType(fields["type"]),
		message,
		colorReset,
	)
	return err
}

func levelStyle(level slog.Level) (string, string) {
	switch {
	case level >= slog.LevelError:
		return colorRed, "ERROR"
	case level >= slog.LevelWarn:
		return colorYellow, "WARN"
	case level >= slog.LevelInfo:
		return colorGreen, "INFO"
	}
	return colorPurple, "DEBUG"
}

func logType(t string) LogType {
	switch t {
	case "cmd":
		return TypeCommand
	case "db":
		return TypeDB
	case "error":
		return TypeError
	}
	return TypeSystem
}

func skip(message string) bool {
	lower := strings.ToLower(message)
	for _, s := range skippedMessages {
		if strings.Contains(lower, s) {
			return true
		}
	}
	return false
}
