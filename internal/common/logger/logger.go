package logger

import (
	"log/slog"
	"os"
	"time"

	"github.com/lmittmann/tint"
)

// Logger emits structured log entries tagged with the owning service name.
// Every entry carries an "action" field so log streams can be grepped by
// operation rather than by message text.
type Logger struct {
	sl      *slog.Logger
	service string
}

func New(service string) *Logger {
	var handler slog.Handler
	if os.Getenv("LOG_FORMAT") == "console" {
		handler = tint.NewHandler(os.Stdout, &tint.Options{
			Level:      slog.LevelDebug,
			TimeFormat: time.TimeOnly,
		})
	} else {
		handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	return &Logger{
		sl:      slog.New(handler).With("service", service),
		service: service,
	}
}

func (l *Logger) With(key string, value any) *Logger {
	return &Logger{sl: l.sl.With(key, value), service: l.service}
}

func (l *Logger) Info(action string, fields map[string]any) {
	l.sl.Info(action, args("action", action, fields)...)
}

func (l *Logger) Debug(action string, fields map[string]any) {
	l.sl.Debug(action, args("action", action, fields)...)
}

func (l *Logger) Error(action string, err error, fields map[string]any) {
	a := args("action", action, fields)
	if err != nil {
		a = append(a, "error", err.Error())
	}
	l.sl.Error(action, a...)
}

func args(key, value string, fields map[string]any) []any {
	out := make([]any, 0, 2+2*len(fields))
	out = append(out, key, value)
	for k, v := range fields {
		out = append(out, k, v)
	}
	return out
}
