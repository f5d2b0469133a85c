package logging

import (
	"context"
	"io"
	"log/slog"
	"sync"

	"github.com/m-mizutani/clog"
	"github.com/m-mizutani/masq"
)

var (
	mu            sync.RWMutex
	defaultLogger = newConsoleLogger(nil, slog.LevelInfo)
)

// Default returns the process-wide default logger
func Default() *slog.Logger {
	mu.RLock()
	defer mu.RUnlock()
	return defaultLogger
}

// SetDefault replaces the process-wide default logger
func SetDefault(logger *slog.Logger) {
	mu.Lock()
	defer mu.Unlock()
	defaultLogger = logger
}

type ctxKey struct{}

// With returns a new context carrying the given logger
func With(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxKey{}, logger)
}

// From returns the logger carried by ctx, or the default logger
func From(ctx context.Context) *slog.Logger {
	if logger, ok := ctx.Value(ctxKey{}).(*slog.Logger); ok {
		return logger
	}
	return Default()
}

// Redactor masks secret values (API keys, tokens) in log records
func Redactor() func([]string, slog.Attr) slog.Attr {
	return masq.New(
		masq.WithFieldName("APIKey"),
		masq.WithFieldName("BotToken"),
		masq.WithFieldPrefix("secret"),
	)
}

func newConsoleLogger(w io.Writer, level slog.Level) *slog.Logger {
	opts := []clog.Option{
		clog.WithLevel(level),
		clog.WithSource(true),
		clog.WithReplaceAttr(Redactor()),
	}
	if w != nil {
		opts = append(opts, clog.WithWriter(w))
	}
	return slog.New(clog.New(opts...))
}

// NewConsole builds a human-readable console logger
func NewConsole(w io.Writer, level slog.Level) *slog.Logger {
	return newConsoleLogger(w, level)
}

// NewJSON builds a machine-readable JSON logger
func NewJSON(w io.Writer, level slog.Level) *slog.Logger {
	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{
		AddSource:   true,
		Level:       level,
		ReplaceAttr: Redactor(),
	}))
}
