package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"

	slogmulti "github.com/samber/slog-multi"
)

func NewJSONLogger(service, level string) *slog.Logger {
	return NewLoggerWithWriters(service, level, os.Stdout)
}

// NewLogger writes JSON to stdout and, when logFile is set, to that file as well.
// The returned cleanup closes the file.
func NewLogger(service, level, logFile string) (*slog.Logger, func() error) {
	if strings.TrimSpace(logFile) == "" {
		return NewJSONLogger(service, level), func() error { return nil }
	}

	file, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := NewJSONLogger(service, level)
		logger.Error("log_file_open_failed", "file", logFile, "error", err)
		return logger, func() error { return nil }
	}

	return NewLoggerWithWriters(service, level, os.Stdout, file), file.Close
}

// NewLoggerWithWriters fans JSON records out to every writer.
func NewLoggerWithWriters(service, level string, writers ...io.Writer) *slog.Logger {
	opts := &slog.HandlerOptions{Level: parseLevel(level)}
	if len(writers) == 1 {
		return slog.New(slog.NewJSONHandler(writers[0], opts)).With("service", service)
	}

	handlers := make([]slog.Handler, 0, len(writers))
	for _, w := range writers {
		handlers = append(handlers, slog.NewJSONHandler(w, opts))
	}
	return slog.New(slogmulti.Fanout(handlers...)).With("service", service)
}

func parseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
