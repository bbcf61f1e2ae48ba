// Package logger provides structured logging using log/slog. It sets up a
// JSON handler with service-level context and optional size-based rotation
// for file output.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"

	"gopkg.in/natefinch/lumberjack.v2"
)

// Init creates and returns a structured logger for the given service.
// Output goes to stdout; if logFile is non-empty, JSON lines are also
// written to a size-rotated file.
func Init(service string, level slog.Level, logFile string) *slog.Logger {
	var out io.Writer = os.Stdout
	if logFile != "" {
		out = io.MultiWriter(os.Stdout, &lumberjack.Logger{
			Filename:   logFile,
			MaxSize:    50, // megabytes
			MaxBackups: 3,
			MaxAge:     14, // days
			Compress:   true,
		})
	}

	handler := slog.NewJSONHandler(out, &slog.HandlerOptions{Level: level})
	logger := slog.New(handler).With(slog.String("service", service))

	// Plain log.Printf in hot goroutines also routes through this handler.
	slog.SetDefault(logger)

	return logger
}

// ParseLevel maps a config string to a slog.Level. Unknown strings mean Info.
func ParseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
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
