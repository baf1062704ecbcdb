// Package logging provides the structured slog setup shared by the whole
// service: a global logging service, console/file handler selection and the
// HTTP request logging middleware.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// SetupLogger builds the slog logger. With an empty logDir everything goes to
// stderr as text; otherwise JSON lines are written to app.log in logDir and
// mirrored to stderr.
func SetupLogger(logDir string) *slog.Logger {
	level := parseLevel(os.Getenv("LOG_LEVEL"))

	opts := &slog.HandlerOptions{Level: level}

	if logDir == "" {
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	if err := os.MkdirAll(logDir, 0750); err != nil {
		slog.Warn("Failed to create log directory, falling back to console", "error", err, "dir", logDir)
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	logPath := filepath.Join(logDir, "app-"+time.Now().Format("2006-01-02")+".log")
	file, err := os.OpenFile(logPath, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0640)
	if err != nil {
		slog.Warn("Failed to open log file, falling back to console", "error", err, "path", logPath)
		return slog.New(slog.NewTextHandler(os.Stderr, opts))
	}

	return slog.New(slog.NewJSONHandler(io.MultiWriter(file, os.Stderr), opts))
}

func parseLevel(raw string) slog.Level {
	switch strings.ToLower(raw) {
	case "debug":
		return slog.LevelDebug
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}
