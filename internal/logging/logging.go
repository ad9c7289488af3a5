// Package logging configures the process-wide slog logger. Diagnostics
// go to a file so the terminal dashboard's alternate screen stays clean;
// serve mode additionally mirrors to stdout.
package logging

import (
	"io"
	"log/slog"
	"os"
	"path/filepath"
)

// Init opens the log file in dir and returns a logger plus the file for
// the caller to close on shutdown. withStdout mirrors records to stdout
// as well. If the file cannot be opened the logger degrades to stderr
// rather than failing startup.
func Init(dir string, withStdout bool) (*slog.Logger, *os.File) {
	_ = os.MkdirAll(dir, 0o755)

	path := filepath.Join(dir, "envirosense.log")
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		logger := slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelInfo}))
		logger.Error("failed to open log file, logging to stderr", "path", path, "error", err)
		return logger, nil
	}

	var out io.Writer = f
	if withStdout {
		out = io.MultiWriter(f, os.Stdout)
	}
	return slog.New(slog.NewTextHandler(out, &slog.HandlerOptions{Level: slog.LevelInfo})), f
}
