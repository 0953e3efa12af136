package main

import (
	"io"
	"log/slog"
	"os"
)

// NewLogger returns a text slog.Logger on stderr with the given level.
func NewLogger(level slog.Leveler) *slog.Logger {
	return newLoggerTo(os.Stderr, level)
}

func newLoggerTo(w io.Writer, level slog.Leveler) *slog.Logger {
	h := slog.NewTextHandler(w, &slog.HandlerOptions{Level: level})
	return slog.New(h)
}
