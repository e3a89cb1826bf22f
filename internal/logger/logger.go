// Package logger builds the process-wide slog logger from the log settings.
package logger

import (
	"io"
	"log/slog"
	"strings"
)

// Setup builds a logger writing to w, installs it as the slog default and
// returns it. Unknown levels fall back to info; format is "text" or "json".
func Setup(w io.Writer, level, format string) *slog.Logger {
	lvl := slog.LevelInfo
	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	}
	var h slog.Handler
	if strings.ToLower(format) == "json" {
		h = slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl})
	} else {
		h = slog.NewTextHandler(w, &slog.HandlerOptions{Level: lvl})
	}
	l := slog.New(h)
	slog.SetDefault(l)
	return l
}
