package telemetry

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

var logLevels = map[string]slog.Level{
	"debug":   slog.LevelDebug,
	"info":    slog.LevelInfo,
	"warn":    slog.LevelWarn,
	"warning": slog.LevelWarn,
	"error":   slog.LevelError,
}

// SetupLogger configures the global slog default logger based on the supplied
// format and level strings read from harness configuration.
//
// format: "json" selects a JSONHandler (machine readable); anything else a
// TextHandler. level is one of "debug", "info", "warn", "error"
// (case-insensitive) and defaults to "info" when unrecognized.
//
// Log records go to stderr. Stdout is reserved for the smoke report itself
// (raw response bodies and their parsed forms), so piping the report to a
// file or a diff never captures log noise.
func SetupLogger(format, level string) {
	setupLogger(os.Stderr, format, level)
}

func setupLogger(w io.Writer, format, level string) {
	lvl, ok := logLevels[strings.ToLower(level)]
	if !ok {
		lvl = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{
		Level:     lvl,
		AddSource: lvl == slog.LevelDebug, // include file:line only when debugging
	}

	var handler slog.Handler
	if strings.ToLower(format) == "json" {
		handler = slog.NewJSONHandler(w, opts)
	} else {
		handler = slog.NewTextHandler(w, opts)
	}

	slog.SetDefault(slog.New(handler))
}
