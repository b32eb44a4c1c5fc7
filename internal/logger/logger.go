package logger

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/JohnBasrai/aws-lambda-action-filter/pkg/models"
)

var (
	globalLogger *slog.Logger
	levelVar     slog.LevelVar
)

// Init builds the global logger from application settings and installs it as
// the slog default. It should be called once during application startup; a
// nil writer logs to stdout. Config reloads adjust the level afterwards via
// SetLevel without rebuilding the handler.
func Init(settings models.ApplicationSettings, w io.Writer) error {
	level, err := parseLevel(settings.LogLevel)
	if err != nil {
		return err
	}
	levelVar.Set(level)

	if w == nil {
		w = os.Stdout
	}

	opts := &slog.HandlerOptions{
		Level: &levelVar,
		// AddSource: true, // Uncomment to include source file and line number
	}

	var handler slog.Handler
	switch strings.ToLower(settings.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	case "text", "":
		handler = slog.NewTextHandler(w, opts)
	default:
		return fmt.Errorf("invalid log format specified: %q", settings.LogFormat)
	}

	globalLogger = slog.New(handler)
	slog.SetDefault(globalLogger) // Set as default for convenience
	globalLogger.Info("Logger initialized", "level", level.String(), "format", settings.LogFormat)
	return nil
}

// SetLevel re-parses and applies a log level at runtime. A running server
// can move between debug and info on a config reload without restarting.
func SetLevel(name string) error {
	level, err := parseLevel(name)
	if err != nil {
		return err
	}
	levelVar.Set(level)
	return nil
}

// L returns the initialized global logger instance. If Init has not been
// called yet it falls back to the process default rather than panicking
// inside a log call.
func L() *slog.Logger {
	if globalLogger == nil {
		return slog.Default()
	}
	return globalLogger
}

func parseLevel(name string) (slog.Level, error) {
	switch strings.ToLower(name) {
	case "debug":
		return slog.LevelDebug, nil
	case "info", "":
		return slog.LevelInfo, nil
	case "warn":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid log level specified: %q", name)
	}
}
