// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package observability provides the structured logger and the Prometheus
// metrics used across the fetch pipeline.
package observability

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// LoggingConfig contains logger configuration options.
type LoggingConfig struct {
	// Level is the minimum log level (trace, debug, info, warn, error).
	Level string

	// Format is the output format (console or json).
	Format string

	// Output is the destination when Writer is nil (stdout or stderr).
	Output string

	// Writer overrides Output when set.
	Writer io.Writer
}

// DefaultLoggingConfig logs warnings and errors to stderr in console format.
func DefaultLoggingConfig() LoggingConfig {
	return LoggingConfig{
		Level:  "warn",
		Format: "console",
		Output: "stderr",
	}
}

// NewLogger creates a zerolog logger based on cfg.
func NewLogger(cfg LoggingConfig) zerolog.Logger {
	output := cfg.Writer
	if output == nil {
		switch strings.ToLower(cfg.Output) {
		case "stdout":
			output = os.Stdout
		default:
			output = os.Stderr
		}
	}

	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{
			Out:        output,
			TimeFormat: time.TimeOnly,
		}
	}

	return zerolog.New(output).
		With().Timestamp().Logger().
		Level(ParseLevel(cfg.Level))
}

// ParseLevel converts a string log level to zerolog.Level. Unknown values map to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(level) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "warn", "warning":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}

// WithRunContext tags every entry with the invocation's run id and query.
func WithRunContext(logger zerolog.Logger, runID, query string) zerolog.Logger {
	return logger.With().
		Str("run_id", runID).
		Str("query", query).
		Logger()
}
