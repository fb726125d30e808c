// Package logger is the zerolog front end shared by the CLI and the preview
// server. Generation progress reaches it through Sink.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Logger wraps zerolog with the handful of calls modelgen needs.
type Logger struct {
	zl zerolog.Logger
}

// Config holds logger configuration
type Config struct {
	Level      string    // debug, info, warn, error
	Format     string    // console or json
	TimeFormat string    // rfc3339 (default), unix, unixms, unixmicro
	Output     io.Writer // os.Stderr when nil
}

// DefaultConfig returns console output on stderr at info level, which is
// what a one-shot CLI wants by default.
func DefaultConfig() *Config {
	return &Config{
		Level:      "info",
		Format:     "console",
		TimeFormat: "rfc3339",
		Output:     os.Stderr,
	}
}

// New creates a logger from cfg. A nil cfg uses DefaultConfig.
func New(cfg *Config) *Logger {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	var out io.Writer = os.Stderr
	if cfg.Output != nil {
		out = cfg.Output
	}
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.Kitchen}
	}

	zerolog.TimeFieldFormat = timeFormat(cfg.TimeFormat)
	zl := zerolog.New(out).Level(level(cfg.Level)).With().Timestamp().Logger()
	return &Logger{zl: zl}
}

// Nop returns a logger that discards everything.
func Nop() *Logger {
	return &Logger{zl: zerolog.Nop()}
}

// With returns a child logger that adds key=value to every entry.
func (l *Logger) With(key, value string) *Logger {
	return &Logger{zl: l.zl.With().Str(key, value).Logger()}
}

func (l *Logger) Debug(msg string) { l.zl.Debug().Msg(msg) }
func (l *Logger) Info(msg string)  { l.zl.Info().Msg(msg) }
func (l *Logger) Error(msg string) { l.zl.Error().Msg(msg) }

func (l *Logger) Infof(format string, args ...any) {
	l.zl.Info().Msgf(format, args...)
}

func (l *Logger) Warnf(format string, args ...any) {
	l.zl.Warn().Msgf(format, args...)
}

// ErrorWith logs err under msg with extra fields.
func (l *Logger) ErrorWith(msg string, err error, fields map[string]any) {
	l.zl.Error().Err(err).Fields(fields).Msg(msg)
}

// Sink adapts the logger to the single-argument progress sink the generator
// accepts. Leading tabs used for indentation in progress messages become a
// "depth" field so JSON output stays clean.
func (l *Logger) Sink() func(string) {
	return func(message string) {
		trimmed := strings.TrimLeft(message, "\t")
		event := l.zl.Info()
		if depth := len(message) - len(trimmed); depth > 0 {
			event = event.Int("depth", depth)
		}
		event.Msg(trimmed)
	}
}

// Request logs one served HTTP request.
func (l *Logger) Request(method, path string, status int, took time.Duration) {
	l.zl.Info().
		Str("method", method).
		Str("path", path).
		Int("status", status).
		Dur("took", took).
		Msg(fmt.Sprintf("%s %s", method, path))
}

// level falls back to info for empty or unknown names.
func level(name string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(strings.ToLower(name))
	if err != nil || lvl == zerolog.NoLevel {
		return zerolog.InfoLevel
	}
	return lvl
}

func timeFormat(format string) string {
	switch format {
	case "unix":
		return zerolog.TimeFormatUnix
	case "unixms":
		return zerolog.TimeFormatUnixMs
	case "unixmicro":
		return zerolog.TimeFormatUnixMicro
	default:
		return time.RFC3339
	}
}
