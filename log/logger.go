package log

import (
	"io"
	"os"
	"strings"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
)

// Stdout carries generated text, so logs go to stderr.
var logger = zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).
	With().Timestamp().Logger().
	Level(zerolog.InfoLevel)

// Configure sets the level (debug, info, warn, error) and the format
// (console or json) of the process logger.
func Configure(level, format string) error {
	return configure(os.Stderr, level, format)
}

func configure(w io.Writer, level, format string) error {
	lvl := zerolog.InfoLevel
	if level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(level))
		if err != nil {
			return errors.Errorf("invalid log level %q", level)
		}
		lvl = parsed
	}

	switch format {
	case "", "console":
		w = zerolog.ConsoleWriter{Out: w}
	case "json":
	default:
		return errors.Errorf("invalid log format %q", format)
	}

	logger = zerolog.New(w).With().Timestamp().Logger().Level(lvl)
	return nil
}

// SetOutput redirects the logger, keeping its level.
func SetOutput(w io.Writer) {
	logger = logger.Output(w)
}

// With returns a child logger carrying extra fields.
func With() zerolog.Context {
	return logger.With()
}

func Debug() *zerolog.Event { return logger.Debug() }
func Info() *zerolog.Event  { return logger.Info() }
func Warn() *zerolog.Event  { return logger.Warn() }
func Error() *zerolog.Event { return logger.Error() }

// Fatal logs err and exits the process with status 1.
func Fatal(err error) {
	logger.Fatal().Err(err).Msg("pybridgegen failed")
}
