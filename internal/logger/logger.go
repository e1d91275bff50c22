// Package logger configures the process-wide zerolog logger
package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Config holds logging configuration
type Config struct {
	Level  string // trace, debug, info, warn, error
	Format string // json, console
	Output string // stdout, stderr, or a file path
}

// DefaultConfig logs info and above to stdout in console format
func DefaultConfig() Config {
	return Config{
		Level:  "info",
		Format: "console",
		Output: "stdout",
	}
}

// Setup initializes the global logger
func Setup(cfg Config) error {
	level := zerolog.InfoLevel
	if cfg.Level != "" {
		parsed, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
		if err != nil {
			return err
		}
		level = parsed
	}
	zerolog.SetGlobalLevel(level)

	var output io.Writer
	switch cfg.Output {
	case "", "stdout":
		output = os.Stdout
	case "stderr":
		output = os.Stderr
	default:
		file, err := os.OpenFile(cfg.Output, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		output = file
	}

	if strings.ToLower(cfg.Format) != "json" {
		output = zerolog.ConsoleWriter{Out: output, TimeFormat: time.RFC3339}
	}

	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = zerolog.New(output).With().Timestamp().Logger()
	return nil
}

// WithComponent returns a logger tagged with a component field
func WithComponent(component string) zerolog.Logger {
	return log.Logger.With().Str("component", component).Logger()
}
