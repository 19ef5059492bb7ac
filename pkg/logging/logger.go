// Package logging provides structured logging configuration using zerolog.
package logging

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LogLevel represents the logging level.
type LogLevel string

const (
	// LevelDebug logs debug messages and above.
	LevelDebug LogLevel = "debug"

	// LevelInfo logs info messages and above.
	LevelInfo LogLevel = "info"

	// LevelWarn logs warning messages and above.
	LevelWarn LogLevel = "warn"

	// LevelError logs error messages only.
	LevelError LogLevel = "error"
)

// Config holds logger configuration.
type Config struct {
	// Level is the minimum log level to output.
	Level LogLevel `validate:"required,oneof=debug info warn error"`

	// Pretty enables human-readable console output (default: false for JSON).
	Pretty bool

	// Output is the writer to output logs to (default: os.Stderr).
	Output io.Writer `validate:"required"`
}

var validate = validator.New()

// DefaultConfig returns a default logger configuration.
func DefaultConfig() Config {
	return Config{
		Level:  LevelInfo,
		Pretty: false,
		Output: os.Stderr,
	}
}

// Validate checks the level name and output.
func (c Config) Validate() error {
	if err := validate.Struct(c); err != nil {
		return fmt.Errorf("invalid logging config: %w", err)
	}
	return nil
}

// Setup configures the global zerolog logger.
// Unknown levels fall back to info; call Validate first to reject them.
func Setup(cfg Config) zerolog.Logger {
	zerolog.SetGlobalLevel(parseLevel(cfg.Level))

	output := cfg.Output
	if output == nil {
		output = os.Stderr
	}
	if cfg.Pretty {
		output = zerolog.ConsoleWriter{Out: output}
	}

	logger := zerolog.New(output).With().Timestamp().Logger()
	log.Logger = logger

	return logger
}

// parseLevel converts LogLevel to zerolog.Level.
func parseLevel(level LogLevel) zerolog.Level {
	switch strings.ToLower(string(level)) {
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

// NewLogger creates a new logger with the given component name.
func NewLogger(component string) zerolog.Logger {
	return log.With().Str("component", component).Logger()
}

// Log Level Guidelines:
//
// Debug: per request and per page detail
//   - Cache hit/miss, conditional requests, ETags
//   - Each fetched page (listing, page, items, continuation)
//
// Info: one line per completed operation
//   - Completed traversals (listing, pages, items, outcome)
//   - CLI command results
//
// Warn: degraded but continuing
//   - Retry attempts
//   - Rate limited responses (Retry-After)
//   - Cache errors (request goes to the API)
//
// Error: the operation failed
//   - Requests failing after retries
//   - Requests blocked by a long back-off window
//   - Configuration errors
//
// Context Fields:
//   - component: kontent-client, pagination, delivery, management, events, cli
//   - endpoint: metric label of the request
//   - status_code, error_class, request_id: failed responses
//   - listing, page, items, continuation: pagination
//   - retry_after, wait_duration: rate limiting
