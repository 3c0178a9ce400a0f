// Package logging provides structured logging for the coder agent core,
// built on zerolog. Components take a *zerolog.Logger explicitly rather
// than reaching for a package global, so a planner phase and a worker
// phase of the same run can carry distinct fields (session ID, role).
package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
)

// Level aliases zerolog's level type for convenience at call sites.
type Level = zerolog.Level

const (
	DebugLevel = zerolog.DebugLevel
	InfoLevel  = zerolog.InfoLevel
	WarnLevel  = zerolog.WarnLevel
	ErrorLevel = zerolog.ErrorLevel
)

// Config configures a root logger.
type Config struct {
	// Level is the minimum level to emit.
	Level Level
	// Output is where logs are written. Defaults to os.Stderr.
	Output io.Writer
	// Pretty enables a human-readable console writer instead of JSON.
	Pretty bool
}

// DefaultConfig returns an Info-level, JSON-to-stderr configuration.
func DefaultConfig() Config {
	return Config{Level: InfoLevel, Output: os.Stderr}
}

// New builds a root logger from cfg.
func New(cfg Config) zerolog.Logger {
	if cfg.Output == nil {
		cfg.Output = os.Stderr
	}
	zerolog.TimeFieldFormat = time.RFC3339

	out := cfg.Output
	if cfg.Pretty {
		out = zerolog.ConsoleWriter{Out: cfg.Output, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).Level(cfg.Level).With().Timestamp().Logger()
}

// ParseLevel parses a level string case-insensitively, defaulting to Info.
func ParseLevel(level string) Level {
	switch strings.ToUpper(strings.TrimSpace(level)) {
	case "DEBUG":
		return DebugLevel
	case "WARN", "WARNING":
		return WarnLevel
	case "ERROR":
		return ErrorLevel
	default:
		return InfoLevel
	}
}

// Session returns a child logger scoped to one agent run.
func Session(base zerolog.Logger, sessionID string) zerolog.Logger {
	return base.With().Str("session_id", sessionID).Logger()
}

// Role returns a child logger scoped to one orchestrator phase (planner/worker).
func Role(base zerolog.Logger, role string) zerolog.Logger {
	return base.With().Str("role", role).Logger()
}
