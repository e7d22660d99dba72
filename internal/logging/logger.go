package logging

import (
	"io"
	"os"
	"strings"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// LevelEnvVar names the environment variable that controls verbosity.
const LevelEnvVar = "ARCHIGEN_LOG_LEVEL"

// Init initializes the global logger with configuration from environment variables.
// ARCHIGEN_LOG_LEVEL controls the log level: debug, info, warn, error (default: info)
func Init() {
	InitWithWriter(zerolog.ConsoleWriter{Out: os.Stderr})
}

// InitJSON initializes the global logger with plain JSON output. Lambda and
// MCP (where stdout carries the protocol) use this form.
func InitJSON(w io.Writer) {
	InitWithWriter(w)
}

// InitWithWriter sets the global level from the environment and routes the
// global logger to w.
func InitWithWriter(w io.Writer) {
	zerolog.SetGlobalLevel(ParseLevel(os.Getenv(LevelEnvVar)))
	log.Logger = zerolog.New(w).With().Timestamp().Logger()
}

// ParseLevel maps a level name to a zerolog level, defaulting to info.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "debug":
		return zerolog.DebugLevel
	case "warn":
		return zerolog.WarnLevel
	case "error":
		return zerolog.ErrorLevel
	default:
		return zerolog.InfoLevel
	}
}
