package logging

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/ZicoForREAL/fullstackAPP/internal/config"
	"github.com/rs/zerolog"
)

const appName = "fullstackapp"

// Bootstrap sets the process-wide zerolog options and returns a stderr logger
// for failures that happen before the config is loaded. Call it once from main.
func Bootstrap() zerolog.Logger {
	zerolog.TimeFieldFormat = time.RFC3339Nano
	return zerolog.New(os.Stderr).With().Timestamp().Str("app", appName).Logger()
}

// New builds the process logger. JSON to stdout at info level unless the
// config says otherwise.
func New(cfg *config.Config) zerolog.Logger {
	return NewWithWriter(cfg, os.Stdout)
}

func NewWithWriter(cfg *config.Config, out io.Writer) zerolog.Logger {
	level := zerolog.InfoLevel
	if parsed, err := zerolog.ParseLevel(strings.ToLower(strings.TrimSpace(cfg.LogLevel))); err == nil && parsed != zerolog.NoLevel {
		level = parsed
	}

	if cfg.LogFormat == "console" {
		out = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	return zerolog.New(out).
		Level(level).
		With().
		Timestamp().
		Str("app", appName).
		Str("env", cfg.AppEnv).
		Logger()
}
