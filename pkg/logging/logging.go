// Package logging configures structured JSON logging for the CLI. The
// resolver core is pure and does not log; only the outer surfaces do.
package logging

import (
	"log/slog"
	"os"
	"strings"
)

// levelEnvVar controls logging verbosity; INFO when unset.
const levelEnvVar = "LOG_LEVEL"

// ParseLevel converts a level name to a slog.Level, defaulting to Info
// for unknown values.
func ParseLevel(s string) slog.Level {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "DEBUG":
		return slog.LevelDebug
	case "WARN", "WARNING":
		return slog.LevelWarn
	case "ERROR":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// SetDefault installs a JSON logger on stderr as the slog default,
// tagged with the module name and version. The LOG_LEVEL environment
// variable selects verbosity.
func SetDefault(module, version string) {
	level := ParseLevel(os.Getenv(levelEnvVar))
	handler := slog.NewJSONHandler(os.Stderr, &slog.HandlerOptions{
		Level:     level,
		AddSource: level == slog.LevelDebug,
	})
	logger := slog.New(handler).With("module", module, "version", version)
	slog.SetDefault(logger)
}
