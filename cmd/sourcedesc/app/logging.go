package app

import (
	"io"
	"log/slog"
	"strings"

	"github.com/spf13/viper"
)

// EnvPrefix is the prefix of environment variables read by the CLI.
const EnvPrefix = "SOURCEDESC"

var logLevel = new(slog.LevelVar)

// SetupLogging installs a JSON handler on w as the default logger. The level
// comes from SOURCEDESC_LOG_LEVEL, or from the config file when unset.
func SetupLogging(w io.Writer) {
	if s, ok := envLogLevel(); ok {
		logLevel.Set(parseLevel(s))
	}
	slog.SetDefault(slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: logLevel})))
}

func envLogLevel() (string, bool) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	s := v.GetString("LOG_LEVEL")
	return s, s != ""
}

// applyConfigLogLevel sets the level from the config file unless the
// environment already chose one.
func applyConfigLogLevel(level string) {
	if _, ok := envLogLevel(); ok {
		return
	}
	logLevel.Set(parseLevel(level))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(s) {
	case "debug":
		return slog.LevelDebug
	case "info", "":
		return slog.LevelInfo
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		slog.Warn("Invalid log level, using INFO", "value", s)
		return slog.LevelInfo
	}
}
