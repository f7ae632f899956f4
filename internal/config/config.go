// Package config loads the environment-supplied configuration surface
// and constructs the process logger.
package config

import (
	"strings"

	"github.com/rs/zerolog"
	"github.com/spf13/viper"
)

// Config is what the environment supplies: where the remote listing
// lives and how chatty the run should be. Everything else comes in as
// command-line flags.
type Config struct {
	// ListLocation is the base URL of the remote directory listing
	// (LIST_LOCATION).
	ListLocation string

	// LogLevel is the zerolog level name (LOG_LEVEL), default "info".
	LogLevel string
}

// Load reads the configuration from the environment.
func Load() Config {
	v := viper.New()
	v.AutomaticEnv()
	v.SetDefault("LOG_LEVEL", "info")

	return Config{
		ListLocation: v.GetString("LIST_LOCATION"),
		LogLevel:     v.GetString("LOG_LEVEL"),
	}
}

// NewLogger constructs the process logger. It is built once at startup
// and passed by value from there; unknown level names fall back to info.
func NewLogger(level string) zerolog.Logger {
	lvl, err := zerolog.ParseLevel(strings.ToLower(level))
	if err != nil || lvl == zerolog.NoLevel {
		lvl = zerolog.InfoLevel
	}
	return zerolog.New(zerolog.NewConsoleWriter()).Level(lvl).With().Timestamp().Logger()
}
