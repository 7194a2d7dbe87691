package logging

import (
	"log/slog"
	"os"
)

// Name is the name of the application that the logger is for.
type Name string

// Config is the configuration for a logger.
type Config struct {
	// appName is the name of the application.
	appName string
}

// NewConfig creates a new logging configuration.
func NewConfig(name Name) *Config {
	return &Config{
		appName: string(name),
	}
}

// CommonLogger returns the logger that all applications should use. The
// returned logger is also installed as the slog default.
func CommonLogger(c *Config) (*slog.Logger, error) {
	h := slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelDebug,
	})

	l := slog.New(h).With(
		slog.String(KeyAppName, c.appName),
	)

	slog.SetDefault(l)
	return l, nil
}
