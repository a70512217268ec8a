package ardent

import (
	"log/slog"
	"strings"

	"github.com/kelseyhightower/envconfig"
)

// Config holds scene tunables. LoadConfig fills it from ARDENT_* environment
// variables; DefaultConfig returns the same defaults without reading the
// environment.
type Config struct {
	DragDeadZone  float64 `envconfig:"DRAG_DEAD_ZONE" default:"4"`
	Debug         bool    `envconfig:"DEBUG" default:"false"`
	LogLevel      string  `envconfig:"LOG_LEVEL" default:"warn"`
	MaxTreeDepth  int     `envconfig:"MAX_TREE_DEPTH" default:"32"`
	MaxChildCount int     `envconfig:"MAX_CHILD_COUNT" default:"1000"`
}

// DefaultConfig returns the built-in defaults.
func DefaultConfig() Config {
	return Config{
		DragDeadZone:  defaultDragDeadZone,
		LogLevel:      "warn",
		MaxTreeDepth:  32,
		MaxChildCount: 1000,
	}
}

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var cfg Config
	if err := envconfig.Process("ardent", &cfg); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Level maps LogLevel to a slog level. Unknown names fall back to warn.
func (c Config) Level() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "error":
		return slog.LevelError
	default:
		return slog.LevelWarn
	}
}
