package config

import (
	_ "embed"
	"os"
	"time"

	"github.com/charmbracelet/log"
)

//go:embed defaults/bowling.yaml
var defaultBowlingYAML []byte

// Default returns the hardcoded default configuration.
// It mirrors defaults/bowling.yaml and is used if the embedded file cannot be parsed.
func Default() Config {
	return Config{
		Storage: StorageConfig{
			DBPath: "~/.bowling/games.db",
		},
		Log: LogConfig{
			Level:  "info",
			Prefix: "bowling",
		},
		SSH: SSHConfig{
			Address:     ":23235",
			HostKeyPath: "~/.bowling/host_key",
			IdleTimeout: 30 * time.Minute,
		},
		Lanes: LanesConfig{
			DefaultPlayers: []string{"Player 1"},
			ScoreLimit:     10,
		},
	}
}

// DefaultYAML returns the embedded default configuration file.
func DefaultYAML() []byte {
	return defaultBowlingYAML
}

// NewLogger creates a charmbracelet logger writing to stderr.
func NewLogger(cfg LogConfig) *log.Logger {
	level, err := log.ParseLevel(cfg.Level)
	if err != nil {
		level = log.InfoLevel
	}
	return log.NewWithOptions(os.Stderr, log.Options{
		ReportTimestamp: true,
		Prefix:          cfg.Prefix,
		Level:           level,
	})
}
