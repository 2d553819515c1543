// Package config provides YAML-based configuration loading for the bowling
// lanes, with environment variable overrides.
package config

import (
	"time"

	"github.com/charmbracelet/log"
)

// Config contains all configuration for the bowling lanes.
type Config struct {
	Storage StorageConfig `yaml:"storage" envPrefix:"STORAGE_"`
	Log     LogConfig     `yaml:"log" envPrefix:"LOG_"`
	SSH     SSHConfig     `yaml:"ssh" envPrefix:"SSH_"`
	Lanes   LanesConfig   `yaml:"lanes" envPrefix:"LANES_"`
}

// StorageConfig defines where finished and in-progress games are recorded.
type StorageConfig struct {
	DBPath   string `yaml:"db_path" env:"DB_PATH"`
	Disabled bool   `yaml:"disabled" env:"DISABLED"` // Play without recording games
}

// LogConfig defines logger settings.
type LogConfig struct {
	Level  string `yaml:"level" env:"LEVEL"` // debug, info, warn, error
	Prefix string `yaml:"prefix" env:"PREFIX"`
}

// SSHConfig defines the SSH lane server.
type SSHConfig struct {
	Address     string        `yaml:"address" env:"ADDRESS"`
	HostKeyPath string        `yaml:"host_key_path" env:"HOST_KEY_PATH"`
	IdleTimeout time.Duration `yaml:"idle_timeout" env:"IDLE_TIMEOUT"`
}

// LanesConfig defines game defaults.
type LanesConfig struct {
	DefaultPlayers []string `yaml:"default_players" env:"DEFAULT_PLAYERS" envSeparator:","`
	ScoreLimit     int      `yaml:"score_limit" env:"SCORE_LIMIT"` // Rows on the high-score table
}

// NewLogger builds the structured logger used across the lanes.
func (c Config) NewLogger() *log.Logger {
	return NewLogger(c.Log)
}
