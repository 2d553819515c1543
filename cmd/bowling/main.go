// bowling scores ten-pin games for any number of players, at one terminal
// or over SSH.
//
// Usage:
//
//	bowling play [names...]        - Bowl a game at this terminal
//	bowling score [rolls...]       - Score a roll sequence and print the sheet
//	bowling scores                 - Show high scores and recent games
//	bowling serve                  - Start SSH server for remote lanes
//
// Global flags:
//
//	--config <path>     - Config file (default: ~/.bowling/config.yaml)
//	--db <path>         - Games database (default: ~/.bowling/games.db)
//	--log-level <level> - debug, info, warn or error
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bowling/internal/config"
	"github.com/vovakirdan/tui-bowling/internal/storage"
)

var (
	// Global flags
	flagConfig   string
	flagDBPath   string
	flagLogLevel string
	flagNoDB     bool

	cfg    config.Config
	logger *log.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(exitCode(err))
	}
}

var rootCmd = &cobra.Command{
	Use:   "bowling",
	Short: "Ten-pin bowling scorekeeper for the terminal",
	Long: `bowling keeps score for ten-pin bowling games with any number of
players taking turns frame by frame.

Available commands:
  play     - Bowl a game interactively
  score    - Score a sequence of rolls
  scores   - View high scores, player stats and recent games
  serve    - Start SSH server for remote lanes

Examples:
  bowling play Ann Bob
  bowling score x 7 / 9 0
  bowling score --players Ann,Bob x 7 / 9 -
  bowling scores --player Ann
  bowling serve --ssh :2222`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: loadConfig,
}

func init() {
	rootCmd.PersistentFlags().StringVar(&flagConfig, "config", "", "Path to config YAML")
	rootCmd.PersistentFlags().StringVar(&flagDBPath, "db", "", "Path to games database")
	rootCmd.PersistentFlags().StringVar(&flagLogLevel, "log-level", "", "Log level: debug, info, warn, error")
	rootCmd.PersistentFlags().BoolVar(&flagNoDB, "no-db", false, "Do not record games")

	rootCmd.AddCommand(playCmd)
	rootCmd.AddCommand(scoreCmd)
	rootCmd.AddCommand(scoresCmd)
	rootCmd.AddCommand(serveCmd)
}

// loadConfig resolves configuration once for every subcommand.
// Precedence: flags, then BOWLING_* environment, then config files, then defaults.
func loadConfig(cmd *cobra.Command, _ []string) error {
	loaded, err := config.Load(flagConfig)
	if err != nil {
		return err
	}
	if flagDBPath != "" {
		loaded.Storage.DBPath = flagDBPath
	}
	if flagNoDB {
		loaded.Storage.Disabled = true
	}
	if flagLogLevel != "" {
		loaded.Log.Level = flagLogLevel
	}

	cfg = loaded
	logger = cfg.NewLogger()
	logger.Debug("config loaded", "command", cmd.Name(), "db", cfg.Storage.DBPath, "db_disabled", cfg.Storage.Disabled)
	return nil
}

// openStore opens the games database unless storage is disabled.
// A nil store with a nil error means games are not recorded.
func openStore() (*storage.Store, error) {
	if cfg.Storage.Disabled {
		return nil, nil
	}
	return storage.Open(cfg.Storage.DBPath)
}

// errStorageDisabled is returned by commands that only read recorded games.
var errStorageDisabled = errors.New("storage is disabled; nothing is recorded")
