package main

import (
	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bowling/internal/lanes"
	"github.com/vovakirdan/tui-bowling/internal/platform/tui"
)

var (
	flagSSHAddr string
	flagHostKey string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start SSH server for remote lanes",
	Long: `Start an SSH server. Every connection gets its own lane; players are
named by the SSH command, or the SSH user when no command is given.

Connect with:
  ssh -t -p 23235 localhost
  ssh -t -p 23235 localhost Ann Bob

Spectate a lane another session is bowling:
  ssh -p 23235 localhost watch
  ssh -t -p 23235 localhost watch <id>

Examples:
  bowling serve
  bowling serve --ssh :2222
  bowling serve --host-key ~/.ssh/bowling_host_key`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().StringVar(&flagSSHAddr, "ssh", "", "SSH listen address (default from config)")
	serveCmd.Flags().StringVar(&flagHostKey, "host-key", "", "Path to SSH host key (default from config)")
}

func runServe(_ *cobra.Command, _ []string) error {
	if flagSSHAddr != "" {
		cfg.SSH.Address = flagSSHAddr
	}
	if flagHostKey != "" {
		cfg.SSH.HostKeyPath = flagHostKey
	}

	store, err := openStore()
	if err != nil {
		logger.Warn("could not open games database", "error", err)
		// Continue without storage
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := []lanes.Option{lanes.WithLogger(logger.WithPrefix(cfg.Log.Prefix + "-lanes"))}
	if store != nil {
		opts = append(opts, lanes.WithRecorder(store))
	}
	svc := lanes.NewService(opts...)

	server, err := tui.NewSSHServer(cfg, svc, store, logger.WithPrefix(cfg.Log.Prefix+"-ssh"))
	if err != nil {
		return err
	}
	return server.ListenAndServe()
}
