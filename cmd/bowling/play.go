package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/vovakirdan/tui-bowling/internal/lanes"
	"github.com/vovakirdan/tui-bowling/internal/platform/tui"
	"github.com/vovakirdan/tui-bowling/internal/storage"
)

var flagResume string

var playCmd = &cobra.Command{
	Use:   "play [names...]",
	Short: "Bowl a game at this terminal",
	Long: `Start a game for the given players, in bowling order. Without names the
configured default players are used.

Controls:
  0-9        - Pins knocked down
  X          - Strike
  /          - Spare
  U          - Undo the last roll
  N          - New game with the same players
  Tab        - High scores
  Q/Ctrl+C   - Quit

Examples:
  bowling play
  bowling play Ann Bob Cid
  bowling play --resume 6f1c...`,
	RunE: runPlay,
}

func init() {
	playCmd.Flags().StringVar(&flagResume, "resume", "", "Resume a recorded game by id")
}

func runPlay(cmd *cobra.Command, args []string) error {
	if !term.IsTerminal(int(os.Stdin.Fd())) {
		return errors.New("play needs an interactive terminal; use 'bowling score' for scripted games")
	}

	store, err := openStore()
	if err != nil {
		// Continue without storage - the game still works
		logger.Warn("could not open games database", "error", err)
		store = nil
	}
	if store != nil {
		defer store.Close()
	}

	opts := []lanes.Option{lanes.WithLogger(logger)}
	if store != nil {
		opts = append(opts, lanes.WithRecorder(store))
	}
	svc := lanes.NewService(opts...)

	var lane tui.LaneModel
	if flagResume != "" {
		lane, err = resumeLane(cmd, svc, store, flagResume)
	} else {
		names := args
		if len(names) == 0 {
			names = cfg.Lanes.DefaultPlayers
		}
		lane, err = tui.NewLaneModel(svc, names)
	}
	if err != nil {
		return err
	}

	return tui.RunSession(lane, store, cfg.Lanes.ScoreLimit)
}

// resumeLane rebuilds a recorded game and hosts it under its original id, so
// new rolls continue the same roll log.
func resumeLane(cmd *cobra.Command, svc *lanes.Service, store *storage.Store, id string) (tui.LaneModel, error) {
	if store == nil {
		return tui.LaneModel{}, errStorageDisabled
	}
	g, err := store.LoadGame(id)
	if err != nil {
		return tui.LaneModel{}, err
	}
	if g.Finished() {
		return tui.LaneModel{}, fmt.Errorf("game %s is already finished", id)
	}
	if err := svc.Restore(cmd.Context(), lanes.GameID(id), g); err != nil {
		return tui.LaneModel{}, err
	}
	return tui.OpenLaneModel(svc, lanes.GameID(id))
}
