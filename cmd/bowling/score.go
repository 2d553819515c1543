package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
	"github.com/vovakirdan/tui-bowling/internal/platform/tui"
)

var (
	flagPlayers []string
	flagRecord  bool
	flagTotals  bool
)

// Exit codes for rejected rolls, one per error kind.
const (
	exitOK                 = 0
	exitFailure            = 1
	exitInvalidRoll        = 2
	exitNotPlayersTurn     = 3
	exitFrameAlreadyClosed = 4
	exitGameFinished       = 5
)

var scoreCmd = &cobra.Command{
	Use:   "score [rolls...]",
	Short: "Score a sequence of rolls",
	Long: `Bowl the given rolls in turn order and print the score sheet.

Each roll is a pin count or a mark: X (strike), / (spare) or - (miss).
Prefix a roll with a player name or id to bowl it for that player, e.g.
Bob:7; the roll is then rejected unless it is that player's turn.

Exit codes:
  0  all rolls accepted
  1  other error
  2  invalid roll
  3  not the player's turn
  4  frame already closed
  5  game already finished

Examples:
  bowling score x x x x x x x x x x x x
  bowling score --players Ann,Bob 9 / x 7 2
  bowling score --players Ann,Bob Ann:3 Bob:4`,
	RunE: runScore,
}

func init() {
	scoreCmd.Flags().StringSliceVar(&flagPlayers, "players", nil, "Comma-separated player names (default from config)")
	scoreCmd.Flags().BoolVar(&flagRecord, "record", false, "Record the game in the games database")
	scoreCmd.Flags().BoolVar(&flagTotals, "totals", false, "Print only each player's total")
}

func runScore(cmd *cobra.Command, args []string) error {
	names := flagPlayers
	if len(names) == 0 {
		names = cfg.Lanes.DefaultPlayers
	}

	opts := []lanes.Option{lanes.WithLogger(logger)}
	if flagRecord {
		store, err := openStore()
		if err != nil {
			return err
		}
		if store == nil {
			return errStorageDisabled
		}
		defer store.Close()
		opts = append(opts, lanes.WithRecorder(store))
	}
	svc := lanes.NewService(opts...)

	ctx := cmd.Context()
	id, err := svc.CreateGame(ctx, names)
	if err != nil {
		return err
	}

	rollErr := bowlAll(cmd, svc, id, args)

	board, err := svc.Scoreboard(ctx, id)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	if flagTotals {
		for _, p := range board.Players {
			fmt.Fprintf(out, "%s\t%d\n", p.Name, p.Total)
		}
	} else {
		fmt.Fprintln(out, tui.RenderSheet(board))
		if board.Active != nil {
			fmt.Fprintf(out, "Next: %s, frame %d, ball %d\n", board.Active.PlayerName, board.Active.FrameIndex, board.Active.RollNumber)
		}
	}
	if flagRecord {
		fmt.Fprintf(cmd.ErrOrStderr(), "recorded game %s\n", id)
	}
	return rollErr
}

// bowlAll submits each roll argument in order and stops at the first rejected one.
func bowlAll(cmd *cobra.Command, svc *lanes.Service, id lanes.GameID, args []string) error {
	ctx := cmd.Context()
	for i, arg := range args {
		board, err := svc.Scoreboard(ctx, id)
		if err != nil {
			return err
		}
		player, pins, err := parseRollArg(board, arg)
		if err == nil {
			_, err = svc.SubmitRoll(ctx, id, player, pins)
		}
		if err != nil {
			if kind := bowling.ErrorKind(err); kind != "" {
				return fmt.Errorf("%s: roll %d %q: %w", kind, i+1, arg, err)
			}
			return fmt.Errorf("roll %d %q: %w", i+1, arg, err)
		}
	}
	return nil
}

// parseRollArg reads "[player:]mark". Without a player the roll goes to whoever
// is up; marks are read against that player's current frame.
func parseRollArg(board bowling.Scoreboard, arg string) (bowling.PlayerID, int, error) {
	who, mark, named := strings.Cut(arg, ":")
	if !named {
		mark = who
	}

	var card *bowling.PlayerCard
	switch {
	case named:
		for i := range board.Players {
			p := &board.Players[i]
			if string(p.ID) == who || strings.EqualFold(p.Name, who) {
				card = p
				break
			}
		}
		if card == nil {
			return "", 0, fmt.Errorf("%w: %q", bowling.ErrUnknownPlayer, who)
		}
	case board.Active == nil:
		return "", 0, bowling.ErrGameFinished
	default:
		for i := range board.Players {
			if board.Players[i].ID == board.Active.PlayerID {
				card = &board.Players[i]
			}
		}
	}

	// Marks like "/" need a frame to read against
	if card.CurrentFrame > bowling.FrameCount {
		return "", 0, fmt.Errorf("%w: %s has finished all %d frames", bowling.ErrFrameAlreadyClosed, card.Name, bowling.FrameCount)
	}

	frame := bowling.Frame{Index: card.CurrentFrame}
	if card.CurrentFrame >= 1 && card.CurrentFrame <= len(card.Frames) {
		frame.Rolls = card.Frames[card.CurrentFrame-1].Rolls
	}
	pins, err := frame.ParseMark(mark)
	if err != nil {
		return "", 0, err
	}
	return card.ID, pins, nil
}

// exitCode maps an error to the process exit status.
func exitCode(err error) int {
	switch {
	case err == nil:
		return exitOK
	case errors.Is(err, bowling.ErrInvalidRoll):
		return exitInvalidRoll
	case errors.Is(err, bowling.ErrNotPlayersTurn):
		return exitNotPlayersTurn
	case errors.Is(err, bowling.ErrFrameAlreadyClosed):
		return exitFrameAlreadyClosed
	case errors.Is(err, bowling.ErrGameFinished):
		return exitGameFinished
	default:
		return exitFailure
	}
}
