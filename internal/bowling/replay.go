package bowling

import "fmt"

// Replay rebuilds a game from its player names and roll history. Any roll the
// rules reject aborts the replay with the position of the offending roll.
func Replay(names []string, history []Roll) (*Game, error) {
	g, err := NewGame(names)
	if err != nil {
		return nil, err
	}
	for i, r := range history {
		res, err := g.SubmitRoll(r.Player, r.Pins)
		if err != nil {
			return nil, wrapRoll(i, err)
		}
		if res.FrameIndex != r.Frame {
			return nil, wrapRoll(i, fmt.Errorf("%w: recorded for frame %d but frame %d was open", ErrInvalidRoll, r.Frame, res.FrameIndex))
		}
	}
	return g, nil
}

// Play creates a game and bowls pins in turn order, each roll going to
// whoever is up.
func Play(names []string, pins []int) (*Game, error) {
	g, err := NewGame(names)
	if err != nil {
		return nil, err
	}
	for i, p := range pins {
		if _, err := g.Roll(p); err != nil {
			return g, wrapRoll(i, err)
		}
	}
	return g, nil
}

// Undo returns a new game with every roll but the last replayed. Rolls cannot
// be retracted from a game in place.
func (g *Game) Undo() (*Game, error) {
	if len(g.history) == 0 {
		return nil, fmt.Errorf("undo: no rolls recorded")
	}
	return Replay(g.Names(), g.history[:len(g.history)-1])
}

func wrapRoll(i int, err error) error {
	return fmt.Errorf("roll %d: %w", i+1, err)
}
