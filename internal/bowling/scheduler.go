package bowling

import "fmt"

// TurnState is the state of the turn scheduler.
type TurnState int

const (
	AwaitingRoll TurnState = iota
	Finished
)

// String returns a human-readable name for the state.
func (s TurnState) String() string {
	switch s {
	case AwaitingRoll:
		return "awaiting-roll"
	case Finished:
		return "game-finished"
	default:
		return "unknown"
	}
}

// Turn is the scheduler state. Frame and Player are meaningful only while
// awaiting a roll; Player indexes the registration order.
type Turn struct {
	State  TurnState
	Frame  int
	Player int
}

func (t Turn) String() string {
	if t.State == Finished {
		return t.State.String()
	}
	return fmt.Sprintf("%s(frame=%d, player=%d)", t.State, t.Frame, t.Player)
}

// firstTurn opens frame 1 for the first registered player.
func firstTurn() Turn {
	return Turn{State: AwaitingRoll, Frame: 1, Player: 0}
}

// nextTurn derives the scheduler state after a roll by the active player.
//
// The active player keeps the lane until their frame closes. After that the
// lane goes to the next player, in registration order, who still owes the same
// frame. Only when nobody owes it does play move on to the lowest frame still
// outstanding, so no player can lap the table.
func nextTurn(players []*Player, t Turn) Turn {
	switch t.State {
	case Finished:
		return t
	case AwaitingRoll:
		if players[t.Player].CurrentFrame() == t.Frame {
			return t
		}

		n := len(players)
		for step := 1; step < n; step++ {
			i := (t.Player + step) % n
			if players[i].CurrentFrame() == t.Frame {
				return Turn{State: AwaitingRoll, Frame: t.Frame, Player: i}
			}
		}

		frame := lowestOpenFrame(players)
		if frame > FrameCount {
			return Turn{State: Finished}
		}
		for i, p := range players {
			if p.CurrentFrame() == frame {
				return Turn{State: AwaitingRoll, Frame: frame, Player: i}
			}
		}
		return Turn{State: Finished}
	default:
		return t
	}
}

// lowestOpenFrame returns the smallest frame any player still owes,
// or FrameCount+1 when every player is done.
func lowestOpenFrame(players []*Player) int {
	lowest := FrameCount + 1
	for _, p := range players {
		if c := p.CurrentFrame(); c < lowest {
			lowest = c
		}
	}
	return lowest
}
