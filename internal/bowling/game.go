package bowling

import (
	"fmt"
	"strings"
)

// Roll is one entry of a game's roll history.
type Roll struct {
	Player PlayerID
	Frame  int
	Pins   int
}

// ActiveTurn describes who rolls next. RollNumber is 1-based within the frame.
type ActiveTurn struct {
	PlayerID   PlayerID
	PlayerName string
	FrameIndex int
	RollNumber int
}

// RollResult reports the effect of an accepted roll.
type RollResult struct {
	Player       PlayerID
	FrameIndex   int
	FrameClosed  bool
	FrameStatus  FrameStatus
	GameFinished bool
	Next         *ActiveTurn // nil once the game is finished
}

// PlayerCard is one player's row on the scoreboard.
type PlayerCard struct {
	ID           PlayerID
	Name         string
	Frames       []FrameScore
	Total        int
	CurrentFrame int
}

// Scoreboard is a consistent snapshot of the whole game.
type Scoreboard struct {
	Players  []PlayerCard
	Active   *ActiveTurn
	Finished bool
}

// Game is the aggregate of players, their frames, and the turn scheduler.
type Game struct {
	players []*Player
	turn    Turn
	history []Roll
}

// NewGame creates a game with one player per name, in registration order.
// Player IDs are p1..pN; blank names become "Player N".
func NewGame(names []string) (*Game, error) {
	if len(names) == 0 {
		return nil, ErrNoPlayers
	}
	g := &Game{
		players: make([]*Player, len(names)),
		turn:    firstTurn(),
	}
	for i, name := range names {
		name = strings.TrimSpace(name)
		if name == "" {
			name = fmt.Sprintf("Player %d", i+1)
		}
		g.players[i] = newPlayer(PlayerID(fmt.Sprintf("p%d", i+1)), name)
	}
	return g, nil
}

// SubmitRoll records pins for the given player. Every check runs before the
// first mutation, so a rejected roll leaves the game untouched.
func (g *Game) SubmitRoll(id PlayerID, pins int) (RollResult, error) {
	if g.turn.State == Finished {
		return RollResult{}, ErrGameFinished
	}
	idx, p := g.lookup(id)
	if p == nil {
		return RollResult{}, fmt.Errorf("%w: %q", ErrUnknownPlayer, id)
	}
	if p.Done() {
		return RollResult{}, fmt.Errorf("%w: %s has finished all %d frames", ErrFrameAlreadyClosed, p.Name, FrameCount)
	}
	if idx != g.turn.Player {
		active := g.players[g.turn.Player]
		return RollResult{}, fmt.Errorf("%w: %s is up, not %s", ErrNotPlayersTurn, active.Name, p.Name)
	}
	if err := p.checkRoll(pins); err != nil {
		return RollResult{}, err
	}

	frameIndex := p.CurrentFrame()
	frame, closed := p.recordRoll(pins)
	g.history = append(g.history, Roll{Player: id, Frame: frameIndex, Pins: pins})
	g.turn = nextTurn(g.players, g.turn)

	return RollResult{
		Player:       id,
		FrameIndex:   frameIndex,
		FrameClosed:  closed,
		FrameStatus:  frame.Status(),
		GameFinished: g.turn.State == Finished,
		Next:         g.ActiveTurn(),
	}, nil
}

// Roll submits pins for whoever is up.
func (g *Game) Roll(pins int) (RollResult, error) {
	if g.turn.State == Finished {
		return RollResult{}, ErrGameFinished
	}
	return g.SubmitRoll(g.players[g.turn.Player].ID, pins)
}

// ActiveTurn returns who rolls next, or nil once the game is finished.
func (g *Game) ActiveTurn() *ActiveTurn {
	if g.turn.State == Finished {
		return nil
	}
	p := g.players[g.turn.Player]
	return &ActiveTurn{
		PlayerID:   p.ID,
		PlayerName: p.Name,
		FrameIndex: g.turn.Frame,
		RollNumber: len(p.frame(g.turn.Frame).Rolls) + 1,
	}
}

// Turn returns the scheduler state.
func (g *Game) Turn() Turn {
	return g.turn
}

// Finished reports whether every player has closed frame 10.
func (g *Game) Finished() bool {
	return g.turn.State == Finished
}

// Players returns copies of the players in registration order.
func (g *Game) Players() []Player {
	out := make([]Player, len(g.players))
	for i, p := range g.players {
		out[i] = p.clone()
	}
	return out
}

// Names returns the player names in registration order.
func (g *Game) Names() []string {
	out := make([]string, len(g.players))
	for i, p := range g.players {
		out[i] = p.Name
	}
	return out
}

// History returns a copy of every accepted roll in order.
func (g *Game) History() []Roll {
	return append([]Roll(nil), g.history...)
}

// Scoreboard returns a deep-copied snapshot of the game.
func (g *Game) Scoreboard() Scoreboard {
	sb := Scoreboard{
		Players:  make([]PlayerCard, len(g.players)),
		Active:   g.ActiveTurn(),
		Finished: g.Finished(),
	}
	for i, p := range g.players {
		sb.Players[i] = PlayerCard{
			ID:           p.ID,
			Name:         p.Name,
			Frames:       p.Scores(),
			Total:        p.Total(),
			CurrentFrame: p.CurrentFrame(),
		}
	}
	return sb
}

// Leaders returns the players sharing the highest total.
func (g *Game) Leaders() []PlayerCard {
	sb := g.Scoreboard()
	var leaders []PlayerCard
	for _, card := range sb.Players {
		switch {
		case len(leaders) == 0 || card.Total > leaders[0].Total:
			leaders = []PlayerCard{card}
		case card.Total == leaders[0].Total:
			leaders = append(leaders, card)
		}
	}
	return leaders
}

func (g *Game) lookup(id PlayerID) (int, *Player) {
	for i, p := range g.players {
		if p.ID == id {
			return i, p
		}
	}
	return -1, nil
}
