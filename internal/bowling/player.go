package bowling

// PlayerID identifies a player within a game.
type PlayerID string

// Player owns ten frames and the cumulative score derived from them.
type Player struct {
	ID     PlayerID
	Name   string
	Frames [FrameCount]Frame

	// current is the index of the first frame not yet closed, FrameCount+1 once done.
	current int
	scores  []FrameScore
	total   int
}

func newPlayer(id PlayerID, name string) *Player {
	p := &Player{ID: id, Name: name, current: 1}
	for i := range p.Frames {
		p.Frames[i].Index = i + 1
	}
	p.scores = Resolve(p.Frames[:])
	return p
}

// CurrentFrame returns the first frame the player has not closed yet,
// or FrameCount+1 when all ten are closed.
func (p *Player) CurrentFrame() int {
	return p.current
}

// Done reports whether the player has closed all ten frames.
func (p *Player) Done() bool {
	return p.current > FrameCount
}

// Total returns the last finalized cumulative score.
func (p *Player) Total() int {
	return p.total
}

// Scores returns a copy of the per-frame resolved scores.
func (p *Player) Scores() []FrameScore {
	out := make([]FrameScore, len(p.scores))
	for i, s := range p.scores {
		out[i] = s
		out[i].Rolls = append([]int(nil), s.Rolls...)
	}
	return out
}

// frame returns a pointer to the frame with the given 1-based index.
func (p *Player) frame(index int) *Frame {
	return &p.Frames[index-1]
}

// checkRoll validates pins against the player's open frame.
func (p *Player) checkRoll(pins int) error {
	if p.Done() {
		return p.Frames[FrameCount-1].check(pins)
	}
	return p.frame(p.current).check(pins)
}

// recordRoll appends pins to the open frame and reports whether it closed.
// The roll must have passed checkRoll.
func (p *Player) recordRoll(pins int) (frame Frame, closed bool) {
	f := p.frame(p.current)
	f.Rolls = append(f.Rolls, pins)
	closed = f.Closed()
	if closed {
		p.current++
	}
	p.rescore()
	return f.clone(), closed
}

// rescore is the only writer of the cumulative score fields.
func (p *Player) rescore() {
	p.scores = Resolve(p.Frames[:])
	p.total = Total(p.scores)
}

func (p *Player) clone() Player {
	out := Player{
		ID:      p.ID,
		Name:    p.Name,
		current: p.current,
		total:   p.total,
	}
	for i, f := range p.Frames {
		out.Frames[i] = f.clone()
	}
	out.scores = p.Scores()
	return out
}
