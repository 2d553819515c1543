package bowling

// FrameScore is the resolved view of one frame.
type FrameScore struct {
	Index  int
	Rolls  []int
	Status FrameStatus

	// Cumulative is the running total through this frame. It is meaningful only
	// when Final is set; a frame waiting on bonus rolls, still in progress, or
	// following such a frame is pending.
	Cumulative int
	Final      bool
}

// Pending reports whether the frame has no finalized cumulative score yet.
func (s FrameScore) Pending() bool {
	return !s.Final
}

// Resolve computes per-frame cumulative scores from recorded rolls only.
//
// Bonuses are found by walking the flattened roll stream, not by looking at
// frame totals, so a strike in frame 9 takes exactly the first two rolls of
// frame 10 no matter how frame 10 ends.
func Resolve(frames []Frame) []FrameScore {
	out := make([]FrameScore, len(frames))

	var stream []int
	starts := make([]int, len(frames))
	for i, f := range frames {
		starts[i] = len(stream)
		stream = append(stream, f.Rolls...)
	}

	total := 0
	blocked := false
	for i, f := range frames {
		out[i] = FrameScore{Index: f.Index, Status: f.Status()}
		if len(f.Rolls) > 0 {
			out[i].Rolls = append([]int(nil), f.Rolls...)
		}
		if blocked || len(f.Rolls) == 0 {
			blocked = true
			continue
		}
		value, ok := frameValue(f, stream, starts[i])
		if !ok {
			blocked = true
			continue
		}
		total += value
		out[i].Cumulative = total
		out[i].Final = true
	}
	return out
}

// Total returns the last finalized cumulative score, the number a score sheet
// shows as the player's current total.
func Total(scores []FrameScore) int {
	total := 0
	for _, s := range scores {
		if !s.Final {
			break
		}
		total = s.Cumulative
	}
	return total
}

// frameValue returns the points a frame contributes, or false while they
// depend on rolls not yet bowled.
func frameValue(f Frame, stream []int, start int) (int, bool) {
	if !f.Closed() {
		return 0, false
	}
	if f.IsFinal() {
		return f.Sum(), true
	}
	switch f.Status() {
	case StatusStrike:
		bonus, ok := lookahead(stream, start+1, 2)
		return Pins + bonus, ok
	case StatusSpare:
		bonus, ok := lookahead(stream, start+2, 1)
		return Pins + bonus, ok
	default:
		return f.Sum(), true
	}
}

func lookahead(stream []int, from, n int) (int, bool) {
	if from+n > len(stream) {
		return 0, false
	}
	sum := 0
	for _, r := range stream[from : from+n] {
		sum += r
	}
	return sum, true
}

// Score is a convenience for a single player's roll sequence: it lays the
// rolls into frames and returns the resolved scores. Rolls are validated with
// the same rules as Game.SubmitRoll.
func Score(rolls []int) ([]FrameScore, error) {
	p := newPlayer("solo", "solo")
	for i, pins := range rolls {
		if err := p.checkRoll(pins); err != nil {
			if p.Done() {
				return nil, wrapRoll(i, ErrGameFinished)
			}
			return nil, wrapRoll(i, err)
		}
		p.recordRoll(pins)
	}
	return p.Scores(), nil
}
