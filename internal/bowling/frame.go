// Package bowling implements ten-pin bowling scoring and turn management for
// any number of players sharing the same sequence of frames.
//
// The package is pure: no I/O, no goroutines, no clocks. A Game is mutated only
// through SubmitRoll and is not safe for concurrent use; callers that share a
// game across goroutines must serialize access (see internal/lanes).
package bowling

import "fmt"

const (
	// FrameCount is the number of frames each player bowls.
	FrameCount = 10
	// Pins is the size of a full rack.
	Pins = 10
)

// FrameStatus is the derived classification of a frame.
type FrameStatus int

const (
	StatusOpen     FrameStatus = iota // in progress, or not started
	StatusStrike                      // frames 1-9, ten on the first roll
	StatusSpare                       // frames 1-9, ten across two rolls
	StatusComplete                    // frames 1-9, closed with fewer than ten pins
	StatusFinal                       // frame 10 closed
)

// String returns the status name used on score sheets and in logs.
func (s FrameStatus) String() string {
	switch s {
	case StatusOpen:
		return "open"
	case StatusStrike:
		return "strike"
	case StatusSpare:
		return "spare"
	case StatusComplete:
		return "normal-complete"
	case StatusFinal:
		return "final-complete"
	default:
		return "unknown"
	}
}

// Frame is one player's record of a single frame.
type Frame struct {
	Index int   // 1..FrameCount
	Rolls []int // 1-2 rolls, or up to 3 in the final frame
}

// IsFinal reports whether this is the tenth frame.
func (f Frame) IsFinal() bool {
	return f.Index == FrameCount
}

// RollsAllowed returns how many rolls the frame needs to close given the rolls
// recorded so far.
func (f Frame) RollsAllowed() int {
	if !f.IsFinal() {
		if len(f.Rolls) >= 1 && f.Rolls[0] == Pins {
			return 1
		}
		return 2
	}
	if len(f.Rolls) >= 1 && f.Rolls[0] == Pins {
		return 3
	}
	if len(f.Rolls) >= 2 && f.Rolls[0]+f.Rolls[1] == Pins {
		return 3
	}
	return 2
}

// Closed reports whether the frame has all the rolls it will ever get.
func (f Frame) Closed() bool {
	return len(f.Rolls) > 0 && len(f.Rolls) == f.RollsAllowed()
}

// Status classifies the frame.
func (f Frame) Status() FrameStatus {
	if !f.Closed() {
		return StatusOpen
	}
	if f.IsFinal() {
		return StatusFinal
	}
	if f.Rolls[0] == Pins {
		return StatusStrike
	}
	if f.Rolls[0]+f.Rolls[1] == Pins {
		return StatusSpare
	}
	return StatusComplete
}

// Sum returns the pins knocked down by the frame's own rolls.
func (f Frame) Sum() int {
	total := 0
	for _, r := range f.Rolls {
		total += r
	}
	return total
}

// Standing returns the pins left on the deck for the next roll of the frame,
// or 0 once the frame is closed.
func (f Frame) Standing() int {
	switch {
	case f.Closed():
		return 0
	case f.FreshRack():
		return Pins
	default:
		return Pins - f.Rolls[len(f.Rolls)-1]
	}
}

// FreshRack reports whether the next ball is thrown at a full rack. In the
// final frame the rack is reset after a strike or a spare.
func (f Frame) FreshRack() bool {
	switch len(f.Rolls) {
	case 0:
		return true
	case 1:
		return f.IsFinal() && f.Rolls[0] == Pins
	case 2:
		r1, r2 := f.Rolls[0], f.Rolls[1]
		return f.IsFinal() && ((r1 == Pins && r2 == Pins) || (r1 < Pins && r1+r2 == Pins))
	default:
		return false
	}
}

// Strikes counts the balls that knocked down a full rack.
func (f Frame) Strikes() int {
	n := 0
	prefix := Frame{Index: f.Index}
	for _, r := range f.Rolls {
		if r == Pins && prefix.FreshRack() {
			n++
		}
		prefix.Rolls = append(prefix.Rolls, r)
	}
	return n
}

// check validates pins as the next roll of the frame without recording it.
func (f Frame) check(pins int) error {
	if f.Closed() {
		return fmt.Errorf("%w: frame %d has %d rolls", ErrFrameAlreadyClosed, f.Index, len(f.Rolls))
	}
	if pins < 0 || pins > Pins {
		return fmt.Errorf("%w: %d pins is outside 0..%d", ErrInvalidRoll, pins, Pins)
	}
	if standing := f.Standing(); pins > standing {
		return fmt.Errorf("%w: %d pins with only %d standing in frame %d", ErrInvalidRoll, pins, standing, f.Index)
	}
	return nil
}

// clone returns a deep copy so callers never alias the ledger's roll slices.
func (f Frame) clone() Frame {
	out := Frame{Index: f.Index}
	if len(f.Rolls) > 0 {
		out.Rolls = append([]int(nil), f.Rolls...)
	}
	return out
}
