package bowling

import (
	"fmt"
	"strconv"
	"strings"
)

// Marks returns the score-sheet notation for each ball of the frame:
// X for a strike, / for a spare, - for a miss, otherwise the pin count.
func (f Frame) Marks() []string {
	marks := make([]string, 0, len(f.Rolls))
	prefix := Frame{Index: f.Index}
	for _, r := range f.Rolls {
		fresh := prefix.FreshRack()
		switch {
		case fresh && r == Pins:
			marks = append(marks, "X")
		case !fresh && r == prefix.Standing():
			marks = append(marks, "/")
		case r == 0:
			marks = append(marks, "-")
		default:
			marks = append(marks, strconv.Itoa(r))
		}
		prefix.Rolls = append(prefix.Rolls, r)
	}
	return marks
}

// ParseMark converts one score-sheet mark into pins for the next ball of the
// frame. It accepts pin counts, X, - and /. The result is not checked against
// the rack beyond what the mark itself needs; SubmitRoll does that.
func (f Frame) ParseMark(mark string) (int, error) {
	switch strings.ToUpper(strings.TrimSpace(mark)) {
	case "X":
		return Pins, nil
	case "-":
		return 0, nil
	case "/":
		if f.FreshRack() || f.Closed() {
			return 0, fmt.Errorf("%w: no first ball to spare in frame %d", ErrInvalidRoll, f.Index)
		}
		return f.Standing(), nil
	}
	pins, err := strconv.Atoi(strings.TrimSpace(mark))
	if err != nil {
		return 0, fmt.Errorf("%w: %q is not a mark", ErrInvalidRoll, mark)
	}
	return pins, nil
}
