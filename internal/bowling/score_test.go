package bowling

import (
	"errors"
	"testing"
)

func repeat(pins, times int) []int {
	out := make([]int, times)
	for i := range out {
		out[i] = pins
	}
	return out
}

func cycle(seq []int, times int) []int {
	var out []int
	for i := 0; i < times; i++ {
		out = append(out, seq...)
	}
	return out
}

func concat(parts ...[]int) []int {
	var out []int
	for _, p := range parts {
		out = append(out, p...)
	}
	return out
}

func TestScoreTotals(t *testing.T) {
	tests := []struct {
		name  string
		rolls []int
		total int
	}{
		{"gutter game", repeat(0, 20), 0},
		{"all ones", repeat(1, 20), 20},
		{"all spares of fives", repeat(5, 21), 150},
		{"perfect game", repeat(10, 12), 300},
		{"nine and miss", cycle([]int{9, 0}, 10), 90},
		{"tenth frame strike spare", concat(repeat(0, 18), []int{10, 7, 3}), 20},
		{"tenth frame open", concat(repeat(0, 18), []int{4, 3}), 7},
		{"ninth strike into tenth strike", concat(repeat(0, 16), []int{10}, []int{10, 7, 3}), 47},
		{"ninth strike into tenth turkey", concat(repeat(0, 16), []int{10}, []int{10, 10, 10}), 60},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scores, err := Score(tc.rolls)
			if err != nil {
				t.Fatalf("Score() error: %v", err)
			}
			if got := Total(scores); got != tc.total {
				t.Errorf("Total() = %d, want %d", got, tc.total)
			}
			last := scores[FrameCount-1]
			if !last.Final {
				t.Errorf("frame 10 pending after a complete game")
			}
		})
	}
}

func TestScoreMixedGameFrameByFrame(t *testing.T) {
	// X | 7 / | 9 - | - 8 | 2 - | then gutters.
	rolls := concat([]int{10, 7, 3, 9, 0, 0, 8, 2, 0}, repeat(0, 10))
	scores, err := Score(rolls)
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}

	want := []int{20, 39, 48, 56, 58, 58, 58, 58, 58, 58}
	for i, w := range want {
		if !scores[i].Final {
			t.Errorf("frame %d pending, want %d", i+1, w)
			continue
		}
		if scores[i].Cumulative != w {
			t.Errorf("frame %d = %d, want %d", i+1, scores[i].Cumulative, w)
		}
	}

	if scores[0].Status != StatusStrike || scores[1].Status != StatusSpare || scores[2].Status != StatusComplete {
		t.Errorf("statuses = %v %v %v", scores[0].Status, scores[1].Status, scores[2].Status)
	}
}

func TestScoreTrailingRollAfterGameIsRejected(t *testing.T) {
	rolls := concat([]int{10, 7, 3, 9, 0, 0, 8, 2, 0}, repeat(0, 11))
	_, err := Score(rolls)
	if !errors.Is(err, ErrGameFinished) {
		t.Errorf("Score() error = %v, want %v", err, ErrGameFinished)
	}
}

func TestScorePending(t *testing.T) {
	tests := []struct {
		name    string
		rolls   []int
		final   []int // expected cumulative for leading finalized frames
		pending int   // index (0-based) of the first pending frame
	}{
		{"strike awaiting both bonus rolls", []int{10}, nil, 0},
		{"strike awaiting second bonus roll", []int{10, 3}, nil, 0},
		{"strike resolved by open frame", []int{10, 3, 4}, []int{17, 24}, 2},
		{"spare awaiting bonus", []int{6, 4}, nil, 0},
		{"spare resolved, next in progress", []int{6, 4, 5}, []int{15}, 1},
		{"double strike", []int{10, 10, 4, 2}, []int{24, 40, 46}, 3},
		{"frame in progress", []int{3, 4, 5}, []int{7}, 1},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			scores, err := Score(tc.rolls)
			if err != nil {
				t.Fatalf("Score() error: %v", err)
			}
			for i, w := range tc.final {
				if !scores[i].Final || scores[i].Cumulative != w {
					t.Errorf("frame %d = (%d, final=%v), want %d", i+1, scores[i].Cumulative, scores[i].Final, w)
				}
			}
			for i := tc.pending; i < FrameCount; i++ {
				if !scores[i].Pending() {
					t.Errorf("frame %d finalized at %d, want pending", i+1, scores[i].Cumulative)
				}
			}
		})
	}
}

func TestPerfectGameResolvesOnlyAfterTwelfthStrike(t *testing.T) {
	for n := 1; n <= 11; n++ {
		scores, err := Score(repeat(10, n))
		if err != nil {
			t.Fatalf("Score(%d strikes) error: %v", n, err)
		}
		if scores[FrameCount-1].Final {
			t.Errorf("%d strikes: frame 10 finalized at %d", n, scores[FrameCount-1].Cumulative)
		}
		if got := Total(scores); got >= 300 {
			t.Errorf("%d strikes: total = %d before the game is complete", n, got)
		}
	}

	scores, err := Score(repeat(10, 11))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	if got := Total(scores); got != 270 {
		t.Errorf("11 strikes total = %d, want 270", got)
	}

	scores, err = Score(repeat(10, 12))
	if err != nil {
		t.Fatalf("Score() error: %v", err)
	}
	for i, s := range scores {
		if want := 30 * (i + 1); s.Cumulative != want {
			t.Errorf("frame %d = %d, want %d", i+1, s.Cumulative, want)
		}
	}
}

func TestScoreRejectsImpossibleFrames(t *testing.T) {
	tests := []struct {
		name  string
		rolls []int
	}{
		{"five then eight", []int{5, 8}},
		{"over ten", []int{11}},
		{"negative", []int{-2}},
		{"second frame overflow", []int{3, 4, 9, 2}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Score(tc.rolls)
			if !errors.Is(err, ErrInvalidRoll) {
				t.Errorf("Score(%v) error = %v, want %v", tc.rolls, err, ErrInvalidRoll)
			}
		})
	}
}

func TestResolveIsPure(t *testing.T) {
	frames := []Frame{{Index: 1, Rolls: []int{10}}, {Index: 2, Rolls: []int{3, 4}}}
	a := Resolve(frames)
	b := Resolve(frames)
	if a[0].Cumulative != b[0].Cumulative || a[1].Cumulative != b[1].Cumulative {
		t.Errorf("Resolve not deterministic: %v vs %v", a, b)
	}
	a[0].Rolls[0] = 0
	if frames[0].Rolls[0] != 10 {
		t.Errorf("Resolve output aliases input rolls")
	}
}
