package tui

import (
	"errors"
	"io"
	"reflect"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/log"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
)

func runeKey(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func newTestLane(t *testing.T, names ...string) LaneModel {
	t.Helper()
	svc := lanes.NewService(lanes.WithLogger(log.New(io.Discard)))
	m, err := NewLaneModel(svc, names)
	if err != nil {
		t.Fatalf("NewLaneModel() failed: %v", err)
	}
	return m
}

func press(t *testing.T, m LaneModel, keys ...string) LaneModel {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "tab":
			msg = tea.KeyMsg{Type: tea.KeyTab}
		case "esc":
			msg = tea.KeyMsg{Type: tea.KeyEsc}
		default:
			msg = runeKey(k)
		}
		next, _ := m.Update(msg)
		m = next.(LaneModel)
	}
	return m
}

func TestLaneRollKeys(t *testing.T) {
	m := newTestLane(t, "Ann", "Bob")
	m = press(t, m, "x", "7", "/", "-", "9")

	board := m.Scoreboard()
	ann, bob := board.Players[0], board.Players[1]
	if !reflect.DeepEqual(ann.Frames[0].Rolls, []int{10}) {
		t.Errorf("Ann frame 1 = %v, want strike", ann.Frames[0].Rolls)
	}
	if !reflect.DeepEqual(bob.Frames[0].Rolls, []int{7, 3}) {
		t.Errorf("Bob frame 1 = %v, want 7 3", bob.Frames[0].Rolls)
	}
	if !reflect.DeepEqual(ann.Frames[1].Rolls, []int{0, 9}) {
		t.Errorf("Ann frame 2 = %v, want 0 9", ann.Frames[1].Rolls)
	}
	if ann.Frames[0].Cumulative != 19 || ann.Total != 28 {
		t.Errorf("Ann frame 1 = %d total = %d, want 19 and 28", ann.Frames[0].Cumulative, ann.Total)
	}
	if m.Err() != nil {
		t.Errorf("unexpected error: %v", m.Err())
	}
}

func TestLaneShowsErrorKind(t *testing.T) {
	m := newTestLane(t, "Ann")
	m = press(t, m, "7", "5")

	if !errors.Is(m.Err(), bowling.ErrInvalidRoll) {
		t.Fatalf("Err() = %v, want ErrInvalidRoll", m.Err())
	}
	if !strings.Contains(m.View(), "InvalidRoll: ") {
		t.Errorf("view does not show the error kind:\n%s", m.View())
	}

	// A valid roll clears the error
	m = press(t, m, "3")
	if m.Err() != nil {
		t.Errorf("Err() after valid roll = %v", m.Err())
	}
}

func TestLaneSpareNeedsFirstBall(t *testing.T) {
	m := newTestLane(t, "Ann")
	m = press(t, m, "/")

	if !errors.Is(m.Err(), bowling.ErrInvalidRoll) {
		t.Errorf("Err() = %v, want ErrInvalidRoll", m.Err())
	}
	if len(m.Scoreboard().Players[0].Frames[0].Rolls) != 0 {
		t.Error("spare on a fresh rack was recorded")
	}
}

func TestLaneUndo(t *testing.T) {
	m := newTestLane(t, "Ann", "Bob")
	m = press(t, m, "4", "5", "u")

	at := m.Scoreboard().Active
	if at == nil || at.PlayerID != "p1" || at.RollNumber != 2 {
		t.Errorf("active turn after undo = %+v, want Ann ball 2", at)
	}
	if got := m.Scoreboard().Players[0].Frames[0].Rolls; !reflect.DeepEqual(got, []int{4}) {
		t.Errorf("Ann frame 1 after undo = %v, want [4]", got)
	}
}

func TestLaneGameOverAndNewGame(t *testing.T) {
	m := newTestLane(t, "Ann")
	first := m.GameID()
	for i := 0; i < 12; i++ {
		m = press(t, m, "x")
	}

	board := m.Scoreboard()
	if !board.Finished || board.Active != nil || board.Players[0].Total != 300 {
		t.Fatalf("board after 12 strikes = %+v", board)
	}
	if !strings.Contains(m.View(), "Ann scored 300") {
		t.Errorf("view does not announce the result:\n%s", m.View())
	}

	m = press(t, m, "3")
	if !errors.Is(m.Err(), bowling.ErrGameFinished) {
		t.Errorf("Err() after finish = %v, want ErrGameFinished", m.Err())
	}

	var hooked lanes.GameID
	m = m.OnNewGame(func(id lanes.GameID) { hooked = id })
	m = press(t, m, "n")
	if m.GameID() == first || hooked != m.GameID() {
		t.Errorf("new game id = %s (hook saw %s), first was %s", m.GameID(), hooked, first)
	}
	if m.Scoreboard().Finished || m.Err() != nil {
		t.Errorf("new game state = %+v err %v", m.Scoreboard(), m.Err())
	}
}

func TestLaneQuit(t *testing.T) {
	m := newTestLane(t, "Ann")
	next, cmd := m.Update(runeKey("q"))
	m = next.(LaneModel)
	if !m.IsQuitting() || cmd == nil {
		t.Error("q did not quit")
	}
	if m.View() != "" {
		t.Error("quitting lane still renders")
	}
}

func TestOpenLaneModel(t *testing.T) {
	svc := lanes.NewService(lanes.WithLogger(log.New(io.Discard)))
	g, err := bowling.Play([]string{"Ann", "Bob"}, []int{10, 3})
	if err != nil {
		t.Fatalf("Play() failed: %v", err)
	}
	if err := svc.Restore(t.Context(), "saved", g); err != nil {
		t.Fatalf("Restore() failed: %v", err)
	}

	m, err := OpenLaneModel(svc, "saved")
	if err != nil {
		t.Fatalf("OpenLaneModel() failed: %v", err)
	}
	m = press(t, m, "/")
	if got := m.Scoreboard().Players[1].Frames[0].Rolls; !reflect.DeepEqual(got, []int{3, 7}) {
		t.Errorf("Bob frame 1 = %v, want [3 7]", got)
	}

	if _, err := OpenLaneModel(svc, "missing"); !errors.Is(err, lanes.ErrUnknownGame) {
		t.Errorf("OpenLaneModel(missing) error = %v", err)
	}
}

func TestSessionScoresToggle(t *testing.T) {
	s := NewSessionModel(newTestLane(t, "Ann"), nil, 10)

	next, _ := s.Update(tea.KeyMsg{Type: tea.KeyTab})
	s = next.(SessionModel)
	if !strings.Contains(s.View(), "HIGH SCORES") {
		t.Fatalf("tab did not open the score table:\n%s", s.View())
	}
	if !strings.Contains(s.View(), "storage is disabled") {
		t.Errorf("score table without a store should say so:\n%s", s.View())
	}

	next, _ = s.Update(tea.KeyMsg{Type: tea.KeyEsc})
	s = next.(SessionModel)
	if strings.Contains(s.View(), "HIGH SCORES") {
		t.Error("esc did not return to the lane")
	}

	// Rolls still reach the lane afterwards
	next, _ = s.Update(runeKey("6"))
	s = next.(SessionModel)
	if got := s.Lane().Scoreboard().Players[0].Frames[0].Rolls; !reflect.DeepEqual(got, []int{6}) {
		t.Errorf("frame 1 = %v, want [6]", got)
	}
}

func TestSessionPlayers(t *testing.T) {
	defaults := []string{"Player 1"}
	tests := []struct {
		command []string
		user    string
		want    []string
	}{
		{[]string{"Ann", "Bob"}, "ann", []string{"Ann", "Bob"}},
		{nil, "ann", []string{"ann"}},
		{nil, "", defaults},
	}
	for _, tc := range tests {
		if got := SessionPlayers(tc.command, tc.user, defaults); !reflect.DeepEqual(got, tc.want) {
			t.Errorf("SessionPlayers(%v, %q) = %v, want %v", tc.command, tc.user, got, tc.want)
		}
	}
}
