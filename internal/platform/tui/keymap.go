package tui

import (
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
)

// LaneKeyMap defines the key bindings for a lane.
type LaneKeyMap struct {
	Pins   key.Binding
	Strike key.Binding
	Spare  key.Binding
	Undo   key.Binding
	New    key.Binding
	Scores key.Binding
	Help   key.Binding
	Quit   key.Binding
}

// ShortHelp returns key bindings for the short help view.
func (k LaneKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Pins, k.Strike, k.Spare, k.Undo, k.Help, k.Quit}
}

// FullHelp returns key bindings for the full help view.
func (k LaneKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.Pins, k.Strike, k.Spare},
		{k.Undo, k.New, k.Scores},
		{k.Help, k.Quit},
	}
}

// DefaultLaneKeyMap returns default key bindings.
func DefaultLaneKeyMap() LaneKeyMap {
	return LaneKeyMap{
		Pins: key.NewBinding(
			key.WithKeys("0", "1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("0-9", "pins"),
		),
		Strike: key.NewBinding(
			key.WithKeys("x", "X"),
			key.WithHelp("x", "strike"),
		),
		Spare: key.NewBinding(
			key.WithKeys("/"),
			key.WithHelp("/", "spare"),
		),
		Undo: key.NewBinding(
			key.WithKeys("u", "backspace"),
			key.WithHelp("u", "undo"),
		),
		New: key.NewBinding(
			key.WithKeys("n"),
			key.WithHelp("n", "new game"),
		),
		Scores: key.NewBinding(
			key.WithKeys("tab"),
			key.WithHelp("tab", "high scores"),
		),
		Help: key.NewBinding(
			key.WithKeys("?"),
			key.WithHelp("?", "more keys"),
		),
		Quit: key.NewBinding(
			key.WithKeys("q", "ctrl+c", "esc"),
			key.WithHelp("q", "quit"),
		),
	}
}

// RollFromKey translates a roll key into pins for the next ball of frame.
// ok is false for keys that are not roll keys.
func (k LaneKeyMap) RollFromKey(msg tea.KeyMsg, frame bowling.Frame) (pins int, ok bool, err error) {
	if !key.Matches(msg, k.Pins, k.Strike, k.Spare) {
		return 0, false, nil
	}
	pins, err = frame.ParseMark(msg.String())
	return pins, true, err
}
