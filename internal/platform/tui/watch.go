package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
)

// WatchKeyMap defines key bindings for spectators.
type WatchKeyMap struct {
	Quit key.Binding
}

// ShortHelp returns keybindings to be shown in the mini help view.
func (k WatchKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.Quit}
}

// FullHelp returns keybindings for the expanded help view.
func (k WatchKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{{k.Quit}}
}

// boardMsg carries a snapshot from the watched lane.
type boardMsg bowling.Scoreboard

// laneClosedMsg reports that the watched lane is no longer hosted.
type laneClosedMsg struct{}

// WatchModel shows another lane's sheet as it is bowled. It never rolls.
type WatchModel struct {
	watcher *lanes.Watcher
	board   bowling.Scoreboard
	closed  bool
	keys    WatchKeyMap
	help    help.Model
	width   int
}

// NewWatchModel follows the lane behind watcher.
func NewWatchModel(watcher *lanes.Watcher) WatchModel {
	return WatchModel{
		watcher: watcher,
		keys: WatchKeyMap{
			Quit: key.NewBinding(
				key.WithKeys("q", "ctrl+c", "esc"),
				key.WithHelp("q", "stop watching"),
			),
		},
		help: help.New(),
	}
}

// Init waits for the first snapshot.
func (m WatchModel) Init() tea.Cmd {
	return m.waitForBoard()
}

// waitForBoard returns a command that waits for the next snapshot.
func (m WatchModel) waitForBoard() tea.Cmd {
	return func() tea.Msg {
		board, ok := <-m.watcher.Updates()
		if !ok {
			return laneClosedMsg{}
		}
		return boardMsg(board)
	}
}

// Update handles messages.
func (m WatchModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, m.keys.Quit) {
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.help.Width = msg.Width
	case boardMsg:
		m.board = bowling.Scoreboard(msg)
		return m, m.waitForBoard()
	case laneClosedMsg:
		m.closed = true
	}
	return m, nil
}

// View renders the watched sheet.
func (m WatchModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("WATCHING "+string(m.watcher.Game()), m.width)))
	b.WriteString("\n")
	if len(m.board.Players) > 0 {
		b.WriteString(RenderSheet(m.board))
	}
	b.WriteString("\n\n")

	switch at := m.board.Active; {
	case m.closed:
		b.WriteString(statusStyle.Render("The lane has closed"))
	case len(m.board.Players) == 0:
		b.WriteString(statusStyle.Render("Waiting for the lane..."))
	case at != nil:
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s to bowl: frame %d, ball %d", at.PlayerName, at.FrameIndex, at.RollNumber)))
	default:
		b.WriteString(statusStyle.Render("Game over"))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// Board returns the last snapshot received.
func (m WatchModel) Board() bowling.Scoreboard {
	return m.board
}

// LaneList renders hosted lanes for the watch picker.
func LaneList(infos []lanes.LaneInfo) string {
	if len(infos) == 0 {
		return "No lanes are open."
	}
	var b strings.Builder
	b.WriteString("Open lanes:\n")
	for _, info := range infos {
		state := "bowling"
		if info.Finished {
			state = "finished"
		}
		fmt.Fprintf(&b, "  %s  %s  (%s, %d watching)\n", info.ID, strings.Join(info.Players, ", "), state, info.Watchers)
	}
	b.WriteString("\nWatch one with: ssh -t <host> watch <id>")
	return b.String()
}
