package tui

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
	"github.com/vovakirdan/tui-bowling/internal/lanes"
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			MarginBottom(1)
	statusStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("252"))
	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("9"))
	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))
)

// LaneModel is the Bubble Tea model for one lane: a single game bowled from
// the keyboard, with every player taking turns at the same keyboard.
type LaneModel struct {
	svc    *lanes.Service
	id     lanes.GameID
	names  []string
	board  bowling.Scoreboard
	keys   LaneKeyMap
	help   help.Model
	status string
	err    error
	width  int
	height int

	quitting   bool
	wantScores bool // Set when the user asks for the high score table

	onNewGame func(lanes.GameID) // Optional, can be nil
}

// NewLaneModel starts a game for names on svc.
func NewLaneModel(svc *lanes.Service, names []string) (LaneModel, error) {
	m := LaneModel{
		svc:   svc,
		names: names,
		keys:  DefaultLaneKeyMap(),
		help:  help.New(),
	}
	if err := m.newGame(); err != nil {
		return LaneModel{}, err
	}
	return m, nil
}

// OpenLaneModel puts a game already hosted on svc, such as a restored one, on
// a lane.
func OpenLaneModel(svc *lanes.Service, id lanes.GameID) (LaneModel, error) {
	board, err := svc.Scoreboard(context.Background(), id)
	if err != nil {
		return LaneModel{}, err
	}
	names := make([]string, len(board.Players))
	for i, p := range board.Players {
		names[i] = p.Name
	}
	return LaneModel{
		svc:    svc,
		id:     id,
		names:  names,
		board:  board,
		keys:   DefaultLaneKeyMap(),
		help:   help.New(),
		status: "Game resumed",
	}, nil
}

// Init initializes the lane model.
func (m LaneModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the lane.
func (m LaneModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil
	}
	return m, nil
}

// handleKey processes keyboard input.
func (m LaneModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
		return m, nil

	case key.Matches(msg, m.keys.Scores):
		m.wantScores = true
		return m, nil

	case key.Matches(msg, m.keys.New):
		if err := m.newGame(); err != nil {
			m.err = err
		}
		return m, nil

	case key.Matches(msg, m.keys.Undo):
		m.undo()
		return m, nil
	}

	if m.board.Active == nil {
		if _, ok, _ := m.keys.RollFromKey(msg, bowling.Frame{}); ok {
			m.err = bowling.ErrGameFinished
		}
		return m, nil
	}

	pins, ok, err := m.keys.RollFromKey(msg, m.activeFrame())
	if !ok {
		return m, nil
	}
	if err != nil {
		m.err = err
		return m, nil
	}
	m.roll(pins)
	return m, nil
}

func (m *LaneModel) newGame() error {
	id, err := m.svc.CreateGame(context.Background(), m.names)
	if err != nil {
		return err
	}
	if m.id != "" {
		_ = m.svc.Close(m.id) //nolint:errcheck // the old game is recorded already
	}
	m.id = id
	m.err = nil
	m.status = "New game"
	if m.onNewGame != nil {
		m.onNewGame(id)
	}
	m.refresh()
	return nil
}

func (m *LaneModel) roll(pins int) {
	ctx := context.Background()
	res, err := m.svc.SubmitRoll(ctx, m.id, m.board.Active.PlayerID, pins)
	if err != nil {
		m.err = err
		return
	}
	m.err = nil
	name := m.board.Active.PlayerName
	m.refresh()

	switch {
	case res.GameFinished:
		m.status = "Game over: " + m.winners()
	case res.FrameClosed:
		m.status = fmt.Sprintf("%s closed frame %d (%s)", name, res.FrameIndex, res.FrameStatus)
	default:
		m.status = fmt.Sprintf("%s knocked down %d", name, pins)
	}
}

func (m *LaneModel) undo() {
	if _, err := m.svc.Undo(context.Background(), m.id); err != nil {
		m.err = err
		return
	}
	m.err = nil
	m.status = "Last roll undone"
	m.refresh()
}

func (m *LaneModel) refresh() {
	board, err := m.svc.Scoreboard(context.Background(), m.id)
	if err != nil {
		m.err = err
		return
	}
	m.board = board
}

// activeFrame returns the frame the active player is bowling.
func (m LaneModel) activeFrame() bowling.Frame {
	at := m.board.Active
	for _, p := range m.board.Players {
		if p.ID == at.PlayerID {
			return bowling.Frame{Index: at.FrameIndex, Rolls: p.Frames[at.FrameIndex-1].Rolls}
		}
	}
	return bowling.Frame{Index: at.FrameIndex}
}

func (m LaneModel) winners() string {
	best := -1
	var names []string
	for _, p := range m.board.Players {
		switch {
		case p.Total > best:
			best = p.Total
			names = []string{p.Name}
		case p.Total == best:
			names = append(names, p.Name)
		}
	}
	if len(m.board.Players) == 1 {
		return fmt.Sprintf("%s scored %d", names[0], best)
	}
	return fmt.Sprintf("%s wins with %d", strings.Join(names, " & "), best)
}

// View renders the lane.
func (m LaneModel) View() string {
	if m.quitting {
		return ""
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(centerText("TEN-PIN BOWLING", m.width)))
	b.WriteString("\n")
	b.WriteString(RenderSheet(m.board))
	b.WriteString("\n\n")

	if at := m.board.Active; at != nil {
		b.WriteString(statusStyle.Render(fmt.Sprintf("%s to bowl: frame %d, ball %d", at.PlayerName, at.FrameIndex, at.RollNumber)))
	} else {
		b.WriteString(statusStyle.Render("Press n for a new game"))
	}
	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
	}
	b.WriteString("\n")
	if m.err != nil {
		b.WriteString(errorStyle.Render(errorLine(m.err)))
	}
	b.WriteString("\n\n")
	b.WriteString(helpStyle.Render(m.help.View(m.keys)))
	return b.String()
}

// errorLine shows a rejected roll with its kind first, e.g.
// "NotPlayersTurn: not player's turn: Ann is up, not Bob".
func errorLine(err error) string {
	if kind := bowling.ErrorKind(err); kind != "" {
		return kind + ": " + err.Error()
	}
	return err.Error()
}

// OnNewGame returns a copy of the lane that calls fn whenever n replaces the
// game on the lane.
func (m LaneModel) OnNewGame(fn func(lanes.GameID)) LaneModel {
	m.onNewGame = fn
	return m
}

// GameID returns the game currently on the lane.
func (m LaneModel) GameID() lanes.GameID {
	return m.id
}

// Scoreboard returns the last snapshot the lane rendered.
func (m LaneModel) Scoreboard() bowling.Scoreboard {
	return m.board
}

// Err returns the error shown on the lane, if any.
func (m LaneModel) Err() error {
	return m.err
}

// IsQuitting returns true if user requested to quit.
func (m LaneModel) IsQuitting() bool {
	return m.quitting
}

// WantsScores reports whether the user asked for the high score table.
func (m LaneModel) WantsScores() bool {
	return m.wantScores
}
