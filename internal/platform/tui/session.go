// Package tui provides the terminal front end for the lanes: the Bubble Tea
// lane and high score screens, and SSH serving via Wish.
package tui

import (
	tea "github.com/charmbracelet/bubbletea"

	"github.com/vovakirdan/tui-bowling/internal/storage"
)

// SessionModel manages the full session flow: lane -> high scores -> lane.
// This is the top-level model for local play and SSH sessions alike.
type SessionModel struct {
	store      *storage.Store // Optional, can be nil
	scoreLimit int
	lane       LaneModel
	scores     *ScoresModel
	width      int
	height     int
	quitting   bool
}

// NewSessionModel creates a session around a lane.
func NewSessionModel(lane LaneModel, store *storage.Store, scoreLimit int) SessionModel {
	return SessionModel{
		store:      store,
		scoreLimit: scoreLimit,
		lane:       lane,
	}
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.lane.Init()
}

// Update handles messages for the session.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	// Handle window resize globally
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.width = wsm.Width
		m.height = wsm.Height
		newLane, _ := m.lane.Update(msg)
		m.lane = newLane.(LaneModel)
	}

	if m.scores != nil {
		return m.updateScores(msg)
	}
	return m.updateLane(msg)
}

// updateLane handles updates while bowling.
func (m SessionModel) updateLane(msg tea.Msg) (tea.Model, tea.Cmd) {
	newLane, cmd := m.lane.Update(msg)
	m.lane = newLane.(LaneModel)

	if m.lane.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}

	if m.lane.WantsScores() {
		m.lane.wantScores = false
		scores := NewScoresModel(m.store, m.scoreLimit, m.width, m.height)
		scores.embedded = true
		m.scores = &scores
		return m, scores.Init()
	}
	return m, cmd
}

// updateScores handles updates while the high score table is open.
func (m SessionModel) updateScores(msg tea.Msg) (tea.Model, tea.Cmd) {
	newScores, cmd := m.scores.Update(msg)
	scores := newScores.(ScoresModel)
	m.scores = &scores

	if scores.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if scores.IsGoingBack() {
		m.scores = nil
		return m, nil
	}
	return m, cmd
}

// View renders the current screen.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	if m.scores != nil {
		return m.scores.View()
	}
	return m.lane.View()
}

// Lane returns the session's lane.
func (m SessionModel) Lane() LaneModel {
	return m.lane
}

// RunSession runs a session in the current terminal until the user quits.
func RunSession(lane LaneModel, store *storage.Store, scoreLimit int) error {
	p := tea.NewProgram(NewSessionModel(lane, store, scoreLimit), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
