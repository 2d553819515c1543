package tui

import (
	"strconv"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/tui-bowling/internal/bowling"
)

// Sheet layout constants
const (
	nameWidth       = 12
	frameCellWidth  = 5
	finalCellWidth  = 7
	totalCellWidth  = 7
	nameTruncateLen = nameWidth - 4 // room for the active marker
)

var (
	cellStyle = lipgloss.NewStyle().
			Border(lipgloss.NormalBorder()).
			BorderForeground(lipgloss.Color("240")).
			Align(lipgloss.Center)
	activeCellStyle = cellStyle.
			BorderForeground(lipgloss.Color("229"))
	nameStyle = lipgloss.NewStyle().
			Width(nameWidth).
			Height(2).
			Padding(1, 1, 0, 0)
	activeNameStyle = nameStyle.
			Bold(true).
			Foreground(lipgloss.Color("229"))
	headerStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")).
			Align(lipgloss.Center)
)

// RenderSheet draws the scoreboard as a classic score sheet, one row per
// player. Pending frames show their marks with an empty running total.
func RenderSheet(board bowling.Scoreboard) string {
	rows := []string{renderHeader()}
	for _, p := range board.Players {
		active := board.Active != nil && board.Active.PlayerID == p.ID
		rows = append(rows, renderPlayerRow(p, active, board.Active))
	}
	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func renderHeader() string {
	cells := []string{lipgloss.NewStyle().Width(nameWidth).Render("")}
	for i := 1; i <= bowling.FrameCount; i++ {
		w := frameCellWidth
		if i == bowling.FrameCount {
			w = finalCellWidth
		}
		cells = append(cells, headerStyle.Width(w+2).Render(strconv.Itoa(i)))
	}
	cells = append(cells, headerStyle.Width(totalCellWidth+2).Render("Total"))
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

func renderPlayerRow(p bowling.PlayerCard, active bool, turn *bowling.ActiveTurn) string {
	name := p.Name
	if len(name) > nameTruncateLen {
		name = name[:nameTruncateLen-1] + "."
	}
	ns := nameStyle
	if active {
		ns = activeNameStyle
		name = "> " + name
	}
	cells := []string{ns.Render(name)}

	for _, f := range p.Frames {
		w := frameCellWidth
		if f.Index == bowling.FrameCount {
			w = finalCellWidth
		}
		style := cellStyle
		if active && turn.FrameIndex == f.Index {
			style = activeCellStyle
		}
		running := ""
		if !f.Pending() {
			running = strconv.Itoa(f.Cumulative)
		}
		cells = append(cells, style.Width(w).Render(strings.Join(bowling.Frame{Index: f.Index, Rolls: f.Rolls}.Marks(), " ")+"\n"+running))
	}

	cells = append(cells, cellStyle.Width(totalCellWidth).Bold(true).Render("\n"+strconv.Itoa(p.Total)))
	return lipgloss.JoinHorizontal(lipgloss.Top, cells...)
}

// centerText centers text within the given width.
func centerText(text string, width int) string {
	textWidth := lipgloss.Width(text)
	if textWidth >= width {
		return text
	}
	padding := (width - textWidth) / 2
	return strings.Repeat(" ", padding) + text
}
