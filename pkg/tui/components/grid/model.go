// Package grid renders the weekly schedule as a days x slots board with a
// cell cursor and a grabbed card that follows it.
package grid

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/padding"
	"github.com/muesli/reflow/truncate"

	"tableflip.dev/harmonizer/pkg/session"
	"tableflip.dev/harmonizer/pkg/tui/theme"
)

const (
	labelWidth   = 8
	minCellWidth = 12
	minCardLines = 2
)

// Model is the grid state. It never writes to the schedule; the owner turns
// a drop into a coordinator call.
type Model struct {
	theme  theme.Theme
	width  int
	height int

	byCell map[session.Cell][]session.Session
	total  int

	cursor  session.Cell
	card    int
	grabbed *session.Session
	// blocked marks the drop target as colliding.
	blocked bool
}

// New constructs an empty grid with the cursor on the first cell.
func New(th theme.Theme) *Model {
	return &Model{
		theme:  th,
		byCell: make(map[session.Cell][]session.Session),
		cursor: session.Cell{Day: session.Days()[0], Slot: session.FirstSlot},
	}
}

// SetSize updates the drawing bounds.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

// SetSessions replaces the rendered sessions. A grabbed card is refreshed
// from the new data and released when it disappeared.
func (m *Model) SetSessions(sessions []session.Session) {
	m.byCell = make(map[session.Cell][]session.Session)
	for _, s := range sessions {
		m.byCell[s.Cell()] = append(m.byCell[s.Cell()], s)
	}
	m.total = len(sessions)
	m.clampCard()

	if m.grabbed == nil {
		return
	}
	for _, s := range sessions {
		if s.ID == m.grabbed.ID {
			cp := s
			m.grabbed = &cp
			return
		}
	}
	m.grabbed = nil
	m.blocked = false
}

// Cursor is the highlighted cell, the drop target while a card is grabbed.
func (m *Model) Cursor() session.Cell { return m.cursor }

// SetCursor moves the cursor to c when it is on the grid.
func (m *Model) SetCursor(c session.Cell) {
	if !c.Valid() {
		return
	}
	m.cursor = c
	m.card = 0
	m.clampCard()
}

// Move shifts the cursor by dx days and dy slots, stopping at the edges.
func (m *Model) Move(dx, dy int) {
	days := session.Days()
	x := m.cursor.Day.Index() + dx
	y := int(m.cursor.Slot) + dy
	x = max(0, min(x, len(days)-1))
	y = max(int(session.FirstSlot), min(y, int(session.LastSlot)))
	m.SetCursor(session.Cell{Day: days[x], Slot: session.Slot(y)})
}

// CycleCard highlights the next card of the cursor cell.
func (m *Model) CycleCard() {
	if n := len(m.byCell[m.cursor]); n > 0 {
		m.card = (m.card + 1) % n
	}
}

// Selected returns the highlighted card.
func (m *Model) Selected() (session.Session, bool) {
	cards := m.byCell[m.cursor]
	if len(cards) == 0 {
		return session.Session{}, false
	}
	return cards[m.card], true
}

// Grab picks up the highlighted card.
func (m *Model) Grab() bool {
	s, ok := m.Selected()
	if !ok {
		return false
	}
	m.grabbed = &s
	m.blocked = false
	return true
}

// Grabbed returns the card being carried.
func (m *Model) Grabbed() (session.Session, bool) {
	if m.grabbed == nil {
		return session.Session{}, false
	}
	return *m.grabbed, true
}

// Release drops the carried card without moving it and returns the cursor
// to its cell.
func (m *Model) Release() {
	if m.grabbed != nil {
		m.SetCursor(m.grabbed.Cell())
		m.focus(m.grabbed.ID)
	}
	m.grabbed = nil
	m.blocked = false
}

// Settle ends a grab after a drop and keeps the dropped card highlighted.
func (m *Model) Settle() {
	if m.grabbed != nil {
		m.focus(m.grabbed.ID)
	}
	m.grabbed = nil
	m.blocked = false
}

// SetBlocked flags the drop target as colliding.
func (m *Model) SetBlocked(b bool) { m.blocked = b }

// Total is the number of rendered sessions.
func (m *Model) Total() int { return m.total }

func (m *Model) focus(id string) {
	for i, s := range m.byCell[m.cursor] {
		if s.ID == id {
			m.card = i
			return
		}
	}
}

func (m *Model) clampCard() {
	n := len(m.byCell[m.cursor])
	if m.card >= n {
		m.card = max(0, n-1)
	}
}

// View renders the grid.
func (m *Model) View() string {
	days := session.Days()
	cellWidth := minCellWidth
	if m.width > 0 {
		cellWidth = max(minCellWidth, (m.width-labelWidth)/len(days))
	}
	inner := cellWidth - 2
	cardLines := minCardLines
	if m.height > 0 {
		// header line plus two border lines per row
		cardLines = max(minCardLines, (m.height-1)/int(session.LastSlot)-2)
	}

	th := m.theme.Grid
	header := []string{padding.String("", labelWidth)}
	for _, d := range days {
		title := truncate.StringWithTail(d.Title(), uint(cellWidth), "…")
		header = append(header, th.Header.Render(padding.String(title, uint(cellWidth))))
	}
	rows := []string{strings.Join(header, "")}

	for _, slot := range session.Slots() {
		label := th.SlotLabel.Render(padding.String(strings.SplitN(slot.Label(), " ", 2)[0], labelWidth))
		row := []string{lipgloss.NewStyle().Height(cardLines + 2).Render(label)}
		for _, d := range days {
			cell := session.Cell{Day: d, Slot: slot}
			row = append(row, m.renderCell(cell, inner, cardLines))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, row...))
	}
	return strings.Join(rows, "\n")
}

func (m *Model) renderCell(cell session.Cell, inner, lines int) string {
	th := m.theme.Grid
	style := th.Cell
	if cell == m.cursor {
		style = th.Cursor
		if m.grabbed != nil && cell != m.grabbed.Cell() {
			style = th.Drop
			if m.blocked {
				style = th.DropBlock
			}
		}
	}

	var out []string
	cards := m.byCell[cell]
	if m.grabbed != nil && cell == m.cursor && cell != m.grabbed.Cell() {
		out = append(out, th.Grabbed.Render(fit("→ "+m.grabbed.Module, inner)))
	}
	for i, s := range cards {
		if len(out) == lines-1 && len(cards)-i > 1 {
			out = append(out, th.Overflow.Render(fit(fmt.Sprintf("+%d more", len(cards)-i), inner)))
			break
		}
		if len(out) == lines {
			break
		}
		out = append(out, m.renderCard(s, cell, i, inner))
	}
	for len(out) < lines {
		out = append(out, strings.Repeat(" ", inner))
	}
	return style.Render(strings.Join(out, "\n"))
}

func (m *Model) renderCard(s session.Session, cell session.Cell, i, inner int) string {
	text := fit(fmt.Sprintf("%s · %s · %s", s.Module, s.Groupe, s.Salle), inner)
	switch {
	case m.grabbed != nil && m.grabbed.ID == s.ID:
		return m.theme.Grid.Grabbed.Render(text)
	case cell == m.cursor && i == m.card && m.grabbed == nil:
		return m.theme.CardStyle(s.Module).Inherit(m.theme.Grid.Selected).Render(text)
	default:
		return m.theme.CardStyle(s.Module).Render(text)
	}
}

// fit truncates s to width cells and pads it to exactly width.
func fit(s string, width int) string {
	return padding.String(truncate.StringWithTail(s, uint(width), "…"), uint(width))
}
