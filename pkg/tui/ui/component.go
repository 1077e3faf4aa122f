package ui

import tea "github.com/charmbracelet/bubbletea/v2"

// Overlay is a modal widget mounted above the grid. Update returns nil once
// the overlay has closed itself.
type Overlay interface {
	Init() tea.Cmd
	Update(tea.Msg) (Overlay, tea.Cmd)
	View() (string, *tea.Cursor)
	SetSize(width, height int)
}
