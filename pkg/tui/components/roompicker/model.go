// Package roompicker is the modal that resolves a conflicting drop by
// choosing one of the rooms free at the target.
package roompicker

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/v2/list"
	tea "github.com/charmbracelet/bubbletea/v2"

	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/tui/theme"
	"tableflip.dev/harmonizer/pkg/tui/ui"
)

// ConfirmMsg asks the owner to commit the pending move into Room.
type ConfirmMsg struct {
	Room string
}

// CancelMsg asks the owner to drop the pending move.
type CancelMsg struct{}

// Model shows the collision and a list of candidate rooms.
type Model struct {
	pending mv.Pending
	list    list.Model
	theme   theme.ModalTheme
	width   int
	height  int
}

var _ ui.Overlay = (*Model)(nil)

// New builds the picker for p.
func New(p mv.Pending, th theme.ModalTheme) *Model {
	delegate := list.NewDefaultDelegate()
	delegate.ShowDescription = false
	delegate.SetSpacing(0)

	l := list.New(itemsFromRooms(p.Candidates), delegate, 0, 0)
	l.SetShowTitle(false)
	l.SetShowHelp(false)
	l.SetShowStatusBar(false)
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	return &Model{pending: p, list: l, theme: th}
}

// Init implements ui.Overlay.
func (m *Model) Init() tea.Cmd { return nil }

// Pending is the move being resolved.
func (m *Model) Pending() mv.Pending { return m.pending }

// CanConfirm reports whether there is a room to confirm.
func (m *Model) CanConfirm() bool { return !m.pending.NoRoomAvailable() }

// Choice is the highlighted room.
func (m *Model) Choice() string {
	if it, ok := m.list.SelectedItem().(roomItem); ok {
		return string(it)
	}
	return ""
}

// Update handles enter and esc and forwards navigation to the list. The
// picker closes itself by returning nil with the matching message.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q":
			return nil, emit(CancelMsg{})
		case "enter":
			if !m.CanConfirm() {
				return m, nil
			}
			return nil, emit(ConfirmMsg{Room: m.Choice()})
		}
	}
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// View renders the modal.
func (m *Model) View() (string, *tea.Cursor) {
	p := m.pending
	var b strings.Builder
	b.WriteString(m.theme.Title.Render("Room conflict"))
	b.WriteString("\n\n")
	b.WriteString(m.theme.Body.Render(fmt.Sprintf(
		"%s (%s) cannot join %s:\n%s (%s, %s) already uses %s.",
		p.Session.Module, p.Session.Groupe, p.Target,
		p.Conflict.Module, p.Conflict.Groupe, p.Conflict.Formateur, p.Conflict.Salle,
	)))
	b.WriteString("\n\n")

	if p.NoRoomAvailable() {
		b.WriteString(m.theme.Warning.Render("No room available"))
		b.WriteString("\n\n")
		b.WriteString(m.theme.Disabled.Render("[enter] confirm"))
		b.WriteString("  [esc] cancel")
	} else {
		b.WriteString("Choose another room:\n")
		b.WriteString(m.list.View())
		b.WriteString("\n\n[enter] confirm  [esc] cancel")
	}

	frame := m.theme.Frame
	if m.width > 0 {
		frame = frame.Width(m.width)
	}
	return frame.Render(b.String()), nil
}

// SetSize sizes the modal and its list.
func (m *Model) SetSize(width, height int) {
	m.width = min(max(width, 36), 64)
	m.height = max(height, 12)
	listHeight := min(len(m.pending.Candidates), max(m.height-12, 3))
	m.list.SetSize(m.width-m.theme.Frame.GetHorizontalFrameSize(), max(listHeight, 1))
}

func emit(msg tea.Msg) tea.Cmd {
	return func() tea.Msg { return msg }
}

func itemsFromRooms(rooms []string) []list.Item {
	items := make([]list.Item, 0, len(rooms))
	for _, r := range rooms {
		items = append(items, roomItem(r))
	}
	return items
}

type roomItem string

func (r roomItem) Title() string       { return string(r) }
func (roomItem) Description() string   { return "" }
func (r roomItem) FilterValue() string { return string(r) }
