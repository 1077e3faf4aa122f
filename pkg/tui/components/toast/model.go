// Package toast shows the latest move notification for a few seconds.
package toast

import (
	"time"

	tea "github.com/charmbracelet/bubbletea/v2"

	mv "tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/tui/theme"
)

// DefaultTTL is how long a notification stays visible.
const DefaultTTL = 4 * time.Second

// ExpireMsg hides the toast it was scheduled for.
type ExpireMsg struct {
	seq int
}

// Model holds at most one visible notification.
type Model struct {
	theme   theme.ToastTheme
	ttl     time.Duration
	current *mv.Notification
	seq     int
}

// New constructs a toast with DefaultTTL.
func New(th theme.ToastTheme) *Model {
	return &Model{theme: th, ttl: DefaultTTL}
}

// Show replaces the visible notification and schedules its expiry.
func (m *Model) Show(n mv.Notification) tea.Cmd {
	m.current = &n
	m.seq++
	seq := m.seq
	return tea.Tick(m.ttl, func(time.Time) tea.Msg { return ExpireMsg{seq: seq} })
}

// Update hides the toast when its expiry arrives. Older expiries are ignored.
func (m *Model) Update(msg tea.Msg) {
	if e, ok := msg.(ExpireMsg); ok && e.seq == m.seq {
		m.current = nil
	}
}

// Current returns the visible notification.
func (m *Model) Current() (mv.Notification, bool) {
	if m.current == nil {
		return mv.Notification{}, false
	}
	return *m.current, true
}

// View renders "title: message" or nothing.
func (m *Model) View() string {
	if m.current == nil {
		return ""
	}
	style := m.theme.Success
	if m.current.Kind == mv.KindError {
		style = m.theme.Error
	}
	return style.Render(m.current.Title+": ") + m.current.Message
}
