// Package filterbar renders the active filters and key hints under the grid.
package filterbar

import (
	"fmt"
	"strings"

	"github.com/muesli/reflow/truncate"

	"tableflip.dev/harmonizer/pkg/filter"
	"tableflip.dev/harmonizer/pkg/tui/theme"
)

type hint struct {
	key  string
	desc string
}

var normalHints = []hint{
	{"space", "grab"},
	{"f/g/r", "filter"},
	{"x", "clear"},
	{"R", "reload"},
	{"?", "help"},
	{"q", "quit"},
}

var grabHints = []hint{
	{"arrows", "carry"},
	{"enter", "drop"},
	{"esc", "put back"},
}

// Model is a two line footer: filters and status, then key hints.
type Model struct {
	theme    theme.FooterTheme
	width    int
	filters  []filter.Filter
	status   string
	grabbing bool
}

// New constructs an empty footer.
func New(th theme.FooterTheme) *Model {
	return &Model{theme: th}
}

// SetWidth bounds the rendered lines.
func (m *Model) SetWidth(w int) { m.width = w }

// SetFilters records the active filters.
func (m *Model) SetFilters(f []filter.Filter) { m.filters = f }

// SetStatus sets the right-hand status text.
func (m *Model) SetStatus(s string) { m.status = s }

// Status returns the status text.
func (m *Model) Status() string { return m.status }

// SetGrabbing switches the key hints to the carrying set.
func (m *Model) SetGrabbing(g bool) { m.grabbing = g }

// View renders the footer.
func (m *Model) View() string {
	parts := make([]string, 0, len(m.filters))
	for _, f := range m.filters {
		parts = append(parts, fmt.Sprintf("%s: %s", f.Field.Label(), f.Value))
	}
	first := "All sessions"
	if len(parts) > 0 {
		first = strings.Join(parts, " · ")
	}
	line := m.theme.Filter.Render(first)
	if m.status != "" {
		line += m.theme.Status.Render("  " + m.status)
	}

	hints := normalHints
	if m.grabbing {
		hints = grabHints
	}
	keys := make([]string, len(hints))
	for i, h := range hints {
		keys[i] = m.theme.Key.Render(h.key) + " " + m.theme.Help.Render(h.desc)
	}
	help := strings.Join(keys, "  ")

	if m.width > 0 {
		line = truncate.StringWithTail(line, uint(m.width), "…")
		help = truncate.StringWithTail(help, uint(m.width), "…")
	}
	return line + "\n" + help
}
