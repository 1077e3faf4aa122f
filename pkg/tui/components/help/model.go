package help

import (
	_ "embed"
	"strings"

	"github.com/charmbracelet/bubbles/v2/viewport"
	tea "github.com/charmbracelet/bubbletea/v2"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss/v2"

	"tableflip.dev/harmonizer/pkg/tui/ui"
)

//go:embed help.md
var helpMarkdown string

// Model renders the Glamour-based help overlay inside a bordered viewport.
type Model struct {
	viewport viewport.Model
	width    int
	height   int
	style    string

	frame lipgloss.Style
	err   error
}

var _ ui.Overlay = (*Model)(nil)

// New constructs a help overlay. Plain selects the colourless glamour style.
func New(width, height int, plain bool) *Model {
	vp := viewport.New(
		viewport.WithWidth(max(width, 1)),
		viewport.WithHeight(max(height, 1)),
	)
	vp.MouseWheelEnabled = true
	style := "dark"
	if plain {
		style = "notty"
	}
	model := &Model{
		viewport: vp,
		style:    style,
		frame:    lipgloss.NewStyle().Border(lipgloss.RoundedBorder()),
	}
	model.SetSize(width, height)
	return model
}

// Init implements ui.Overlay.
func (m *Model) Init() tea.Cmd { return nil }

// Update closes on esc, q or ? and forwards scrolling to the viewport.
func (m *Model) Update(msg tea.Msg) (ui.Overlay, tea.Cmd) {
	if key, ok := msg.(tea.KeyPressMsg); ok {
		switch key.String() {
		case "esc", "q", "?":
			return nil, nil
		}
	}
	vp, cmd := m.viewport.Update(msg)
	m.viewport = vp
	return m, cmd
}

// View renders the help content inside a rounded frame.
func (m *Model) View() (string, *tea.Cursor) {
	body := m.viewport.View()
	if body == "" && m.err != nil {
		body = "help unavailable: " + m.err.Error()
	}
	return m.frame.Width(m.width).Height(m.height).Render(body), nil
}

// SetSize configures the overlay dimensions and re-renders the markdown to fit.
func (m *Model) SetSize(width, height int) {
	width = max(width, 32)
	height = max(height, 8)
	if m.width == width && m.height == height {
		return
	}
	m.width = width
	m.height = height

	innerWidth := max(width-m.frame.GetHorizontalFrameSize(), 1)
	innerHeight := max(height-m.frame.GetVerticalFrameSize(), 1)
	m.viewport.SetWidth(innerWidth)
	m.viewport.SetHeight(innerHeight)
	m.render(innerWidth)
}

func (m *Model) render(wrap int) {
	renderer, err := glamour.NewTermRenderer(
		glamour.WithStandardStyle(m.style),
		glamour.WithWordWrap(max(wrap, 10)),
	)
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	content, err := renderer.Render(strings.TrimSpace(helpMarkdown))
	if err != nil {
		m.err = err
		m.viewport.SetContent("help unavailable: " + err.Error())
		return
	}
	m.err = nil
	m.viewport.SetContent(content)
	m.viewport.SetYOffset(0)
}
