package theme

import (
	"image/color"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/lucasb-eyer/go-colorful"
	"github.com/muesli/termenv"

	"tableflip.dev/harmonizer/pkg/printers"
)

// Theme centralizes Lip Gloss styles for the Bubble Tea UI.
type Theme struct {
	Grid   GridTheme
	Footer FooterTheme
	Toast  ToastTheme
	Modal  ModalTheme

	// Palette colours cards by module; see CardColor.
	Palette []color.Color
	// Plain disables colour, honouring NO_COLOR.
	Plain bool
}

// GridTheme styles the weekly grid.
type GridTheme struct {
	Header     lipgloss.Style
	SlotLabel  lipgloss.Style
	Cell       lipgloss.Style
	Cursor     lipgloss.Style
	Drop       lipgloss.Style
	DropBlock  lipgloss.Style
	Card       lipgloss.Style
	Selected   lipgloss.Style
	Grabbed    lipgloss.Style
	Overflow   lipgloss.Style
	EmptyState lipgloss.Style
}

// FooterTheme groups styles used by the bottom status bar.
type FooterTheme struct {
	Help   lipgloss.Style
	Status lipgloss.Style
	Filter lipgloss.Style
	Key    lipgloss.Style
}

// ToastTheme styles notifications.
type ToastTheme struct {
	Success lipgloss.Style
	Error   lipgloss.Style
}

// ModalTheme styles centered modal overlays such as the room picker.
type ModalTheme struct {
	Frame    lipgloss.Style
	Title    lipgloss.Style
	Body     lipgloss.Style
	Warning  lipgloss.Style
	Disabled lipgloss.Style
}

// Default returns the built-in theme, without colour when NO_COLOR is set.
func Default() Theme {
	if termenv.EnvNoColor() {
		return Monochrome()
	}
	accent := lipgloss.Color("212")
	subtle := lipgloss.Color("244")

	return Theme{
		Grid: GridTheme{
			Header:     lipgloss.NewStyle().Bold(true).Foreground(accent),
			SlotLabel:  lipgloss.NewStyle().Foreground(subtle),
			Cell:       lipgloss.NewStyle().Border(lipgloss.NormalBorder()).BorderForeground(lipgloss.Color("238")),
			Cursor:     lipgloss.NewStyle().Border(lipgloss.ThickBorder()).BorderForeground(accent),
			Drop:       lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("42")),
			DropBlock:  lipgloss.NewStyle().Border(lipgloss.DoubleBorder()).BorderForeground(lipgloss.Color("196")),
			Card:       lipgloss.NewStyle(),
			Selected:   lipgloss.NewStyle().Reverse(true),
			Grabbed:    lipgloss.NewStyle().Faint(true).Italic(true),
			Overflow:   lipgloss.NewStyle().Foreground(subtle).Italic(true),
			EmptyState: lipgloss.NewStyle().Foreground(subtle),
		},
		Footer: FooterTheme{
			Help:   lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
			Status: lipgloss.NewStyle().Foreground(subtle),
			Filter: lipgloss.NewStyle().Foreground(lipgloss.Color("81")),
			Key:    lipgloss.NewStyle().Foreground(accent).Bold(true),
		},
		Toast: ToastTheme{
			Success: lipgloss.NewStyle().Foreground(lipgloss.Color("42")).Bold(true),
			Error:   lipgloss.NewStyle().Foreground(lipgloss.Color("196")).Bold(true),
		},
		Modal: ModalTheme{
			Frame: lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				BorderForeground(accent).
				Padding(1, 2),
			Title:    lipgloss.NewStyle().Bold(true),
			Body:     lipgloss.NewStyle(),
			Warning:  lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true),
			Disabled: lipgloss.NewStyle().Faint(true),
		},
		Palette: Palette(printers.PaletteSize),
	}
}

// Monochrome keeps the layout of Default with attributes only.
func Monochrome() Theme {
	plain := lipgloss.NewStyle()
	return Theme{
		Grid: GridTheme{
			Header:     plain.Bold(true),
			SlotLabel:  plain,
			Cell:       plain.Border(lipgloss.NormalBorder()),
			Cursor:     plain.Border(lipgloss.ThickBorder()),
			Drop:       plain.Border(lipgloss.DoubleBorder()),
			DropBlock:  plain.Border(lipgloss.DoubleBorder()),
			Card:       plain,
			Selected:   plain.Reverse(true),
			Grabbed:    plain.Faint(true),
			Overflow:   plain.Italic(true),
			EmptyState: plain,
		},
		Footer: FooterTheme{Help: plain, Status: plain, Filter: plain, Key: plain.Bold(true)},
		Toast:  ToastTheme{Success: plain.Bold(true), Error: plain.Bold(true)},
		Modal: ModalTheme{
			Frame:    plain.Border(lipgloss.RoundedBorder()).Padding(1, 2),
			Title:    plain.Bold(true),
			Body:     plain,
			Warning:  plain.Bold(true),
			Disabled: plain.Faint(true),
		},
		Plain: true,
	}
}

// Palette spreads n hues evenly around the HSL wheel at a lightness that
// reads on dark terminals.
func Palette(n int) []color.Color {
	out := make([]color.Color, n)
	for i := range out {
		out[i] = colorful.Hsl(float64(i)*360/float64(n), 0.6, 0.65).Clamped()
	}
	return out
}

// CardColor is the stable colour of a module, matching the CLI palette index.
func (t Theme) CardColor(module string) color.Color {
	if len(t.Palette) == 0 {
		return nil
	}
	return t.Palette[printers.PaletteIndex(module)%len(t.Palette)]
}

// CardStyle returns the card style tinted for module.
func (t Theme) CardStyle(module string) lipgloss.Style {
	if c := t.CardColor(module); c != nil {
		return t.Grid.Card.Foreground(c)
	}
	return t.Grid.Card
}
