package overlay

import (
	"strings"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
	"github.com/muesli/reflow/truncate"
)

// Placement controls overlay alignment. Positions are lipgloss positions;
// margins apply to the Left/Top and Right/Bottom edges.
type Placement struct {
	Horizontal lipgloss.Position
	Vertical   lipgloss.Position
	MarginX    int
	MarginY    int
}

// Compose draws foreground over background, a width x height surface, and
// keeps the background visible around it.
func Compose(background string, width, height int, foreground string, placement Placement) string {
	bg := normalize(background, width, height)
	if foreground == "" || width <= 0 || height <= 0 {
		return strings.Join(bg, "\n")
	}

	fg := strings.Split(foreground, "\n")
	fgWidth := 0
	for _, line := range fg {
		if w := ansi.PrintableRuneWidth(line); w > fgWidth {
			fgWidth = w
		}
	}
	fgWidth = min(fgWidth, width)
	fgHeight := min(len(fg), height)

	x := offset(placement.Horizontal, width, fgWidth, placement.MarginX)
	y := offset(placement.Vertical, height, fgHeight, placement.MarginY)

	for row := 0; row < fgHeight; row++ {
		line := bg[y+row]
		left := truncate.String(line, uint(x))
		right := skip(line, x+fgWidth)
		bg[y+row] = left + pad(truncate.String(fg[row], uint(fgWidth)), fgWidth) + right
	}
	return strings.Join(bg, "\n")
}

func normalize(view string, width, height int) []string {
	lines := strings.Split(view, "\n")
	if len(lines) > height {
		lines = lines[:height]
	}
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		lines[i] = pad(truncate.String(line, uint(width)), width)
	}
	return lines
}

func pad(s string, width int) string {
	if w := ansi.PrintableRuneWidth(s); w < width {
		return s + strings.Repeat(" ", width-w)
	}
	return s
}

// skip drops the first n printable cells of s. When an escape sequence is
// dropped with them a reset is emitted so styles do not bleed.
func skip(s string, n int) string {
	var b strings.Builder
	seen := 0
	inSeq, dropped := false, false
	for _, r := range s {
		if r == ansi.Marker {
			inSeq = true
		}
		if inSeq {
			if seen >= n {
				b.WriteRune(r)
			} else {
				dropped = true
			}
			if ansi.IsTerminator(r) {
				inSeq = false
			}
			continue
		}
		if seen >= n {
			b.WriteRune(r)
			continue
		}
		seen += ansi.PrintableRuneWidth(string(r))
	}
	if b.Len() == 0 || !dropped {
		return b.String()
	}
	return "\x1b[0m" + b.String()
}

func offset(pos lipgloss.Position, total, size, margin int) int {
	var o int
	switch pos {
	case lipgloss.Left:
		o = margin
	case lipgloss.Right:
		o = total - size - margin
	default:
		o = (total - size) / 2
	}
	return max(0, min(o, total-size))
}
