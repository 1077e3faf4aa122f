package overlay

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/muesli/reflow/ansi"
)

func stripANSI(s string) string {
	var b strings.Builder
	inSeq := false
	for _, r := range s {
		switch {
		case r == ansi.Marker:
			inSeq = true
		case inSeq:
			inSeq = !ansi.IsTerminator(r)
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func TestComposeCentersForeground(t *testing.T) {
	bg := strings.Repeat("..........\n", 5)
	got := Compose(strings.TrimSuffix(bg, "\n"), 10, 5, "XX\nXX", Placement{
		Horizontal: lipgloss.Center,
		Vertical:   lipgloss.Center,
	})
	lines := strings.Split(got, "\n")
	if len(lines) != 5 {
		t.Fatalf("expected 5 lines, got %d", len(lines))
	}
	if lines[0] != ".........." {
		t.Fatalf("background row changed: %q", lines[0])
	}
	if lines[1] != "....XX...." || lines[2] != "....XX...." {
		t.Fatalf("foreground not centred:\n%s", got)
	}
}

func TestComposeLeftTopWithMargins(t *testing.T) {
	got := Compose("abcdef\nabcdef\nabcdef", 6, 3, "Z", Placement{
		Horizontal: lipgloss.Left,
		Vertical:   lipgloss.Top,
		MarginX:    1,
		MarginY:    1,
	})
	lines := strings.Split(got, "\n")
	if lines[1] != "aZcdef" {
		t.Fatalf("unexpected placement: %q", lines[1])
	}
}

func TestComposeKeepsBackgroundStylesOutsideOverlay(t *testing.T) {
	bg := lipgloss.NewStyle().Bold(true).Render("abcdefgh")
	got := Compose(bg, 8, 1, "ZZ", Placement{Horizontal: lipgloss.Right})
	if plain := stripANSI(got); plain != "abcdefZZ" {
		t.Fatalf("foreground not at the right edge: %q", plain)
	}
}

func TestComposeWithoutForeground(t *testing.T) {
	got := Compose("hello", 8, 2, "", Placement{})
	if got != "hello   \n        " {
		t.Fatalf("unexpected padding: %q", got)
	}
}
