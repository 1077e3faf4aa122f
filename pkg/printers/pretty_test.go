package printers

import (
	"bytes"
	"strings"
	"testing"

	"github.com/fatih/color"

	"tableflip.dev/harmonizer/pkg/move"
	"tableflip.dev/harmonizer/pkg/session"
)

func init() {
	color.NoColor = true
}

func TestPaletteIndexStable(t *testing.T) {
	for _, s := range session.Demo() {
		i := PaletteIndex(s.Module)
		if i < 0 || i >= PaletteSize {
			t.Fatalf("index %d out of range for %q", i, s.Module)
		}
		if PaletteIndex(s.Module) != i {
			t.Fatalf("index not stable for %q", s.Module)
		}
	}
	if PaletteIndex("") != 0 {
		t.Fatalf("empty name should map to 0")
	}
}

func TestWeekListsEverySession(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Week(session.Demo())
	out := buf.String()
	for _, want := range []string{"Lundi", "Samedi", "08:30 - 11:00", "Mathematics", "Biology"} {
		if !strings.Contains(out, want) {
			t.Fatalf("expected %q in\n%s", want, out)
		}
	}
}

func TestSessionsEmpty(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Sessions(nil)
	if !strings.Contains(buf.String(), "none") {
		t.Fatalf("expected none marker, got %q", buf.String())
	}
}

func TestNotification(t *testing.T) {
	var buf bytes.Buffer
	pp := PrettyPrint{Out: &buf}
	pp.Notification(move.Notification{Kind: move.KindSuccess, Title: "Session moved", Message: "ok"})
	if got := buf.String(); got != "Session moved: ok\n" {
		t.Fatalf("unexpected output %q", got)
	}
}

func TestEncodeYAML(t *testing.T) {
	var buf bytes.Buffer
	if err := Encode(&buf, OutputYAML, session.Demo()[:1]); err != nil {
		t.Fatalf("encode: %v", err)
	}
	if !strings.Contains(buf.String(), "formateur: Prof. Smith") {
		t.Fatalf("unexpected yaml %q", buf.String())
	}
	if err := ValidateOutput("xml"); err == nil {
		t.Fatalf("expected error for xml")
	}
}
